package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"prodid/internal/identify"
	"prodid/internal/pipeline"
)

func printJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderIdentifyResults(w io.Writer, views []pipeline.ItemView) {
	headers := []string{"Item", "Status", "Best guess", "Brand", "Category", "Confidence", "Band"}
	rows := make([][]string, 0, len(views))
	for _, view := range views {
		row := []string{view.ItemID, string(view.Status), "", "", "", "", ""}
		if view.Best != nil {
			row[2] = view.Best.Name
			row[3] = view.Best.Brand
			row[4] = string(view.Best.Category)
			row[5] = formatConfidence(view.Best.Confidence)
			row[6] = string(view.Band)
		} else if view.Error != "" {
			row[2] = view.Error
		} else {
			row[2] = "(no candidate)"
		}
		rows = append(rows, row)
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))

	for _, view := range views {
		if len(view.Questions) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s needs clarification:\n", view.ItemID)
		for _, q := range view.Questions {
			fmt.Fprintf(w, "  %s\n", q.Question)
			for _, opt := range q.Options {
				fmt.Fprintf(w, "    - %s\n", opt)
			}
		}
	}
}

func renderProducts(w io.Writer, products []identify.IdentifiedProduct) {
	headers := []string{"Name", "Brand", "Category", "Confidence", "Band", "Reasoning"}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Name,
			p.Brand,
			string(p.Category),
			formatConfidence(p.Confidence),
			string(identify.BandFor(p.Confidence)),
			p.Reasoning,
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))
}

func formatConfidence(value float64) string {
	return strconv.FormatFloat(value*100, 'f', 0, 64) + "%"
}
