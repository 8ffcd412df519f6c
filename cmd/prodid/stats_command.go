package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"prodid/internal/learned"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learned-product and telemetry aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime(true)
			if err != nil {
				return err
			}
			defer rt.close()

			resp, err := rt.service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			// Piped output gets JSON so dashboards can consume it directly.
			if jsonFlag || !isatty.IsTerminal(os.Stdout.Fd()) {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			renderStats(cmd, resp.Stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")
	return cmd
}

func renderStats(cmd *cobra.Command, stats *learned.Stats) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Learned products: %d (%d sightings)\n", stats.LearnedProducts, stats.TotalSightings)
	fmt.Fprintf(out, "Corrections:      %d\n", stats.Corrections)
	fmt.Fprintf(out, "Avg confidence:   %.2f\n\n", stats.AverageConfidence)

	if len(stats.TopProducts) > 0 {
		headers := []string{"Brand", "Name", "Category", "Seen", "Last seen"}
		rows := make([][]string, 0, len(stats.TopProducts))
		for _, p := range stats.TopProducts {
			rows = append(rows, []string{
				p.Brand,
				p.Name,
				p.Category,
				fmt.Sprintf("%d", p.OccurrenceCount),
				p.LastSeenAt.Format(time.DateOnly),
			})
		}
		aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	}

	renderBreakdown(cmd, "Decisions by action", stats.EventsByAction)
	renderBreakdown(cmd, "Events by stage", stats.EventsByStage)
	renderBreakdown(cmd, "Events by status", stats.EventsByStatus)
	renderBreakdown(cmd, "Corrections by field", stats.CorrectionsByField)
}

func renderBreakdown(cmd *cobra.Command, title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, fmt.Sprintf("%d", counts[key])})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", title)
	fmt.Fprintln(out, renderTable([]string{"Key", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
