package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"prodid/internal/pipeline"
	"prodid/internal/region"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		hintFlag    string
		textFlag    string
		tapFlag     string
		rectFlag    string
		displayFlag string
		jsonFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "identify [image-file...]",
		Short: "Identify the product in one or more image files",
		Long: `Identify runs the quick-identify pipeline over each image file.
A tap point or drag rectangle (in display coordinates) narrows the
identification to a region of the first image; without one the whole
image is used. With no files, --text identifies from a description alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && strings.TrimSpace(textFlag) == "" {
				return fmt.Errorf("provide at least one image file or --text")
			}
			rt, err := ctx.buildRuntime(true)
			if err != nil {
				return err
			}
			defer rt.close()

			inputs, err := buildIdentifyInputs(args, textFlag, hintFlag, tapFlag, rectFlag, displayFlag)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if len(inputs) > 1 && !jsonFlag {
				bar = progressbar.NewOptions(len(inputs),
					progressbar.OptionSetDescription("identifying"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
			}

			var views []pipeline.ItemView
			for _, input := range inputs {
				item := rt.runner.RunItem(cmd.Context(), input)
				views = append(views, item.Snapshot())
				if bar != nil {
					_ = bar.Add(1)
				}
			}
			if bar != nil {
				_ = bar.Finish()
			}

			if jsonFlag {
				return printJSON(cmd.OutOrStdout(), views)
			}
			renderIdentifyResults(cmd.OutOrStdout(), views)
			return nil
		},
	}

	cmd.Flags().StringVar(&hintFlag, "hint", "", "Category hint (e.g. golf, tech)")
	cmd.Flags().StringVar(&textFlag, "text", "", "Additional notes, or the sole input when no image is given")
	cmd.Flags().StringVar(&tapFlag, "tap", "", "Tap point as x,y in display coordinates")
	cmd.Flags().StringVar(&rectFlag, "rect", "", "Drag rectangle as x1,y1,x2,y2 in display coordinates")
	cmd.Flags().StringVar(&displayFlag, "display", "", "Display size as WxH; defaults to the image's natural size")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")

	return cmd
}

func buildIdentifyInputs(paths []string, text, hint, tap, rect, display string) ([]pipeline.ItemInput, error) {
	if len(paths) == 0 {
		return []pipeline.ItemInput{{Text: text, CategoryHint: hint}}, nil
	}
	inputs := make([]pipeline.ItemInput, 0, len(paths))
	for idx, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", path, err)
		}
		input := pipeline.ItemInput{
			ItemID:       path,
			SourceImage:  data,
			Text:         text,
			CategoryHint: hint,
		}
		// A selection only applies to the first image.
		if idx == 0 && (tap != "" || rect != "") {
			sel, err := buildSelection(data, tap, rect, display)
			if err != nil {
				return nil, err
			}
			input.Selection = sel
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func buildSelection(imageData []byte, tap, rect, display string) (*region.SelectionRegion, error) {
	naturalW, naturalH, err := region.Dimensions(imageData)
	if err != nil {
		return nil, err
	}
	geom := region.Geometry{
		DisplayWidth:  float64(naturalW),
		DisplayHeight: float64(naturalH),
		NaturalWidth:  naturalW,
		NaturalHeight: naturalH,
	}
	if display != "" {
		parts := strings.SplitN(display, "x", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --display %q: expected WxH", display)
		}
		w, errW := strconv.ParseFloat(parts[0], 64)
		h, errH := strconv.ParseFloat(parts[1], 64)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid --display %q: expected WxH", display)
		}
		geom.DisplayWidth = w
		geom.DisplayHeight = h
	}

	if tap != "" {
		coords, err := parseCoords(tap, 2, "--tap")
		if err != nil {
			return nil, err
		}
		sel, err := region.FromTap(coords[0], coords[1], geom)
		if err != nil {
			return nil, err
		}
		return &sel, nil
	}
	coords, err := parseCoords(rect, 4, "--rect")
	if err != nil {
		return nil, err
	}
	sel, err := region.FromDrag(coords[0], coords[1], coords[2], coords[3], geom)
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

func parseCoords(value string, count int, flag string) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != count {
		return nil, fmt.Errorf("invalid %s %q: expected %d comma-separated numbers", flag, value, count)
	}
	coords := make([]float64, count)
	for i, part := range parts {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", flag, value, err)
		}
		coords[i] = parsed
	}
	return coords, nil
}
