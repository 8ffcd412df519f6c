package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"prodid/internal/api"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		hintFlag string
		jsonFlag bool
	)

	cmd := &cobra.Command{
		Use:   "extract [transcript-file]",
		Short: "Extract product mentions from a transcript",
		Long: `Extract reads a transcript from the given file, or from stdin when no
file (or "-") is supplied, and lists the concrete products it mentions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTranscript(args)
			if err != nil {
				return err
			}
			rt, err := ctx.buildRuntime(true)
			if err != nil {
				return err
			}
			defer rt.close()

			resp, err := rt.service.ExtractProductsFromText(cmd.Context(), api.ExtractProductsRequest{
				Text:       text,
				DomainHint: hintFlag,
			})
			if err != nil {
				return err
			}
			if jsonFlag {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			out := cmd.OutOrStdout()
			if resp.Category != "" {
				fmt.Fprintf(out, "Category: %s\n", resp.Category)
			}
			if len(resp.Products) == 0 {
				fmt.Fprintln(out, "No products found.")
				return nil
			}
			renderProducts(out, resp.Products)
			return nil
		},
	}

	cmd.Flags().StringVar(&hintFlag, "hint", "", "Domain hint (e.g. golf, tech)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")

	return cmd
}

func readTranscript(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", args[0], err)
	}
	return string(data), nil
}
