package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/render"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var existingPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Structure raw text into a Markdown document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var existing *domain.Document
			if existingPath != "" {
				raw, err := os.ReadFile(existingPath)
				if err != nil {
					return fmt.Errorf("read existing document: %w", err)
				}
				doc, err := render.ParseMarkdown(string(raw))
				if err != nil {
					return err
				}
				existing = &doc
			}

			result, err := ctx.processor.Process(cmd.Context(), input, existing)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			_, err = fmt.Fprint(out, result.Markdown)
			return err
		},
	}

	cmd.Flags().StringVar(&existingPath, "existing", "", "Markdown export of a document to merge into")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}
