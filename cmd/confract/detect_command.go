package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/confract/internal/core/domain"
	"github.com/kirillkom/confract/internal/core/render"
	"github.com/kirillkom/confract/internal/core/textutil"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var docPaths []string

	cmd := &cobra.Command{
		Use:   "detect --doc a.md [--doc b.md ...] [file]",
		Short: "Pick the stored document the input belongs to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			docs := make([]domain.Document, 0, len(docPaths))
			for _, path := range docPaths {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				doc, err := render.ParseMarkdown(string(raw))
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				docs = append(docs, doc)
			}

			input = textutil.Truncate(input, ctx.cfg.DetectInputMaxChars)
			result := ctx.detector.DetectMatch(cmd.Context(), input, docs)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().StringArrayVar(&docPaths, "doc", nil, "Markdown export of a candidate document (repeatable)")
	return cmd
}
