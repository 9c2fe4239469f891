package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/confract/internal/core/taxonomy"
	"github.com/kirillkom/confract/internal/core/textutil"
)

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <title>",
		Short: "Show the media category of a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			_, err := fmt.Fprintln(cmd.OutOrStdout(), taxonomy.LookupMedia(textutil.Normalize(title)))
			return err
		},
	}
}
