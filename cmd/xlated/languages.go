package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xlate/xlate"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "Print the supported language catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, lang := range xlate.Languages() {
				fmt.Fprintln(cmd.OutOrStdout(), lang)
			}
		},
	}
}
