package main

import (
	"os"

	"github.com/spf13/cobra"
)

var issueCmd = &cobra.Command{
	Use:   "issue [series] [issue]",
	Short: "Look up canonical issue records in the bibliographic sources",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return writeEnvelope(os.Stdout, nil, err)
		}
		defer a.Close()

		issues, err := a.catalog.LookupIssue(cmd.Context(), args[0], args[1])
		return writeEnvelope(os.Stdout, issues, err)
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
}
