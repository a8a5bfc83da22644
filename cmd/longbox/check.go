package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [item-id]",
	Short: "Run a want-list check for all active items or one item",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	var target *uuid.UUID
	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return writeEnvelope(os.Stdout, nil, fmt.Errorf("invalid item id %q: %w", args[0], err))
		}
		target = &id
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}
	defer a.Close()

	res, err := a.matcher.RunCheck(cmd.Context(), target)
	return writeEnvelope(os.Stdout, res, err)
}
