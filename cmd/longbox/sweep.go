package main

import (
	"os"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired durable cache entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return writeEnvelope(os.Stdout, nil, err)
		}
		defer a.Close()

		n, err := a.cache.SweepExpired(cmd.Context())
		return writeEnvelope(os.Stdout, map[string]int64{"removed": n}, err)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
