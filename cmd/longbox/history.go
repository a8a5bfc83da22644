package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rickgao/longbox/internal/deal"
	"github.com/rickgao/longbox/internal/model"
)

var historyCmd = &cobra.Command{
	Use:   "history [series] [issue]",
	Short: "Show recent sale history, optionally scoring a price against it",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Float64("grade", 0, "Grade to restrict sales to (e.g. 9.8)")
	historyCmd.Flags().Float64("price", 0, "Score this total price against the history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	var grade *float64
	if cmd.Flags().Changed("grade") {
		g, _ := cmd.Flags().GetFloat64("grade")
		grade = &g
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}
	defer a.Close()

	h, err := a.history.History(cmd.Context(), args[0], args[1], grade)
	if err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}

	if !cmd.Flags().Changed("price") {
		return writeEnvelope(os.Stdout, h, nil)
	}

	price, _ := cmd.Flags().GetFloat64("price")
	listing := model.Listing{Price: price, TotalPrice: price}
	if grade != nil {
		listing.Meta.Grade = grade
	}
	score := deal.Score(listing, h)
	return writeEnvelope(os.Stdout, struct {
		History *model.PriceHistory `json:"history"`
		Deal    model.DealScore     `json:"deal"`
	}{h, score}, nil)
}
