package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rickgao/longbox/internal/wantlist"
)

var wantCmd = &cobra.Command{
	Use:   "want",
	Short: "Manage want-list items",
}

var wantAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a want-list item from a JSON body",
	Long: `Add a want-list item. The body is read from --json or stdin, e.g.
  {"seriesName": "Amazing Spider-Man", "issueNumber": 300, "targetMaxPrice": 500}`,
	Args: cobra.NoArgs,
	RunE: runWantAdd,
}

var wantMatchesCmd = &cobra.Command{
	Use:   "matches [item-id]",
	Short: "List matches found for a want-list item",
	Args:  cobra.ExactArgs(1),
	RunE:  runWantMatches,
}

func init() {
	wantAddCmd.Flags().String("json", "", "Item body; read from stdin when empty")
	wantCmd.AddCommand(wantAddCmd, wantMatchesCmd)
	rootCmd.AddCommand(wantCmd)
}

func runWantAdd(cmd *cobra.Command, args []string) error {
	body, _ := cmd.Flags().GetString("json")
	raw := []byte(body)
	if body == "" {
		var err error
		if raw, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return writeEnvelope(os.Stdout, nil, fmt.Errorf("read stdin: %w", err))
		}
	}

	in, err := wantlist.ParseItemInput(raw)
	if err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}
	defer a.Close()

	item := in.NewItem(time.Now().UTC())
	if err := a.store.CreateItem(cmd.Context(), item); err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}
	return writeEnvelope(os.Stdout, map[string]string{"id": item.ID.String(), "query": item.Query()}, nil)
}

func runWantMatches(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return writeEnvelope(os.Stdout, nil, fmt.Errorf("invalid item id %q: %w", args[0], err))
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return writeEnvelope(os.Stdout, nil, err)
	}
	defer a.Close()

	if _, err := a.store.GetItem(cmd.Context(), id); err != nil {
		if errors.Is(err, wantlist.ErrNotFound) {
			err = fmt.Errorf("item %s: %w", id, err)
		}
		return writeEnvelope(os.Stdout, nil, err)
	}

	matches, err := a.store.Matches(cmd.Context(), id)
	return writeEnvelope(os.Stdout, matches, err)
}
