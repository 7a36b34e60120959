package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search-assistant/internal/observability"
	"github.com/jonathan/job-search-assistant/internal/session"
)

var (
	searchJSON    bool
	searchTimeout time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Print the listings the configured sources return for a query",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print listings as a JSON array")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "Give up after this long")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	source, closeSource, err := buildSource(ctx, cfg)
	defer closeSource()
	if err != nil {
		return fmt.Errorf("failed to set up search: %w", err)
	}

	listings, err := source.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		if listings == nil {
			listings = []session.Listing{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listings)
	}
	observability.NewPrinter(out).PrintListings(listings)
	return nil
}
