// Package main provides the entry point for the job search assistant: an
// interactive shell, a one-shot search command and the REST API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_assistant",
	Short: "Job search assistant",
	Long: "Job search assistant keeps a resume, searches job listings, saves the interesting ones " +
		"and tailors the resume to a selected listing, from a shell or over a REST API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON or YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&sourceFlag, "source", nil, "Search sources to query in order (static, file, postgres, html)")
	rootCmd.PersistentFlags().StringVar(&tailorFlag, "tailor", "", "Tailoring generator (template or llm)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
