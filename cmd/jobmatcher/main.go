// Package main provides the entry point for the job matching pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobmatcher",
	Short: "Job discovery and matching pipeline",
	Long:  "jobmatcher aggregates job postings from external sources, parses uploaded CVs, and matches candidates to jobs via TF-IDF recommendations and embedding similarity.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
