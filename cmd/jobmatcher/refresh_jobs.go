package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var refreshJobsCmd = &cobra.Command{
	Use:   "refresh-jobs",
	Short: "Fetch and ingest job postings from all sources once",
	RunE:  runRefreshJobs,
}

func init() {
	rootCmd.AddCommand(refreshJobsCmd)
}

func runRefreshJobs(cmd *cobra.Command, args []string) error {
	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	saved, err := app.app.RefreshJobs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to refresh jobs: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Ingested %d new job postings\n", saved)
	return nil
}
