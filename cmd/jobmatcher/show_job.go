package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillbridge/jobmatcher/internal/db"
)

var showJobCmd = &cobra.Command{
	Use:   "show-job",
	Short: "Print a job posting, optionally transitioning its status",
	RunE:  runShowJob,
}

var (
	showJobSlug   string
	showJobStatus string
)

func init() {
	showJobCmd.Flags().StringVar(&showJobSlug, "slug", "", "job posting slug (required)")
	showJobCmd.Flags().StringVar(&showJobStatus, "set-status", "",
		"new status: open, in_progress or completed")
	showJobCmd.MarkFlagRequired("slug")

	rootCmd.AddCommand(showJobCmd)
}

func runShowJob(cmd *cobra.Command, args []string) error {
	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	job, err := app.store.GetJobPostingBySlug(cmd.Context(), showJobSlug)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job posting not found: %s", showJobSlug)
	}

	if showJobStatus != "" {
		switch showJobStatus {
		case db.JobStatusOpen, db.JobStatusInProgress, db.JobStatusCompleted:
		default:
			return fmt.Errorf("invalid status %q: must be open, in_progress or completed", showJobStatus)
		}
		if err := app.store.UpdateJobStatus(cmd.Context(), job.ID, showJobStatus); err != nil {
			return err
		}
		job.Status = showJobStatus
	}

	fmt.Fprintf(os.Stdout, "%s (%s)\n", job.Title, job.CompanyName)
	fmt.Fprintf(os.Stdout, "  status:   %s\n", job.Status)
	fmt.Fprintf(os.Stdout, "  location: %s\n", job.Location)
	fmt.Fprintf(os.Stdout, "  source:   %s\n", job.Source)
	if job.ExternalLink != "" {
		fmt.Fprintf(os.Stdout, "  link:     %s\n", job.ExternalLink)
	}
	if len(job.Tags) > 0 {
		fmt.Fprintf(os.Stdout, "  tags:     %s\n", strings.Join(job.Tags, ", "))
	}
	return nil
}
