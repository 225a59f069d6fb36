package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find embedding matches for a profile or a job",
	RunE:  runMatch,
}

var (
	matchProfileID string
	matchJobID     string
	matchLimit     int
)

func init() {
	matchCmd.Flags().StringVar(&matchProfileID, "profile", "", "Profile ID to match against jobs")
	matchCmd.Flags().StringVar(&matchJobID, "job", "", "Job ID to match against profiles")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "Maximum matches to return")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if (matchProfileID == "") == (matchJobID == "") {
		return fmt.Errorf("provide exactly one of --profile or --job")
	}

	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if app.matcher == nil {
		return fmt.Errorf("embedding matches are disabled: no GEMINI_API_KEY configured")
	}

	if matchProfileID != "" {
		id, err := uuid.Parse(matchProfileID)
		if err != nil {
			return fmt.Errorf("invalid profile id %q: %w", matchProfileID, err)
		}
		matches, err := app.matcher.MatchProfileToJobs(cmd.Context(), id, matchLimit)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintf(os.Stdout, "%s  %-40s  %-20s  %.3f\n", m.JobID, m.Title, m.Company, m.MatchScore)
		}
		return nil
	}

	id, err := uuid.Parse(matchJobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", matchJobID, err)
	}
	matches, err := app.matcher.MatchJobToProfiles(cmd.Context(), id, matchLimit)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%s  %-30s  %.3f\n", m.ProfileID, m.FullName, m.MatchScore)
	}
	return nil
}
