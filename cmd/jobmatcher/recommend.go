package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate TF-IDF recommendations for a CV",
	RunE:  runRecommend,
}

var recommendCVID string

func init() {
	recommendCmd.Flags().StringVar(&recommendCVID, "cv", "", "CV ID to recommend jobs for (required)")
	recommendCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(recommendCVID)
	if err != nil {
		return fmt.Errorf("invalid cv id %q: %w", recommendCVID, err)
	}

	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	recs, err := app.recommender.Recommend(cmd.Context(), id, app.cfg.RecommendLimit)
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "No recommendations above the score threshold")
		return nil
	}

	// Read back the persisted rows so the output reflects what was stored.
	stored, err := app.store.ListRecommendations(cmd.Context(), id)
	if err != nil {
		return err
	}
	for _, rec := range stored {
		job, err := app.store.GetJobPostingByID(cmd.Context(), rec.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			continue
		}
		fmt.Fprintf(os.Stdout, "%5.1f  %s (%s)\n", rec.MatchScore, job.Title, job.CompanyName)
	}
	return nil
}
