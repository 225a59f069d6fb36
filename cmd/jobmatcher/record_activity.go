package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skillbridge/jobmatcher/internal/db"
)

var recordActivityCmd = &cobra.Command{
	Use:   "record-activity",
	Short: "Record a user interaction with a job posting",
	RunE:  runRecordActivity,
}

var (
	activityUserID string
	activityJobID  string
	activityType   string
)

func init() {
	recordActivityCmd.Flags().StringVar(&activityUserID, "user", "", "user ID (required)")
	recordActivityCmd.Flags().StringVar(&activityJobID, "job", "", "job posting ID (required)")
	recordActivityCmd.Flags().StringVar(&activityType, "type", "",
		"activity type: applied, saved or viewed (required)")
	recordActivityCmd.MarkFlagRequired("user")
	recordActivityCmd.MarkFlagRequired("job")
	recordActivityCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(recordActivityCmd)
}

func runRecordActivity(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(activityUserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", activityUserID, err)
	}
	jobID, err := uuid.Parse(activityJobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", activityJobID, err)
	}

	switch activityType {
	case db.ActivityApplied, db.ActivitySaved, db.ActivityViewed:
	default:
		return fmt.Errorf("invalid activity type %q: must be applied, saved or viewed", activityType)
	}

	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	return app.store.RecordActivity(cmd.Context(), userID, jobID, activityType)
}
