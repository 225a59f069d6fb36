package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skillbridge/jobmatcher/internal/pipeline"
)

var processCVsCmd = &cobra.Command{
	Use:   "process-cvs",
	Short: "Parse pending CVs and regenerate their recommendations",
	RunE:  runProcessCVs,
}

var (
	cvID      string
	batchSize int
)

func init() {
	processCVsCmd.Flags().StringVar(&cvID, "cv", "", "Process a single CV by ID instead of the pending batch")
	processCVsCmd.Flags().IntVar(&batchSize, "batch-size", pipeline.DefaultBatchSize, "Maximum CVs to pick up in one batch run")

	rootCmd.AddCommand(processCVsCmd)
}

func runProcessCVs(cmd *cobra.Command, args []string) error {
	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if cvID != "" {
		id, err := uuid.Parse(cvID)
		if err != nil {
			return fmt.Errorf("invalid cv id %q: %w", cvID, err)
		}
		if err := app.processor.ProcessCV(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Processed CV %s\n", id)
		return nil
	}

	stats, err := app.processor.ProcessPending(cmd.Context(), batchSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Processed %d CVs: %d succeeded, %d failed, %d skipped\n",
		stats.Processed, stats.Succeeded, stats.Failed, stats.Skipped)
	return nil
}
