package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skillbridge/jobmatcher/internal/pipeline"
)

var uploadCVCmd = &cobra.Command{
	Use:   "upload-cv",
	Short: "Register a CV file for processing",
	RunE:  runUploadCV,
}

var (
	uploadOwnerID string
	uploadPath    string
)

func init() {
	uploadCVCmd.Flags().StringVar(&uploadOwnerID, "owner", "", "Owner user ID (required)")
	uploadCVCmd.Flags().StringVar(&uploadPath, "file", "", "Path to the CV file (required)")
	uploadCVCmd.MarkFlagRequired("owner")
	uploadCVCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(uploadCVCmd)
}

func runUploadCV(cmd *cobra.Command, args []string) error {
	ownerID, err := uuid.Parse(uploadOwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", uploadOwnerID, err)
	}
	data, err := os.ReadFile(uploadPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", uploadPath, err)
	}

	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	cv, err := app.store.CreateCVDocument(cmd.Context(), ownerID, filepath.Base(uploadPath))
	if err != nil {
		return err
	}
	files := pipeline.LocalFiles{Dir: app.cfg.CVUploadDir}
	if err := files.Write(cmd.Context(), cv, data); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Uploaded CV %s (status %s)\n", cv.ID, cv.Status)
	return nil
}
