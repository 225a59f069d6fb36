package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCVCmd = &cobra.Command{
	Use:   "show-cv",
	Short: "Print a CV document and its extracted entities",
	RunE:  runShowCV,
}

var showCVID string

func init() {
	showCVCmd.Flags().StringVar(&showCVID, "cv", "", "CV ID (required)")
	showCVCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(showCVCmd)
}

func runShowCV(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(showCVID)
	if err != nil {
		return fmt.Errorf("invalid cv id %q: %w", showCVID, err)
	}

	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	cv, err := app.store.GetCVDocument(ctx, id)
	if err != nil {
		return err
	}
	if cv == nil {
		return fmt.Errorf("cv document not found: %s", id)
	}

	fmt.Fprintf(os.Stdout, "%s  status=%s parsed=%t\n", cv.OriginalFilename, cv.Status, cv.IsParsed)

	skills, err := app.store.CVSkillNames(ctx, id)
	if err != nil {
		return err
	}
	if len(skills) > 0 {
		fmt.Fprintf(os.Stdout, "  skills: %s\n", strings.Join(skills, ", "))
	}

	education, err := app.store.CVEducation(ctx, id)
	if err != nil {
		return err
	}
	for _, edu := range education {
		fmt.Fprintf(os.Stdout, "  education: %s | %s | %s\n", edu.Institution, edu.Degree, edu.Years)
	}

	experience, err := app.store.CVWorkExperience(ctx, id)
	if err != nil {
		return err
	}
	for _, exp := range experience {
		fmt.Fprintf(os.Stdout, "  work: %s | %s | %s\n", exp.Company, exp.Title, exp.Duration)
	}

	contact, err := app.store.CVContactInfo(ctx, id)
	if err != nil {
		return err
	}
	if contact != nil {
		fmt.Fprintf(os.Stdout, "  contact: %s %s\n", contact.Email, contact.Phone)
	}
	return nil
}
