package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rebuildEmbeddingsCmd = &cobra.Command{
	Use:   "rebuild-embeddings",
	Short: "Re-embed every job posting and profile",
	RunE:  runRebuildEmbeddings,
}

func init() {
	rootCmd.AddCommand(rebuildEmbeddingsCmd)
}

func runRebuildEmbeddings(cmd *cobra.Command, args []string) error {
	app, err := buildApplication(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	if app.matcher == nil {
		return fmt.Errorf("embedding matches are disabled: no GEMINI_API_KEY configured")
	}

	if err := app.matcher.RebuildAllEmbeddings(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Embeddings rebuilt")
	return nil
}
