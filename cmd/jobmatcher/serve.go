package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and background pipeline",
	Long:  "Run the full pipeline: periodic job refresh, CV processing, embedding updates, batch matching, and cleanup, until interrupted.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, err := buildApplication(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.runner.Start(ctx); err != nil {
		return err
	}
	defer app.runner.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		app.logger.Info("shutting down on signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}
	return nil
}
