package main

import (
	"log/slog"
	"os"

	"github.com/jo-hoe/gobeautify/internal/logging"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gobeautify",
	Short: "Upload images, fetch them back and run them through the beautify pipeline",
}

func Execute() {
	slog.SetDefault(logging.CreateLogger(os.Stderr, logging.LevelFromEnv("info")))
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}
