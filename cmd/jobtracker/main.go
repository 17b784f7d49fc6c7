// Package main provides the entry point for the job application tracker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtracker",
	Short: "Job application tracker",
	Long: "Job tracker scans a Gmail inbox for job-application emails, extracts structured " +
		"records with a language model, appends them to a record store, and posts a daily " +
		"digest to Discord.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
