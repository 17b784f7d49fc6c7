package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the email processing pipeline once",
	RunE:  runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	runner := &pollRunner{cfg: cfg}
	res, err := runner.Process(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("processed=%d skipped=%d total=%d\n", res.Processed, res.Skipped, res.Total)
	return nil
}
