package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build and send the daily digest once",
	RunE:  runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	runner := &digestRunner{cfg: cfg}
	digest, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("total today=%d actionable=%d\n", digest.TotalToday, len(digest.Actionable))
	return nil
}
