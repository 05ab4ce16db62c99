package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"txlens/internal/report"
)

var hashCmd = &cobra.Command{
	Use:   "hash <report.json>",
	Short: "Print the workload-config hash of a report file",
	Long: `Parses a single report file and prints the sha256 hash of its workload
config block. Useful for checking which runs 'compare --match hash' would
consider identical.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		run, err := report.ParseReport(data, filepath.Base(path), path)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), run.WorkloadConfigHash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
