package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"txlens/internal/report"
	"txlens/internal/ui"
)

var (
	listWorkload   string
	listGenMode    string
	listVersion    string
	listByWorkload bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs in the reports directory",
	Long: `Scans the reports directory and prints an overview table of all runs,
most recent first. Filter by workload, generator mode or client version, or
print per-workload run counts with --by-workload.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listWorkload, "workload", "", "only runs of this workload")
	listCmd.Flags().StringVar(&listGenMode, "gen-mode", "", "only runs with this generator mode")
	listCmd.Flags().StringVar(&listVersion, "client-version", "", "only runs of this client version")
	listCmd.Flags().BoolVar(&listByWorkload, "by-workload", false, "print run counts per workload")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	printSkipped(cmd, sess.Repo)

	if listByWorkload {
		fmt.Fprint(cmd.OutOrStdout(), ui.WorkloadCounts(sess.Repo))
		return nil
	}

	runs := filterRuns(sess.Repo.Runs)
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports found. Point --reports-dir at a folder containing '*-report-*.json'.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.RunsTable(runs))
	return nil
}

func filterRuns(runs []report.Run) []report.Run {
	var out []report.Run
	for _, r := range runs {
		if listWorkload != "" && r.WorkloadName != listWorkload {
			continue
		}
		if listGenMode != "" && r.GenMode != listGenMode {
			continue
		}
		if listVersion != "" && r.ClientVersion != listVersion {
			continue
		}
		out = append(out, r)
	}
	return out
}
