package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"txlens/internal/ui"
)

var versionsAgainst string

var versionsCmd = &cobra.Command{
	Use:   "versions [primary-version]",
	Short: "Median run statistics per client version",
	Long: `Aggregates runs per client version and workload: run counts and median
achieved TPS, drop rate and duration. With a primary version argument and
--against, prints per-workload median deltas between the two versions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.Flags().StringVar(&versionsAgainst, "against", "", "comparison version for the delta table")
}

func runVersions(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	printSkipped(cmd, sess.Repo)

	if len(sess.Repo.Runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports found.")
		return nil
	}

	if versionsAgainst != "" {
		if len(args) == 0 {
			return fmt.Errorf("--against needs a primary version argument")
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.VersionDeltaTable(sess.Repo.Runs, args[0], versionsAgainst))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.VersionTable(sess.Repo.Runs))
	return nil
}
