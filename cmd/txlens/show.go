package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"txlens/internal/ui"
)

var showConfigJSON bool

var showCmd = &cobra.Command{
	Use:   "show <run>",
	Short: "Show one run in detail",
	Long: `Prints the metadata, derived metrics and stats percentiles of a single
run. The run is addressed by its ID (file path relative to the reports
directory); the bare file name works when unambiguous.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showConfigJSON, "config-json", false, "dump the workload config block as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	printSkipped(cmd, sess.Repo)

	run, ok := sess.Repo.FindByID(args[0])
	if !ok {
		return fmt.Errorf("run %q not found in %s", args[0], sess.Dir)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.DetailText(run))
	fmt.Fprintln(out)
	fmt.Fprint(out, ui.StatsTable(run))

	if showConfigJSON {
		var pretty json.RawMessage = run.WorkloadConfig
		data, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return fmt.Errorf("render workload config: %w", err)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, string(data))
	}
	return nil
}
