package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"txlens/internal/config"
	"txlens/internal/report"
	"txlens/internal/session"
	"txlens/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// askOne is swapped out in tests to avoid interactive prompts.
var askOne = func(p survey.Prompt, response any) error {
	return survey.AskOne(p, response)
}

var rootCmd = &cobra.Command{
	Use:   "txlens",
	Short: "Browse and compare txgen workload reports",
	Long: `txlens is an offline explorer for txgen report files. It scans a
directory of '*-report-*.json' files, lists runs per workload, and compares
a baseline run against prior runs matched by workload name or by exact
workload-config hash.`,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'txlens --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./txlens.yaml)")
	rootCmd.PersistentFlags().String("reports-dir", config.DefaultReportsDir, "directory containing *-report-*.json files")
	rootCmd.PersistentFlags().Bool("recursive", true, "scan subdirectories for report files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("reports_dir", rootCmd.PersistentFlags().Lookup("reports-dir"))
	viper.BindPFlag("recursive", rootCmd.PersistentFlags().Lookup("recursive"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	config.Load(cfgFile)
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}

// loadSession loads the configured reports directory into a fresh session
// snapshot. Every command invocation gets its own session; nothing is shared.
func loadSession() (session.Session, error) {
	return session.New(viper.GetString("reports_dir"), config.ScanOptions(), config.Thresholds())
}

// printSkipped surfaces per-file load diagnostics on stderr without
// interrupting the command's normal output.
func printSkipped(cmd *cobra.Command, repo *report.Repository) {
	for _, le := range repo.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", le.Err)
	}
}
