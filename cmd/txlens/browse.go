package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"txlens/internal/config"
	"txlens/internal/ui"
)

// newProgram is swapped out in tests.
var newProgram = func(model tea.Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(model, opts...)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse runs interactively",
	Long: `Opens a terminal UI over the reports directory: a filterable run list
with a detail view and quick comparison against prior runs of the same
workload.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	if len(sess.Repo.Runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports found. Nothing to browse.")
		return nil
	}

	model := ui.NewBrowseModel(sess.Repo, sess.Thresholds, config.NoteThresholds())
	p := newProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse UI failed: %w", err)
	}
	return nil
}
