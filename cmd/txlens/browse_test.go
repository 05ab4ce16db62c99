package main

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowseCommandEmptyDir(t *testing.T) {
	dir := t.TempDir()

	output, err := executeCommand(rootCmd, "browse", "--reports-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, output, "Nothing to browse")
}

func TestBrowseCommandRunsProgram(t *testing.T) {
	dir := fixtureDir(t)

	origNewProgram := newProgram
	defer func() { newProgram = origNewProgram }()

	// Drive the program headlessly: no renderer, quit on the first key.
	newProgram = func(model tea.Model, opts ...tea.ProgramOption) *tea.Program {
		return tea.NewProgram(model,
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(io.Discard),
			tea.WithoutRenderer(),
		)
	}

	_, err := executeCommand(rootCmd, "browse", "--reports-dir", dir)
	require.NoError(t, err)
}
