package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// executeCommand executes a cobra command and returns its combined output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)

	oldExit := exit
	exit = func(code int) {
		if code != 0 {
			panic(fmt.Sprintf("exit-%d", code))
		}
	}
	defer func() { exit = oldExit }()
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(string); ok && strings.HasPrefix(s, "exit-") {
				return
			}
			panic(r)
		}
	}()

	root.SetArgs(args)
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	root.SetIn(bytes.NewBufferString(""))
	err := root.Execute()
	return b.String(), err
}

// resetFlags resets all flags to their default values between invocations.
// Slice flags need Replace: their Set appends once the flag was ever changed,
// so Set(DefValue) would leak stale entries into the next invocation.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type reportOpts struct {
	workload string
	version  string
	accounts int
	latency  float64
	achieved int64 // txs committed over a one-minute run
}

// writeReportFile writes one synthetic txgen report into dir.
func writeReportFile(t *testing.T, dir, name string, start time.Time, opts reportOpts) {
	t.Helper()
	if opts.version == "" {
		opts.version = "v1.0.0"
	}
	if opts.accounts == 0 {
		opts.accounts = 64
	}
	if opts.achieved == 0 {
		opts.achieved = 6000
	}
	doc := map[string]any{
		"start_time":     start.UTC().Format(time.RFC3339Nano),
		"end_time":       start.Add(time.Minute).UTC().Format(time.RFC3339Nano),
		"workload_idx":   0,
		"client_version": opts.version,
		"target_tps":     100,
		"txs_sent":       opts.achieved + 10,
		"txs_committed":  opts.achieved,
		"config": map[string]any{
			"workload_groups": []any{
				map[string]any{
					"name":         opts.workload,
					"accounts":     opts.accounts,
					"traffic_gens": []any{map[string]any{"gen_mode": "Constant"}},
				},
			},
		},
		"stats": map[string]any{
			"latency": map[string]any{
				"overall": map[string]any{"mean": opts.latency, "p50": opts.latency, "p90": opts.latency, "p99": opts.latency, "samples": 10},
			},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

// fixtureDir builds a reports directory with three wA runs (two sharing a
// config hash), one wB run and one malformed file.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	writeReportFile(t, dir, "wA-report-1.json", base, reportOpts{workload: "wA", latency: 10})
	writeReportFile(t, dir, "wA-report-2.json", base.Add(time.Hour), reportOpts{workload: "wA", latency: 12})
	writeReportFile(t, dir, "wA-report-3.json", base.Add(2*time.Hour), reportOpts{workload: "wA", latency: 11, accounts: 128})
	writeReportFile(t, dir, "wB-report-1.json", base.Add(3*time.Hour), reportOpts{workload: "wB", latency: 5, version: "v2.0.0"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wC-report-1.json"), []byte("{nope"), 0644))
	return dir
}
