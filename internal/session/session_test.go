package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txlens/internal/compare"
	"txlens/internal/report"
)

func writeReport(t *testing.T, dir, name, workload string, start time.Time, latency float64) {
	t.Helper()
	doc := map[string]any{
		"start_time":    start.UTC().Format(time.RFC3339Nano),
		"end_time":      start.Add(time.Minute).UTC().Format(time.RFC3339Nano),
		"workload_idx":  0,
		"target_tps":    100,
		"txs_sent":      1000,
		"txs_committed": 990,
		"config": map[string]any{
			"workload_groups": []any{
				map[string]any{"name": workload, "traffic_gens": []any{map[string]any{"gen_mode": "Constant"}}},
			},
		},
		"stats": map[string]any{
			"latency": map[string]any{"overall": map[string]any{"mean": latency, "p50": latency, "p90": latency, "p99": latency, "samples": 10}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func TestNewSessionLoadsSnapshot(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	writeReport(t, dir, "wA-report-1.json", "wA", base, 10)

	sess, err := New(dir, report.Options{}, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, compare.MatchByName, sess.Mode)
	assert.Len(t, sess.Repo.Runs, 1)
}

func TestNewSessionMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), report.Options{}, nil)
	var nf *report.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSelectionsReturnCopies(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "wA-report-1.json", "wA", time.Now(), 10)

	sess, err := New(dir, report.Options{}, nil)
	require.NoError(t, err)

	updated := sess.SelectBaseline("wA-report-1.json").SetMode(compare.MatchByHash)
	assert.Empty(t, sess.BaselineID)
	assert.Equal(t, compare.MatchByName, sess.Mode)
	assert.Equal(t, "wA-report-1.json", updated.BaselineID)
	assert.Equal(t, compare.MatchByHash, updated.Mode)
}

func TestReloadKeepsPriorStateOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "wA-report-1.json", "wA", time.Now(), 10)

	sess, err := New(dir, report.Options{}, nil)
	require.NoError(t, err)
	sess = sess.SelectBaseline("wA-report-1.json")

	// Directory disappears between reloads.
	require.NoError(t, os.RemoveAll(dir))
	_, err = sess.Reload(report.Options{})
	require.Error(t, err)

	// The original snapshot is still usable.
	assert.Len(t, sess.Repo.Runs, 1)
	_, err = sess.Match()
	assert.NoError(t, err)
}

func TestCompareScenario(t *testing.T) {
	// Baseline wA run 1 with by-name matching: candidates = [run 2],
	// wB excluded; latency delta +2.
	dir := t.TempDir()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	writeReport(t, dir, "wA-report-1.json", "wA", base, 10)
	writeReport(t, dir, "wA-report-2.json", "wA", base.Add(time.Hour), 12)
	writeReport(t, dir, "wB-report-1.json", "wB", base.Add(2*time.Hour), 5)

	sess, err := New(dir, report.Options{}, nil)
	require.NoError(t, err)
	sess = sess.SelectBaseline("wA-report-1.json")

	set, results, err := sess.Compare()
	require.NoError(t, err)

	require.Len(t, set.Candidates, 1)
	assert.Equal(t, "wA-report-2.json", set.Candidates[0].ID)
	require.Len(t, results, 1)
	assert.InDelta(t, 2.0, results[0].Metrics["latency.mean"].Delta, 1e-9)
}

func TestCompareWithoutBaseline(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "wA-report-1.json", "wA", time.Now(), 10)

	sess, err := New(dir, report.Options{}, nil)
	require.NoError(t, err)

	_, _, err = sess.Compare()
	var nb *compare.NoBaselineError
	assert.True(t, errors.As(err, &nb))
}
