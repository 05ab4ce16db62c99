package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// Run is one parsed txgen report. It is built once by the loader and never
// mutated afterwards; callers share Runs freely across sessions.
type Run struct {
	// ID is the report file path relative to the scanned directory.
	// Unique within a Repository.
	ID   string `json:"id"`
	File string `json:"file"` // absolute or as-given path on disk

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationSec float64   `json:"duration_s"`

	WorkloadIdx        int             `json:"workload_idx"`
	WorkloadName       string          `json:"workload_name"`
	WorkloadConfig     json.RawMessage `json:"workload_config"`
	WorkloadConfigHash string          `json:"workload_config_hash"`
	GenMode            string          `json:"gen_mode"`
	ClientVersion      string          `json:"client_version"`

	TargetTPS    int64   `json:"target_tps"`
	TxsSent      int64   `json:"txs_sent"`
	TxsCommitted int64   `json:"txs_committed"`
	TxsDropped   int64   `json:"txs_dropped"`
	AchievedTPS  float64 `json:"achieved_tps"`
	DropRate     float64 `json:"drop_rate"`

	// Stats holds the per-counter percentile summaries keyed by metric name.
	Stats map[string]CounterStats `json:"stats"`
}

// CounterStats mirrors txgen's CounterStatsReport; only the overall
// summary is consumed here.
type CounterStats struct {
	Overall StatSummary `json:"overall"`
}

// StatSummary holds the percentile summary of one counter.
type StatSummary struct {
	Mean    float64 `json:"mean"`
	P25     float64 `json:"p25"`
	P50     float64 `json:"p50"`
	P90     float64 `json:"p90"`
	P99     float64 `json:"p99"`
	Samples int64   `json:"samples"`
}

// Metrics flattens a run into the metric name -> value mapping used for
// comparison: the derived scalars plus "<stat>.<field>" for every stats
// entry.
func (r Run) Metrics() map[string]float64 {
	m := map[string]float64{
		"duration_s":    r.DurationSec,
		"target_tps":    float64(r.TargetTPS),
		"txs_sent":      float64(r.TxsSent),
		"txs_committed": float64(r.TxsCommitted),
		"txs_dropped":   float64(r.TxsDropped),
		"achieved_tps":  r.AchievedTPS,
		"drop_rate":     r.DropRate,
	}
	for name, stat := range r.Stats {
		m[name+".mean"] = stat.Overall.Mean
		m[name+".p50"] = stat.Overall.P50
		m[name+".p90"] = stat.Overall.P90
		m[name+".p99"] = stat.Overall.P99
	}
	return m
}

// StatKeys returns the sorted stats metric names of the run.
func (r Run) StatKeys() []string {
	return sortedKeys(r.Stats)
}

// Label renders the short human identifier used in pickers and tables:
// start time, workload, gen mode and the hash prefix.
func (r Run) Label() string {
	hash := r.WorkloadConfigHash
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return fmt.Sprintf("%s | %s | %s | %s",
		r.Start.UTC().Format("2006-01-02 15:04"), r.WorkloadName, r.GenMode, hash)
}

// Repository is one immutable snapshot of a scanned reports directory.
type Repository struct {
	Dir     string      `json:"dir"`
	Runs    []Run       `json:"runs"`    // descending by start time, ties by ID
	Skipped []LoadError `json:"skipped"` // per-file diagnostics, scan order
}

// FindByID locates a run by its ID. The base file name is accepted as a
// shorthand when it is unambiguous.
func (repo *Repository) FindByID(id string) (Run, bool) {
	for _, r := range repo.Runs {
		if r.ID == id {
			return r, true
		}
	}
	var found Run
	matches := 0
	for _, r := range repo.Runs {
		if baseName(r.ID) == id {
			found = r
			matches++
		}
	}
	if matches == 1 {
		return found, true
	}
	return Run{}, false
}

// WorkloadNames returns the distinct workload names, sorted.
func (repo *Repository) WorkloadNames() []string {
	seen := map[string]struct{}{}
	for _, r := range repo.Runs {
		seen[r.WorkloadName] = struct{}{}
	}
	return sortedKeys(seen)
}

// CountByWorkload returns run counts keyed by workload name.
func (repo *Repository) CountByWorkload() map[string]int {
	counts := map[string]int{}
	for _, r := range repo.Runs {
		counts[r.WorkloadName]++
	}
	return counts
}

// FilterWorkload returns the runs of one workload, preserving order.
func (repo *Repository) FilterWorkload(name string) []Run {
	var runs []Run
	for _, r := range repo.Runs {
		if r.WorkloadName == name {
			runs = append(runs, r)
		}
	}
	return runs
}
