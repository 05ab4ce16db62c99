package report

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Options controls how a directory is scanned.
type Options struct {
	// Recursive walks subdirectories too. The upstream report layout nests
	// runs under per-host folders, so this defaults to true in config.
	Recursive bool
}

// IsReportFile reports whether a file name follows the txgen report naming
// convention: <workload>-report-<id>.json.
func IsReportFile(name string) bool {
	return strings.HasSuffix(name, ".json") && strings.Contains(name, "-report-")
}

// Load scans dir for report files and parses each into a Run. A missing or
// unreadable directory fails the whole operation with *NotFoundError. A file
// that cannot be parsed is skipped and recorded in Repository.Skipped; the
// scan never aborts on a single bad file.
//
// Runs are ordered by start time descending, ties broken by ID. Loading the
// same unchanged directory twice yields identical repositories.
func Load(dir string, opts Options) (*Repository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &NotFoundError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Dir: dir, Err: fmt.Errorf("not a directory")}
	}

	var paths []string
	if opts.Recursive {
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsReportFile(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, &NotFoundError{Dir: dir, Err: walkErr}
		}
	} else {
		entries, readErr := os.ReadDir(dir)
		if readErr != nil {
			return nil, &NotFoundError{Dir: dir, Err: readErr}
		}
		for _, e := range entries {
			if !e.IsDir() && IsReportFile(e.Name()) {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(paths)

	repo := &Repository{Dir: dir}
	for _, path := range paths {
		id := runID(dir, path)
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			repo.Skipped = append(repo.Skipped, LoadError{
				File: id,
				Err:  &MalformedReportError{File: id, Reason: "read failed", Err: readErr},
			})
			continue
		}
		run, parseErr := ParseReport(data, id, path)
		if parseErr != nil {
			slog.Debug("skipping report", "file", id, "error", parseErr)
			repo.Skipped = append(repo.Skipped, LoadError{File: id, Err: parseErr})
			continue
		}
		repo.Runs = append(repo.Runs, run)
	}

	sort.SliceStable(repo.Runs, func(i, j int) bool {
		if !repo.Runs[i].Start.Equal(repo.Runs[j].Start) {
			return repo.Runs[i].Start.After(repo.Runs[j].Start)
		}
		return repo.Runs[i].ID < repo.Runs[j].ID
	})

	slog.Debug("loaded reports", "dir", dir, "runs", len(repo.Runs), "skipped", len(repo.Skipped))
	return repo, nil
}

type rawReport struct {
	StartTime     string                  `json:"start_time"`
	EndTime       string                  `json:"end_time"`
	WorkloadIdx   int                     `json:"workload_idx"`
	ClientVersion string                  `json:"client_version"`
	TargetTPS     *int64                  `json:"target_tps"`
	TxsSent       *int64                  `json:"txs_sent"`
	TxsCommitted  *int64                  `json:"txs_committed"`
	TxsDropped    *int64                  `json:"txs_dropped"`
	Stats         map[string]CounterStats `json:"stats"`
	Config        struct {
		WorkloadGroups []json.RawMessage `json:"workload_groups"`
	} `json:"config"`
}

// ParseReport turns one report file's content into a Run. It fails with
// *MalformedReportError when the JSON is invalid or the report lacks the
// content the repository requires: parsable start/end times, the workload
// config block that gives the run its name and config hash, and at least
// one measurement (a stats block or a transaction counter).
func ParseReport(data []byte, id, file string) (Run, error) {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return Run{}, &MalformedReportError{File: id, Reason: "invalid JSON", Err: err}
	}

	start, err := parseRFC3339(raw.StartTime)
	if err != nil {
		return Run{}, &MalformedReportError{File: id, Reason: "bad start_time", Err: err}
	}
	end, err := parseRFC3339(raw.EndTime)
	if err != nil {
		return Run{}, &MalformedReportError{File: id, Reason: "bad end_time", Err: err}
	}

	if raw.WorkloadIdx < 0 || raw.WorkloadIdx >= len(raw.Config.WorkloadGroups) {
		return Run{}, &MalformedReportError{
			File:   id,
			Reason: fmt.Sprintf("workload_idx %d has no config.workload_groups entry", raw.WorkloadIdx),
		}
	}
	groupRaw := raw.Config.WorkloadGroups[raw.WorkloadIdx]

	var group map[string]any
	if err := json.Unmarshal(groupRaw, &group); err != nil || len(group) == 0 {
		return Run{}, &MalformedReportError{File: id, Reason: "empty workload config", Err: err}
	}

	hash, err := ConfigHash(groupRaw)
	if err != nil {
		return Run{}, &MalformedReportError{File: id, Reason: "unhashable workload config", Err: err}
	}

	if raw.Stats == nil && raw.TargetTPS == nil && raw.TxsSent == nil &&
		raw.TxsCommitted == nil && raw.TxsDropped == nil {
		return Run{}, &MalformedReportError{File: id, Reason: "no stats or counters"}
	}

	name := fmt.Sprintf("workload_%d", raw.WorkloadIdx)
	if n, ok := group["name"].(string); ok && n != "" {
		name = n
	}

	duration := end.Sub(start).Seconds()
	if duration < 0 {
		duration = 0
	}

	var target, sent, committed int64
	if raw.TargetTPS != nil {
		target = *raw.TargetTPS
	}
	if raw.TxsSent != nil {
		sent = *raw.TxsSent
	}
	if raw.TxsCommitted != nil {
		committed = *raw.TxsCommitted
	}

	dropped := sent - committed
	if dropped < 0 {
		dropped = 0
	}
	if raw.TxsDropped != nil {
		dropped = *raw.TxsDropped
	}

	var achieved float64
	if duration > 0 {
		achieved = float64(committed) / duration
	}
	var dropRate float64
	if sent > 0 {
		dropRate = float64(dropped) / float64(sent)
	}

	version := raw.ClientVersion
	if version == "" {
		version = "Unknown"
	}

	return Run{
		ID:                 id,
		File:               file,
		Start:              start,
		End:                end,
		DurationSec:        duration,
		WorkloadIdx:        raw.WorkloadIdx,
		WorkloadName:       name,
		WorkloadConfig:     groupRaw,
		WorkloadConfigHash: hash,
		GenMode:            genModeLabel(group["traffic_gens"]),
		ClientVersion:      version,
		TargetTPS:          target,
		TxsSent:            sent,
		TxsCommitted:       committed,
		TxsDropped:         dropped,
		AchievedTPS:        achieved,
		DropRate:           dropRate,
		Stats:              raw.Stats,
	}, nil
}

// parseRFC3339 accepts timestamps with or without fractional seconds up to
// nanosecond precision, as emitted by the upstream tool.
func parseRFC3339(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// genModeLabel extracts the generator mode from the first traffic gen of a
// workload group. The upstream serializes it as an external-tagged enum: a
// plain string for unit variants, or a single-key object otherwise.
func genModeLabel(trafficGens any) string {
	gens, ok := trafficGens.([]any)
	if !ok || len(gens) == 0 {
		return "unknown"
	}
	gen, ok := gens[0].(map[string]any)
	if !ok {
		return "unknown"
	}
	switch mode := gen["gen_mode"].(type) {
	case string:
		return mode
	case map[string]any:
		keys := sortedKeys(mode)
		if len(keys) > 0 {
			return keys[0]
		}
	}
	return "unknown"
}

func runID(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func baseName(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
