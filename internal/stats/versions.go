package stats

import (
	"fmt"
	"sort"
	"time"

	"txlens/internal/report"
)

// Bounds is the observed time range of runs for one client version.
type Bounds struct {
	Earliest time.Time
	Latest   time.Time
}

// VersionBounds computes the earliest and latest run start per client
// version.
func VersionBounds(runs []report.Run) map[string]Bounds {
	bounds := map[string]Bounds{}
	for _, r := range runs {
		b, ok := bounds[r.ClientVersion]
		if !ok {
			bounds[r.ClientVersion] = Bounds{Earliest: r.Start, Latest: r.Start}
			continue
		}
		if r.Start.Before(b.Earliest) {
			b.Earliest = r.Start
		}
		if r.Start.After(b.Latest) {
			b.Latest = r.Start
		}
		bounds[r.ClientVersion] = b
	}
	return bounds
}

// FormatVersionLabel suffixes a version with its earliest run date, e.g.
// "v1.2.3 (2025-08-01)".
func FormatVersionLabel(version string, bounds map[string]Bounds) string {
	b, ok := bounds[version]
	if !ok || b.Earliest.IsZero() {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, b.Earliest.UTC().Format("2006-01-02"))
}

// WorkloadAggregate summarizes all runs of one workload under one client
// version.
type WorkloadAggregate struct {
	Runs              int
	MedianTPS         float64
	MedianDropRate    float64
	MedianDurationSec float64
	Latest            time.Time
}

// VersionWorkloadStats groups runs by client version and workload name and
// computes median TPS, drop rate and duration plus the latest run time.
func VersionWorkloadStats(runs []report.Run) map[string]map[string]WorkloadAggregate {
	grouped := map[string]map[string][]report.Run{}
	for _, r := range runs {
		byWorkload, ok := grouped[r.ClientVersion]
		if !ok {
			byWorkload = map[string][]report.Run{}
			grouped[r.ClientVersion] = byWorkload
		}
		byWorkload[r.WorkloadName] = append(byWorkload[r.WorkloadName], r)
	}

	out := map[string]map[string]WorkloadAggregate{}
	for version, byWorkload := range grouped {
		out[version] = map[string]WorkloadAggregate{}
		for workload, ws := range byWorkload {
			sort.Slice(ws, func(i, j int) bool { return ws[i].Start.After(ws[j].Start) })
			agg := WorkloadAggregate{Runs: len(ws), Latest: ws[0].Start}
			var tps, drop, dur []float64
			for _, r := range ws {
				tps = append(tps, r.AchievedTPS)
				drop = append(drop, r.DropRate)
				dur = append(dur, r.DurationSec)
			}
			agg.MedianTPS = median(tps)
			agg.MedianDropRate = median(drop)
			agg.MedianDurationSec = median(dur)
			out[version][workload] = agg
		}
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// TPSDelta returns primary minus comparison and a display string like
// "+12.34 (+5.6%)". The percentage is relative to the comparison value and
// omitted when that value is zero.
func TPSDelta(primary, comparison float64) (float64, string) {
	delta := primary - comparison
	if comparison == 0 {
		return delta, fmt.Sprintf("%+.2f (n/a)", delta)
	}
	return delta, fmt.Sprintf("%+.2f (%+.1f%%)", delta, delta/comparison*100)
}

// DropDelta is TPSDelta for drop rates, rendered in percentage points.
func DropDelta(primary, comparison float64) (float64, string) {
	delta := primary - comparison
	if comparison == 0 {
		return delta, fmt.Sprintf("%+.2fpp (n/a)", delta*100)
	}
	return delta, fmt.Sprintf("%+.2fpp (%+.1f%%)", delta*100, delta/comparison*100)
}

// FormatDuration renders seconds as "1h 2m", "3m 4s" or "5s".
func FormatDuration(seconds float64) string {
	total := int(seconds)
	minutes, secs := total/60, total%60
	hours, mins := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	return fmt.Sprintf("%ds", secs)
}
