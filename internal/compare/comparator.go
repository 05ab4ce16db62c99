package compare

import (
	"math"

	"txlens/internal/report"
)

// Thresholds maps metric names to relative-delta flag thresholds, e.g.
// {"achieved_tps": 0.10}. A metric without an entry is never flagged; its
// delta is still computed and shown.
type Thresholds map[string]float64

// Presence tells whether a metric exists on both sides of a comparison.
type Presence string

const (
	PresentBoth        Presence = "both"
	MissingInCandidate Presence = "missing_in_candidate"
	MissingInBaseline  Presence = "missing_in_baseline"
)

// MetricDelta is the comparison outcome for one metric. When the metric is
// missing on one side only the present value is meaningful and no delta is
// computed; missing metrics are always reported, never dropped.
type MetricDelta struct {
	Baseline    float64  `json:"baseline"`
	Candidate   float64  `json:"candidate"`
	Delta       float64  `json:"delta"`
	Relative    float64  `json:"relative"`
	HasRelative bool     `json:"has_relative"`
	Flagged     bool     `json:"flagged"`
	Presence    Presence `json:"presence"`
}

// DeltaResult holds all metric deltas between the baseline and one
// candidate run.
type DeltaResult struct {
	CandidateID string                 `json:"candidate_id"`
	Metrics     map[string]MetricDelta `json:"metrics"`
}

// Compare produces one DeltaResult per candidate, in match-set order.
//
// For each metric present in both runs: delta = candidate - baseline, and
// the relative delta is delta/baseline when the baseline is nonzero. A zero
// baseline with a nonzero candidate has no defined relative delta and is
// always flagged. Otherwise a metric is flagged iff |relative| is strictly
// greater than its configured threshold; a relative delta exactly at the
// threshold does not flag.
func Compare(set *MatchSet, thresholds Thresholds) []DeltaResult {
	results := make([]DeltaResult, 0, len(set.Candidates))
	baseMetrics := set.Baseline.Metrics()
	for _, cand := range set.Candidates {
		results = append(results, compareRun(baseMetrics, cand, thresholds))
	}
	return results
}

func compareRun(baseMetrics map[string]float64, cand report.Run, thresholds Thresholds) DeltaResult {
	candMetrics := cand.Metrics()
	out := DeltaResult{CandidateID: cand.ID, Metrics: map[string]MetricDelta{}}

	for name, baseVal := range baseMetrics {
		candVal, ok := candMetrics[name]
		if !ok {
			out.Metrics[name] = MetricDelta{Baseline: baseVal, Presence: MissingInCandidate}
			continue
		}
		out.Metrics[name] = diffMetric(name, baseVal, candVal, thresholds)
	}
	for name, candVal := range candMetrics {
		if _, ok := baseMetrics[name]; !ok {
			out.Metrics[name] = MetricDelta{Candidate: candVal, Presence: MissingInBaseline}
		}
	}
	return out
}

func diffMetric(name string, baseVal, candVal float64, thresholds Thresholds) MetricDelta {
	d := MetricDelta{
		Baseline:  baseVal,
		Candidate: candVal,
		Delta:     candVal - baseVal,
		Presence:  PresentBoth,
	}
	if baseVal != 0 {
		d.Relative = d.Delta / baseVal
		d.HasRelative = true
		if threshold, ok := thresholds[name]; ok && math.Abs(d.Relative) > threshold {
			d.Flagged = true
		}
	} else if candVal != 0 {
		// Undefined relative delta; flagged by presence.
		d.Flagged = true
	}
	return d
}
