package compare

import (
	"fmt"
	"strings"

	"txlens/internal/report"
)

// NoteThresholds tunes the headline regression summary shown next to each
// comparison row. These are separate from the per-metric flag thresholds.
type NoteThresholds struct {
	TPSDropPct float64 // achieved TPS regression, percent
	DropRatePP float64 // drop-rate increase, percentage points
	StatP90Pct float64 // selected stat's p90 increase, percent
}

// DefaultNoteThresholds matches the upstream dashboard's hardcoded values.
func DefaultNoteThresholds() NoteThresholds {
	return NoteThresholds{TPSDropPct: 10, DropRatePP: 5, StatP90Pct: 10}
}

// Notes summarizes the notable regressions of a candidate run against the
// baseline: achieved TPS drop, drop-rate increase and, when statKey is set,
// the p90 movement of that stat. Returns "" when nothing crosses the
// thresholds.
func Notes(baseline, candidate report.Run, statKey string, t NoteThresholds) string {
	var notes []string

	if baseline.AchievedTPS > 0 {
		pct := (candidate.AchievedTPS - baseline.AchievedTPS) / baseline.AchievedTPS * 100
		if pct <= -t.TPSDropPct {
			notes = append(notes, fmt.Sprintf("achieved %.1f%%", pct))
		}
	}

	dropPP := (candidate.DropRate - baseline.DropRate) * 100
	if dropPP >= t.DropRatePP {
		notes = append(notes, fmt.Sprintf("drop +%.1fpp", dropPP))
	}

	if statKey != "" {
		baseStat, baseOK := baseline.Stats[statKey]
		candStat, candOK := candidate.Stats[statKey]
		if baseOK && candOK && baseStat.Overall.P90 > 0 {
			change := (candStat.Overall.P90 - baseStat.Overall.P90) / baseStat.Overall.P90 * 100
			if change >= t.StatP90Pct {
				notes = append(notes, fmt.Sprintf("%s p90 +%.1f%%", statKey, change))
			}
		}
	}

	if len(notes) == 0 {
		return ""
	}
	return "⚠ " + strings.Join(notes, ", ")
}

// FormatDeltaPercent renders the relative change of other against base as
// "+x.x%", or "n/a" when the base is zero.
func FormatDeltaPercent(base, other float64) string {
	if base == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", (other-base)/base*100)
}

// FormatDeltaPP renders the percentage-point change between two rates.
func FormatDeltaPP(base, other float64) string {
	return fmt.Sprintf("%+.2fpp", (other-base)*100)
}
