package ui

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"txlens/internal/compare"
	"txlens/internal/report"
	"txlens/internal/stats"
)

const timeLayout = "2006-01-02 15:04"

// RunsTable renders the overview listing of runs.
func RunsTable(runs []report.Run) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "START\tWORKLOAD\tGEN MODE\tVERSION\tTARGET\tACHIEVED\tDROP RATE\tDURATION\tRUN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.4f\t%s\t%s\n",
			r.Start.UTC().Format(timeLayout),
			r.WorkloadName,
			r.GenMode,
			r.ClientVersion,
			r.TargetTPS,
			r.AchievedTPS,
			r.DropRate,
			stats.FormatDuration(r.DurationSec),
			r.ID,
		)
	}
	w.Flush()
	return buf.String()
}

// WorkloadCounts renders per-workload run counts.
func WorkloadCounts(repo *report.Repository) string {
	counts := repo.CountByWorkload()
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WORKLOAD\tRUNS")
	for _, name := range repo.WorkloadNames() {
		fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
	}
	w.Flush()
	return buf.String()
}

// DetailText renders the single-run detail block.
func DetailText(r report.Run) string {
	var sb strings.Builder
	sb.WriteString(detailTitleStyle.Render(r.Label()) + "\n")
	w := tabwriter.NewWriter(&sb, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Run\t%s\n", r.ID)
	fmt.Fprintf(w, "Workload\t%s (idx %d)\n", r.WorkloadName, r.WorkloadIdx)
	fmt.Fprintf(w, "Config hash\t%s\n", r.WorkloadConfigHash)
	fmt.Fprintf(w, "Gen mode\t%s\n", r.GenMode)
	fmt.Fprintf(w, "Client version\t%s\n", r.ClientVersion)
	fmt.Fprintf(w, "Start\t%s\n", r.Start.UTC().Format(timeLayout))
	fmt.Fprintf(w, "Duration\t%s\n", stats.FormatDuration(r.DurationSec))
	fmt.Fprintf(w, "Target TPS\t%d\n", r.TargetTPS)
	fmt.Fprintf(w, "Achieved TPS\t%.2f\n", r.AchievedTPS)
	fmt.Fprintf(w, "Committed\t%d\n", r.TxsCommitted)
	fmt.Fprintf(w, "Dropped\t%d\n", r.TxsDropped)
	fmt.Fprintf(w, "Drop rate\t%.2f%%\n", r.DropRate*100)
	w.Flush()
	return sb.String()
}

// StatsTable renders the per-counter percentile summary of one run.
func StatsTable(r report.Run) string {
	if len(r.Stats) == 0 {
		return "No stats in this report.\n"
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tP50\tP90\tP99\tSAMPLES")
	for _, key := range r.StatKeys() {
		o := r.Stats[key].Overall
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.6g\t%.6g\t%d\n",
			key, o.Mean, o.P50, o.P90, o.P99, o.Samples)
	}
	w.Flush()
	return buf.String()
}

// CompareTable renders the comparison table: the baseline row followed by
// one row per candidate with deltas, flagged metrics and regression notes.
func CompareTable(set *compare.MatchSet, results []compare.DeltaResult, noteT compare.NoteThresholds, statKey string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)

	header := "ROLE\tSTART\tTARGET\tACHIEVED\tDROP RATE"
	if statKey != "" {
		header += fmt.Sprintf("\t%s P90\t%s P50", strings.ToUpper(statKey), strings.ToUpper(statKey))
	}
	header += "\tFLAGS\tNOTES\tRUN"
	fmt.Fprintln(w, header)

	base := set.Baseline
	baseRow := fmt.Sprintf("baseline\t%s\t%d\t%.2f\t%.2f%%",
		base.Start.UTC().Format(timeLayout), base.TargetTPS, base.AchievedTPS, base.DropRate*100)
	if statKey != "" {
		baseRow += fmt.Sprintf("\t%s\t%s", statValue(base, statKey, "p90"), statValue(base, statKey, "p50"))
	}
	baseRow += fmt.Sprintf("\t\t\t%s", base.ID)
	fmt.Fprintln(w, baseRow)

	for i, cand := range set.Candidates {
		row := fmt.Sprintf("candidate\t%s\t%d\t%.2f (%s)\t%.2f%% (%s)",
			cand.Start.UTC().Format(timeLayout),
			cand.TargetTPS,
			cand.AchievedTPS, compare.FormatDeltaPercent(base.AchievedTPS, cand.AchievedTPS),
			cand.DropRate*100, compare.FormatDeltaPP(base.DropRate, cand.DropRate),
		)
		if statKey != "" {
			row += fmt.Sprintf("\t%s\t%s", statDelta(base, cand, statKey, "p90"), statDelta(base, cand, statKey, "p50"))
		}
		flags := ""
		if i < len(results) {
			flags = flaggedMetrics(results[i])
		}
		if flags != "" {
			flags = Flagged(flags)
		}
		notes := compare.Notes(base, cand, statKey, noteT)
		if notes != "" {
			notes = Flagged(notes)
		}
		row += fmt.Sprintf("\t%s\t%s\t%s", flags, notes, cand.ID)
		fmt.Fprintln(w, row)
	}
	w.Flush()
	return buf.String()
}

// CompareMarkdown renders the comparison as a markdown document, suitable
// for glamour rendering or for pasting into an issue.
func CompareMarkdown(set *compare.MatchSet, results []compare.DeltaResult, noteT compare.NoteThresholds, statKey string) string {
	var sb strings.Builder
	base := set.Baseline
	fmt.Fprintf(&sb, "# Run comparison\n\n")
	fmt.Fprintf(&sb, "Baseline: `%s` (%s, %s)\n\n", base.ID, base.WorkloadName, base.Start.UTC().Format(timeLayout))
	fmt.Fprintf(&sb, "Match mode: %s\n\n", set.Mode)

	sb.WriteString("| Role | Start | Achieved TPS | Drop rate | Flags | Notes | Run |\n")
	sb.WriteString("|------|-------|--------------|-----------|-------|-------|-----|\n")
	fmt.Fprintf(&sb, "| baseline | %s | %.2f | %.2f%% | | | %s |\n",
		base.Start.UTC().Format(timeLayout), base.AchievedTPS, base.DropRate*100, base.ID)
	for i, cand := range set.Candidates {
		flags := ""
		if i < len(results) {
			flags = flaggedMetrics(results[i])
		}
		fmt.Fprintf(&sb, "| candidate | %s | %.2f (%s) | %.2f%% (%s) | %s | %s | %s |\n",
			cand.Start.UTC().Format(timeLayout),
			cand.AchievedTPS, compare.FormatDeltaPercent(base.AchievedTPS, cand.AchievedTPS),
			cand.DropRate*100, compare.FormatDeltaPP(base.DropRate, cand.DropRate),
			flags,
			compare.Notes(base, cand, statKey, noteT),
			cand.ID)
	}
	return sb.String()
}

// VersionTable renders per-client-version per-workload median statistics.
func VersionTable(runs []report.Run) string {
	byVersion := stats.VersionWorkloadStats(runs)
	bounds := stats.VersionBounds(runs)

	versions := make([]string, 0, len(byVersion))
	for v := range byVersion {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		return bounds[versions[i]].Earliest.Before(bounds[versions[j]].Earliest)
	})

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "VERSION\tWORKLOAD\tRUNS\tMEDIAN TPS\tMEDIAN DROP\tMEDIAN DURATION\tLATEST")
	for _, v := range versions {
		workloads := byVersion[v]
		names := make([]string, 0, len(workloads))
		for name := range workloads {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			agg := workloads[name]
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f%%\t%s\t%s\n",
				stats.FormatVersionLabel(v, bounds),
				name,
				agg.Runs,
				agg.MedianTPS,
				agg.MedianDropRate*100,
				stats.FormatDuration(agg.MedianDurationSec),
				agg.Latest.UTC().Format(timeLayout),
			)
		}
	}
	w.Flush()
	return buf.String()
}

// VersionDeltaTable renders per-workload median deltas of primary against
// comparison (positive TPS delta means primary is faster).
func VersionDeltaTable(runs []report.Run, primary, comparison string) string {
	byVersion := stats.VersionWorkloadStats(runs)
	primaryStats, okP := byVersion[primary]
	comparisonStats, okC := byVersion[comparison]
	if !okP || !okC {
		return fmt.Sprintf("no runs for version %q or %q\n", primary, comparison)
	}

	names := make([]string, 0, len(primaryStats))
	for name := range primaryStats {
		if _, shared := comparisonStats[name]; shared {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "no shared workloads between the two versions\n"
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "WORKLOAD\tTPS %s\tTPS %s\tTPS DELTA\tDROP DELTA\n", primary, comparison)
	for _, name := range names {
		p := primaryStats[name]
		c := comparisonStats[name]
		tpsDelta, tpsStr := stats.TPSDelta(p.MedianTPS, c.MedianTPS)
		_, dropStr := stats.DropDelta(p.MedianDropRate, c.MedianDropRate)
		if tpsDelta < 0 {
			tpsStr = Flagged(tpsStr)
		} else if tpsDelta > 0 {
			tpsStr = Improved(tpsStr)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%s\n", name, p.MedianTPS, c.MedianTPS, tpsStr, dropStr)
	}
	w.Flush()
	return buf.String()
}

func flaggedMetrics(res compare.DeltaResult) string {
	var flagged []string
	for name, d := range res.Metrics {
		if d.Flagged {
			flagged = append(flagged, name)
		}
	}
	sort.Strings(flagged)
	return strings.Join(flagged, ",")
}

func statValue(r report.Run, key, field string) string {
	stat, ok := r.Stats[key]
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", statField(stat, field))
}

func statDelta(base, cand report.Run, key, field string) string {
	baseStat, baseOK := base.Stats[key]
	candStat, candOK := cand.Stats[key]
	if !baseOK || !candOK {
		return "n/a"
	}
	b, c := statField(baseStat, field), statField(candStat, field)
	return fmt.Sprintf("%.3f (%s)", c, compare.FormatDeltaPercent(b, c))
}

func statField(stat report.CounterStats, field string) float64 {
	switch field {
	case "p50":
		return stat.Overall.P50
	case "p90":
		return stat.Overall.P90
	case "p99":
		return stat.Overall.P99
	default:
		return stat.Overall.Mean
	}
}
