package main

import (
	"encoding/json"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"txlens/internal/compare"
	"txlens/internal/config"
	"txlens/internal/session"
	"txlens/internal/ui"
)

var (
	compareMatch   string
	compareInclude []string
	compareExclude []string
	compareLimit   int
	compareMetric  string
	compareFormat  string
)

var compareCmd = &cobra.Command{
	Use:   "compare [baseline-run]",
	Short: "Compare a baseline run against prior runs",
	Long: `Selects candidate runs relative to a baseline and computes per-metric
deltas and flags.

Match modes:
  name    candidates share the baseline's workload name (default)
  hash    candidates have the exact same workload-config hash
  manual  candidates are exactly the runs given via --include

Candidates can be adjusted with repeated --include/--exclude flags. Metrics
whose relative delta exceeds their configured threshold (config key
'thresholds.<metric>') are flagged. Without a baseline argument an
interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareMatch, "match", "name", "match mode: name, hash or manual")
	compareCmd.Flags().StringArrayVar(&compareInclude, "include", nil, "force-include a run (repeatable)")
	compareCmd.Flags().StringArrayVar(&compareExclude, "exclude", nil, "exclude a run (repeatable)")
	compareCmd.Flags().IntVar(&compareLimit, "limit", 0, "max candidate runs (0 = config default)")
	compareCmd.Flags().StringVar(&compareMetric, "metric", "", "stats metric to break out (p90/p50 columns and notes)")
	compareCmd.Flags().StringVar(&compareFormat, "format", "table", "output format: table, markdown or json")
}

func runCompare(cmd *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	printSkipped(cmd, sess.Repo)

	mode, err := compare.ParseMode(compareMatch)
	if err != nil {
		return err
	}

	baselineID := ""
	if len(args) > 0 {
		baselineID = args[0]
	} else {
		baselineID, err = pickBaseline(sess)
		if err != nil {
			return err
		}
	}
	sess = sess.SelectBaseline(baselineID).SetMode(mode)

	var set *compare.MatchSet
	if mode == compare.MatchManual {
		if len(compareInclude) == 0 {
			return fmt.Errorf("manual match mode needs at least one --include run")
		}
		set, err = compare.ManualSet(sess.Repo, sess.BaselineID, compareInclude)
		if err != nil {
			return err
		}
	} else {
		set, err = sess.Match()
		if err != nil {
			return err
		}
		for _, id := range compareInclude {
			run, ok := sess.Repo.FindByID(id)
			if !ok {
				return fmt.Errorf("run %q not found", id)
			}
			set.Include(run)
		}
	}
	set.Exclude(compareExclude...)

	limit := compareLimit
	if limit <= 0 {
		limit = compareLimitDefault()
	}
	set.Limit(limit)

	if len(set.Candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No comparable runs match the current filters.")
		return nil
	}

	results := compare.Compare(set, sess.Thresholds)
	noteT := config.NoteThresholds()

	switch compareFormat {
	case "table":
		fmt.Fprint(cmd.OutOrStdout(), ui.CompareTable(set, results, noteT, compareMetric))
	case "markdown":
		md := ui.CompareMarkdown(set, results, noteT, compareMetric)
		rendered, err := glamour.Render(md, "auto")
		if err != nil {
			// Fall back to the raw markdown on style errors.
			rendered = md
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	case "json":
		payload := struct {
			Baseline string                `json:"baseline"`
			Mode     compare.MatchMode     `json:"match_mode"`
			Results  []compare.DeltaResult `json:"results"`
		}{set.Baseline.ID, set.Mode, results}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		return fmt.Errorf("unknown format %q (want table, markdown or json)", compareFormat)
	}
	return nil
}

func compareLimitDefault() int {
	return viper.GetInt("compare.limit")
}

// pickBaseline offers an interactive run picker when no baseline argument
// was given.
func pickBaseline(sess session.Session) (string, error) {
	runs := sess.Repo.Runs
	if len(runs) == 0 {
		return "", &compare.NoBaselineError{}
	}
	options := make([]string, len(runs))
	byLabel := map[string]string{}
	for i, r := range runs {
		label := fmt.Sprintf("%s  (%s)", r.Label(), r.ID)
		options[i] = label
		byLabel[label] = r.ID
	}
	var choice string
	prompt := &survey.Select{
		Message:  "Baseline run:",
		Options:  options,
		PageSize: 15,
	}
	if err := askOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("no baseline selected: %w", err)
	}
	return byLabel[choice], nil
}
