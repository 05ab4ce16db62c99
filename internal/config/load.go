package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"txlens/internal/compare"
	"txlens/internal/report"
)

// DefaultReportsDir is the conventional location of txgen report files.
const DefaultReportsDir = "reports"

// Load initializes configuration from an optional file and TXLENS_*
// environment variables. Safe to call once at command startup.
func Load(cfgFile string) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("txlens")
	}

	viper.SetEnvPrefix("TXLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("reports_dir", DefaultReportsDir)
	viper.SetDefault("recursive", true)
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")

	// Per-metric relative-delta flag thresholds; empty by default so no
	// metric is flagged until the user opts in.
	viper.SetDefault("thresholds", map[string]float64{})

	viper.SetDefault("compare.limit", 10)
	viper.SetDefault("notes.tps_drop_pct", 10.0)
	viper.SetDefault("notes.drop_rate_pp", 5.0)
	viper.SetDefault("notes.stat_p90_pct", 10.0)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ScanOptions builds loader options from the active configuration.
func ScanOptions() report.Options {
	return report.Options{Recursive: viper.GetBool("recursive")}
}

// Thresholds reads the per-metric flag thresholds. Metric names may contain
// dots ("latency.p90"), so values are taken from the map directly rather
// than through viper's dotted key paths.
func Thresholds() compare.Thresholds {
	t := compare.Thresholds{}
	for metric, val := range viper.GetStringMap("thresholds") {
		switch v := val.(type) {
		case float64:
			t[metric] = v
		case int:
			t[metric] = float64(v)
		case int64:
			t[metric] = float64(v)
		}
	}
	return t
}

// NoteThresholds reads the regression-note tunables.
func NoteThresholds() compare.NoteThresholds {
	return compare.NoteThresholds{
		TPSDropPct: viper.GetFloat64("notes.tps_drop_pct"),
		DropRatePP: viper.GetFloat64("notes.drop_rate_pp"),
		StatP90Pct: viper.GetFloat64("notes.stat_p90_pct"),
	}
}
