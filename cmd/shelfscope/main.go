package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spektr-org/shelfscope/config"
	"github.com/spektr-org/shelfscope/engine"
	"github.com/spektr-org/shelfscope/helpers"
)

// ============================================================================
// SHELFSCOPE CLI — Charts for any book catalogue
// ============================================================================

const version = "0.3.0"

var (
	configPath string
	verbose    bool
	filePath   string

	settings config.Settings
	logger   = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "shelfscope",
	Short: "Genre, rating and attribute charts for book datasets",
	Long: `Shelfscope reads a book catalogue (CSV, optionally gzip/bzip2/xz
compressed) and aggregates it into three charts:

  genres     Top genres by book count
  heatmap    Average rating bucket × publication decade
  parallel   Parallel coordinates over the numeric columns

Settings come from ~/.shelfscope/config.yaml, SHELFSCOPE_* environment
variables and flags, in increasing precedence.

Examples:
  shelfscope inspect --file books.csv
  shelfscope summary --file books.csv.gz --chart heatmap --format csv
  shelfscope render --file 'data/**/books*.csv' --out-dir charts --width 1200
  shelfscope view --file books.csv`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.shelfscope/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	flags.StringVarP(&filePath, "file", "f", "", "CSV source: path, glob, or - for stdin")

	// One override flag per setting; values are parsed by the config layer.
	for _, key := range config.Keys() {
		flags.String(settingFlag(key), "", "Override the "+key+" setting")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fatalf("%v", err)
	}
}

// ── Setup ─────────────────────────────────────────────────────────────────

func setup(cmd *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	resolved, err := config.Resolve(config.ResolveOptions{
		ConfigPath: configPath,
		CLI:        changedSettings(cmd),
	})
	if err != nil {
		return err
	}
	settings = resolved.Settings
	for _, key := range config.Keys() {
		if v := resolved.Sources[key]; v.Source != config.SourceDefault {
			logger.Debug().Str("key", key).Str("value", v.Value).Str("from", v.From).Msg("setting")
		}
	}
	return nil
}

func settingFlag(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// changedSettings collects the setting flags the user actually passed.
func changedSettings(cmd *cobra.Command) map[string]string {
	out := map[string]string{}
	for _, key := range config.Keys() {
		name := settingFlag(key)
		if !cmd.Flags().Changed(name) {
			continue
		}
		if v, err := cmd.Flags().GetString(name); err == nil {
			out[key] = v
		}
	}
	return out
}

func engineOptions() []engine.Option {
	return append(settings.EngineOptions(), engine.WithLogger(logger))
}

func newLoader() *helpers.FileLoader {
	opts := append(settings.LoaderOptions(), helpers.WithLogger(logger))
	return helpers.NewFileLoader(opts...)
}

func requireFile() error {
	if filePath == "" {
		return fmt.Errorf("--file is required")
	}
	return nil
}

func loadDataset(ctx context.Context) (*engine.Dataset, error) {
	if err := requireFile(); err != nil {
		return nil, err
	}
	ds, err := newLoader().Load(ctx, filePath)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("rows", ds.Len()).Int("columns", len(ds.Columns())).Msg("parsed records")
	return ds, nil
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

func writeCSV(w io.Writer, result *engine.Result) error {
	cw := csv.NewWriter(w)

	table := engine.BuildTable(result)
	if len(table.Rows) == 0 {
		// Empty chart: the summary explains why.
		cw.Write([]string{"Summary"})
		cw.Write([]string{result.Summary})
	} else {
		cw.Write(table.Headers())
		for _, row := range table.Rows {
			cw.Write(row)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v any, format string) error {
	var (
		out []byte
		err error
	)
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// ============================================================================
// HELPERS
// ============================================================================

// outputWriter returns stdout, or the file at path.
func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
