package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/shelfscope/engine"
	"github.com/spektr-org/shelfscope/helpers"
	"github.com/spektr-org/shelfscope/schema"
)

// ErrInvalid marks a configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

type ValueSource string

const (
	SourceDefault ValueSource = "default"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// Settings is the per-chart configuration.
type Settings struct {
	TopN               int      `json:"top_n"`
	DedupeGenres       bool     `json:"dedupe_genres"`
	MinYear            float64  `json:"min_year"`
	MaxYear            float64  `json:"max_year"` // +Inf = unbounded
	MinDims            int      `json:"min_dims"`
	MaxDims            int      `json:"max_dims"`
	MaxLines           int      `json:"max_lines"` // <= 0 disables the cap
	MaxMissingRatio    float64  `json:"max_missing_ratio"`
	RowMissingFraction float64  `json:"row_missing_fraction"`
	Exclude            []string `json:"exclude"`
	AutoType           bool     `json:"auto_type"`
	Height             int      `json:"height"`
	Width              int      `json:"width"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		TopN:               engine.DefaultTopN,
		MinYear:            engine.DefaultMinYear,
		MaxYear:            math.Inf(1),
		MinDims:            engine.DefaultMinDims,
		MaxDims:            engine.DefaultMaxDims,
		MaxLines:           engine.DefaultMaxLines,
		MaxMissingRatio:    engine.DefaultMaxMissingRatio,
		RowMissingFraction: engine.DefaultRowMissingFraction,
		Exclude:            append([]string(nil), schema.DefaultExclude...),
		AutoType:           true,
		Height:             400,
		Width:              960,
	}
}

type ResolveOptions struct {
	ConfigPath string
	// CLI holds flag values by setting key ("top_n", "height"...).
	// Only flags the user actually set belong here.
	CLI map[string]string
}

type Resolved struct {
	ConfigPath string                   `json:"config_path"`
	Settings   Settings                 `json:"settings"`
	Sources    map[string]ResolvedValue `json:"sources"`
}

// ============================================================================
// FIELD TABLE — One entry per setting key
// ============================================================================

type field struct {
	key string
	env string // empty: not settable from the environment
	set func(s *Settings, v any) error
}

var fields = []field{
	{"top_n", "SHELFSCOPE_TOP_N", func(s *Settings, v any) (err error) { s.TopN, err = cast.ToIntE(v); return }},
	{"dedupe_genres", "", func(s *Settings, v any) (err error) { s.DedupeGenres, err = cast.ToBoolE(v); return }},
	{"min_year", "SHELFSCOPE_MIN_YEAR", func(s *Settings, v any) (err error) { s.MinYear, err = toBound(v, math.Inf(-1)); return }},
	{"max_year", "SHELFSCOPE_MAX_YEAR", func(s *Settings, v any) (err error) { s.MaxYear, err = toBound(v, math.Inf(1)); return }},
	{"min_dims", "", func(s *Settings, v any) (err error) { s.MinDims, err = cast.ToIntE(v); return }},
	{"max_dims", "", func(s *Settings, v any) (err error) { s.MaxDims, err = cast.ToIntE(v); return }},
	{"max_lines", "SHELFSCOPE_MAX_LINES", func(s *Settings, v any) (err error) { s.MaxLines, err = cast.ToIntE(v); return }},
	{"max_missing_ratio", "", func(s *Settings, v any) (err error) { s.MaxMissingRatio, err = cast.ToFloat64E(v); return }},
	{"row_missing_fraction", "", func(s *Settings, v any) (err error) { s.RowMissingFraction, err = cast.ToFloat64E(v); return }},
	{"exclude", "", func(s *Settings, v any) (err error) { s.Exclude, err = toList(v); return }},
	{"auto_type", "", func(s *Settings, v any) (err error) { s.AutoType, err = cast.ToBoolE(v); return }},
	{"height", "SHELFSCOPE_HEIGHT", func(s *Settings, v any) (err error) { s.Height, err = cast.ToIntE(v); return }},
	{"width", "", func(s *Settings, v any) (err error) { s.Width, err = cast.ToIntE(v); return }},
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

// Keys lists every setting key in display order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shelfscope", "config.yaml")
}

// Resolve layers defaults < config file < environment < CLI flags and
// validates the result. A missing config file is not an error.
func Resolve(opts ResolveOptions) (Resolved, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}
	path = expandUserPath(path)

	out := Resolved{
		ConfigPath: path,
		Settings:   Defaults(),
		Sources:    map[string]ResolvedValue{},
	}
	for _, f := range fields {
		out.Sources[f.key] = ResolvedValue{Source: SourceDefault, From: "built-in default"}
	}

	file, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	keys := make([]string, 0, len(file))
	for k := range file {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := out.apply(k, file[k], SourceConfig, path); err != nil {
			return out, err
		}
	}

	for _, f := range fields {
		if f.env == "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(f.env)); v != "" {
			if err := out.apply(f.key, v, SourceEnv, f.env); err != nil {
				return out, err
			}
		}
	}

	cli := make([]string, 0, len(opts.CLI))
	for k := range opts.CLI {
		cli = append(cli, k)
	}
	sort.Strings(cli)
	for _, k := range cli {
		if err := out.apply(k, opts.CLI[k], SourceCLI, "--"+strings.ReplaceAll(k, "_", "-")); err != nil {
			return out, err
		}
	}

	if err := out.Settings.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

func (r *Resolved) apply(key string, v any, source ValueSource, from string) error {
	f, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q in %s", ErrInvalid, key, from)
	}
	if err := f.set(&r.Settings, v); err != nil {
		return fmt.Errorf("%w: %s from %s: %v", ErrInvalid, key, from, err)
	}
	r.Sources[key] = ResolvedValue{Value: fmt.Sprint(v), Source: source, From: from}
	return nil
}

// Validate rejects settings the engine cannot honor.
func (s Settings) Validate() error {
	var problems []string
	if s.TopN < 0 {
		problems = append(problems, fmt.Sprintf("top_n %d is negative", s.TopN))
	}
	if s.MinDims < 1 {
		problems = append(problems, fmt.Sprintf("min_dims %d is below 1", s.MinDims))
	}
	if s.MinDims > s.MaxDims {
		problems = append(problems, fmt.Sprintf("min_dims %d exceeds max_dims %d", s.MinDims, s.MaxDims))
	}
	if s.MinYear > s.MaxYear {
		problems = append(problems, fmt.Sprintf("min_year %v exceeds max_year %v", s.MinYear, s.MaxYear))
	}
	if s.MaxMissingRatio < 0 || s.MaxMissingRatio > 1 {
		problems = append(problems, fmt.Sprintf("max_missing_ratio %v outside [0,1]", s.MaxMissingRatio))
	}
	if s.RowMissingFraction < 0 || s.RowMissingFraction > 1 {
		problems = append(problems, fmt.Sprintf("row_missing_fraction %v outside [0,1]", s.RowMissingFraction))
	}
	if s.Height < 0 || s.Width < 0 {
		problems = append(problems, "height and width must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// EngineOptions converts the settings to aggregation options.
func (s Settings) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithTopN(s.TopN),
		engine.WithGenreDedupe(s.DedupeGenres),
		engine.WithYearRange(s.MinYear, s.MaxYear),
		engine.WithDimensionBounds(s.MinDims, s.MaxDims),
		engine.WithMaxLines(s.MaxLines),
		engine.WithMaxMissingRatio(s.MaxMissingRatio),
		engine.WithRowMissingFraction(s.RowMissingFraction),
		engine.WithExclude(s.Exclude...),
	}
}

// LoaderOptions converts the settings to file loader options.
func (s Settings) LoaderOptions() []helpers.LoaderOption {
	return []helpers.LoaderOption{helpers.WithAutoType(s.AutoType)}
}

func loadConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg map[string]any
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// toBound reads a year bound. Empty, "none" and null mean open.
func toBound(v any, open float64) (float64, error) {
	if v == nil {
		return open, nil
	}
	if s, ok := v.(string); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "none" {
			return open, nil
		}
	}
	return cast.ToFloat64E(v)
}

// toList accepts a YAML sequence or a comma-separated string.
func toList(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}
	return cast.ToStringSliceE(v)
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
