package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/spektr-org/shelfscope/engine"
)

// ============================================================================
// FILE LOADER — Source path → engine.Dataset
// ============================================================================
// Source forms:
//   "-"                   standard input
//   "books.csv"           a plain path
//   "data/**/books*.csv"  a glob; the lexically first file is loaded
// Any of them may be gzip, bzip2 or xz compressed.
// ============================================================================

// StdinSource is the source name that reads standard input.
const StdinSource = "-"

// ErrNoMatch is returned when a glob source matches no file.
var ErrNoMatch = errors.New("no file matches pattern")

// LoadError is a load failure for one source.
type LoadError struct {
	Src string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Src, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FileLoader loads CSV sources from the local filesystem.
type FileLoader struct {
	autoType bool
	comma    rune
	stdin    io.Reader
	logger   zerolog.Logger
}

// LoaderOption configures a FileLoader.
type LoaderOption func(*FileLoader)

// WithAutoType toggles numeric pre-coercion of cells (default on).
func WithAutoType(on bool) LoaderOption {
	return func(l *FileLoader) {
		l.autoType = on
	}
}

// WithComma sets the field delimiter.
func WithComma(r rune) LoaderOption {
	return func(l *FileLoader) {
		l.comma = r
	}
}

// WithStdin replaces the reader used for the "-" source.
func WithStdin(r io.Reader) LoaderOption {
	return func(l *FileLoader) {
		l.stdin = r
	}
}

// WithLogger routes loader diagnostics to logger.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *FileLoader) {
		l.logger = logger
	}
}

// NewFileLoader creates a loader.
func NewFileLoader(opts ...LoaderOption) *FileLoader {
	l := &FileLoader{
		autoType: true,
		stdin:    os.Stdin,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads src into a Dataset. Every failure is a *LoadError.
func (l *FileLoader) Load(ctx context.Context, src string) (*engine.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Src: src, Err: err}
	}

	var (
		in   io.Reader
		name = src
	)
	if src == StdinSource {
		in = l.stdin
		name = "stdin"
	} else {
		path, err := l.resolvePath(src)
		if err != nil {
			return nil, &LoadError{Src: src, Err: err}
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, &LoadError{Src: src, Err: err}
		}
		defer f.Close()
		in = f
		name = path
	}

	dec, kind, err := Decompress(&ctxReader{ctx: ctx, r: in})
	if err != nil {
		return nil, &LoadError{Src: src, Err: err}
	}
	defer dec.Close()

	ds, stats, err := ParseCSV(dec, CSVOptions{AutoType: l.autoType, Comma: l.comma})
	if err != nil {
		return nil, &LoadError{Src: src, Err: err}
	}

	l.logger.Debug().
		Str("source", name).
		Stringer("compression", kind).
		Int("rows", stats.Rows).
		Int("columns", len(ds.Columns())).
		Msg("dataset loaded")
	if stats.Skipped > 0 {
		l.logger.Warn().Str("source", name).Int("skipped", stats.Skipped).Msg("malformed CSV records skipped")
	}
	return ds, nil
}

// resolvePath expands a glob source to its first match.
func (l *FileLoader) resolvePath(src string) (string, error) {
	if !IsGlob(src) {
		return src, nil
	}

	matches, err := doublestar.FilepathGlob(src, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("pattern matching failed: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoMatch
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		l.logger.Info().
			Str("pattern", src).
			Str("using", matches[0]).
			Int("ignored", len(matches)-1).
			Msg("pattern matched several files; loading the first")
	}
	return matches[0], nil
}

// IsGlob reports whether src contains glob metacharacters.
func IsGlob(src string) bool {
	return strings.ContainsAny(src, "*?[{")
}

// ctxReader stops a long read once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
