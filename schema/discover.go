package schema

import (
	"fmt"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// ============================================================================
// NUMERIC DISCOVERY — Which columns can become parallel-coordinate axes
// ============================================================================
// Classification pipeline per column:
//   1. Skip identifier-like columns (exclusion set)
//   2. Coerce every cell → valid count
//   3. Zero valid values → not a candidate at all
//   4. Missing ratio above threshold → skipped (too sparse)
//   5. Population variance of the valid values
//
// Output keeps column order so later stable sorts tie-break on it.
// ============================================================================

// Coercer turns a raw cell into a finite number, or reports it invalid.
type Coercer func(v any) (float64, bool)

// AnalyzeOptions controls numeric discovery.
type AnalyzeOptions struct {
	Exclude         []string // Identifier-like columns, matched case-insensitively
	MaxMissingRatio float64  // Candidates above this ratio are skipped. Default: 0.4
}

// DefaultAnalyzeOptions returns the stock thresholds.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		Exclude:         DefaultExclude,
		MaxMissingRatio: 0.4,
	}
}

// AnalyzeNumeric describes every numeric candidate among columns.
// Columns that never coerce are silently ignored; columns that coerce but
// are too sparse come back in the skipped list.
func AnalyzeNumeric(rows []map[string]any, columns []string, coerce Coercer, opt AnalyzeOptions) ([]Dimension, []SkippedColumn) {
	total := len(rows)
	if total == 0 || len(columns) == 0 {
		return nil, nil
	}

	var dims []Dimension
	var skipped []SkippedColumn

	for _, col := range columns {
		if IsExcluded(col, opt.Exclude) {
			skipped = append(skipped, SkippedColumn{
				Column: col,
				Reason: "Identifier-like column",
			})
			continue
		}

		values := make([]float64, 0, total)
		for _, row := range rows {
			if v, ok := coerce(row[col]); ok {
				values = append(values, v)
			}
		}

		if len(values) == 0 {
			continue
		}

		missing := 1 - float64(len(values))/float64(total)
		if missing > opt.MaxMissingRatio {
			skipped = append(skipped, SkippedColumn{
				Column:      col,
				Reason:      fmt.Sprintf("Missing in %.0f%% of rows (limit %.0f%%)", missing*100, opt.MaxMissingRatio*100),
				Recoverable: true,
			})
			continue
		}

		dims = append(dims, Dimension{
			Key:          col,
			DisplayName:  DisplayName(col),
			ValidCount:   len(values),
			MissingRatio: missing,
			Variance:     PopulationVariance(values),
		})
	}

	return dims, skipped
}

// PopulationVariance is the mean squared deviation from the mean.
// Empty and single-value inputs have variance 0.
func PopulationVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := stats.Mean(xs)
	sq := make([]float64, len(xs))
	for i, x := range xs {
		d := x - mean
		sq[i] = d * d
	}
	return stats.Mean(sq)
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// DisplayName cleans a header for axis labels.
// "average_rating" → "Average Rating", "Num Pages" → "Num Pages"
func DisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
