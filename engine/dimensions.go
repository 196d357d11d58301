package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/spektr-org/shelfscope/schema"
)

// ============================================================================
// DIMENSION SELECTOR — Parallel-coordinate axes from an unknown schema
// ============================================================================
// Pipeline:
//   1. Resolve the title column (labels only)
//   2. Numeric candidates: every non-excluded column that coerces at least once
//   3. Drop sparse candidates (missing ratio > limit)
//   4. Preferred list: first matching alias per semantic group, group order
//   5. Variance list: candidates by variance desc (stable)
//   6. Combined = preferred ++ variance, de-duplicated
//   7. Take min(maxDims, n), never fewer than min(minDims, n)
//   8. Project rows; drop rows with too many holes; cap line count
// ============================================================================

// Selection is the outcome of dimension selection.
type Selection struct {
	Candidates []schema.Dimension     `json:"candidates"` // sparse columns already removed; column order
	Skipped    []schema.SkippedColumn `json:"skipped,omitempty"`
	Preferred  []string               `json:"preferred"`
	ByVariance []string               `json:"byVariance"`
	Selected   []schema.Dimension     `json:"selected"`
	TitleKey   string                 `json:"titleKey,omitempty"`
}

// SelectDimensions picks the projection axes for ds.
func SelectDimensions(ds *Dataset, opts ...Option) Selection {
	cfg := applyOptions(opts)
	sel := Selection{
		Candidates: []schema.Dimension{},
		Preferred:  []string{},
		ByVariance: []string{},
		Selected:   []schema.Dimension{},
	}
	if ds.Len() == 0 {
		return sel
	}

	// 1. Title column
	if key, ok := ds.Resolve(schema.Title); ok {
		sel.TitleKey = key
	}

	// 2–3. Candidates
	sel.Candidates, sel.Skipped = schema.AnalyzeNumeric(ds.Rows(), ds.Columns(), Coerce, schema.AnalyzeOptions{
		Exclude:         cfg.Exclude,
		MaxMissingRatio: cfg.MaxMissingRatio,
	})
	if len(sel.Candidates) == 0 {
		return sel
	}

	byKey := make(map[string]schema.Dimension, len(sel.Candidates))
	keys := make([]string, len(sel.Candidates))
	for i, d := range sel.Candidates {
		byKey[d.Key] = d
		keys[i] = d.Key
	}

	// 4. Preferred list
	for _, role := range schema.PreferredDimensions {
		if key, ok := schema.ResolveKeys(keys, role.Aliases); ok && !containsKey(sel.Preferred, key) {
			sel.Preferred = append(sel.Preferred, key)
		}
	}

	// 5. Variance list
	ranked := make([]schema.Dimension, len(sel.Candidates))
	copy(ranked, sel.Candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Variance > ranked[j].Variance
	})
	for _, d := range ranked {
		sel.ByVariance = append(sel.ByVariance, d.Key)
	}

	// 6. Combined priority
	combined := make([]string, 0, len(keys))
	for _, list := range [][]string{sel.Preferred, sel.ByVariance} {
		for _, k := range list {
			if !containsKey(combined, k) {
				combined = append(combined, k)
			}
		}
	}

	// 7. Bounded cut
	n := minInt(cfg.MaxDims, len(combined))
	if floor := minInt(cfg.MinDims, len(combined)); n < floor {
		n = floor
	}
	if n < 0 {
		n = 0
	}
	for _, k := range combined[:n] {
		sel.Selected = append(sel.Selected, byKey[k])
	}

	return sel
}

// BuildProjection prepares one record per retained row over the selected
// dimensions. A row is kept whole (with nil holes) or dropped whole.
func BuildProjection(ds *Dataset, sel Selection, opts ...Option) *Projection {
	cfg := applyOptions(opts)
	p := &Projection{
		Dimensions: sel.Selected,
		TitleKey:   sel.TitleKey,
		Records:    []ProjectionRecord{},
		Extents:    map[string]Extent{},
	}
	if p.Dimensions == nil {
		p.Dimensions = []schema.Dimension{}
	}
	if len(sel.Selected) == 0 || ds.Len() == 0 {
		return p
	}

	allowed := int(math.Floor(float64(len(sel.Selected)) * cfg.RowMissingFraction))

	for i, row := range ds.Rows() {
		values := make(map[string]*float64, len(sel.Selected))
		missing := 0
		for _, d := range sel.Selected {
			if v, ok := Coerce(row[d.Key]); ok {
				values[d.Key] = &v
			} else {
				values[d.Key] = nil
				missing++
			}
		}
		if missing > allowed {
			p.Dropped++
			continue
		}
		p.Records = append(p.Records, ProjectionRecord{
			Row:    row,
			Label:  rowLabel(row, sel.TitleKey, i),
			Values: values,
		})
	}

	if cfg.MaxLines > 0 && len(p.Records) > cfg.MaxLines {
		p.Truncated = len(p.Records) - cfg.MaxLines
		p.Records = p.Records[:cfg.MaxLines]
	}

	for _, d := range sel.Selected {
		var xs []float64
		for _, rec := range p.Records {
			if v := rec.Values[d.Key]; v != nil {
				xs = append(xs, *v)
			}
		}
		if len(xs) == 0 {
			continue
		}
		lo, hi := stats.Bounds(xs)
		p.Extents[d.Key] = Extent{Min: lo, Max: hi}
	}

	return p
}

func rowLabel(row Row, titleKey string, index int) string {
	if titleKey != "" {
		if s := strings.TrimSpace(CoerceString(row[titleKey])); s != "" {
			return s
		}
	}
	return fmt.Sprintf("#%d", index+1)
}

func containsKey(list []string, key string) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
