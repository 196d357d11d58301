package engine

import "github.com/spektr-org/shelfscope/schema"

// ============================================================================
// SHELFSCOPE ENGINE TYPES — Book Dataset Aggregation
// ============================================================================
// Rows come from the loader as plain maps; every chart output here is a
// small, already-aggregated record set the rendering backend can draw
// without touching raw rows again.
// ============================================================================

// ============================================================================
// ROW — Raw loaded record
// ============================================================================

// Row maps a verbatim column name to a cell value (string, or a number when
// the loader auto-typed it). Rows are never mutated after loading.
type Row = map[string]any

// ============================================================================
// CHART KINDS
// ============================================================================

// ChartKind selects which aggregation a chart instance runs.
type ChartKind string

const (
	ChartGenres   ChartKind = "genres"   // ranked genre frequency
	ChartHeatmap  ChartKind = "heatmap"  // rating × decade density grid
	ChartParallel ChartKind = "parallel" // parallel-coordinates projection
)

// ChartKinds lists every chart kind in display order.
var ChartKinds = []ChartKind{ChartGenres, ChartHeatmap, ChartParallel}

// ParseChartKind maps a name to a ChartKind.
func ParseChartKind(s string) (ChartKind, bool) {
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ============================================================================
// CATEGORICAL OUTPUT
// ============================================================================

// CountRecord is one ranked category.
type CountRecord struct {
	Category string `json:"genre"`
	Count    int    `json:"count"`
}

// ============================================================================
// BINNED OUTPUT
// ============================================================================

// BinCell is one cell of the rating × decade grid.
type BinCell struct {
	Decade int     `json:"decade"`
	Rating float64 `json:"rating"` // lower bound of the 0.5-wide bucket
	Label  string  `json:"label"`  // "3.5–4.0"
	Count  int     `json:"count"`
}

// Heatmap is a dense grid over the observed decades and rating buckets.
// Cells are decade-major: Cells[d*len(Ratings)+r].
type Heatmap struct {
	Decades  []int     `json:"decades"`
	Ratings  []float64 `json:"ratings"`
	Cells    []BinCell `json:"cells"`
	MaxCount int       `json:"maxCount"` // color-scale ceiling, never below 1
	Total    int       `json:"total"`
	Dropped  int       `json:"dropped"`
}

// ============================================================================
// PROJECTION OUTPUT
// ============================================================================

// ProjectionRecord is one plotted line. Row is a back-reference for tooltip
// detail and is not owned by the record.
type ProjectionRecord struct {
	Row    Row                 `json:"-"`
	Label  string              `json:"label"`
	Values map[string]*float64 `json:"values"` // nil = missing
}

// Extent is the [Min, Max] domain of one axis over retained rows.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Projection is the prepared parallel-coordinates data.
type Projection struct {
	Dimensions []schema.Dimension `json:"dimensions"`
	TitleKey   string             `json:"titleKey,omitempty"`
	Records    []ProjectionRecord `json:"records"`
	Extents    map[string]Extent  `json:"extents"`
	Dropped    int                `json:"dropped"`   // rows with too many holes
	Truncated  int                `json:"truncated"` // rows cut by the line cap
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output for one chart.
// Exactly one of Genres, Heatmap, Projection is populated based on Kind.
type Result struct {
	Kind    ChartKind `json:"kind"`
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Rows    int       `json:"rows"`

	Genres     []CountRecord `json:"genres,omitempty"`
	Heatmap    *Heatmap      `json:"heatmap,omitempty"`
	Projection *Projection   `json:"projection,omitempty"`

	// Resolved column keys used to build this result, by role name.
	Columns map[string]string `json:"columns,omitempty"`
}

// IsEmpty reports whether there is nothing to draw.
func (r *Result) IsEmpty() bool {
	if r == nil {
		return true
	}
	switch r.Kind {
	case ChartGenres:
		return len(r.Genres) == 0
	case ChartHeatmap:
		return r.Heatmap == nil || len(r.Heatmap.Cells) == 0
	case ChartParallel:
		return r.Projection == nil || len(r.Projection.Dimensions) == 0 || len(r.Projection.Records) == 0
	}
	return true
}

// Frame is what the rendering backend receives: an aggregate plus the
// current layout.
type Frame struct {
	Result *Result `json:"result"`
	Layout Layout  `json:"layout"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a chart result flattened into rows for CSV or text output.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Headers returns the column labels.
func (t *TableData) Headers() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Label
	}
	return h
}
