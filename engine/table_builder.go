package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Flattens a chart Result into TableData
// ============================================================================
// Used by CSV and text writers. One table shape per chart kind:
//   genres   → Genre | Books
//   heatmap  → Decade | Rating | Books   (every grid cell, zeros included)
//   parallel → Title | dim1 | dim2 | ... (empty cell = missing)
// ============================================================================

// BuildTable flattens result. A nil or empty result gives an empty table.
func BuildTable(result *Result) *TableData {
	if result == nil {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}
	switch result.Kind {
	case ChartGenres:
		return buildGenreTable(result)
	case ChartHeatmap:
		return buildHeatmapTable(result)
	case ChartParallel:
		return buildProjectionTable(result)
	}
	return &TableData{Title: result.Title, Columns: []Column{}, Rows: [][]string{}}
}

// ============================================================================
// GENRE TABLE
// ============================================================================

func buildGenreTable(result *Result) *TableData {
	columns := []Column{
		{Key: "genre", Label: "Genre", Type: "text", Align: "left"},
		{Key: "count", Label: "Books", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(result.Genres))
	for _, g := range result.Genres {
		rows = append(rows, []string{g.Category, strconv.Itoa(g.Count)})
	}

	return &TableData{
		Title:   result.Title,
		Columns: columns,
		Rows:    rows,
	}
}

// ============================================================================
// HEATMAP TABLE
// ============================================================================

func buildHeatmapTable(result *Result) *TableData {
	columns := []Column{
		{Key: "decade", Label: "Decade", Type: "number", Align: "right"},
		{Key: "rating", Label: "Rating", Type: "text", Align: "left"},
		{Key: "count", Label: "Books", Type: "number", Align: "right"},
	}

	rows := [][]string{}
	if result.Heatmap != nil {
		rows = make([][]string, 0, len(result.Heatmap.Cells))
		for _, c := range result.Heatmap.Cells {
			rows = append(rows, []string{
				fmt.Sprintf("%ds", c.Decade),
				c.Label,
				strconv.Itoa(c.Count),
			})
		}
	}

	return &TableData{
		Title:   result.Title,
		Columns: columns,
		Rows:    rows,
	}
}

// ============================================================================
// PROJECTION TABLE — Row per plotted line
// ============================================================================

func buildProjectionTable(result *Result) *TableData {
	p := result.Projection
	if p == nil || len(p.Dimensions) == 0 {
		return &TableData{Title: result.Title, Columns: []Column{}, Rows: [][]string{}}
	}

	columns := make([]Column, 0, len(p.Dimensions)+1)
	columns = append(columns, Column{Key: "label", Label: "Title", Type: "text", Align: "left"})
	for _, d := range p.Dimensions {
		columns = append(columns, Column{
			Key:   d.Key,
			Label: d.DisplayName,
			Type:  "number",
			Align: "right",
		})
	}

	rows := make([][]string, 0, len(p.Records))
	for _, rec := range p.Records {
		row := make([]string, 0, len(columns))
		row = append(row, rec.Label)
		for _, d := range p.Dimensions {
			if v := rec.Values[d.Key]; v != nil {
				row = append(row, FormatNumber(*v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   result.Title,
		Columns: columns,
		Rows:    rows,
	}
}

// FormatNumber prints whole numbers without decimals and everything else
// with two.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
