package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — One-line summaries of chart results
// ============================================================================

// BuildSummary describes result in one sentence.
func BuildSummary(result *Result) string {
	if result == nil || result.IsEmpty() {
		return emptySummary(result)
	}

	switch result.Kind {
	case ChartGenres:
		top := result.Genres[0]
		names := make([]string, 0, len(result.Genres))
		for _, g := range result.Genres {
			names = append(names, g.Category)
		}
		return fmt.Sprintf("%s leads with %s books across %d genres shown (%s).",
			top.Category, FormatInt(top.Count), len(result.Genres), strings.Join(names, ", "))

	case ChartHeatmap:
		h := result.Heatmap
		best := h.Cells[0]
		for _, c := range h.Cells[1:] {
			if c.Count > best.Count {
				best = c
			}
		}
		return fmt.Sprintf("%s books binned into %d decades × %d rating buckets; densest cell %ds rated %s (%s books).",
			FormatInt(h.Total), len(h.Decades), len(h.Ratings), best.Decade, best.Label, FormatInt(best.Count))

	case ChartParallel:
		p := result.Projection
		names := make([]string, 0, len(p.Dimensions))
		for _, d := range p.Dimensions {
			names = append(names, d.DisplayName)
		}
		msg := fmt.Sprintf("%s books plotted over %d axes (%s)",
			FormatInt(len(p.Records)), len(p.Dimensions), strings.Join(names, ", "))
		if p.Dropped > 0 {
			msg += fmt.Sprintf("; %s dropped for missing values", FormatInt(p.Dropped))
		}
		if p.Truncated > 0 {
			msg += fmt.Sprintf("; %s beyond the line cap", FormatInt(p.Truncated))
		}
		return msg + "."
	}
	return ""
}

func emptySummary(result *Result) string {
	if result == nil || result.Rows == 0 {
		return "No data available to chart."
	}
	switch result.Kind {
	case ChartGenres:
		return "No genre column or no genre values found."
	case ChartHeatmap:
		return "No rows with both a valid year and rating in range."
	case ChartParallel:
		return "No numeric columns suitable for comparison."
	}
	return "Nothing to chart."
}
