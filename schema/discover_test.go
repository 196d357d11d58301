package schema

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

func parseCell(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		f, ok := v.(float64)
		return f, ok
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func booksRows() []map[string]any {
	return []map[string]any{
		{"id": "1", "title": "A", "average_rating": "4.1", "num_pages": "300", "notes": "x"},
		{"id": "2", "title": "B", "average_rating": "3.9", "num_pages": "", "notes": "y"},
		{"id": "3", "title": "C", "average_rating": "4.5", "num_pages": "120", "notes": ""},
		{"id": "4", "title": "D", "average_rating": "n/a", "num_pages": "410", "notes": "z"},
	}
}

func TestAnalyzeNumericCandidates(t *testing.T) {
	cols := []string{"id", "title", "average_rating", "num_pages", "notes"}
	dims, skipped := AnalyzeNumeric(booksRows(), cols, parseCell, DefaultAnalyzeOptions())

	keys := Keys(dims)
	assertEqualStrings(t, keys, []string{"average_rating", "num_pages"})

	for _, d := range dims {
		if d.ValidCount != 3 {
			t.Errorf("%s: valid count = %d, want 3", d.Key, d.ValidCount)
		}
		if math.Abs(d.MissingRatio-0.25) > 1e-9 {
			t.Errorf("%s: missing ratio = %v, want 0.25", d.Key, d.MissingRatio)
		}
	}

	if len(skipped) != 1 || skipped[0].Column != "id" {
		t.Errorf("expected only id to be reported skipped, got %+v", skipped)
	}
}

func TestAnalyzeNumericMissingThreshold(t *testing.T) {
	// 10 rows: "seventy" numeric in 7, "half" numeric in 5.
	rows := make([]map[string]any, 10)
	for i := range rows {
		row := map[string]any{"seventy": "text", "half": ""}
		if i < 7 {
			row["seventy"] = strconv.Itoa(i)
		}
		if i < 5 {
			row["half"] = strconv.Itoa(i * 2)
		}
		rows[i] = row
	}

	dims, skipped := AnalyzeNumeric(rows, []string{"seventy", "half"}, parseCell, DefaultAnalyzeOptions())
	assertEqualStrings(t, Keys(dims), []string{"seventy"})

	if len(skipped) != 1 || skipped[0].Column != "half" || !skipped[0].Recoverable {
		t.Errorf("half should be skipped as recoverable, got %+v", skipped)
	}
}

func TestAnalyzeNumericAllMissing(t *testing.T) {
	rows := []map[string]any{{"x": ""}, {"x": "abc"}}
	dims, skipped := AnalyzeNumeric(rows, []string{"x"}, parseCell, DefaultAnalyzeOptions())
	if len(dims) != 0 || len(skipped) != 0 {
		t.Errorf("all-missing column must never become a candidate: %v %v", dims, skipped)
	}
}

func TestAnalyzeNumericEmpty(t *testing.T) {
	dims, skipped := AnalyzeNumeric(nil, []string{"x"}, parseCell, DefaultAnalyzeOptions())
	if dims != nil || skipped != nil {
		t.Errorf("empty dataset should yield nothing")
	}
}

func TestPopulationVariance(t *testing.T) {
	tests := []struct {
		xs   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{5}, 0},
		{[]float64{1, 1, 1}, 0},
		{[]float64{2, 4, 4, 4, 5, 5, 7, 9}, 4},
		{[]float64{1, 2}, 0.25},
	}

	for _, tt := range tests {
		got := PopulationVariance(tt.xs)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PopulationVariance(%v) = %v, want %v", tt.xs, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"average_rating", "Average Rating"},
		{"num_pages", "Num Pages"},
		{"Ratings Count", "Ratings Count"},
		{"swap-count", "Swap Count"},
	}

	for _, tt := range tests {
		got := DisplayName(tt.input)
		if got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertEqualStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
