package engine

import (
	"math"
	"reflect"
	"testing"
)

// ============================================================================
// BINNING AGGREGATOR TESTS
// ============================================================================

func yearRatingDataset(pairs ...[2]any) *Dataset {
	rows := make([]Row, len(pairs))
	for i, p := range pairs {
		rows[i] = Row{"year": p[0], "rating": p[1]}
	}
	return NewDataset(rows, []string{"year", "rating"})
}

func TestRatingDecadeGridDense(t *testing.T) {
	ds := yearRatingDataset(
		[2]any{"1995", "3.2"},
		[2]any{"2001", "3.6"},
		[2]any{"2004", "4.9"},
	)

	h := RatingDecadeGrid(ds, "year", "rating")

	if !reflect.DeepEqual(h.Decades, []int{1990, 2000}) {
		t.Errorf("decades = %v", h.Decades)
	}
	if !reflect.DeepEqual(h.Ratings, []float64{3.0, 3.5, 4.5}) {
		t.Errorf("ratings = %v", h.Ratings)
	}
	if len(h.Cells) != 6 {
		t.Fatalf("cells = %d, want 6", len(h.Cells))
	}

	sum := 0
	seen := make(map[[2]float64]bool)
	for _, c := range h.Cells {
		if c.Count != 0 && c.Count != 1 {
			t.Errorf("cell %+v has count outside {0,1}", c)
		}
		k := [2]float64{float64(c.Decade), c.Rating}
		if seen[k] {
			t.Errorf("duplicate cell %v", k)
		}
		seen[k] = true
		sum += c.Count
	}
	if sum != 3 || h.Total != 3 {
		t.Errorf("sum = %d, total = %d, want 3", sum, h.Total)
	}

	if c := h.Cell(1, 2); c.Decade != 2000 || c.Rating != 4.5 || c.Count != 1 {
		t.Errorf("Cell(1,2) = %+v", c)
	}
	if c := h.Cell(0, 1); c.Count != 0 {
		t.Errorf("1990/3.5 should be an empty cell, got %+v", c)
	}
}

func TestRatingBucket(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{3.2, 3.0},
		{3.5, 3.5},
		{3.99, 3.5},
		{4.9, 4.5},
		{5.0, 5.0},
		{0.49999999, 0.5},
		{0.5, 0.5},
		{0.1, 0.0},
	}
	for _, tt := range tests {
		if got := RatingBucket(tt.in); got != tt.want {
			t.Errorf("RatingBucket(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecadeOf(t *testing.T) {
	tests := map[float64]int{1995: 1990, 2000: 2000, 2009.9: 2000, -5: -10, -10: -10, 0: 0}
	for in, want := range tests {
		if got := DecadeOf(in); got != want {
			t.Errorf("DecadeOf(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestBucketLabel(t *testing.T) {
	if got := BucketLabel(3.5); got != "3.5–4.0" {
		t.Errorf("BucketLabel(3.5) = %q", got)
	}
	if got := BucketLabel(0); got != "0.0–0.5" {
		t.Errorf("BucketLabel(0) = %q", got)
	}
}

func TestRatingDecadeGridFilters(t *testing.T) {
	ds := yearRatingDataset(
		[2]any{"1850", "4.0"},   // before default min year
		[2]any{"", "4.0"},       // missing year
		[2]any{"1999", "great"}, // bad rating
		[2]any{1999.0, 4.0},
		[2]any{"2021", "3.1"},
	)

	h := RatingDecadeGrid(ds, "year", "rating")
	if h.Total != 2 || h.Dropped != 3 {
		t.Errorf("total = %d dropped = %d, want 2 and 3", h.Total, h.Dropped)
	}

	h = RatingDecadeGrid(ds, "year", "rating", WithYearRange(math.Inf(-1), 2000))
	if h.Total != 2 || !reflect.DeepEqual(h.Decades, []int{1850, 1990}) {
		t.Errorf("open low bound: total = %d decades = %v", h.Total, h.Decades)
	}

	h = RatingDecadeGrid(ds, "year", "rating", WithYearRange(1999, 1999))
	if h.Total != 1 {
		t.Errorf("inclusive bounds: total = %d, want 1", h.Total)
	}
}

func TestRatingDecadeGridDropsUnbinnable(t *testing.T) {
	ds := yearRatingDataset(
		[2]any{1e300, 4.0},    // decade would overflow int
		[2]any{1999.0, 1e303}, // drift rounding would reach +Inf
		[2]any{1999.0, 4.0},
	)

	h := RatingDecadeGrid(ds, "year", "rating")
	if h.Total != 1 || h.Dropped != 2 {
		t.Fatalf("total = %d dropped = %d, want 1 and 2", h.Total, h.Dropped)
	}
	if !reflect.DeepEqual(h.Decades, []int{1990}) || h.Cells[0].Label != "4.0–4.5" {
		t.Errorf("decades = %v cells = %+v", h.Decades, h.Cells)
	}
	if Binnable(math.Inf(1), 4) || !Binnable(-5, 0) {
		t.Error("Binnable bounds")
	}
}

func TestRatingDecadeGridMaxCount(t *testing.T) {
	h := RatingDecadeGrid(EmptyDataset(), "year", "rating")
	if h.MaxCount != 1 || len(h.Cells) != 0 {
		t.Errorf("empty grid: %+v", h)
	}

	h = RatingDecadeGrid(yearRatingDataset([2]any{"1995", "4"}), "", "rating")
	if h.MaxCount != 1 || h.Dropped != 1 || len(h.Cells) != 0 {
		t.Errorf("unresolved year: %+v", h)
	}

	ds := yearRatingDataset(
		[2]any{"1995", "4.1"},
		[2]any{"1991", "4.2"},
		[2]any{"1990", "4.4"},
		[2]any{"2010", "2.0"},
	)
	if h = RatingDecadeGrid(ds, "year", "rating"); h.MaxCount != 3 {
		t.Errorf("MaxCount = %d, want 3", h.MaxCount)
	}
}
