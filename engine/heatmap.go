package engine

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// BINNING AGGREGATOR — Rating bucket × publication decade
// ============================================================================
// Pipeline per row: coerce both values → year filter → bucket.
// Then the observed decades and buckets are sorted and crossed into a
// dense grid; unobserved combinations carry count 0 so the backend can
// draw empty cells and size the color scale correctly.
// ============================================================================

// bucketWidth is the rating bucket size.
const bucketWidth = 0.5

// driftPrecision absorbs float noise before flooring (0.49999999 → 0.5).
const driftPrecision = 1e6

// Years and ratings beyond these magnitudes cannot be binned exactly
// (decade overflow, drift rounding to ±Inf); such rows are dropped.
const (
	maxBinnableYear   = 1e15
	maxBinnableRating = 1e12
)

// Binnable reports whether year and rating are small enough to bin.
func Binnable(year, rating float64) bool {
	return math.Abs(year) <= maxBinnableYear && math.Abs(rating) <= maxBinnableRating
}

// DecadeOf floors a year to its decade. Negative years floor downward:
// -5 → -10.
func DecadeOf(year float64) int {
	return int(math.Floor(year/10) * 10)
}

// RatingBucket floors a rating to the nearest 0.5 step below it, rounded to
// one decimal place.
func RatingBucket(rating float64) float64 {
	r := math.Round(rating*driftPrecision) / driftPrecision
	b := math.Floor(r/bucketWidth) * bucketWidth
	return math.Round(b*10) / 10
}

// BucketLabel formats a bucket as "{low}–{high}".
func BucketLabel(low float64) string {
	return fmt.Sprintf("%.1f–%.1f", low, low+bucketWidth)
}

// RatingDecadeGrid cross-tabulates ratings by decade. Rows with an invalid
// year or rating, or a year outside the configured range, are dropped.
// Unresolved keys yield an empty grid with MaxCount 1.
func RatingDecadeGrid(ds *Dataset, yearKey, ratingKey string, opts ...Option) *Heatmap {
	cfg := applyOptions(opts)
	h := &Heatmap{
		Decades:  []int{},
		Ratings:  []float64{},
		Cells:    []BinCell{},
		MaxCount: 1,
	}
	if yearKey == "" || ratingKey == "" {
		h.Dropped = ds.Len()
		return h
	}

	type cellKey struct {
		decade int
		bucket float64
	}
	counts := make(map[cellKey]int)
	decadeSet := make(map[int]bool)
	bucketSet := make(map[float64]bool)

	for _, row := range ds.Rows() {
		year, okY := Coerce(row[yearKey])
		rating, okR := Coerce(row[ratingKey])
		if !okY || !okR {
			h.Dropped++
			continue
		}
		if year < cfg.MinYear || year > cfg.MaxYear {
			h.Dropped++
			continue
		}
		if !Binnable(year, rating) {
			h.Dropped++
			continue
		}

		k := cellKey{DecadeOf(year), RatingBucket(rating)}
		counts[k]++
		decadeSet[k.decade] = true
		bucketSet[k.bucket] = true
		h.Total++
	}

	for d := range decadeSet {
		h.Decades = append(h.Decades, d)
	}
	sort.Ints(h.Decades)
	for b := range bucketSet {
		h.Ratings = append(h.Ratings, b)
	}
	sort.Float64s(h.Ratings)

	h.Cells = make([]BinCell, 0, len(h.Decades)*len(h.Ratings))
	for _, d := range h.Decades {
		for _, b := range h.Ratings {
			n := counts[cellKey{d, b}]
			if n > h.MaxCount {
				h.MaxCount = n
			}
			h.Cells = append(h.Cells, BinCell{
				Decade: d,
				Rating: b,
				Label:  BucketLabel(b),
				Count:  n,
			})
		}
	}

	return h
}

// Cell returns the grid cell at (decade index, rating index).
func (h *Heatmap) Cell(di, ri int) BinCell {
	return h.Cells[di*len(h.Ratings)+ri]
}
