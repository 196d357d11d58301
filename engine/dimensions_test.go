package engine

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/spektr-org/shelfscope/schema"
)

// ============================================================================
// DIMENSION SELECTOR TESTS
// ============================================================================

// bookRows builds n rows with every preferred column plus two extra
// numeric columns of different spread.
func bookRows(n int) []Row {
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		rows[i] = Row{
			"id":                        strconv.Itoa(i + 1),
			"isbn":                      strconv.Itoa(9780000000 + i),
			"title":                     "Book " + strconv.Itoa(i+1),
			"original_publication_year": strconv.Itoa(1950 + i),
			"average_rating":            strconv.FormatFloat(3+float64(i%3)*0.5, 'f', 1, 64),
			"num_pages":                 strconv.Itoa(100 + i*50),
			"ratings_count":             strconv.Itoa(1000 * (i + 1)),
			"swap_count":                strconv.Itoa(i % 4),
			"popularity":                strconv.Itoa(i * 3),
			"small_spread":              "1",
			"big_spread":                strconv.Itoa(i * i * 1000),
		}
	}
	return rows
}

func TestSelectDimensionsPreferredFirst(t *testing.T) {
	ds := NewDataset(bookRows(10), nil)
	sel := SelectDimensions(ds)

	if sel.TitleKey != "title" {
		t.Errorf("title key = %q", sel.TitleKey)
	}
	want := []string{"original_publication_year", "average_rating", "num_pages", "ratings_count", "swap_count", "popularity"}
	if !reflect.DeepEqual(sel.Preferred, want) {
		t.Errorf("preferred = %v, want %v", sel.Preferred, want)
	}
	if !reflect.DeepEqual(schema.Keys(sel.Selected), want) {
		t.Errorf("selected = %v, want %v", schema.Keys(sel.Selected), want)
	}
	for _, d := range sel.Candidates {
		if d.Key == "id" || d.Key == "isbn" {
			t.Errorf("excluded column %q became a candidate", d.Key)
		}
	}
}

func TestSelectDimensionsVarianceFill(t *testing.T) {
	rows := make([]Row, 6)
	for i := range rows {
		rows[i] = Row{
			"rating": strconv.Itoa(i % 5),
			"flat":   "7",
			"wide":   strconv.Itoa(i * 100),
			"mid":    strconv.Itoa(i * 10),
			"label":  "x",
		}
	}
	ds := NewDataset(rows, []string{"rating", "flat", "wide", "mid", "label"})
	sel := SelectDimensions(ds)

	if !reflect.DeepEqual(sel.Preferred, []string{"rating"}) {
		t.Errorf("preferred = %v", sel.Preferred)
	}
	if !reflect.DeepEqual(sel.ByVariance, []string{"wide", "mid", "rating", "flat"}) {
		t.Errorf("by variance = %v", sel.ByVariance)
	}
	if got := schema.Keys(sel.Selected); !reflect.DeepEqual(got, []string{"rating", "wide", "mid", "flat"}) {
		t.Errorf("selected = %v", got)
	}
}

func TestSelectDimensionsBounds(t *testing.T) {
	ds := NewDataset(bookRows(12), nil)

	tests := []struct {
		name     string
		min, max int
		want     int
	}{
		{"defaults", DefaultMinDims, DefaultMaxDims, 6},
		{"narrow", 2, 3, 3},
		{"ceiling above candidates", 4, 20, 8},
		{"floor above ceiling re-slices", 5, 3, 5},
		{"floor above candidates", 12, 12, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectDimensions(ds, WithDimensionBounds(tt.min, tt.max))
			if got := len(sel.Selected); got != tt.want {
				t.Errorf("selected %d dims, want %d", got, tt.want)
			}
			if len(sel.Selected) > len(sel.Candidates) {
				t.Errorf("selected more dims than candidates")
			}
		})
	}
}

func TestSelectDimensionsNoCandidates(t *testing.T) {
	ds := NewDataset([]Row{{"title": "A", "genre": "Drama"}}, nil)
	sel := SelectDimensions(ds)
	if len(sel.Selected) != 0 {
		t.Fatalf("selected = %v", schema.Keys(sel.Selected))
	}

	p := BuildProjection(ds, sel)
	if len(p.Dimensions) != 0 || len(p.Records) != 0 {
		t.Errorf("projection should be empty, got %+v", p)
	}
}

func TestBuildProjectionDropsWholeRows(t *testing.T) {
	rows := []Row{
		{"title": "Full", "a": "1", "b": "2", "c": "3", "d": "4"},
		{"title": "TwoHoles", "a": "1", "b": "", "c": "x", "d": "4"},
		{"title": "ThreeHoles", "a": "1", "b": "", "c": "", "d": ""},
		{"title": "", "a": "5", "b": "6", "c": "7", "d": "8"},
		{"title": "OneHole", "a": "2", "b": "3", "c": "4", "d": ""},
	}
	ds := NewDataset(rows, []string{"title", "a", "b", "c", "d"})
	sel := SelectDimensions(ds, WithMaxMissingRatio(1))
	if len(sel.Selected) != 4 {
		t.Fatalf("selected = %v", schema.Keys(sel.Selected))
	}

	p := BuildProjection(ds, sel)

	var labels []string
	for _, rec := range p.Records {
		labels = append(labels, rec.Label)
		if len(rec.Values) != 4 {
			t.Errorf("%s: partial record with %d values", rec.Label, len(rec.Values))
		}
	}
	if !reflect.DeepEqual(labels, []string{"Full", "TwoHoles", "#4", "OneHole"}) {
		t.Errorf("labels = %v", labels)
	}
	if p.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", p.Dropped)
	}

	two := p.Records[1]
	if two.Values["b"] != nil || two.Values["c"] != nil || *two.Values["d"] != 4 {
		t.Errorf("TwoHoles values wrong: %+v", two.Values)
	}
	if two.Row["title"] != "TwoHoles" {
		t.Errorf("back-reference lost")
	}

	if e := p.Extents["a"]; e.Min != 1 || e.Max != 5 {
		t.Errorf("extent a = %+v", e)
	}
}

func TestBuildProjectionMaxLines(t *testing.T) {
	ds := NewDataset(bookRows(20), nil)
	sel := SelectDimensions(ds)

	p := BuildProjection(ds, sel, WithMaxLines(5))
	if len(p.Records) != 5 || p.Truncated != 15 {
		t.Fatalf("records = %d truncated = %d", len(p.Records), p.Truncated)
	}
	for i, rec := range p.Records {
		if want := "Book " + strconv.Itoa(i+1); rec.Label != want {
			t.Errorf("record %d = %q, want %q (original order)", i, rec.Label, want)
		}
	}

	if p = BuildProjection(ds, sel, WithMaxLines(0)); len(p.Records) != 20 {
		t.Errorf("cap disabled: records = %d", len(p.Records))
	}
}
