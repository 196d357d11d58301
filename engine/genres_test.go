package engine

import (
	"reflect"
	"testing"
)

// ============================================================================
// GENRE AGGREGATOR TESTS
// ============================================================================

func genreDataset(cells ...any) *Dataset {
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row{"genre": c}
	}
	return NewDataset(rows, []string{"genre"})
}

func TestGenreCountsTieBreak(t *testing.T) {
	ds := genreDataset("Fantasy, Drama", "Drama", "Fantasy")

	got := GenreCounts(ds, "genre", 2)
	want := []CountRecord{
		{Category: "Fantasy", Count: 2},
		{Category: "Drama", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGenreCountsRankingAndTruncation(t *testing.T) {
	ds := genreDataset(
		"Mystery",
		" Horror ,Mystery,",
		"",
		nil,
		"Romance, Mystery",
		"Horror",
	)

	tests := []struct {
		name string
		topN int
		want []CountRecord
	}{
		{"top 1", 1, []CountRecord{{"Mystery", 3}}},
		{"top 2", 2, []CountRecord{{"Mystery", 3}, {"Horror", 2}}},
		{"fewer than N", 10, []CountRecord{{"Mystery", 3}, {"Horror", 2}, {"Romance", 1}}},
		{"non-positive uses default", 0, []CountRecord{{"Mystery", 3}, {"Horror", 2}, {"Romance", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenreCounts(ds, "genre", tt.topN)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGenreCountsDeterministic(t *testing.T) {
	ds := genreDataset("A, B, C", "C, B", "D", "A", "E, D")
	first := GenreCounts(ds, "genre", 10)
	for i := 0; i < 5; i++ {
		if again := GenreCounts(ds, "genre", 10); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestGenreCountsDedupe(t *testing.T) {
	ds := genreDataset("Drama, Drama", "Drama")

	if got := GenreCounts(ds, "genre", 5); got[0].Count != 3 {
		t.Errorf("default should count repeats, got %+v", got)
	}
	if got := GenreCounts(ds, "genre", 5, WithGenreDedupe(true)); got[0].Count != 2 {
		t.Errorf("dedupe should count once per row, got %+v", got)
	}
}

func TestGenreCountsEmpty(t *testing.T) {
	if got := GenreCounts(EmptyDataset(), "genre", 3); len(got) != 0 {
		t.Errorf("empty dataset: got %+v", got)
	}
	if got := GenreCounts(genreDataset("Drama"), "", 3); got == nil || len(got) != 0 {
		t.Errorf("unresolved column should give empty non-nil slice, got %#v", got)
	}
}

func TestFormatInt(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range tests {
		if got := FormatInt(in); got != want {
			t.Errorf("FormatInt(%d) = %q, want %q", in, got, want)
		}
	}
}
