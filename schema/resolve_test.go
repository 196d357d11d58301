package schema

import "testing"

func TestResolveCandidateOrder(t *testing.T) {
	row := map[string]any{"rating": "3", "Average_Rating": "4.2", "title": "x"}

	got, ok := Resolve(row, Rating.Aliases)
	if !ok || got != "Average_Rating" {
		t.Errorf("Resolve = %q, %v; want Average_Rating, true", got, ok)
	}
}

func TestResolveNoMatch(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]any
	}{
		{"nil row", nil},
		{"empty row", map[string]any{}},
		{"no alias", map[string]any{"foo": 1, "bar": 2}},
	}

	for _, tt := range tests {
		if got, ok := Resolve(tt.row, Genre.Aliases); ok {
			t.Errorf("%s: Resolve = %q, want no match", tt.name, got)
		}
	}
}

func TestResolveCaseCollision(t *testing.T) {
	row := map[string]any{"title": "b", "Title": "a"}
	for i := 0; i < 20; i++ {
		got, _ := Resolve(row, Title.Aliases)
		if got != "Title" {
			t.Fatalf("Resolve must be deterministic on case collisions, got %q", got)
		}
	}
}

func TestResolveKeysHeaderOrder(t *testing.T) {
	keys := []string{"GENRES", "Genre"}
	got, ok := ResolveKeys(keys, []string{"genre", "genres"})
	if !ok || got != "Genre" {
		t.Errorf("ResolveKeys = %q, want Genre (alias order beats key order)", got)
	}

	got, _ = ResolveKeys([]string{"Year", "year"}, Year.Aliases)
	if got != "Year" {
		t.Errorf("earliest key should win among same-folding keys, got %q", got)
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"id", true},
		{"ID", true},
		{" Isbn ", true},
		{"isbn13", false},
		{"book_id", false},
	}
	for _, tt := range tests {
		if got := IsExcluded(tt.key, DefaultExclude); got != tt.want {
			t.Errorf("IsExcluded(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
