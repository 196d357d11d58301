package engine

import (
	"strings"
	"testing"

	"github.com/spektr-org/shelfscope/schema"
)

// ============================================================================
// EXECUTOR + LAYOUT + DATASET TESTS
// ============================================================================

func mixedCaseBooks() *Dataset {
	rows := []Row{
		{"Title": "Dune", "Genres": "SciFi, Classic", "Year": "1965", "Avg_Rating": "4.3", "Pages": "412", "ISBN": "1"},
		{"Title": "Emma", "Genres": "Classic, Romance", "Year": "1815", "Avg_Rating": "4.0", "Pages": "474", "ISBN": "2"},
		{"Title": "Neuromancer", "Genres": "SciFi", "Year": "1984", "Avg_Rating": "3.9", "Pages": "271", "ISBN": "3"},
		{"Title": "Beloved", "Genres": "Classic", "Year": "1987", "Avg_Rating": "3.8", "Pages": "324", "ISBN": "4"},
	}
	return NewDataset(rows, []string{"Title", "Genres", "Year", "Avg_Rating", "Pages", "ISBN"})
}

func TestExecuteGenres(t *testing.T) {
	r := Execute(ChartGenres, mixedCaseBooks(), WithTopN(2))

	if r.Columns["genre"] != "Genres" {
		t.Errorf("resolved genre column = %q", r.Columns["genre"])
	}
	if len(r.Genres) != 2 || r.Genres[0].Category != "Classic" || r.Genres[0].Count != 3 {
		t.Errorf("genres = %+v", r.Genres)
	}
	if !strings.HasPrefix(r.Summary, "Classic leads") {
		t.Errorf("summary = %q", r.Summary)
	}
}

func TestExecuteHeatmap(t *testing.T) {
	r := Execute(ChartHeatmap, mixedCaseBooks())

	h := r.Heatmap
	if h == nil {
		t.Fatal("nil heatmap")
	}
	// 1815 is below the default minimum year.
	if h.Total != 3 || h.Dropped != 1 {
		t.Errorf("total = %d dropped = %d", h.Total, h.Dropped)
	}
	if len(h.Cells) != len(h.Decades)*len(h.Ratings) {
		t.Errorf("grid not dense: %d cells for %dx%d", len(h.Cells), len(h.Decades), len(h.Ratings))
	}
	if r.Columns["year"] != "Year" || r.Columns["rating"] != "Avg_Rating" {
		t.Errorf("columns = %v", r.Columns)
	}
}

func TestExecuteParallel(t *testing.T) {
	r := Execute(ChartParallel, mixedCaseBooks())

	p := r.Projection
	if p == nil {
		t.Fatal("nil projection")
	}
	got := schema.Keys(p.Dimensions)
	want := []string{"Year", "Avg_Rating", "Pages"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("dimensions = %v, want %v", got, want)
	}
	if len(p.Records) != 4 || p.Records[0].Label != "Dune" {
		t.Errorf("records = %+v", p.Records)
	}
}

func TestExecuteNeverFails(t *testing.T) {
	unrelated := NewDataset([]Row{{"foo": "bar"}}, nil)

	for _, kind := range ChartKinds {
		for name, ds := range map[string]*Dataset{"empty": EmptyDataset(), "nil": nil, "unrelated": unrelated} {
			r := Execute(kind, ds)
			if !r.IsEmpty() {
				t.Errorf("%s/%s: expected empty result", kind, name)
			}
			if r.Summary == "" {
				t.Errorf("%s/%s: expected a summary", kind, name)
			}
		}
	}
}

func TestParseChartKind(t *testing.T) {
	if k, ok := ParseChartKind("heatmap"); !ok || k != ChartHeatmap {
		t.Errorf("heatmap → %v %v", k, ok)
	}
	if _, ok := ParseChartKind("pie"); ok {
		t.Error("pie should not parse")
	}
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		drawable      bool
	}{
		{"normal", 960, 400, true},
		{"zero width", 0, 400, false},
		{"negative width", -20, 400, false},
		{"narrower than margins", DefaultMargin.Left + DefaultMargin.Right, 400, false},
		{"zero height", 960, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.width, tt.height)
			if l.Drawable != tt.drawable {
				t.Errorf("drawable = %v, want %v", l.Drawable, tt.drawable)
			}
			if l.InnerWidth < 0 || l.InnerHeight < 0 || l.Width < 0 {
				t.Errorf("negative size in %+v", l)
			}
		})
	}

	l := ComputeLayout(960, 400)
	if l.InnerWidth != 960-DefaultMargin.Left-DefaultMargin.Right {
		t.Errorf("inner width = %d", l.InnerWidth)
	}
}

func TestDatasetResolveCached(t *testing.T) {
	rows := []Row{{"Rating": "4"}, {"rating": "3"}}
	ds := NewDataset(rows, nil)

	key, ok := ds.Resolve(schema.Rating)
	if !ok || key != "Rating" {
		t.Fatalf("Resolve = %q %v", key, ok)
	}
	// Resolution is cached; later row edits never re-resolve.
	rows[0]["average_rating"] = "4.1"
	if again, _ := ds.Resolve(schema.Rating); again != "Rating" {
		t.Errorf("cached resolution changed to %q", again)
	}

	if _, ok := ds.Resolve(schema.Genre); ok {
		t.Error("genre should not resolve")
	}
	if _, ok := EmptyDataset().Resolve(schema.Title); ok {
		t.Error("empty dataset should not resolve")
	}
}

func TestDatasetResolveUsesHeader(t *testing.T) {
	rows := []Row{
		{"title": "Short Book", "year": 1999.0},
		{"title": "B", "year": 2001.0, "rating": 4.1, "genre": "Drama"},
	}
	ds := NewDataset(rows, []string{"title", "year", "rating", "genre"})

	for _, role := range []schema.Role{schema.Rating, schema.Genre} {
		if key, ok := ds.Resolve(role); !ok || key != role.Name {
			t.Errorf("Resolve(%s) = %q %v", role.Name, key, ok)
		}
	}
}

func TestDatasetColumnsUnion(t *testing.T) {
	ds := NewDataset([]Row{{"b": 1, "a": 2}, {"c": 3, "a": 4}}, nil)
	if got := strings.Join(ds.Columns(), ","); got != "a,b,c" {
		t.Errorf("columns = %s", got)
	}
}

func TestBuildTable(t *testing.T) {
	ds := mixedCaseBooks()

	genres := BuildTable(Execute(ChartGenres, ds))
	if strings.Join(genres.Headers(), ",") != "Genre,Books" || len(genres.Rows) != 3 {
		t.Errorf("genre table = %+v", genres)
	}

	heat := BuildTable(Execute(ChartHeatmap, ds))
	if len(heat.Rows) == 0 || !strings.HasSuffix(heat.Rows[0][0], "s") {
		t.Errorf("heatmap table = %+v", heat)
	}

	par := BuildTable(Execute(ChartParallel, ds))
	if got := strings.Join(par.Headers(), ","); got != "Title,Year,Avg Rating,Pages" {
		t.Errorf("projection headers = %s", got)
	}
	if par.Rows[0][0] != "Dune" || par.Rows[0][1] != "1965" || par.Rows[0][2] != "4.30" {
		t.Errorf("first projection row = %v", par.Rows[0])
	}

	if empty := BuildTable(nil); len(empty.Rows) != 0 {
		t.Errorf("nil result should give empty table")
	}
}
