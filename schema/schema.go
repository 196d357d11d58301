package schema

// ============================================================================
// SCHEMA — Semantic roles and column descriptors for book datasets
// ============================================================================
// Book exports never agree on column names. A Role names what a column
// means ("rating") and lists the spellings datasets use for it, in
// priority order. The resolver maps a Role to the actual header once per
// dataset; the analyzer describes which columns carry numbers.
// ============================================================================

// Role is a semantic column role with its alias spellings.
// Aliases are lowercase and ordered: earlier spellings win.
type Role struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Predefined roles used by the aggregators.
var (
	Genre = Role{Name: "genre", Aliases: []string{"genre", "genres", "categories"}}

	Year = Role{Name: "year", Aliases: []string{
		"original_publication_year", "publication_year", "year", "pub_year", "published_year",
	}}

	Rating = Role{Name: "rating", Aliases: []string{"average_rating", "avg_rating", "rating", "rating_avg"}}

	Title = Role{Name: "title", Aliases: []string{"title", "original_title", "book_title", "name"}}

	Pages = Role{Name: "pages", Aliases: []string{"num_pages", "pages", "page_count", "number_of_pages"}}

	RatingsCount = Role{Name: "ratings_count", Aliases: []string{
		"ratings_count", "num_ratings", "rating_count", "work_ratings_count",
	}}

	Swaps = Role{Name: "swaps", Aliases: []string{"swap_count", "swaps", "exchange_count", "exchanges"}}

	Popularity = Role{Name: "popularity", Aliases: []string{"popularity", "popularity_score", "score"}}
)

// PreferredDimensions is the ordered preference list for parallel-coordinate
// axes. At most one column is picked per role, in this order.
var PreferredDimensions = []Role{Year, Rating, Pages, RatingsCount, Swaps, Popularity}

// DefaultExclude lists identifier-like columns that never become axes.
var DefaultExclude = []string{"id", "isbn"}

// Dimension describes one numeric candidate column.
// It only lives while dimensions are being selected.
type Dimension struct {
	Key          string  `json:"key"`
	DisplayName  string  `json:"displayName"`
	ValidCount   int     `json:"validCount"`
	MissingRatio float64 `json:"missingRatio"`
	Variance     float64 `json:"variance"`
}

// SkippedColumn records why a column was not offered as a numeric candidate.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Would pass with a looser threshold
}

// Keys returns the keys of a dimension list, in order.
func Keys(dims []Dimension) []string {
	keys := make([]string, len(dims))
	for i, d := range dims {
		keys[i] = d.Key
	}
	return keys
}
