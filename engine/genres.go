package engine

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================================
// GENRE AGGREGATOR — Split, count, rank, truncate
// ============================================================================
// Pipeline: split → count → stable sort → limit.
// A cell like "Fantasy, Drama" contributes to both genres. Ties keep
// first-encountered order, so re-running on the same rows is byte-identical.
// ============================================================================

// GenreCounts ranks the comma-separated categories in column key.
// An empty key (unresolved column) yields an empty result.
func GenreCounts(ds *Dataset, key string, topN int, opts ...Option) []CountRecord {
	cfg := applyOptions(opts)
	if topN <= 0 {
		topN = cfg.TopN
	}
	if key == "" || ds.Len() == 0 {
		return []CountRecord{}
	}

	counts := make(map[string]int)
	order := make([]string, 0)

	for _, row := range ds.Rows() {
		raw, ok := row[key]
		if !ok || raw == nil {
			continue
		}
		cell := CoerceString(raw)
		if strings.TrimSpace(cell) == "" {
			continue
		}

		var seen map[string]bool
		if cfg.DedupeGenres {
			seen = make(map[string]bool)
		}
		for _, part := range strings.Split(cell, ",") {
			genre := strings.TrimSpace(part)
			if genre == "" {
				continue
			}
			if seen != nil {
				if seen[genre] {
					continue
				}
				seen[genre] = true
			}
			if _, exists := counts[genre]; !exists {
				order = append(order, genre)
			}
			counts[genre]++
		}
	}

	records := make([]CountRecord, 0, len(order))
	for _, genre := range order {
		records = append(records, CountRecord{Category: genre, Count: counts[genre]})
	}

	SortCounts(records)

	if len(records) > topN {
		records = records[:topN]
	}
	return records
}

// SortCounts orders records by count, descending, keeping the existing
// order among equal counts.
func SortCounts(records []CountRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Count > records[j].Count
	})
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
