package schema

import (
	"sort"
	"strings"
)

// ============================================================================
// COLUMN RESOLVER — case-insensitive alias lookup
// ============================================================================
// Candidate order wins over key order: ["average_rating", "rating"] picks
// "Average_Rating" even when "rating" appears first in the header.
// ============================================================================

// Resolve returns the first field name in row whose lowercase form equals
// one of aliases, checked in alias order. Keys are scanned sorted so that
// collisions such as "Title" and "title" always resolve the same way.
func Resolve(row map[string]any, aliases []string) (string, bool) {
	if len(row) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ResolveKeys(keys, aliases)
}

// ResolveKeys is Resolve over an already ordered key list.
// Among keys that fold to the same alias, the earliest key wins.
func ResolveKeys(keys []string, aliases []string) (string, bool) {
	if len(keys) == 0 || len(aliases) == 0 {
		return "", false
	}

	lower := make(map[string]string, len(keys))
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, seen := lower[lk]; !seen {
			lower[lk] = k
		}
	}

	for _, alias := range aliases {
		if k, ok := lower[strings.ToLower(alias)]; ok {
			return k, true
		}
	}
	return "", false
}

// IsExcluded reports whether key matches one of the exclusion names,
// ignoring case.
func IsExcluded(key string, exclude []string) bool {
	lk := strings.ToLower(strings.TrimSpace(key))
	for _, e := range exclude {
		if lk == strings.ToLower(e) {
			return true
		}
	}
	return false
}
