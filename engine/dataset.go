package engine

import (
	"sort"
	"sync"

	"github.com/spektr-org/shelfscope/schema"
)

// ============================================================================
// DATASET — Ordered rows plus cached column resolution
// ============================================================================
// The engine never copies consumer rows. A Dataset wraps the loaded slice,
// remembers the column order, and resolves each semantic role once.
// ============================================================================

type resolution struct {
	key string
	ok  bool
}

// Dataset is an immutable, ordered row set.
type Dataset struct {
	rows    []Row
	columns []string

	mu       sync.Mutex
	resolved map[string]resolution
}

// NewDataset wraps rows. columns is the header order when the loader knows
// it; when nil, columns are the union of row keys in first-seen order
// (keys within a row sorted).
func NewDataset(rows []Row, columns []string) *Dataset {
	d := &Dataset{
		rows:     rows,
		columns:  columns,
		resolved: make(map[string]resolution),
	}
	if d.columns == nil {
		d.cacheColumns()
	}
	return d
}

// EmptyDataset is the state a chart falls back to after a failed load.
func EmptyDataset() *Dataset {
	return NewDataset(nil, []string{})
}

func (d *Dataset) cacheColumns() {
	d.columns = []string{}
	seen := make(map[string]bool)
	for _, r := range d.rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			d.columns = append(d.columns, k)
		}
	}
}

// Len returns the row count. A nil Dataset is empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Rows returns the underlying rows. Callers must not modify them.
func (d *Dataset) Rows() []Row {
	if d == nil {
		return nil
	}
	return d.rows
}

// Columns returns the column order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	return d.columns
}

// Resolve maps a role to the actual column key. Candidates are the
// dataset's columns (the header when the loader knew it), so a short first
// row cannot hide a column. The answer is computed once per role and cached.
func (d *Dataset) Resolve(role schema.Role) (string, bool) {
	if d.Len() == 0 {
		return "", false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if r, ok := d.resolved[role.Name]; ok {
		return r.key, r.ok
	}

	key, ok := schema.ResolveKeys(d.candidateKeys(), role.Aliases)
	d.resolved[role.Name] = resolution{key, ok}
	return key, ok
}

// candidateKeys is the column order followed by any first-row keys the
// header never mentioned, sorted.
func (d *Dataset) candidateKeys() []string {
	keys := make([]string, 0, len(d.columns))
	known := make(map[string]bool, len(d.columns))
	for _, c := range d.columns {
		keys = append(keys, c)
		known[c] = true
	}
	var extra []string
	for k := range d.rows[0] {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
