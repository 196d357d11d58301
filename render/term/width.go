package term

import (
	"sort"
	"sync"
)

// WidthSource is a controller.Resizer fed by terminal size changes,
// typically bubbletea's WindowSizeMsg. Widths are reported in pixels.
type WidthSource struct {
	mu     sync.Mutex
	width  int
	nextID int
	subs   map[int]func(int)
}

// NewWidthSource starts at cols terminal columns.
func NewWidthSource(cols int) *WidthSource {
	return &WidthSource{width: max(0, cols) * CellWidth, subs: map[int]func(int){}}
}

// Subscribe reports the current width to fn, then every change until the
// returned function is called.
func (w *WidthSource) Subscribe(fn func(width int)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	cur := w.width
	w.mu.Unlock()

	fn(cur)
	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Set records a new terminal width in columns and notifies subscribers in
// subscription order. Unchanged widths notify nobody.
func (w *WidthSource) Set(cols int) {
	px := max(0, cols) * CellWidth
	w.mu.Lock()
	if px == w.width {
		w.mu.Unlock()
		return
	}
	w.width = px
	ids := make([]int, 0, len(w.subs))
	for id := range w.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(int), len(ids))
	for i, id := range ids {
		fns[i] = w.subs[id]
	}
	w.mu.Unlock()

	// Callbacks redraw under their own locks; never call them under ours.
	for _, fn := range fns {
		fn(px)
	}
}

// Width returns the current width in pixels.
func (w *WidthSource) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

// Subscribers returns the number of live subscriptions.
func (w *WidthSource) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}
