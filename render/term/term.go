package term

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/spektr-org/shelfscope/controller"
	"github.com/spektr-org/shelfscope/engine"
)

// ============================================================================
// TERMINAL RENDERING — Frames as styled text
// ============================================================================
// Layouts are computed in pixels; one terminal cell stands for
// CellWidth × CellHeight pixels, so the same layout rules apply to the
// SVG export and the live view.
//
//   genres   → block bars
//   heatmap  → shaded grid, highest rating bucket on top
//   parallel → one sparkline per axis showing how records spread over it
// ============================================================================

const (
	CellWidth  = 8
	CellHeight = 16
)

// PixelsFor converts a terminal size in cells to layout pixels.
func PixelsFor(cols, rows int) (width, height int) {
	return cols * CellWidth, rows * CellHeight
}

// Styles groups the lipgloss styles used for drawing.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Bar     lipgloss.Style
	Muted   lipgloss.Style
	Tooltip lipgloss.Style
}

// DefaultStyles returns the built-in palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Bar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4e79a7")),
		Muted:   lipgloss.NewStyle().Faint(true).Italic(true),
		Tooltip: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// ============================================================================
// BACKEND
// ============================================================================

// Backend keeps the last drawn frame as text for a bubbletea View.
type Backend struct {
	styles Styles

	mu    sync.Mutex
	body  string
	tip   string
	draws int
}

// NewBackend creates a backend with the default styles.
func NewBackend() *Backend {
	return &Backend{styles: DefaultStyles()}
}

// Clear drops the previous drawing.
func (b *Backend) Clear() {
	b.mu.Lock()
	b.body = ""
	b.mu.Unlock()
}

// Draw renders frame into the backend's buffer.
func (b *Backend) Draw(frame engine.Frame) error {
	out := Render(frame, b.styles)
	b.mu.Lock()
	b.body = out
	b.draws++
	b.mu.Unlock()
	return nil
}

// NewTooltip returns a tooltip that renders below the chart.
func (b *Backend) NewTooltip() controller.Tooltip {
	return &tooltip{b: b}
}

// View returns the current drawing plus the tooltip, if shown.
func (b *Backend) View() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tip == "" {
		return b.body
	}
	return lipgloss.JoinVertical(lipgloss.Left, b.body, b.styles.Tooltip.Render(b.tip))
}

// Draws returns how many frames were drawn.
func (b *Backend) Draws() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draws
}

type tooltip struct {
	b        *Backend
	released bool
}

func (t *tooltip) Show(text string) {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if !t.released {
		t.b.tip = text
	}
}

func (t *tooltip) Release() {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if !t.released {
		t.released = true
		t.b.tip = ""
	}
}

// ============================================================================
// RENDER
// ============================================================================

// Render draws frame as text. Undrawable layouts render as "".
func Render(frame engine.Frame, st Styles) string {
	l := frame.Layout
	if !l.Drawable {
		return ""
	}
	r := frame.Result
	if r.IsEmpty() {
		return st.Muted.Render(r.Summary)
	}

	cols := max(1, l.InnerWidth/CellWidth)
	rows := max(1, l.InnerHeight/CellHeight)

	var body string
	switch r.Kind {
	case engine.ChartGenres:
		body = renderBars(r, cols, st)
	case engine.ChartHeatmap:
		body = renderHeatmap(r, st)
	case engine.ChartParallel:
		body = renderParallel(r, cols, rows, st)
	}
	return lipgloss.JoinVertical(lipgloss.Left, st.Title.Render(r.Title), body, st.Muted.Render(r.Summary))
}

func renderBars(r *engine.Result, cols int, st Styles) string {
	labelW, maxCount := 0, 1
	for _, g := range r.Genres {
		labelW = max(labelW, lipgloss.Width(g.Category))
		maxCount = max(maxCount, g.Count)
	}
	labelW = min(labelW, 24)

	lines := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		n := int(math.Round(float64(cols) * float64(g.Count) / float64(maxCount)))
		if n == 0 && g.Count > 0 {
			n = 1
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			st.Label.Render(pad(truncate(g.Category, labelW), labelW)),
			st.Bar.Render(strings.Repeat("█", n)),
			engine.FormatInt(g.Count)))
	}
	return strings.Join(lines, "\n")
}

const cellW = 6

func renderHeatmap(r *engine.Result, st Styles) string {
	h := r.Heatmap
	labelW := len(engine.BucketLabel(0)) + 1

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelW))
	for _, d := range h.Decades {
		b.WriteString(center(fmt.Sprintf("%ds", d), cellW))
	}
	for ri := len(h.Ratings) - 1; ri >= 0; ri-- {
		b.WriteString("\n")
		b.WriteString(st.Label.Render(pad(engine.BucketLabel(h.Ratings[ri]), labelW)))
		for di := range h.Decades {
			c := h.Cell(di, ri)
			text := "·"
			if c.Count > 0 {
				text = engine.FormatInt(c.Count)
			}
			b.WriteString(heatStyle(c.Count, h.MaxCount).Render(center(text, cellW)))
		}
	}
	return b.String()
}

// heatStyle shades a cell on a white → blue ramp over [0, max].
func heatStyle(count, maxCount int) lipgloss.Style {
	t := 0.0
	if maxCount > 0 {
		t = float64(count) / float64(maxCount)
	}
	lerp := func(a, b int) int { return a + int(math.Round(float64(b-a)*t)) }
	bg := fmt.Sprintf("#%02x%02x%02x", lerp(0xff, 0x4e), lerp(0xff, 0x79), lerp(0xff, 0xa7))
	fg := "#222222"
	if t > 0.6 {
		fg = "#ffffff"
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg))
}

var sparks = []rune("▁▂▃▄▅▆▇█")

func renderParallel(r *engine.Result, cols, rows int, st Styles) string {
	p := r.Projection
	labelW := 0
	for _, d := range p.Dimensions {
		labelW = max(labelW, lipgloss.Width(d.DisplayName))
	}
	labelW = min(labelW, 20)
	bins := max(8, cols-labelW-24)

	lines := make([]string, 0, len(p.Dimensions))
	for _, d := range p.Dimensions {
		e := p.Extents[d.Key]
		counts := Spread(p.Records, d.Key, e, bins)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			st.Label.Render(pad(truncate(d.DisplayName, labelW), labelW)),
			st.Bar.Render(Sparkline(counts)),
			st.Muted.Render(engine.FormatNumber(e.Min)+"–"+engine.FormatNumber(e.Max))))
		if len(lines) >= rows {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Spread counts how many records fall in each of n equal bins over e.
// Missing values are not counted; a zero-width extent lands in the middle.
func Spread(records []engine.ProjectionRecord, key string, e engine.Extent, n int) []int {
	counts := make([]int, n)
	span := e.Max - e.Min
	for _, rec := range records {
		v := rec.Values[key]
		if v == nil {
			continue
		}
		i := n / 2
		if span > 0 {
			i = int(float64(n) * (*v - e.Min) / span)
		}
		counts[min(max(i, 0), n-1)]++
	}
	return counts
}

// Sparkline maps counts to block glyphs; empty bins render as spaces.
func Sparkline(counts []int) string {
	top := 0
	for _, c := range counts {
		top = max(top, c)
	}
	out := make([]rune, len(counts))
	for i, c := range counts {
		switch {
		case c == 0:
			out[i] = ' '
		default:
			out[i] = sparks[(c*len(sparks)-1)/top]
		}
	}
	return string(out)
}

func pad(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func center(s string, w int) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap/2) + s + strings.Repeat(" ", gap-gap/2)
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
