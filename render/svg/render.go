package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	svgo "github.com/ajstarks/svgo"

	"github.com/spektr-org/shelfscope/engine"
)

// ============================================================================
// SVG RENDERING — One document per frame
// ============================================================================
//   genres   → horizontal bars (svgo)
//   heatmap  → go-gg tiles, fill scale pinned to [0, MaxCount]
//   parallel → one polyline per record, broken at missing values (svgo)
// Empty results render a placeholder with the summary text. Layouts that
// are not drawable render nothing.
// ============================================================================

const (
	barColor   = "#4e79a7"
	lineColor  = "#4e79a7"
	axisColor  = "#888"
	labelColor = "#444"
	fontStyle  = `font-family="Helvetica,Arial,sans-serif" font-size="12px"`
)

// Render writes frame as an SVG document to w.
func Render(w io.Writer, frame engine.Frame) error {
	l := frame.Layout
	if !l.Drawable {
		return nil
	}
	r := frame.Result
	if r.IsEmpty() {
		return renderPlaceholder(w, frame)
	}

	switch r.Kind {
	case engine.ChartGenres:
		return renderBars(w, frame)
	case engine.ChartHeatmap:
		return renderHeatmap(w, frame)
	case engine.ChartParallel:
		return renderParallel(w, frame)
	}
	return fmt.Errorf("unsupported chart kind %q", r.Kind)
}

func renderPlaceholder(w io.Writer, frame engine.Frame) error {
	l := frame.Layout
	canvas := svgo.New(w)
	canvas.Start(l.Width, l.Height, fontStyle)
	canvas.Text(l.Width/2, l.Height/2, frame.Result.Summary, `text-anchor="middle" fill="`+labelColor+`"`)
	canvas.End()
	return nil
}

// ============================================================================
// BARS
// ============================================================================

func renderBars(w io.Writer, frame engine.Frame) error {
	l, r := frame.Layout, frame.Result
	canvas := svgo.New(w)
	canvas.Start(l.Width, l.Height, fontStyle)
	defer canvas.End()

	canvas.Title(r.Title)
	canvas.Text(l.Margin.Left, l.Margin.Top/2+6, r.Title, `font-weight="bold"`)

	max := 1
	for _, g := range r.Genres {
		if g.Count > max {
			max = g.Count
		}
	}

	band := float64(l.InnerHeight) / float64(len(r.Genres))
	barH := int(math.Max(1, band*0.8))
	for i, g := range r.Genres {
		y := l.Margin.Top + int(float64(i)*band+band*0.1)
		width := int(float64(l.InnerWidth) * float64(g.Count) / float64(max))

		canvas.Group(`class="bar"`)
		canvas.Title(fmt.Sprintf("%s: %s", g.Category, engine.FormatInt(g.Count)))
		canvas.Rect(l.Margin.Left, y, width, barH, "fill:"+barColor)
		canvas.Text(l.Margin.Left-6, y+barH/2, g.Category, `text-anchor="end" dy=".35em" fill="`+labelColor+`"`)
		canvas.Text(l.Margin.Left+width+4, y+barH/2, engine.FormatInt(g.Count), `dy=".35em" fill="`+labelColor+`"`)
		canvas.Gend()
	}
	return nil
}

// ============================================================================
// HEATMAP
// ============================================================================

func renderHeatmap(w io.Writer, frame engine.Frame) (err error) {
	// go-gg panics on inputs it has no layout for; the plain grid below
	// covers those.
	defer func() {
		if p := recover(); p != nil {
			err = renderHeatmapGrid(w, frame)
		}
	}()

	l, r := frame.Layout, frame.Result
	h := r.Heatmap

	decades := make([]float64, len(h.Cells))
	ratings := make([]float64, len(h.Cells))
	counts := make([]float64, len(h.Cells))
	for i, c := range h.Cells {
		decades[i] = float64(c.Decade)
		ratings[i] = c.Rating
		counts[i] = float64(c.Count)
	}

	tab := new(table.Builder).
		Add("decade", decades).
		Add("rating", ratings).
		Add("books", counts).
		Done()

	plot := gg.NewPlot(tab)
	plot.SetScale("fill", gg.NewLinearScaler().Include(0).Include(float64(h.MaxCount)))
	plot.Add(gg.LayerTiles{X: "decade", Y: "rating", Fill: "books"})
	plot.Add(gg.Title(r.Title))
	plot.Add(gg.AxisLabel("x", "Decade"), gg.AxisLabel("y", "Average rating"))

	// Buffer so a half-written plot never reaches w.
	var buf bytes.Buffer
	if werr := plot.WriteSVG(&buf, l.Width, l.Height); werr != nil {
		return werr
	}
	_, err = buf.WriteTo(w)
	return err
}

// renderHeatmapGrid draws the dense grid directly, one rect per cell.
func renderHeatmapGrid(w io.Writer, frame engine.Frame) error {
	l, r := frame.Layout, frame.Result
	h := r.Heatmap

	canvas := svgo.New(w)
	canvas.Start(l.Width, l.Height, fontStyle)
	defer canvas.End()
	canvas.Title(r.Title)

	cw := float64(l.InnerWidth) / float64(len(h.Decades))
	ch := float64(l.InnerHeight) / float64(len(h.Ratings))
	for di, d := range h.Decades {
		x := l.Margin.Left + int(float64(di)*cw)
		canvas.Text(x+int(cw/2), l.Margin.Top+l.InnerHeight+16, fmt.Sprintf("%ds", d), `text-anchor="middle" fill="`+labelColor+`"`)
		for ri := range h.Ratings {
			c := h.Cell(di, ri)
			// Highest bucket on top.
			y := l.Margin.Top + int(float64(len(h.Ratings)-1-ri)*ch)
			canvas.Group(`class="cell"`)
			canvas.Title(fmt.Sprintf("%ds, rating %s: %s", c.Decade, c.Label, engine.FormatInt(c.Count)))
			canvas.Rect(x, y, int(math.Ceil(cw)), int(math.Ceil(ch)), "fill:"+rampColor(c.Count, h.MaxCount))
			canvas.Gend()
		}
	}
	for ri, b := range h.Ratings {
		y := l.Margin.Top + int(float64(len(h.Ratings)-1-ri)*ch+ch/2)
		canvas.Text(l.Margin.Left-6, y, engine.BucketLabel(b), `text-anchor="end" dy=".35em" fill="`+labelColor+`"`)
	}
	return nil
}

// rampColor interpolates white → barColor over [0, max].
func rampColor(count, max int) string {
	t := 0.0
	if max > 0 {
		t = float64(count) / float64(max)
	}
	lerp := func(a, b int) int { return a + int(math.Round(float64(b-a)*t)) }
	return fmt.Sprintf("rgb(%d,%d,%d)", lerp(0xff, 0x4e), lerp(0xff, 0x79), lerp(0xff, 0xa7))
}

// ============================================================================
// PARALLEL COORDINATES
// ============================================================================

func renderParallel(w io.Writer, frame engine.Frame) error {
	l, r := frame.Layout, frame.Result
	p := r.Projection

	canvas := svgo.New(w)
	canvas.Start(l.Width, l.Height, fontStyle)
	defer canvas.End()
	canvas.Title(r.Title)

	axes := AxisPositions(len(p.Dimensions), l)

	// Lines first so axes stay readable on top.
	canvas.Group(`fill="none" stroke="` + lineColor + `" stroke-opacity="0.35"`)
	for _, rec := range p.Records {
		canvas.Group(`class="line"`)
		canvas.Title(rec.Label)
		for _, seg := range Segments(rec, p, axes, l) {
			if len(seg.X) == 1 {
				canvas.Circle(seg.X[0], seg.Y[0], 2, "fill:"+lineColor)
				continue
			}
			canvas.Polyline(seg.X, seg.Y)
		}
		canvas.Gend()
	}
	canvas.Gend()

	for i, d := range p.Dimensions {
		x := axes[i]
		canvas.Line(x, l.Margin.Top, x, l.Margin.Top+l.InnerHeight, "stroke:"+axisColor)
		canvas.Text(x, l.Margin.Top-10, d.DisplayName, `text-anchor="middle" font-weight="bold"`)
		if e, ok := p.Extents[d.Key]; ok {
			canvas.Text(x+4, l.Margin.Top+8, engine.FormatNumber(e.Max), `fill="`+labelColor+`"`)
			canvas.Text(x+4, l.Margin.Top+l.InnerHeight, engine.FormatNumber(e.Min), `fill="`+labelColor+`"`)
		}
	}
	return nil
}

// AxisPositions spreads n vertical axes evenly across the plot area.
func AxisPositions(n int, l engine.Layout) []int {
	xs := make([]int, n)
	switch n {
	case 0:
	case 1:
		xs[0] = l.Margin.Left + l.InnerWidth/2
	default:
		step := float64(l.InnerWidth) / float64(n-1)
		for i := range xs {
			xs[i] = l.Margin.Left + int(math.Round(float64(i)*step))
		}
	}
	return xs
}

// Segment is a run of consecutive present values of one record.
type Segment struct {
	X, Y []int
}

// Segments splits a record's line at missing values.
func Segments(rec engine.ProjectionRecord, p *engine.Projection, axes []int, l engine.Layout) []Segment {
	var (
		out []Segment
		cur Segment
	)
	flush := func() {
		if len(cur.X) > 0 {
			out = append(out, cur)
		}
		cur = Segment{}
	}
	for i, d := range p.Dimensions {
		v := rec.Values[d.Key]
		if v == nil {
			flush()
			continue
		}
		cur.X = append(cur.X, axes[i])
		cur.Y = append(cur.Y, axisY(*v, p.Extents[d.Key], l))
	}
	flush()
	return out
}

// axisY maps v into the vertical plot range; higher values sit higher.
func axisY(v float64, e engine.Extent, l engine.Layout) int {
	t := 0.5
	if span := e.Max - e.Min; span > 0 {
		t = (v - e.Min) / span
	}
	return l.Margin.Top + int(math.Round(float64(l.InnerHeight)*(1-t)))
}
