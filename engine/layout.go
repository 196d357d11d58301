package engine

// ============================================================================
// LAYOUT — Pure function of (viewport width, target height)
// ============================================================================

// Margin is the space reserved around the plot area for axes and labels.
type Margin struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// DefaultMargin leaves room for category labels on the left and tick
// labels underneath.
var DefaultMargin = Margin{Top: 32, Right: 24, Bottom: 40, Left: 120}

// Layout is the drawing area for one redraw.
type Layout struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	InnerWidth  int    `json:"innerWidth"`
	InnerHeight int    `json:"innerHeight"`
	Margin      Margin `json:"margin"`
	Drawable    bool   `json:"drawable"` // false → backend must draw nothing
}

// ComputeLayout derives the plot area from the container width and the
// configured height. Non-positive or too-small sizes are not drawable.
func ComputeLayout(width, height int) Layout {
	return ComputeLayoutWithMargin(width, height, DefaultMargin)
}

// ComputeLayoutWithMargin is ComputeLayout with explicit margins.
func ComputeLayoutWithMargin(width, height int, m Margin) Layout {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	l := Layout{
		Width:  width,
		Height: height,
		Margin: m,
	}
	l.InnerWidth = width - m.Left - m.Right
	l.InnerHeight = height - m.Top - m.Bottom
	if l.InnerWidth < 0 {
		l.InnerWidth = 0
	}
	if l.InnerHeight < 0 {
		l.InnerHeight = 0
	}
	l.Drawable = l.InnerWidth > 0 && l.InnerHeight > 0
	return l
}
