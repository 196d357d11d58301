package controller

import (
	"context"

	"github.com/spektr-org/shelfscope/engine"
)

// ============================================================================
// COLLABORATORS — What a chart instance talks to
// ============================================================================
// The controller owns no drawing and no I/O. It drives:
//   Backend  → turns frames into marks, hands out tooltip resources
//   Resizer  → reports container width, immediately and on change
//   Loader   → fetches and parses a source into a Dataset
// ============================================================================

// Backend renders frames for one chart instance.
type Backend interface {
	// Clear removes everything the previous Draw produced.
	Clear()
	// Draw renders one frame. Only called for drawable layouts.
	Draw(frame engine.Frame) error
	// NewTooltip allocates a floating tooltip element.
	NewTooltip() Tooltip
}

// Tooltip is a transient hover element owned by one instance.
type Tooltip interface {
	Show(text string)
	Release()
}

// Resizer reports the container's content width. Subscribe must call fn
// once with the current width before returning, then again on every change.
type Resizer interface {
	Subscribe(fn func(width int)) (unsubscribe func())
}

// Loader turns a source name into rows.
type Loader interface {
	Load(ctx context.Context, src string) (*engine.Dataset, error)
}

// FixedWidth is a Resizer whose width never changes. Used for static
// export where there is no live container.
type FixedWidth int

// Subscribe reports the fixed width once.
func (w FixedWidth) Subscribe(fn func(width int)) func() {
	fn(int(w))
	return func() {}
}
