package svg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spektr-org/shelfscope/controller"
	"github.com/spektr-org/shelfscope/engine"
)

// OpenFunc returns the destination for one chart's document.
type OpenFunc func(kind engine.ChartKind) (io.WriteCloser, error)

// Backend writes each drawn frame as a standalone SVG document.
type Backend struct {
	open OpenFunc

	mu    sync.Mutex
	drawn int
}

// NewBackend creates a backend writing through open.
func NewBackend(open OpenFunc) *Backend {
	return &Backend{open: open}
}

// DirWriter writes "<dir>/<kind>.svg", creating dir if needed.
func DirWriter(dir string) OpenFunc {
	return func(kind engine.ChartKind) (io.WriteCloser, error) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(dir, string(kind)+".svg"))
	}
}

// Clear is a no-op: every Draw opens a fresh destination, so the previous
// document is replaced rather than erased.
func (b *Backend) Clear() {}

// Draw renders frame to a fresh destination.
func (b *Backend) Draw(frame engine.Frame) error {
	w, err := b.open(frame.Result.Kind)
	if err != nil {
		return fmt.Errorf("open %s output: %w", frame.Result.Kind, err)
	}
	if err := Render(w, frame); err != nil {
		w.Close()
		return fmt.Errorf("render %s: %w", frame.Result.Kind, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	b.mu.Lock()
	b.drawn++
	b.mu.Unlock()
	return nil
}

// Drawn returns how many documents were written.
func (b *Backend) Drawn() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drawn
}

// NewTooltip returns a no-op tooltip. Static SVG has no hover layer;
// per-mark <title> elements carry the detail instead.
func (b *Backend) NewTooltip() controller.Tooltip {
	return tooltip{}
}

type tooltip struct{}

func (tooltip) Show(string) {}
func (tooltip) Release()    {}
