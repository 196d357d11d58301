package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spektr-org/shelfscope/engine"
	"github.com/spektr-org/shelfscope/helpers"
)

// ============================================================================
// RESPONSIVE RECOMPUTE CONTROLLER — One chart instance
// ============================================================================
// State: dataset, width, height, tooltip. Any change to dataset, width or
// height triggers a full redraw:
//
//   1. backend.Clear()                     (always)
//   2. release tooltip                     (always)
//   3. Execute(kind, dataset)              pure over (rows, options)
//   4. ComputeLayout(width, height)        pure over (width, height)
//   5. backend.Draw(frame)                 only when the layout is drawable
//
// Loads run on their own goroutine and carry a generation number. A load
// that finishes after Close, SetDataset or a newer Load is discarded.
// One mutex serializes load completions, resize notifications and calls.
// ============================================================================

var (
	// ErrClosed is returned by operations on a closed instance.
	ErrClosed = errors.New("chart instance closed")
	// ErrStale is delivered for a load whose result was discarded.
	ErrStale = errors.New("load superseded")
)

// Instance is one chart bound to one backend.
type Instance struct {
	id         string
	kind       engine.ChartKind
	backend    Backend
	loader     Loader
	height     int
	engineOpts []engine.Option
	logger     zerolog.Logger

	mu          sync.Mutex
	ds          *engine.Dataset
	width       int
	generation  uint64
	cancelLoad  context.CancelFunc
	loadErr     error
	unsubscribe func()
	tooltip     Tooltip
	frame       *engine.Frame
	closed      bool
}

// New creates an instance with an empty dataset and zero width. Nothing is
// drawn until Attach, SetDataset or a load completes.
func New(kind engine.ChartKind, backend Backend, opts ...Option) *Instance {
	in := &Instance{
		id:      uuid.NewString(),
		kind:    kind,
		backend: backend,
		height:  DefaultHeight,
		logger:  zerolog.Nop(),
		ds:      engine.EmptyDataset(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger = in.logger.With().Str("chart", in.id).Str("kind", string(kind)).Logger()
	if in.loader == nil {
		in.loader = helpers.NewFileLoader(helpers.WithLogger(in.logger))
	}
	in.engineOpts = append(in.engineOpts, engine.WithLogger(in.logger))
	return in
}

// ID returns the instance identifier.
func (in *Instance) ID() string { return in.id }

// Kind returns the chart kind.
func (in *Instance) Kind() engine.ChartKind { return in.kind }

// Attach subscribes to r, replacing any earlier subscription. The initial
// reading triggers a redraw.
func (in *Instance) Attach(r Resizer) error {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return ErrClosed
	}
	prev := in.unsubscribe
	in.unsubscribe = nil
	in.mu.Unlock()

	if prev != nil {
		prev()
	}

	// Subscribe calls resize synchronously, so the lock must not be held.
	unsub := r.Subscribe(in.resize)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		unsub()
		return ErrClosed
	}
	in.unsubscribe = unsub
	return nil
}

func (in *Instance) resize(width int) {
	if width < 0 {
		width = 0
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.width = width
	in.redrawLocked()
}

// Load fetches src in the background. The returned channel receives the
// outcome once (nil, the load error, ErrStale or ErrClosed) and is then
// closed. A failed load leaves the instance showing empty data; there is
// no retry.
func (in *Instance) Load(ctx context.Context, src string) <-chan error {
	done := make(chan error, 1)

	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		done <- ErrClosed
		close(done)
		return done
	}
	if in.cancelLoad != nil {
		in.cancelLoad()
	}
	in.generation++
	gen := in.generation
	loadCtx, cancel := context.WithCancel(ctx)
	in.cancelLoad = cancel
	in.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		ds, err := in.loader.Load(loadCtx, src)
		done <- in.finishLoad(gen, src, ds, err)
	}()
	return done
}

func (in *Instance) finishLoad(gen uint64, src string, ds *engine.Dataset, err error) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.closed || gen != in.generation {
		in.logger.Debug().Str("source", src).Msg("discarding stale load")
		return ErrStale
	}
	in.cancelLoad = nil

	if err != nil {
		in.logger.Error().Err(err).Str("source", src).Msg("load failed")
		in.loadErr = err
		in.ds = engine.EmptyDataset()
		in.redrawLocked()
		return err
	}

	in.loadErr = nil
	in.ds = ds
	in.logger.Info().Str("source", src).Int("rows", ds.Len()).Msg("dataset ready")
	in.redrawLocked()
	return nil
}

// SetDataset replaces the data synchronously and redraws. Any load still
// in flight is discarded when it completes.
func (in *Instance) SetDataset(ds *engine.Dataset) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.generation++
	if in.cancelLoad != nil {
		in.cancelLoad()
		in.cancelLoad = nil
	}
	if ds == nil {
		ds = engine.EmptyDataset()
	}
	in.ds = ds
	in.loadErr = nil
	in.redrawLocked()
	return nil
}

// SetHeight changes the target pixel height and redraws.
func (in *Instance) SetHeight(h int) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	in.height = h
	in.redrawLocked()
	return nil
}

// Redraw recomputes and redraws with the current state.
func (in *Instance) Redraw() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	return in.redrawLocked()
}

func (in *Instance) redrawLocked() error {
	in.backend.Clear()
	in.releaseTooltipLocked()

	result := engine.Execute(in.kind, in.ds, in.engineOpts...)
	layout := engine.ComputeLayout(in.width, in.height)
	frame := engine.Frame{Result: result, Layout: layout}
	in.frame = &frame

	if !layout.Drawable {
		in.logger.Debug().Int("width", in.width).Int("height", in.height).Msg("layout not drawable")
		return nil
	}
	if err := in.backend.Draw(frame); err != nil {
		in.logger.Error().Err(err).Msg("draw failed")
		return err
	}
	return nil
}

// ShowTooltip shows text in the instance's tooltip, creating it on first
// use. The same tooltip is reused until the next redraw or Close.
func (in *Instance) ShowTooltip(text string) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	if in.tooltip == nil {
		in.tooltip = in.backend.NewTooltip()
	}
	in.tooltip.Show(text)
	return nil
}

// HideTooltip releases the tooltip if one exists.
func (in *Instance) HideTooltip() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.releaseTooltipLocked()
}

func (in *Instance) releaseTooltipLocked() {
	if in.tooltip != nil {
		in.tooltip.Release()
		in.tooltip = nil
	}
}

// Frame returns the most recently computed frame, drawn or not.
func (in *Instance) Frame() (engine.Frame, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.frame == nil {
		return engine.Frame{}, false
	}
	return *in.frame, true
}

// Width returns the last reported width.
func (in *Instance) Width() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.width
}

// LoadErr returns the error of the last applied load, if it failed.
func (in *Instance) LoadErr() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.loadErr
}

// Close tears the instance down: pending loads are discarded, the resize
// subscription is dropped, the tooltip released and the backend cleared.
// Close is idempotent.
func (in *Instance) Close() error {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return nil
	}
	in.closed = true
	in.generation++
	if in.cancelLoad != nil {
		in.cancelLoad()
		in.cancelLoad = nil
	}
	unsub := in.unsubscribe
	in.unsubscribe = nil
	in.releaseTooltipLocked()
	in.backend.Clear()
	in.frame = nil
	in.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	in.logger.Debug().Msg("instance closed")
	return nil
}
