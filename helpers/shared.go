package helpers

import (
	"context"
	"sync"

	"github.com/spektr-org/shelfscope/engine"
)

// DatasetLoader is anything that turns a source name into a Dataset.
type DatasetLoader interface {
	Load(ctx context.Context, src string) (*engine.Dataset, error)
}

// SharedLoader loads each source at most once and hands the same Dataset
// to every caller. Several charts over one file (or over stdin, which can
// only be read once) share a SharedLoader.
//
// The load itself is detached from any single caller's cancellation; a
// caller's context only bounds its own wait. Failures are not cached, so a
// later Load of the same source tries again.
type SharedLoader struct {
	inner DatasetLoader

	mu    sync.Mutex
	loads map[string]*sharedLoad
}

type sharedLoad struct {
	done chan struct{}
	ds   *engine.Dataset
	err  error
}

// NewSharedLoader wraps inner.
func NewSharedLoader(inner DatasetLoader) *SharedLoader {
	return &SharedLoader{inner: inner, loads: map[string]*sharedLoad{}}
}

// Load returns the dataset for src, starting a load if none is cached or
// in flight.
func (s *SharedLoader) Load(ctx context.Context, src string) (*engine.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Src: src, Err: err}
	}

	s.mu.Lock()
	l, ok := s.loads[src]
	if !ok {
		l = &sharedLoad{done: make(chan struct{})}
		s.loads[src] = l
		go s.run(context.WithoutCancel(ctx), src, l)
	}
	s.mu.Unlock()

	select {
	case <-l.done:
		return l.ds, l.err
	case <-ctx.Done():
		return nil, &LoadError{Src: src, Err: ctx.Err()}
	}
}

func (s *SharedLoader) run(ctx context.Context, src string, l *sharedLoad) {
	l.ds, l.err = s.inner.Load(ctx, src)
	if l.err != nil {
		s.mu.Lock()
		if s.loads[src] == l {
			delete(s.loads, src)
		}
		s.mu.Unlock()
	}
	close(l.done)
}
