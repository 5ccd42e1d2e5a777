package views

import (
	"context"
	"sync"

	"questpath/apiclient"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Page tracks one page's data fetch. Every Load takes a fresh generation
// and only the result of the latest generation is kept, so a slow earlier
// fetch cannot overwrite a newer one.
type Page[T any] struct {
	mu    sync.Mutex
	gen   uint64
	phase Phase
	data  T
	err   error
}

type Snapshot[T any] struct {
	Phase Phase
	Data  T
	Err   error
}

func (s Snapshot[T]) Loading() bool { return s.Phase == PhaseLoading || s.Phase == PhaseIdle }
func (s Snapshot[T]) Loaded() bool  { return s.Phase == PhaseLoaded }
func (s Snapshot[T]) Errored() bool { return s.Phase == PhaseErrored }

// Message is the text shown for an errored page.
func (s Snapshot[T]) Message(fallback string) string {
	if s.Err == nil {
		return ""
	}
	return apiclient.MessageOr(s.Err, fallback)
}

// Begin moves the page to loading and returns the generation the caller
// must pass to Finish.
func (p *Page[T]) Begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.phase = PhaseLoading
	p.err = nil
	return p.gen
}

// Finish records a fetch result. It reports false and changes nothing
// when gen has been superseded.
func (p *Page[T]) Finish(gen uint64, data T, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}
	if err != nil {
		var zero T
		p.data = zero
		p.err = err
		p.phase = PhaseErrored
		return true
	}
	p.data = data
	p.err = nil
	p.phase = PhaseLoaded
	return true
}

// Load runs fetch under a new generation and returns the resulting
// snapshot.
func (p *Page[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) Snapshot[T] {
	gen := p.Begin()
	data, err := fetch(ctx)
	p.Finish(gen, data, err)
	return p.Snapshot()
}

func (p *Page[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot[T]{Phase: p.phase, Data: p.data, Err: p.err}
}
