package bitmap

import (
	"context"
	"sync"
)

// Result is what a Slot delivers for one binding.
type Result struct {
	Source string
	Bitmap *Bitmap
	// Err is set when Bitmap is a placeholder.
	Err error
}

// Slot holds at most one in-flight load, mirroring a view that shows a single
// source at a time. Binding a different source or disposing the slot cancels
// the current load; a cancelled load never delivers.
type Slot struct {
	loader  *Loader
	deliver func(Result)

	mu      sync.Mutex
	gen     uint64
	source  string
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

// NewSlot returns a Slot delivering results to deliver. deliver runs on the
// load goroutine with the slot locked and must not call back into the slot.
func NewSlot(loader *Loader, deliver func(Result)) *Slot {
	return &Slot{loader: loader, deliver: deliver}
}

// Bind starts loading src for the given box. Rebinding the source already
// bound is a no-op until the slot is disposed.
func (s *Slot) Bind(ctx context.Context, src string, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if src != "" && s.source == src {
		return
	}
	s.stopLocked()

	loadCtx, cancel := context.WithCancel(ctx)
	s.gen++
	gen := s.gen
	s.source = src
	s.cancel = cancel

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		bmp, err := s.loader.LoadOrPlaceholder(loadCtx, src, width, height)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		s.cancel = nil
		if bmp == nil || loadCtx.Err() != nil {
			s.source = ""
			return
		}
		if s.deliver != nil {
			s.deliver(Result{Source: src, Bitmap: bmp, Err: err})
		}
	}()
}

// Dispose cancels any in-flight load. Nothing is delivered after Dispose
// returns.
func (s *Slot) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.source = ""
}

// Wait blocks until every load started by this slot has finished.
func (s *Slot) Wait() {
	s.pending.Wait()
}

func (s *Slot) stopLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
