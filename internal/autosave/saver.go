// Package autosave debounces document writes: edits arrive continuously,
// saves fire after a quiet period. Pending work is cancellable so switching
// documents never lets a stale save land on the wrong one.
package autosave

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SaveFunc persists one snapshot of the document.
type SaveFunc func(ctx context.Context, doc json.RawMessage, plain string) error

// Saver coalesces rapid edits into a single delayed save. Each Update
// bumps a generation counter; a scheduled save only runs if no newer
// edit superseded it, so the last writer always wins.
type Saver struct {
	delay  time.Duration
	save   SaveFunc
	logger zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	closed  bool
	gen     uint64
	doc     json.RawMessage
	plain   string
}

func New(delay time.Duration, save SaveFunc, logger zerolog.Logger) *Saver {
	return &Saver{delay: delay, save: save, logger: logger}
}

// Update records the latest document state and (re)arms the save timer.
// Calls after Close are ignored.
func (s *Saver) Update(doc json.RawMessage, plain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.doc = doc
	s.plain = plain
	s.pending = true
	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Saver) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || !s.pending || gen != s.gen {
		s.mu.Unlock()
		return
	}
	doc, plain := s.doc, s.plain
	s.pending = false
	s.mu.Unlock()

	if err := s.save(context.Background(), doc, plain); err != nil {
		s.logger.Warn().Err(err).Msg("autosave failed; edits retained for next save")
		s.mu.Lock()
		// Re-mark pending only if no newer edit arrived meanwhile.
		if s.gen == gen && !s.closed {
			s.pending = true
		}
		s.mu.Unlock()
	}
}

// Flush saves any pending snapshot immediately and cancels the timer.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.pending || s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	doc, plain := s.doc, s.plain
	s.pending = false
	s.gen++
	s.mu.Unlock()

	return s.save(ctx, doc, plain)
}

// Pending reports whether an unsaved snapshot is waiting.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Close cancels any pending save and rejects further updates.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
	}
}
