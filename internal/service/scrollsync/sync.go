// Package scrollsync keeps an editor pane and a preview pane at the same
// relative scroll position.
package scrollsync

import (
	"log/slog"
	"sync"
	"time"

	"docdesk/internal/config"
)

// Pane is a scrollable view.
type Pane interface {
	ScrollTop() float64
	SetScrollTop(top float64)
	ScrollHeight() float64
	ClientHeight() float64
	// OnScroll registers fn for scroll events and returns its unsubscribe func.
	OnScroll(fn func()) (unsubscribe func())
}

// Fraction is the relative position of p in [0, 1]. Content that fits
// the viewport has fraction 0.
func Fraction(p Pane) float64 {
	scrollable := p.ScrollHeight() - p.ClientHeight()
	if scrollable <= 0 {
		return 0
	}
	f := p.ScrollTop() / scrollable
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Apply scrolls p to fraction f of its scrollable range.
func Apply(p Pane, f float64) {
	scrollable := p.ScrollHeight() - p.ClientHeight()
	if scrollable <= 0 {
		p.SetScrollTop(0)
		return
	}
	p.SetScrollTop(f * scrollable)
}

// Synchronizer mirrors scroll events between two panes. While a
// programmatic scroll is settling (the syncing window) incoming events
// are ignored, so mirroring never cascades back and forth.
type Synchronizer struct {
	delay  time.Duration
	logger *slog.Logger

	mu          sync.Mutex
	editor      Pane
	preview     Pane
	unsubscribe []func()
	syncing     bool
	generation  uint64
	timer       *time.Timer
}

// New creates a detached synchronizer. A non-positive delay uses
// config.DefaultScrollSyncDelay.
func New(delay time.Duration, logger *slog.Logger) *Synchronizer {
	if delay <= 0 {
		delay = config.DefaultScrollSyncDelay
	}
	return &Synchronizer{delay: delay, logger: logger}
}

// Attach subscribes to both panes, replacing any previous attachment.
func (s *Synchronizer) Attach(editor, preview Pane) {
	s.Detach()

	s.mu.Lock()
	s.editor = editor
	s.preview = preview
	s.mu.Unlock()

	unsubEditor := editor.OnScroll(func() { s.mirror(editor, preview) })
	unsubPreview := preview.OnScroll(func() { s.mirror(preview, editor) })

	s.mu.Lock()
	s.unsubscribe = []func(){unsubEditor, unsubPreview}
	s.mu.Unlock()
	s.logger.Debug("scroll sync attached")
}

// Detach removes the scroll handlers and cancels a pending clear.
func (s *Synchronizer) Detach() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.editor, s.preview = nil, nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.syncing = false
	s.generation++
	s.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
}

// Close detaches the synchronizer.
func (s *Synchronizer) Close() {
	s.Detach()
}

// Syncing reports whether a programmatic scroll is settling.
func (s *Synchronizer) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// Realign re-applies the editor position to the preview, typically after
// the preview was re-rendered and its height changed.
func (s *Synchronizer) Realign() {
	s.mu.Lock()
	editor, preview := s.editor, s.preview
	s.mu.Unlock()
	if editor == nil || preview == nil {
		return
	}
	s.mirror(editor, preview)
}

func (s *Synchronizer) mirror(from, to Pane) {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.clear(gen) })
	s.mu.Unlock()

	// Not under the lock: SetScrollTop may fire OnScroll synchronously
	Apply(to, Fraction(from))
}

func (s *Synchronizer) clear(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.syncing = false
		s.timer = nil
	}
}
