package scrollsync

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"
)

// fakePane fires its handlers synchronously from SetScrollTop, the way a
// browser delivers a scroll event for a programmatic scroll.
type fakePane struct {
	mu       sync.Mutex
	top      float64
	height   float64
	client   float64
	handlers map[int]func()
	nextID   int
	sets     int
}

func newPane(height, client float64) *fakePane {
	return &fakePane{height: height, client: client, handlers: make(map[int]func())}
}

func (p *fakePane) ScrollTop() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

func (p *fakePane) SetScrollTop(top float64) {
	p.mu.Lock()
	p.top = top
	p.sets++
	handlers := make([]func(), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

func (p *fakePane) ScrollHeight() float64 { return p.height }
func (p *fakePane) ClientHeight() float64 { return p.client }

func (p *fakePane) OnScroll(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

// userScroll simulates a user scroll: position change plus event.
func (p *fakePane) userScroll(top float64) {
	p.SetScrollTop(top)
}

func (p *fakePane) setCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

func (p *fakePane) handlerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name                string
		top, height, client float64
		want                float64
	}{
		{name: "middle", top: 500, height: 1100, client: 100, want: 0.5},
		{name: "content fits", top: 0, height: 80, client: 100, want: 0},
		{name: "equal heights", top: 10, height: 100, client: 100, want: 0},
		{name: "overscroll clamps", top: 2000, height: 1100, client: 100, want: 1},
		{name: "negative clamps", top: -5, height: 1100, client: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPane(tt.height, tt.client)
			p.top = tt.top
			if got := Fraction(p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMirrorWithoutCascade(t *testing.T) {
	editor := newPane(1100, 100)
	preview := newPane(2100, 100)
	s := New(30*time.Millisecond, testLogger())
	defer s.Close()
	s.Attach(editor, preview)

	editor.userScroll(500)

	if got := Fraction(preview); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("preview fraction = %v, want 0.5", got)
	}
	if preview.ScrollTop() != 1000 {
		t.Errorf("preview top = %v, want 1000", preview.ScrollTop())
	}
	if editor.setCount() != 1 || preview.setCount() != 1 {
		t.Errorf("mirroring cascaded: editor sets %d, preview sets %d", editor.setCount(), preview.setCount())
	}
	if !s.Syncing() {
		t.Error("expected syncing window after a mirror")
	}

	time.Sleep(100 * time.Millisecond)
	if s.Syncing() {
		t.Error("syncing flag should clear after the delay")
	}
}

func TestAttachReplacesHandlers(t *testing.T) {
	editor := newPane(1100, 100)
	preview := newPane(1100, 100)
	s := New(time.Millisecond, testLogger())

	s.Attach(editor, preview)
	s.Attach(editor, preview)

	if editor.handlerCount() != 1 || preview.handlerCount() != 1 {
		t.Errorf("expected one handler per pane, got %d and %d", editor.handlerCount(), preview.handlerCount())
	}

	s.Close()
	if editor.handlerCount() != 0 || preview.handlerCount() != 0 {
		t.Error("Close should unsubscribe both panes")
	}
}

func TestRealign(t *testing.T) {
	editor := newPane(1100, 100)
	preview := newPane(600, 100)
	s := New(time.Millisecond, testLogger())
	defer s.Close()
	s.Attach(editor, preview)
	editor.top = 250

	s.Realign()

	if preview.ScrollTop() != 125 {
		t.Errorf("preview top = %v, want 125", preview.ScrollTop())
	}
}
