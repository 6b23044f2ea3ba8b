package preview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"
)

// stubStore implements only RenderPreview; other methods panic if called.
type stubStore struct {
	wsSvc.RemoteStore
	html  string
	err   error
	calls int
	mu    sync.Mutex
}

func (s *stubStore) RenderPreview(ctx context.Context, content string, docType models.DocType) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.html, s.err
}

func newTestRegistry(store wsSvc.RemoteStore) *Registry {
	return NewRegistry(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_Markdown(t *testing.T) {
	reg := newTestRegistry(&stubStore{})

	html, err := reg.Render(context.Background(), models.DocTypeMarkdown, "# Hi\nline one\nline two")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, `<h1 id="hi">Hi</h1>`) {
		t.Errorf("expected heading, got %q", html)
	}
	if !strings.Contains(html, "<br") {
		t.Errorf("expected single newlines rendered as breaks, got %q", html)
	}
}

func TestRegistry_HighlightsCodeBlocks(t *testing.T) {
	reg := newTestRegistry(&stubStore{})

	html, err := reg.Render(context.Background(), models.DocTypeMarkdown, "```go\nfunc main() {}\n```")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, `class="chroma"`) {
		t.Errorf("expected highlighter classes kept by the sanitizer, got %q", html)
	}
	if !strings.Contains(html, "<span") {
		t.Errorf("expected token spans, got %q", html)
	}
}

func TestRegistry_SanitizesScripts(t *testing.T) {
	reg := newTestRegistry(&stubStore{})

	html, err := reg.Render(context.Background(), models.DocTypeMarkdown, "<script>alert(1)</script>\n\nhello <a href=\"javascript:alert(1)\">x</a>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "javascript:") {
		t.Errorf("expected script removed, got %q", html)
	}
	if !strings.Contains(html, "hello") {
		t.Errorf("expected text kept, got %q", html)
	}
}

func TestRegistry_EmptyContentSkipsEngines(t *testing.T) {
	store := &stubStore{html: "<p>never</p>"}
	reg := newTestRegistry(store)

	html, err := reg.Render(context.Background(), models.DocTypeRST, "")
	if err != nil || html != "" {
		t.Fatalf("Render(empty) = %q, %v", html, err)
	}
	if store.calls != 0 {
		t.Errorf("expected no remote call for empty content, got %d", store.calls)
	}
}

func TestRegistry_RSTDelegatesToRemote(t *testing.T) {
	store := &stubStore{html: `<div class="document"><h1>Title</h1><script>x()</script></div>`}
	reg := newTestRegistry(store)

	html, err := reg.Render(context.Background(), models.DocTypeRST, "Title\n=====")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("expected one remote call, got %d", store.calls)
	}
	if !strings.Contains(html, "<h1>Title</h1>") || strings.Contains(html, "<script") {
		t.Errorf("expected sanitized remote html, got %q", html)
	}
}

func TestRegistry_Errors(t *testing.T) {
	t.Run("remote failure", func(t *testing.T) {
		reg := newTestRegistry(&stubStore{err: errors.New("boom")})
		if _, err := reg.Render(context.Background(), models.DocTypeRST, "x"); err == nil {
			t.Error("expected error from remote engine")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		reg := newTestRegistry(&stubStore{})
		if _, err := reg.Render(context.Background(), models.DocType("adoc"), "x"); err == nil {
			t.Error("expected error for unregistered type")
		}
	})
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantMeta  bool
		wantTitle string
		wantBody  string
	}{
		{
			name:      "frontmatter stripped",
			content:   "---\ntitle: Notes\n---\n# Body",
			wantMeta:  true,
			wantTitle: "Notes",
			wantBody:  "# Body",
		},
		{
			name:     "no frontmatter",
			content:  "# Body",
			wantBody: "# Body",
		},
		{
			name:     "unterminated block left alone",
			content:  "---\ntitle: Notes\n# Body",
			wantBody: "---\ntitle: Notes\n# Body",
		},
		{
			name:     "invalid yaml left alone",
			content:  "---\ntitle: [unclosed\n---\nbody",
			wantBody: "---\ntitle: [unclosed\n---\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := SplitFrontmatter(tt.content)
			if (meta != nil) != tt.wantMeta {
				t.Fatalf("meta = %v, wantMeta %v", meta, tt.wantMeta)
			}
			if tt.wantTitle != "" && meta["title"] != tt.wantTitle {
				t.Errorf("title = %v, want %q", meta["title"], tt.wantTitle)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
