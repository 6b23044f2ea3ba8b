package preview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"
)

// Engine renders one markup type to (unsanitized) HTML.
type Engine interface {
	Render(ctx context.Context, content string) (string, error)
	// Name returns the engine name for logging.
	Name() string
}

// Registry routes documents to an Engine by markup type and sanitizes the
// result. Thread-safe for concurrent access.
type Registry struct {
	mu        sync.RWMutex
	engines   map[models.DocType]Engine
	sanitizer *Sanitizer
	logger    *slog.Logger
}

var _ wsSvc.PreviewRenderer = (*Registry)(nil)

// NewRegistry creates a registry with markdown rendered locally and
// reStructuredText delegated to the remote store.
func NewRegistry(remote wsSvc.RemoteStore, logger *slog.Logger) *Registry {
	r := &Registry{
		engines:   make(map[models.DocType]Engine),
		sanitizer: NewSanitizer(),
		logger:    logger,
	}
	r.Register(models.DocTypeMarkdown, NewMarkdownEngine())
	r.Register(models.DocTypeRST, NewRemoteEngine(remote, models.DocTypeRST))
	return r
}

// Register associates an engine with a markup type, replacing any previous one.
func (r *Registry) Register(docType models.DocType, engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[docType] = engine
}

// Engine returns the engine for docType, or nil.
func (r *Registry) Engine(docType models.DocType) Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engines[docType]
}

// Render converts content to sanitized preview HTML. Empty content renders
// to an empty preview without touching any engine.
func (r *Registry) Render(ctx context.Context, docType models.DocType, content string) (string, error) {
	if content == "" {
		return "", nil
	}

	engine := r.Engine(docType)
	if engine == nil {
		return "", fmt.Errorf("no preview engine for type %q", docType)
	}

	html, err := engine.Render(ctx, content)
	if err != nil {
		return "", fmt.Errorf("%s render: %w", engine.Name(), err)
	}

	r.logger.Debug("preview rendered",
		"engine", engine.Name(),
		"input_bytes", len(content),
		"output_bytes", len(html),
	)

	return r.sanitizer.Sanitize(html), nil
}
