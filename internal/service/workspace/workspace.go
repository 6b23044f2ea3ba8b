package workspace

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"sync"
	"time"

	"docdesk/internal/config"
	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Options configures a Workspace.
type Options struct {
	// AutosaveInterval defaults to config.DefaultAutosaveInterval.
	AutosaveInterval time.Duration
	// OnStatus is called after the save status of the open document changes.
	OnStatus func(path string, status models.SaveStatus)
	// OnPreview is called after a new preview was stored for the open document.
	OnPreview func(path, html string)
}

// Workspace owns the document and folder collections and the single open
// document. Every mutation issues its remote write first and patches local
// state afterwards; the mutex is never held across a remote call, and
// collection edits complete before Tree() can observe them.
type Workspace struct {
	store    wsSvc.RemoteStore
	renderer wsSvc.PreviewRenderer
	notifier wsSvc.Notifier
	logger   *slog.Logger
	opts     Options

	mu           sync.RWMutex
	documents    []models.Document
	folders      []models.Folder
	rootExpanded bool
	current      *models.OpenDocument
	openSeq      uint64 // bumped whenever the current document is replaced
	renderSeq    uint64
	contentRev   uint64 // bumped on every editor change

	saves    singleflight.Group // one in-flight write per path
	paths    pathLocks
	autosave *Autosave
}

// NewWorkspace creates an empty workspace; call Load to populate it.
func NewWorkspace(
	store wsSvc.RemoteStore,
	renderer wsSvc.PreviewRenderer,
	notifier wsSvc.Notifier,
	logger *slog.Logger,
	opts Options,
) *Workspace {
	if opts.AutosaveInterval <= 0 {
		opts.AutosaveInterval = config.DefaultAutosaveInterval
	}
	w := &Workspace{
		store:        store,
		renderer:     renderer,
		notifier:     notifier,
		logger:       logger,
		opts:         opts,
		documents:    []models.Document{},
		folders:      []models.Folder{},
		rootExpanded: true,
	}
	w.autosave = NewAutosave(opts.AutosaveInterval, w.autosaveTick, logger)
	return w
}

// Load fetches documents and folders concurrently and opens the first
// unclassified document (else the first document). Read failures leave
// the affected collection empty; the first one is returned.
func (w *Workspace) Load(ctx context.Context) error {
	var (
		g       errgroup.Group
		docs    []models.Document
		folders []models.Folder
	)
	g.Go(func() error {
		var err error
		docs, err = w.store.ListDocuments(ctx)
		if err != nil {
			w.logger.Error("failed to load documents", "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		var err error
		folders, err = w.store.ListFolders(ctx)
		if err != nil {
			w.logger.Error("failed to load folders", "error", err)
			return err
		}
		return nil
	})
	loadErr := g.Wait()

	if docs == nil {
		docs = []models.Document{}
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	w.mu.Lock()
	w.documents = docs
	w.folders = folders
	w.syncCurrentLocked()
	w.mu.Unlock()

	w.logger.Info("workspace loaded",
		"document_count", len(docs),
		"folder_count", len(folders),
	)

	if first, ok := firstToOpen(docs); ok {
		if err := w.OpenDocument(ctx, first.Path); err != nil {
			return err
		}
	}
	return loadErr
}

func firstToOpen(docs []models.Document) (models.Document, bool) {
	if len(docs) == 0 {
		return models.Document{}, false
	}
	for _, d := range docs {
		if d.FolderID == nil {
			return d, true
		}
	}
	return docs[0], true
}

// ReloadDocuments replaces the document collection with the remote list.
// On failure the current collection is kept and the error returned.
func (w *Workspace) ReloadDocuments(ctx context.Context) error {
	docs, err := w.store.ListDocuments(ctx)
	if err != nil {
		w.logger.Error("failed to reload documents", "error", err)
		return err
	}

	w.mu.Lock()
	w.documents = docs
	w.syncCurrentLocked()
	w.mu.Unlock()

	w.logger.Debug("documents reloaded", "document_count", len(docs))
	return nil
}

// ReloadFolders replaces the folder collection with the remote list.
func (w *Workspace) ReloadFolders(ctx context.Context) error {
	folders, err := w.store.ListFolders(ctx)
	if err != nil {
		w.logger.Error("failed to reload folders", "error", err)
		return err
	}

	w.mu.Lock()
	w.folders = folders
	w.mu.Unlock()
	return nil
}

// reload is the recovery path after a failed multi-step mutation.
func (w *Workspace) reload(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return w.ReloadDocuments(ctx) })
	g.Go(func() error { return w.ReloadFolders(ctx) })
	if err := g.Wait(); err != nil {
		w.logger.Warn("recovery reload incomplete", "error", err)
	}
}

// syncCurrentLocked refreshes the open document's folder from the collection.
func (w *Workspace) syncCurrentLocked() {
	if w.current == nil {
		return
	}
	if i := w.indexOfLocked(w.current.Path); i >= 0 {
		w.current.FolderID = w.documents[i].FolderID
	}
}

// Tree derives the display tree from a snapshot of the collections.
func (w *Workspace) Tree() *models.Tree {
	w.mu.RLock()
	docs := slices.Clone(w.documents)
	folders := slices.Clone(w.folders)
	rootExpanded := w.rootExpanded
	w.mu.RUnlock()

	return BuildTree(docs, folders, rootExpanded)
}

// Documents returns a copy of the document collection in display order.
func (w *Workspace) Documents() []models.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.documents)
}

// Folders returns a copy of the folder collection.
func (w *Workspace) Folders() []models.Folder {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.folders)
}

// Document returns the document stored at path.
func (w *Workspace) Document(path string) (models.Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i := w.indexOfLocked(path); i >= 0 {
		return w.documents[i], true
	}
	return models.Document{}, false
}

// Current returns a copy of the open document, or nil.
func (w *Workspace) Current() *models.OpenDocument {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return nil
	}
	cur := *w.current
	return &cur
}

// OpenDocument loads path and makes it the current document. A response
// that arrives after a newer document was opened is discarded.
func (w *Workspace) OpenDocument(ctx context.Context, path string) error {
	w.mu.Lock()
	i := w.indexOfLocked(path)
	if i < 0 {
		w.mu.Unlock()
		return &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", path)}
	}
	doc := w.documents[i]
	w.openSeq++
	seq := w.openSeq
	w.mu.Unlock()

	content, err := w.store.GetDocument(ctx, path)
	if err != nil {
		w.logger.Error("failed to open document", "path", path, "error", err)
		return err
	}

	w.mu.Lock()
	if seq != w.openSeq {
		w.mu.Unlock()
		w.logger.Debug("discarding superseded open response", "path", path)
		return nil
	}
	w.current = &models.OpenDocument{
		Path:      doc.Path,
		Name:      doc.Name,
		FolderID:  doc.FolderID,
		Type:      doc.Type(),
		Content:   content,
		LastSaved: content,
		Status:    models.StatusSaved,
	}
	w.mu.Unlock()

	w.logger.Info("document opened", "path", path, "type", doc.Type())
	w.emitStatus(path, models.StatusSaved)
	w.refreshPreview(ctx)
	w.autosave.Start()
	return nil
}

// CloseDocument clears the open document together with its content and preview.
func (w *Workspace) CloseDocument() {
	w.mu.Lock()
	w.closeLocked()
	w.mu.Unlock()
	w.autosave.Stop()
}

func (w *Workspace) closeLocked() {
	w.current = nil
	w.openSeq++
	w.renderSeq++
}

// SetContent records editor input for the open document and re-renders
// the preview.
func (w *Workspace) SetContent(ctx context.Context, content string) error {
	w.mu.Lock()
	if w.current == nil {
		w.mu.Unlock()
		return &domain.InvariantError{Message: "no document is open"}
	}
	w.current.Content = content
	w.contentRev++
	status := models.StatusSaved
	if w.current.Dirty() {
		status = models.StatusUnsaved
	}
	changed := w.current.Status != status
	w.current.Status = status
	path := w.current.Path
	w.mu.Unlock()

	if changed {
		w.emitStatus(path, status)
	}
	w.refreshPreview(ctx)
	return nil
}

// refreshPreview renders the open document. Older renders never overwrite
// newer ones; a failed render shows the escaped raw content.
func (w *Workspace) refreshPreview(ctx context.Context) {
	w.mu.Lock()
	if w.current == nil {
		w.mu.Unlock()
		return
	}
	w.renderSeq++
	seq := w.renderSeq
	path, docType, content := w.current.Path, w.current.Type, w.current.Content
	w.mu.Unlock()

	rendered, err := w.renderer.Render(ctx, docType, content)
	if err != nil {
		w.logger.Warn("preview render failed", "path", path, "type", docType, "error", err)
		rendered = "<pre>" + html.EscapeString(content) + "</pre>"
	}

	w.mu.Lock()
	if seq != w.renderSeq || w.current == nil || w.current.Path != path {
		w.mu.Unlock()
		return
	}
	w.current.Preview = rendered
	w.mu.Unlock()

	if w.opts.OnPreview != nil {
		w.opts.OnPreview(path, rendered)
	}
}

// Close tears the workspace down. The autosave loop is stopped so no
// recurring task outlives the open document.
func (w *Workspace) Close() {
	w.autosave.Stop()
	w.mu.Lock()
	w.closeLocked()
	w.mu.Unlock()
	w.logger.Info("workspace closed")
}

func (w *Workspace) emitStatus(path string, status models.SaveStatus) {
	if w.opts.OnStatus != nil {
		w.opts.OnStatus(path, status)
	}
}

func (w *Workspace) indexOfLocked(path string) int {
	return slices.IndexFunc(w.documents, func(d models.Document) bool { return d.Path == path })
}

func (w *Workspace) folderIndexLocked(id string) int {
	return slices.IndexFunc(w.folders, func(f models.Folder) bool { return f.ID == id })
}
