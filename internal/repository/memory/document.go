package memory

import (
	"context"
	"path"
	"sort"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/domain/repositories"
)

// DocumentRepository implements repositories.DocumentRepository on a Store.
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(store *Store) repositories.DocumentRepository {
	return &DocumentRepository{store: store}
}

func documentNotFound() error {
	return &domain.NotFoundError{Message: "Document not found"}
}

// List returns all documents ordered by path
func (r *DocumentRepository) List(_ context.Context) ([]models.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	docs := make([]models.Document, 0, len(r.store.docs))
	for p, rec := range r.store.docs {
		docs = append(docs, models.Document{
			Name:     path.Base(p),
			Path:     p,
			FolderID: cloneID(rec.folderID),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Get returns the content stored at p
func (r *DocumentRepository) Get(_ context.Context, p string) (string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.docs[p]
	if !ok {
		return "", documentNotFound()
	}
	return rec.content, nil
}

// Save creates or overwrites the document at p. Folder membership survives overwrites.
func (r *DocumentRepository) Save(_ context.Context, p, content string) error {
	if !models.HasMarkupExtension(path.Base(p)) {
		return domain.NewValidationError("Document name must end with .md or .rst")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if rec, ok := r.store.docs[p]; ok {
		rec.content = content
		return nil
	}
	r.store.docs[p] = &docRecord{content: content}
	return nil
}

// Delete deletes a document
func (r *DocumentRepository) Delete(_ context.Context, p string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.docs[p]; !ok {
		return documentNotFound()
	}
	delete(r.store.docs, p)
	return nil
}

// Move sets the document's folder (nil = unclassified)
func (r *DocumentRepository) Move(_ context.Context, p string, folderID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.docs[p]
	if !ok {
		return documentNotFound()
	}
	if folderID != nil && r.store.folderIndex(*folderID) < 0 {
		return &domain.NotFoundError{Message: "Folder not found"}
	}
	rec.folderID = cloneID(folderID)
	return nil
}

// Rename renames the document within its directory and returns the new path
func (r *DocumentRepository) Rename(_ context.Context, p, name string) (string, error) {
	if !models.HasMarkupExtension(name) {
		return "", domain.NewValidationError("Document name must end with .md or .rst")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.docs[p]
	if !ok {
		return "", documentNotFound()
	}
	newPath := path.Join(path.Dir(p), name)
	if _, exists := r.store.docs[newPath]; exists {
		return "", &domain.ConflictError{
			Message:      "Document with this name already exists",
			ResourceType: "document",
			ResourceID:   newPath,
		}
	}

	delete(r.store.docs, p)
	r.store.docs[newPath] = rec
	return newPath, nil
}
