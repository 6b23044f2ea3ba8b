package repositories

import (
	"context"

	models "docdesk/internal/domain/models/workspace"
)

// DocumentRepository defines data access operations for documents,
// keyed by storage path.
type DocumentRepository interface {
	// List returns all documents ordered by path
	List(ctx context.Context) ([]models.Document, error)

	// Get returns the content stored at path
	Get(ctx context.Context, path string) (string, error)

	// Save creates or overwrites the document at path
	Save(ctx context.Context, path, content string) error

	// Delete deletes a document
	Delete(ctx context.Context, path string) error

	// Move sets the document's folder (nil = unclassified)
	Move(ctx context.Context, path string, folderID *string) error

	// Rename renames the document within its directory and returns the new path
	Rename(ctx context.Context, path, name string) (string, error)
}
