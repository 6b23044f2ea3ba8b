package repositories

import (
	"context"

	models "docdesk/internal/domain/models/workspace"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// List returns all folders in creation order
	List(ctx context.Context) ([]models.Folder, error)

	// Create creates a new, expanded folder
	Create(ctx context.Context, name string, parentID *string) (*models.Folder, error)

	// Toggle flips the expansion flag and returns the new value
	Toggle(ctx context.Context, id string) (bool, error)

	// Rename renames a folder
	Rename(ctx context.Context, id, name string) (*models.Folder, error)

	// Delete deletes a folder together with the documents it holds
	Delete(ctx context.Context, id string) error
}
