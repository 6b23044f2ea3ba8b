package memory

import (
	"context"
	"slices"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/domain/repositories"

	"github.com/google/uuid"
)

// FolderRepository implements repositories.FolderRepository on a Store.
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *Store) repositories.FolderRepository {
	return &FolderRepository{store: store}
}

func folderNotFound() error {
	return &domain.NotFoundError{Message: "Folder not found"}
}

func (f folderRecord) model() models.Folder {
	expanded := f.expanded
	return models.Folder{
		ID:       f.id,
		Name:     f.name,
		ParentID: cloneID(f.parentID),
		Expanded: &expanded,
	}
}

// List returns all folders in creation order
func (r *FolderRepository) List(_ context.Context) ([]models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	folders := make([]models.Folder, len(r.store.folders))
	for i, f := range r.store.folders {
		folders[i] = f.model()
	}
	return folders, nil
}

// Create creates a new, expanded folder
func (r *FolderRepository) Create(_ context.Context, name string, parentID *string) (*models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if parentID != nil && r.store.folderIndex(*parentID) < 0 {
		return nil, &domain.NotFoundError{Message: "Parent folder not found"}
	}

	rec := folderRecord{
		id:       uuid.NewString(),
		name:     name,
		parentID: cloneID(parentID),
		expanded: true,
	}
	r.store.folders = append(r.store.folders, rec)

	folder := rec.model()
	return &folder, nil
}

// Toggle flips the expansion flag and returns the new value
func (r *FolderRepository) Toggle(_ context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.folderIndex(id)
	if i < 0 {
		return false, folderNotFound()
	}
	r.store.folders[i].expanded = !r.store.folders[i].expanded
	return r.store.folders[i].expanded, nil
}

// Rename renames a folder
func (r *FolderRepository) Rename(_ context.Context, id, name string) (*models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.folderIndex(id)
	if i < 0 {
		return nil, folderNotFound()
	}
	r.store.folders[i].name = name

	folder := r.store.folders[i].model()
	return &folder, nil
}

// Delete deletes a folder together with the documents it holds.
// Subfolders are kept and become top level.
func (r *FolderRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.folderIndex(id)
	if i < 0 {
		return folderNotFound()
	}
	for p, rec := range r.store.docs {
		if rec.folderID != nil && *rec.folderID == id {
			delete(r.store.docs, p)
		}
	}
	r.store.folders = slices.Delete(r.store.folders, i, i+1)
	for j := range r.store.folders {
		if parent := r.store.folders[j].parentID; parent != nil && *parent == id {
			r.store.folders[j].parentID = nil
		}
	}
	return nil
}
