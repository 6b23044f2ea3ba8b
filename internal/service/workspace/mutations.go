package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"
)

// failureMessage builds the alert text for a failed action. Validation
// messages are shown as they are; remote failures carry the server's
// message when it sent one.
func failureMessage(action string, err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	if msg := domain.UserMessage(err, ""); msg != "" {
		return fmt.Sprintf("Failed to %s: %s", action, msg)
	}
	return "Failed to " + action
}

// reject alerts a validation failure and returns it.
func (w *Workspace) reject(err error) error {
	w.notifier.Alert(failureMessage("", err))
	return err
}

// fail logs and alerts a remote failure. With resync set the local
// collections are refreshed so they match the remote state again.
func (w *Workspace) fail(ctx context.Context, action string, err error, resync bool) error {
	w.logger.Error("workspace mutation failed", "action", action, "error", err)
	w.notifier.Alert(failureMessage(action, err))
	if resync {
		w.reload(ctx)
	}
	return err
}

// CreateDocument creates an empty unclassified document and opens it.
func (w *Workspace) CreateDocument(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := w.checkNewDocument(name); err != nil {
		return w.reject(err)
	}

	if err := w.store.CreateDocument(ctx, name, ""); err != nil {
		return w.fail(ctx, "create document", err, false)
	}

	doc := models.Document{Name: name, Path: name}
	w.mu.Lock()
	w.documents = append(w.documents, doc)
	w.mu.Unlock()

	w.logger.Info("document created", "path", doc.Path)
	w.openLocal(ctx, doc)
	return nil
}

// CreateDocumentInFolder creates an empty document, moves it into
// folderID and opens it. The folder is expanded if it was collapsed.
func (w *Workspace) CreateDocumentInFolder(ctx context.Context, folderID, name string) error {
	if folderID == models.RootFolderID {
		return w.CreateDocument(ctx, name)
	}

	name = strings.TrimSpace(name)
	if err := w.checkNewDocument(name); err != nil {
		return w.reject(err)
	}

	w.mu.RLock()
	fi := w.folderIndexLocked(folderID)
	var folder models.Folder
	if fi >= 0 {
		folder = w.folders[fi]
	}
	w.mu.RUnlock()
	if fi < 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", folderID)}
	}

	if err := w.store.CreateDocument(ctx, name, ""); err != nil {
		return w.fail(ctx, "create document", err, false)
	}
	if err := w.store.MoveDocument(ctx, name, &folderID); err != nil {
		// The document exists remotely but unclassified
		return w.fail(ctx, "move document", err, true)
	}

	if !folder.IsExpanded() {
		if err := w.ToggleFolder(ctx, folderID); err != nil {
			w.logger.Warn("failed to expand folder", "folder_id", folderID, "error", err)
		}
	}

	doc := models.Document{Name: name, Path: name, FolderID: &folderID}
	w.mu.Lock()
	w.documents = append(w.documents, doc)
	w.mu.Unlock()

	w.logger.Info("document created", "path", doc.Path, "folder_id", folderID)
	w.openLocal(ctx, doc)

	if err := w.ReloadDocuments(ctx); err != nil {
		w.logger.Warn("document list may be stale", "error", err)
	}
	return nil
}

func (w *Workspace) checkNewDocument(name string) error {
	if err := ValidateDocumentName(name); err != nil {
		return err
	}
	w.mu.RLock()
	exists := w.indexOfLocked(name) >= 0
	w.mu.RUnlock()
	if exists {
		return domain.NewValidationError("a document named %q already exists", name)
	}
	return nil
}

// openLocal opens a freshly created, empty document without a fetch.
func (w *Workspace) openLocal(ctx context.Context, doc models.Document) {
	w.mu.Lock()
	w.openSeq++
	w.current = &models.OpenDocument{
		Path:     doc.Path,
		Name:     doc.Name,
		FolderID: doc.FolderID,
		Type:     doc.Type(),
		Status:   models.StatusSaved,
	}
	w.mu.Unlock()

	w.emitStatus(doc.Path, models.StatusSaved)
	w.refreshPreview(ctx)
	w.autosave.Start()
}

// DeleteDocument deletes path after the user confirms. A declined
// confirmation is not an error.
func (w *Workspace) DeleteDocument(ctx context.Context, path string) error {
	doc, ok := w.Document(path)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", path)}
	}
	if !w.notifier.Confirm(fmt.Sprintf("Delete document %q?", doc.Name)) {
		return nil
	}

	// waits for an in-flight save of path and keeps later ones out
	unlock := w.paths.lock(path)
	if err := w.store.DeleteDocument(ctx, path); err != nil {
		unlock()
		return w.fail(ctx, "delete document", err, false)
	}

	w.mu.Lock()
	if i := w.indexOfLocked(path); i >= 0 {
		w.documents = slices.Delete(w.documents, i, i+1)
	}
	closed := w.current != nil && w.current.Path == path
	if closed {
		w.closeLocked()
	}
	w.mu.Unlock()
	unlock()

	if closed {
		w.autosave.Stop()
	}
	w.logger.Info("document deleted", "path", path)
	return nil
}

// MoveDocument puts path into folderID. Nil or RootFolderID moves it to
// the unclassified group.
func (w *Workspace) MoveDocument(ctx context.Context, path string, folderID *string) error {
	if folderID != nil && *folderID == models.RootFolderID {
		folderID = nil
	}

	w.mu.RLock()
	i := w.indexOfLocked(path)
	var doc models.Document
	if i >= 0 {
		doc = w.documents[i]
	}
	folderKnown := folderID == nil || w.folderIndexLocked(*folderID) >= 0
	w.mu.RUnlock()

	if i < 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", path)}
	}
	if !folderKnown {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", *folderID)}
	}
	if doc.InFolder(folderID) {
		return nil
	}

	return w.moveRemote(ctx, path, folderID)
}

// moveRemote issues the move, refreshes the list and then patches the
// document's folder locally.
func (w *Workspace) moveRemote(ctx context.Context, path string, folderID *string) error {
	if err := w.store.MoveDocument(ctx, path, folderID); err != nil {
		return w.fail(ctx, "move document", err, true)
	}

	if err := w.ReloadDocuments(ctx); err != nil {
		w.logger.Warn("document list may be stale", "error", err)
	}

	w.mu.Lock()
	if i := w.indexOfLocked(path); i >= 0 {
		w.documents[i].FolderID = cloneID(folderID)
	}
	w.syncCurrentLocked()
	w.mu.Unlock()

	w.logger.Info("document moved", "path", path, "folder_id", folderLogValue(folderID))
	return nil
}

// RenameDocument renames path to newName. The document is correlated by
// its pre-rename path, and an open document follows the rename.
func (w *Workspace) RenameDocument(ctx context.Context, path, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return w.reject(domain.NewValidationError("document name is required"))
	}

	doc, ok := w.Document(path)
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", path)}
	}
	if newName == doc.Name {
		return nil
	}
	if err := ValidateDocumentName(newName); err != nil {
		return w.reject(err)
	}

	unlock := w.paths.lock(path)
	newPath, err := w.store.RenameDocument(ctx, path, newName)
	if err != nil {
		unlock()
		return w.fail(ctx, "rename document", err, true)
	}

	w.mu.Lock()
	if i := w.indexOfLocked(path); i >= 0 {
		w.documents[i].Name = newName
		w.documents[i].Path = newPath
	}
	retarget := w.current != nil && w.current.Path == path
	if retarget {
		w.current.Path = newPath
		w.current.Name = newName
		w.current.Type = models.TypeOf(newName)
	}
	w.mu.Unlock()
	unlock()

	w.logger.Info("document renamed", "old_path", path, "new_path", newPath)
	if retarget {
		w.refreshPreview(ctx)
	}
	return nil
}

// CreateFolder creates a folder under parentID (nil for top level).
func (w *Workspace) CreateFolder(ctx context.Context, name string, parentID *string) (models.Folder, error) {
	name = strings.TrimSpace(name)
	if err := ValidateFolderName(name); err != nil {
		return models.Folder{}, w.reject(err)
	}
	if parentID != nil && *parentID == models.RootFolderID {
		parentID = nil
	}
	if parentID != nil {
		w.mu.RLock()
		known := w.folderIndexLocked(*parentID) >= 0
		w.mu.RUnlock()
		if !known {
			return models.Folder{}, &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", *parentID)}
		}
	}

	folder, err := w.store.CreateFolder(ctx, &wsSvc.CreateFolderRequest{Name: name, ParentID: parentID})
	if err != nil {
		return models.Folder{}, w.fail(ctx, "create folder", err, false)
	}

	w.mu.Lock()
	w.folders = append(w.folders, *folder)
	w.mu.Unlock()

	w.logger.Info("folder created", "folder_id", folder.ID, "name", folder.Name)
	return *folder, nil
}

// ToggleFolder flips a folder's expansion. The unclassified group only
// toggles locally.
func (w *Workspace) ToggleFolder(ctx context.Context, id string) error {
	if id == models.RootFolderID {
		w.mu.Lock()
		w.rootExpanded = !w.rootExpanded
		w.mu.Unlock()
		return nil
	}

	w.mu.RLock()
	known := w.folderIndexLocked(id) >= 0
	w.mu.RUnlock()
	if !known {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", id)}
	}

	expanded, err := w.store.ToggleFolder(ctx, id)
	if err != nil {
		return w.fail(ctx, "toggle folder", err, false)
	}

	w.mu.Lock()
	if i := w.folderIndexLocked(id); i >= 0 {
		w.folders[i].Expanded = &expanded
	}
	w.mu.Unlock()
	return nil
}

// RenameFolder renames a folder. An unchanged name is a no-op.
func (w *Workspace) RenameFolder(ctx context.Context, id, name string) error {
	if id == models.RootFolderID {
		return w.reject(domain.NewValidationError("the %s group cannot be renamed", RootFolderName))
	}
	name = strings.TrimSpace(name)
	if err := ValidateFolderName(name); err != nil {
		return w.reject(err)
	}

	w.mu.RLock()
	i := w.folderIndexLocked(id)
	var current string
	if i >= 0 {
		current = w.folders[i].Name
	}
	w.mu.RUnlock()
	if i < 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", id)}
	}
	if current == name {
		return nil
	}

	if err := w.store.RenameFolder(ctx, id, name); err != nil {
		w.logger.Error("workspace mutation failed", "action", "rename folder", "error", err)
		w.notifier.Alert(failureMessage("rename folder", err))
		if rerr := w.ReloadFolders(ctx); rerr != nil {
			w.logger.Warn("folder list may be stale", "error", rerr)
		}
		return err
	}

	w.mu.Lock()
	if i := w.folderIndexLocked(id); i >= 0 {
		w.folders[i].Name = name
	}
	w.mu.Unlock()

	w.logger.Info("folder renamed", "folder_id", id, "name", name)
	return nil
}

// DeleteFolder deletes a folder and its documents after the user confirms.
func (w *Workspace) DeleteFolder(ctx context.Context, id string) error {
	if id == models.RootFolderID {
		return w.reject(domain.NewValidationError("the %s group cannot be deleted", RootFolderName))
	}

	w.mu.RLock()
	i := w.folderIndexLocked(id)
	var folder models.Folder
	count := 0
	if i >= 0 {
		folder = w.folders[i]
		for _, d := range w.documents {
			if d.InFolder(&id) {
				count++
			}
		}
	}
	w.mu.RUnlock()
	if i < 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %q not found", id)}
	}

	message := fmt.Sprintf("Delete folder %q?", folder.Name)
	if count > 0 {
		message = fmt.Sprintf("Delete folder %q and its %d documents? This cannot be undone.", folder.Name, count)
	}
	if !w.notifier.Confirm(message) {
		return nil
	}

	// the open document goes down with the folder; no save may recreate it
	unlock := func() {}
	w.mu.RLock()
	if w.current != nil && w.current.FolderID != nil && *w.current.FolderID == id {
		path := w.current.Path
		w.mu.RUnlock()
		unlock = w.paths.lock(path)
	} else {
		w.mu.RUnlock()
	}

	if err := w.store.DeleteFolder(ctx, id); err != nil {
		unlock()
		return w.fail(ctx, "delete folder", err, false)
	}

	w.mu.Lock()
	if i := w.folderIndexLocked(id); i >= 0 {
		w.folders = slices.Delete(w.folders, i, i+1)
	}
	closed := w.current != nil && w.current.FolderID != nil && *w.current.FolderID == id
	if closed {
		w.closeLocked()
	}
	w.mu.Unlock()
	unlock()

	if closed {
		w.autosave.Stop()
	}
	w.logger.Info("folder deleted", "folder_id", id, "document_count", count)

	// subfolders were moved to top level remotely
	if err := w.ReloadFolders(ctx); err != nil {
		w.logger.Warn("folder list may be stale", "error", err)
	}
	if err := w.ReloadDocuments(ctx); err != nil {
		w.logger.Warn("document list may be stale", "error", err)
	}
	return nil
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func folderLogValue(id *string) string {
	if id == nil {
		return models.RootFolderID
	}
	return *id
}
