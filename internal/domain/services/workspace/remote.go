package workspace

import (
	"context"

	models "docdesk/internal/domain/models/workspace"
)

// RemoteStore is the document/folder API the workspace reconciles against.
// Write methods report rejection as *domain.RemoteError carrying the
// server's message.
type RemoteStore interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	GetDocument(ctx context.Context, path string) (string, error)
	PutDocument(ctx context.Context, path, content string) error
	CreateDocument(ctx context.Context, name, content string) error
	DeleteDocument(ctx context.Context, path string) error
	// MoveDocument sets the document's folder; nil moves it to the unclassified group.
	MoveDocument(ctx context.Context, path string, folderID *string) error
	// RenameDocument returns the new storage path.
	RenameDocument(ctx context.Context, path, name string) (string, error)

	ListFolders(ctx context.Context) ([]models.Folder, error)
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)
	// ToggleFolder flips the persisted expansion flag and returns the new value.
	ToggleFolder(ctx context.Context, id string) (bool, error)
	RenameFolder(ctx context.Context, id, name string) error
	DeleteFolder(ctx context.Context, id string) error

	// RenderPreview renders non-default markup types server side.
	RenderPreview(ctx context.Context, content string, docType models.DocType) (string, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}
