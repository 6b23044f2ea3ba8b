package workspace

import (
	"context"

	models "docdesk/internal/domain/models/workspace"
)

// PreviewRenderer turns raw markup into preview HTML.
type PreviewRenderer interface {
	Render(ctx context.Context, docType models.DocType, content string) (string, error)
}
