package preview

import (
	"context"

	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"
)

// remoteEngine delegates rendering to the document API.
type remoteEngine struct {
	store   wsSvc.RemoteStore
	docType models.DocType
}

// NewRemoteEngine creates an engine that renders docType server side.
func NewRemoteEngine(store wsSvc.RemoteStore, docType models.DocType) Engine {
	return &remoteEngine{store: store, docType: docType}
}

func (e *remoteEngine) Render(ctx context.Context, content string) (string, error) {
	return e.store.RenderPreview(ctx, content, e.docType)
}

func (e *remoteEngine) Name() string {
	return "remote-" + string(e.docType)
}
