package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
)

// DragState is the phase of a drag gesture.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
	DropPending
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case Dragging:
		return "dragging"
	case DropPending:
		return "drop-pending"
	default:
		return fmt.Sprintf("DragState(%d)", int(s))
	}
}

// DropTarget is where a dragged document is released.
type DropTarget interface {
	dropTarget()
}

// FolderTarget drops onto a folder header. Use models.RootFolderID for
// the unclassified group.
type FolderTarget struct {
	ID string
}

// DocumentTarget drops onto another document, which reorders and, when
// the target lives in another folder, moves.
type DocumentTarget struct {
	Path string
}

func (FolderTarget) dropTarget()   {}
func (DocumentTarget) dropTarget() {}

// DragDrop tracks one drag gesture at a time and turns drops into
// workspace mutations. The dragged document is tracked by path, never by
// its derived tree identifier.
type DragDrop struct {
	ws     *Workspace
	logger *slog.Logger

	mu      sync.Mutex
	state   DragState
	path    string
	markers map[string]struct{}
}

// NewDragDrop creates an idle drag/drop engine for ws.
func NewDragDrop(ws *Workspace, logger *slog.Logger) *DragDrop {
	return &DragDrop{
		ws:      ws,
		logger:  logger,
		markers: make(map[string]struct{}),
	}
}

// Start begins dragging the document at path.
func (d *DragDrop) Start(path string) error {
	if _, ok := d.ws.Document(path); !ok {
		return &domain.InvariantError{Message: fmt.Sprintf("drag start on unknown document %q", path)}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Dragging
	d.path = path
	clear(d.markers)
	return nil
}

// Over marks key as the element under the pointer.
func (d *DragDrop) Over(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Dragging {
		d.markers[key] = struct{}{}
	}
}

// Leave removes the marker for key.
func (d *DragDrop) Leave(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.markers, key)
}

// End aborts or finishes the gesture. It always returns to idle.
func (d *DragDrop) End() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

// State returns the current phase.
func (d *DragDrop) State() DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dragged returns the path being dragged, or "".
func (d *DragDrop) Dragged() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

// Markers returns the active drag-over markers, sorted.
func (d *DragDrop) Markers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.markers))
	for k := range d.markers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Drop releases the dragged document onto target.
func (d *DragDrop) Drop(ctx context.Context, target DropTarget) error {
	d.mu.Lock()
	if d.state != Dragging || d.path == "" {
		d.mu.Unlock()
		d.logger.Warn("drop without a dragged document", "target", fmt.Sprintf("%+v", target))
		return &domain.InvariantError{Message: "drop without a dragged document"}
	}
	dragged := d.path
	d.state = DropPending
	clear(d.markers)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		// A new gesture may have started while the drop was in flight
		if d.state == DropPending && d.path == dragged {
			d.resetLocked()
		}
		d.mu.Unlock()
	}()

	switch t := target.(type) {
	case FolderTarget:
		var folderID *string
		if t.ID != models.RootFolderID {
			folderID = &t.ID
		}
		return d.ws.MoveDocument(ctx, dragged, folderID)
	case DocumentTarget:
		if t.Path == dragged {
			return nil
		}
		return d.ws.dropOnDocument(ctx, dragged, t.Path)
	default:
		return &domain.InvariantError{Message: fmt.Sprintf("unsupported drop target %T", target)}
	}
}

func (d *DragDrop) resetLocked() {
	d.state = DragIdle
	d.path = ""
	clear(d.markers)
}

// dropOnDocument places dragged at target's position. When target lives
// in another folder the remote move happens first and the reorder is
// applied to the refreshed list.
func (w *Workspace) dropOnDocument(ctx context.Context, dragged, target string) error {
	w.mu.RLock()
	from, to := w.indexOfLocked(dragged), w.indexOfLocked(target)
	var src, dst models.Document
	if from >= 0 && to >= 0 {
		src, dst = w.documents[from], w.documents[to]
	}
	w.mu.RUnlock()

	if from < 0 || to < 0 {
		w.logger.Warn("drop references unknown document", "dragged", dragged, "target", target)
		return &domain.InvariantError{Message: "drop references an unknown document"}
	}

	if !src.InFolder(dst.FolderID) {
		if err := w.moveRemote(ctx, dragged, dst.FolderID); err != nil {
			return err
		}
	}

	w.mu.Lock()
	w.reorderLocked(dragged, target)
	w.mu.Unlock()
	return nil
}

// reorderLocked removes dragged and inserts it at target's index as it
// was before the removal.
func (w *Workspace) reorderLocked(dragged, target string) {
	from, to := w.indexOfLocked(dragged), w.indexOfLocked(target)
	if from < 0 || to < 0 || from == to {
		return
	}
	doc := w.documents[from]
	w.documents = slices.Delete(w.documents, from, from+1)
	w.documents = slices.Insert(w.documents, to, doc)
}
