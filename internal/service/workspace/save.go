package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
)

// errRetargeted reports that the open document changed path (rename)
// while a write for the old path was waiting.
var errRetargeted = errors.New("document path changed")

// pathLocks serializes remote writes per storage path. Saves hold the
// lock across PutDocument; delete and rename hold it across the remote
// call and the local patch, so no write for a retired path can follow.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	sync.Mutex
	refs int
}

// lock acquires the lock for path and returns its release.
func (l *pathLocks) lock(path string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*pathLock)
	}
	pl, ok := l.locks[path]
	if !ok {
		pl = &pathLock{}
		l.locks[path] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, path)
		}
		l.mu.Unlock()
	}
}

// persist writes the open document's current content. Writes for the
// same path share one in-flight request; a caller that joined a write
// started before its own edit writes again, so the last write always
// carries the newest content.
func (w *Workspace) persist(ctx context.Context) error {
	for {
		w.mu.RLock()
		if w.current == nil {
			w.mu.RUnlock()
			return &domain.InvariantError{Message: "no document is open"}
		}
		path, rev, seq := w.current.Path, w.contentRev, w.openSeq
		w.mu.RUnlock()

		written, err, _ := w.saves.Do(path, func() (any, error) {
			return w.write(ctx, path)
		})
		if errors.Is(err, errRetargeted) {
			w.mu.RLock()
			sameSession := w.current != nil && w.openSeq == seq
			w.mu.RUnlock()
			if sameSession {
				continue
			}
			return &domain.InvariantError{Message: fmt.Sprintf("document %q is no longer open", path)}
		}
		if err != nil {
			return err
		}
		if written.(uint64) >= rev {
			return nil
		}
	}
}

// write issues one PutDocument with the latest content of path and
// records the outcome. It returns the content revision it wrote. Nothing
// is written once path was deleted or renamed away.
func (w *Workspace) write(ctx context.Context, path string) (uint64, error) {
	unlock := w.paths.lock(path)
	defer unlock()

	w.mu.RLock()
	if w.current == nil {
		w.mu.RUnlock()
		return 0, &domain.InvariantError{Message: fmt.Sprintf("document %q is no longer open", path)}
	}
	if current := w.current.Path; current != path {
		w.mu.RUnlock()
		w.logger.Debug("dropping write for retired path", "path", path, "current", current)
		return 0, errRetargeted
	}
	content, rev := w.current.Content, w.contentRev
	w.mu.RUnlock()

	err := w.store.PutDocument(ctx, path, content)

	w.mu.Lock()
	var status models.SaveStatus
	stillOpen := w.current != nil && w.current.Path == path
	if stillOpen {
		if err != nil {
			w.current.Status = models.StatusSaveFailed
		} else {
			w.current.LastSaved = content
			w.current.Status = models.StatusSaved
			if w.current.Dirty() {
				w.current.Status = models.StatusUnsaved
			}
		}
		status = w.current.Status
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("failed to save document", "path", path, "error", err)
	} else {
		w.logger.Debug("document saved", "path", path, "bytes", len(content))
	}
	if stillOpen {
		w.emitStatus(path, status)
	}
	if err != nil {
		return 0, err
	}
	return rev, nil
}

// Save persists the open document on user request and reports the result.
func (w *Workspace) Save(ctx context.Context) error {
	if err := w.persist(ctx); err != nil {
		if errors.Is(err, domain.ErrInvariant) {
			return err
		}
		w.notifier.Alert(failureMessage("save document", err))
		return err
	}
	w.notifier.Alert("Document saved")
	return nil
}

// autosaveTick persists silently, and only when there is something to save.
func (w *Workspace) autosaveTick(ctx context.Context) {
	w.mu.RLock()
	dirty := w.current != nil && w.current.Dirty()
	w.mu.RUnlock()
	if !dirty {
		return
	}
	if err := w.persist(ctx); err != nil {
		w.logger.Warn("autosave failed", "error", err)
	}
}
