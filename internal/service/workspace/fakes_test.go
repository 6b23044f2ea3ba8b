package workspace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	wsSvc "docdesk/internal/domain/services/workspace"
)

// fakeStore is an in-memory RemoteStore with per-operation failure injection.
type fakeStore struct {
	mu      sync.Mutex
	docs    []models.Document
	content map[string]string
	folders []models.Folder
	nextID  int
	fail    map[string]error
	calls   []string
	puts    []string

	// getHook and putHook run outside the lock before the call completes.
	getHook func(path string)
	putHook func(content string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		content: make(map[string]string),
		fail:    make(map[string]error),
	}
}

func (s *fakeStore) addDoc(name string, folderID *string, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, models.Document{Name: name, Path: name, FolderID: folderID})
	s.content[name] = content
}

func (s *fakeStore) addFolder(id, name string, parentID *string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, models.Folder{ID: id, Name: name, ParentID: parentID, Expanded: &expanded})
}

func (s *fakeStore) setFail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// record notes the call and returns the injected failure for op.
func (s *fakeStore) record(op string) error {
	s.calls = append(s.calls, op)
	return s.fail[op]
}

func (s *fakeStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (s *fakeStore) putContents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.puts)
}

func (s *fakeStore) indexOf(path string) int {
	return slices.IndexFunc(s.docs, func(d models.Document) bool { return d.Path == path })
}

func (s *fakeStore) ListDocuments(ctx context.Context) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("list"); err != nil {
		return nil, err
	}
	docs := make([]models.Document, len(s.docs))
	for i, d := range s.docs {
		docs[i] = d
		docs[i].FolderID = cloneID(d.FolderID)
	}
	return docs, nil
}

func (s *fakeStore) GetDocument(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	hook := s.getHook
	s.mu.Unlock()
	if hook != nil {
		hook(path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("get"); err != nil {
		return "", err
	}
	content, ok := s.content[path]
	if !ok {
		return "", &domain.RemoteError{Op: "get document", Status: 404, Message: "Document not found"}
	}
	return content, nil
}

func (s *fakeStore) PutDocument(ctx context.Context, path, content string) error {
	s.mu.Lock()
	hook := s.putHook
	s.mu.Unlock()
	if hook != nil {
		hook(content)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("put"); err != nil {
		return err
	}
	s.puts = append(s.puts, content)
	s.content[path] = content
	return nil
}

func (s *fakeStore) CreateDocument(ctx context.Context, name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("create"); err != nil {
		return err
	}
	s.docs = append(s.docs, models.Document{Name: name, Path: name})
	s.content[name] = content
	return nil
}

func (s *fakeStore) DeleteDocument(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete"); err != nil {
		return err
	}
	if i := s.indexOf(path); i >= 0 {
		s.docs = slices.Delete(s.docs, i, i+1)
	}
	delete(s.content, path)
	return nil
}

func (s *fakeStore) MoveDocument(ctx context.Context, path string, folderID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("move"); err != nil {
		return err
	}
	i := s.indexOf(path)
	if i < 0 {
		return &domain.RemoteError{Op: "move document", Status: 404, Message: "Document not found"}
	}
	s.docs[i].FolderID = cloneID(folderID)
	return nil
}

func (s *fakeStore) RenameDocument(ctx context.Context, path, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("rename"); err != nil {
		return "", err
	}
	i := s.indexOf(path)
	if i < 0 {
		return "", &domain.RemoteError{Op: "rename document", Status: 404, Message: "Document not found"}
	}
	s.docs[i].Name = name
	s.docs[i].Path = name
	s.content[name] = s.content[path]
	delete(s.content, path)
	return name, nil
}

func (s *fakeStore) ListFolders(ctx context.Context) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("listFolders"); err != nil {
		return nil, err
	}
	return slices.Clone(s.folders), nil
}

func (s *fakeStore) CreateFolder(ctx context.Context, req *wsSvc.CreateFolderRequest) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("createFolder"); err != nil {
		return nil, err
	}
	s.nextID++
	expanded := true
	folder := models.Folder{ID: fmt.Sprintf("f%d", s.nextID), Name: req.Name, ParentID: req.ParentID, Expanded: &expanded}
	s.folders = append(s.folders, folder)
	return &folder, nil
}

func (s *fakeStore) ToggleFolder(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("toggle"); err != nil {
		return false, err
	}
	for i := range s.folders {
		if s.folders[i].ID == id {
			expanded := !s.folders[i].IsExpanded()
			s.folders[i].Expanded = &expanded
			return expanded, nil
		}
	}
	return false, &domain.RemoteError{Op: "toggle folder", Status: 404, Message: "Folder not found"}
}

func (s *fakeStore) RenameFolder(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("renameFolder"); err != nil {
		return err
	}
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders[i].Name = name
			return nil
		}
	}
	return &domain.RemoteError{Op: "rename folder", Status: 404, Message: "Folder not found"}
}

func (s *fakeStore) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("deleteFolder"); err != nil {
		return err
	}
	s.folders = slices.DeleteFunc(s.folders, func(f models.Folder) bool { return f.ID == id })
	for i, f := range s.folders {
		if f.ParentID != nil && *f.ParentID == id {
			s.folders[i].ParentID = nil
		}
	}
	s.docs = slices.DeleteFunc(s.docs, func(d models.Document) bool { return d.FolderID != nil && *d.FolderID == id })
	return nil
}

func (s *fakeStore) RenderPreview(ctx context.Context, content string, docType models.DocType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("preview"); err != nil {
		return "", err
	}
	return "<pre>" + content + "</pre>", nil
}

// echoRenderer wraps content in a paragraph, or fails when err is set.
type echoRenderer struct {
	mu  sync.Mutex
	err error
}

func (r *echoRenderer) Render(ctx context.Context, docType models.DocType, content string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	if content == "" {
		return "", nil
	}
	return "<p>" + content + "</p>", nil
}

// recordingNotifier captures alerts and answers confirmations with answer.
type recordingNotifier struct {
	mu       sync.Mutex
	answer   bool
	alerts   []string
	confirms []string
}

func (n *recordingNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *recordingNotifier) Confirm(message string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirms = append(n.confirms, message)
	return n.answer
}

func (n *recordingNotifier) lastAlert() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.alerts) == 0 {
		return ""
	}
	return n.alerts[len(n.alerts)-1]
}

func (n *recordingNotifier) alertCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store    *fakeStore
	renderer *echoRenderer
	notifier *recordingNotifier
	ws       *Workspace
}

// newFixture builds a workspace over store with a long autosave interval
// so background ticks never interfere; call Load explicitly.
func newFixture(t *testing.T, store *fakeStore) *fixture {
	t.Helper()
	f := &fixture{
		store:    store,
		renderer: &echoRenderer{},
		notifier: &recordingNotifier{answer: true},
	}
	f.ws = NewWorkspace(store, f.renderer, f.notifier, testLogger(), Options{AutosaveInterval: time.Hour})
	t.Cleanup(f.ws.Close)
	return f
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	if err := f.ws.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func strPtr(s string) *string { return &s }
