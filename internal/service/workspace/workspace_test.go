package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
)

func TestLoadOpensFirstUnclassified(t *testing.T) {
	store := newFakeStore()
	store.addFolder("f1", "Projects", nil, true)
	store.addDoc("a.md", strPtr("f1"), "# A")
	store.addDoc("b.md", nil, "# B")
	f := newFixture(t, store)

	f.load(t)

	cur := f.ws.Current()
	if cur == nil || cur.Path != "b.md" {
		t.Fatalf("expected b.md open, got %+v", cur)
	}
	if cur.Status != models.StatusSaved || cur.LastSaved != "# B" {
		t.Errorf("unexpected open state: %+v", cur)
	}
	if cur.Preview != "<p># B</p>" {
		t.Errorf("preview = %q", cur.Preview)
	}
	if len(f.ws.Folders()) != 1 {
		t.Errorf("expected 1 folder, got %d", len(f.ws.Folders()))
	}
}

func TestLoadFailureDegradesToEmpty(t *testing.T) {
	store := newFakeStore()
	store.addFolder("f1", "Projects", nil, true)
	store.addDoc("a.md", nil, "")
	store.setFail("list", &domain.RemoteError{Op: "list documents", Status: 500})
	f := newFixture(t, store)

	err := f.ws.Load(context.Background())

	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if docs := f.ws.Documents(); len(docs) != 0 {
		t.Errorf("expected no documents, got %v", docs)
	}
	if len(f.ws.Folders()) != 1 {
		t.Error("folder list should load independently")
	}
	if f.notifier.alertCount() != 0 {
		t.Error("read failures must not alert")
	}
}

func TestReloadFailureKeepsCollections(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "")
	f := newFixture(t, store)
	f.load(t)

	store.setFail("list", errors.New("connection refused"))
	if err := f.ws.ReloadDocuments(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if len(f.ws.Documents()) != 1 {
		t.Error("failed reload should keep the previous collection")
	}
}

func TestOpenDocumentDiscardsStaleResponse(t *testing.T) {
	store := newFakeStore()
	store.addDoc("slow.md", nil, "slow")
	store.addDoc("fast.md", nil, "fast")
	f := newFixture(t, store)
	f.ws.ReloadDocuments(context.Background())

	entered := make(chan struct{})
	release := make(chan struct{})
	store.getHook = func(path string) {
		if path == "slow.md" {
			close(entered)
			<-release
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := f.ws.OpenDocument(context.Background(), "slow.md"); err != nil {
			t.Errorf("open slow.md: %v", err)
		}
	}()
	<-entered

	if err := f.ws.OpenDocument(context.Background(), "fast.md"); err != nil {
		t.Fatalf("open fast.md: %v", err)
	}
	close(release)
	wg.Wait()

	if cur := f.ws.Current(); cur == nil || cur.Path != "fast.md" || cur.Content != "fast" {
		t.Errorf("stale response overwrote current document: %+v", cur)
	}
}

func TestOpenDocumentFailureKeepsCurrent(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "A")
	store.addDoc("b.md", nil, "B")
	f := newFixture(t, store)
	f.load(t)

	store.setFail("get", &domain.RemoteError{Op: "get document", Status: 500})
	if err := f.ws.OpenDocument(context.Background(), "b.md"); err == nil {
		t.Fatal("expected open error")
	}
	if cur := f.ws.Current(); cur == nil || cur.Path != "a.md" {
		t.Errorf("current should stay a.md, got %+v", cur)
	}
}

func TestSetContentTracksStatus(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "start")
	f := newFixture(t, store)
	f.load(t)
	ctx := context.Background()

	if err := f.ws.SetContent(ctx, "changed"); err != nil {
		t.Fatal(err)
	}
	cur := f.ws.Current()
	if cur.Status != models.StatusUnsaved || cur.Preview != "<p>changed</p>" {
		t.Errorf("after edit: %+v", cur)
	}

	f.ws.SetContent(ctx, "start")
	if cur := f.ws.Current(); cur.Status != models.StatusSaved {
		t.Errorf("reverting to the snapshot should read as saved, got %s", cur.Status)
	}
}

func TestSetContentWithoutDocument(t *testing.T) {
	f := newFixture(t, newFakeStore())

	err := f.ws.SetContent(context.Background(), "x")
	if !errors.Is(err, domain.ErrInvariant) {
		t.Errorf("expected invariant error, got %v", err)
	}
}

func TestRenderFailureShowsEscapedContent(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "")
	f := newFixture(t, store)
	f.load(t)
	f.renderer.err = errors.New("renderer down")

	f.ws.SetContent(context.Background(), "<b>x</b>")

	if got := f.ws.Current().Preview; got != "<pre>&lt;b&gt;x&lt;/b&gt;</pre>" {
		t.Errorf("preview = %q", got)
	}
}

func TestSaveAlertsResult(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "")
	f := newFixture(t, store)
	f.load(t)
	ctx := context.Background()

	f.ws.SetContent(ctx, "one")
	if err := f.ws.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if f.notifier.lastAlert() != "Document saved" {
		t.Errorf("alert = %q", f.notifier.lastAlert())
	}
	if cur := f.ws.Current(); cur.LastSaved != "one" || cur.Status != models.StatusSaved {
		t.Errorf("after save: %+v", cur)
	}

	store.setFail("put", &domain.RemoteError{Op: "save document", Status: 507, Message: "disk full"})
	f.ws.SetContent(ctx, "two")
	if err := f.ws.Save(ctx); err == nil {
		t.Fatal("expected save error")
	}
	if f.notifier.lastAlert() != "Failed to save document: disk full" {
		t.Errorf("alert = %q", f.notifier.lastAlert())
	}
	if cur := f.ws.Current(); cur.Status != models.StatusSaveFailed || cur.LastSaved != "one" {
		t.Errorf("after failed save: %+v", cur)
	}
}

func TestSaveWritesNewestContentLast(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "")
	f := newFixture(t, store)
	f.load(t)
	ctx := context.Background()

	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	store.putHook = func(content string) {
		entered <- struct{}{}
		if content == "first" {
			<-release
		}
	}

	f.ws.SetContent(ctx, "first")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.ws.persist(ctx)
	}()
	<-entered

	// Edit while the first write is still in flight, then save again
	f.ws.SetContent(ctx, "second")
	go func() {
		defer wg.Done()
		f.ws.persist(ctx)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	puts := store.putContents()
	if len(puts) != 2 || puts[0] != "first" || puts[1] != "second" {
		t.Fatalf("puts = %v, want [first second]", puts)
	}
	if cur := f.ws.Current(); cur.LastSaved != "second" || cur.Status != models.StatusSaved {
		t.Errorf("after saves: %+v", cur)
	}
}

func TestConcurrentSavesCollapse(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "")
	f := newFixture(t, store)
	f.load(t)
	ctx := context.Background()

	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	store.putHook = func(string) {
		entered <- struct{}{}
		<-release
	}

	f.ws.SetContent(ctx, "same")
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.ws.persist(ctx)
		}()
	}
	<-entered
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := store.callCount("put"); n != 1 {
		t.Errorf("expected 1 write for identical content, got %d", n)
	}
}

func TestAutosaveTickOnlyWhenDirty(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "clean")
	f := newFixture(t, store)
	f.load(t)
	ctx := context.Background()

	f.ws.autosaveTick(ctx)
	if n := store.callCount("put"); n != 0 {
		t.Fatalf("clean document should not be written, got %d puts", n)
	}

	f.ws.SetContent(ctx, "dirty")
	f.ws.autosaveTick(ctx)
	f.ws.autosaveTick(ctx)
	if n := store.callCount("put"); n != 1 {
		t.Errorf("expected a single write, got %d", n)
	}
	if f.notifier.alertCount() != 0 {
		t.Error("autosave must stay silent")
	}
}

func TestAutosaveLoopPersists(t *testing.T) {
	store := newFakeStore()
	store.addDoc("notes.md", nil, "")
	notifier := &recordingNotifier{}
	statuses := make(chan models.SaveStatus, 16)
	ws := NewWorkspace(store, &echoRenderer{}, notifier, testLogger(), Options{
		AutosaveInterval: 10 * time.Millisecond,
		OnStatus: func(path string, status models.SaveStatus) {
			statuses <- status
		},
	})
	defer ws.Close()
	ctx := context.Background()

	if err := ws.Load(ctx); err != nil {
		t.Fatal(err)
	}
	ws.SetContent(ctx, "# Hi")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-statuses:
			if s == models.StatusSaved && store.callCount("put") > 0 {
				if got := store.putContents()[0]; got != "# Hi" {
					t.Fatalf("autosave wrote %q", got)
				}
				return
			}
		case <-deadline:
			t.Fatal("autosave never persisted the edit")
		}
	}
}

func TestCloseStopsAutosave(t *testing.T) {
	store := newFakeStore()
	store.addDoc("a.md", nil, "")
	f := newFixture(t, store)
	f.load(t)

	if !f.ws.autosave.Running() {
		t.Fatal("autosave should run while a document is open")
	}
	f.ws.Close()
	if f.ws.autosave.Running() {
		t.Error("Close should stop autosave")
	}
	if f.ws.Current() != nil {
		t.Error("Close should clear the open document")
	}
}
