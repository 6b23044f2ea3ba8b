package watch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan string, 16)
	w, err := File(path, "first", func(content string) { changes <- content }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	defer w.Close()

	// unrelated files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.md"), []byte("noise"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got == "noise" {
				t.Fatal("change reported for another file")
			}
			if got == "second" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change")
		}
	}
}

func TestFileSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("same"), 0644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan string, 16)
	w, err := File(path, "same", func(content string) { changes <- content }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	if err := os.WriteFile(path, []byte("same"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	select {
	case got := <-changes:
		t.Errorf("unexpected change %q", got)
	default:
	}
}
