package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/watch"

	"github.com/docopt/docopt-go"
)

func (a *app) dispatch(ctx context.Context, opts docopt.Opts) error {
	arg := func(key string) string {
		v, _ := opts.String(key)
		return v
	}
	is := func(cmd string) bool {
		v, _ := opts.Bool(cmd)
		return v
	}

	switch {
	case is("tree"):
		printTree(a.out, a.ws.Tree())
		return nil
	case is("cat"):
		return a.cat(ctx, arg("<path>"))
	case is("preview"):
		return a.preview(ctx, arg("<path>"))
	case is("new"):
		if folder := arg("--folder"); folder != "" {
			return a.ws.CreateDocumentInFolder(ctx, folder, arg("<name>"))
		}
		return a.ws.CreateDocument(ctx, arg("<name>"))
	case is("rm"):
		return a.ws.DeleteDocument(ctx, arg("<path>"))
	case is("mv"):
		folderID := arg("<folder_id>")
		return a.ws.MoveDocument(ctx, arg("<path>"), &folderID)
	case is("rename"):
		return a.ws.RenameDocument(ctx, arg("<path>"), arg("<name>"))
	case is("mkdir"):
		var parentID *string
		if parent := arg("--parent"); parent != "" {
			parentID = &parent
		}
		folder, err := a.ws.CreateFolder(ctx, arg("<name>"), parentID)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, folder.ID)
		return nil
	case is("rmdir"):
		return a.ws.DeleteFolder(ctx, arg("<folder_id>"))
	case is("renamedir"):
		return a.ws.RenameFolder(ctx, arg("<folder_id>"), arg("<name>"))
	case is("toggle"):
		return a.ws.ToggleFolder(ctx, arg("<folder_id>"))
	case is("edit"):
		pull, _ := opts.Bool("--pull")
		return a.edit(ctx, arg("<path>"), arg("<file>"), pull)
	}
	return errors.New("unknown command")
}

func (a *app) cat(ctx context.Context, path string) error {
	if err := a.ws.OpenDocument(ctx, path); err != nil {
		return err
	}
	_, err := io.WriteString(a.out, a.ws.Current().Content)
	return err
}

func (a *app) preview(ctx context.Context, path string) error {
	if err := a.ws.OpenDocument(ctx, path); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, a.ws.Current().Preview)
	return err
}

// edit opens path, mirrors it into a local file and feeds every write of
// that file into the workspace until interrupted. Autosave persists the
// edits; a final save runs on exit.
func (a *app) edit(ctx context.Context, path, file string, pull bool) error {
	if err := a.ws.OpenDocument(ctx, path); err != nil {
		return err
	}
	stored := a.ws.Current().Content

	initial := stored
	existing, err := os.ReadFile(file)
	switch {
	case err == nil && !pull:
		initial = string(existing)
	case err == nil || errors.Is(err, os.ErrNotExist):
		if err := os.WriteFile(file, []byte(stored), 0644); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
	default:
		return fmt.Errorf("read %s: %w", file, err)
	}
	if initial != stored {
		if err := a.ws.SetContent(ctx, initial); err != nil {
			return err
		}
	}

	// edits arriving after the interrupt still land in the final save
	watcher, err := watch.File(file, initial, func(content string) {
		if err := a.ws.SetContent(context.Background(), content); err != nil {
			a.logger.Warn("failed to apply edit", "file", file, "error", err)
		}
	}, a.logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "editing %s via %s, interrupt to stop\n", path, file)
	<-ctx.Done()

	if err := watcher.Close(); err != nil {
		a.logger.Warn("failed to close watcher", "error", err)
	}
	if cur := a.ws.Current(); cur != nil && cur.Dirty() {
		return a.ws.Save(context.Background())
	}
	return nil
}

// printTree renders the sidebar tree. Collapsed folders show their
// document count instead of their documents.
func printTree(w io.Writer, tree *models.Tree) {
	var walk func(nodes []*models.FolderNode)
	walk = func(nodes []*models.FolderNode) {
		for _, n := range nodes {
			indent := strings.Repeat("  ", n.Level)
			if !n.Expanded {
				fmt.Fprintf(w, "%s+ %s [%s] (%d)\n", indent, n.Name, n.ID, n.DocumentCount())
				continue
			}
			fmt.Fprintf(w, "%s- %s [%s]\n", indent, n.Name, n.ID)
			for _, d := range n.Documents {
				fmt.Fprintf(w, "%s    %s\n", indent, d.Name)
			}
			walk(n.Folders)
		}
	}
	walk(tree.Folders)
}
