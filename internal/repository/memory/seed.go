package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"docdesk/internal/domain"
	models "docdesk/internal/domain/models/workspace"
	"docdesk/internal/domain/repositories"
)

// SeedResult summarizes a Seed run.
type SeedResult struct {
	Documents int
	Folders   int
	Skipped   []string
}

// Seed imports a directory tree into the repositories. Each directory
// becomes a folder (nested directories become subfolders) and each .md or
// .rst file becomes a document named after its base name. Files with other
// extensions, hidden entries and duplicate names are skipped.
func Seed(ctx context.Context, fsys fs.FS, docs repositories.DocumentRepository, folders repositories.FolderRepository, logger *slog.Logger) (*SeedResult, error) {
	result := &SeedResult{}
	folderIDs := map[string]*string{".": nil}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			folder, err := folders.Create(ctx, d.Name(), folderIDs[path.Dir(p)])
			if err != nil {
				return fmt.Errorf("create folder %s: %w", p, err)
			}
			folderIDs[p] = &folder.ID
			result.Folders++
			return nil
		}

		name := d.Name()
		if !models.HasMarkupExtension(name) {
			result.Skipped = append(result.Skipped, p)
			return nil
		}
		if _, err := docs.Get(ctx, name); err == nil {
			logger.Warn("seed: duplicate document name", "path", p, "name", name)
			result.Skipped = append(result.Skipped, p)
			return nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if err := docs.Save(ctx, name, string(content)); err != nil {
			return fmt.Errorf("save %s: %w", p, err)
		}
		if folderID := folderIDs[path.Dir(p)]; folderID != nil {
			if err := docs.Move(ctx, name, folderID); err != nil {
				return fmt.Errorf("move %s: %w", p, err)
			}
		}
		result.Documents++
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("seed complete",
		"documents", result.Documents,
		"folders", result.Folders,
		"skipped", len(result.Skipped),
	)
	return result, nil
}
