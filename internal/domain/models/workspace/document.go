package workspace

import (
	"regexp"
	"strings"
)

// DocType is the markup language of a document, derived from its name.
type DocType string

const (
	DocTypeMarkdown DocType = "md"
	DocTypeRST      DocType = "rst"
)

// BareName matches a single path segment: no forward or back slashes.
var BareName = regexp.MustCompile(`^[^/\\]+$`)

// Extensions lists the recognized markup extensions.
var Extensions = []string{".md", ".rst"}

// Document is one entry of the remote document list.
// It has no stored identifier: display identifiers are derived per tree
// build (see DocumentNode.ID) and Path is the storage key.
type Document struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	FolderID *string `json:"folder_id"` // NULL = unclassified
}

// InFolder reports whether the document belongs to folderID (nil = unclassified).
func (d Document) InFolder(folderID *string) bool {
	if d.FolderID == nil || folderID == nil {
		return d.FolderID == nil && folderID == nil
	}
	return *d.FolderID == *folderID
}

// Type returns the markup type implied by the document name.
func (d Document) Type() DocType {
	return TypeOf(d.Name)
}

// TypeOf maps a file name to its markup type; unknown extensions render as markdown.
func TypeOf(name string) DocType {
	if strings.HasSuffix(name, ".rst") {
		return DocTypeRST
	}
	return DocTypeMarkdown
}

// HasMarkupExtension reports whether name ends in a recognized extension.
func HasMarkupExtension(name string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}

// SaveStatus is the persistence state of the open document.
type SaveStatus string

const (
	StatusUnsaved    SaveStatus = "unsaved"
	StatusSaved      SaveStatus = "saved"
	StatusSaveFailed SaveStatus = "save-failed"
)

// OpenDocument is the single in-memory "current document".
type OpenDocument struct {
	Path      string
	Name      string
	FolderID  *string
	Type      DocType
	Content   string
	LastSaved string // last successfully persisted content
	Status    SaveStatus
	Preview   string // rendered HTML
}

// Dirty reports whether the editor content differs from the last saved snapshot.
func (o *OpenDocument) Dirty() bool {
	return o.Content != o.LastSaved
}
