package workspace

// RootFolderID identifies the synthetic group holding unclassified documents.
// It never exists remotely.
const RootFolderID = "root"

// Folder is a remote folder. Child documents are derived, not stored.
type Folder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"` // NULL = root level
	Expanded *bool   `json:"expanded,omitempty"`
}

// IsExpanded treats a missing flag as expanded.
func (f Folder) IsExpanded() bool {
	return f.Expanded == nil || *f.Expanded
}
