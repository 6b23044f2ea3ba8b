package workspace

// Tree is the display projection of the document and folder collections.
// Folders[0] is always the synthetic root group.
type Tree struct {
	Folders []*FolderNode `json:"folders"`
}

// FolderNode is a folder in the display tree with its direct children.
type FolderNode struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	ParentID  *string        `json:"parent_id"`
	Level     int            `json:"level"`
	Expanded  bool           `json:"expanded"`
	Synthetic bool           `json:"synthetic,omitempty"`
	Documents []DocumentNode `json:"documents"`
	Folders   []*FolderNode  `json:"folders"`
}

// DocumentNode is a document in the display tree.
// ID is the derived "<folder-id-or-root>/<name>" identifier; it changes on
// move and rename and must not be used as a key. Path is the storage key.
type DocumentNode struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	FolderID *string `json:"folder_id"`
}

// Root returns the synthetic root group.
func (t *Tree) Root() *FolderNode {
	if t == nil || len(t.Folders) == 0 {
		return nil
	}
	return t.Folders[0]
}

// Find returns the folder node with id anywhere in the tree.
func (t *Tree) Find(id string) *FolderNode {
	var walk func(nodes []*FolderNode) *FolderNode
	walk = func(nodes []*FolderNode) *FolderNode {
		for _, n := range nodes {
			if n.ID == id {
				return n
			}
			if found := walk(n.Folders); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(t.Folders)
}

// DocumentCount counts documents held directly by the node.
func (n *FolderNode) DocumentCount() int {
	return len(n.Documents)
}
