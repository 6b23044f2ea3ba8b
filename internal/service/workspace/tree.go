package workspace

import (
	models "docdesk/internal/domain/models/workspace"
)

// RootFolderName is the display name of the synthetic unclassified group.
const RootFolderName = "Unclassified"

// DocumentID derives the display identifier "<folder-id-or-root>/<name>".
// It changes whenever the document is moved or renamed.
func DocumentID(doc models.Document) string {
	if doc.FolderID == nil {
		return models.RootFolderID + "/" + doc.Name
	}
	return *doc.FolderID + "/" + doc.Name
}

// BuildTree projects the flat collections into the display tree. It is
// pure: inputs are never modified and equal inputs give equal trees.
//
// The synthetic root group comes first. Documents whose folder is unknown
// and folders whose parent is unknown (or that sit in a parent cycle) are
// placed at root level so nothing is dropped from the display.
func BuildTree(documents []models.Document, folders []models.Folder, rootExpanded bool) *models.Tree {
	known := make(map[string]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}

	// Documents per folder, in collection order
	rootDocs := make([]models.DocumentNode, 0)
	docsByFolder := make(map[string][]models.DocumentNode)
	for _, doc := range documents {
		if doc.FolderID != nil && known[*doc.FolderID] {
			docsByFolder[*doc.FolderID] = append(docsByFolder[*doc.FolderID], documentNode(doc))
			continue
		}
		node := documentNode(doc)
		node.ID = models.RootFolderID + "/" + doc.Name
		rootDocs = append(rootDocs, node)
	}

	// Child folder indexes per parent, in collection order
	var topLevel []int
	children := make(map[string][]int)
	for i, f := range folders {
		if f.ParentID == nil || !known[*f.ParentID] || *f.ParentID == f.ID {
			topLevel = append(topLevel, i)
			continue
		}
		children[*f.ParentID] = append(children[*f.ParentID], i)
	}

	visited := make(map[string]bool, len(folders))
	var build func(i, level int) *models.FolderNode
	build = func(i, level int) *models.FolderNode {
		f := folders[i]
		visited[f.ID] = true

		docs := docsByFolder[f.ID]
		if docs == nil {
			docs = []models.DocumentNode{}
		}
		node := &models.FolderNode{
			ID:        f.ID,
			Name:      f.Name,
			ParentID:  f.ParentID,
			Level:     level,
			Expanded:  f.IsExpanded(),
			Documents: docs,
			Folders:   []*models.FolderNode{},
		}
		for _, c := range children[f.ID] {
			if !visited[folders[c].ID] {
				node.Folders = append(node.Folders, build(c, level+1))
			}
		}
		return node
	}

	tree := &models.Tree{
		Folders: []*models.FolderNode{{
			ID:        models.RootFolderID,
			Name:      RootFolderName,
			Level:     0,
			Expanded:  rootExpanded,
			Synthetic: true,
			Documents: rootDocs,
			Folders:   []*models.FolderNode{},
		}},
	}
	for _, i := range topLevel {
		if !visited[folders[i].ID] {
			tree.Folders = append(tree.Folders, build(i, 0))
		}
	}
	// Whatever is left only hangs off a parent cycle
	for i, f := range folders {
		if !visited[f.ID] {
			tree.Folders = append(tree.Folders, build(i, 0))
		}
	}

	return tree
}

func documentNode(doc models.Document) models.DocumentNode {
	return models.DocumentNode{
		ID:       DocumentID(doc),
		Name:     doc.Name,
		Path:     doc.Path,
		FolderID: doc.FolderID,
	}
}
