// Package memory is the in-process storage behind the reference document
// server. Documents are keyed by storage path; folder membership is
// metadata on the document record.
package memory

import (
	"sync"
)

type docRecord struct {
	content  string
	folderID *string
}

// Store holds documents and folders for both repositories so that
// cross-cutting operations (folder delete) stay atomic.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]*docRecord
	folders []folderRecord
}

type folderRecord struct {
	id       string
	name     string
	parentID *string
	expanded bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*docRecord)}
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func (s *Store) folderIndex(id string) int {
	for i, f := range s.folders {
		if f.id == id {
			return i
		}
	}
	return -1
}
