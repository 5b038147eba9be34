// Package memory holds in-process adapters used for local runs and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
)

// DocumentStore keeps documents in a map keyed by path.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]view.Document
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]view.Document)}
}

func (s *DocumentStore) Get(_ context.Context, ref view.Ref) (view.Document, bool, error) {
	if err := ref.Validate(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[ref.Path()]
	if !ok {
		return nil, false, nil
	}
	return doc.Clone(), true, nil
}

func (s *DocumentStore) Set(_ context.Context, ref view.Ref, doc view.Document, merge bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.docs[ref.Path()]; ok && merge {
		s.docs[ref.Path()] = current.Merge(doc)
		return nil
	}
	stored := doc.Clone()
	if stored == nil {
		stored = view.Document{}
	}
	s.docs[ref.Path()] = stored
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, ref view.Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, ref.Path())
	return nil
}

func (s *DocumentStore) Children(_ context.Context, ref view.Ref) ([]view.Ref, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	depth := len(ref.Segments())
	prefix := ref.Path() + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for path := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		segments := strings.Split(path, "/")
		if len(segments) < depth+2 {
			continue
		}
		seen[strings.Join(segments[:depth+2], "/")] = struct{}{}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	out := make([]view.Ref, 0, len(paths))
	for _, p := range paths {
		out = append(out, view.ParseRef(p))
	}
	return out, nil
}

func (s *DocumentStore) List(_ context.Context, collection view.CollectionRef) ([]ports.StoredDocument, error) {
	if err := collection.Validate(); err != nil {
		return nil, err
	}
	prefix := collection.Path() + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.StoredDocument, 0)
	for path, doc := range s.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		out = append(out, ports.StoredDocument{Ref: collection.Doc(rest), Data: doc.Clone()})
	}
	slices.SortFunc(out, func(a, b ports.StoredDocument) int {
		return strings.Compare(a.Ref.ID(), b.Ref.ID())
	})
	return out, nil
}

// Len returns the number of stored documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
