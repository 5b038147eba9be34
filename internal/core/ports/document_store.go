package ports

import (
	"context"

	"dispatch/internal/core/domain/model/view"
)

// StoredDocument is a document together with its reference.
type StoredDocument struct {
	Ref  view.Ref
	Data view.Document
}

// DocumentStore is the hierarchical document database holding every order
// view. Deleting a document never deletes its subcollections.
type DocumentStore interface {
	// Get reports false when the document does not exist.
	Get(ctx context.Context, ref view.Ref) (view.Document, bool, error)

	// Set writes doc at ref. With merge, nested maps are merged field by field
	// into the stored document instead of replacing it.
	Set(ctx context.Context, ref view.Ref, doc view.Document, merge bool) error

	// Delete removes the document. Deleting an absent document is not an error.
	Delete(ctx context.Context, ref view.Ref) error

	// Children returns the documents directly below ref across all of its
	// subcollections, including documents that only exist as parents of
	// deeper documents.
	Children(ctx context.Context, ref view.Ref) ([]view.Ref, error)

	// List returns the documents of a collection.
	List(ctx context.Context, collection view.CollectionRef) ([]StoredDocument, error)
}
