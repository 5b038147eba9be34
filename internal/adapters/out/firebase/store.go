package firebase

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const serviceFirestore = "firestore"

// DocumentStore implements ports.DocumentStore on Cloud Firestore.
type DocumentStore struct {
	client *firestore.Client
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore(client *firestore.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

func (s *DocumentStore) Get(ctx context.Context, ref view.Ref) (view.Document, bool, error) {
	if err := ref.Validate(); err != nil {
		return nil, false, err
	}

	snap, err := s.client.Doc(ref.Path()).Get(ctx)
	if isNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.NewExternalServiceError(serviceFirestore, err)
	}
	return decode(snap.Data()), true, nil
}

func (s *DocumentStore) Set(ctx context.Context, ref view.Ref, doc view.Document, merge bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	data := encode(doc)
	var err error
	if merge {
		_, err = s.client.Doc(ref.Path()).Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = s.client.Doc(ref.Path()).Set(ctx, data)
	}
	if err != nil {
		return errs.NewExternalServiceError(serviceFirestore, err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, ref view.Ref) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if _, err := s.client.Doc(ref.Path()).Delete(ctx); err != nil && !isNotFound(err) {
		return errs.NewExternalServiceError(serviceFirestore, err)
	}
	return nil
}

// Children walks every subcollection of ref. DocumentRefs also yields
// documents that only exist as parents of deeper documents.
func (s *DocumentStore) Children(ctx context.Context, ref view.Ref) ([]view.Ref, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	var children []view.Ref
	collections := s.client.Doc(ref.Path()).Collections(ctx)
	for {
		coll, err := collections.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errs.NewExternalServiceError(serviceFirestore, err)
		}

		docs := coll.DocumentRefs(ctx)
		for {
			doc, err := docs.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return nil, errs.NewExternalServiceError(serviceFirestore, err)
			}
			children = append(children, ref.Child(coll.ID, doc.ID))
		}
	}
	return children, nil
}

func (s *DocumentStore) List(ctx context.Context, collection view.CollectionRef) ([]ports.StoredDocument, error) {
	if err := collection.Validate(); err != nil {
		return nil, err
	}

	snaps, err := s.client.Collection(collection.Path()).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewExternalServiceError(serviceFirestore, err)
	}

	out := make([]ports.StoredDocument, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, ports.StoredDocument{
			Ref:  collection.Doc(snap.Ref.ID),
			Data: decode(snap.Data()),
		})
	}
	return out, nil
}

func isNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}
