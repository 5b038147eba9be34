package orderrecord

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/core/ports"
)

// PartialWriteError reports a saga that stopped at View. Compensated is false
// when the cleanup of the views written before it failed as well.
type PartialWriteError struct {
	View        string
	Cause       error
	Compensated bool
}

func (e *PartialWriteError) Error() string {
	if !e.Compensated {
		return fmt.Sprintf("partial write: view %s failed and cleanup did not complete: %v", e.View, e.Cause)
	}
	return fmt.Sprintf("partial write: view %s failed: %v", e.View, e.Cause)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Cause
}

// ViewWrite is one step of UpsertViews. Detail is written to the view's
// orderData/info document when present.
type ViewWrite struct {
	Name   string
	Ref    view.Ref
	Base   view.Document
	Detail view.Document
}

type Writer struct {
	store  ports.DocumentStore
	logger *zap.Logger
}

func NewWriter(store ports.DocumentStore, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{store: store, logger: logger}
}

// UpsertView merges base into ref and detail into ref/orderData/info.
func (w *Writer) UpsertView(ctx context.Context, ref view.Ref, base view.Document, detail view.Document) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if err := w.store.Set(ctx, ref, base, true); err != nil {
		return fmt.Errorf("upsert %s: %w", ref, err)
	}
	if detail == nil {
		return nil
	}
	info := view.Info(ref)
	if err := w.store.Set(ctx, info, detail, true); err != nil {
		return fmt.Errorf("upsert %s: %w", info, err)
	}
	return nil
}

// UpsertViews writes the views in order. When one fails, the views this call
// created are deleted again, newest first, and a *PartialWriteError is
// returned. Views that existed before the call are left in place.
func (w *Writer) UpsertViews(ctx context.Context, writes []ViewWrite) error {
	created := make([]view.Ref, 0, len(writes))

	for _, write := range writes {
		_, existed, err := w.store.Get(ctx, write.Ref)
		if err == nil {
			// Tracked before the write: the base may land while its detail fails.
			if !existed {
				created = append(created, write.Ref)
			}
			err = w.UpsertView(ctx, write.Ref, write.Base, write.Detail)
		}
		if err != nil {
			w.logger.Warn("view write failed, compensating",
				zap.String("view", write.Name),
				zap.Stringer("ref", write.Ref),
				zap.Int("compensations", len(created)),
				zap.Error(err))

			return &PartialWriteError{
				View:        write.Name,
				Cause:       err,
				Compensated: w.compensate(ctx, created),
			}
		}
	}
	return nil
}

func (w *Writer) compensate(ctx context.Context, created []view.Ref) bool {
	ok := true
	for i := len(created) - 1; i >= 0; i-- {
		if err := w.deleteTree(ctx, created[i]); err != nil {
			w.logger.Error("compensation failed", zap.Stringer("ref", created[i]), zap.Error(err))
			ok = false
		}
	}
	return ok
}

// deleteTree deletes ref and everything below it, children before parents.
func (w *Writer) deleteTree(ctx context.Context, root view.Ref) error {
	type item struct {
		ref      view.Ref
		expanded bool
	}

	stack := []item{{ref: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.expanded {
			if err := w.store.Delete(ctx, top.ref); err != nil {
				return fmt.Errorf("delete %s: %w", top.ref, err)
			}
			continue
		}

		children, err := w.store.Children(ctx, top.ref)
		if err != nil {
			return fmt.Errorf("list children of %s: %w", top.ref, err)
		}
		stack = append(stack, item{ref: top.ref, expanded: true})
		for _, child := range children {
			stack = append(stack, item{ref: child})
		}
	}
	return nil
}
