package orderrecord

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/pkg/errs"
)

// PromoteToAccepted copies the placed and pending views of an order, merged,
// into the customer's and the partner's current views.
func (w *Writer) PromoteToAccepted(ctx context.Context, orderID order.ID, userID string, partnerID string) error {
	placed := view.CustomerPlaced(userID, orderID.String())
	pending := view.PartnerPending(partnerID, orderID.String())

	placedBase, placedInfo, err := w.readView(ctx, placed)
	if err != nil {
		return err
	}
	pendingBase, pendingInfo, err := w.readView(ctx, pending)
	if err != nil {
		return err
	}

	base := placedBase.Merge(pendingBase)
	info := placedInfo.Merge(pendingInfo)

	return w.UpsertViews(ctx, []ViewWrite{
		{Name: "customer current", Ref: view.CustomerCurrent(userID, orderID.String()), Base: base, Detail: info},
		{Name: "partner current", Ref: view.PartnerCurrent(partnerID, orderID.String()), Base: base, Detail: info},
	})
}

func (w *Writer) readView(ctx context.Context, ref view.Ref) (view.Document, view.Document, error) {
	base, ok, err := w.store.Get(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errs.NewObjectNotFoundError("view", ref.Path())
	}
	info, _, err := w.store.Get(ctx, view.Info(ref))
	if err != nil {
		return nil, nil, err
	}
	return base, info, nil
}

// PurgeAllViewsForOrder archives the partner's copy of the order into
// finishedOrders and deletes every view of the order. Views that are already
// gone are skipped, so repeating the purge does nothing.
func (w *Writer) PurgeAllViewsForOrder(
	ctx context.Context,
	orderID order.ID,
	partnerID string,
	userID string,
	voice order.VoiceRef,
) error {
	id := orderID.String()
	roots := make([]view.Ref, 0, 5)

	if partnerID != "" {
		if err := w.archive(ctx, partnerID, id); err != nil {
			return err
		}
		roots = append(roots, view.PartnerPending(partnerID, id), view.PartnerCurrent(partnerID, id))
	}
	roots = append(roots, view.CustomerCurrent(userID, id), view.CustomerPlaced(userID, id))
	if voice.DocID != "" && voice.AudioRefID != "" {
		roots = append(roots, view.CustomerVoiceCart(userID, voice.DocID, voice.AudioRefID))
	}

	for _, root := range roots {
		if err := w.deleteTree(ctx, root); err != nil {
			return err
		}
	}

	w.logger.Info("order views purged", zap.String("order_id", id), zap.Int("roots", len(roots)))
	return nil
}

func (w *Writer) archive(ctx context.Context, partnerID string, orderID string) error {
	info, ok, err := w.store.Get(ctx, view.Info(view.PartnerPending(partnerID, orderID)))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	finished := view.PartnerFinished(partnerID, orderID)
	if err := w.store.Set(ctx, finished, info, false); err != nil {
		return fmt.Errorf("archive %s: %w", finished, err)
	}
	return nil
}

// WriteStatus merges payload into the realtime status view. A payload with a
// lower order_status_no than the stored one is skipped and false is returned.
func (w *Writer) WriteStatus(ctx context.Context, userID string, orderID order.ID, payload view.Document) (bool, error) {
	ref := view.RealtimeStatus(userID, orderID.String())

	current, ok, err := w.store.Get(ctx, ref)
	if err != nil {
		return false, err
	}
	if ok && current.Int64(FieldStatusNo) > payload.Int64(FieldStatusNo) {
		w.logger.Debug("status write skipped",
			zap.String("order_id", orderID.String()),
			zap.Int64("stored", current.Int64(FieldStatusNo)),
			zap.Int64("requested", payload.Int64(FieldStatusNo)))
		return false, nil
	}

	if err := w.store.Set(ctx, ref, payload, true); err != nil {
		return false, fmt.Errorf("write status of %s: %w", orderID, err)
	}
	return true, nil
}

// ReadStatus returns the realtime status view, false when it does not exist.
func (w *Writer) ReadStatus(ctx context.Context, userID string, orderID order.ID) (view.Document, bool, error) {
	return w.store.Get(ctx, view.RealtimeStatus(userID, orderID.String()))
}

// ReadCustomerOrder returns the order as held in the customer's placed view,
// false when the view does not exist.
func (w *Writer) ReadCustomerOrder(ctx context.Context, userID string, orderID order.ID) (*order.Order, bool, error) {
	info, ok, err := w.store.Get(ctx, view.Info(view.CustomerPlaced(userID, orderID.String())))
	if err != nil || !ok {
		return nil, false, err
	}
	o, err := OrderFromInfo(info)
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

// HasFinished reports whether the partner's finished copy of the order exists.
func (w *Writer) HasFinished(ctx context.Context, partnerID string, orderID order.ID) (bool, error) {
	_, ok, err := w.store.Get(ctx, view.PartnerFinished(partnerID, orderID.String()))
	return ok, err
}

// ReadPartnerOrder returns the order as held in the partner's pending view.
func (w *Writer) ReadPartnerOrder(ctx context.Context, partnerID string, orderID order.ID) (*order.Order, error) {
	info, ok, err := w.store.Get(ctx, view.Info(view.PartnerPending(partnerID, orderID.String())))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
	}
	return OrderFromInfo(info)
}

// MergeStage writes the milestone fields of o into every info view that
// exists for it.
func (w *Writer) MergeStage(ctx context.Context, o *order.Order) error {
	p := o.Partner()
	if p == nil {
		return order.ErrPartnerIsRequired
	}
	id := o.ID().String()
	userID := o.Customer().ID()
	fields := StageFields(o)

	for _, base := range []view.Ref{
		view.CustomerPlaced(userID, id),
		view.PartnerPending(p.ID, id),
		view.CustomerCurrent(userID, id),
		view.PartnerCurrent(p.ID, id),
	} {
		info := view.Info(base)
		_, ok, err := w.store.Get(ctx, info)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := w.store.Set(ctx, info, fields, true); err != nil {
			return fmt.Errorf("merge stage into %s: %w", info, err)
		}
	}
	return nil
}

// CopyManualCart copies the customer's cart for shopID below the partner's
// pending view of the order.
func (w *Writer) CopyManualCart(ctx context.Context, userID string, shopID string, partnerID string, orderID order.ID) error {
	items, err := w.store.List(ctx, view.CustomerManualCart(userID, shopID))
	if err != nil {
		return err
	}
	target := view.PartnerManualCart(partnerID, orderID.String())
	for _, item := range items {
		if err := w.store.Set(ctx, target.Doc(item.Ref.ID()), item.Data, false); err != nil {
			return fmt.Errorf("copy cart item %s: %w", item.Ref.ID(), err)
		}
	}
	return nil
}

// DiscardPlacement deletes the placed and pending views of an order whose
// assignment could not be completed. Nothing is archived.
func (w *Writer) DiscardPlacement(ctx context.Context, orderID order.ID, partnerID string, userID string) error {
	id := orderID.String()
	for _, root := range []view.Ref{view.PartnerPending(partnerID, id), view.CustomerPlaced(userID, id)} {
		if err := w.deleteTree(ctx, root); err != nil {
			return err
		}
	}
	return nil
}
