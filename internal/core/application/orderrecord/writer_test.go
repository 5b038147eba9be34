package orderrecord_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/pkg/errs"
)

func placementWrites(o *order.Order) []orderrecord.ViewWrite {
	id := o.ID().String()
	return []orderrecord.ViewWrite{
		{Name: "customer placed", Ref: view.CustomerPlaced("user-1", id),
			Base: orderrecord.BaseDocument(o), Detail: orderrecord.InfoDocument(o)},
		{Name: "partner pending", Ref: view.PartnerPending("dp-1", id),
			Base: orderrecord.BaseDocument(o), Detail: orderrecord.InfoDocument(o)},
	}
}

func TestWriter_UpsertViews(t *testing.T) {
	t.Run("writes base and info of every view", func(t *testing.T) {
		// Given
		ctx := t.Context()
		store := memory.NewDocumentStore()
		writer := orderrecord.NewWriter(store, nil)
		o := assignedOrder(t)

		// When
		err := writer.UpsertViews(ctx, placementWrites(o))

		// Then
		require.NoError(t, err)
		info, ok, err := store.Get(ctx, view.Info(view.PartnerPending("dp-1", o.ID().String())))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(2), info.Int64(orderrecord.FieldStatusNo))
		assert.Equal(t, "Delivery partner assigned", info.String(orderrecord.FieldStatusLabel))
		assert.Equal(t, "Fresh Mart", info.String(orderrecord.FieldShopName))
		assert.Equal(t, 4, store.Len())
	})

	t.Run("failure compensates the views written before it", func(t *testing.T) {
		// Given
		ctx := t.Context()
		store := &failingStore{DocumentStore: memory.NewDocumentStore(), failOn: "DeliveryPartners/"}
		writer := orderrecord.NewWriter(store, nil)
		o := assignedOrder(t)

		// When
		err := writer.UpsertViews(ctx, placementWrites(o))

		// Then
		var partial *orderrecord.PartialWriteError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, "partner pending", partial.View)
		assert.True(t, partial.Compensated)
		require.ErrorIs(t, err, errStoreDown)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("failed detail removes the base it was written under", func(t *testing.T) {
		// Given
		ctx := t.Context()
		o := assignedOrder(t)
		detail := view.Info(view.CustomerPlaced("user-1", o.ID().String()))
		store := &failingStore{DocumentStore: memory.NewDocumentStore(), failOn: detail.Path()}
		writer := orderrecord.NewWriter(store, nil)

		// When
		err := writer.UpsertViews(ctx, placementWrites(o))

		// Then
		var partial *orderrecord.PartialWriteError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, "customer placed", partial.View)
		assert.True(t, partial.Compensated)
		_, ok, err := store.Get(ctx, view.CustomerPlaced("user-1", o.ID().String()))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("views that existed before are kept", func(t *testing.T) {
		ctx := t.Context()
		store := &failingStore{DocumentStore: memory.NewDocumentStore(), failOn: "DeliveryPartners/"}
		writer := orderrecord.NewWriter(store, nil)
		o := assignedOrder(t)
		placed := view.CustomerPlaced("user-1", o.ID().String())
		require.NoError(t, store.Set(ctx, placed, view.Document{"order_id": o.ID().String()}, false))

		err := writer.UpsertViews(ctx, placementWrites(o))

		require.Error(t, err)
		_, ok, err := store.Get(ctx, placed)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestWriter_WriteStatus(t *testing.T) {
	ctx := t.Context()
	store := memory.NewDocumentStore()
	writer := orderrecord.NewWriter(store, nil)
	o := assignedOrder(t)

	// Given
	written, err := writer.WriteStatus(ctx, "user-1", o.ID(), orderrecord.StatusPayload(o))
	require.NoError(t, err)
	require.True(t, written)

	// When: a retried placement tries to go back to 1
	written, err = writer.WriteStatus(ctx, "user-1", o.ID(), orderrecord.PlacedStatusPayload(o.ID(), placedAt))

	// Then
	require.NoError(t, err)
	assert.False(t, written)
	status, ok, err := writer.ReadStatus(ctx, "user-1", o.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), status.Int64(orderrecord.FieldStatusNo))
	assert.True(t, status.Bool(orderrecord.FieldPartnerAssigned))
	assert.Equal(t, "dp-1", status.String(orderrecord.FieldPartnerID))
	history := status.Map(orderrecord.FieldStatusData)
	assert.Equal(t, "Order placed", history.Map("1").String("title"))
	assert.Equal(t, "Delivery partner assigned", history.Map("2").String("title"))
}

func TestWriter_PromoteToAccepted(t *testing.T) {
	t.Run("merges placed and pending into both current views", func(t *testing.T) {
		// Given
		ctx := t.Context()
		store := memory.NewDocumentStore()
		writer := orderrecord.NewWriter(store, nil)
		o := assignedOrder(t)
		require.NoError(t, writer.UpsertViews(ctx, placementWrites(o)))

		// When
		err := writer.PromoteToAccepted(ctx, o.ID(), "user-1", "dp-1")

		// Then
		require.NoError(t, err)
		for _, ref := range []view.Ref{
			view.CustomerCurrent("user-1", o.ID().String()),
			view.PartnerCurrent("dp-1", o.ID().String()),
		} {
			info, ok, err := store.Get(ctx, view.Info(ref))
			require.NoError(t, err)
			require.True(t, ok, ref.Path())
			assert.Equal(t, "dp-1", info.String(orderrecord.FieldPartnerID))
		}
	})

	t.Run("missing source", func(t *testing.T) {
		writer := orderrecord.NewWriter(memory.NewDocumentStore(), nil)

		err := writer.PromoteToAccepted(t.Context(), "ORDOBS1", "user-1", "dp-1")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestWriter_PurgeAllViewsForOrder(t *testing.T) {
	// Given
	ctx := t.Context()
	store := memory.NewDocumentStore()
	writer := orderrecord.NewWriter(store, nil)
	o := assignedOrder(t)
	id := o.ID()
	require.NoError(t, writer.UpsertViews(ctx, placementWrites(o)))
	require.NoError(t, writer.PromoteToAccepted(ctx, id, "user-1", "dp-1"))
	_, err := writer.WriteStatus(ctx, "user-1", id, orderrecord.StatusPayload(o))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, view.PartnerManualCart("dp-1", id.String()).Doc("item-1"),
		view.Document{"qty": 1}, false))
	voice := order.VoiceRef{DocID: "voice-1", AudioRefID: "audio-1"}
	require.NoError(t, store.Set(ctx, view.CustomerVoiceCart("user-1", voice.DocID, voice.AudioRefID),
		view.Document{"url": "gs://voice"}, false))

	// When
	require.NoError(t, writer.PurgeAllViewsForOrder(ctx, id, "dp-1", "user-1", voice))

	// Then
	finished, ok, err := store.Get(ctx, view.PartnerFinished("dp-1", id.String()))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id.String(), finished.String(orderrecord.FieldOrderID))
	assert.Equal(t, 1, store.Len(), "only the archive is left")

	// And a second purge is a no-op
	require.NoError(t, writer.PurgeAllViewsForOrder(ctx, id, "dp-1", "user-1", voice))
	assert.Equal(t, 1, store.Len())
}

func TestWriter_CopyManualCart(t *testing.T) {
	ctx := t.Context()
	store := memory.NewDocumentStore()
	writer := orderrecord.NewWriter(store, nil)
	cart := view.CustomerManualCart("user-1", "shop-1")
	require.NoError(t, store.Set(ctx, cart.Doc("rice"), view.Document{"qty": 2}, false))
	require.NoError(t, store.Set(ctx, cart.Doc("milk"), view.Document{"qty": 1}, false))

	require.NoError(t, writer.CopyManualCart(ctx, "user-1", "shop-1", "dp-1", "ORDOBS1"))

	copied, err := store.List(ctx, view.PartnerManualCart("dp-1", "ORDOBS1"))
	require.NoError(t, err)
	require.Len(t, copied, 2)
	assert.Equal(t, int64(1), copied[0].Data.Int64("qty"))
}

func TestWriter_MergeStage(t *testing.T) {
	ctx := t.Context()
	store := memory.NewDocumentStore()
	writer := orderrecord.NewWriter(store, nil)
	o := assignedOrder(t)
	require.NoError(t, writer.UpsertViews(ctx, placementWrites(o)))
	require.NoError(t, o.Accept("dp-1"))

	require.NoError(t, writer.MergeStage(ctx, o))

	got, err := writer.ReadPartnerOrder(ctx, "dp-1", o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Accepted, got.Status())
	_, ok, err := store.Get(ctx, view.Info(view.CustomerCurrent("user-1", o.ID().String())))
	require.NoError(t, err)
	assert.False(t, ok, "missing views are not created")
}
