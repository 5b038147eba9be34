package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func TestNewOrder(t *testing.T) {
	t.Run("starts as draft without shop or partner", func(t *testing.T) {
		// When
		o := newTestOrder(t)

		// Then
		require.NoError(t, o.Validate())
		assert.Equal(t, order.UnassignedDraft, o.Status())
		assert.Equal(t, order.SavedStatusNone, o.SavedStatus())
		assert.Nil(t, o.Shop())
		assert.Nil(t, o.Partner())
		assert.False(t, o.IsPartnerAssigned())
		assert.Equal(t, placedAt, o.PlacedAt())
	})

	t.Run("rejects zero value parties", func(t *testing.T) {
		// When
		o, err := order.NewOrder("ORD1", order.TypeShopBrowse, order.Customer{}, order.Destination{},
			order.VoiceRef{}, placedAt)

		// Then
		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, order.ErrCustomerIsNotConstructed)
		require.ErrorIs(t, err, order.ErrDestinationIsNotConstructed)
	})

	t.Run("nil order is not constructed", func(t *testing.T) {
		var o *order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_AssignedLifecycle(t *testing.T) {
	// Given
	o := newAssignedOrder(t)
	require.Equal(t, order.PartnerDecision, o.Status())
	require.True(t, o.IsPartnerAssigned())

	// When
	require.NoError(t, o.Accept("dp-1"))
	require.NoError(t, o.PickUp())
	require.NoError(t, o.EnRoute())
	require.NoError(t, o.Deliver())

	// Then
	assert.Equal(t, order.Delivered, o.Status())
	assert.Equal(t, "Order Delivered", o.Stage().Label)
	assert.Len(t, o.History(), 6)
	assert.InDelta(t, 1.2, o.PickupDistanceKm(), 1e-12)
	assert.InDelta(t, 3.4, o.DeliveryDistanceKm(), 1e-12)
}

func TestOrder_RepeatedTransitionIsReported(t *testing.T) {
	// Given
	o := newAssignedOrder(t)
	require.NoError(t, o.Accept("dp-1"))
	require.NoError(t, o.PickUp())

	// When
	errAccept := o.Accept("dp-1")
	errPickUp := o.PickUp()

	// Then
	require.ErrorIs(t, errAccept, order.ErrTransitionAlreadyApplied)
	require.ErrorIs(t, errPickUp, order.ErrTransitionAlreadyApplied)
	assert.Equal(t, order.PickedUp, o.Status())
}

func TestOrder_SkippingAMilestoneIsInvalid(t *testing.T) {
	// Given
	o := newAssignedOrder(t)

	// When
	err := o.PickUp()

	// Then
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, order.PartnerDecision, o.Status())
}

func TestOrder_AcceptByAnotherPartnerIsInvalid(t *testing.T) {
	o := newAssignedOrder(t)

	err := o.Accept("dp-2")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, order.PartnerDecision, o.Status())
}

func TestOrder_WaitingBranch(t *testing.T) {
	t.Run("waiting order can still be assigned", func(t *testing.T) {
		// Given
		o := newTestOrder(t)
		require.NoError(t, o.SetShop(newTestShop(t)))
		require.NoError(t, o.Place())
		require.NoError(t, o.AwaitPartner())
		require.Equal(t, "Delivery partner not assigned", o.Stage().Label)

		// When
		err := o.AssignPartner(order.PartnerRef{ID: "dp-9", Name: "Ravi"}, 0.5, 2)

		// Then
		require.NoError(t, err)
		assert.Equal(t, order.PartnerDecision, o.Status())
		assert.Equal(t, "dp-9", o.Partner().ID)
		assert.Equal(t, "Delivery partner assigned", o.Stage().Label)
	})

	t.Run("waiting order cannot be accepted", func(t *testing.T) {
		// Given
		o := newTestOrder(t)
		require.NoError(t, o.Place())
		require.NoError(t, o.AwaitPartner())

		// When
		err := o.Accept("dp-1")

		// Then
		require.ErrorIs(t, err, order.ErrPartnerIsRequired)
	})

	t.Run("waiting twice is reported", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Place())
		require.NoError(t, o.AwaitPartner())

		require.ErrorIs(t, o.AwaitPartner(), order.ErrTransitionAlreadyApplied)
	})

	t.Run("assigned order cannot go back to waiting", func(t *testing.T) {
		o := newAssignedOrder(t)

		require.ErrorIs(t, o.AwaitPartner(), errs.ErrValueIsInvalid)
	})
}

func TestOrder_AssignPartner(t *testing.T) {
	t.Run("requires a shop", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Place())

		err := o.AssignPartner(order.PartnerRef{ID: "dp-1"}, 1, 1)

		require.ErrorIs(t, err, order.ErrShopIsRequired)
	})

	t.Run("requires a placed order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetShop(newTestShop(t)))

		err := o.AssignPartner(order.PartnerRef{ID: "dp-1"}, 1, 1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("same partner again is reported", func(t *testing.T) {
		o := newAssignedOrder(t)

		err := o.AssignPartner(order.PartnerRef{ID: "dp-1", Name: "Anu"}, 1, 1)

		require.ErrorIs(t, err, order.ErrTransitionAlreadyApplied)
	})

	t.Run("another partner is rejected", func(t *testing.T) {
		o := newAssignedOrder(t)

		err := o.AssignPartner(order.PartnerRef{ID: "dp-2"}, 1, 1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, "dp-1", o.Partner().ID)
	})
}

func TestOrder_SaveAndDecline(t *testing.T) {
	t.Run("flag without moving status", func(t *testing.T) {
		// Given
		o := newAssignedOrder(t)

		// When
		require.NoError(t, o.SaveForNext("dp-1"))

		// Then
		assert.Equal(t, order.SavedStatusSaved, o.SavedStatus())
		assert.Equal(t, order.PartnerDecision, o.Status())
		require.ErrorIs(t, o.SaveForNext("dp-1"), order.ErrTransitionAlreadyApplied)
	})

	t.Run("decline after acceptance", func(t *testing.T) {
		o := newAssignedOrder(t)
		require.NoError(t, o.Accept("dp-1"))

		require.NoError(t, o.Decline("dp-1"))

		assert.Equal(t, order.SavedStatusDeclined, o.SavedStatus())
		assert.Equal(t, order.Accepted, o.Status())
	})

	t.Run("not allowed after pickup", func(t *testing.T) {
		o := newAssignedOrder(t)
		require.NoError(t, o.Accept("dp-1"))
		require.NoError(t, o.PickUp())

		require.ErrorIs(t, o.SaveForNext("dp-1"), errs.ErrValueIsInvalid)
	})
}

func TestOrder_SetShopAfterAcceptanceIsInvalid(t *testing.T) {
	o := newAssignedOrder(t)
	require.NoError(t, o.Accept("dp-1"))

	err := o.SetShop(newTestShop(t))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRestoreOrder(t *testing.T) {
	t.Run("round trips through a snapshot", func(t *testing.T) {
		// Given
		o := newAssignedOrder(t)
		require.NoError(t, o.Accept("dp-1"))

		// When
		restored, err := order.RestoreOrder(o.Snapshot())

		// Then
		require.NoError(t, err)
		assert.Equal(t, o.ID(), restored.ID())
		assert.Equal(t, order.Accepted, restored.Status())
		assert.Equal(t, "dp-1", restored.Partner().ID)
		assert.Equal(t, "Fresh Mart", restored.Shop().Name())
		assert.Equal(t, "voice-doc", restored.Voice().DocID)
	})

	t.Run("accepted without partner is inconsistent", func(t *testing.T) {
		// Given
		snap := newTestOrder(t).Snapshot()
		snap.Status = order.Accepted

		// When
		_, err := order.RestoreOrder(snap)

		// Then
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("placed with partner is inconsistent", func(t *testing.T) {
		snap := newTestOrder(t).Snapshot()
		snap.Status = order.Placed
		snap.Partner = &order.PartnerRef{ID: "dp-1"}

		_, err := order.RestoreOrder(snap)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("empty saved status defaults to none", func(t *testing.T) {
		snap := newTestOrder(t).Snapshot()
		snap.SavedStatus = ""

		restored, err := order.RestoreOrder(snap)

		require.NoError(t, err)
		assert.Equal(t, order.SavedStatusNone, restored.SavedStatus())
	})
}

func TestNewShopAndDestination(t *testing.T) {
	_, err := order.NewShop("", "x", kernel.Location{}, order.ShopAddress{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)

	d, err := order.NewDestination(kernel.MustNewLocation(1, 1), "addr", order.DestinationKind("gps"))
	require.NoError(t, err)
	assert.Equal(t, order.DestinationActual, d.Kind())

	_, err = order.NewCustomer(" ", "", "", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
