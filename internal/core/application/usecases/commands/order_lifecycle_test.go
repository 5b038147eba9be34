package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/pkg/errs"
)

type lifecycleFixture struct {
	store   *memory.DocumentStore
	outbox  *memory.Outbox
	factory *MockUoWFactory
	deps    commands.LifecycleDeps
}

// newLifecycleFixture stores obsOrderID as placed by user-1 and assigned to
// dp-1, the way placement leaves it.
func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	ctx := t.Context()

	f := &lifecycleFixture{
		store:   memory.NewDocumentStore(),
		outbox:  memory.NewOutbox(nil),
		factory: new(MockUoWFactory),
	}
	writer := orderrecord.NewWriter(f.store, nil)
	f.deps = commands.LifecycleDeps{
		UoWFactory: f.factory,
		Writer:     writer,
		Locker:     memory.NewLocker(),
		Pusher:     commands.NewPusher(f.outbox, memory.NewTokenRegistry(), nil, nil),
		Clock:      fixedClock{at: now},
	}

	customer, err := order.NewCustomer("user-1", "Meera", "meera@example.com", "9876543210")
	require.NoError(t, err)
	dest, err := order.NewDestination(kernel.MustNewLocation(8.52, 76.93), "TC 12/40, Pattom", order.DestinationActual)
	require.NoError(t, err)
	o, err := order.NewOrder(obsOrderID, order.TypeShopBrowse, customer, dest, order.VoiceRef{}, now)
	require.NoError(t, err)
	require.NoError(t, o.SetShop(freshMart(t)))
	require.NoError(t, o.Place())
	require.NoError(t, o.AssignPartner(order.PartnerRef{ID: "dp-1", Name: "Anu"}, 1.1, 3.1))

	base, info := orderrecord.BaseDocument(o), orderrecord.InfoDocument(o)
	require.NoError(t, writer.UpsertViews(ctx, []orderrecord.ViewWrite{
		{Name: "customer placed", Ref: view.CustomerPlaced("user-1", obsOrderID.String()), Base: base, Detail: info},
		{Name: "partner pending", Ref: view.PartnerPending("dp-1", obsOrderID.String()), Base: base, Detail: info},
	}))
	_, err = writer.WriteStatus(ctx, "user-1", obsOrderID, orderrecord.StatusPayload(o))
	require.NoError(t, err)
	return f
}

func action(t *testing.T, partnerID string, userID string) commands.OrderActionCommand {
	t.Helper()
	cmd, err := commands.NewOrderActionCommand(partnerID, userID, obsOrderID.String())
	require.NoError(t, err)
	return cmd
}

func (f *lifecycleFixture) status(t *testing.T) int64 {
	t.Helper()
	doc, ok, err := f.store.Get(t.Context(), view.RealtimeStatus("user-1", obsOrderID.String()))
	require.NoError(t, err)
	require.True(t, ok)
	return doc.Int64(orderrecord.FieldStatusNo)
}

func TestOrderLifecycle_FullRun(t *testing.T) {
	ctx := t.Context()
	f := newLifecycleFixture(t)
	cmd := action(t, "dp-1", "user-1")

	// When accepted
	result, err := commands.NewAcceptOrderCommandHandler(f.deps).Handle(ctx, cmd)

	// Then the current views exist and the customer hears about it
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, order.Accepted, result.Status)
	assert.Equal(t, int64(order.Accepted.Int()), f.status(t))
	for _, ref := range []view.Ref{
		view.Info(view.CustomerCurrent("user-1", obsOrderID.String())),
		view.Info(view.PartnerCurrent("dp-1", obsOrderID.String())),
	} {
		info, ok, err := f.store.Get(ctx, ref)
		require.NoError(t, err)
		require.True(t, ok, ref.Path())
		assert.Equal(t, int64(order.Accepted.Int()), info.Int64(orderrecord.FieldStatusNo))
	}
	sent := f.outbox.SentTo("user-1")
	require.Len(t, sent, 1)
	assert.Equal(t, "Order accepted", sent[0].Notification.Title)
	assert.Equal(t, "Anu is your delivery partner, has accepted your order from Fresh Mart", sent[0].Notification.Body)

	// When picked up and en route
	result, err = commands.NewMarkPickedUpCommandHandler(f.deps).Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	result, err = commands.NewMarkEnRouteCommandHandler(f.deps).Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, int64(order.EnRoute.Int()), f.status(t))

	// When delivered
	uow := new(MockUoW)
	chatRepo := new(MockChatRegistrationRepository)
	orderMapRepo := new(MockOrderMapRepository)
	f.factory.On("Create").Return(uow).Once()
	mock.InOrder(
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("ChatRegistrationRepository").Return(chatRepo).Once(),
		chatRepo.On("Delete", mock.Anything, obsOrderID).Return(nil).Once(),
		uow.On("OrderMapRepository").Return(orderMapRepo).Once(),
		orderMapRepo.On("Delete", mock.Anything, obsOrderID).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)
	result, err = commands.NewMarkDeliveredCommandHandler(f.deps).Handle(ctx, cmd)

	// Then only the partner's archive is left
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, order.Delivered, result.Status)
	assert.Equal(t, 1, f.store.Len())
	_, ok, err := f.store.Get(ctx, view.PartnerFinished("dp-1", obsOrderID.String()))
	require.NoError(t, err)
	assert.True(t, ok)

	sent = f.outbox.SentTo("user-1")
	require.Len(t, sent, 4)
	assert.Equal(t, "Order Pickup", sent[1].Notification.Title)
	assert.Equal(t, "Order en-routed", sent[2].Notification.Title)
	assert.Equal(t, "Order delivered successfully", sent[3].Notification.Title)
	assert.Equal(t, "Fresh Mart | "+kernel.DisplayTime(now)+"\nID: "+obsOrderID.DisplayID(), sent[3].Notification.Body)

	// When delivered again
	result, err = commands.NewMarkDeliveredCommandHandler(f.deps).Handle(ctx, cmd)

	// Then nothing happens
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Len(t, f.outbox.SentTo("user-1"), 4)

	uow.AssertExpectations(t)
	chatRepo.AssertExpectations(t)
	orderMapRepo.AssertExpectations(t)
	f.factory.AssertExpectations(t)
}

func TestOrderLifecycle_RepeatedAcceptIsNoop(t *testing.T) {
	ctx := t.Context()
	f := newLifecycleFixture(t)
	handler := commands.NewAcceptOrderCommandHandler(f.deps)
	cmd := action(t, "dp-1", "user-1")

	// Given
	_, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	// When
	result, err := handler.Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, order.Accepted, result.Status)
	assert.Len(t, f.outbox.SentTo("user-1"), 1)
}

func TestOrderLifecycle_SkippedMilestoneIsRejected(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := commands.NewMarkEnRouteCommandHandler(f.deps).Handle(t.Context(), action(t, "dp-1", "user-1"))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, int64(order.PartnerDecision.Int()), f.status(t))
	assert.Empty(t, f.outbox.Sent())
}

func TestOrderLifecycle_OtherCustomerOrPartner(t *testing.T) {
	ctx := t.Context()
	f := newLifecycleFixture(t)
	handler := commands.NewAcceptOrderCommandHandler(f.deps)

	t.Run("customer does not match", func(t *testing.T) {
		_, err := handler.Handle(ctx, action(t, "dp-1", "user-2"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("partner has no such order", func(t *testing.T) {
		_, err := handler.Handle(ctx, action(t, "dp-2", "user-1"))
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	assert.Equal(t, int64(order.PartnerDecision.Int()), f.status(t))
}

func TestOrderLifecycle_DeliverByOtherPartner(t *testing.T) {
	f := newLifecycleFixture(t)

	// When a partner without the order marks it delivered
	_, err := commands.NewMarkDeliveredCommandHandler(f.deps).Handle(t.Context(), action(t, "dp-intruder", "user-1"))

	// Then
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, int64(order.PartnerDecision.Int()), f.status(t))
	f.factory.AssertNotCalled(t, "Create")
}

func TestOrderLifecycle_ConcurrentPickup(t *testing.T) {
	ctx := t.Context()
	f := newLifecycleFixture(t)
	cmd := action(t, "dp-1", "user-1")
	_, err := commands.NewAcceptOrderCommandHandler(f.deps).Handle(ctx, cmd)
	require.NoError(t, err)
	handler := commands.NewMarkPickedUpCommandHandler(f.deps)

	// When two pickups race
	var wg sync.WaitGroup
	applied := make([]bool, 2)
	failures := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := handler.Handle(ctx, cmd)
			applied[i], failures[i] = result.Applied, err
		}()
	}
	wg.Wait()

	// Then exactly one of them moved the order
	require.NoError(t, failures[0])
	require.NoError(t, failures[1])
	assert.ElementsMatch(t, []bool{false, true}, applied)
	assert.Equal(t, int64(order.PickedUp.Int()), f.status(t))
	assert.Len(t, f.outbox.SentTo("user-1"), 2)
}

func TestOrderLifecycle_StalledWritesTimeOut(t *testing.T) {
	f := newLifecycleFixture(t)

	// Given a store that never answers partner writes
	deps := f.deps
	deps.Writer = orderrecord.NewWriter(&stallingStore{DocumentStore: f.store, stallOn: "DeliveryPartners/"}, nil)
	deps.Timeout = 20 * time.Millisecond

	// When
	_, err := commands.NewAcceptOrderCommandHandler(deps).Handle(t.Context(), action(t, "dp-1", "user-1"))

	// Then
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(order.PartnerDecision.Int()), f.status(t))
	assert.Empty(t, f.outbox.Sent())
}

func TestOrderLifecycle_SaveAndDecline(t *testing.T) {
	ctx := t.Context()
	f := newLifecycleFixture(t)
	cmd := action(t, "dp-1", "user-1")

	// When saved
	result, err := commands.NewSaveOrderForNextCommandHandler(f.deps).Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	assert.True(t, result.Applied)
	info, _, err := f.store.Get(ctx, view.Info(view.PartnerPending("dp-1", obsOrderID.String())))
	require.NoError(t, err)
	assert.Equal(t, string(order.SavedStatusSaved), info.String(orderrecord.FieldSavedStatus))

	// When declined
	result, err = commands.NewDeclineOrderCommandHandler(f.deps).Handle(ctx, cmd)

	// Then
	require.NoError(t, err)
	assert.True(t, result.Applied)
	info, _, err = f.store.Get(ctx, view.Info(view.CustomerPlaced("user-1", obsOrderID.String())))
	require.NoError(t, err)
	assert.Equal(t, string(order.SavedStatusDeclined), info.String(orderrecord.FieldSavedStatus))
	assert.Equal(t, "dp-1", info.String(orderrecord.FieldPartnerID))
	assert.Empty(t, f.outbox.Sent())
}

func TestNewOrderActionCommand(t *testing.T) {
	_, err := commands.NewOrderActionCommand("", "", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero commands.OrderActionCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrOrderActionCommandIsNotConstructed)

	cmd, err := commands.NewOrderActionCommand("dp-1", "user-1", obsOrderID.String())
	require.NoError(t, err)
	assert.Equal(t, "dp-1", cmd.PartnerID())
	assert.Equal(t, "user-1", cmd.UserID())
	assert.Equal(t, obsOrderID, cmd.OrderID())
}
