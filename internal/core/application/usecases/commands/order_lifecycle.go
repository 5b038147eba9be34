package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// LifecycleDeps are shared by the order action handlers. Metrics is optional.
// Timeout bounds the writes of one action; zero leaves them unbounded.
type LifecycleDeps struct {
	UoWFactory UoWFactory
	Writer     *orderrecord.Writer
	Locker     ports.Locker
	Pusher     *Pusher
	Clock      ports.Clock
	Metrics    ports.Metrics
	Logger     *zap.Logger
	Timeout    time.Duration
}

// TransitionResult reports the status of the order after an action. Applied
// is false when the order was already past the requested milestone.
type TransitionResult struct {
	OrderID string
	Status  order.Status
	Applied bool
	Message string
}

// step is one partner action on an order.
type step struct {
	name    string
	message string

	// missingIsDone turns a missing partner view into a no-op result.
	missingIsDone bool

	apply  func(o *order.Order, partnerID string) error
	write  func(ctx context.Context, o *order.Order) error
	notify func(o *order.Order) *ports.Notification
	finish func(ctx context.Context, o *order.Order) error
}

type transitioner struct {
	deps LifecycleDeps
}

func newTransitioner(deps LifecycleDeps) transitioner {
	deps.Metrics = orNopMetrics(deps.Metrics)
	deps.Logger = orNopLogger(deps.Logger)
	return transitioner{deps: deps}
}

func (t transitioner) run(ctx context.Context, cmd OrderActionCommand, s step) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	id := cmd.OrderID()
	logger := t.deps.Logger.With(
		zap.String("order_id", id.String()),
		zap.String("partner_id", cmd.PartnerID()),
		zap.String("action", s.name),
	)

	release, err := t.deps.Locker.Lock(ctx, "order:"+id.String())
	if err != nil {
		return TransitionResult{}, err
	}
	defer release()

	o, err := t.deps.Writer.ReadPartnerOrder(ctx, cmd.PartnerID(), id)
	if err != nil {
		if !s.missingIsDone || !errors.Is(err, errs.ErrObjectNotFound) {
			return TransitionResult{}, err
		}
		finished, finishedErr := t.deps.Writer.HasFinished(ctx, cmd.PartnerID(), id)
		if finishedErr != nil {
			return TransitionResult{}, finishedErr
		}
		if !finished {
			return TransitionResult{}, err
		}
		t.deps.Metrics.ObserveTransition(s.name, false)
		return TransitionResult{
			OrderID: id.String(),
			Status:  order.Delivered,
			Message: "order is already completed",
		}, nil
	}
	if o.Customer().ID() != cmd.UserID() {
		return TransitionResult{}, errs.NewValueIsInvalidErrorWithCause("user_id",
			fmt.Errorf("order %s was not placed by %s", id, cmd.UserID()))
	}

	if err := s.apply(o, cmd.PartnerID()); err != nil {
		if errors.Is(err, order.ErrTransitionAlreadyApplied) {
			t.deps.Metrics.ObserveTransition(s.name, false)
			logger.Debug("action already applied", zap.Stringer("status", o.Status()))
			return TransitionResult{
				OrderID: id.String(),
				Status:  o.Status(),
				Message: fmt.Sprintf("order is already %s", o.Status()),
			}, nil
		}
		return TransitionResult{}, err
	}

	err = withTimeout(ctx, t.deps.Timeout, func(ctx context.Context) error {
		if err := s.write(ctx, o); err != nil {
			logger.Error("order views not updated", zap.Error(err))
			return err
		}
		t.deps.Metrics.ObserveTransition(s.name, true)

		if s.notify != nil {
			if n := s.notify(o); n != nil {
				t.deps.Pusher.Push(ctx, ports.Recipient{ID: o.Customer().ID(), Audience: ports.AudienceUser}, *n)
			}
		}
		if s.finish != nil {
			if err := s.finish(ctx, o); err != nil {
				logger.Error("order cleanup failed", zap.Error(err))
				return err
			}
		}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}

	logger.Info("order action applied", zap.Stringer("status", o.Status()))
	return TransitionResult{OrderID: id.String(), Status: o.Status(), Applied: true, Message: s.message}, nil
}

// advance merges the new milestone into the views and the realtime status.
func (t transitioner) advance(ctx context.Context, o *order.Order) error {
	if err := t.deps.Writer.MergeStage(ctx, o); err != nil {
		return err
	}
	_, err := t.deps.Writer.WriteStatus(ctx, o.Customer().ID(), o.ID(), orderrecord.StatusPayload(o))
	return err
}

type AcceptOrderCommandHandler struct {
	t transitioner
}

func NewAcceptOrderCommandHandler(deps LifecycleDeps) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{t: newTransitioner(deps)}
}

// Handle accepts the order and opens the current views of both sides.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (TransitionResult, error) {
	return h.t.run(ctx, cmd, step{
		name:    "accept",
		message: "Order accepted",
		apply:   (*order.Order).Accept,
		write: func(ctx context.Context, o *order.Order) error {
			if err := h.t.deps.Writer.PromoteToAccepted(ctx, o.ID(), o.Customer().ID(), o.Partner().ID); err != nil {
				return err
			}
			return h.t.advance(ctx, o)
		},
		notify: func(o *order.Order) *ports.Notification {
			return customerNotification(o, "Order accepted",
				fmt.Sprintf("%s is your delivery partner, has accepted your order from %s", o.Partner().Name, shopNameOf(o)))
		},
	})
}

type MarkPickedUpCommandHandler struct {
	t transitioner
}

func NewMarkPickedUpCommandHandler(deps LifecycleDeps) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{t: newTransitioner(deps)}
}

func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (TransitionResult, error) {
	return h.t.run(ctx, cmd, step{
		name:    "pickup",
		message: "Order picked up",
		apply:   checkedStep((*order.Order).PickUp),
		write:   h.t.advance,
		notify: func(o *order.Order) *ports.Notification {
			return customerNotification(o, "Order Pickup",
				fmt.Sprintf("%s has picked up your order from %s", o.Partner().Name, shopNameOf(o)))
		},
	})
}

type MarkEnRouteCommandHandler struct {
	t transitioner
}

func NewMarkEnRouteCommandHandler(deps LifecycleDeps) MarkEnRouteCommandHandler {
	return MarkEnRouteCommandHandler{t: newTransitioner(deps)}
}

func (h MarkEnRouteCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (TransitionResult, error) {
	return h.t.run(ctx, cmd, step{
		name:    "en_route",
		message: "Order en route",
		apply:   checkedStep((*order.Order).EnRoute),
		write:   h.t.advance,
		notify: func(o *order.Order) *ports.Notification {
			return customerNotification(o, "Order en-routed",
				fmt.Sprintf("%s is on the way with your order from %s", o.Partner().Name, shopNameOf(o)))
		},
	})
}

type MarkDeliveredCommandHandler struct {
	t transitioner
}

func NewMarkDeliveredCommandHandler(deps LifecycleDeps) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{t: newTransitioner(deps)}
}

// Handle completes the order. Every view of it is purged and its chat is
// unregistered; a second call finds nothing and reports Applied=false.
func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (TransitionResult, error) {
	return h.t.run(ctx, cmd, step{
		name:          "deliver",
		message:       "Order delivered",
		missingIsDone: true,
		apply:         checkedStep((*order.Order).Deliver),
		write: func(ctx context.Context, o *order.Order) error {
			_, err := h.t.deps.Writer.WriteStatus(ctx, o.Customer().ID(), o.ID(), orderrecord.StatusPayload(o))
			return err
		},
		notify: func(o *order.Order) *ports.Notification {
			return customerNotification(o, "Order delivered successfully",
				fmt.Sprintf("%s | %s\nID: %s", shopNameOf(o), kernel.DisplayTime(h.t.deps.Clock.Now()), o.ID().DisplayID()))
		},
		finish: h.cleanup,
	})
}

func (h MarkDeliveredCommandHandler) cleanup(ctx context.Context, o *order.Order) error {
	if err := h.t.deps.Writer.PurgeAllViewsForOrder(ctx, o.ID(), o.Partner().ID, o.Customer().ID(), o.Voice()); err != nil {
		return err
	}

	uow := h.t.deps.UoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ChatRegistrationRepository().Delete(ctx, o.ID()); err != nil {
		return err
	}
	if err := uow.OrderMapRepository().Delete(ctx, o.ID()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

type SaveOrderForNextCommandHandler struct {
	t transitioner
}

func NewSaveOrderForNextCommandHandler(deps LifecycleDeps) SaveOrderForNextCommandHandler {
	return SaveOrderForNextCommandHandler{t: newTransitioner(deps)}
}

// Handle flags the order as saved by the partner. The order stays assigned.
func (h SaveOrderForNextCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (TransitionResult, error) {
	return h.t.run(ctx, cmd, step{
		name:    "save_for_next",
		message: "Order saved for next",
		apply:   (*order.Order).SaveForNext,
		write:   h.t.deps.Writer.MergeStage,
	})
}

type DeclineOrderCommandHandler struct {
	t transitioner
}

func NewDeclineOrderCommandHandler(deps LifecycleDeps) DeclineOrderCommandHandler {
	return DeclineOrderCommandHandler{t: newTransitioner(deps)}
}

// Handle flags the order as declined by the partner. Nobody else is assigned.
func (h DeclineOrderCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (TransitionResult, error) {
	return h.t.run(ctx, cmd, step{
		name:    "decline",
		message: "Order declined",
		apply:   (*order.Order).Decline,
		write:   h.t.deps.Writer.MergeStage,
	})
}

// checkedStep guards a transition that takes no partner with the partner
// check.
func checkedStep(transition func(*order.Order) error) func(*order.Order, string) error {
	return func(o *order.Order, partnerID string) error {
		if err := o.CheckPartner(partnerID); err != nil {
			return err
		}
		return transition(o)
	}
}

func customerNotification(o *order.Order, title string, body string) *ports.Notification {
	return &ports.Notification{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"order_id":        o.ID().String(),
			"order_status_no": fmt.Sprint(o.Status().Int()),
		},
	}
}

func shopNameOf(o *order.Order) string {
	if shop := o.Shop(); shop != nil {
		return shop.Name()
	}
	return "your shop"
}
