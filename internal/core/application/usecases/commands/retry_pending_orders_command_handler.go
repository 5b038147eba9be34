package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/core/ports"
)

const (
	outcomeAssigned  = "assigned"
	outcomePending   = "still_pending"
	outcomeAbandoned = "abandoned"
	outcomeFailed    = "failed"
)

// RetryReport counts what one pass did with the pending orders of a type.
type RetryReport struct {
	Type         order.Type
	Processed    int
	Assigned     int
	StillPending int
	Abandoned    int
	Failed       int
}

// RetryDeps are the collaborators of RetryPendingOrdersCommandHandler.
// MaxAttempts of zero never abandons an order.
type RetryDeps struct {
	UoWFactory  PendingUoWFactory
	Placer      OrderPlacer
	Pusher      *Pusher
	Clock       ports.Clock
	MaxAttempts int
	Metrics     ports.Metrics
	Logger      *zap.Logger
}

// RetryPendingOrdersCommandHandler replays every pending order through the
// placement flow, obs orders before obv orders.
type RetryPendingOrdersCommandHandler struct {
	deps RetryDeps
}

func NewRetryPendingOrdersCommandHandler(deps RetryDeps) RetryPendingOrdersCommandHandler {
	deps.Metrics = orNopMetrics(deps.Metrics)
	deps.Logger = orNopLogger(deps.Logger)
	return RetryPendingOrdersCommandHandler{deps: deps}
}

func (h RetryPendingOrdersCommandHandler) Handle(ctx context.Context, cmd RetryPendingOrdersCommand) ([]RetryReport, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	reports := make([]RetryReport, 0, 2)
	for _, t := range []order.Type{order.TypeShopBrowse, order.TypeStorePreference} {
		report, err := h.retryType(ctx, t)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (h RetryPendingOrdersCommandHandler) retryType(ctx context.Context, t order.Type) (RetryReport, error) {
	report := RetryReport{Type: t}

	orders, err := h.listPending(ctx, t)
	if err != nil {
		return report, err
	}

	var assigned, abandoned []order.ID
	var failed []*pending.PendingOrder

	for _, p := range orders {
		if ctx.Err() != nil {
			break
		}
		report.Processed++

		outcome := h.retryOne(ctx, p)
		h.deps.Metrics.ObserveRetry(t.String(), outcome)

		switch outcome {
		case outcomeAssigned:
			report.Assigned++
			assigned = append(assigned, p.OrderID())
		case outcomeAbandoned:
			report.Abandoned++
			abandoned = append(abandoned, p.OrderID())
		case outcomeFailed:
			report.Failed++
			failed = append(failed, p)
		default:
			report.StillPending++
			failed = append(failed, p)
		}
	}

	if err := h.persist(ctx, assigned, failed, abandoned); err != nil {
		return report, err
	}

	if report.Processed > 0 {
		h.deps.Logger.Info("pending orders retried",
			zap.Stringer("order_type", t),
			zap.Int("processed", report.Processed),
			zap.Int("assigned", report.Assigned),
			zap.Int("still_pending", report.StillPending),
			zap.Int("abandoned", report.Abandoned),
			zap.Int("failed", report.Failed))
	}
	return report, nil
}

func (h RetryPendingOrdersCommandHandler) listPending(ctx context.Context, t order.Type) ([]*pending.PendingOrder, error) {
	uow := h.deps.UoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.PendingOrderRepository().ListPending(ctx, t)
	if err != nil {
		return nil, err
	}
	return orders, uow.Commit(ctx)
}

// retryOne places p again. A panic while placing counts as a failed attempt
// so that one broken order cannot stop the pass.
func (h RetryPendingOrdersCommandHandler) retryOne(ctx context.Context, p *pending.PendingOrder) (outcome string) {
	logger := h.deps.Logger.With(zap.String("order_id", p.OrderID().String()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("retry panicked", zap.Any("panic", r))
			p.RecordFailedAttempt(h.deps.Clock.Now())
			outcome = outcomeFailed
		}
	}()

	cmd, err := NewPlaceOrderCommand(p.Type(), p.OrderID().String(), p.Request())
	if err != nil {
		logger.Warn("stored pending request is invalid", zap.Error(err))
		return h.notAssigned(ctx, p, outcomeFailed)
	}

	result, err := h.deps.Placer.Handle(ctx, cmd)
	if err != nil {
		logger.Warn("retry placement failed", zap.Error(err))
		return h.notAssigned(ctx, p, outcomeFailed)
	}
	if !result.IsAssigned {
		return h.notAssigned(ctx, p, outcomePending)
	}

	if err := p.MarkAssigned(h.deps.Clock.Now()); err != nil {
		logger.Warn("pending order not marked", zap.Error(err))
	}
	h.pushCustomer(ctx, p, "Pending order assigned",
		fmt.Sprintf("Order %s has been assigned. %s is your delivery partner.", p.OrderID().ShortID(), result.PartnerName))
	return outcomeAssigned
}

func (h RetryPendingOrdersCommandHandler) notAssigned(ctx context.Context, p *pending.PendingOrder, outcome string) string {
	p.RecordFailedAttempt(h.deps.Clock.Now())

	if p.ShouldAbandon(h.deps.MaxAttempts) {
		if err := p.Abandon(h.deps.Clock.Now()); err == nil {
			h.pushCustomer(ctx, p, "Order could not be assigned",
				fmt.Sprintf("Order %s could not be assigned to a partner. Please place it again.", p.OrderID().ShortID()))
			return outcomeAbandoned
		}
	}

	h.pushCustomer(ctx, p, "Order not assigned",
		fmt.Sprintf("Order %s has not been assigned. We'll assign a partner soon...", p.OrderID().ShortID()))
	return outcome
}

func (h RetryPendingOrdersCommandHandler) pushCustomer(ctx context.Context, p *pending.PendingOrder, title string, body string) {
	h.deps.Pusher.Push(ctx, ports.Recipient{ID: p.CustomerID(), Audience: ports.AudienceUser}, ports.Notification{
		Title: title,
		Body:  body,
		Data:  map[string]string{"order_id": p.OrderID().String()},
	})
}

func (h RetryPendingOrdersCommandHandler) persist(
	ctx context.Context,
	assigned []order.ID,
	failed []*pending.PendingOrder,
	abandoned []order.ID,
) error {
	if len(assigned)+len(failed)+len(abandoned) == 0 {
		return nil
	}

	uow := h.deps.UoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PendingOrderRepository()
	if len(assigned) > 0 {
		if err := repo.MarkAssigned(ctx, assigned); err != nil {
			return err
		}
		if err := repo.DeleteMany(ctx, assigned); err != nil {
			return err
		}
	}
	for _, p := range failed {
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
	}
	if len(abandoned) > 0 {
		if err := repo.DeleteMany(ctx, abandoned); err != nil {
			return err
		}
	}
	return uow.Commit(ctx)
}
