package pendingrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GormPendingOrderRepository implements ports.PendingOrderRepository using GORM.
type GormPendingOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

var _ ports.PendingOrderRepository = (*GormPendingOrderRepository)(nil)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id order.ID, aggregate any)
}

func NewGormPendingOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormPendingOrderRepository {
	return &GormPendingOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Upsert inserts the order. A row that already exists gets the new request
// and goes back to pending; its attempt count and creation time are kept.
func (r *GormPendingOrderRepository) Upsert(ctx context.Context, p *pending.PendingOrder) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"request", "status", "updated_at"}),
	}).Create(&dto).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(p.OrderID(), p)
	return nil
}

// Update saves the status and attempts of a stored order.
func (r *GormPendingOrderRepository) Update(ctx context.Context, p *pending.PendingOrder) error {
	if err := p.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&PendingOrderDTO{}).
		Where("order_id = ?", p.OrderID().String()).
		Updates(map[string]any{
			"status":     string(p.Status()),
			"attempts":   p.Attempts(),
			"updated_at": p.UpdatedAt().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", p.OrderID().String())
	}

	r.tracker.TrackAggregate(p.OrderID(), p)
	return nil
}

func (r *GormPendingOrderRepository) Get(ctx context.Context, orderID order.ID) (*pending.PendingOrder, error) {
	var dto PendingOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// ListPending returns the pending orders of a type, oldest first.
func (r *GormPendingOrderRepository) ListPending(ctx context.Context, orderType order.Type) ([]*pending.PendingOrder, error) {
	var dtos []PendingOrderDTO
	err := r.db.WithContext(ctx).
		Where("order_type = ? AND status = ?", orderType.String(), string(pending.StatusPending)).
		Order("created_at, order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*pending.PendingOrder, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, p)
	}
	return orders, nil
}

func (r *GormPendingOrderRepository) MarkAssigned(ctx context.Context, orderIDs []order.ID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&PendingOrderDTO{}).
		Where("order_id IN ?", idStrings(orderIDs)).
		Update("status", string(pending.StatusAssigned)).Error
}

func (r *GormPendingOrderRepository) DeleteMany(ctx context.Context, orderIDs []order.ID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("order_id IN ?", idStrings(orderIDs)).
		Delete(&PendingOrderDTO{}).Error
}

func idStrings(ids []order.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
