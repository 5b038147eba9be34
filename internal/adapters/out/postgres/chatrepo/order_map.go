package chatrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GormOrderMapRepository implements ports.OrderMapRepository using GORM.
type GormOrderMapRepository struct {
	db *gorm.DB
}

var _ ports.OrderMapRepository = (*GormOrderMapRepository)(nil)

func NewGormOrderMapRepository(db *gorm.DB) *GormOrderMapRepository {
	return &GormOrderMapRepository{db: db}
}

func (r *GormOrderMapRepository) Upsert(ctx context.Context, orderID order.ID, customerID string) error {
	if orderID == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}

	dto := OrderCustomerDTO{OrderID: orderID.String(), CustomerID: customerID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer_id"}),
	}).Create(&dto).Error
}

func (r *GormOrderMapRepository) GetCustomer(ctx context.Context, orderID order.ID) (string, error) {
	var dto OrderCustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return "", err
	}
	return dto.CustomerID, nil
}

func (r *GormOrderMapRepository) Delete(ctx context.Context, orderID order.ID) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID.String()).
		Delete(&OrderCustomerDTO{}).Error
}
