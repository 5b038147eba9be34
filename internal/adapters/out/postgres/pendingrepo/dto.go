// Package pendingrepo persists orders that wait for a partner.
package pendingrepo

import (
	"time"

	"gorm.io/datatypes"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
)

// PendingOrderDTO is a row of pending_orders. The request column keeps the
// placement input, still encrypted, as JSON.
type PendingOrderDTO struct {
	OrderID    string                              `gorm:"primaryKey"`
	OrderType  string                              `gorm:"not null"`
	CustomerID string                              `gorm:"not null"`
	Request    datatypes.JSONType[pending.Request] `gorm:"type:jsonb;not null"`
	Status     string                              `gorm:"not null;default:pending"`
	Attempts   int                                 `gorm:"not null;default:0"`
	CreatedAt  time.Time                           `gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time                           `gorm:"autoUpdateTime:false"`
}

func (PendingOrderDTO) TableName() string {
	return "pending_orders"
}

func fromDomain(p *pending.PendingOrder) PendingOrderDTO {
	return PendingOrderDTO{
		OrderID:    p.OrderID().String(),
		OrderType:  p.Type().String(),
		CustomerID: p.CustomerID(),
		Request:    datatypes.NewJSONType(p.Request()),
		Status:     string(p.Status()),
		Attempts:   p.Attempts(),
		CreatedAt:  p.CreatedAt().UTC(),
		UpdatedAt:  p.UpdatedAt().UTC(),
	}
}

func toDomain(dto PendingOrderDTO) (*pending.PendingOrder, error) {
	orderType, err := order.ParseType(dto.OrderType)
	if err != nil {
		return nil, err
	}
	return pending.RestorePendingOrder(
		order.ID(dto.OrderID),
		orderType,
		dto.CustomerID,
		dto.Request.Data(),
		pending.Status(dto.Status),
		dto.Attempts,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
