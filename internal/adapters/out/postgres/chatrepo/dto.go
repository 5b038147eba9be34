// Package chatrepo persists chat registrations and the order to customer map.
package chatrepo

import (
	"time"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/order"
)

// ConnectionDTO is the embedded state of one chat side.
type ConnectionDTO struct {
	Connected    bool   `gorm:"not null;default:false"`
	ConnectionID string `gorm:"not null;default:None"`
}

type ChatRegistrationDTO struct {
	ChatID          string        `gorm:"primaryKey"`
	OrderType       string        `gorm:"not null"`
	CustomerID      string        `gorm:"not null;index"`
	PartnerID       string        `gorm:"not null;default:'';index"`
	PartnerAssigned bool          `gorm:"not null;default:false"`
	Order           ConnectionDTO `gorm:"embedded;embeddedPrefix:order_"`
	Delivery        ConnectionDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	UpdatedAt       time.Time
}

func (ChatRegistrationDTO) TableName() string {
	return "chat_registrations"
}

// OrderCustomerDTO maps an order to the customer who placed it.
type OrderCustomerDTO struct {
	OrderID    string `gorm:"primaryKey"`
	CustomerID string `gorm:"not null"`
	CreatedAt  time.Time
}

func (OrderCustomerDTO) TableName() string {
	return "order_customers"
}

func fromDomain(r *chat.Registration) ChatRegistrationDTO {
	s := r.Snapshot()
	return ChatRegistrationDTO{
		ChatID:          s.ChatID.String(),
		OrderType:       s.OrderType.String(),
		CustomerID:      s.CustomerID,
		PartnerID:       s.PartnerID,
		PartnerAssigned: s.PartnerAssigned,
		Order:           ConnectionDTO(s.OrderSide),
		Delivery:        ConnectionDTO(s.DeliverySide),
	}
}

func toDomain(dto ChatRegistrationDTO) (*chat.Registration, error) {
	orderType, err := order.ParseType(dto.OrderType)
	if err != nil {
		return nil, err
	}
	return chat.RestoreRegistration(chat.Snapshot{
		ChatID:          order.ID(dto.ChatID),
		OrderType:       orderType,
		CustomerID:      dto.CustomerID,
		PartnerID:       dto.PartnerID,
		PartnerAssigned: dto.PartnerAssigned,
		OrderSide:       chat.Connection(dto.Order),
		DeliverySide:    chat.Connection(dto.Delivery),
	})
}
