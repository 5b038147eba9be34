// Package system provides the wall clock and the order id generator.
package system

import (
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
)

var (
	_ ports.Clock            = Clock{}
	_ ports.OrderIDGenerator = IDGenerator{}
)

type Clock struct{}

func (Clock) Now() time.Time {
	return time.Now()
}

// IDGenerator takes the random part of an order id from a UUIDv4.
type IDGenerator struct{}

func (IDGenerator) NewOrderID(orderType order.Type, at time.Time) (order.ID, error) {
	return order.GenerateID(orderType, at, uuid.NewString())
}
