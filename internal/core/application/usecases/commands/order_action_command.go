package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrOrderActionCommandIsNotConstructed = errors.New(
	"order action command is not constructed, use NewOrderActionCommand")

// OrderActionCommand is a partner acting on one of their orders.
type OrderActionCommand struct { //nolint:recvcheck //using for validation
	partnerID string
	userID    string
	orderID   order.ID

	guard guard.ConstructorGuard
}

func NewOrderActionCommand(partnerID string, userID string, orderID string) (OrderActionCommand, error) {
	c := OrderActionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setPartnerID(partnerID),
		c.setUserID(userID),
		c.setOrderID(orderID),
	); err != nil {
		return OrderActionCommand{}, err
	}
	return c, nil
}

func (c OrderActionCommand) Validate() error {
	return c.guard.Validate(ErrOrderActionCommandIsNotConstructed)
}

func (c OrderActionCommand) PartnerID() string {
	return c.partnerID
}

func (c OrderActionCommand) UserID() string {
	return c.userID
}

func (c OrderActionCommand) OrderID() order.ID {
	return c.orderID
}

func (c *OrderActionCommand) setPartnerID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("dp_id")
	}
	c.partnerID = id
	return nil
}

func (c *OrderActionCommand) setUserID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("user_id")
	}
	c.userID = id
	return nil
}

func (c *OrderActionCommand) setOrderID(id string) error {
	parsed, err := order.ParseID(id)
	if err != nil {
		return err
	}
	c.orderID = parsed
	return nil
}
