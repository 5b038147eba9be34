package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceShopOrderCommand or NewPlaceVoiceOrderCommand",
	)
	ErrUserIDIsRequired   = errs.NewValueIsRequiredError("user_id")
	ErrShopIDIsRequired   = errs.NewValueIsRequiredError("shop_id")
	ErrVoiceRefIsRequired = errs.NewValueIsRequiredError("order_by_voice_doc_id")
)

// PlaceOrderCommand carries a placement request exactly as the client sent
// it. The customer fields stay encrypted so the request can be stored and
// replayed by the retry loop.
//
// Example:
//
//	cmd, err := NewPlaceShopOrderCommand("", pending.Request{
//	    UserIDEnc:    encUserID,
//	    UserEmailEnc: encEmail,
//	    UserPhoneEnc: encPhone,
//	    ShopID:       "shop-1",
//	    ShopDistrict: "kollam",
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderType order.Type
	orderID   order.ID
	request   pending.Request

	guard guard.ConstructorGuard
}

// NewPlaceShopOrderCommand creates an obs placement. An empty orderID lets the
// handler generate one.
func NewPlaceShopOrderCommand(orderID string, request pending.Request) (PlaceOrderCommand, error) {
	return NewPlaceOrderCommand(order.TypeShopBrowse, orderID, request)
}

// NewPlaceVoiceOrderCommand creates an obv placement.
func NewPlaceVoiceOrderCommand(orderID string, request pending.Request) (PlaceOrderCommand, error) {
	return NewPlaceOrderCommand(order.TypeStorePreference, orderID, request)
}

// NewPlaceOrderCommand creates a placement of the given type.
func NewPlaceOrderCommand(orderType order.Type, orderID string, request pending.Request) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setType(orderType),
		cmd.setOrderID(orderID),
		cmd.setRequest(orderType, request),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderType() order.Type {
	return c.orderType
}

// OrderID is empty when the client did not supply one.
func (c PlaceOrderCommand) OrderID() order.ID {
	return c.orderID
}

func (c PlaceOrderCommand) Request() pending.Request {
	return c.request
}

func (c *PlaceOrderCommand) setType(t order.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.orderType = t
	return nil
}

func (c *PlaceOrderCommand) setOrderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	parsed, err := order.ParseID(id)
	if err != nil {
		return err
	}
	c.orderID = parsed
	return nil
}

func (c *PlaceOrderCommand) setRequest(t order.Type, r pending.Request) error {
	if strings.TrimSpace(r.UserIDEnc) == "" {
		return ErrUserIDIsRequired
	}
	switch t {
	case order.TypeShopBrowse:
		if strings.TrimSpace(r.ShopID) == "" {
			return ErrShopIDIsRequired
		}
	case order.TypeStorePreference:
		if strings.TrimSpace(r.VoiceDocID) == "" || strings.TrimSpace(r.VoiceAudioRefID) == "" {
			return ErrVoiceRefIsRequired
		}
	}
	if (r.CurrentLat == nil) != (r.CurrentLon == nil) {
		return errs.NewValueIsInvalidErrorWithCause("current location",
			fmt.Errorf("curr_lat and curr_lon must be sent together"))
	}
	c.request = r
	return nil
}
