// Package chat models the per-order chat registration that tells whether each
// side of a conversation currently holds a live connection.
package chat

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// NoConnection is stored in place of a connection id when a side is offline.
const NoConnection = "None"

// Side is one end of an order chat.
type Side int

const (
	// SideOrder is the customer app.
	SideOrder Side = iota + 1
	// SideDelivery is the partner app.
	SideDelivery
)

func getSideStrings() map[Side]string {
	return map[Side]string{
		SideOrder:    "order_client",
		SideDelivery: "delivery_client",
	}
}

// ParseSide accepts the client type segment of the chat route.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "order_client", "order":
		return SideOrder, nil
	case "delivery_client", "delivery":
		return SideDelivery, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("client type", fmt.Errorf("unknown chat side %q", s))
	}
}

func (s Side) Validate() error {
	if _, ok := getSideStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("client type", fmt.Errorf("unknown chat side %d", int(s)))
	}
	return nil
}

func (s Side) String() string {
	if str, ok := getSideStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideOrder {
		return SideDelivery
	}
	return SideOrder
}
