package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrTransitionAlreadyApplied is returned when the order already reached or
// passed the target of a transition.
var ErrTransitionAlreadyApplied = errors.New("transition already applied")

// Status is the milestone number stored as order_status_no.
type Status int

const (
	// UnassignedDraft is an order that exists but has not been placed yet.
	UnassignedDraft Status = iota

	// Placed means the customer finished placing the order.
	Placed

	// PartnerDecision means assignment ran. Whether it found a partner is
	// tracked next to the status.
	PartnerDecision

	// Accepted means the assigned partner accepted the order.
	Accepted

	// PickedUp means the partner collected the order from the shop.
	PickedUp

	// EnRoute means the partner is travelling to the destination.
	EnRoute

	// Delivered is terminal.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnassignedDraft: "UnassignedDraft",
		Placed:          "Placed",
		PartnerDecision: "PartnerDecision",
		Accepted:        "Accepted",
		PickedUp:        "PickedUp",
		EnRoute:         "EnRoute",
		Delivered:       "Delivered",
	}
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsOutOfRangeError("status", int(s), int(UnassignedDraft), int(Delivered))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Int returns the stored milestone number.
func (s Status) Int() int {
	return int(s)
}

func (s Status) IsTerminal() bool {
	return s == Delivered
}

// advanceTo moves s one step forward to target.
func (s Status) advanceTo(target Status) (Status, error) {
	if s >= target {
		return s, ErrTransitionAlreadyApplied
	}
	if s != target-1 {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move from %s to %s", s, target),
		)
	}
	return target, nil
}
