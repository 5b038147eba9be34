package order

import (
	"fmt"
	"strings"
	"time"

	"dispatch/internal/pkg/errs"
)

const (
	idPrefix          = "ORD"
	idTimeLayout      = "20060102150405"
	idEntropyLength   = 8
	displayIDStart    = 6
	shortDisplayIDEnd = 23
)

// ID identifies an order across every view. Generated IDs look like
// ORDOBS20261014052109A1B2C3D4 so that IDs of one type sort by creation time.
type ID string

// GenerateID builds an ID from the order type, the creation time and random entropy.
func GenerateID(t Type, at time.Time, entropy string) (ID, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	entropy = strings.ToUpper(strings.ReplaceAll(entropy, "-", ""))
	if len(entropy) < idEntropyLength {
		return "", errs.NewValueIsOutOfRangeError("entropy length", len(entropy), idEntropyLength, "unbounded")
	}
	return ID(fmt.Sprintf("%s%s%s%s",
		idPrefix, t.Code(), at.UTC().Format(idTimeLayout), entropy[:idEntropyLength])), nil
}

// ParseID accepts an ID supplied by a client. IDs become document path
// segments, so slashes are rejected.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.NewValueIsRequiredError("order id")
	}
	if strings.Contains(s, "/") {
		return "", errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%q contains a slash", s))
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

// DisplayID drops the six-character prefix, as shown on delivery receipts.
func (id ID) DisplayID() string {
	if len(id) <= displayIDStart {
		return string(id)
	}
	return string(id[displayIDStart:])
}

// ShortID is the compact form used in retry notifications.
func (id ID) ShortID() string {
	s := id.DisplayID()
	if len(id) > shortDisplayIDEnd {
		return string(id[displayIDStart:shortDisplayIDEnd])
	}
	return s
}
