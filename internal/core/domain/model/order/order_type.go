package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Type tells a shop-browse order from a voice order with a store preference.
type Type string

const (
	// TypeShopBrowse is an order placed from a shop the customer picked.
	TypeShopBrowse Type = "obs"
	// TypeStorePreference is a voice order; the shop is resolved near the customer.
	TypeStorePreference Type = "obv"
)

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t Type) Validate() error {
	switch t {
	case TypeShopBrowse, TypeStorePreference:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("order type", fmt.Errorf("unknown order type %q", string(t)))
	}
}

func (t Type) String() string {
	return string(t)
}

// Code is the upper-case form used inside order identifiers.
func (t Type) Code() string {
	return strings.ToUpper(string(t))
}
