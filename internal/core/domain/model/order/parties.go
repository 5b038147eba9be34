package order

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCustomerIsNotConstructed    = errors.New("Customer must be created via NewCustomer")
	ErrShopIsNotConstructed        = errors.New("Shop must be created via NewShop")
	ErrDestinationIsNotConstructed = errors.New("Destination must be created via NewDestination")
)

// Customer is the person who placed the order.
type Customer struct {
	id    string
	name  string
	email string
	phone string
	guard guard.ConstructorGuard
}

func NewCustomer(id string, name string, email string, phone string) (Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Customer{}, errs.NewValueIsRequiredError("customer id")
	}
	return Customer{
		id:    id,
		name:  strings.TrimSpace(name),
		email: strings.TrimSpace(email),
		phone: strings.TrimSpace(phone),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c Customer) ID() string { return c.id }
func (c Customer) Name() string { return c.name }
func (c Customer) Email() string { return c.email }
func (c Customer) Phone() string { return c.phone }

// ShopAddress carries the descriptive fields of a shop.
type ShopAddress struct {
	Street   string
	Phone    string
	Pincode  string
	State    string
	District string
}

// Shop is where the order is picked up.
type Shop struct {
	id       string
	name     string
	location kernel.Location
	address  ShopAddress
	guard    guard.ConstructorGuard
}

func NewShop(id string, name string, location kernel.Location, address ShopAddress) (Shop, error) {
	var errID error
	id = strings.TrimSpace(id)
	if id == "" {
		errID = errs.NewValueIsRequiredError("shop id")
	}
	if err := errors.Join(errID, location.Validate()); err != nil {
		return Shop{}, err
	}
	return Shop{
		id:       id,
		name:     strings.TrimSpace(name),
		location: location,
		address:  address,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (s Shop) Validate() error {
	return s.guard.Validate(ErrShopIsNotConstructed)
}

func (s Shop) ID() string { return s.id }
func (s Shop) Name() string { return s.name }
func (s Shop) Location() kernel.Location { return s.location }
func (s Shop) Address() ShopAddress { return s.address }

// DestinationKind tells whether the customer shared a live position or the
// saved address was used.
type DestinationKind string

const (
	DestinationCurrent DestinationKind = "current"
	DestinationActual  DestinationKind = "actual"
)

// Destination is where the order is delivered.
type Destination struct {
	location    kernel.Location
	fullAddress string
	kind        DestinationKind
	guard       guard.ConstructorGuard
}

func NewDestination(location kernel.Location, fullAddress string, kind DestinationKind) (Destination, error) {
	if err := location.Validate(); err != nil {
		return Destination{}, err
	}
	if kind != DestinationCurrent && kind != DestinationActual {
		kind = DestinationActual
	}
	return Destination{
		location:    location,
		fullAddress: strings.TrimSpace(fullAddress),
		kind:        kind,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (d Destination) Validate() error {
	return d.guard.Validate(ErrDestinationIsNotConstructed)
}

func (d Destination) Location() kernel.Location { return d.location }
func (d Destination) FullAddress() string { return d.fullAddress }
func (d Destination) Kind() DestinationKind { return d.kind }

// PartnerRef names the partner an order is assigned to.
type PartnerRef struct {
	ID   string
	Name string
}

// VoiceRef points to the recorded voice order and its cart document.
type VoiceRef struct {
	DocID      string
	AudioRefID string
}

// SavedStatus is the side-channel flag a partner sets without moving the status.
type SavedStatus string

const (
	SavedStatusNone     SavedStatus = "None"
	SavedStatusSaved    SavedStatus = "order_saved"
	SavedStatusDeclined SavedStatus = "order_declined"
)
