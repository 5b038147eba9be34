package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Cipher decrypts the identifiers the client apps send encrypted.
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encoded string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type OrderIDGenerator interface {
	NewOrderID(orderType order.Type, at time.Time) (order.ID, error)
}

// Locker serialises work on a key across processes. The returned release
// function is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// RouteDistance returns the road travel distance in kilometres.
type RouteDistance interface {
	TravelKm(ctx context.Context, from kernel.Location, to kernel.Location) (float64, error)
}

// Address is a saved delivery address of a customer.
type Address struct {
	Name        string
	FullAddress string
	State       string
	District    string
	Location    *kernel.Location
}

type AddressBook interface {
	// GetAddress returns errs.ObjectNotFoundError when the customer has no
	// address saved for phone.
	GetAddress(ctx context.Context, userID string, phone string) (Address, error)
}

type ShopDirectory interface {
	// GetShop returns errs.ObjectNotFoundError when the shop is unknown.
	GetShop(ctx context.Context, shopID string, state string, district string) (order.Shop, error)
	ListShops(ctx context.Context, state string, district string) ([]order.Shop, error)
}

// PartnerProfile is the registration data of a delivery partner.
type PartnerProfile struct {
	ID       string
	Name     string
	State    string
	District string
}

type PartnerProfiles interface {
	// GetProfile returns errs.ObjectNotFoundError when the partner is unknown.
	GetProfile(ctx context.Context, partnerID string) (PartnerProfile, error)
	UpdateArea(ctx context.Context, partnerID string, state string, district string) error
}
