package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var placedAt = time.Date(2026, time.October, 14, 5, 21, 9, 0, time.UTC)

func newTestShop(t *testing.T) order.Shop {
	t.Helper()
	shop, err := order.NewShop("shop-1", "Fresh Mart", kernel.MustNewLocation(8.5241, 76.9366), order.ShopAddress{
		Street:   "MG Road",
		Phone:    "9000000001",
		Pincode:  "695001",
		State:    "kerala",
		District: "thiruvananthapuram",
	})
	require.NoError(t, err)
	return shop
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	customer, err := order.NewCustomer("user-1", "Meera", "meera@example.com", "9876543210")
	require.NoError(t, err)
	destination, err := order.NewDestination(kernel.MustNewLocation(8.5, 76.95), "TC 12/34, Pattom", order.DestinationActual)
	require.NoError(t, err)

	o, err := order.NewOrder("ORDOBS20261014052109A1B2C3D4", order.TypeShopBrowse, customer, destination,
		order.VoiceRef{DocID: "voice-doc", AudioRefID: "audio-1"}, placedAt)
	require.NoError(t, err)
	return o
}

func newAssignedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	require.NoError(t, o.SetShop(newTestShop(t)))
	require.NoError(t, o.Place())
	require.NoError(t, o.AssignPartner(order.PartnerRef{ID: "dp-1", Name: "Anu"}, 1.2, 3.4))
	return o
}
