package orderrecord_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/view"
)

var placedAt = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func assignedOrder(t *testing.T) *order.Order {
	t.Helper()
	customer, err := order.NewCustomer("user-1", "Meera", "meera@example.com", "9876543210")
	require.NoError(t, err)
	dest, err := order.NewDestination(kernel.MustNewLocation(8.52, 76.93), "TC 12/40, Pattom", order.DestinationActual)
	require.NoError(t, err)
	o, err := order.NewOrder("ORDOBS20261014093000ABCDEF12", order.TypeShopBrowse, customer, dest, order.VoiceRef{}, placedAt)
	require.NoError(t, err)
	shop, err := order.NewShop("shop-1", "Fresh Mart", kernel.MustNewLocation(8.50, 76.95), order.ShopAddress{
		Street: "MG Road", Phone: "0471222333", Pincode: "695001", State: "kerala", District: "thiruvananthapuram",
	})
	require.NoError(t, err)
	require.NoError(t, o.SetShop(shop))
	require.NoError(t, o.Place())
	require.NoError(t, o.AssignPartner(order.PartnerRef{ID: "dp-1", Name: "Anu"}, 1.2, 3.4))
	return o
}

// failingStore fails every Set whose path contains failOn.
type failingStore struct {
	*memory.DocumentStore
	failOn string
}

var errStoreDown = errors.New("store unavailable")

func (s *failingStore) Set(ctx context.Context, ref view.Ref, doc view.Document, merge bool) error {
	if s.failOn != "" && strings.Contains(ref.Path(), s.failOn) {
		return errStoreDown
	}
	return s.DocumentStore.Set(ctx, ref, doc, merge)
}
