package orderrecord_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/orderrecord"
	"dispatch/internal/core/domain/model/order"
)

func TestOrderFromInfo_RoundTripsTheOrder(t *testing.T) {
	// Given
	o := assignedOrder(t)
	info := orderrecord.InfoDocument(o)

	// When
	got, err := orderrecord.OrderFromInfo(info)

	// Then
	require.NoError(t, err)
	assert.Equal(t, o.ID(), got.ID())
	assert.Equal(t, order.PartnerDecision, got.Status())
	require.NotNil(t, got.Partner())
	assert.Equal(t, "Anu", got.Partner().Name)
	require.NotNil(t, got.Shop())
	assert.Equal(t, "MG Road", got.Shop().Address().Street)
	assert.InDelta(t, 3.4, got.DeliveryDistanceKm(), 1e-9)
	assert.Equal(t, placedAt.UnixMilli(), got.PlacedAt().UnixMilli())
}

func TestInfoDocument_UnassignedVoiceOrder(t *testing.T) {
	customer, err := order.NewCustomer("user-1", "Meera", "", "9876543210")
	require.NoError(t, err)
	o, err := order.NewOrder("ORDOBV1", order.TypeStorePreference, customer,
		assignedOrder(t).Destination(), order.VoiceRef{DocID: "v", AudioRefID: "a"}, placedAt)
	require.NoError(t, err)
	require.NoError(t, o.Place())
	require.NoError(t, o.AwaitPartner())

	info := orderrecord.InfoDocument(o)

	assert.Equal(t, "VOICE ORDER", info.String(orderrecord.FieldShopName))
	assert.Equal(t, "None", info.String(orderrecord.FieldPartnerName))
	assert.Equal(t, "Delivery partner not assigned", info.String(orderrecord.FieldStatusLabel))
	assert.False(t, info.Bool(orderrecord.FieldPartnerAssigned))

	status := orderrecord.StatusPayload(o)
	assert.Equal(t, "We'll assign a delivery partner soon.",
		status.Map(orderrecord.FieldStatusData).Map("2").String("sub_title"))
}
