package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/model/view"
	"dispatch/internal/pkg/errs"
)

func TestDoc(t *testing.T) {
	t.Run("pairs", func(t *testing.T) {
		ref := view.Doc("Users", "u1", "placedOrderData", "o1")

		require.NoError(t, ref.Validate())
		assert.Equal(t, "Users/u1/placedOrderData/o1", ref.Path())
		assert.Equal(t, "o1", ref.ID())
		assert.Equal(t, "Users/u1/placedOrderData", ref.Parent().Path())
	})

	t.Run("odd segment count", func(t *testing.T) {
		require.ErrorIs(t, view.Doc("Users").Validate(), errs.ErrValueIsInvalid)
	})

	t.Run("slash inside a segment", func(t *testing.T) {
		require.ErrorIs(t, view.Doc("Users", "a/b").Validate(), errs.ErrValueIsInvalid)
	})

	t.Run("empty segment", func(t *testing.T) {
		require.ErrorIs(t, view.Customer(" ").Validate(), errs.ErrValueIsRequired)
	})

	t.Run("zero value", func(t *testing.T) {
		require.ErrorIs(t, view.Ref{}.Validate(), errs.ErrValueIsRequired)
	})

	t.Run("errors propagate to children", func(t *testing.T) {
		ref := view.Customer("").Child("placedOrderData", "o1")

		require.Error(t, ref.Validate())
		require.Error(t, ref.Collection("x").Validate())
	})
}

func TestParseRef(t *testing.T) {
	ref := view.ParseRef("/DeliveryPartners/dp1/pendingOrders/o1/")

	require.NoError(t, ref.Validate())
	assert.Equal(t, view.PartnerPending("dp1", "o1").Path(), ref.Path())
}

func TestRef_IsAncestorOf(t *testing.T) {
	base := view.CustomerPlaced("u1", "o1")

	assert.True(t, base.IsAncestorOf(view.RealtimeStatus("u1", "o1")))
	assert.True(t, base.IsAncestorOf(view.Info(base)))
	assert.False(t, base.IsAncestorOf(base))
	assert.False(t, base.IsAncestorOf(view.CustomerPlaced("u1", "o2")))
}

func TestPaths(t *testing.T) {
	bucket, err := partner.NewDutyBucket("Kerala", "Kollam", time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"placed info", view.Info(view.CustomerPlaced("u1", "o1")).Path(), "Users/u1/placedOrderData/o1/orderData/info"},
		{"realtime", view.RealtimeStatus("u1", "o1").Path(), "Users/u1/placedOrderData/o1/realtimeUpdateData/orderStatus"},
		{"customer current", view.CustomerCurrent("u1", "o1").Path(), "Users/u1/currentActiveOrders/o1"},
		{"partner pending", view.PartnerPending("dp1", "o1").Path(), "DeliveryPartners/dp1/pendingOrders/o1"},
		{"partner current", view.PartnerCurrent("dp1", "o1").Path(), "DeliveryPartners/dp1/currentOrder/o1"},
		{"partner finished", view.PartnerFinished("dp1", "o1").Path(), "DeliveryPartners/dp1/finishedOrders/o1"},
		{"manual cart", view.CustomerManualCart("u1", "s1").Path(), "Users/u1/userCartData/s1/manualCartProductData"},
		{"partner cart", view.PartnerManualCart("dp1", "o1").Path(), "DeliveryPartners/dp1/pendingOrders/o1/manualCartProductData"},
		{"voice cart", view.CustomerVoiceCart("u1", "vd", "ar").Path(), "Users/u1/userCartData/vd/voiceCartProductData/ar"},
		{"address", view.CustomerAddress("u1", "9876543210").Path(), "Users/u1/userAddress/9876543210"},
		{"duty record", view.DutyRecord(bucket, "dp1").Path(), "DeliveryPartnerDutyStatus/kerala/kollam/14OCT2026/dutyStatus/dp1"},
		{"shop", view.Shop("kerala", "kollam", "s1").Path(), "ShopData/data/kerala/kollam/allShopData/s1"},
		{"tokens", view.TokenMapping("OrderAppClient").Path(), "FCMTokenMapping/OrderAppClient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
