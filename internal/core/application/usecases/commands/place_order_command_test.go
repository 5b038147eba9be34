package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pending"
	"dispatch/internal/pkg/errs"
)

func TestNewPlaceOrderCommand(t *testing.T) {
	lat, lon := 8.52, 76.93

	tests := []struct {
		name      string
		orderType order.Type
		orderID   string
		request   pending.Request
		wantErr   error
	}{
		{
			name:      "shop order",
			orderType: order.TypeShopBrowse,
			request:   pending.Request{UserIDEnc: "enc-user", ShopID: "shop-1"},
		},
		{
			name:      "voice order with location",
			orderType: order.TypeStorePreference,
			orderID:   "ORDOBV20261014093000ABCDEF12",
			request: pending.Request{
				UserIDEnc: "enc-user", VoiceDocID: "doc-1", VoiceAudioRefID: "audio-1",
				CurrentLat: &lat, CurrentLon: &lon,
			},
		},
		{
			name:      "user is required",
			orderType: order.TypeShopBrowse,
			request:   pending.Request{ShopID: "shop-1"},
			wantErr:   commands.ErrUserIDIsRequired,
		},
		{
			name:      "shop order needs a shop",
			orderType: order.TypeShopBrowse,
			request:   pending.Request{UserIDEnc: "enc-user"},
			wantErr:   commands.ErrShopIDIsRequired,
		},
		{
			name:      "voice order needs both voice ids",
			orderType: order.TypeStorePreference,
			request:   pending.Request{UserIDEnc: "enc-user", VoiceDocID: "doc-1"},
			wantErr:   commands.ErrVoiceRefIsRequired,
		},
		{
			name:      "half a location",
			orderType: order.TypeShopBrowse,
			request:   pending.Request{UserIDEnc: "enc-user", ShopID: "shop-1", CurrentLat: &lat},
			wantErr:   errs.ErrValueIsInvalid,
		},
		{
			name:      "order id with a slash",
			orderType: order.TypeShopBrowse,
			orderID:   "ORD/1",
			request:   pending.Request{UserIDEnc: "enc-user", ShopID: "shop-1"},
			wantErr:   errs.ErrValueIsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewPlaceOrderCommand(tt.orderType, tt.orderID, tt.request)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Error(t, cmd.Validate())
				return
			}
			require.NoError(t, err)
			require.NoError(t, cmd.Validate())
			assert.Equal(t, tt.orderType, cmd.OrderType())
			assert.Equal(t, order.ID(tt.orderID), cmd.OrderID())
			assert.Equal(t, tt.request, cmd.Request())
		})
	}
}

func TestPlaceOrderCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.PlaceOrderCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
}

func TestNewPlaceShopAndVoiceOrderCommand(t *testing.T) {
	shopCmd, err := commands.NewPlaceShopOrderCommand("", pending.Request{UserIDEnc: "u", ShopID: "s"})
	require.NoError(t, err)
	assert.Equal(t, order.TypeShopBrowse, shopCmd.OrderType())

	voiceCmd, err := commands.NewPlaceVoiceOrderCommand("", pending.Request{UserIDEnc: "u", VoiceDocID: "d", VoiceAudioRefID: "a"})
	require.NoError(t, err)
	assert.Equal(t, order.TypeStorePreference, voiceCmd.OrderType())
}
