package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/domain/model/order"
)

func TestStageOf(t *testing.T) {
	tests := []struct {
		name     string
		status   order.Status
		assigned bool
		label    string
		bg, fg   string
	}{
		{"draft", order.UnassignedDraft, false, "Partner not assigned!", "#e0af19", "#990000"},
		{"placed", order.Placed, false, "Order Placed", "#1d4176", "#ffffff"},
		{"assigned", order.PartnerDecision, true, "Delivery partner assigned", "#1d4176", "#ffffff"},
		{"waiting", order.PartnerDecision, false, "Delivery partner not assigned", "#ab3109", "#ffffff"},
		{"accepted", order.Accepted, true, "Order Accepted", "#1d4176", "#ffffff"},
		{"picked", order.PickedUp, true, "Order Picked", "#3d85c6", "#ffffff"},
		{"en route", order.EnRoute, true, "Order enrouted", "#8fce00", "#16537e"},
		{"delivered", order.Delivered, true, "Order Delivered", "#8fce00", "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := order.StageOf(tt.status, tt.assigned)

			assert.Equal(t, tt.status, stage.Status)
			assert.Equal(t, tt.label, stage.Label)
			assert.Equal(t, tt.bg, stage.BgColor)
			assert.Equal(t, tt.fg, stage.FgColor)
		})
	}
}

func TestHistoryOf(t *testing.T) {
	t.Run("draft has no history", func(t *testing.T) {
		assert.Empty(t, order.HistoryOf(order.UnassignedDraft, false))
	})

	t.Run("entries up to the current milestone", func(t *testing.T) {
		entries := order.HistoryOf(order.PickedUp, true)

		assert.Len(t, entries, 4)
		assert.Equal(t, 1, entries[0].Key)
		assert.Equal(t, "Order placed", entries[0].Title)
		assert.Equal(t, "Delivery partner assigned", entries[1].Title)
		assert.Equal(t, 4, entries[3].Key)
		assert.Equal(t, "Your order has picked up from shop.", entries[3].SubTitle)
	})

	t.Run("waiting branch replaces entry two", func(t *testing.T) {
		entries := order.HistoryOf(order.PartnerDecision, false)

		assert.Len(t, entries, 2)
		assert.Equal(t, "Delivery partner not assigned", entries[1].Title)
		assert.Equal(t, "We'll assign a delivery partner soon.", entries[1].SubTitle)
	})
}
