package view_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/view"
)

func TestDocument_Accessors(t *testing.T) {
	doc := view.Document{
		"name":    "Fresh Mart",
		"count":   3,
		"millis":  int64(1700000000000),
		"float":   2.5,
		"numStr":  "42",
		"jsonNum": json.Number("7"),
		"flag":    true,
		"loc":     kernel.MustNewLocation(8.5, 76.9),
		"nested":  map[string]any{"label": "Order Placed"},
	}

	assert.Equal(t, "Fresh Mart", doc.String("name"))
	assert.Equal(t, "3", doc.String("count"))
	assert.Equal(t, "2.5", doc.String("float"))
	assert.Equal(t, "", doc.String("missing"))
	assert.Equal(t, int64(1700000000000), doc.Int64("millis"))
	assert.Equal(t, int64(42), doc.Int64("numStr"))
	assert.Equal(t, int64(7), doc.Int64("jsonNum"))
	assert.InDelta(t, 3.0, doc.Float64("count"), 1e-12)
	assert.True(t, doc.Bool("flag"))
	assert.False(t, doc.Bool("name"))
	assert.Equal(t, "Order Placed", doc.Map("nested").String("label"))
	assert.Nil(t, doc.Map("name"))
	assert.True(t, doc.Has("flag"))

	loc, ok := doc.Location("loc")
	assert.True(t, ok)
	assert.InDelta(t, 8.5, loc.Lat(), 1e-12)
	_, ok = doc.Location("name")
	assert.False(t, ok)
}

func TestDocument_Merge(t *testing.T) {
	base := view.Document{
		"order_status_no": 1,
		"order_status_data": view.Document{
			"1": view.Document{"title": "Order placed"},
		},
		"user_name": "Meera",
	}

	merged := base.Merge(view.Document{
		"order_status_no": 2,
		"order_status_data": map[string]any{
			"2": view.Document{"title": "Delivery partner assigned"},
		},
	})

	assert.Equal(t, 2, merged["order_status_no"])
	assert.Equal(t, "Meera", merged.String("user_name"))
	history := merged.Map("order_status_data")
	assert.Equal(t, "Order placed", history.Map("1").String("title"))
	assert.Equal(t, "Delivery partner assigned", history.Map("2").String("title"))
	assert.Equal(t, 1, base["order_status_no"], "merge leaves the receiver untouched")
}

func TestDocument_CloneIsDeep(t *testing.T) {
	original := view.Document{"nested": view.Document{"k": "v"}, "list": []any{view.Document{"a": 1}}}

	clone := original.Clone()
	clone.Map("nested")["k"] = "changed"
	clone["list"].([]any)[0].(view.Document)["a"] = 2

	assert.Equal(t, "v", original.Map("nested").String("k"))
	assert.Equal(t, 1, original["list"].([]any)[0].(view.Document)["a"])
	assert.Nil(t, view.Document(nil).Clone())
}

func TestDocument_With(t *testing.T) {
	doc := view.Document{"a": 1}

	out := doc.With(view.Document{"b": 2})

	assert.Equal(t, view.Document{"a": 1, "b": 2}, out)
	assert.Len(t, doc, 1)
}
