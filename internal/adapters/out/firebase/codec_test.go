package firebase

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/latlng"
)

func TestEncode_ConvertsLocationsAtAnyDepth(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	doc := view.Document{
		"shop_loc": kernel.MustNewLocation(8.5, 76.95),
		"order_status_data": view.Document{
			"1": view.Document{"key": 1, "title": "Order placed"},
		},
		"stops":      []any{kernel.MustNewLocation(8.4, 76.9)},
		"order_time": at,
	}

	out := encode(doc)

	point, ok := out["shop_loc"].(*latlng.LatLng)
	require.True(t, ok)
	assert.InDelta(t, 8.5, point.GetLatitude(), 1e-9)
	nested, ok := out["order_status_data"].(map[string]any)
	require.True(t, ok)
	_, ok = nested["1"].(map[string]any)
	assert.True(t, ok)
	_, ok = out["stops"].([]any)[0].(*latlng.LatLng)
	assert.True(t, ok)
	assert.Equal(t, at, out["order_time"])
}

func TestDecode_RestoresLocations(t *testing.T) {
	data := map[string]any{
		"delivery_loc_coordinates": &latlng.LatLng{Latitude: 8.49, Longitude: 76.96},
		"broken":                   &latlng.LatLng{Latitude: 120, Longitude: 0},
		"info":                     map[string]any{"dp_loc": &latlng.LatLng{Latitude: 8.5, Longitude: 76.9}},
		"order_status_no":          int64(3),
	}

	doc := decode(data)

	loc, ok := doc.Location("delivery_loc_coordinates")
	require.True(t, ok)
	assert.InDelta(t, 76.96, loc.Lon(), 1e-9)
	assert.Nil(t, doc["broken"])
	_, ok = doc.Map("info").Location("dp_loc")
	assert.True(t, ok)
	assert.Equal(t, int64(3), doc.Int64("order_status_no"))
}

func TestEncodeDecode_KeepsPlainValues(t *testing.T) {
	doc := view.Document{"dp_name": "Arun", "is_partner_assigned": true, "pickup_destination_distance": 1.25}

	back := decode(encode(doc))

	assert.Equal(t, doc, back)
}
