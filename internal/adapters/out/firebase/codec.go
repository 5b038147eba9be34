package firebase

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/view"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// encode turns a view document into Firestore values. Locations become
// GeoPoints; nested documents become maps.
func encode(doc view.Document) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = encodeValue(v)
	}
	return out
}

func encodeValue(v any) any {
	switch t := v.(type) {
	case kernel.Location:
		return &latlng.LatLng{Latitude: t.Lat(), Longitude: t.Lon()}
	case *kernel.Location:
		if t == nil {
			return nil
		}
		return &latlng.LatLng{Latitude: t.Lat(), Longitude: t.Lon()}
	case view.Document:
		return encode(t)
	case map[string]any:
		return encode(view.Document(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = encodeValue(e)
		}
		return out
	default:
		return v
	}
}

// decode is the inverse of encode for data read from Firestore.
func decode(data map[string]any) view.Document {
	out := make(view.Document, len(data))
	for k, v := range data {
		out[k] = decodeValue(v)
	}
	return out
}

func decodeValue(v any) any {
	switch t := v.(type) {
	case *latlng.LatLng:
		if t == nil {
			return nil
		}
		loc, err := kernel.NewLocation(t.GetLatitude(), t.GetLongitude())
		if err != nil {
			return nil
		}
		return loc
	case map[string]any:
		return decode(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = decodeValue(e)
		}
		return out
	default:
		return v
	}
}
