package view

import (
	"encoding/json"
	"maps"
	"strconv"

	"dispatch/internal/core/domain/model/kernel"
)

// Document is the payload of one view. Values are strings, numbers, booleans,
// kernel.Location, nested Documents and slices of those.
type Document map[string]any

// String returns the value under key formatted as a string, "" when absent.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Int64 returns the numeric value under key, 0 when absent or not numeric.
func (d Document) Int64(key string) int64 {
	switch v := d[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

// Float64 returns the numeric value under key, 0 when absent or not numeric.
func (d Document) Float64(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func (d Document) Bool(key string) bool {
	v, _ := d[key].(bool)
	return v
}

// Location returns the position stored under key.
func (d Document) Location(key string) (kernel.Location, bool) {
	loc, ok := d[key].(kernel.Location)
	if !ok || loc.Validate() != nil {
		return kernel.Location{}, false
	}
	return loc, true
}

// Map returns the nested document under key.
func (d Document) Map(key string) Document {
	switch v := d[key].(type) {
	case Document:
		return v
	case map[string]any:
		return Document(v)
	default:
		return nil
	}
}

func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a copy of d with other merged in; nested documents merge
// recursively and every other value in other replaces the one in d.
func (d Document) Merge(other Document) Document {
	out := d.Clone()
	if out == nil {
		out = Document{}
	}
	for k, v := range other {
		if nested, ok := asDocument(v); ok {
			if current, ok := asDocument(out[k]); ok {
				out[k] = current.Merge(nested)
				continue
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}

// With returns a shallow copy of d with the given fields set.
func (d Document) With(fields Document) Document {
	out := maps.Clone(d)
	if out == nil {
		out = Document{}
	}
	maps.Copy(out, fields)
	return out
}

func asDocument(v any) (Document, bool) {
	switch m := v.(type) {
	case Document:
		return m, true
	case map[string]any:
		return Document(m), true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return Document(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
