package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// Document is the JSON tree of a project file. Keys this package does not
// know about are kept as decoded and written back unchanged.
type Document map[string]any

var errRootNotObject = errors.New("root is not a JSON object")

// ParseDocument decodes data into a Document. Numbers are kept as
// json.Number so they round-trip without float conversion.
func ParseDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level object")
		}
		return nil, err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errRootNotObject
	}
	return Document(obj), nil
}

// Marshal encodes the document with four-space indentation and a trailing
// newline. Keys come out sorted. NaN and infinite numbers are written as
// null; the receiver is not modified.
func (d Document) Marshal() ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	data, err := json.MarshalIndent(finiteObject(d), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding project document: %w", err)
	}
	return append(data, '\n'), nil
}

// Object returns the value at key as a JSON object. Absent keys and
// non-object values yield an empty map.
func (d Document) Object(key string) map[string]any {
	if m, ok := d[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneObject(d))
}

// numberOr returns m[key] as a float64, or def when the key is absent or
// does not hold a JSON number.
func numberOr(m map[string]any, key string, def float64) float64 {
	switch v := m[key].(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return def
		}
		return f
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneObject(val)
	case Document:
		return cloneObject(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}

// finiteObject copies m, replacing non-finite float leaves with nil.
func finiteObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = finiteValue(v)
	}
	return out
}

func finiteValue(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil
		}
		return val
	case map[string]any:
		return finiteObject(val)
	case Document:
		return finiteObject(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = finiteValue(e)
		}
		return out
	default:
		return val
	}
}
