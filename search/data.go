package search

import (
	"encoding/json"
	"reflect"

	"github.com/friendsofgo/errors"
)

// Data is the value a search form reads from and writes to.
//
// Implementations are usually pointers to structs whose exported fields (or
// fields tagged `search:"name"`) hold filter values, or Values. Clone must
// return an independent deep copy.
type Data interface {
	Clone() Data
}

// Values is a map-backed Data.
type Values map[string]any

// Clone implements Data.
func (v Values) Clone() Data {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	}
	return v
}

// TypeName returns a stable tag for the concrete type of d, used to detect
// stale stored data after the prototype type changes.
func TypeName(d Data) string {
	if d == nil {
		return ""
	}
	return reflect.TypeOf(d).String()
}

// Encode serializes d together with its type tag.
func Encode(d Data) (string, []byte, error) {
	if d == nil {
		return "", nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return "", nil, errors.Wrap(err, "search: encode data")
	}
	return TypeName(d), raw, nil
}

// Decode restores data encoded by Encode into a fresh clone of prototype.
// It returns false when the tag does not match the prototype or the payload
// cannot be decoded; callers then fall back to prototype.Clone().
func Decode(prototype Data, tag string, raw []byte) (Data, bool) {
	if prototype == nil || len(raw) == 0 || tag != TypeName(prototype) {
		return nil, false
	}

	d := prototype.Clone()
	if v, ok := d.(Values); ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, false
		}
		return v, true
	}

	if reflect.TypeOf(d).Kind() != reflect.Ptr {
		return nil, false
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, false
	}
	return d, true
}
