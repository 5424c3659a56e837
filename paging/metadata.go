package paging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is a JSON-compatible tagged union used for metadata entries.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	obj  map[string]Value
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue returns a number Value.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// IntValue returns a number Value holding n.
func IntValue(n int64) Value { return NumberValue(float64(n)) }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ListValue returns a list Value.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// ObjectValue returns a nested object Value.
func ObjectValue(fields map[string]Value) Value {
	return Value{kind: KindObject, obj: maps.Clone(fields)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsList returns the items held by v.
func (v Value) AsList() ([]Value, bool) { return slices.Clone(v.list), v.kind == KindList }

// AsObject returns the fields held by v.
func (v Value) AsObject() (map[string]Value, bool) { return maps.Clone(v.obj), v.kind == KindObject }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := valueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueOf(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("metadata number %s: %w", x, err)
		}
		return NumberValue(n), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			v, err := valueOf(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			v, err := valueOf(item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Value{kind: KindObject, obj: fields}, nil
	default:
		return Value{}, fmt.Errorf("metadata: unsupported JSON value %T", raw)
	}
}

// Metadata is the free-form extension slot of a Paginator.
type Metadata map[string]Value

// Set stores v under key.
func (m Metadata) Set(key string, v Value) { m[key] = v }

// Get returns the value stored under key.
func (m Metadata) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// MarshalJSON renders a nil Metadata as an empty object.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Value(m))
}
