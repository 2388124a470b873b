package arcapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Grant is a single record returned by the data portal. Attribute names
// are the portal's hyphenated field names.
type Grant struct {
	Id         string           `json:"id"`
	Attributes map[string]Value `json:"attributes"`
}

// Kind discriminates the shapes an attribute value can take on the wire.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// Value is one grant attribute. The portal returns heterogeneous value
// shapes, so the decoded scalar is kept alongside the raw JSON literal.
// The zero Value is null, which is also what a missing attribute yields.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	raw  json.RawMessage
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Number returns the numeric value, reporting whether the value is a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Cell returns the textual form written to CSV cells: empty for null,
// the decoded string for strings, and the JSON literal for everything
// else (compacted for lists and maps).
func (v Value) Cell() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	default:
		return string(v.raw)
	}
}

// Arg returns the value in a form database drivers accept. Lists and
// maps are passed through as compact JSON text.
func (v Value) Arg() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return string(v.raw)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty attribute value")
	}

	switch data[0] {
	case 'n':
		*v = Value{kind: KindNull}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{kind: KindString, str: s, raw: append(json.RawMessage(nil), data...)}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Value{kind: KindBool, b: b, raw: append(json.RawMessage(nil), data...)}
		return nil
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		kind := KindList
		if data[0] == '{' {
			kind = KindMap
		}
		*v = Value{kind: kind, raw: buf.Bytes()}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{kind: KindNumber, num: n, raw: append(json.RawMessage(nil), data...)}
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNull || len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}
