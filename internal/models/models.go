package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind identifies which variant of a JSON value a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Map
)

// String returns the JSON type name of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "array"
	case Map:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON-compatible value. Exactly one of the payload fields is
// meaningful, selected by Kind. Values are not mutated after construction.
type Value struct {
	Kind    Kind
	flag    bool
	text    string // number literal or string contents
	items   []Value
	members []Member
}

// Member is one key/value pair of a JSON object, kept in insertion order.
type Member struct {
	Key   string
	Value Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{Kind: Null} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: Bool, flag: b} }

// NumberValue wraps a JSON number literal. The literal is expected to be a
// valid JSON number; the parser guarantees that for decoded input.
func NumberValue(n json.Number) Value { return Value{Kind: Number, text: string(n)} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: String, text: s} }

// ListValue builds an array from its elements.
func ListValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: List, items: items}
}

// MapValue builds an object from members in the given order. A repeated key
// keeps its first position and takes the last value.
func MapValue(members ...Member) Value {
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{Kind: Map, members: out}
}

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// Number returns the number literal.
func (v Value) Number() json.Number { return json.Number(v.text) }

// Str returns the string payload.
func (v Value) Str() string { return v.text }

// Items returns the array elements. The slice must not be modified.
func (v Value) Items() []Value { return v.items }

// Members returns the object members in order. The slice must not be modified.
func (v Value) Members() []Member { return v.members }

// Len is the number of children of an array or object, zero otherwise.
func (v Value) Len() int {
	switch v.Kind {
	case List:
		return len(v.items)
	case Map:
		return len(v.members)
	default:
		return 0
	}
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool {
	return v.Kind == List || v.Kind == Map
}

// IsNested reports whether v is a non-empty array or object. Nested values
// render collapsible.
func (v Value) IsNested() bool {
	return v.IsContainer() && v.Len() > 0
}

// Literal returns the JSON literal of a scalar. Containers yield their
// canonical text.
func (v Value) Literal() string {
	switch v.Kind {
	case Null:
		return "null"
	case Bool:
		if v.flag {
			return "true"
		}
		return "false"
	case Number:
		return v.text
	case String:
		return Quote(v.text)
	default:
		return v.JSON()
	}
}

// JSON returns the canonical JSON text of v: no indentation, ", " between
// elements and ": " after keys, key order preserved.
func (v Value) JSON() string {
	var b strings.Builder
	v.writeJSON(&b)
	return b.String()
}

func (v Value) writeJSON(b *strings.Builder) {
	switch v.Kind {
	case List:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeJSON(b)
		}
		b.WriteByte(']')
	case Map:
		b.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Quote(m.Key))
			b.WriteString(": ")
			m.Value.writeJSON(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString(v.Literal())
	}
}

// Quote returns s as a JSON string literal. HTML characters are left alone;
// callers embedding the result in markup escape it themselves.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// Equal reports whether a and b are the same JSON value, including key order.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Null:
		return true
	case Bool:
		return a.flag == b.flag
	case Number, String:
		return a.text == b.text
	case List:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
