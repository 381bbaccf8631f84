// pkg/configstore/value.go - typed option values.

package configstore

import (
	"bytes"
	"fmt"
	"slices"
)

// Kind is the type tag of a stored value. The numbers match the registry
// value types so a value can be written back with the same tag it was read with.
type Kind uint32

const (
	KindNone           Kind = 0
	KindString         Kind = 1
	KindExpandString   Kind = 2
	KindBinary         Kind = 3
	KindDWord          Kind = 4
	KindDWordBigEndian Kind = 5
	KindMultiString    Kind = 7
	KindQWord          Kind = 11
)

// String returns the registry name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "REG_NONE"
	case KindString:
		return "REG_SZ"
	case KindExpandString:
		return "REG_EXPAND_SZ"
	case KindBinary:
		return "REG_BINARY"
	case KindDWord:
		return "REG_DWORD"
	case KindDWordBigEndian:
		return "REG_DWORD_BIG_ENDIAN"
	case KindMultiString:
		return "REG_MULTI_SZ"
	case KindQWord:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("REG_TYPE(%d)", uint32(k))
	}
}

// Value is a tagged union of the payloads the store can hold. Only the field
// selected by Kind is meaningful.
type Value struct {
	Kind    Kind
	Integer uint64
	String  string
	Strings []string
	Binary  []byte
}

func StringValue(s string) Value       { return Value{Kind: KindString, String: s} }
func ExpandStringValue(s string) Value { return Value{Kind: KindExpandString, String: s} }
func DWordValue(n uint32) Value        { return Value{Kind: KindDWord, Integer: uint64(n)} }
func QWordValue(n uint64) Value        { return Value{Kind: KindQWord, Integer: n} }

func BinaryValue(b []byte) Value {
	return Value{Kind: KindBinary, Binary: bytes.Clone(b)}
}

func MultiStringValue(s []string) Value {
	return Value{Kind: KindMultiString, Strings: slices.Clone(s)}
}

// Clone returns a deep copy so the copy shares no slices with v.
func (v Value) Clone() Value {
	c := v
	c.Strings = slices.Clone(v.Strings)
	c.Binary = bytes.Clone(v.Binary)
	return c
}

// Equal reports whether two values carry the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString, KindExpandString:
		return v.String == o.String
	case KindDWord, KindQWord:
		return v.Integer == o.Integer
	case KindMultiString:
		return slices.Equal(v.Strings, o.Strings)
	default:
		return bytes.Equal(v.Binary, o.Binary)
	}
}

// Display renders the payload for logs and tables.
func (v Value) Display() string {
	switch v.Kind {
	case KindString, KindExpandString:
		return v.String
	case KindDWord, KindQWord:
		return fmt.Sprintf("0x%X", v.Integer)
	case KindMultiString:
		return fmt.Sprintf("%q", v.Strings)
	default:
		return fmt.Sprintf("% x", v.Binary)
	}
}
