package functions

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Value represents a SQL value with its type.
type Value interface {
	// Type returns the type of the value
	Type() ValueType

	// AsString returns the value as string
	AsString() string

	// AsBlob returns the value as byte slice
	AsBlob() []byte

	// IsNull returns true if the value is NULL
	IsNull() bool

	// Bytes returns the number of bytes in the value
	Bytes() int
}

// ValueType represents SQL value types.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInteger
	TypeFloat
	TypeText
	TypeBlob
	// TypeUnknown marks a host value that maps to no SQL storage class.
	TypeUnknown
)

// String returns the string representation of the type
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "real"
	case TypeText:
		return "text"
	case TypeBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// SimpleValue is a basic implementation of the Value interface.
type SimpleValue struct {
	typ    ValueType
	intVal int64
	fltVal float64
	strVal string
	blbVal []byte
}

// NewNullValue creates a NULL value
func NewNullValue() Value {
	return &SimpleValue{typ: TypeNull}
}

// NewIntValue creates an integer value
func NewIntValue(v int64) Value {
	return &SimpleValue{typ: TypeInteger, intVal: v}
}

// NewFloatValue creates a float value
func NewFloatValue(v float64) Value {
	return &SimpleValue{typ: TypeFloat, fltVal: v}
}

// NewTextValue creates a text value
func NewTextValue(v string) Value {
	return &SimpleValue{typ: TypeText, strVal: v}
}

// NewBlobValue creates a blob value. A nil slice is an empty blob, not NULL.
func NewBlobValue(v []byte) Value {
	if v == nil {
		v = []byte{}
	}
	return &SimpleValue{typ: TypeBlob, blbVal: v}
}

func newUnknownValue(v any) Value {
	return &SimpleValue{typ: TypeUnknown, strVal: fmt.Sprintf("%T", v)}
}

// ValueOf decodes one host engine argument.
//
// SQLite drivers hand arguments over as database/sql/driver values: nil,
// int64, float64, string or []byte. Other Go integer and float widths and
// bool are accepted for callers building arguments by hand; anything else
// becomes TypeUnknown and is rejected by the hashing functions.
func ValueOf(v driver.Value) Value {
	switch x := v.(type) {
	case nil:
		return NewNullValue()
	case string:
		return NewTextValue(x)
	case []byte:
		return NewBlobValue(x)
	case int64:
		return NewIntValue(x)
	case int:
		return NewIntValue(int64(x))
	case int32:
		return NewIntValue(int64(x))
	case bool:
		if x {
			return NewIntValue(1)
		}
		return NewIntValue(0)
	case float64:
		return NewFloatValue(x)
	case float32:
		return NewFloatValue(float64(x))
	default:
		return newUnknownValue(v)
	}
}

// ValuesOf decodes a full argument list with ValueOf.
func ValuesOf(args []driver.Value) []Value {
	out := make([]Value, len(args))
	for i, arg := range args {
		out[i] = ValueOf(arg)
	}
	return out
}

// DriverValue converts a function result back to a host engine value:
// []byte for blobs, string for text and untyped nil for everything else.
// Hashing functions only ever produce those three.
func DriverValue(v Value) driver.Value {
	if v == nil {
		return nil
	}
	switch v.Type() {
	case TypeBlob:
		return v.AsBlob()
	case TypeText:
		return v.AsString()
	default:
		return nil
	}
}

func (v *SimpleValue) Type() ValueType {
	return v.typ
}

func (v *SimpleValue) AsString() string {
	switch v.typ {
	case TypeText:
		return v.strVal
	case TypeInteger:
		return strconv.FormatInt(v.intVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.fltVal, 'g', -1, 64)
	case TypeBlob:
		return string(v.blbVal)
	default:
		return ""
	}
}

func (v *SimpleValue) AsBlob() []byte {
	switch v.typ {
	case TypeBlob:
		return v.blbVal
	case TypeText:
		return []byte(v.strVal)
	default:
		return nil
	}
}

func (v *SimpleValue) IsNull() bool {
	return v.typ == TypeNull
}

func (v *SimpleValue) Bytes() int {
	switch v.typ {
	case TypeText:
		return len(v.strVal)
	case TypeBlob:
		return len(v.blbVal)
	case TypeInteger, TypeFloat:
		return 8
	default:
		return 0
	}
}

func (v *SimpleValue) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeBlob:
		return fmt.Sprintf("x'%X'", v.blbVal)
	case TypeText:
		return strconv.Quote(v.strVal)
	case TypeUnknown:
		return "<" + v.strVal + ">"
	default:
		return v.AsString()
	}
}
