package field

import "time"

// Type is a logical column type, independent of any dialect's concrete type
// keyword. Dialects map it to a column type when rendering CREATE TABLE.
type Type uint8

// Logical column types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeTime
	TypeString
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid: "invalid",
		TypeBool:    "bool",
		TypeTime:    "time.Time",
		TypeString:  "string",
		TypeInt8:    "int8",
		TypeInt16:   "int16",
		TypeInt32:   "int32",
		TypeInt64:   "int64",
		TypeUint8:   "uint8",
		TypeUint16:  "uint16",
		TypeUint32:  "uint32",
		TypeUint64:  "uint64",
		TypeFloat32: "float32",
		TypeFloat64: "float64",
	}
	constNames = [...]string{
		TypeInvalid: "invalid",
		TypeBool:    "TypeBool",
		TypeTime:    "TypeTime",
		TypeString:  "TypeString",
		TypeInt8:    "TypeInt8",
		TypeInt16:   "TypeInt16",
		TypeInt32:   "TypeInt32",
		TypeInt64:   "TypeInt64",
		TypeUint8:   "TypeUint8",
		TypeUint16:  "TypeUint16",
		TypeUint32:  "TypeUint32",
		TypeUint64:  "TypeUint64",
		TypeFloat32: "TypeFloat32",
		TypeFloat64: "TypeFloat64",
	}
)

// Types returns all valid logical types in declaration order.
func Types() []Type {
	ts := make([]Type, 0, endTypes-1)
	for t := TypeBool; t < endTypes; t++ {
		ts = append(ts, t)
	}
	return ts
}

// String returns the Go type name of the logical type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// ConstName returns the constant name of the type.
func (t Type) ConstName() string {
	if t < endTypes {
		return constNames[t]
	}
	return constNames[TypeInvalid]
}

// Valid reports if the given type is known.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the type is a signed or unsigned integer.
func (t Type) Integer() bool { return t >= TypeInt8 && t <= TypeUint64 }

// Unsigned reports if the type is an unsigned integer.
func (t Type) Unsigned() bool { return t >= TypeUint8 && t <= TypeUint64 }

// Float reports if the type is a floating point number.
func (t Type) Float() bool { return t == TypeFloat32 || t == TypeFloat64 }

// Numeric reports if the type is a numeric type.
func (t Type) Numeric() bool { return t.Integer() || t.Float() }

// TypeOf returns the logical type of the given Go value, or TypeInvalid if
// the value has no logical type. Plain int and uint map to the 64-bit
// types.
func TypeOf(v any) Type {
	switch v.(type) {
	case bool:
		return TypeBool
	case time.Time:
		return TypeTime
	case string:
		return TypeString
	case int8:
		return TypeInt8
	case int16:
		return TypeInt16
	case int32:
		return TypeInt32
	case int, int64:
		return TypeInt64
	case uint8:
		return TypeUint8
	case uint16:
		return TypeUint16
	case uint32:
		return TypeUint32
	case uint, uint64:
		return TypeUint64
	case float32:
		return TypeFloat32
	case float64:
		return TypeFloat64
	default:
		return TypeInvalid
	}
}

// ParseType returns the logical type with the given Go type name. "time" is
// accepted as a short form of "time.Time".
func ParseType(name string) (Type, bool) {
	if name == "time" {
		return TypeTime, true
	}
	for _, t := range Types() {
		if typeNames[t] == name {
			return t, true
		}
	}
	return TypeInvalid, false
}
