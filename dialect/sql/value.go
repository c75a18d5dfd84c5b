package sql

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syssam/sqlforge"
)

// Kind is the variant of a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindDecimal
	KindString
	KindTime
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindString:  "string",
	KindTime:    "time",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Value is a scalar used in WHERE comparisons, INSERT values, UPDATE
// assignments and column defaults. The zero Value is NULL.
//
// A Value keeps the Go value it was created from, which is what a
// parameterized statement hands to the driver.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	bits int // float bit size, 32 or 64
	d    decimal.Decimal
	s    string
	t    time.Time
	src  any
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b, src: b} }

// Int returns a signed integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i, src: i} }

// Uint returns an unsigned integer value.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u, src: u} }

// Float returns a 64-bit floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f, bits: 64, src: f} }

// Float32 returns a 32-bit floating point value. It is rendered in plain
// decimal notation with the fewest digits that round-trip a float32.
func Float32(f float32) Value {
	return Value{kind: KindFloat, f: float64(f), bits: 32, src: f}
}

// Decimal returns an arbitrary precision decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, d: d, src: d} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s, src: s} }

// Time returns a datetime value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t, src: t} }

// ValueOf converts a Go scalar to a Value. Integer and float widths are
// preserved in the source value. Types implementing fmt.Stringer are
// stored as strings, and driver.Valuer types are converted through their
// Value method. Other named types are converted by their underlying kind.
// NaN and infinite floats have no SQL literal and are rejected.
func ValueOf(v any) (Value, error) {
	val, err := valueOf(v)
	if err != nil {
		return Value{}, err
	}
	if val.kind == KindFloat && (math.IsNaN(val.f) || math.IsInf(val.f, 0)) {
		return Value{}, fmt.Errorf("non-finite float %v", val.f)
	}
	return val, nil
}

func valueOf(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int:
		return withSrc(Int(int64(v)), v), nil
	case int8:
		return withSrc(Int(int64(v)), v), nil
	case int16:
		return withSrc(Int(int64(v)), v), nil
	case int32:
		return withSrc(Int(int64(v)), v), nil
	case int64:
		return Int(v), nil
	case uint:
		return withSrc(Uint(uint64(v)), v), nil
	case uint8:
		return withSrc(Uint(uint64(v)), v), nil
	case uint16:
		return withSrc(Uint(uint64(v)), v), nil
	case uint32:
		return withSrc(Uint(uint64(v)), v), nil
	case uint64:
		return Uint(v), nil
	case float32:
		return Float32(v), nil
	case float64:
		return Float(v), nil
	case decimal.Decimal:
		return Decimal(v), nil
	case string:
		return String(v), nil
	case time.Time:
		return Time(v), nil
	case fmt.Stringer:
		return withSrc(String(v.String()), v.String()), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return Value{}, fmt.Errorf("value of %T: %w", v, err)
		}
		if _, ok := dv.(driver.Valuer); ok {
			return Value{}, fmt.Errorf("unsupported value type %T", v)
		}
		return valueOf(dv)
	default:
		return kindOfValue(v)
	}
}

// kindOfValue converts named scalar types, e.g. "type role int8".
func kindOfValue(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	var val Value
	switch rv.Kind() {
	case reflect.Bool:
		val = Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val = Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val = Uint(rv.Uint())
	case reflect.Float32:
		val = Float32(float32(rv.Float()))
	case reflect.Float64:
		val = Float(rv.Float())
	case reflect.String:
		val = String(rv.String())
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
	return withSrc(val, v), nil
}

func withSrc(v Value, src any) Value {
	v.src = src
	return v
}

// MustValue is like ValueOf but panics if the conversion fails.
func MustValue(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(sqlforge.NewModelError("", err.Error()))
	}
	return val
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports if the value is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the Go value the Value was created from. It returns
// nil for NULL.
func (v Value) Interface() any { return v.src }

// GoString returns a debug representation of the value.
func (v Value) GoString() string {
	if v.kind == KindNull {
		return "sql.Null()"
	}
	return fmt.Sprintf("sql.Value(%s:%v)", v.kind, v.src)
}
