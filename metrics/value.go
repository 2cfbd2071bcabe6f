package metrics

import (
	"math"
	"strconv"
)

// Kind tells which half of a Value is populated.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Value is an integer or a floating point reading.
type Value struct {
	kind Kind
	bits uint64
}

// IntValue wraps an integer reading.
func IntValue(i int64) Value {
	return Value{kind: KindInt, bits: uint64(i)}
}

// FloatValue wraps a floating point reading.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, bits: math.Float64bits(f)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer reading, converting a float by truncation.
func (v Value) Int() int64 {
	if v.kind == KindFloat {
		return int64(math.Float64frombits(v.bits))
	}
	return int64(v.bits)
}

// Float returns the floating point reading, converting an integer.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(int64(v.bits))
	}
	return math.Float64frombits(v.bits)
}

// String renders integers in base 10 and floats with up to six significant
// digits, switching to exponent form for very large or small magnitudes.
func (v Value) String() string {
	return string(v.AppendText(nil))
}

// AppendText appends the rendering of v to dst.
func (v Value) AppendText(dst []byte) []byte {
	if v.kind == KindInt {
		return strconv.AppendInt(dst, int64(v.bits), 10)
	}
	return strconv.AppendFloat(dst, math.Float64frombits(v.bits), 'g', 6, 64)
}
