package types

import (
	"bytes"
	"math"
	"strings"
)

// rank returns the storage-class ordinal used for cross-class ordering.
// Integers and floats share a rank and compare numerically.
func rank(v Value) int {
	switch v.Kind() {
	case KindNull:
		return 0
	case KindInteger, KindFloat:
		return 1
	case KindText:
		return 2
	default:
		return 3
	}
}

// Compare orders two values the way index keys are ordered on disk:
// NULL sorts first, then numerics compared numerically, then text compared
// bytewise, then blobs compared bytewise. The result is <0, 0, or >0.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case *NullValue:
		return 0
	case *IntegerValue:
		switch bv := b.(type) {
		case *IntegerValue:
			return compareInt64(av.Value, bv.Value)
		case *FloatValue:
			return compareIntFloat(av.Value, bv.Value)
		}
	case *FloatValue:
		switch bv := b.(type) {
		case *IntegerValue:
			return -compareIntFloat(bv.Value, av.Value)
		case *FloatValue:
			return compareFloat64(av.Value, bv.Value)
		}
	case *TextValue:
		return strings.Compare(av.Value, b.(*TextValue).Value)
	case *BlobValue:
		return bytes.Compare(av.Value, b.(*BlobValue).Value)
	}
	return 0
}

// Equal reports whether a equals b under WHERE semantics: NULL matches
// nothing (not even NULL), integers and floats compare numerically, text and
// blobs bytewise. Values of different storage classes are never equal.
func Equal(a, b Value) bool {
	if a.Kind() == KindNull || b.Kind() == KindNull {
		return false
	}
	if rank(a) != rank(b) {
		return false
	}
	return Compare(a, b) == 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	// NaN cannot be written by SQLite but can appear in a hand-corrupted
	// file; sort it before every other numeric so ordering stays total.
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareIntFloat compares an int64 against a float64 without the precision
// loss of a single float conversion: int64 values above 2^53 do not round
// trip through float64.
func compareIntFloat(i int64, f float64) int {
	if math.IsNaN(f) {
		return 1
	}
	if f < -9223372036854775808.0 {
		return 1
	}
	if f >= 9223372036854775808.0 {
		return -1
	}

	x := int64(f)
	if i < x {
		return -1
	}
	if i > x {
		return 1
	}
	fi := float64(i)
	if fi < f {
		return -1
	}
	if fi > f {
		return 1
	}
	return 0
}
