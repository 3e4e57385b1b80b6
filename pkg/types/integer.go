package types

import "strconv"

// IntegerValue represents a 64-bit signed integer value. All of SQLite's
// integer widths decode into this one type.
type IntegerValue struct {
	Value int64
}

func NewInteger(value int64) *IntegerValue {
	return &IntegerValue{Value: value}
}

func (v *IntegerValue) Kind() Kind {
	return KindInteger
}

func (v *IntegerValue) String() string {
	return strconv.FormatInt(v.Value, 10)
}
