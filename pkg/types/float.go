package types

import "strconv"

// FloatValue represents an IEEE 754 double value.
type FloatValue struct {
	Value float64
}

func NewFloat(value float64) *FloatValue {
	return &FloatValue{Value: value}
}

func (v *FloatValue) Kind() Kind {
	return KindFloat
}

func (v *FloatValue) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}
