package types

// TextValue represents a TEXT value, held as a Go string.
type TextValue struct {
	Value string
}

func NewText(value string) *TextValue {
	return &TextValue{Value: value}
}

func (v *TextValue) Kind() Kind {
	return KindText
}

func (v *TextValue) String() string {
	return v.Value
}
