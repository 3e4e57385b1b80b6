package types

// NullValue represents SQL NULL. A single shared instance is enough since
// nulls carry no payload.
type NullValue struct{}

var Null = &NullValue{}

func (v *NullValue) Kind() Kind {
	return KindNull
}

// String renders NULL as an empty string, matching how rows are printed.
func (v *NullValue) String() string {
	return ""
}
