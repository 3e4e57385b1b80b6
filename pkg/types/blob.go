package types

import "encoding/hex"

// BlobValue represents a BLOB value. The byte slice is owned by the value
// and must not be mutated after construction.
type BlobValue struct {
	Value []byte
}

func NewBlob(value []byte) *BlobValue {
	return &BlobValue{Value: value}
}

func (v *BlobValue) Kind() Kind {
	return KindBlob
}

// String renders the blob as lowercase hex, the form used for query output.
func (v *BlobValue) String() string {
	return hex.EncodeToString(v.Value)
}
