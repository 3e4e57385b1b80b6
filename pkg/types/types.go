// Package types defines the value model for rows decoded from a SQLite
// database file. A record is a sequence of Value instances, one per column,
// each carrying its own storage class.
package types

type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindText:
		return "TEXT"
	case KindBlob:
		return "BLOB"
	default:
		return "UNKNOWN"
	}
}

// Value is a single decoded column value. Implementations are immutable;
// String returns the display form used for query output.
type Value interface {
	Kind() Kind

	String() string
}
