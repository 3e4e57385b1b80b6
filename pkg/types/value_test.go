package types

import (
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "NULL"},
		{KindInteger, "INTEGER"},
		{KindFloat, "FLOAT"},
		{KindText, "TEXT"},
		{KindBlob, "BLOB"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestIntegerString(t *testing.T) {
	v := NewInteger(-42)

	if v.Kind() != KindInteger {
		t.Errorf("Expected kind %v, got %v", KindInteger, v.Kind())
	}
	if v.String() != "-42" {
		t.Errorf("Expected string -42, got %s", v.String())
	}
}

func TestFloatString(t *testing.T) {
	v := NewFloat(3.14)

	if v.Kind() != KindFloat {
		t.Errorf("Expected kind %v, got %v", KindFloat, v.Kind())
	}
	if v.String() != "3.14" {
		t.Errorf("Expected string 3.14, got %s", v.String())
	}
}

func TestTextString(t *testing.T) {
	v := NewText("hello")

	if v.String() != "hello" {
		t.Errorf("Expected string hello, got %s", v.String())
	}
}

func TestBlobStringIsLowercaseHex(t *testing.T) {
	v := NewBlob([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	if v.String() != "deadbeef" {
		t.Errorf("Expected deadbeef, got %s", v.String())
	}
}

func TestNullStringIsEmpty(t *testing.T) {
	if Null.String() != "" {
		t.Errorf("Expected empty string, got %q", Null.String())
	}
}
