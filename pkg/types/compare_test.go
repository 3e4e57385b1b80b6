package types

import (
	"math"
	"testing"
)

func TestCompareStorageClassOrder(t *testing.T) {
	// NULL < numeric < text < blob
	ordered := []Value{
		Null,
		NewInteger(math.MaxInt64),
		NewText(""),
		NewBlob(nil),
	}

	for i := 0; i < len(ordered)-1; i++ {
		if got := Compare(ordered[i], ordered[i+1]); got >= 0 {
			t.Errorf("Compare(%v, %v) = %d, want < 0", ordered[i], ordered[i+1], got)
		}
		if got := Compare(ordered[i+1], ordered[i]); got <= 0 {
			t.Errorf("Compare(%v, %v) = %d, want > 0", ordered[i+1], ordered[i], got)
		}
	}
}

func TestCompareIntegers(t *testing.T) {
	tests := []struct {
		a, b int64
		want int
	}{
		{1, 2, -1},
		{2, 1, 1},
		{5, 5, 0},
		{math.MinInt64, math.MaxInt64, -1},
	}

	for _, tt := range tests {
		if got := Compare(NewInteger(tt.a), NewInteger(tt.b)); got != tt.want {
			t.Errorf("Compare(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareIntegerFloatNumeric(t *testing.T) {
	if got := Compare(NewInteger(1), NewFloat(1.5)); got != -1 {
		t.Errorf("Compare(1, 1.5) = %d, want -1", got)
	}
	if got := Compare(NewFloat(1.5), NewInteger(2)); got != -1 {
		t.Errorf("Compare(1.5, 2) = %d, want -1", got)
	}
	if got := Compare(NewInteger(3), NewFloat(3.0)); got != 0 {
		t.Errorf("Compare(3, 3.0) = %d, want 0", got)
	}
}

func TestCompareIntFloatBeyondDoublePrecision(t *testing.T) {
	// 2^53+1 is not representable as a float64; a naive conversion would
	// report equality with 2^53.
	big := int64(1<<53 + 1)
	if got := Compare(NewInteger(big), NewFloat(float64(1<<53))); got != 1 {
		t.Errorf("Compare(2^53+1, 2^53) = %d, want 1", got)
	}
	if got := Compare(NewInteger(math.MaxInt64), NewFloat(1e19)); got != -1 {
		t.Errorf("Compare(MaxInt64, 1e19) = %d, want -1", got)
	}
}

func TestCompareText(t *testing.T) {
	if got := Compare(NewText("abc"), NewText("abd")); got >= 0 {
		t.Errorf("Compare(abc, abd) = %d, want < 0", got)
	}
	if got := Compare(NewText("abc"), NewText("abc")); got != 0 {
		t.Errorf("Compare(abc, abc) = %d, want 0", got)
	}
	// Bytewise, not collation-aware: uppercase sorts before lowercase.
	if got := Compare(NewText("Z"), NewText("a")); got >= 0 {
		t.Errorf("Compare(Z, a) = %d, want < 0", got)
	}
}

func TestCompareBlobs(t *testing.T) {
	if got := Compare(NewBlob([]byte{1, 2}), NewBlob([]byte{1, 2, 3})); got >= 0 {
		t.Errorf("shorter prefix blob should sort first, got %d", got)
	}
}

func TestCompareNulls(t *testing.T) {
	if got := Compare(Null, Null); got != 0 {
		t.Errorf("Compare(NULL, NULL) = %d, want 0", got)
	}
}

func TestEqualSemantics(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int matches int", NewInteger(7), NewInteger(7), true},
		{"int matches float", NewInteger(7), NewFloat(7.0), true},
		{"float differs", NewFloat(7.1), NewInteger(7), false},
		{"text matches text", NewText("go"), NewText("go"), true},
		{"text is case sensitive", NewText("Go"), NewText("go"), false},
		{"null matches nothing", Null, Null, false},
		{"null vs int", Null, NewInteger(0), false},
		{"text never matches number", NewText("7"), NewInteger(7), false},
		{"blob matches blob", NewBlob([]byte{9}), NewBlob([]byte{9}), true},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}
