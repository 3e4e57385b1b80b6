package parser

import "testing"

func collectTokens(input string) []Token {
	l := NewLexer(input)
	var out []Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestLexerTokenStream(t *testing.T) {
	toks := collectTokens("SELECT id, name FROM t WHERE x = 'a b';")
	want := []struct {
		typ   TokenType
		value string
	}{
		{SELECT, "SELECT"}, {IDENTIFIER, "id"}, {COMMA, ","}, {IDENTIFIER, "name"},
		{FROM, "FROM"}, {IDENTIFIER, "t"}, {WHERE, "WHERE"}, {IDENTIFIER, "x"},
		{OPERATOR, "="}, {STRING, "a b"}, {SEMICOLON, ";"}, {EOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Value != w.value {
			t.Errorf("token %d = %v %q, want %v %q", i, toks[i].Type, toks[i].Value, w.typ, w.value)
		}
	}
}

func TestLexerKeywordsMatchAnyCase(t *testing.T) {
	toks := collectTokens("sElEcT CoUnT fRoM nUlL")
	wantTypes := []TokenType{SELECT, COUNT, FROM, NULL, EOF}
	wantValues := []string{"sElEcT", "CoUnT", "fRoM", "nUlL", ""}
	for i, wt := range wantTypes {
		if toks[i].Type != wt {
			t.Errorf("token %d type = %v, want %v", i, toks[i].Type, wt)
		}
		if toks[i].Value != wantValues[i] {
			t.Errorf("token %d value = %q, want original case %q", i, toks[i].Value, wantValues[i])
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"7", INTEGER},
		{"1234567890123", INTEGER},
		{"3.25", FLOAT},
		{"2e5", FLOAT},
		{"10E-3", FLOAT},
		{"4.", FLOAT},
	}
	for _, tt := range tests {
		toks := collectTokens(tt.input)
		if toks[0].Type != tt.typ || toks[0].Value != tt.input {
			t.Errorf("%q = %v %q, want %v %q", tt.input, toks[0].Type, toks[0].Value, tt.typ, tt.input)
		}
	}

	// An e with no exponent digits is an identifier boundary, not a float.
	toks := collectTokens("1e")
	if toks[0].Type != INTEGER || toks[0].Value != "1" {
		t.Errorf("first token = %v %q, want INTEGER 1", toks[0].Type, toks[0].Value)
	}
	if toks[1].Type != IDENTIFIER || toks[1].Value != "e" {
		t.Errorf("second token = %v %q, want IDENTIFIER e", toks[1].Type, toks[1].Value)
	}
}

func TestLexerOperatorsReadWhole(t *testing.T) {
	toks := collectTokens("a >= b")
	if toks[1].Type != OPERATOR || toks[1].Value != ">=" {
		t.Errorf("operator token = %v %q, want OPERATOR >=", toks[1].Type, toks[1].Value)
	}
}

func TestLexerSetPosRelexes(t *testing.T) {
	l := NewLexer("SELECT name")
	l.NextToken()
	second := l.NextToken()

	l.SetPos(second.Position)
	if again := l.NextToken(); again != second {
		t.Errorf("relexed token = %+v, want %+v", again, second)
	}
}

func TestLexerUnterminatedForms(t *testing.T) {
	for _, input := range []string{"'abc", `"abc`, "[abc", "`abc"} {
		toks := collectTokens(input)
		if toks[0].Type != INVALID {
			t.Errorf("%q: first token = %v, want INVALID", input, toks[0].Type)
		}
	}
}
