package parser

import "testing"

func FuzzParseStatement(f *testing.F) {
	// Seed corpus: representative statements plus common malformed inputs.
	seeds := []string{
		"SELECT * FROM users WHERE id = 1",
		"SELECT name, color FROM apples",
		"SELECT COUNT(*) FROM oranges;",
		"select id from t where name = 'O''Brien'",
		"SELECT \"First Name\", [last name] FROM `my table`",
		"SELECT * FROM t WHERE score = -3.5",
		".dbinfo",
		".tables",
		".schema users",
		".check",
		// Truncated / malformed
		"SELECT",
		"",
		"SELECT * FROM",
		"WHERE id = 1",
		"SELECT * FROM t WHERE a >= 'x",
		"INSERT INTO t VALUES (1)",
		"SELECT COUNT( FROM t",
		". ",
		".schema a b c",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// ParseStatement must never panic on arbitrary input.
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("ParseStatement panicked on %q: %v", input, r)
			}
		}()
		_, _ = ParseStatement(input)
	})
}
