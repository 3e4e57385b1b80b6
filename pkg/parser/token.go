package parser

// TokenType classifies a lexed token.
type TokenType int

const (
	SELECT TokenType = iota
	COUNT
	FROM
	WHERE
	NULL

	IDENTIFIER
	STRING
	INTEGER
	FLOAT

	OPERATOR
	COMMA
	SEMICOLON
	LPAREN
	RPAREN
	ASTERISK
	MINUS

	INVALID
	EOF
)

var tokenTypeNames = map[TokenType]string{
	SELECT:     "SELECT",
	COUNT:      "COUNT",
	FROM:       "FROM",
	WHERE:      "WHERE",
	NULL:       "NULL",
	IDENTIFIER: "IDENTIFIER",
	STRING:     "STRING",
	INTEGER:    "INTEGER",
	FLOAT:      "FLOAT",
	OPERATOR:   "OPERATOR",
	COMMA:      "COMMA",
	SEMICOLON:  "SEMICOLON",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	ASTERISK:   "ASTERISK",
	MINUS:      "MINUS",
	INVALID:    "INVALID",
	EOF:        "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is one lexed unit of the input. Value holds the token text with its
// original case; for quoted identifiers and string literals it is the
// unquoted content.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}
