package parser

import (
	"strings"
	"unicode"
)

// keywords maps uppercase keyword spellings to their token types. Lookup
// uppercases the scanned word, so keywords match in any case while all other
// token text keeps the case it was written in.
var keywords = map[string]TokenType{
	"SELECT": SELECT,
	"COUNT":  COUNT,
	"FROM":   FROM,
	"WHERE":  WHERE,
	"NULL":   NULL,
}

// singleCharTokens maps single-byte punctuation to their token types.
var singleCharTokens = map[byte]TokenType{
	',': COMMA,
	';': SEMICOLON,
	'(': LPAREN,
	')': RPAREN,
	'*': ASTERISK,
	'-': MINUS,
}

// Lexer breaks a SQL input string into tokens. Identifier and literal case
// is preserved; only keyword recognition is case-insensitive.
type Lexer struct {
	input  string
	pos    int
	length int
}

// NewLexer creates a Lexer for the given SQL input string.
func NewLexer(input string) *Lexer {
	trimmed := strings.TrimSpace(input)
	return &Lexer{
		input:  trimmed,
		length: len(trimmed),
	}
}

// SetPos rewinds (or advances) the lexer to an earlier token's Position, the
// backtracking primitive the parser uses for one-token lookahead.
func (l *Lexer) SetPos(pos int) {
	if pos >= 0 && pos <= l.length {
		l.pos = pos
	}
}

// NextToken scans and returns the next token, or an EOF token when the input
// is exhausted.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= l.length {
		return Token{Type: EOF, Position: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	if tt, ok := singleCharTokens[ch]; ok {
		l.pos++
		return l.createToken(tt, string(ch), start)
	}

	switch {
	case isOperatorChar(ch):
		return l.readOperator(start)
	case ch == '\'':
		return l.readString(start)
	case ch == '"' || ch == '`':
		return l.readQuotedIdentifier(start, ch)
	case ch == '[':
		return l.readBracketIdentifier(start)
	case unicode.IsDigit(rune(ch)):
		return l.readNumber(start)
	case unicode.IsLetter(rune(ch)) || ch == '_':
		return l.readIdentifier(start)
	default:
		l.pos++
		return l.createToken(INVALID, string(ch), start)
	}
}

// skipWhitespace advances the position past any whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.pos < l.length && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '<' || ch == '>' || ch == '!'
}

// readOperator reads a run of comparison characters as one token, so a
// rejected operator like >= is named whole in the error message.
func (l *Lexer) readOperator(start int) Token {
	for l.pos < l.length && isOperatorChar(l.input[l.pos]) {
		l.pos++
	}
	return l.createToken(OPERATOR, l.input[start:l.pos], start)
}

// readString reads a single-quoted string literal. A doubled quote inside
// the literal stands for one quote character. An unterminated literal
// becomes an INVALID token.
func (l *Lexer) readString(start int) Token {
	l.pos++ // opening quote

	var sb strings.Builder
	for l.pos < l.length {
		ch := l.input[l.pos]
		if ch == '\'' {
			if l.pos+1 < l.length && l.input[l.pos+1] == '\'' {
				sb.WriteByte('\'')
				l.pos += 2
				continue
			}
			l.pos++
			return l.createToken(STRING, sb.String(), start)
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return l.createToken(INVALID, l.input[start:], start)
}

// readQuotedIdentifier reads an identifier delimited by double quotes or
// backticks, with the delimiter doubled to escape itself.
func (l *Lexer) readQuotedIdentifier(start int, quote byte) Token {
	l.pos++ // opening quote

	var sb strings.Builder
	for l.pos < l.length {
		ch := l.input[l.pos]
		if ch == quote {
			if l.pos+1 < l.length && l.input[l.pos+1] == quote {
				sb.WriteByte(quote)
				l.pos += 2
				continue
			}
			l.pos++
			return l.createToken(IDENTIFIER, sb.String(), start)
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return l.createToken(INVALID, l.input[start:], start)
}

// readBracketIdentifier reads a [bracketed] identifier. Brackets have no
// escape form.
func (l *Lexer) readBracketIdentifier(start int) Token {
	l.pos++ // opening bracket
	for l.pos < l.length && l.input[l.pos] != ']' {
		l.pos++
	}
	if l.pos >= l.length {
		return l.createToken(INVALID, l.input[start:], start)
	}
	value := l.input[start+1 : l.pos]
	l.pos++
	return l.createToken(IDENTIFIER, value, start)
}

// readNumber reads an integer or float literal: digits, an optional decimal
// part, and an optional exponent.
func (l *Lexer) readNumber(start int) Token {
	tt := INTEGER
	for l.pos < l.length && unicode.IsDigit(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos < l.length && l.input[l.pos] == '.' {
		tt = FLOAT
		l.pos++
		for l.pos < l.length && unicode.IsDigit(rune(l.input[l.pos])) {
			l.pos++
		}
	}
	if l.pos < l.length && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < l.length && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos < l.length && unicode.IsDigit(rune(l.input[l.pos])) {
			tt = FLOAT
			for l.pos < l.length && unicode.IsDigit(rune(l.input[l.pos])) {
				l.pos++
			}
		} else {
			l.pos = mark // the e starts an identifier, not an exponent
		}
	}
	return l.createToken(tt, l.input[start:l.pos], start)
}

// readIdentifier reads a bare identifier or keyword.
func (l *Lexer) readIdentifier(start int) Token {
	for l.pos < l.length && l.isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	value := l.input[start:l.pos]
	if tt, ok := keywords[strings.ToUpper(value)]; ok {
		return l.createToken(tt, value, start)
	}
	return l.createToken(IDENTIFIER, value, start)
}

func (l *Lexer) isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}

// createToken constructs a Token with the given type, value, and starting
// position.
func (l *Lexer) createToken(t TokenType, value string, start int) Token {
	return Token{Type: t, Value: value, Position: start}
}
