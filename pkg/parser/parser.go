// Package parser converts query text into statements. The grammar is
// deliberately small: SELECT with a column list, * or COUNT(*), one table,
// an optional single equality predicate, plus the dot commands the shell
// understands. Everything else fails with UNSUPPORTED_QUERY naming the
// token that broke the parse.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"litequery/pkg/sqlerr"
	"litequery/pkg/types"
)

// ParseStatement parses one input line: a dot command when it starts with a
// period, otherwise a SELECT statement.
func ParseStatement(input string) (Statement, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, sqlerr.New(sqlerr.CodeUnsupportedQuery, "empty statement")
	}
	if strings.HasPrefix(trimmed, ".") {
		return parseCommand(trimmed)
	}

	l := NewLexer(trimmed)
	token := l.NextToken()
	if token.Type != SELECT {
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"only SELECT statements are supported, got %s", tokenText(token))
	}
	l.SetPos(0)
	return parseSelectStatement(l)
}

// parseCommand parses a dot command and its optional argument.
func parseCommand(input string) (Statement, error) {
	fields := strings.Fields(input)
	name := strings.ToLower(fields[0])

	var cmd CommandType
	argAllowed := false
	switch name {
	case ".dbinfo":
		cmd = CmdDBInfo
	case ".tables":
		cmd = CmdTables
	case ".schema":
		cmd, argAllowed = CmdSchema, true
	case ".indexes":
		cmd, argAllowed = CmdIndexes, true
	case ".check":
		cmd = CmdCheck
	default:
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery, "unknown command %q", fields[0])
	}

	if len(fields) > 2 {
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"unexpected argument %q after %s", fields[2], name)
	}
	arg := ""
	if len(fields) == 2 {
		if !argAllowed {
			return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
				"%s takes no argument, got %q", name, fields[1])
		}
		arg = fields[1]
	}
	return &CommandStatement{Command: cmd, Arg: arg}, nil
}

func parseSelectStatement(l *Lexer) (*SelectStatement, error) {
	stmt := &SelectStatement{}

	parseFuncs := []func(*Lexer, *SelectStatement) error{
		parseSelectClause,
		parseFromClause,
		parseWhereClause,
		parseStatementEnd,
	}
	for _, parseFunc := range parseFuncs {
		if err := parseFunc(l, stmt); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func parseSelectClause(l *Lexer, stmt *SelectStatement) error {
	if err := expectToken(l.NextToken(), SELECT); err != nil {
		return err
	}

	token := l.NextToken()
	switch token.Type {
	case ASTERISK:
		stmt.Star = true
		return nil
	case COUNT:
		next := l.NextToken()
		if next.Type == LPAREN {
			if star := l.NextToken(); star.Type != ASTERISK {
				return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
					"only COUNT(*) is supported, got %s inside COUNT", tokenText(star))
			}
			if err := expectToken(l.NextToken(), RPAREN); err != nil {
				return err
			}
			stmt.CountAll = true
			return nil
		}
		// A column that happens to be named count.
		l.SetPos(next.Position)
		return parseColumnList(l, stmt, token)
	case IDENTIFIER:
		return parseColumnList(l, stmt, token)
	default:
		return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"expected a column list, * or COUNT(*), got %s", tokenText(token))
	}
}

func parseColumnList(l *Lexer, stmt *SelectStatement, first Token) error {
	stmt.Columns = append(stmt.Columns, first.Value)
	for consumeCommaIfPresent(l) {
		token := l.NextToken()
		if token.Type != IDENTIFIER && token.Type != COUNT {
			return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
				"expected a column name, got %s", tokenText(token))
		}
		stmt.Columns = append(stmt.Columns, token.Value)
	}
	return nil
}

func parseFromClause(l *Lexer, stmt *SelectStatement) error {
	if err := expectToken(l.NextToken(), FROM); err != nil {
		return err
	}
	token := l.NextToken()
	if token.Type != IDENTIFIER {
		return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"expected a table name after FROM, got %s", tokenText(token))
	}
	stmt.Table = token.Value
	return nil
}

func parseWhereClause(l *Lexer, stmt *SelectStatement) error {
	token := l.NextToken()
	if token.Type != WHERE {
		l.SetPos(token.Position)
		return nil
	}

	col := l.NextToken()
	if col.Type != IDENTIFIER && col.Type != COUNT {
		return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"expected a column name in WHERE, got %s", tokenText(col))
	}
	op := l.NextToken()
	if op.Type != OPERATOR || op.Value != "=" {
		return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"only = comparisons are supported, got %s", tokenText(op))
	}
	value, err := parseLiteral(l)
	if err != nil {
		return err
	}
	stmt.Where = &Predicate{Column: col.Value, Value: value}
	return nil
}

// parseLiteral parses the right side of the predicate: a string, a number
// with an optional sign, or NULL.
func parseLiteral(l *Lexer) (types.Value, error) {
	token := l.NextToken()
	neg := false
	if token.Type == MINUS {
		neg = true
		token = l.NextToken()
	}

	switch token.Type {
	case STRING:
		if neg {
			return nil, sqlerr.New(sqlerr.CodeUnsupportedQuery, "cannot negate a string literal")
		}
		return types.NewText(token.Value), nil
	case INTEGER:
		text := token.Value
		if neg {
			text = "-" + text
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// Integer literals beyond 64 bits read as floats, the same way
			// the file would store them.
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil {
				return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
					"invalid number literal %q", token.Value)
			}
			return types.NewFloat(f), nil
		}
		return types.NewInteger(v), nil
	case FLOAT:
		f, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
				"invalid number literal %q", token.Value)
		}
		if neg {
			f = -f
		}
		return types.NewFloat(f), nil
	case NULL:
		if neg {
			return nil, sqlerr.New(sqlerr.CodeUnsupportedQuery, "cannot negate NULL")
		}
		return types.Null, nil
	default:
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"expected a literal value, got %s", tokenText(token))
	}
}

func parseStatementEnd(l *Lexer, _ *SelectStatement) error {
	token := l.NextToken()
	if token.Type == SEMICOLON {
		token = l.NextToken()
	}
	if token.Type != EOF {
		return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"unexpected %s after the statement", tokenText(token))
	}
	return nil
}

// expectToken validates that the token has the expected type.
func expectToken(t Token, expected TokenType) error {
	if t.Type != expected {
		return sqlerr.Newf(sqlerr.CodeUnsupportedQuery,
			"expected %s, got %s", expected, tokenText(t))
	}
	return nil
}

// consumeCommaIfPresent reads the next token; a comma is consumed, anything
// else rewinds the lexer.
func consumeCommaIfPresent(l *Lexer) bool {
	token := l.NextToken()
	if token.Type == COMMA {
		return true
	}
	l.SetPos(token.Position)
	return false
}

// tokenText renders a token for error messages.
func tokenText(t Token) string {
	if t.Type == EOF {
		return "end of statement"
	}
	return fmt.Sprintf("%q", t.Value)
}
