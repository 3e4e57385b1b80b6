package catalog

import (
	"fmt"
	"strings"

	"litequery/pkg/parser"
)

// tableConstraintWords start a table-level constraint instead of a column
// when one of them appears unquoted at the front of a definition.
var tableConstraintWords = map[string]bool{
	"PRIMARY":    true,
	"UNIQUE":     true,
	"CHECK":      true,
	"FOREIGN":    true,
	"CONSTRAINT": true,
}

// columnConstraintWords end the type-name portion of a column definition.
var columnConstraintWords = map[string]bool{
	"CONSTRAINT": true,
	"PRIMARY":    true,
	"UNIQUE":     true,
	"CHECK":      true,
	"DEFAULT":    true,
	"COLLATE":    true,
	"REFERENCES": true,
	"NOT":        true,
	"NULL":       true,
	"GENERATED":  true,
	"AS":         true,
}

type columnDef struct {
	name      string
	isInteger bool // declared type is exactly INTEGER
	isAlias   bool
}

// tableShape extracts the declared column order and the rowid-alias column
// from a CREATE TABLE statement.
//
// The alias is the column declared INTEGER PRIMARY KEY, at any position,
// including the table-constraint form PRIMARY KEY(col) on a single INTEGER
// column. A column declared INTEGER PRIMARY KEY DESC is the odd one out: it
// keeps its own storage and does not alias the rowid. Statements without a
// declared column list (CREATE TABLE ... AS SELECT, virtual tables) and
// generated columns are reported as errors; callers treat such tables as
// opaque.
func tableShape(sql string) ([]string, int, error) {
	src := strings.TrimSpace(sql)
	l := parser.NewLexer(src)

	if !isWord(l.NextToken(), "CREATE") {
		return nil, -1, fmt.Errorf("not a CREATE TABLE statement")
	}
	if !isWord(l.NextToken(), "TABLE") {
		return nil, -1, fmt.Errorf("not a CREATE TABLE statement")
	}

	// Skip IF NOT EXISTS and the (possibly quoted) table name.
	for {
		tok := l.NextToken()
		switch tok.Type {
		case parser.LPAREN:
			return readColumnDefs(src, l)
		case parser.EOF, parser.INVALID:
			return nil, -1, fmt.Errorf("no column list")
		default:
			if isWord(tok, "AS") && !quotedIn(src, tok) {
				return nil, -1, fmt.Errorf("CREATE TABLE ... AS declares no columns")
			}
		}
	}
}

// readColumnDefs consumes the parenthesized definition list, the lexer
// positioned just past the opening paren.
func readColumnDefs(src string, l *parser.Lexer) ([]string, int, error) {
	var defs [][]parser.Token
	var def []parser.Token
	depth := 0
scan:
	for {
		tok := l.NextToken()
		switch {
		case tok.Type == parser.EOF || tok.Type == parser.INVALID:
			return nil, -1, fmt.Errorf("unterminated column list")
		case tok.Type == parser.LPAREN:
			depth++
			def = append(def, tok)
		case tok.Type == parser.RPAREN && depth > 0:
			depth--
			def = append(def, tok)
		case tok.Type == parser.RPAREN:
			if len(def) > 0 {
				defs = append(defs, def)
			}
			break scan
		case tok.Type == parser.COMMA && depth == 0:
			if len(def) == 0 {
				return nil, -1, fmt.Errorf("empty column definition")
			}
			defs = append(defs, def)
			def = nil
		default:
			def = append(def, tok)
		}
	}
	if len(defs) == 0 {
		return nil, -1, fmt.Errorf("empty column list")
	}

	var cols []columnDef
	var constraints [][]parser.Token
	for _, def := range defs {
		first := def[0]
		if !isWordToken(first) {
			return nil, -1, fmt.Errorf("unexpected %q at start of a definition", first.Value)
		}
		if tableConstraintWords[strings.ToUpper(first.Value)] && !quotedIn(src, first) {
			constraints = append(constraints, def)
			continue
		}
		cd, err := analyzeColumn(src, def)
		if err != nil {
			return nil, -1, err
		}
		cols = append(cols, cd)
	}

	alias := -1
	for i, cd := range cols {
		if cd.isAlias {
			alias = i
			break
		}
	}
	if alias < 0 {
		for _, def := range constraints {
			if isWord(def[0], "CONSTRAINT") && len(def) > 2 {
				def = def[2:] // drop CONSTRAINT <name>
			}
			if !isWord(def[0], "PRIMARY") {
				continue
			}
			if name, ok := primaryKeyColumn(def); ok {
				for i, cd := range cols {
					if cd.isInteger && strings.EqualFold(cd.name, name) {
						alias = i
						break
					}
				}
			}
			break
		}
	}

	names := make([]string, len(cols))
	for i, cd := range cols {
		names[i] = cd.name
	}
	return names, alias, nil
}

// analyzeColumn reads one column definition: the name, whether its declared
// type is exactly INTEGER, and whether its constraints make it the rowid
// alias.
func analyzeColumn(src string, def []parser.Token) (columnDef, error) {
	cd := columnDef{name: def[0].Value}

	i := 1
	typeWords := 0
	var typeName string
	for i < len(def) && isWordToken(def[i]) {
		if columnConstraintWords[strings.ToUpper(def[i].Value)] && !quotedIn(src, def[i]) {
			break
		}
		typeName = def[i].Value
		typeWords++
		i++
	}
	typeArgs := i < len(def) && def[i].Type == parser.LPAREN
	cd.isInteger = typeWords == 1 && strings.EqualFold(typeName, "INTEGER") && !typeArgs

	depth := 0
	for ; i < len(def); i++ {
		tok := def[i]
		switch tok.Type {
		case parser.LPAREN:
			depth++
			continue
		case parser.RPAREN:
			depth--
			continue
		}
		if depth != 0 || !isWordToken(tok) || quotedIn(src, tok) {
			continue
		}
		switch strings.ToUpper(tok.Value) {
		case "GENERATED", "AS":
			// Generated columns shift or drop record positions, which
			// breaks name-to-position projection for the whole table.
			return columnDef{}, fmt.Errorf("column %s is generated", cd.name)
		case "PRIMARY":
			if i+1 < len(def) && isWord(def[i+1], "KEY") {
				desc := i+2 < len(def) && isWord(def[i+2], "DESC")
				if cd.isInteger && !desc {
					cd.isAlias = true
				}
			}
		}
	}
	return cd, nil
}

// primaryKeyColumn matches the table-constraint form PRIMARY KEY(col [ASC|DESC]).
// Multi-column keys do not match.
func primaryKeyColumn(def []parser.Token) (string, bool) {
	if len(def) < 5 || !isWord(def[1], "KEY") || def[2].Type != parser.LPAREN {
		return "", false
	}
	if !isWordToken(def[3]) {
		return "", false
	}
	name := def[3].Value
	i := 4
	if isWord(def[i], "ASC") || isWord(def[i], "DESC") {
		i++
	}
	if i >= len(def) || def[i].Type != parser.RPAREN {
		return "", false
	}
	return name, true
}

// indexedColumn extracts the key column of a CREATE INDEX statement. It
// returns "" for anything the seek path cannot serve: multi-column keys,
// expressions, DESC ordering, explicit collations, and partial indexes, all
// of which change the comparison order or the membership of the tree.
func indexedColumn(sql string) string {
	src := strings.TrimSpace(sql)
	if src == "" {
		return ""
	}
	l := parser.NewLexer(src)

	if !isWord(l.NextToken(), "CREATE") {
		return ""
	}
	tok := l.NextToken()
	if isWord(tok, "UNIQUE") && !quotedIn(src, tok) {
		tok = l.NextToken()
	}
	if !isWord(tok, "INDEX") {
		return ""
	}

	// Index name, ON, table name. Names may be quoted and may contain
	// parens, so walk tokens rather than bytes to find the key list.
	for {
		tok = l.NextToken()
		if tok.Type == parser.LPAREN {
			break
		}
		if tok.Type == parser.EOF || tok.Type == parser.INVALID {
			return ""
		}
	}

	var item []parser.Token
	depth := 0
scan:
	for {
		tok = l.NextToken()
		switch {
		case tok.Type == parser.EOF || tok.Type == parser.INVALID:
			return ""
		case tok.Type == parser.LPAREN:
			depth++
			item = append(item, tok)
		case tok.Type == parser.RPAREN && depth > 0:
			depth--
			item = append(item, tok)
		case tok.Type == parser.RPAREN:
			break scan
		case tok.Type == parser.COMMA && depth == 0:
			return ""
		default:
			item = append(item, tok)
		}
	}
	if tok = l.NextToken(); isWord(tok, "WHERE") && !quotedIn(src, tok) {
		return ""
	}

	if len(item) == 0 || !isWordToken(item[0]) {
		return ""
	}
	for _, extra := range item[1:] {
		if !isWord(extra, "ASC") || quotedIn(src, extra) {
			return ""
		}
	}
	return item[0].Value
}

func isWordToken(tok parser.Token) bool {
	switch tok.Type {
	case parser.IDENTIFIER, parser.SELECT, parser.COUNT, parser.FROM, parser.WHERE, parser.NULL:
		return true
	default:
		return false
	}
}

func isWord(tok parser.Token, want string) bool {
	return isWordToken(tok) && strings.EqualFold(tok.Value, want)
}

// quotedIn reports whether the token was written in one of the identifier
// quoting forms, which makes it a name even when it spells a keyword.
func quotedIn(src string, tok parser.Token) bool {
	if tok.Position >= len(src) {
		return false
	}
	switch src[tok.Position] {
	case '"', '`', '[':
		return true
	default:
		return false
	}
}
