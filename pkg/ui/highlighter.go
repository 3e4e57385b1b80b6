package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The word lists cover what actually appears at the prompt and in .schema
// output: the query grammar, DDL as the catalog stores it, and the type
// names column definitions use.
var (
	keywords = []string{
		"SELECT", "FROM", "WHERE", "NULL",
		"CREATE", "TABLE", "INDEX", "UNIQUE", "VIEW", "TRIGGER",
		"PRIMARY", "KEY", "NOT", "DEFAULT", "REFERENCES", "ON",
		"CONSTRAINT", "COLLATE", "ASC", "DESC", "WITHOUT", "ROWID",
		"IF", "EXISTS", "AUTOINCREMENT",
	}

	functions = []string{
		"COUNT",
	}

	typeNames = []string{
		"INTEGER", "INT", "TEXT", "REAL", "FLOAT", "BLOB", "NUMERIC",
		"VARCHAR", "BOOLEAN",
	}
)

// SQLHighlighter colors query and DDL text for the shell's schema view.
type SQLHighlighter struct {
	keywords  map[string]bool
	functions map[string]bool
	types     map[string]bool

	keywordStyle  lipgloss.Style
	functionStyle lipgloss.Style
	typeStyle     lipgloss.Style
	stringStyle   lipgloss.Style
	numberStyle   lipgloss.Style
}

func NewSQLHighlighter() *SQLHighlighter {
	h := &SQLHighlighter{
		keywords:  make(map[string]bool),
		functions: make(map[string]bool),
		types:     make(map[string]bool),
	}

	for _, kw := range keywords {
		h.keywords[kw] = true
	}
	for _, fn := range functions {
		h.functions[fn] = true
	}
	for _, tn := range typeNames {
		h.types[tn] = true
	}

	h.keywordStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF79C6")).
		Bold(true)

	h.functionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8BE9FD")).
		Bold(true)

	h.typeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8BE9FD"))

	h.stringStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F1FA8C"))

	h.numberStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#BD93F9"))

	return h
}

// Highlight colors one statement word by word. Classification looks at the
// bare word with any glued DDL punctuation stripped.
func (h *SQLHighlighter) Highlight(sql string) string {
	words := strings.Fields(sql)
	highlighted := make([]string, 0, len(words))

	for _, word := range words {
		core, upper := coreWord(word)
		switch {
		case h.keywords[upper]:
			highlighted = append(highlighted, h.keywordStyle.Render(word))
		case h.functions[upper]:
			highlighted = append(highlighted, h.functionStyle.Render(word))
		case h.types[upper]:
			highlighted = append(highlighted, h.typeStyle.Render(word))
		case strings.HasPrefix(core, "'"):
			highlighted = append(highlighted, h.stringStyle.Render(word))
		case isNumeric(core):
			highlighted = append(highlighted, h.numberStyle.Render(word))
		default:
			highlighted = append(highlighted, word)
		}
	}

	return strings.Join(highlighted, " ")
}

// coreWord strips the punctuation DDL glues onto words, "(name," and the
// like, and returns the bare word with its uppercase form.
func coreWord(word string) (string, string) {
	core := strings.Trim(word, "(),;")
	return core, strings.ToUpper(core)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789.-", c) {
			return false
		}
	}
	return true
}
