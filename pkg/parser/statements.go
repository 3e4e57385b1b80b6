package parser

import (
	"fmt"
	"strings"

	"litequery/pkg/types"
)

// StatementType discriminates parsed statements.
type StatementType int

const (
	StmtSelect StatementType = iota
	StmtCommand
)

// Statement is a parsed input: a SELECT query or a dot command.
type Statement interface {
	GetType() StatementType
	String() string
}

// Predicate is the single equality filter the grammar allows.
type Predicate struct {
	Column string
	Value  types.Value
}

// SelectStatement is the parsed form of
// SELECT (cols | * | COUNT(*)) FROM table [WHERE col = literal].
type SelectStatement struct {
	Columns  []string // empty when Star or CountAll is set
	Star     bool
	CountAll bool
	Table    string
	Where    *Predicate // nil when no WHERE clause
}

func (s *SelectStatement) GetType() StatementType {
	return StmtSelect
}

func (s *SelectStatement) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	switch {
	case s.CountAll:
		sb.WriteString("COUNT(*)")
	case s.Star:
		sb.WriteString("*")
	default:
		sb.WriteString(strings.Join(s.Columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(s.Table)
	if s.Where != nil {
		fmt.Fprintf(&sb, " WHERE %s = %s", s.Where.Column, literalText(s.Where.Value))
	}
	return sb.String()
}

func literalText(v types.Value) string {
	switch v.Kind() {
	case types.KindText:
		return "'" + strings.ReplaceAll(v.String(), "'", "''") + "'"
	case types.KindNull:
		return "NULL"
	default:
		return v.String()
	}
}

// CommandType identifies a dot command.
type CommandType int

const (
	CmdDBInfo CommandType = iota
	CmdTables
	CmdSchema
	CmdIndexes
	CmdCheck
)

var commandNames = map[CommandType]string{
	CmdDBInfo:  ".dbinfo",
	CmdTables:  ".tables",
	CmdSchema:  ".schema",
	CmdIndexes: ".indexes",
	CmdCheck:   ".check",
}

func (c CommandType) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// CommandStatement is a parsed dot command. Arg carries the optional name
// .schema and .indexes accept.
type CommandStatement struct {
	Command CommandType
	Arg     string
}

func (c *CommandStatement) GetType() StatementType {
	return StmtCommand
}

func (c *CommandStatement) String() string {
	if c.Arg != "" {
		return c.Command.String() + " " + c.Arg
	}
	return c.Command.String()
}
