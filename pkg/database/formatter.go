package database

import (
	"fmt"
	"strconv"

	"litequery/pkg/planner"
)

// ResultFormatter renders planner results and command output into the
// display shape QueryResult carries. Values render by their own String
// forms, so NULL shows as an empty cell and blobs as hex.
type ResultFormatter struct{}

// NewResultFormatter creates a new instance of ResultFormatter.
func NewResultFormatter() *ResultFormatter {
	return &ResultFormatter{}
}

// FormatSelect converts a SELECT result to the display shape.
func (f *ResultFormatter) FormatSelect(result *planner.Result) QueryResult {
	rows := make([][]string, len(result.Rows))
	for i, values := range result.Rows {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = v.String()
		}
		rows[i] = row
	}
	return QueryResult{
		Columns:  result.Columns,
		Rows:     rows,
		RowCount: len(rows),
		Message:  fmt.Sprintf("%d row(s) returned", len(rows)),
	}
}

// FormatInfo renders .dbinfo as name/value lines.
func (f *ResultFormatter) FormatInfo(info Info) QueryResult {
	fields := info.Fields()
	rows := make([][]string, len(fields))
	for i, field := range fields {
		rows[i] = []string{field.Name, field.Value}
	}
	return QueryResult{
		Columns:  []string{"name", "value"},
		Rows:     rows,
		RowCount: len(rows),
	}
}

// FormatTables renders .tables as one row per table.
func (f *ResultFormatter) FormatTables(names []string) QueryResult {
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name}
	}
	return QueryResult{
		Columns:  []string{"table"},
		Rows:     rows,
		RowCount: len(rows),
		Message:  fmt.Sprintf("%d table(s)", len(rows)),
	}
}

// FormatSchema renders .schema as one row of DDL per object. The single
// "sql" column is what switches the shell to its schema view.
func (f *ResultFormatter) FormatSchema(entries []SchemaEntry) QueryResult {
	rows := make([][]string, len(entries))
	for i, entry := range entries {
		rows[i] = []string{entry.SQL + ";"}
	}
	return QueryResult{
		Columns:  []string{"sql"},
		Rows:     rows,
		RowCount: len(rows),
		Message:  fmt.Sprintf("%d object(s)", len(rows)),
	}
}

// FormatIndexes renders .indexes as one row per index name.
func (f *ResultFormatter) FormatIndexes(names []string) QueryResult {
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name}
	}
	return QueryResult{
		Columns:  []string{"index"},
		Rows:     rows,
		RowCount: len(rows),
		Message:  fmt.Sprintf("%d index(es)", len(rows)),
	}
}

// FormatCheck renders .check as one row per verified object.
func (f *ResultFormatter) FormatCheck(results []CheckResult) QueryResult {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Name,
			string(r.Kind),
			strconv.FormatUint(uint64(r.Root), 10),
			strconv.FormatInt(r.Entries, 10),
		}
	}
	return QueryResult{
		Columns:  []string{"object", "type", "root", "entries"},
		Rows:     rows,
		RowCount: len(rows),
		Message:  fmt.Sprintf("%d object(s) checked", len(rows)),
	}
}
