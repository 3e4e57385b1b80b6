package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"litequery/pkg/database"
	"litequery/pkg/ui/base"
)

// Model is the shell's state: the editor, the result views, and the
// completion machinery around one open database.
type Model struct {
	database    *database.Database
	queryEditor textarea.Model
	schemaView  viewport.Model
	resultTable table.Model
	spinner     spinner.Model
	help        help.Model
	completer   *Completer
	highlighter *SQLHighlighter

	width        int
	height       int
	executing    bool
	showHelp     bool
	lastResult   database.QueryResult
	lastError    error
	queryHistory []string

	completions   []string
	completeIdx   int
	completeStart int

	keys keyMap
}

func NewModel(db *database.Database) Model {
	ta := textarea.New()
	ta.Placeholder = "SELECT ... FROM ... or a dot command (.tables, .schema, .dbinfo)"
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(bgLight)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textMuted)
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textPrimary)

	vp := viewport.New(80, 12)
	vp.Style = resultStyle

	t := table.New(
		table.WithColumns([]table.Column{{Title: "results", Width: 80}}),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		database:     db,
		queryEditor:  ta,
		schemaView:   vp,
		resultTable:  t,
		spinner:      sp,
		help:         help.New(),
		completer:    NewCompleter(db.Catalog()),
		highlighter:  NewSQLHighlighter(),
		keys:         keys,
		queryHistory: make([]string, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case tea.KeyMsg:
		if m.executing {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Execute):
			query := m.queryEditor.Value()
			if strings.TrimSpace(query) != "" {
				m.executing = true
				m.resetCompletion()
				return m, m.executeQuery(query)
			}

		case key.Matches(msg, m.keys.Clear):
			m.queryEditor.SetValue("")
			m.lastResult = database.QueryResult{}
			m.lastError = nil
			m.resetCompletion()

		case key.Matches(msg, m.keys.ShowTables):
			m.executing = true
			return m, m.executeQuery(".tables")

		case key.Matches(msg, m.keys.ShowSchema):
			m.executing = true
			return m, m.executeQuery(".schema")

		case key.Matches(msg, m.keys.Complete):
			m.completeWord()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp

		default:
			// Any ordinary keystroke restarts completion from scratch.
			m.resetCompletion()
		}

	case queryResultMsg:
		m.executing = false
		m.lastResult = msg.result
		m.lastError = msg.err

		if msg.err == nil {
			m.queryHistory = append(m.queryHistory, msg.query)
			m.updateResultDisplay()
		}

	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if !m.executing {
		var cmd tea.Cmd
		m.queryEditor, cmd = m.queryEditor.Update(msg)
		cmds = append(cmds, cmd)

		m.schemaView, cmd = m.schemaView.Update(msg)
		cmds = append(cmds, cmd)

		m.resultTable, cmd = m.resultTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderQueryEditor())

	if hint := m.renderCompletions(); hint != "" {
		sections = append(sections, hint)
	}

	switch {
	case m.executing:
		sections = append(sections, m.renderExecuting())
	case m.lastError != nil:
		sections = append(sections, m.renderError())
	case m.isSchemaResult():
		sections = append(sections, m.renderSchemaView())
	case len(m.lastResult.Rows) > 0:
		sections = append(sections, m.renderResultTable())
	case m.lastResult.Message != "":
		sections = append(sections, m.renderMessage())
	}

	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}

	return appStyle.Render(strings.Join(sections, "\n"))
}

// isSchemaResult reports whether the last result is DDL text. The formatter
// marks that shape with a single "sql" column, rendered as highlighted text
// in a viewport instead of a table.
func (m Model) isSchemaResult() bool {
	return len(m.lastResult.Columns) == 1 && m.lastResult.Columns[0] == "sql" &&
		len(m.lastResult.Rows) > 0
}

func (m Model) renderHelp() string {
	helpText := m.help.FullHelpView([][]key.Binding{
		{
			m.keys.Execute,
			m.keys.Clear,
			m.keys.ShowTables,
			m.keys.ShowSchema,
			m.keys.Complete,
			m.keys.Help,
			m.keys.Quit,
		},
	})

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(bgMedium).
		Render(helpText)
}

func (m Model) renderHeader() string {
	stats := m.database.Stats()

	title := titleStyle.Render("litequery")
	badge := dbBadgeStyle.Render(filepath.Base(m.database.Path()))
	info := lipgloss.NewStyle().
		Foreground(textSecondary).
		Render(fmt.Sprintf("Tables: %d | Queries: %d",
			len(m.database.Tables()), stats.QueriesExecuted))

	header := lipgloss.JoinHorizontal(
		lipgloss.Left,
		title,
		"  ",
		badge,
		"  ",
		info,
	)

	separator := strings.Repeat("─", base.Max(m.width-4, 0))
	sepStyle := lipgloss.NewStyle().
		Foreground(bgLight).
		Render(separator)

	return header + "\n" + sepStyle
}

func (m Model) renderQueryEditor() string {
	label := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("Query")

	editor := editorStyle.Render(m.queryEditor.View())

	return fmt.Sprintf("%s\n%s", label, editor)
}

func (m Model) renderCompletions() string {
	if len(m.completions) < 2 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(textMuted).
		Render("⇥ " + strings.Join(m.completions, "  "))
}

func (m Model) renderExecuting() string {
	content := lipgloss.JoinHorizontal(
		lipgloss.Left,
		m.spinner.View(),
		" Running query...",
	)

	return lipgloss.NewStyle().
		Foreground(primaryColor).
		Padding(1, 0).
		Render(content)
}

func (m Model) renderError() string {
	icon := errorStyle.Render(" ERROR ")
	message := lipgloss.NewStyle().
		Foreground(errorColor).
		Render(m.lastError.Error())

	content := fmt.Sprintf("%s %s", icon, message)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(errorColor).
		Padding(0, 1).
		Render(content)
}

func (m Model) renderSchemaView() string {
	header := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(fmt.Sprintf("Schema (%d object(s))", len(m.lastResult.Rows)))

	return fmt.Sprintf("%s\n%s", header, m.schemaView.View())
}

func (m Model) renderResultTable() string {
	columns := make([]table.Column, len(m.lastResult.Columns))
	for i, col := range m.lastResult.Columns {
		columns[i] = table.Column{
			Title: col,
			Width: m.calculateColumnWidth(col, i),
		}
	}

	rows := make([]table.Row, len(m.lastResult.Rows))
	for i, row := range m.lastResult.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = base.TruncateString(cell, maxColumnWidth)
		}
		rows[i] = table.Row(cells)
	}

	m.resultTable.SetColumns(columns)
	m.resultTable.SetRows(rows)

	header := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(fmt.Sprintf("Results (%d rows in %v)",
			len(rows), m.lastResult.Elapsed))

	return fmt.Sprintf("%s\n%s", header, m.resultTable.View())
}

func (m Model) renderMessage() string {
	icon := successStyle.Render(" ✓ ")
	message := m.lastResult.Message

	return lipgloss.NewStyle().
		Foreground(accentColor).
		Padding(1, 0).
		Render(fmt.Sprintf("%s %s", icon, message))
}

func (m Model) renderStatusBar() string {
	stats := m.database.Stats()

	status := "● " + m.database.Path()
	timer := ""
	if m.lastResult.Elapsed > 0 {
		timer = fmt.Sprintf(" | last query: %v", m.lastResult.Elapsed)
	}
	errCount := ""
	if stats.ErrorCount > 0 {
		errCount = fmt.Sprintf(" | errors: %d", stats.ErrorCount)
	}

	content := lipgloss.NewStyle().
		Foreground(accentColor).
		Render(status) +
		lipgloss.NewStyle().
			Foreground(textMuted).
			Render(timer+errCount+" | ctrl+h for help")

	return statusBarStyle.
		Width(base.Max(m.width-4, 0)).
		Render(content)
}

const (
	maxColumnWidth = 30
	minColumnWidth = 8
)

func (m Model) calculateColumnWidth(columnName string, index int) int {
	width := len(columnName) + 2
	for _, row := range m.lastResult.Rows {
		if index < len(row) {
			width = base.Max(width, base.Min(len(row[index])+2, maxColumnWidth))
		}
	}
	return base.Max(base.Min(width, maxColumnWidth), minColumnWidth)
}

// updateLayout adjusts component sizes to the window.
func (m *Model) updateLayout() {
	resultHeight := base.Max(m.height-14, 4)

	m.queryEditor.SetWidth(m.width - 6)
	m.schemaView.Width = m.width - 6
	m.schemaView.Height = resultHeight
	m.resultTable.SetHeight(resultHeight)
}

func (m *Model) updateResultDisplay() {
	if m.isSchemaResult() {
		var sb strings.Builder
		for _, row := range m.lastResult.Rows {
			sb.WriteString(m.highlighter.Highlight(row[0]))
			sb.WriteString("\n")
		}
		m.schemaView.SetContent(sb.String())
		m.schemaView.GotoTop()
		return
	}
	if len(m.lastResult.Rows) > 0 {
		m.resultTable.Focus()
	}
}

// completeWord replaces the word under the cursor with catalog completions,
// cycling through the candidates on repeated presses.
func (m *Model) completeWord() {
	text := m.queryEditor.Value()
	if len(m.completions) == 0 {
		start := lastWordStart(text)
		word := text[start:]
		m.completions = m.completer.Complete(word)
		m.completeIdx = 0
		m.completeStart = start
		if len(m.completions) == 0 {
			return
		}
	}
	word := m.completions[m.completeIdx%len(m.completions)]
	m.completeIdx++
	m.queryEditor.SetValue(text[:m.completeStart] + word)
}

func (m *Model) resetCompletion() {
	m.completions = nil
	m.completeIdx = 0
	m.completeStart = 0
}

// lastWordStart finds where the word being typed begins.
func lastWordStart(text string) int {
	return strings.LastIndexAny(text, " \t\n,()=") + 1
}

type queryResultMsg struct {
	query  string
	result database.QueryResult
	err    error
}

func (m Model) executeQuery(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.database.ExecuteQuery(query)
		return queryResultMsg{
			query:  query,
			result: result,
			err:    err,
		}
	}
}
