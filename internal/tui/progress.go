package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Column defines a single column in the progress table.
type Column struct {
	Header string
	Width  int
}

// Row holds the field values for a single table row.
type Row struct {
	Key    string
	Fields []string
}

// ProgressModel is a bubbletea model that renders a tabular progress display.
type ProgressModel struct {
	columns  []Column
	rows     []Row
	rowIndex map[string]int
	title    string
	done     bool
	err      error

	// statusCol caches the index of the STATUS column (-1 if absent).
	statusCol int

	spinner spinner.Model
}

// NewProgressModel creates a progress model with the given title and columns.
func NewProgressModel(title string, columns []Column) ProgressModel {
	statusCol := -1
	for i, c := range columns {
		if strings.EqualFold(c.Header, "STATUS") {
			statusCol = i
			break
		}
	}
	return ProgressModel{
		columns:   columns,
		rowIndex:  make(map[string]int),
		title:     title,
		statusCol: statusCol,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// AddRow pre-populates a row. Call this before the program starts.
func (m *ProgressModel) AddRow(key string, fields []string) {
	padded := make([]string, len(m.columns))
	copy(padded, fields)
	m.rowIndex[key] = len(m.rows)
	m.rows = append(m.rows, Row{Key: key, Fields: padded})
}

// Init satisfies the tea.Model interface.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update satisfies the tea.Model interface.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RowUpdateMsg:
		m.applyRowUpdate(msg)
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *ProgressModel) applyRowUpdate(msg RowUpdateMsg) {
	idx, ok := m.rowIndex[msg.Key]
	if !ok {
		return
	}
	row := &m.rows[idx]
	for j, col := range m.columns {
		if val, exists := msg.Fields[col.Header]; exists {
			row.Fields[j] = val
		}
	}
}

// View satisfies the tea.Model interface.
func (m ProgressModel) View() string {
	widths := make([]int, len(m.columns))
	for i, col := range m.columns {
		widths[i] = len(col.Header)
		if col.Width > widths[i] {
			widths[i] = col.Width
		}
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(TitleStyle.Render(m.title))
		b.WriteString("\n\n")
	}

	headerParts := make([]string, len(m.columns))
	for i, col := range m.columns {
		headerParts[i] = HeaderStyle.Render(pad(col.Header, widths[i]))
	}
	b.WriteString(strings.Join(headerParts, "  "))
	b.WriteByte('\n')

	for _, row := range m.rows {
		parts := make([]string, len(m.columns))
		for i := range m.columns {
			val := TruncateWithEllipsis(row.Fields[i], widths[i])
			if i == m.statusCol {
				parts[i] = StatusStyle(val).Render(pad(val, widths[i]))
			} else {
				parts[i] = pad(val, widths[i])
			}
		}
		b.WriteString(strings.Join(parts, "  "))
		b.WriteByte('\n')
	}

	if m.done && m.err != nil {
		fmt.Fprintf(&b, "\nError: %v\n", m.err)
	} else if !m.done {
		processed, total := m.progressCounts()
		fmt.Fprintf(&b, "\n%s Processing %d/%d...\n", m.spinner.View(), processed, total)
	}
	return b.String()
}

// progressCounts returns (processed, total) where processed counts rows that
// have finished.
func (m ProgressModel) progressCounts() (int, int) {
	total := len(m.rows)
	processed := 0
	if m.statusCol < 0 {
		return 0, total
	}
	for _, row := range m.rows {
		switch strings.TrimSpace(row.Fields[m.statusCol]) {
		case "", "pending", "running":
		default:
			processed++
		}
	}
	return processed, total
}

// Done returns whether the model has finished (work done or error).
func (m ProgressModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m ProgressModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// NonEmptyOrDash returns "-" for empty/whitespace strings.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis truncates a string and adds "..." if it exceeds max length.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
