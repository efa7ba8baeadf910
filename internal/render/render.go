package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/Paintersrp/vq/internal/exec"
	"github.com/Paintersrp/vq/internal/query"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F55")).
			Bold(true)
	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF"))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A5"))
)

// Renderer writes query results to an explicit destination. The writer is a
// constructor parameter rather than a package-level hook so multiple engine
// instances can render independently.
type Renderer struct {
	w io.Writer
}

func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render pretty-prints a result according to its kind.
func (r *Renderer) Render(result exec.Result) {
	if result.Err != "" {
		fmt.Fprintln(r.w, errorStyle.Render("query error: "+result.Err))
		return
	}

	switch result.Kind {
	case query.KindTable:
		r.renderTable(result)
	case query.KindTask:
		r.renderTasks(result)
	default:
		r.renderList(result)
	}
	r.renderFooter(result)
}

func (r *Renderer) renderList(result exec.Result) {
	for _, row := range result.Rows {
		line := pathStyle.Render(row.Document.ID)
		if row.Document.Title != "" {
			line += " " + row.Document.Title
		}
		fmt.Fprintln(r.w, line)
	}
}

func (r *Renderer) renderTable(result exec.Result) {
	table := tablewriter.NewWriter(r.w)
	table.SetHeader(append([]string{"File"}, result.Columns...))
	table.SetAutoWrapText(false)

	for _, row := range result.Rows {
		cells := make([]string, 0, len(result.Columns)+1)
		cells = append(cells, row.Document.ID)
		for _, column := range result.Columns {
			cells = append(cells, formatValue(row.Values[column]))
		}
		table.Append(cells)
	}
	table.Render()
}

func (r *Renderer) renderTasks(result exec.Result) {
	for _, row := range result.Rows {
		if row.Task == nil {
			continue
		}
		marker := "[ ]"
		text := row.Task.Text
		if row.Task.Checked {
			marker = checkedStyle.Render("[x]")
		}
		location := footerStyle.Render(fmt.Sprintf("(%s:%d)", row.Document.ID, row.Task.Line))
		fmt.Fprintf(r.w, "%s %s %s\n", marker, text, location)
	}
}

func (r *Renderer) renderFooter(result exec.Result) {
	timing := "cached"
	if result.ExecutionTime > 0 {
		timing = fmt.Sprintf("%.1fms", float64(result.ExecutionTime)/float64(time.Millisecond))
	}
	fmt.Fprintln(r.w, footerStyle.Render(
		fmt.Sprintf("%d result(s) in %s", len(result.Rows), timing),
	))
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		if t == math.Trunc(t) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
