package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/vq/internal/exec"
	"github.com/Paintersrp/vq/internal/query"
	"github.com/Paintersrp/vq/internal/vault"
)

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Render(exec.Result{
		Kind: query.KindList,
		Rows: []exec.Row{
			{Document: vault.Document{ID: "work/a.md", Title: "Roadmap"}},
			{Document: vault.Document{ID: "work/b.md"}},
		},
		ExecutionTime: 2 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{"work/a.md", "Roadmap", "work/b.md", "2 result(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableIncludesColumns(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Render(exec.Result{
		Kind:    query.KindTable,
		Columns: []string{"status", "due"},
		Rows: []exec.Row{
			{
				Document: vault.Document{ID: "work/a.md"},
				Values: map[string]any{
					"status": "open",
					"due":    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		ExecutionTime: time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{"work/a.md", "open", "2025-03-01", "STATUS", "DUE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTasks(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Render(exec.Result{
		Kind: query.KindTask,
		Rows: []exec.Row{
			{
				Document: vault.Document{ID: "todo.md"},
				Task:     &exec.TaskLine{Text: "ship it", Checked: false, Line: 3},
			},
			{
				Document: vault.Document{ID: "todo.md"},
				Task:     &exec.TaskLine{Text: "done already", Checked: true, Line: 4},
			},
		},
		ExecutionTime: time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{"[ ] ship it", "[x]", "done already", "todo.md:3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Render(exec.Result{Err: "parse error at offset 5: expected FROM"})

	out := buf.String()
	if !strings.Contains(out, "query error") || !strings.Contains(out, "offset 5") {
		t.Errorf("unexpected error output: %s", out)
	}
	if strings.Contains(out, "result(s)") {
		t.Errorf("error output should not include footer: %s", out)
	}
}

func TestRenderCachedFooter(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Render(exec.Result{Kind: query.KindList, ExecutionTime: 0})

	if !strings.Contains(buf.String(), "cached") {
		t.Errorf("zero execution time should render as cached: %s", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{float64(3), "3"},
		{2.5, "2.5"},
		{[]string{"a", "b"}, "a, b"},
		{[]any{"x", float64(1)}, "x, 1"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
