package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string) *Query {
	t.Helper()
	q, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return q
}

func TestParseKinds(t *testing.T) {
	cases := []struct {
		input string
		want  Kind
	}{
		{"LIST", KindList},
		{"list", KindList},
		{"TABLE", KindTable},
		{"TASK", KindTask},
	}

	for _, tc := range cases {
		q := mustParse(t, tc.input)
		if q.Kind != tc.want {
			t.Errorf("Parse(%q).Kind = %v, want %v", tc.input, q.Kind, tc.want)
		}
	}
}

func TestParseTableProjections(t *testing.T) {
	q := mustParse(t, `TABLE status, due, length(tags) AS tagcount FROM "Work"`)

	if len(q.Fields) != 3 {
		t.Fatalf("expected 3 projections, got %d", len(q.Fields))
	}
	if q.Fields[0].Name != "status" || q.Fields[1].Name != "due" {
		t.Errorf("unexpected column names: %q, %q", q.Fields[0].Name, q.Fields[1].Name)
	}
	if q.Fields[2].Name != "tagcount" {
		t.Errorf("expected AS alias tagcount, got %q", q.Fields[2].Name)
	}
	if _, ok := q.Fields[2].Expr.(FunctionCall); !ok {
		t.Errorf("expected FunctionCall projection, got %T", q.Fields[2].Expr)
	}
	if !reflect.DeepEqual(q.From.Folders, []string{"Work"}) {
		t.Errorf("unexpected folders: %v", q.From.Folders)
	}
}

func TestParseFromClause(t *testing.T) {
	q := mustParse(t, `LIST FROM #project #urgent "Work/Active" outgoing-to("hub.md") incoming-from(inbox)`)

	from := q.From
	if from == nil {
		t.Fatal("expected FROM clause")
	}
	if !reflect.DeepEqual(from.Tags, []string{"project", "urgent"}) {
		t.Errorf("tags = %v", from.Tags)
	}
	if !reflect.DeepEqual(from.Folders, []string{"Work/Active"}) {
		t.Errorf("folders = %v", from.Folders)
	}
	if !reflect.DeepEqual(from.LinksTo, []string{"hub.md"}) {
		t.Errorf("links-to = %v", from.LinksTo)
	}
	if !reflect.DeepEqual(from.LinksFrom, []string{"inbox"}) {
		t.Errorf("links-from = %v", from.LinksFrom)
	}
}

func TestParseWherePrecedence(t *testing.T) {
	// AND binds tighter than OR, so this must parse as (a=1 AND b=2) OR c=3.
	q := mustParse(t, "LIST WHERE a = 1 AND b = 2 OR c = 3")

	or, ok := q.Where.(Logical)
	if !ok || or.Op != OpOr {
		t.Fatalf("expected top-level OR, got %#v", q.Where)
	}
	and, ok := or.Left.(Logical)
	if !ok || and.Op != OpAnd {
		t.Fatalf("expected AND on the left of OR, got %#v", or.Left)
	}
	if cmp, ok := or.Right.(Comparison); !ok || cmp.Field != "c" {
		t.Fatalf("expected c=3 on the right of OR, got %#v", or.Right)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	q := mustParse(t, "LIST WHERE a = 1 AND (b = 2 OR c = 3)")

	and, ok := q.Where.(Logical)
	if !ok || and.Op != OpAnd {
		t.Fatalf("expected top-level AND, got %#v", q.Where)
	}
	if or, ok := and.Right.(Logical); !ok || or.Op != OpOr {
		t.Fatalf("expected grouped OR on the right, got %#v", and.Right)
	}
}

func TestParseNotPrefix(t *testing.T) {
	q := mustParse(t, "LIST WHERE NOT status = done")

	not, ok := q.Where.(Not)
	if !ok {
		t.Fatalf("expected Not, got %#v", q.Where)
	}
	cmp, ok := not.Inner.(Comparison)
	if !ok || cmp.Field != "status" || cmp.Op != OpEq {
		t.Fatalf("unexpected inner expression: %#v", not.Inner)
	}
	if cmp.Value.Value != "done" {
		t.Fatalf("expected bare word to parse as string literal, got %#v", cmp.Value.Value)
	}
}

func TestParseComparisonOperators(t *testing.T) {
	cases := []struct {
		input string
		op    CompareOp
		value any
	}{
		{"LIST WHERE priority = 3", OpEq, float64(3)},
		{"LIST WHERE priority != 3", OpNeq, float64(3)},
		{"LIST WHERE priority > 3", OpGt, float64(3)},
		{"LIST WHERE priority < 3", OpLt, float64(3)},
		{"LIST WHERE priority >= 3", OpGte, float64(3)},
		{"LIST WHERE priority <= 3", OpLte, float64(3)},
		{`LIST WHERE tags contains "work"`, OpContains, "work"},
		{"LIST WHERE done = true", OpEq, true},
		{"LIST WHERE due = null", OpEq, nil},
		{"LIST WHERE due = 2025-01-01", OpEq, "2025-01-01"},
	}

	for _, tc := range cases {
		q := mustParse(t, tc.input)
		cmp, ok := q.Where.(Comparison)
		if !ok {
			t.Errorf("Parse(%q): expected Comparison, got %#v", tc.input, q.Where)
			continue
		}
		if cmp.Op != tc.op {
			t.Errorf("Parse(%q): op = %v, want %v", tc.input, cmp.Op, tc.op)
		}
		if !reflect.DeepEqual(cmp.Value.Value, tc.value) {
			t.Errorf("Parse(%q): value = %#v, want %#v", tc.input, cmp.Value.Value, tc.value)
		}
	}
}

func TestParseSortAndLimit(t *testing.T) {
	q := mustParse(t, "LIST SORT BY due DESC, title LIMIT 5")

	want := []SortKey{{Field: "due", Desc: true}, {Field: "title"}}
	if !reflect.DeepEqual(q.Sort, want) {
		t.Fatalf("sort keys = %#v, want %#v", q.Sort, want)
	}
	if q.Limit == nil || *q.Limit != 5 {
		t.Fatalf("limit = %v, want 5", q.Limit)
	}
}

func TestParseFunctionCalls(t *testing.T) {
	q := mustParse(t, `LIST WHERE contains(tags, "work")`)

	call, ok := q.Where.(FunctionCall)
	if !ok {
		t.Fatalf("expected FunctionCall, got %#v", q.Where)
	}
	if call.Name != "contains" || len(call.Args) != 2 {
		t.Fatalf("unexpected call: %#v", call)
	}
	if ref, ok := call.Args[0].(FieldRef); !ok || ref.Name != "tags" {
		t.Fatalf("expected field ref arg, got %#v", call.Args[0])
	}
	if lit, ok := call.Args[1].(Literal); !ok || lit.Value != "work" {
		t.Fatalf("expected string literal arg, got %#v", call.Args[1])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "expected LIST, TABLE, or TASK"},
		{"SELECT * FROM x", "expected LIST, TABLE, or TASK"},
		{"LIST FROM", "expected #tag"},
		{"LIST WHERE", "unexpected token"},
		{"LIST WHERE priority >", "expected value"},
		{"LIST WHERE (a = 1", "expected ')'"},
		{"LIST SORT due", "expected BY after SORT"},
		{"LIST LIMIT many", "expected integer after LIMIT"},
		{"LIST LIMIT 2.5", "LIMIT must be a non-negative integer"},
		{`LIST FROM "unterminated`, "unterminated string"},
		{"LIST trailing", "unexpected token"},
		{"LIST FROM #", "empty tag"},
	}

	for _, tc := range cases {
		_, err := Parse(tc.input)
		if err == nil {
			t.Errorf("Parse(%q): expected error", tc.input)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q): expected *ParseError, got %T", tc.input, err)
			continue
		}
		if !strings.Contains(perr.Msg, tc.want) {
			t.Errorf("Parse(%q): error %q does not mention %q", tc.input, perr.Msg, tc.want)
		}
	}
}

func TestParseErrorOffsets(t *testing.T) {
	input := "LIST WHERE priority >"
	_, err := Parse(input)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Offset != len(input) {
		t.Fatalf("expected offset %d at end of input, got %d", len(input), perr.Offset)
	}
}
