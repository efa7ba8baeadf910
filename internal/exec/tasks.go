package exec

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TaskLine is one checkbox item found in a note body.
type TaskLine struct {
	Text    string
	Checked bool
	Line    int
}

// scanTasks walks a note's markdown AST and collects checkbox list items.
// Nested items count too; one TaskLine per matching item, in source order.
func scanTasks(source []byte) []TaskLine {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	document := parser.Parse(reader)

	var tasks []TaskLine

	ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			item, ok := n.(*ast.ListItem)
			if !ok {
				return ast.WalkContinue, nil
			}

			content := strings.TrimSpace(string(itemText(item, source)))
			checked := false
			switch {
			case strings.HasPrefix(content, "[ ]"):
			case strings.HasPrefix(content, "[x]"), strings.HasPrefix(content, "[X]"):
				checked = true
			default:
				return ast.WalkContinue, nil
			}

			body := strings.TrimSpace(content[3:])
			if body == "" {
				return ast.WalkContinue, nil
			}

			tasks = append(tasks, TaskLine{
				Text:    body,
				Checked: checked,
				Line:    itemLine(item, source),
			})
			return ast.WalkContinue, nil
		},
	)

	return tasks
}

// itemText returns only the item's own text. Node.Text on a ListItem
// concatenates every descendant, which would fold nested checkbox text into
// the parent's; nested items are emitted as their own rows by the walk.
func itemText(item *ast.ListItem, source []byte) []byte {
	switch child := item.FirstChild().(type) {
	case nil:
		return nil
	case *ast.List:
		return nil
	default:
		return child.Text(source)
	}
}

func itemLine(item *ast.ListItem, source []byte) int {
	if lines := item.Lines(); lines != nil && lines.Len() > 0 {
		segment := lines.At(0)
		return 1 + bytes.Count(source[:segment.Start], []byte("\n"))
	}
	if child := item.FirstChild(); child != nil {
		if clines := child.Lines(); clines != nil && clines.Len() > 0 {
			segment := clines.At(0)
			return 1 + bytes.Count(source[:segment.Start], []byte("\n"))
		}
	}
	return 0
}
