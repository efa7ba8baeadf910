package query

import (
	"fmt"
	"math"
	"strings"
)

// Parse turns a query string into a Query AST. Every failure surfaces as a
// *ParseError value; malformed input is the common case while a query is
// being live-edited, so nothing in here panics.
func Parse(input string) (*Query, error) {
	tokens, perr := scan(input)
	if perr != nil {
		return nil, perr
	}

	p := &parser{src: input, tokens: tokens}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	return q, nil
}

type parser struct {
	src    string
	tokens []token
	pos    int
}

func (p *parser) cur() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].end
}

func (p *parser) errorf(tok token, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: tok.offset}
}

func isClauseKeyword(tok token) bool {
	return tok.matches("from") || tok.matches("where") ||
		tok.matches("sort") || tok.matches("limit")
}

func (p *parser) parseQuery() (*Query, *ParseError) {
	q := &Query{}

	kindTok := p.next()
	switch {
	case kindTok.matches("list"):
		q.Kind = KindList
	case kindTok.matches("table"):
		q.Kind = KindTable
	case kindTok.matches("task"):
		q.Kind = KindTask
	default:
		return nil, p.errorf(kindTok, "expected LIST, TABLE, or TASK, got %q", kindTok.text)
	}

	if q.Kind == KindTable && p.cur().kind != tokEOF && !isClauseKeyword(p.cur()) {
		fields, err := p.parseProjections()
		if err != nil {
			return nil, err
		}
		q.Fields = fields
	}

	if p.cur().matches("from") {
		p.next()
		from, err := p.parseFrom()
		if err != nil {
			return nil, err
		}
		q.From = from
	}

	if p.cur().matches("where") {
		p.next()
		where, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	if p.cur().matches("sort") {
		p.next()
		keys, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		q.Sort = keys
	}

	if p.cur().matches("limit") {
		p.next()
		limit, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		q.Limit = limit
	}

	if tok := p.cur(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected token %q", tok.text)
	}
	return q, nil
}

func (p *parser) parseProjections() ([]Projection, *ParseError) {
	var fields []Projection
	for {
		start := p.cur()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(p.src[start.offset:p.prevEnd()])
		if ref, ok := expr.(FieldRef); ok {
			name = ref.Name
		}
		if p.cur().matches("as") {
			p.next()
			alias := p.next()
			if alias.kind != tokWord && alias.kind != tokString {
				return nil, p.errorf(alias, "expected column alias after AS")
			}
			name = alias.text
		}
		fields = append(fields, Projection{Name: name, Expr: expr})

		if p.cur().kind != tokComma {
			break
		}
		p.next()
	}
	return fields, nil
}

func (p *parser) parseFrom() (*FromClause, *ParseError) {
	from := &FromClause{}

	for {
		tok := p.cur()
		switch {
		case tok.kind == tokTag:
			p.next()
			from.Tags = append(from.Tags, tok.text)
		case tok.kind == tokString:
			p.next()
			from.Folders = append(from.Folders, tok.text)
		case tok.matches("outgoing-to") || tok.matches("incoming-from"):
			p.next()
			target, err := p.parseLinkTarget(tok)
			if err != nil {
				return nil, err
			}
			if tok.matches("outgoing-to") {
				from.LinksTo = append(from.LinksTo, target)
			} else {
				from.LinksFrom = append(from.LinksFrom, target)
			}
		default:
			if from.Empty() {
				return nil, p.errorf(tok, "expected #tag, quoted folder, or link predicate after FROM")
			}
			return from, nil
		}

		if p.cur().kind == tokComma {
			p.next()
		}
	}
}

func (p *parser) parseLinkTarget(pred token) (string, *ParseError) {
	if tok := p.next(); tok.kind != tokLParen {
		return "", p.errorf(tok, "expected '(' after %s", pred.text)
	}
	target := p.next()
	if target.kind != tokString && target.kind != tokWord {
		return "", p.errorf(target, "expected link target in %s(...)", pred.text)
	}
	if tok := p.next(); tok.kind != tokRParen {
		return "", p.errorf(tok, "expected ')' to close %s(...)", pred.text)
	}
	return target.text, nil
}

// parseOr handles the lowest-precedence connective. AND binds tighter than
// OR; NOT is a prefix operator above both.
func (p *parser) parseOr() (Expr, *ParseError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().matches("or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Logical{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, *ParseError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().matches("and") {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Logical{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, *ParseError) {
	if p.cur().matches("not") {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, *ParseError) {
	tok := p.cur()

	switch tok.kind {
	case tokLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')'")
		}
		return inner, nil

	case tokString:
		p.next()
		return Literal{Value: tok.text}, nil

	case tokNumber:
		p.next()
		return Literal{Value: tok.number}, nil

	case tokWord:
		if isClauseKeyword(tok) || tok.matches("and") || tok.matches("or") {
			return nil, p.errorf(tok, "unexpected keyword %q", tok.text)
		}
		p.next()

		switch {
		case tok.matches("true"):
			return Literal{Value: true}, nil
		case tok.matches("false"):
			return Literal{Value: false}, nil
		case tok.matches("null"):
			return Literal{Value: nil}, nil
		}

		if p.cur().kind == tokLParen {
			return p.parseCall(tok)
		}

		if op, ok := p.comparisonOp(); ok {
			value, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			return Comparison{Field: tok.text, Op: op, Value: value}, nil
		}
		return FieldRef{Name: tok.text}, nil

	default:
		return nil, p.errorf(tok, "unexpected token %q", tok.text)
	}
}

func (p *parser) parseCall(name token) (Expr, *ParseError) {
	p.next() // consume '('
	call := FunctionCall{Name: strings.ToLower(name.text)}

	if p.cur().kind == tokRParen {
		p.next()
		return call, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		tok := p.next()
		if tok.kind == tokRParen {
			return call, nil
		}
		if tok.kind != tokComma {
			return nil, p.errorf(tok, "expected ',' or ')' in %s(...)", name.text)
		}
	}
}

func (p *parser) comparisonOp() (CompareOp, bool) {
	tok := p.cur()
	if tok.kind == tokOp {
		p.next()
		switch tok.text {
		case "=", "==":
			return OpEq, true
		case "!=":
			return OpNeq, true
		case ">":
			return OpGt, true
		case "<":
			return OpLt, true
		case ">=":
			return OpGte, true
		case "<=":
			return OpLte, true
		}
	}
	if tok.matches("contains") {
		p.next()
		return OpContains, true
	}
	return 0, false
}

// parseValue parses the literal on the right-hand side of a comparison. Bare
// words are accepted as string literals so dates and enum-ish values do not
// require quoting.
func (p *parser) parseValue() (Literal, *ParseError) {
	tok := p.next()
	switch tok.kind {
	case tokString:
		return Literal{Value: tok.text}, nil
	case tokNumber:
		return Literal{Value: tok.number}, nil
	case tokWord:
		switch {
		case tok.matches("true"):
			return Literal{Value: true}, nil
		case tok.matches("false"):
			return Literal{Value: false}, nil
		case tok.matches("null"):
			return Literal{Value: nil}, nil
		}
		if isClauseKeyword(tok) {
			return Literal{}, p.errorf(tok, "expected value, got keyword %q", tok.text)
		}
		return Literal{Value: tok.text}, nil
	default:
		return Literal{}, p.errorf(tok, "expected value after operator")
	}
}

func (p *parser) parseSort() ([]SortKey, *ParseError) {
	if tok := p.next(); !tok.matches("by") {
		return nil, p.errorf(tok, "expected BY after SORT")
	}

	var keys []SortKey
	for {
		field := p.next()
		if field.kind != tokWord {
			return nil, p.errorf(field, "expected sort field")
		}

		key := SortKey{Field: field.text}
		if p.cur().matches("desc") {
			p.next()
			key.Desc = true
		} else if p.cur().matches("asc") {
			p.next()
		}
		keys = append(keys, key)

		if p.cur().kind != tokComma {
			return keys, nil
		}
		p.next()
	}
}

func (p *parser) parseLimit() (*int, *ParseError) {
	tok := p.next()
	if tok.kind != tokNumber {
		return nil, p.errorf(tok, "expected integer after LIMIT")
	}
	if tok.number < 0 || tok.number != math.Trunc(tok.number) {
		return nil, p.errorf(tok, "LIMIT must be a non-negative integer")
	}
	n := int(tok.number)
	return &n, nil
}
