package query

import "fmt"

// Kind selects the overall shape of a query's output.
type Kind int

const (
	KindList Kind = iota
	KindTable
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "LIST"
	case KindTable:
		return "TABLE"
	case KindTask:
		return "TASK"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Query is the parsed, fully resolved form of a query string. It is built
// once per parse and never mutated afterwards.
type Query struct {
	Kind   Kind
	Fields []Projection
	From   *FromClause
	Where  Expr
	Sort   []SortKey
	Limit  *int
}

// Projection is one TABLE column: the expression to evaluate per row and the
// column name it renders under.
type Projection struct {
	Name string
	Expr Expr
}

// FromClause narrows the candidate set before WHERE filtering. Slices keep
// source order so candidate selection stays deterministic.
type FromClause struct {
	Tags      []string
	Folders   []string
	LinksTo   []string
	LinksFrom []string
}

// Empty reports whether the clause constrains nothing.
func (f *FromClause) Empty() bool {
	return f == nil ||
		(len(f.Tags) == 0 && len(f.Folders) == 0 &&
			len(f.LinksTo) == 0 && len(f.LinksFrom) == 0)
}

// SortKey orders results by one field. Earlier keys take priority.
type SortKey struct {
	Field string
	Desc  bool
}

// CompareOp enumerates comparison operators.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpGt
	OpLt
	OpGte
	OpLte
	OpContains
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGte:
		return ">="
	case OpLte:
		return "<="
	case OpContains:
		return "contains"
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

// LogicOp enumerates boolean connectives.
type LogicOp int

const (
	OpAnd LogicOp = iota
	OpOr
)

func (op LogicOp) String() string {
	if op == OpAnd {
		return "AND"
	}
	return "OR"
}

// Expr is the closed set of expression forms a WHERE clause or projection can
// contain. The concrete types below are the only implementations.
type Expr interface {
	isExpr()
}

// Comparison tests a resolved field against a literal value.
type Comparison struct {
	Field string
	Op    CompareOp
	Value Literal
}

// Logical combines two expressions with AND/OR. Evaluation short-circuits.
type Logical struct {
	Op    LogicOp
	Left  Expr
	Right Expr
}

// Not negates its inner expression.
type Not struct {
	Inner Expr
}

// FunctionCall invokes a registered function by name.
type FunctionCall struct {
	Name string
	Args []Expr
}

// FieldRef resolves a dotted path into a row's metadata.
type FieldRef struct {
	Name string
}

// Literal wraps a constant: string, float64, bool, or nil.
type Literal struct {
	Value any
}

func (Comparison) isExpr()   {}
func (Logical) isExpr()      {}
func (Not) isExpr()          {}
func (FunctionCall) isExpr() {}
func (FieldRef) isExpr()     {}
func (Literal) isExpr()      {}

// ParseError describes a query string that does not match the grammar. The
// offset is a byte position into the original input.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}
