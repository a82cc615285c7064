// Package ast defines the typed Cypher query tree (spec.md §4.4), lowered
// to from source text by internal/cypher/parser. The Clause and Expression
// interfaces follow the teacher's pkg/cypher/parser.go marker-method idiom;
// field shapes (multi-level property chains, list/map literals) follow
// _examples/original_source's richer Rust AST.
package ast

// QueryKind classifies a parsed query as Read, Write, or Mixed (spec.md
// §4.4).
type QueryKind int

const (
	KindRead QueryKind = iota
	KindWrite
	KindMixed
)

// Query is the root of a parsed statement: a sequence of clauses in source
// order.
type Query struct {
	Kind    QueryKind
	Clauses []Clause
}

// Clause is one query clause.
type Clause interface {
	clauseMarker()
}

// MatchClause is MATCH pattern [WHERE expr]. Optional marks an
// OPTIONAL MATCH (supplemented feature, SPEC_FULL.md §3).
type MatchClause struct {
	Pattern  Pattern
	Optional bool
	Where    *WhereClause
}

func (*MatchClause) clauseMarker() {}

// WithClause is the supplemented WITH projection stage (SPEC_FULL.md §3):
// MATCH ... WITH items [WHERE expr] [ORDER BY ...] [LIMIT n] feeding the
// remainder of the query.
type WithClause struct {
	Items   []ReturnItem
	Where   *WhereClause
	OrderBy []OrderItem
	Limit   *int64
}

func (*WithClause) clauseMarker() {}

// WhereClause filters bound rows by a boolean expression.
type WhereClause struct {
	Expression Expression
}

func (*WhereClause) clauseMarker() {}

// CreateClause is CREATE pattern.
type CreateClause struct {
	Pattern Pattern
}

func (*CreateClause) clauseMarker() {}

// DeleteClause is [DETACH] DELETE var, var, ...
type DeleteClause struct {
	Variables []string
	Detach    bool
}

func (*DeleteClause) clauseMarker() {}

// SetClause is SET var.path = expr, ...
type SetClause struct {
	Items []SetItem
}

func (*SetClause) clauseMarker() {}

// SetItem is one `var.path = expr` assignment. Path has length 1 for a
// top-level property, >1 for a nested property chain.
type SetItem struct {
	Variable string
	Path     []string
	Value    Expression
}

// ReturnClause is RETURN items [ORDER BY ...] [LIMIT n].
type ReturnClause struct {
	Items   []ReturnItem
	OrderBy []OrderItem
	Limit   *int64
}

func (*ReturnClause) clauseMarker() {}

// ReturnItem is one projected expression with an optional alias.
type ReturnItem struct {
	Expression Expression
	Alias      string
}

// OrderItem is one ORDER BY term.
type OrderItem struct {
	Expression Expression
	Descending bool
}

// Direction is an edge pattern's direction.
type Direction int

const (
	DirRight Direction = iota // ->
	DirLeft                   // <-
	DirBoth                   // -
)

// Pattern is an alternating sequence of node and edge elements: Nodes has
// one more element than Edges, and Edges[i] connects Nodes[i] to
// Nodes[i+1].
type Pattern struct {
	Nodes []NodePattern
	Edges []EdgePattern
}

// NodePattern is `(var? :Label? {prop_map?})`.
type NodePattern struct {
	Variable   string
	Label      string
	Properties map[string]Expression
}

// EdgePattern is `-[var? :Label? {prop_map?}]-` with a Direction.
type EdgePattern struct {
	Variable   string
	Label      string
	Direction  Direction
	Properties map[string]Expression
}

// Expression is a node in the expression tree (spec.md §4.4).
type Expression interface {
	exprMarker()
}

// LiteralKind discriminates Literal.Value's Go representation.
type LiteralKind int

const (
	LitNull LiteralKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
	LitList
	LitMap
)

// Literal is a literal value: null/bool/int/float/string/list/map.
type Literal struct {
	Kind  LiteralKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	List  []Expression
	Map   map[string]Expression
}

func (*Literal) exprMarker() {}

// Variable references a bound pattern variable.
type Variable struct {
	Name string
}

func (*Variable) exprMarker() {}

// PropertyAccess is a property chain `a.b.c...`: Base is the variable name,
// Path is one or more property segments.
type PropertyAccess struct {
	Base string
	Path []string
}

func (*PropertyAccess) exprMarker() {}

// Parameter is `$name` — recognized by the grammar but rejected by every
// executor that evaluates expressions (spec.md §4.4: "reserved,
// unimplemented").
type Parameter struct {
	Name string
}

func (*Parameter) exprMarker() {}

// FunctionCall is `name(args...)`, including aggregates (COUNT/SUM/AVG/
// MIN/MAX) and COUNT(*) (Star=true, Args empty).
type FunctionCall struct {
	Name string
	Args []Expression
	Star bool
}

func (*FunctionCall) exprMarker() {}

// BinaryOperator enumerates binary operators.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpAnd
	OpOr
)

// BinaryOp is `left op right`.
type BinaryOp struct {
	Left     Expression
	Operator BinaryOperator
	Right    Expression
}

func (*BinaryOp) exprMarker() {}

// UnaryOperator enumerates unary operators.
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpPlus
	OpMinus
)

// UnaryOp is `op expr`.
type UnaryOp struct {
	Operator UnaryOperator
	Operand  Expression
}

func (*UnaryOp) exprMarker() {}
