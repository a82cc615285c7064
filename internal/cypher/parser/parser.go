// Package parser implements a recursive-descent parser lowering Cypher
// source text to the typed query tree in internal/cypher/ast (spec.md
// §4.4). It generalizes the token-list-plus-position-cursor dispatch idiom
// of the teacher's pkg/cypher/parser.go (whose own parseMatch/parseCreate/
// ... bodies are unimplemented stubs there) into a full grammar, grounded
// on _examples/original_source's parser/ast.rs and parser/mod.rs tests for
// exact clause shapes.
package parser

import (
	"strconv"
	"strings"

	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/lexer"
)

// Parser holds the token stream and cursor for one Parse call.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses one Cypher statement.
func Parse(src string) (*ast.Query, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, &Error{Kind: KindInvalidSyntax, Message: err.Error()}
	}
	p := &Parser{toks: toks}
	return p.parseQuery()
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(kind lexer.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) atKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == lexer.KindIdent && strings.EqualFold(t.Text, kw)
}

func (p *Parser) atPunct(s string) bool {
	t := p.cur()
	return t.Kind == lexer.KindPunct && t.Text == s
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return syntaxErrorf(p.cur().Pos, "expected %q, got %q", s, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return syntaxErrorf(p.cur().Pos, "expected keyword %q, got %q", kw, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if !p.at(lexer.KindIdent) {
		return "", syntaxErrorf(p.cur().Pos, "expected identifier, got %q", p.cur().Text)
	}
	t := p.advance()
	return t.Text, nil
}

// parseQuery parses the top-level clause sequence and classifies the
// query's Kind (spec.md §4.4: Read, Write, Mixed).
func (p *Parser) parseQuery() (*ast.Query, error) {
	q := &ast.Query{}
	if p.at(lexer.KindEOF) {
		return nil, syntaxErrorf(0, "empty query")
	}

	sawMatch := false
	sawWrite := false

	for !p.at(lexer.KindEOF) {
		if p.atPunct(";") {
			p.advance()
			continue
		}
		switch {
		case p.atKeyword("OPTIONAL"):
			p.advance()
			if err := p.expectKeyword("MATCH"); err != nil {
				return nil, err
			}
			mc, err := p.parseMatchBody(true)
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, mc)
			sawMatch = true

		case p.atKeyword("MATCH"):
			p.advance()
			mc, err := p.parseMatchBody(false)
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, mc)
			sawMatch = true

		case p.atKeyword("WITH"):
			p.advance()
			wc, err := p.parseWithClause()
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, wc)

		case p.atKeyword("WHERE"):
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, &ast.WhereClause{Expression: expr})

		case p.atKeyword("CREATE"):
			p.advance()
			pat, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, &ast.CreateClause{Pattern: pat})
			sawWrite = true

		case p.atKeyword("DETACH"), p.atKeyword("DELETE"):
			dc, err := p.parseDeleteClause()
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, dc)
			sawWrite = true

		case p.atKeyword("SET"):
			p.advance()
			sc, err := p.parseSetClause()
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, sc)
			sawWrite = true

		case p.atKeyword("RETURN"):
			p.advance()
			rc, err := p.parseReturnClause()
			if err != nil {
				return nil, err
			}
			q.Clauses = append(q.Clauses, rc)

		default:
			return nil, syntaxErrorf(p.cur().Pos, "unexpected token %q", p.cur().Text)
		}
	}

	switch {
	case sawMatch && sawWrite:
		q.Kind = ast.KindMixed
	case sawWrite:
		q.Kind = ast.KindWrite
	default:
		q.Kind = ast.KindRead
	}
	return q, nil
}

// parseMatchBody parses the pattern and optional WHERE that follow the
// MATCH/OPTIONAL MATCH keyword(s), already consumed by the caller.
func (p *Parser) parseMatchBody(optional bool) (*ast.MatchClause, error) {
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	mc := &ast.MatchClause{Pattern: pat, Optional: optional}
	if p.atKeyword("WHERE") {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		mc.Where = &ast.WhereClause{Expression: expr}
	}
	return mc, nil
}

// parseWithClause parses `item [AS alias], ... [WHERE expr] [ORDER BY ...]
// [LIMIT n]` (SPEC_FULL.md §3 supplement).
func (p *Parser) parseWithClause() (*ast.WithClause, error) {
	items, err := p.parseReturnItems()
	if err != nil {
		return nil, err
	}
	wc := &ast.WithClause{Items: items}
	if p.atKeyword("WHERE") {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		wc.Where = &ast.WhereClause{Expression: expr}
	}
	if p.atKeyword("ORDER") {
		ob, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		wc.OrderBy = ob
	}
	if p.atKeyword("LIMIT") {
		n, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		wc.Limit = &n
	}
	return wc, nil
}

// --- DELETE ---

func (p *Parser) parseDeleteClause() (*ast.DeleteClause, error) {
	dc := &ast.DeleteClause{}
	if p.atKeyword("DETACH") {
		dc.Detach = true
		p.advance()
	}
	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		dc.Variables = append(dc.Variables, name)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return dc, nil
}

// --- SET ---

func (p *Parser) parseSetClause() (*ast.SetClause, error) {
	sc := &ast.SetClause{}
	for {
		variable, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("."); err != nil {
			return nil, err
		}
		path := []string{}
		for {
			seg, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
			if p.atPunct(".") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		sc.Items = append(sc.Items, ast.SetItem{Variable: variable, Path: path, Value: val})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return sc, nil
}

// --- RETURN ---

func (p *Parser) parseReturnClause() (*ast.ReturnClause, error) {
	items, err := p.parseReturnItems()
	if err != nil {
		return nil, err
	}
	rc := &ast.ReturnClause{Items: items}
	if p.atKeyword("ORDER") {
		ob, err := p.parseOrderBy()
		if err != nil {
			return nil, err
		}
		rc.OrderBy = ob
	}
	if p.atKeyword("LIMIT") {
		n, err := p.parseLimit()
		if err != nil {
			return nil, err
		}
		rc.Limit = &n
	}
	return rc, nil
}

func (p *Parser) parseReturnItems() ([]ast.ReturnItem, error) {
	var items []ast.ReturnItem
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		item := ast.ReturnItem{Expression: expr}
		if p.atKeyword("AS") {
			p.advance()
			alias, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			item.Alias = alias
		}
		items = append(items, item)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseOrderBy() ([]ast.OrderItem, error) {
	if err := p.expectKeyword("ORDER"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("BY"); err != nil {
		return nil, err
	}
	var items []ast.OrderItem
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		desc := false
		if p.atKeyword("ASC") {
			p.advance()
		} else if p.atKeyword("DESC") {
			desc = true
			p.advance()
		}
		items = append(items, ast.OrderItem{Expression: expr, Descending: desc})
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseLimit() (int64, error) {
	if err := p.expectKeyword("LIMIT"); err != nil {
		return 0, err
	}
	if !p.at(lexer.KindNumber) {
		return 0, syntaxErrorf(p.cur().Pos, "expected number after LIMIT")
	}
	t := p.advance()
	n, err := strconv.ParseInt(t.Text, 10, 64)
	if err != nil {
		return 0, syntaxErrorf(t.Pos, "invalid LIMIT value %q", t.Text)
	}
	return n, nil
}

// --- patterns ---

func (p *Parser) parsePattern() (ast.Pattern, error) {
	var pat ast.Pattern
	node, err := p.parseNodePattern()
	if err != nil {
		return pat, err
	}
	pat.Nodes = append(pat.Nodes, node)

	for p.atPunct("-") || p.atPunct("<") {
		edge, err := p.parseEdgePattern()
		if err != nil {
			return pat, err
		}
		pat.Edges = append(pat.Edges, edge)
		next, err := p.parseNodePattern()
		if err != nil {
			return pat, err
		}
		pat.Nodes = append(pat.Nodes, next)
	}
	if p.atPunct(",") {
		return pat, unsupportedf(p.cur().Pos, "multiple comma-separated patterns in one clause are not supported")
	}
	return pat, nil
}

func (p *Parser) parseNodePattern() (ast.NodePattern, error) {
	var np ast.NodePattern
	if err := p.expectPunct("("); err != nil {
		return np, err
	}
	if p.at(lexer.KindIdent) {
		np.Variable = p.advance().Text
	}
	if p.atPunct(":") {
		p.advance()
		label, err := p.expectIdent()
		if err != nil {
			return np, err
		}
		np.Label = label
	}
	if p.atPunct("{") {
		props, err := p.parsePropertyMap()
		if err != nil {
			return np, err
		}
		np.Properties = props
	}
	if err := p.expectPunct(")"); err != nil {
		return np, err
	}
	return np, nil
}

func (p *Parser) parseEdgePattern() (ast.EdgePattern, error) {
	var ep ast.EdgePattern
	leftArrow := false
	if p.atPunct("<") {
		p.advance()
		leftArrow = true
	}
	if err := p.expectPunct("-"); err != nil {
		return ep, err
	}
	hasBracket := p.atPunct("[")
	if hasBracket {
		p.advance()
		if p.at(lexer.KindIdent) {
			// could be variable or, if immediately followed by ':', still variable then label
			save := p.pos
			name := p.advance().Text
			if p.atPunct(":") || p.atPunct("]") || p.atPunct("{") {
				ep.Variable = name
			} else {
				p.pos = save
			}
		}
		if p.atPunct(":") {
			p.advance()
			label, err := p.expectIdent()
			if err != nil {
				return ep, err
			}
			ep.Label = label
		}
		if p.atPunct("{") {
			props, err := p.parsePropertyMap()
			if err != nil {
				return ep, err
			}
			ep.Properties = props
		}
		if err := p.expectPunct("]"); err != nil {
			return ep, err
		}
	}
	if err := p.expectPunct("-"); err != nil {
		return ep, err
	}
	rightArrow := false
	if p.atPunct(">") {
		p.advance()
		rightArrow = true
	}
	switch {
	case rightArrow && !leftArrow:
		ep.Direction = ast.DirRight
	case leftArrow && !rightArrow:
		ep.Direction = ast.DirLeft
	default:
		ep.Direction = ast.DirBoth
	}
	return ep, nil
}

func (p *Parser) parsePropertyMap() (map[string]ast.Expression, error) {
	m := make(map[string]ast.Expression)
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if p.atPunct("}") {
		p.advance()
		return m, nil
	}
	for {
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		m[key] = val
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return m, nil
}

// --- expressions ---
//
// Precedence climbs OR -> AND -> NOT -> comparison -> additive ->
// multiplicative -> unary -> primary, matching the teacher's listed
// precedence table in pkg/cypher/parser.go's doc comment.

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("OR") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Operator: ast.OpOr, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Operator: ast.OpAnd, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expression, error) {
	if p.atKeyword("NOT") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Operator: ast.OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]ast.BinaryOperator{
	"=":  ast.OpEq,
	"<>": ast.OpNeq,
	"<":  ast.OpLt,
	">":  ast.OpGt,
	"<=": ast.OpLte,
	">=": ast.OpGte,
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.KindPunct) {
		if op, ok := comparisonOps[p.cur().Text]; ok {
			p.advance()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &ast.BinaryOp{Left: left, Operator: op, Right: right}, nil
		}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := ast.OpAdd
		if p.cur().Text == "-" {
			op = ast.OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atPunct("*") || p.atPunct("/") || p.atPunct("%") {
		var op ast.BinaryOperator
		switch p.cur().Text {
		case "*":
			op = ast.OpMul
		case "/":
			op = ast.OpDiv
		case "%":
			op = ast.OpMod
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.atPunct("-") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Operator: ast.OpMinus, Operand: operand}, nil
	}
	if p.atPunct("+") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Operator: ast.OpPlus, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	t := p.cur()
	switch t.Kind {
	case lexer.KindNumber:
		p.advance()
		if strings.Contains(t.Text, ".") {
			f, err := strconv.ParseFloat(t.Text, 64)
			if err != nil {
				return nil, syntaxErrorf(t.Pos, "invalid float literal %q", t.Text)
			}
			return &ast.Literal{Kind: ast.LitFloat, Float: f}, nil
		}
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, syntaxErrorf(t.Pos, "invalid integer literal %q", t.Text)
		}
		return &ast.Literal{Kind: ast.LitInt, Int: n}, nil

	case lexer.KindString:
		p.advance()
		return &ast.Literal{Kind: ast.LitString, Str: t.Text}, nil

	case lexer.KindParam:
		p.advance()
		return &ast.Parameter{Name: t.Text}, nil

	case lexer.KindPunct:
		switch t.Text {
		case "(":
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return expr, nil
		case "[":
			return p.parseListLiteral()
		case "{":
			m, err := p.parsePropertyMap()
			if err != nil {
				return nil, err
			}
			return &ast.Literal{Kind: ast.LitMap, Map: m}, nil
		}
		return nil, syntaxErrorf(t.Pos, "unexpected token %q", t.Text)

	case lexer.KindIdent:
		return p.parseIdentExpr()

	default:
		return nil, syntaxErrorf(t.Pos, "unexpected token %q", t.Text)
	}
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}
	lit := &ast.Literal{Kind: ast.LitList}
	if p.atPunct("]") {
		p.advance()
		return lit, nil
	}
	for {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lit.List = append(lit.List, elem)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseIdentExpr parses an identifier-led primary: a keyword literal
// (true/false/null), a function call (including COUNT(*)), a bare
// variable, or a property-access chain `a.b.c`.
func (p *Parser) parseIdentExpr() (ast.Expression, error) {
	t := p.advance()
	switch strings.ToUpper(t.Text) {
	case "TRUE":
		return &ast.Literal{Kind: ast.LitBool, Bool: true}, nil
	case "FALSE":
		return &ast.Literal{Kind: ast.LitBool, Bool: false}, nil
	case "NULL":
		return &ast.Literal{Kind: ast.LitNull}, nil
	}

	if p.atPunct("(") {
		p.advance()
		call := &ast.FunctionCall{Name: t.Text}
		if p.atPunct("*") {
			p.advance()
			call.Star = true
		} else if !p.atPunct(")") {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if p.atPunct(",") {
					p.advance()
					continue
				}
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return call, nil
	}

	if p.atPunct(".") {
		var path []string
		for p.atPunct(".") {
			p.advance()
			seg, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
		}
		return &ast.PropertyAccess{Base: t.Text, Path: path}, nil
	}

	return &ast.Variable{Name: t.Text}, nil
}
