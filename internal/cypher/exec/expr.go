package exec

import (
	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
)

// Eval evaluates expr against row, implementing spec.md §4.5's WHERE/RETURN
// evaluation rules (depth-first recursion, float promotion on mixed
// arithmetic, string + concatenation, epsilon equality). Grounded on
// _examples/original_source's match_executor.rs evaluate_expression/
// evaluate_binary_op/evaluate_unary_op.
func Eval(expr ast.Expression, row Row) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return evalLiteral(e, row)

	case *ast.Variable:
		v, ok := row[e.Name]
		if !ok {
			return value.Null, errVariableNotFound(e.Name)
		}
		return v, nil

	case *ast.PropertyAccess:
		return evalPropertyAccess(e, row)

	case *ast.Parameter:
		return value.Null, errUnsupported("query parameters are not supported")

	case *ast.FunctionCall:
		return value.Null, errUnsupported("function %q is only valid as a top-level RETURN/WITH item", e.Name)

	case *ast.BinaryOp:
		left, err := Eval(e.Left, row)
		if err != nil {
			return value.Null, err
		}
		right, err := Eval(e.Right, row)
		if err != nil {
			return value.Null, err
		}
		return evalBinary(left, e.Operator, right)

	case *ast.UnaryOp:
		operand, err := Eval(e.Operand, row)
		if err != nil {
			return value.Null, err
		}
		return evalUnary(e.Operator, operand)

	default:
		return value.Null, errInvalidExpression("unrecognized expression node")
	}
}

func evalLiteral(lit *ast.Literal, row Row) (value.Value, error) {
	switch lit.Kind {
	case ast.LitNull:
		return value.Null, nil
	case ast.LitBool:
		return value.Bool(lit.Bool), nil
	case ast.LitInt:
		return value.Int(lit.Int), nil
	case ast.LitFloat:
		return value.Float(lit.Float), nil
	case ast.LitString:
		return value.String(lit.Str), nil
	case ast.LitList:
		out := make([]value.Value, len(lit.List))
		for i, elem := range lit.List {
			v, err := Eval(elem, row)
			if err != nil {
				return value.Null, err
			}
			out[i] = v
		}
		return value.List(out), nil
	case ast.LitMap:
		out := make(map[string]value.Value, len(lit.Map))
		for k, elem := range lit.Map {
			v, err := Eval(elem, row)
			if err != nil {
				return value.Null, err
			}
			out[k] = v
		}
		return value.Map(out), nil
	default:
		return value.Null, errInvalidExpression("unrecognized literal kind")
	}
}

// EvalLiteral evaluates a pattern property-map expression (spec.md §4.5:
// "evaluate property-map equality"). The parser accepts any expression in a
// pattern's {..}; this function rejects every non-literal one.
func EvalLiteral(expr ast.Expression) (value.Value, error) {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return value.Null, errInvalidExpression("pattern property values must be literals")
	}
	return evalLiteral(lit, nil)
}

func evalPropertyAccess(pa *ast.PropertyAccess, row Row) (value.Value, error) {
	base, ok := row[pa.Base]
	if !ok {
		return value.Null, errVariableNotFound(pa.Base)
	}
	var props map[string]any
	switch base.Kind {
	case value.KindVertex:
		props = base.Vertex.Properties
	case value.KindEdge:
		props = base.Edge.Properties
	default:
		return value.Null, errTypeMismatch("property access on %s, expected Vertex or Edge", base.TypeName())
	}

	var cur any = props
	for i, seg := range pa.Path {
		m, ok := cur.(map[string]any)
		if !ok {
			return value.Null, errPropertyNotFound(joinPath(pa.Path[:i+1]))
		}
		next, ok := m[seg]
		if !ok {
			return value.Null, errPropertyNotFound(joinPath(pa.Path[:i+1]))
		}
		cur = next
	}
	return value.FromJSON(cur), nil
}

func joinPath(path []string) string {
	out := ""
	for i, s := range path {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

func evalBinary(left value.Value, op ast.BinaryOperator, right value.Value) (value.Value, error) {
	switch op {
	case ast.OpEq:
		return value.Bool(value.Equal(left, right)), nil
	case ast.OpNeq:
		return value.Bool(!value.Equal(left, right)), nil
	case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		ord, ok := value.CompareForFilter(left, right)
		if !ok {
			return value.Null, errTypeMismatch("cannot compare %s with %s", left.TypeName(), right.TypeName())
		}
		switch op {
		case ast.OpLt:
			return value.Bool(ord == value.Less), nil
		case ast.OpGt:
			return value.Bool(ord == value.Greater), nil
		case ast.OpLte:
			return value.Bool(ord != value.Greater), nil
		default: // OpGte
			return value.Bool(ord != value.Less), nil
		}
	case ast.OpAnd:
		return value.Bool(left.IsTruthy() && right.IsTruthy()), nil
	case ast.OpOr:
		return value.Bool(left.IsTruthy() || right.IsTruthy()), nil
	case ast.OpAdd:
		return arithmeticAdd(left, right)
	case ast.OpSub:
		return arithmetic(left, right,
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b })
	case ast.OpMul:
		return arithmetic(left, right,
			func(a, b int64) int64 { return a * b },
			func(a, b float64) float64 { return a * b })
	case ast.OpDiv:
		if isZero(right) {
			return value.Null, errInvalidExpression("division by zero")
		}
		return arithmetic(left, right,
			func(a, b int64) int64 { return a / b },
			func(a, b float64) float64 { return a / b })
	case ast.OpMod:
		if left.Kind != value.KindInteger || right.Kind != value.KindInteger {
			return value.Null, errInvalidExpression("modulo requires integer operands")
		}
		if right.Int == 0 {
			return value.Null, errInvalidExpression("division by zero")
		}
		return value.Int(left.Int % right.Int), nil
	default:
		return value.Null, errInvalidExpression("unrecognized binary operator")
	}
}

func isZero(v value.Value) bool {
	switch v.Kind {
	case value.KindInteger:
		return v.Int == 0
	case value.KindFloat:
		return v.Float == 0
	default:
		return false
	}
}

// arithmeticAdd handles spec.md §4.5's "string + concatenates" rule before
// falling back to numeric promotion.
func arithmeticAdd(left, right value.Value) (value.Value, error) {
	if left.Kind == value.KindString && right.Kind == value.KindString {
		return value.String(left.Str + right.Str), nil
	}
	return arithmetic(left, right,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

// arithmetic promotes integer/integer to integer and anything involving a
// float to float (spec.md §4.5: "Arithmetic on mixed integer/float promotes
// to float"), applying intOp directly on int64 operands rather than
// round-tripping through float64 to avoid precision loss for large values.
func arithmetic(left, right value.Value, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (value.Value, error) {
	if left.Kind == value.KindInteger && right.Kind == value.KindInteger {
		return value.Int(intOp(left.Int, right.Int)), nil
	}
	lf, lok := left.AsFloat64()
	rf, rok := right.AsFloat64()
	if !lok || !rok {
		return value.Null, errTypeMismatch("arithmetic requires numeric operands, got %s and %s", left.TypeName(), right.TypeName())
	}
	return value.Float(floatOp(lf, rf)), nil
}

func evalUnary(op ast.UnaryOperator, operand value.Value) (value.Value, error) {
	switch op {
	case ast.OpNot:
		return value.Bool(!operand.IsTruthy()), nil
	case ast.OpMinus:
		switch operand.Kind {
		case value.KindInteger:
			return value.Int(-operand.Int), nil
		case value.KindFloat:
			return value.Float(-operand.Float), nil
		default:
			return value.Null, errTypeMismatch("unary minus requires a number, got %s", operand.TypeName())
		}
	case ast.OpPlus:
		switch operand.Kind {
		case value.KindInteger, value.KindFloat:
			return operand, nil
		default:
			return value.Null, errTypeMismatch("unary plus requires a number, got %s", operand.TypeName())
		}
	default:
		return value.Null, errInvalidExpression("unrecognized unary operator")
	}
}
