package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdb/graphdb/internal/cypher/ast"
)

func TestParseSimpleMatchReturn(t *testing.T) {
	q, err := Parse(`MATCH (n:Person) RETURN n`)
	require.NoError(t, err)
	require.Len(t, q.Clauses, 2)
	assert.Equal(t, ast.KindRead, q.Kind)

	mc, ok := q.Clauses[0].(*ast.MatchClause)
	require.True(t, ok)
	require.Len(t, mc.Pattern.Nodes, 1)
	assert.Equal(t, "n", mc.Pattern.Nodes[0].Variable)
	assert.Equal(t, "Person", mc.Pattern.Nodes[0].Label)
	assert.False(t, mc.Optional)

	rc, ok := q.Clauses[1].(*ast.ReturnClause)
	require.True(t, ok)
	require.Len(t, rc.Items, 1)
	v, ok := rc.Items[0].Expression.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "n", v.Name)
}

func TestParseTriplePatternWithDirection(t *testing.T) {
	q, err := Parse(`MATCH (a:Person)-[r:KNOWS]->(b:Person) WHERE a.age > 30 RETURN a, b`)
	require.NoError(t, err)
	mc := q.Clauses[0].(*ast.MatchClause)
	require.Len(t, mc.Pattern.Nodes, 2)
	require.Len(t, mc.Pattern.Edges, 1)
	edge := mc.Pattern.Edges[0]
	assert.Equal(t, "r", edge.Variable)
	assert.Equal(t, "KNOWS", edge.Label)
	assert.Equal(t, ast.DirRight, edge.Direction)
	require.NotNil(t, mc.Where)

	cmp, ok := mc.Where.Expression.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpGt, cmp.Operator)
	pa, ok := cmp.Left.(*ast.PropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "a", pa.Base)
	assert.Equal(t, []string{"age"}, pa.Path)
}

func TestParseLeftDirectionAndBareEdge(t *testing.T) {
	q, err := Parse(`MATCH (a)<-[:LIKES]-(b) RETURN a`)
	require.NoError(t, err)
	mc := q.Clauses[0].(*ast.MatchClause)
	assert.Equal(t, ast.DirLeft, mc.Pattern.Edges[0].Direction)
	assert.Equal(t, "LIKES", mc.Pattern.Edges[0].Label)

	q2, err := Parse(`MATCH (a)-[]-(b) RETURN a`)
	require.NoError(t, err)
	mc2 := q2.Clauses[0].(*ast.MatchClause)
	assert.Equal(t, ast.DirBoth, mc2.Pattern.Edges[0].Direction)
}

func TestParseOptionalMatch(t *testing.T) {
	q, err := Parse(`MATCH (a:Person) OPTIONAL MATCH (a)-[:OWNS]->(p:Pet) RETURN a, p`)
	require.NoError(t, err)
	require.Len(t, q.Clauses, 3)
	mc2, ok := q.Clauses[1].(*ast.MatchClause)
	require.True(t, ok)
	assert.True(t, mc2.Optional)
}

func TestParseWithClause(t *testing.T) {
	q, err := Parse(`MATCH (n:Person) WITH n, COUNT(*) AS cnt WHERE cnt > 1 ORDER BY cnt DESC LIMIT 5 RETURN n, cnt`)
	require.NoError(t, err)
	var wc *ast.WithClause
	for _, c := range q.Clauses {
		if w, ok := c.(*ast.WithClause); ok {
			wc = w
		}
	}
	require.NotNil(t, wc)
	require.Len(t, wc.Items, 2)
	fc, ok := wc.Items[1].Expression.(*ast.FunctionCall)
	require.True(t, ok)
	assert.True(t, fc.Star)
	assert.Equal(t, "cnt", wc.Items[1].Alias)
	require.NotNil(t, wc.Where)
	require.Len(t, wc.OrderBy, 1)
	assert.True(t, wc.OrderBy[0].Descending)
	require.NotNil(t, wc.Limit)
	assert.EqualValues(t, 5, *wc.Limit)
}

func TestParseCreateWithPropertyMap(t *testing.T) {
	q, err := Parse(`CREATE (n:Person {name: "Alice", age: 30})`)
	require.NoError(t, err)
	cc, ok := q.Clauses[0].(*ast.CreateClause)
	require.True(t, ok)
	node := cc.Pattern.Nodes[0]
	require.Contains(t, node.Properties, "name")
	require.Contains(t, node.Properties, "age")
	lit, ok := node.Properties["name"].(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "Alice", lit.Str)
	assert.Equal(t, ast.KindWrite, q.Kind)
}

func TestParseSetMultiLevelPath(t *testing.T) {
	q, err := Parse(`MATCH (n:Person) SET n.address.city = "NYC"`)
	require.NoError(t, err)
	assert.Equal(t, ast.KindMixed, q.Kind)
	var sc *ast.SetClause
	for _, c := range q.Clauses {
		if s, ok := c.(*ast.SetClause); ok {
			sc = s
		}
	}
	require.NotNil(t, sc)
	require.Len(t, sc.Items, 1)
	assert.Equal(t, []string{"address", "city"}, sc.Items[0].Path)
}

func TestParseDetachDelete(t *testing.T) {
	q, err := Parse(`MATCH (n:Person) DETACH DELETE n`)
	require.NoError(t, err)
	var dc *ast.DeleteClause
	for _, c := range q.Clauses {
		if d, ok := c.(*ast.DeleteClause); ok {
			dc = d
		}
	}
	require.NotNil(t, dc)
	assert.True(t, dc.Detach)
	assert.Equal(t, []string{"n"}, dc.Variables)
}

func TestParseBooleanAndArithmeticPrecedence(t *testing.T) {
	q, err := Parse(`MATCH (n) WHERE n.a = 1 + 2 * 3 AND NOT n.b = 0 OR n.c <> 4 RETURN n`)
	require.NoError(t, err)
	mc := q.Clauses[0].(*ast.MatchClause)
	top, ok := mc.Where.Expression.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, top.Operator)
}

func TestParseListAndMapLiterals(t *testing.T) {
	q, err := Parse(`RETURN [1, 2, 3], {x: 1, y: 2}`)
	require.NoError(t, err)
	rc := q.Clauses[0].(*ast.ReturnClause)
	list, ok := rc.Items[0].Expression.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LitList, list.Kind)
	assert.Len(t, list.List, 3)

	m, ok := rc.Items[1].Expression.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LitMap, m.Kind)
	assert.Len(t, m.Map, 2)
}

func TestParseParameterReference(t *testing.T) {
	q, err := Parse(`MATCH (n:Person) WHERE n.name = $name RETURN n`)
	require.NoError(t, err)
	mc := q.Clauses[0].(*ast.MatchClause)
	cmp := mc.Where.Expression.(*ast.BinaryOp)
	param, ok := cmp.Right.(*ast.Parameter)
	require.True(t, ok)
	assert.Equal(t, "name", param.Name)
}

func TestParseMultiLevelPropertyAccessExpression(t *testing.T) {
	q, err := Parse(`MATCH (n) RETURN n.address.city`)
	require.NoError(t, err)
	rc := q.Clauses[0].(*ast.ReturnClause)
	pa, ok := rc.Items[0].Expression.(*ast.PropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "n", pa.Base)
	assert.Equal(t, []string{"address", "city"}, pa.Path)
}

func TestParseSyntaxErrorUnterminatedPattern(t *testing.T) {
	_, err := Parse(`MATCH (n:Person RETURN n`)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInvalidSyntax, perr.Kind)
}

func TestParseEmptyQueryIsError(t *testing.T) {
	_, err := Parse(``)
	require.Error(t, err)
}
