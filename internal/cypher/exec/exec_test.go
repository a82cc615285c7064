package exec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdb/graphdb/internal/cypher/exec"
	"github.com/graphdb/graphdb/internal/cypher/parser"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/storage"
)

func newTestEngine(t *testing.T) *storage.Engine {
	t.Helper()
	e, err := storage.OpenMemory("test")
	require.NoError(t, err)
	return e
}

func run(t *testing.T, e *storage.Engine, src string) *exec.Result {
	t.Helper()
	q, err := parser.Parse(src)
	require.NoError(t, err)
	res, err := exec.Execute(e, q)
	require.NoError(t, err)
	return res
}

func TestCreateThenMatchReturn(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (n:Person {name: "Alice", age: 30})`)

	res := run(t, e, `MATCH (p:Person) RETURN p.name AS name, p.age AS age`)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"name", "age"}, res.Rows[0].Columns)
	assert.Equal(t, value.String("Alice"), res.Rows[0].Values[0])
	assert.Equal(t, value.Int(30), res.Rows[0].Values[1])
}

func TestCreateEdgeAndMatchTriple(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (a:Person {name: "Alice"})-[r:KNOWS]->(b:Person {name: "Bob"})`)

	res := run(t, e, `MATCH (a:Person)-[r:KNOWS]->(b:Person) RETURN a.name AS a, b.name AS b`)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, value.String("Alice"), res.Rows[0].Values[0])
	assert.Equal(t, value.String("Bob"), res.Rows[0].Values[1])
}

func TestCreateUndirectedEdgeFails(t *testing.T) {
	e := newTestEngine(t)
	q, err := parser.Parse(`CREATE (a:Person)-[r:KNOWS]-(b:Person)`)
	require.NoError(t, err)
	_, err = exec.Execute(e, q)
	require.Error(t, err)
}

func TestMatchWhereFiltersRows(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (n:Person {name: "Alice", age: 30})`)
	run(t, e, `CREATE (n:Person {name: "Bob", age: 17})`)

	res := run(t, e, `MATCH (p:Person) WHERE p.age >= 18 RETURN p.name AS name`)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, value.String("Alice"), res.Rows[0].Values[0])
}

func TestSetUpdatesProperty(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (n:Person {name: "Alice", age: 30})`)
	run(t, e, `MATCH (p:Person) SET p.age = p.age + 1`)

	res := run(t, e, `MATCH (p:Person) RETURN p.age AS age`)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, value.Int(31), res.Rows[0].Values[0])
}

func TestDeleteVertexWithEdgeFailsWithoutDetach(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (a:Person)-[r:KNOWS]->(b:Person)`)

	q, err := parser.Parse(`MATCH (a:Person)-[r:KNOWS]->(b:Person) DELETE a`)
	require.NoError(t, err)
	_, err = exec.Execute(e, q)
	require.Error(t, err)
}

func TestDetachDeleteVertexRemovesEdges(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (a:Person)-[r:KNOWS]->(b:Person)`)

	run(t, e, `MATCH (a:Person)-[r:KNOWS]->(b:Person) DETACH DELETE a`)

	vertices, err := e.ScanVertices("Person")
	require.NoError(t, err)
	require.Len(t, vertices, 1)
	edges, err := e.ScanEdges("KNOWS")
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestCountAggregate(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 3; i++ {
		_, err := e.CreateVertex("Person", graph.Properties{})
		require.NoError(t, err)
	}

	res := run(t, e, `MATCH (p:Person) RETURN COUNT(*)`)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "COUNT(*)", res.Rows[0].Columns[0])
	assert.Equal(t, value.Int(3), res.Rows[0].Values[0])
}

func TestOrderByAndLimit(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (n:Person {name: "Carol", age: 40})`)
	run(t, e, `CREATE (n:Person {name: "Alice", age: 30})`)
	run(t, e, `CREATE (n:Person {name: "Bob", age: 35})`)

	res := run(t, e, `MATCH (p:Person) RETURN p.name AS name, p.age AS age ORDER BY p.age DESC LIMIT 2`)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, value.Int(40), res.Rows[0].Values[1])
	assert.Equal(t, value.Int(35), res.Rows[1].Values[1])
}

func TestOptionalMatchProducesNullRow(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (n:Person {name: "Alice"})`)

	q, err := parser.Parse(`OPTIONAL MATCH (p:NoSuchLabel) RETURN p`)
	require.NoError(t, err)
	res, err := exec.Execute(e, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.True(t, res.Rows[0].Values[0].IsNull())
}

func TestWithClauseProjectsAndFilters(t *testing.T) {
	e := newTestEngine(t)
	run(t, e, `CREATE (n:Person {name: "Alice", age: 30})`)
	run(t, e, `CREATE (n:Person {name: "Bob", age: 17})`)

	res := run(t, e, `MATCH (p:Person) WITH p, p.age AS age WHERE age >= 18 RETURN p.name AS name`)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, value.String("Alice"), res.Rows[0].Values[0])
}
