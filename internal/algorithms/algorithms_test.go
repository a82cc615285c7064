package algorithms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdb/graphdb/internal/algorithms"
	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

// buildTestGraph constructs spec.md §8 scenario C/D's topology:
//
//	A -> B -> D
//	|    |
//	v    v
//	C -> E
func buildTestGraph(t *testing.T) (*storage.Engine, map[string]ids.Identifier) {
	t.Helper()
	e, err := storage.OpenMemory("test")
	require.NoError(t, err)

	tx, err := e.BeginTransaction()
	require.NoError(t, err)

	nodes := map[string]graph.Vertex{}
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		v, err := tx.CreateVertex("Node", graph.Properties{"name": name})
		require.NoError(t, err)
		nodes[name] = v
	}

	edges := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"B", "E"}, {"C", "E"}}
	for _, pair := range edges {
		_, err := tx.CreateEdge("LINK", nodes[pair[0]].ID, nodes[pair[1]].ID, graph.Properties{})
		require.NoError(t, err)
	}

	require.NoError(t, tx.Commit())

	out := make(map[string]ids.Identifier, len(nodes))
	for name, v := range nodes {
		out[name] = v.ID
	}
	return e, out
}

func TestShortestPathDirect(t *testing.T) {
	e, n := buildTestGraph(t)
	res, err := algorithms.ShortestPath(e, n["A"], n["B"])
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Cost)
	assert.Equal(t, 1, res.Path.Len())
	assert.Equal(t, n["A"], res.Path.Start().ID)
	assert.Equal(t, n["B"], res.Path.End().ID)
}

func TestShortestPathMultipleHops(t *testing.T) {
	e, n := buildTestGraph(t)
	res, err := algorithms.ShortestPath(e, n["A"], n["D"])
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Cost)
	require.Equal(t, 2, res.Path.Len())
	assert.Equal(t, n["A"], res.Path.Start().ID)
	assert.Equal(t, n["D"], res.Path.End().ID)
	assert.Equal(t, n["B"], res.Path.Vertices[1].ID)
}

func TestShortestPathNotFound(t *testing.T) {
	e, n := buildTestGraph(t)
	_, err := algorithms.ShortestPath(e, n["D"], n["A"])
	require.Error(t, err)
	var algErr *algorithms.Error
	require.ErrorAs(t, err, &algErr)
	assert.Equal(t, algorithms.KindPathNotFound, algErr.Kind)
}

func TestShortestPathsFromReachesExpectedSet(t *testing.T) {
	e, n := buildTestGraph(t)
	results, err := algorithms.ShortestPathsFrom(e, n["A"], 2)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, uint64(1), results[n["B"]].Cost)
	assert.Equal(t, uint64(1), results[n["C"]].Cost)
	assert.Equal(t, uint64(2), results[n["D"]].Cost)
	assert.Equal(t, uint64(2), results[n["E"]].Cost)
}

func TestVariableLengthExpandFindsExpectedPaths(t *testing.T) {
	e, n := buildTestGraph(t)
	paths, err := algorithms.VariableLengthExpand(e, n["A"], algorithms.VLEOptions{MinLength: 1, MaxLength: 2})
	require.NoError(t, err)
	require.Len(t, paths, 5)

	var lengths []int
	for _, p := range paths {
		assert.Equal(t, n["A"], p.Start().ID)
		lengths = append(lengths, p.Len())
	}
	assert.Contains(t, lengths, 1)
	assert.Contains(t, lengths, 2)
}

func TestVariableLengthExpandRejectsMinGreaterThanMax(t *testing.T) {
	e, n := buildTestGraph(t)
	_, err := algorithms.VariableLengthExpand(e, n["A"], algorithms.VLEOptions{MinLength: 3, MaxLength: 1})
	require.Error(t, err)
}

func TestVariableLengthExpandRejectsZeroMaxLength(t *testing.T) {
	e, n := buildTestGraph(t)
	_, err := algorithms.VariableLengthExpand(e, n["A"], algorithms.VLEOptions{MinLength: 1, MaxLength: 0})
	require.Error(t, err)
}

func TestVariableLengthPathsBetweenFindsBothRoutesToE(t *testing.T) {
	e, n := buildTestGraph(t)
	paths, err := algorithms.VariableLengthPathsBetween(e, n["A"], n["E"], algorithms.VLEOptions{MinLength: 2, MaxLength: 2})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, 2, p.Len())
		assert.Equal(t, n["A"], p.Start().ID)
		assert.Equal(t, n["E"], p.End().ID)
	}
}

func TestVariableLengthPathsBetweenNotFound(t *testing.T) {
	e, n := buildTestGraph(t)
	_, err := algorithms.VariableLengthPathsBetween(e, n["D"], n["A"], algorithms.VLEOptions{MinLength: 1, MaxLength: 3})
	require.Error(t, err)
}

func TestKHopNeighbors(t *testing.T) {
	e, n := buildTestGraph(t)
	neighbors, err := algorithms.KHopNeighbors(e, n["A"], 1)
	require.NoError(t, err)
	assert.Len(t, neighbors, 2)
	assert.True(t, neighbors[n["B"]])
	assert.True(t, neighbors[n["C"]])
}

func TestKHopNeighborsZeroIsSelf(t *testing.T) {
	e, n := buildTestGraph(t)
	neighbors, err := algorithms.KHopNeighbors(e, n["A"], 0)
	require.NoError(t, err)
	assert.Equal(t, map[ids.Identifier]bool{n["A"]: true}, neighbors)
}

func TestNeighborsWithinKHops(t *testing.T) {
	e, n := buildTestGraph(t)
	neighbors, err := algorithms.NeighborsWithinKHops(e, n["A"], 2)
	require.NoError(t, err)
	assert.Len(t, neighbors, 4)
}

func TestVariableLengthExpandMaxPathsLimit(t *testing.T) {
	e, n := buildTestGraph(t)
	paths, err := algorithms.VariableLengthExpand(e, n["A"], algorithms.VLEOptions{MinLength: 1, MaxLength: 2, MaxPaths: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(paths), 3)
}

func TestVariableLengthExpandNoCyclesNeverRepeatsVertex(t *testing.T) {
	e, n := buildTestGraph(t)
	paths, err := algorithms.VariableLengthExpand(e, n["A"], algorithms.VLEOptions{MinLength: 1, MaxLength: 4})
	require.NoError(t, err)
	for _, p := range paths {
		seen := map[ids.Identifier]bool{}
		for _, v := range p.Vertices {
			assert.False(t, seen[v.ID], "path revisits vertex %s", v.ID)
			seen[v.ID] = true
		}
	}
}
