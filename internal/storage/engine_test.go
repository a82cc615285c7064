package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdb/graphdb/internal/graph"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := OpenMemory("test")
	require.NoError(t, err)
	return e
}

func TestCreateVertexAssignsOrdinalsSequentially(t *testing.T) {
	e := newTestEngine(t)
	v1, err := e.CreateVertex("Person", graph.Properties{"name": "Alice", "age": float64(30)})
	require.NoError(t, err)
	assert.Equal(t, uint16(1), v1.ID.LabelOrdinal())
	assert.Equal(t, uint64(1), v1.ID.LocalOrdinal())

	v2, err := e.CreateVertex("Person", graph.Properties{"name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, uint16(1), v2.ID.LabelOrdinal())
	assert.Equal(t, uint64(2), v2.ID.LocalOrdinal())

	v3, err := e.CreateVertex("Company", nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v3.ID.LabelOrdinal())
	assert.Equal(t, uint64(1), v3.ID.LocalOrdinal())
}

func TestGetVertexRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	v, err := e.CreateVertex("Person", graph.Properties{"name": "Alice", "age": float64(30)})
	require.NoError(t, err)

	got, found, err := e.GetVertex(v.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice", got.Properties["name"])
	assert.Equal(t, float64(30), got.Properties["age"])
}

func TestCreateEdgeWritesAdjacencyIndexes(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.CreateVertex("Person", nil)
	b, _ := e.CreateVertex("Person", nil)
	edge, err := e.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)

	out, err := e.GetOutgoingEdges(a.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, edge.ID, out[0].ID)

	in, err := e.GetIncomingEdges(b.ID)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, edge.ID, in[0].ID)
}

func TestDeleteVertexFailsWithIncidentEdges(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.CreateVertex("Person", nil)
	b, _ := e.CreateVertex("Person", nil)
	_, err := e.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)

	err = e.DeleteVertex(a.ID)
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindVertexHasEdges, se.Kind)
	assert.Equal(t, 1, se.Count)
}

func TestDeleteEdgeThenDeleteVertexSucceeds(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.CreateVertex("Person", nil)
	b, _ := e.CreateVertex("Person", nil)
	edge, err := e.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)

	require.NoError(t, e.DeleteEdge(edge.ID))
	require.NoError(t, e.DeleteVertex(a.ID))

	_, found, err := e.GetVertex(a.ID)
	require.NoError(t, err)
	assert.False(t, found)

	out, err := e.GetOutgoingEdges(a.ID)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestScanVerticesEmptyForUnknownLabel(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.ScanVertices("NoSuchLabel")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTransactionRollbackDiscardsEffects(t *testing.T) {
	e := newTestEngine(t)
	tx, err := e.BeginTransaction()
	require.NoError(t, err)
	v, err := tx.CreateVertex("Person", nil)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	_, found, err := e.GetVertex(v.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTransactionCannotMutateAfterCommit(t *testing.T) {
	e := newTestEngine(t)
	tx, err := e.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, err = tx.CreateVertex("Person", nil)
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindTransactionError, se.Kind)
}

func TestTransactionReadsObserveOnlyCommittedState(t *testing.T) {
	e := newTestEngine(t)
	tx, err := e.BeginTransaction()
	require.NoError(t, err)
	v, err := tx.CreateVertex("Person", nil)
	require.NoError(t, err)

	_, found, err := tx.GetVertex(v.ID)
	require.NoError(t, err)
	assert.False(t, found, "transaction reads must not see its own staged writes before commit")

	require.NoError(t, tx.Commit())
	_, found, err = e.GetVertex(v.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCounterOverflow(t *testing.T) {
	e := newTestEngine(t)
	tx, err := e.BeginTransaction()
	require.NoError(t, err)
	tx.counterCache["Person"] = (1 << 48) - 1 // MaxLocalOrdinal, pre-seed to force overflow on next reservation
	_, err = tx.CreateVertex("Person", nil)
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindCounterOverflow, se.Kind)
}
