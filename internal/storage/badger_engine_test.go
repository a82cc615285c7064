package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdb/graphdb/internal/graph"
)

func TestBadgerEngineCreateAndGetVertex(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenBadger("test", BadgerOptions{DataDir: dir, SyncWrites: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	v, err := e.CreateVertex("Person", graph.Properties{"name": "Alice"})
	require.NoError(t, err)

	got, found, err := e.GetVertex(v.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice", got.Properties["name"])
}

func TestBadgerEngineReopenSeedsCatalog(t *testing.T) {
	dir := t.TempDir()
	e1, err := OpenBadger("test", BadgerOptions{DataDir: dir})
	require.NoError(t, err)
	v1, err := e1.CreateVertex("Person", nil)
	require.NoError(t, err)
	require.NoError(t, e1.Close())

	e2, err := OpenBadger("test", BadgerOptions{DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e2.Close() })

	v2, err := e2.CreateVertex("Person", nil)
	require.NoError(t, err)
	assert.Equal(t, v1.ID.LabelOrdinal(), v2.ID.LabelOrdinal())
	assert.NotEqual(t, v1.ID.LocalOrdinal(), v2.ID.LocalOrdinal())
}
