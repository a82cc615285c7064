package storage

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
)

// recordCache fronts Engine.GetVertex/GetEdge with an in-process cache,
// absorbing read pressure on the hot lookup path the way an adjacency-heavy
// workload repeatedly re-reads the same handful of vertices (e.g. pattern
// matching a star-shaped pattern, or algorithms walking a frontier). Keys
// are hashed with xxhash into the uint64 ristretto wants, since our natural
// cache keys are "ns:kind:id" strings.
type recordCache struct {
	vertices *ristretto.Cache[uint64, graph.Vertex]
	edges    *ristretto.Cache[uint64, graph.Edge]
}

func newRecordCache() *recordCache {
	vc, err := ristretto.NewCache(&ristretto.Config[uint64, graph.Vertex]{
		NumCounters: 1e6,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		// A cache is a pure optimization; if it can't be built, every
		// lookup simply misses and falls through to the KV store.
		vc = nil
	}
	ec, err := ristretto.NewCache(&ristretto.Config[uint64, graph.Edge]{
		NumCounters: 1e6,
		MaxCost:     1 << 16,
		BufferItems: 64,
	})
	if err != nil {
		ec = nil
	}
	return &recordCache{vertices: vc, edges: ec}
}

func cacheKey(ns, kind string, id ids.Identifier) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(ns)
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(kind)
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(strconv.FormatUint(id.Raw(), 10))
	return h.Sum64()
}

func (c *recordCache) getVertex(ns string, id ids.Identifier) (graph.Vertex, bool) {
	if c.vertices == nil {
		return graph.Vertex{}, false
	}
	return c.vertices.Get(cacheKey(ns, "v", id))
}

func (c *recordCache) putVertex(ns string, v graph.Vertex) {
	if c.vertices == nil {
		return
	}
	c.vertices.Set(cacheKey(ns, "v", v.ID), v, 1)
}

func (c *recordCache) invalidateVertex(ns string, id ids.Identifier) {
	if c.vertices == nil {
		return
	}
	c.vertices.Del(cacheKey(ns, "v", id))
}

func (c *recordCache) getEdge(ns string, id ids.Identifier) (graph.Edge, bool) {
	if c.edges == nil {
		return graph.Edge{}, false
	}
	return c.edges.Get(cacheKey(ns, "e", id))
}

func (c *recordCache) putEdge(ns string, e graph.Edge) {
	if c.edges == nil {
		return
	}
	c.edges.Set(cacheKey(ns, "e", e.ID), e, 1)
}

func (c *recordCache) invalidateEdge(ns string, id ids.Identifier) {
	if c.edges == nil {
		return
	}
	c.edges.Del(cacheKey(ns, "e", id))
}
