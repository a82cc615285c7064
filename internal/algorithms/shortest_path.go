// Package algorithms implements graph algorithms over GraphStorage: uniform-
// weight shortest path (spec.md §4.8) and bounded variable-length
// expansion (this file and vle.go respectively). Grounded on
// _examples/original_source/src/algorithms/shortest_path.rs and vle.rs,
// re-expressed with a container/heap priority queue in the style of the
// teacher's apoc/algo/algo.go (Item/PriorityQueue).
package algorithms

import (
	"container/heap"

	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

// ShortestPathResult is the outcome of a uniform-weight shortest-path query.
type ShortestPathResult struct {
	Path graph.Path
	Cost uint64
}

// dijkstraItem is one entry in the priority queue: the vertex reached and
// the cost to reach it. Ties are broken by ascending raw identifier
// (spec.md §4.8: "by raw identifier ascending (deterministic)").
type dijkstraItem struct {
	vertex ids.Identifier
	cost   uint64
	index  int
}

type dijkstraQueue []*dijkstraItem

func (q dijkstraQueue) Len() int { return len(q) }

func (q dijkstraQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].vertex.Raw() < q[j].vertex.Raw()
}

func (q dijkstraQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *dijkstraQueue) Push(x any) {
	item := x.(*dijkstraItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *dijkstraQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// predecessor records, for a reached vertex, the prior vertex and the edge
// that reached it — enough to reconstruct the path by walking backwards.
type predecessor struct {
	from ids.Identifier
	edge graph.Edge
}

// ShortestPath finds the minimum-edge-count path from start to end via
// Dijkstra's algorithm with uniform edge weight 1. Returns errPathNotFound
// if end is unreachable from start.
func ShortestPath(store storage.GraphStorage, start, end ids.Identifier) (ShortestPathResult, error) {
	if _, ok, err := store.GetVertex(start); err != nil {
		return ShortestPathResult{}, wrapStorageErr(err)
	} else if !ok {
		return ShortestPathResult{}, errInvalidParameters("start vertex %s not found", start)
	}
	if _, ok, err := store.GetVertex(end); err != nil {
		return ShortestPathResult{}, wrapStorageErr(err)
	} else if !ok {
		return ShortestPathResult{}, errInvalidParameters("end vertex %s not found", end)
	}

	distances := map[ids.Identifier]uint64{start: 0}
	predecessors := map[ids.Identifier]predecessor{}
	visited := map[ids.Identifier]bool{}

	q := dijkstraQueue{{vertex: start, cost: 0}}
	heap.Init(&q)

	for q.Len() > 0 {
		cur := heap.Pop(&q).(*dijkstraItem)
		if visited[cur.vertex] {
			continue
		}
		visited[cur.vertex] = true

		if cur.vertex == end {
			return reconstructPath(store, start, end, predecessors, cur.cost)
		}

		edges, err := store.GetOutgoingEdges(cur.vertex)
		if err != nil {
			return ShortestPathResult{}, wrapStorageErr(err)
		}
		for _, e := range edges {
			if visited[e.End] {
				continue
			}
			newCost := cur.cost + 1
			if existing, ok := distances[e.End]; !ok || newCost < existing {
				distances[e.End] = newCost
				predecessors[e.End] = predecessor{from: cur.vertex, edge: e}
				heap.Push(&q, &dijkstraItem{vertex: e.End, cost: newCost})
			}
		}
	}

	return ShortestPathResult{}, errPathNotFound(start, end)
}

// ShortestPathsFrom runs the same traversal as ShortestPath but collects a
// reconstructed path for every vertex reached within maxHops (spec.md §4.8's
// shortest_paths_from variant).
func ShortestPathsFrom(store storage.GraphStorage, start ids.Identifier, maxHops uint64) (map[ids.Identifier]ShortestPathResult, error) {
	if _, ok, err := store.GetVertex(start); err != nil {
		return nil, wrapStorageErr(err)
	} else if !ok {
		return nil, errInvalidParameters("start vertex %s not found", start)
	}

	distances := map[ids.Identifier]uint64{start: 0}
	predecessors := map[ids.Identifier]predecessor{}
	visited := map[ids.Identifier]bool{}
	results := map[ids.Identifier]ShortestPathResult{}

	q := dijkstraQueue{{vertex: start, cost: 0}}
	heap.Init(&q)

	for q.Len() > 0 {
		cur := heap.Pop(&q).(*dijkstraItem)
		if visited[cur.vertex] {
			continue
		}
		visited[cur.vertex] = true

		if cur.vertex != start {
			res, err := reconstructPath(store, start, cur.vertex, predecessors, cur.cost)
			if err != nil {
				return nil, err
			}
			results[cur.vertex] = res
		}

		if cur.cost >= maxHops {
			continue
		}

		edges, err := store.GetOutgoingEdges(cur.vertex)
		if err != nil {
			return nil, wrapStorageErr(err)
		}
		for _, e := range edges {
			if visited[e.End] {
				continue
			}
			newCost := cur.cost + 1
			if existing, ok := distances[e.End]; !ok || newCost < existing {
				distances[e.End] = newCost
				predecessors[e.End] = predecessor{from: cur.vertex, edge: e}
				heap.Push(&q, &dijkstraItem{vertex: e.End, cost: newCost})
			}
		}
	}

	return results, nil
}

// reconstructPath walks predecessors backwards from end to start, then
// reverses the collected vertices/edges into start-to-end order.
func reconstructPath(store storage.GraphStorage, start, end ids.Identifier, predecessors map[ids.Identifier]predecessor, cost uint64) (ShortestPathResult, error) {
	var vertexIDs []ids.Identifier
	var edges []graph.Edge

	cur := end
	for cur != start {
		vertexIDs = append(vertexIDs, cur)
		pred, ok := predecessors[cur]
		if !ok {
			return ShortestPathResult{}, errPathNotFound(start, end)
		}
		edges = append(edges, pred.edge)
		cur = pred.from
	}
	vertexIDs = append(vertexIDs, start)

	for i, j := 0, len(vertexIDs)-1; i < j; i, j = i+1, j-1 {
		vertexIDs[i], vertexIDs[j] = vertexIDs[j], vertexIDs[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	vertices := make([]graph.Vertex, len(vertexIDs))
	for i, id := range vertexIDs {
		v, ok, err := store.GetVertex(id)
		if err != nil {
			return ShortestPathResult{}, wrapStorageErr(err)
		}
		if !ok {
			return ShortestPathResult{}, errPathNotFound(start, end)
		}
		vertices[i] = v
	}

	path, err := graph.FromParts(vertices, edges)
	if err != nil {
		return ShortestPathResult{}, wrapStorageErr(err)
	}
	return ShortestPathResult{Path: path, Cost: cost}, nil
}
