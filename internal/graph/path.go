package graph

import (
	"fmt"

	"github.com/graphdb/graphdb/internal/ids"
)

// PathError reports a Path invariant violation.
type PathError struct {
	Kind      string
	Pos       int
	EdgeStart ids.Identifier
	EdgeEnd   ids.Identifier
	PathEnd   ids.Identifier
	NVertices int
	NEdges    int
}

func (e *PathError) Error() string {
	switch e.Kind {
	case "empty":
		return "graph: path has no vertices"
	case "count_mismatch":
		return fmt.Sprintf("graph: path has %d vertices but %d edges (want edges+1 vertices)", e.NVertices, e.NEdges)
	case "discontinuity":
		return fmt.Sprintf("graph: path discontinuity at position %d: edge runs %s -> %s but path vertex is %s",
			e.Pos, e.EdgeStart, e.EdgeEnd, e.PathEnd)
	default:
		return "graph: invalid path"
	}
}

// Path is an alternating sequence v0, e0, v1, e1, ..., v_k.
type Path struct {
	Vertices []Vertex
	Edges    []Edge
}

// NewPath starts a single-vertex path.
func NewPath(start Vertex) Path {
	return Path{Vertices: []Vertex{start}}
}

// FromParts builds a Path from explicit vertex/edge slices and validates it.
func FromParts(vertices []Vertex, edges []Edge) (Path, error) {
	p := Path{Vertices: vertices, Edges: edges}
	if err := p.Validate(); err != nil {
		return Path{}, err
	}
	return p, nil
}

// Validate checks |vertices| = |edges| + 1 and that each edge[i] connects
// vertices[i] to vertices[i+1].
func (p Path) Validate() error {
	if len(p.Vertices) == 0 {
		return &PathError{Kind: "empty"}
	}
	if len(p.Vertices) != len(p.Edges)+1 {
		return &PathError{Kind: "count_mismatch", NVertices: len(p.Vertices), NEdges: len(p.Edges)}
	}
	for i, e := range p.Edges {
		if e.Start != p.Vertices[i].ID || e.End != p.Vertices[i+1].ID {
			return &PathError{
				Kind:      "discontinuity",
				Pos:       i,
				EdgeStart: e.Start,
				EdgeEnd:   e.End,
				PathEnd:   p.Vertices[i].ID,
			}
		}
	}
	return nil
}

// Push appends an edge and vertex, validating continuity against the
// current last vertex.
func (p *Path) Push(e Edge, v Vertex) error {
	last := p.End()
	if e.Start != last.ID {
		return &PathError{Kind: "discontinuity", Pos: len(p.Edges), EdgeStart: e.Start, EdgeEnd: e.End, PathEnd: last.ID}
	}
	if e.End != v.ID {
		return &PathError{Kind: "discontinuity", Pos: len(p.Edges), EdgeStart: e.Start, EdgeEnd: e.End, PathEnd: v.ID}
	}
	p.Edges = append(p.Edges, e)
	p.Vertices = append(p.Vertices, v)
	return nil
}

// Extend returns a new Path with e and v appended, leaving p unmodified
// (copy-and-push, per spec.md §9's cycle-safe path extension note).
func (p Path) Extend(e Edge, v Vertex) (Path, error) {
	np := Path{
		Vertices: append(append([]Vertex(nil), p.Vertices...), v),
		Edges:    append(append([]Edge(nil), p.Edges...), e),
	}
	if err := np.Validate(); err != nil {
		return Path{}, err
	}
	return np, nil
}

// Start returns the first vertex.
func (p Path) Start() Vertex { return p.Vertices[0] }

// End returns the last vertex.
func (p Path) End() Vertex { return p.Vertices[len(p.Vertices)-1] }

// Len returns the edge count.
func (p Path) Len() int { return len(p.Edges) }

// IsEmpty reports whether the path has no edges.
func (p Path) IsEmpty() bool { return len(p.Edges) == 0 }

// VertexIDs returns the identifiers of every vertex in order.
func (p Path) VertexIDs() []ids.Identifier {
	out := make([]ids.Identifier, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = v.ID
	}
	return out
}

// EdgeIDs returns the identifiers of every edge in order.
func (p Path) EdgeIDs() []ids.Identifier {
	out := make([]ids.Identifier, len(p.Edges))
	for i, e := range p.Edges {
		out[i] = e.ID
	}
	return out
}

// ContainsVertex does a linear scan for id, acceptable at the small bounded
// lengths VLE operates over (spec.md §9).
func (p Path) ContainsVertex(id ids.Identifier) bool {
	for _, v := range p.Vertices {
		if v.ID == id {
			return true
		}
	}
	return false
}

// ContainsEdge does a linear scan for id.
func (p Path) ContainsEdge(id ids.Identifier) bool {
	for _, e := range p.Edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Reverse reverses vertex order and reverses+flips each edge, in reversed
// order, so that reversing twice is identity.
func (p Path) Reverse() Path {
	n := len(p.Vertices)
	rv := make([]Vertex, n)
	for i, v := range p.Vertices {
		rv[n-1-i] = v
	}
	m := len(p.Edges)
	re := make([]Edge, m)
	for i, e := range p.Edges {
		re[m-1-i] = e.Reverse()
	}
	return Path{Vertices: rv, Edges: re}
}
