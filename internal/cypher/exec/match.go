package exec

import (
	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

// MatchPattern produces the bound rows for one pattern against storage, per
// spec.md §4.5: node-only pattern scans a label and filters; a triple
// pattern enumerates adjacency from each matching start vertex; a two-hop
// (five-element) pattern composes two triple matches through the shared
// middle binding. Grounded on
// _examples/original_source/src/executor/match_executor.rs's
// match_node_pattern/match_triple_pattern/match_path_pattern.
func MatchPattern(store storage.GraphStorage, pat ast.Pattern) ([]Row, error) {
	switch len(pat.Nodes) {
	case 1:
		return matchNodePattern(store, pat.Nodes[0])
	case 2:
		return matchTriplePattern(store, pat.Nodes[0], pat.Edges[0], pat.Nodes[1])
	case 3:
		if len(pat.Edges) != 2 {
			return nil, errUnsupported("malformed two-hop pattern")
		}
		return matchPathPattern(store, pat.Nodes, pat.Edges)
	default:
		return nil, errUnsupported("patterns with %d node elements are not supported", len(pat.Nodes))
	}
}

// MatchWhere runs MatchPattern and then applies the clause's WHERE filter,
// if present.
func MatchWhere(store storage.GraphStorage, mc *ast.MatchClause) ([]Row, error) {
	rows, err := MatchPattern(store, mc.Pattern)
	if err != nil {
		return nil, err
	}
	if mc.Where != nil {
		rows, err = filterRows(rows, mc.Where.Expression)
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func filterRows(rows []Row, cond ast.Expression) ([]Row, error) {
	out := rows[:0:0]
	for _, row := range rows {
		v, err := Eval(cond, row)
		if err != nil {
			return nil, err
		}
		if v.IsTruthy() {
			out = append(out, row)
		}
	}
	return out, nil
}

func matchNodePattern(store storage.GraphStorage, node ast.NodePattern) ([]Row, error) {
	vertices, err := store.ScanVertices(node.Label)
	if err != nil {
		return nil, err
	}
	var out []Row
	for _, v := range vertices {
		ok, err := matchNodeProperties(v, node)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		row := Row{}
		if node.Variable != "" {
			row[node.Variable] = value.FromVertex(v)
		}
		out = append(out, row)
	}
	return out, nil
}

func matchNodeProperties(v graph.Vertex, node ast.NodePattern) (bool, error) {
	for key, expr := range node.Properties {
		want, err := EvalLiteral(expr)
		if err != nil {
			return false, err
		}
		got, ok := v.GetProperty(key)
		if !ok {
			return false, errPropertyNotFound(key)
		}
		if !value.Equal(want, value.FromJSON(got)) {
			return false, nil
		}
	}
	return true, nil
}

func matchEdgeProperties(e graph.Edge, edge ast.EdgePattern) (bool, error) {
	for key, expr := range edge.Properties {
		want, err := EvalLiteral(expr)
		if err != nil {
			return false, err
		}
		got, ok := e.GetProperty(key)
		if !ok {
			return false, errPropertyNotFound(key)
		}
		if !value.Equal(want, value.FromJSON(got)) {
			return false, nil
		}
	}
	return true, nil
}

// candidateEdges returns the edges reachable from v under the pattern's
// direction: outgoing for ->, incoming for <-, both concatenated for the
// undirected form.
func candidateEdges(store storage.GraphStorage, v graph.Vertex, dir ast.Direction) ([]graph.Edge, error) {
	switch dir {
	case ast.DirRight:
		return store.GetOutgoingEdges(v.ID)
	case ast.DirLeft:
		return store.GetIncomingEdges(v.ID)
	default:
		out, err := store.GetOutgoingEdges(v.ID)
		if err != nil {
			return nil, err
		}
		in, err := store.GetIncomingEdges(v.ID)
		if err != nil {
			return nil, err
		}
		return append(out, in...), nil
	}
}

// endpointID picks the far vertex identifier of e when traversing away from
// fromID under dir: e.End for ->, e.Start for <-, and whichever endpoint
// isn't fromID for the undirected form (falls back to e.End for a
// self-loop, where both endpoints equal fromID).
func endpointID(e graph.Edge, fromID ids.Identifier, dir ast.Direction) ids.Identifier {
	switch dir {
	case ast.DirRight:
		return e.End
	case ast.DirLeft:
		return e.Start
	default:
		if e.Start == fromID {
			return e.End
		}
		return e.Start
	}
}

func matchTriplePattern(store storage.GraphStorage, startNode ast.NodePattern, edge ast.EdgePattern, endNode ast.NodePattern) ([]Row, error) {
	startVertices, err := store.ScanVertices(startNode.Label)
	if err != nil {
		return nil, err
	}

	var out []Row
	for _, sv := range startVertices {
		ok, err := matchNodeProperties(sv, startNode)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		edges, err := candidateEdges(store, sv, edge.Direction)
		if err != nil {
			return nil, err
		}

		for _, e := range edges {
			if edge.Label != "" && e.Label != edge.Label {
				continue
			}
			propsOK, err := matchEdgeProperties(e, edge)
			if err != nil {
				return nil, err
			}
			if !propsOK {
				continue
			}

			endID := endpointID(e, sv.ID, edge.Direction)
			ev, found, err := store.GetVertex(endID)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			if endNode.Label != "" && ev.Label != endNode.Label {
				continue
			}
			endOK, err := matchNodeProperties(ev, endNode)
			if err != nil {
				return nil, err
			}
			if !endOK {
				continue
			}

			row := Row{}
			if startNode.Variable != "" {
				row[startNode.Variable] = value.FromVertex(sv)
			}
			if edge.Variable != "" {
				row[edge.Variable] = value.FromEdge(e)
			}
			if endNode.Variable != "" {
				row[endNode.Variable] = value.FromVertex(ev)
			}
			out = append(out, row)
		}
	}
	return out, nil
}

func matchPathPattern(store storage.GraphStorage, nodes []ast.NodePattern, edges []ast.EdgePattern) ([]Row, error) {
	firstHop, err := matchTriplePattern(store, nodes[0], edges[0], nodes[1])
	if err != nil {
		return nil, err
	}
	if nodes[1].Variable == "" {
		return nil, errInvalidExpression("middle node in a two-hop pattern must have a variable")
	}

	var out []Row
	for _, row := range firstHop {
		middle, ok := row[nodes[1].Variable]
		if !ok || middle.Kind != value.KindVertex {
			return nil, errVariableNotFound(nodes[1].Variable)
		}

		edgesOut, err := candidateEdges(store, middle.Vertex, edges[1].Direction)
		if err != nil {
			return nil, err
		}
		for _, e := range edgesOut {
			if edges[1].Label != "" && e.Label != edges[1].Label {
				continue
			}
			propsOK, err := matchEdgeProperties(e, edges[1])
			if err != nil {
				return nil, err
			}
			if !propsOK {
				continue
			}

			endID := endpointID(e, middle.Vertex.ID, edges[1].Direction)
			ev, found, err := store.GetVertex(endID)
			if err != nil {
				return nil, err
			}
			if !found {
				continue
			}
			if nodes[2].Label != "" && ev.Label != nodes[2].Label {
				continue
			}
			endOK, err := matchNodeProperties(ev, nodes[2])
			if err != nil {
				return nil, err
			}
			if !endOK {
				continue
			}

			combined := row.clone()
			if edges[1].Variable != "" {
				combined[edges[1].Variable] = value.FromEdge(e)
			}
			if nodes[2].Variable != "" {
				combined[nodes[2].Variable] = value.FromVertex(ev)
			}
			out = append(out, combined)
		}
	}
	return out, nil
}
