package exec

import (
	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

// ExecuteDelete deletes the bound vertices/edges named by dc.Variables from
// every row. A plain DELETE on a vertex with any incident edge fails (spec.md
// §4.6: "a vertex with edges can only be removed by DETACH DELETE");
// DETACH DELETE removes the vertex's incident edges first. Grounded on
// _examples/original_source/src/executor/delete_executor.rs's
// delete_vertex/detach_delete_vertex/delete_edge.
func ExecuteDelete(tx storage.GraphTransaction, dc *ast.DeleteClause, rows []Row) error {
	for _, row := range rows {
		for _, name := range dc.Variables {
			bound, ok := row[name]
			if !ok {
				return errVariableNotFound(name)
			}
			switch bound.Kind {
			case value.KindVertex:
				if dc.Detach {
					if err := detachDeleteVertex(tx, bound.Vertex.ID); err != nil {
						return err
					}
				} else if err := tx.DeleteVertex(bound.Vertex.ID); err != nil {
					return err
				}
			case value.KindEdge:
				if err := tx.DeleteEdge(bound.Edge.ID); err != nil {
					return err
				}
			default:
				return errTypeMismatch("DELETE target must be a Vertex or Edge, got %s", bound.TypeName())
			}
		}
	}
	return nil
}

// detachDeleteVertex removes every incident edge before removing the vertex
// itself; a self-loop appears in both the outgoing and incoming lists, so
// edges are deduplicated by id before deletion. The plain (non-detach) path
// in ExecuteDelete needs no such helper: storage.Transaction.DeleteVertex
// already rejects a vertex with incident edges on its own.
func detachDeleteVertex(tx storage.GraphTransaction, id ids.Identifier) error {
	outgoing, err := tx.GetOutgoingEdges(id)
	if err != nil {
		return err
	}
	incoming, err := tx.GetIncomingEdges(id)
	if err != nil {
		return err
	}

	seen := make(map[ids.Identifier]bool, len(outgoing)+len(incoming))
	for _, e := range append(outgoing, incoming...) {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if err := tx.DeleteEdge(e.ID); err != nil {
			return err
		}
	}
	return tx.DeleteVertex(id)
}
