package exec

import (
	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
	"github.com/graphdb/graphdb/internal/storage"
)

// ExecuteCreate walks cc.Pattern left to right within tx, creating one
// vertex per node element and one directed edge per edge element (bound to
// the immediately preceding and following node), per spec.md §4.6. Per the
// "CREATE pattern re-binding" open question (DESIGN.md), every node element
// is re-created even if its variable was already bound earlier in the same
// pattern walk — matching
// _examples/original_source/src/executor/create_executor.rs's
// create_pattern, which has no "already bound, skip" branch.
//
// Each input row is processed independently (for a bare CREATE there is
// exactly one, empty, input row); ExecuteCreate returns the rows produced
// by merging the pattern's new bindings into each input row.
func ExecuteCreate(tx storage.GraphTransaction, cc *ast.CreateClause, input []Row) ([]Row, error) {
	if len(input) == 0 {
		input = []Row{{}}
	}
	out := make([]Row, 0, len(input))
	for _, row := range input {
		bound, err := createPattern(tx, cc.Pattern, row)
		if err != nil {
			return nil, err
		}
		out = append(out, bound)
	}
	return out, nil
}

func createPattern(tx storage.GraphTransaction, pat ast.Pattern, row Row) (Row, error) {
	bound := row.clone()

	firstVertex, err := createNode(tx, pat.Nodes[0])
	if err != nil {
		return nil, err
	}
	if pat.Nodes[0].Variable != "" {
		bound[pat.Nodes[0].Variable] = value.FromVertex(firstVertex)
	}
	lastVertexID := firstVertex.ID

	for i, edgePat := range pat.Edges {
		nextNodePat := pat.Nodes[i+1]
		nextVertex, err := createNode(tx, nextNodePat)
		if err != nil {
			return nil, err
		}

		var start, end ids.Identifier
		switch edgePat.Direction {
		case ast.DirRight:
			start, end = lastVertexID, nextVertex.ID
		case ast.DirLeft:
			start, end = nextVertex.ID, lastVertexID
		default:
			return nil, errInvalidExpression("CREATE cannot create an undirected edge")
		}

		edge, err := createEdge(tx, edgePat, start, end)
		if err != nil {
			return nil, err
		}
		if edgePat.Variable != "" {
			bound[edgePat.Variable] = value.FromEdge(edge)
		}
		if nextNodePat.Variable != "" {
			bound[nextNodePat.Variable] = value.FromVertex(nextVertex)
		}
		lastVertexID = nextVertex.ID
	}

	return bound, nil
}

func createNode(tx storage.GraphTransaction, node ast.NodePattern) (graph.Vertex, error) {
	if node.Label == "" {
		return graph.Vertex{}, errInvalidExpression("CREATE node must have a label")
	}
	props, err := literalPropertyMap(node.Properties)
	if err != nil {
		return graph.Vertex{}, err
	}
	return tx.CreateVertex(node.Label, props)
}

func createEdge(tx storage.GraphTransaction, edge ast.EdgePattern, start, end ids.Identifier) (graph.Edge, error) {
	if edge.Label == "" {
		return graph.Edge{}, errInvalidExpression("CREATE edge must have a label")
	}
	props, err := literalPropertyMap(edge.Properties)
	if err != nil {
		return graph.Edge{}, err
	}
	return tx.CreateEdge(edge.Label, start, end, props)
}

// literalPropertyMap evaluates a pattern's {..} property map, accepting only
// literal values (spec.md §4.6: "Property maps must be literal-valued;
// parameters are rejected"); the parser accepts any expression there, and
// this function rejects parameters and other non-literals.
func literalPropertyMap(m map[string]ast.Expression) (graph.Properties, error) {
	props := graph.Properties{}
	for k, expr := range m {
		if _, isParam := expr.(*ast.Parameter); isParam {
			return nil, errUnsupported("parameters are not supported in CREATE property maps")
		}
		v, err := EvalLiteral(expr)
		if err != nil {
			return nil, err
		}
		props[k] = value.ToJSON(v)
	}
	return props, nil
}
