package exec

import (
	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/storage"
)

// ExecuteSet applies sc's assignments to every bound row, reading the
// current vertex/edge record, writing the new value at the property path,
// and persisting the whole record via tx.UpdateVertex/UpdateEdge. Grounded
// on _examples/original_source/src/executor/set_executor.rs's
// apply_set_item/set_nested_property, adapted to this storage layer's
// whole-record UpdateVertex/UpdateEdge (no separate "update properties"
// call).
//
// SET requires a prior MATCH to bind the target variable (spec.md §4.6: "SET
// always operates on the bindings produced by the preceding MATCH"); a bare
// input row set (no rows at all) is a no-op, not an error, matching zero
// matched rows producing zero updates.
func ExecuteSet(tx storage.GraphTransaction, sc *ast.SetClause, rows []Row) error {
	for _, row := range rows {
		for _, item := range sc.Items {
			if err := applySetItem(tx, item, row); err != nil {
				return err
			}
		}
	}
	return nil
}

func applySetItem(tx storage.GraphTransaction, item ast.SetItem, row Row) error {
	bound, ok := row[item.Variable]
	if !ok {
		return errVariableNotFound(item.Variable)
	}

	newValue, err := Eval(item.Value, row)
	if err != nil {
		return err
	}

	switch bound.Kind {
	case value.KindVertex:
		v := bound.Vertex
		if err := setNestedProperty(&v.Properties, item.Path, value.ToJSON(newValue)); err != nil {
			return err
		}
		return tx.UpdateVertex(v)
	case value.KindEdge:
		e := bound.Edge
		if err := setNestedProperty(&e.Properties, item.Path, value.ToJSON(newValue)); err != nil {
			return err
		}
		return tx.UpdateEdge(e)
	default:
		return errTypeMismatch("SET target must be a Vertex or Edge, got %s", bound.TypeName())
	}
}

// setNestedProperty writes newValue at path within target, allocating
// intermediate maps only at the top level (target itself); a path segment
// that walks through a non-object value is a TypeMismatch, and a missing
// intermediate segment is PropertyNotFound, matching set_nested_property.
func setNestedProperty(target *graph.Properties, path []string, newValue any) error {
	if *target == nil {
		*target = graph.Properties{}
	}
	if len(path) == 0 {
		return errInvalidExpression("empty property path in SET")
	}
	if len(path) == 1 {
		(*target)[path[0]] = newValue
		return nil
	}

	var cur any = map[string]any(*target)
	for _, seg := range path[:len(path)-1] {
		m, ok := cur.(map[string]any)
		if !ok {
			return errTypeMismatch("SET path segment %q is not an object", seg)
		}
		next, ok := m[seg]
		if !ok {
			return errPropertyNotFound(seg)
		}
		cur = next
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return errTypeMismatch("SET path parent is not an object")
	}
	m[path[len(path)-1]] = newValue
	return nil
}
