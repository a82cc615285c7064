package exec

import (
	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
	"github.com/graphdb/graphdb/internal/storage"
)

// Result is the outcome of executing one query: Rows is populated for a
// Read or Mixed query that ends in RETURN; a Write query with no RETURN
// produces zero rows (spec.md §4.4/§4.7).
type Result struct {
	Rows []ProjectedRow
}

// Execute runs query against engine, opening one transaction for its
// lifetime and committing on success (spec.md §4.6: CREATE/SET/DELETE each
// "opens a transaction ... commits the transaction"; a read-only query opens
// one too and commits it having staged nothing — its reads go to the
// engine's live committed state, with no snapshot). On any error the transaction
// is rolled back and the error returned unwrapped, per this package's design
// decision that exec's internal helpers propagate storage/exec errors as-is
// — Execute is the one boundary spec.md §7 describes as "wraps them into
// query-shaped errors," but since storage errors and exec errors are already
// distinct, self-describing types, no further wrapping is performed here;
// the caller distinguishes them with errors.As.
//
// Grounded on _examples/original_source/src/executor/mod.rs's
// QueryExecutor::execute, generalized from its three-armed Read/Write/Mixed
// match into a left-to-right fold over Query.Clauses, which accommodates the
// supplemented WITH clause sitting between MATCH and RETURN.
func Execute(engine *storage.Engine, query *ast.Query) (*Result, error) {
	tx, err := engine.BeginTransaction()
	if err != nil {
		return nil, err
	}

	result, err := executeClauses(tx, query.Clauses)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func executeClauses(tx storage.GraphTransaction, clauses []ast.Clause) (*Result, error) {
	var rows []Row
	haveRows := false

	for _, clause := range clauses {
		switch c := clause.(type) {
		case *ast.MatchClause:
			// A query carries at most one MATCH/OPTIONAL MATCH (SPEC_FULL.md
			// §3: "no multi-pattern OPTIONAL MATCH chains"), so this simply
			// seeds rows rather than joining against a prior match.
			matched, err := MatchWhere(tx, c)
			if err != nil {
				return nil, err
			}
			if c.Optional && len(matched) == 0 {
				matched = []Row{nullOptionalRow(c.Pattern)}
			}
			rows = matched
			haveRows = true

		case *ast.WithClause:
			next, err := ExecuteWith(c, rows)
			if err != nil {
				return nil, err
			}
			rows = next

		case *ast.CreateClause:
			next, err := ExecuteCreate(tx, c, rows)
			if err != nil {
				return nil, err
			}
			rows = next
			haveRows = true

		case *ast.SetClause:
			if !haveRows {
				return nil, errInvalidExpression("SET requires a preceding MATCH to bind variables")
			}
			if err := ExecuteSet(tx, c, rows); err != nil {
				return nil, err
			}

		case *ast.DeleteClause:
			if !haveRows {
				return nil, errInvalidExpression("DELETE requires a preceding MATCH to bind variables")
			}
			if err := ExecuteDelete(tx, c, rows); err != nil {
				return nil, err
			}

		case *ast.ReturnClause:
			projected, err := ExecuteReturn(c, rows)
			if err != nil {
				return nil, err
			}
			return &Result{Rows: projected}, nil

		default:
			return nil, errUnsupported("unrecognized clause in query")
		}
	}

	return &Result{}, nil
}

// nullOptionalRow binds every variable named in pat to Null, for an
// OPTIONAL MATCH that matched nothing.
func nullOptionalRow(pat ast.Pattern) Row {
	row := Row{}
	for _, n := range pat.Nodes {
		if n.Variable != "" {
			row[n.Variable] = value.Null
		}
	}
	for _, e := range pat.Edges {
		if e.Variable != "" {
			row[e.Variable] = value.Null
		}
	}
	return row
}
