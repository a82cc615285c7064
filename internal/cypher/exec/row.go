package exec

import "github.com/graphdb/graphdb/internal/cypher/value"

// Row is one binding: pattern/projection variable name -> bound value.
type Row map[string]value.Value

// clone returns a shallow copy of r, safe to extend without aliasing the
// original (the matcher composes rows by cloning, never mutating a row that
// has already been emitted).
func (r Row) clone() Row {
	out := make(Row, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}
