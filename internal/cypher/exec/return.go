package exec

import (
	"sort"
	"strings"

	"github.com/graphdb/graphdb/internal/cypher/ast"
	"github.com/graphdb/graphdb/internal/cypher/value"
)

// ProjectedRow is one output row with its column order preserved (a plain
// Row/map would lose the RETURN item order).
type ProjectedRow struct {
	Columns []string
	Values  []value.Value
}

// ExecuteReturn runs the full RETURN pipeline (spec.md §4.7): projection,
// conditional aggregation, ordering, and limit. Grounded on
// _examples/original_source/src/executor/mod.rs's apply_return/
// apply_order_by/compare_values, extended with aggregation since no
// aggregate-evaluation code survived in the retrieved snapshot (the
// aggregate rules below come from spec.md §4.7 directly).
func ExecuteReturn(rc *ast.ReturnClause, rows []Row) ([]ProjectedRow, error) {
	return runProjectionPipeline(rows, rc.Items, rc.OrderBy, rc.Limit)
}

// ExecuteWith projects rows through a WITH clause's items, rebinds the
// output columns back into Row form for the next clause to consume (unlike
// ExecuteReturn, whose output is terminal), and then applies the clause's
// own WHERE, ORDER BY and LIMIT, in that order, over the projected names.
func ExecuteWith(wc *ast.WithClause, rows []Row) ([]Row, error) {
	projected, err := runProjectionPipeline(rows, wc.Items, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Row, len(projected))
	for i, pr := range projected {
		row := make(Row, len(pr.Columns))
		for j, col := range pr.Columns {
			row[col] = pr.Values[j]
		}
		out[i] = row
	}
	if wc.Where != nil {
		out, err = filterRows(out, wc.Where.Expression)
		if err != nil {
			return nil, err
		}
	}
	if len(wc.OrderBy) > 0 {
		if err := orderProjected(make([]ProjectedRow, len(out)), wc.OrderBy, out); err != nil {
			return nil, err
		}
	}
	if wc.Limit != nil && *wc.Limit >= 0 && int64(len(out)) > *wc.Limit {
		out = out[:*wc.Limit]
	}
	return out, nil
}

func runProjectionPipeline(rows []Row, items []ast.ReturnItem, orderBy []ast.OrderItem, limit *int64) ([]ProjectedRow, error) {
	aggIdx := -1
	for i, item := range items {
		if isAggregateCall(item.Expression) {
			aggIdx = i
			break
		}
	}

	if aggIdx >= 0 {
		row, err := aggregateRows(rows, items)
		if err != nil {
			return nil, err
		}
		return []ProjectedRow{row}, nil
	}

	projected := make([]ProjectedRow, 0, len(rows))
	for _, row := range rows {
		pr, err := projectRow(row, items)
		if err != nil {
			return nil, err
		}
		projected = append(projected, pr)
	}

	if len(orderBy) > 0 {
		if err := orderProjected(projected, orderBy, rows); err != nil {
			return nil, err
		}
	}

	if limit != nil && *limit >= 0 && int64(len(projected)) > *limit {
		projected = projected[:*limit]
	}

	return projected, nil
}

func projectRow(row Row, items []ast.ReturnItem) (ProjectedRow, error) {
	pr := ProjectedRow{Columns: make([]string, len(items)), Values: make([]value.Value, len(items))}
	for i, item := range items {
		v, err := Eval(item.Expression, row)
		if err != nil {
			return ProjectedRow{}, err
		}
		pr.Columns[i] = returnItemLabel(item)
		pr.Values[i] = v
	}
	return pr, nil
}

// returnItemLabel implements spec.md §4.7's key selection: alias, else bare
// variable name, else `base.prop.prop…`, else the function-call rendering.
func returnItemLabel(item ast.ReturnItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	switch e := item.Expression.(type) {
	case *ast.Variable:
		return e.Name
	case *ast.PropertyAccess:
		return e.Base + "." + strings.Join(e.Path, ".")
	case *ast.FunctionCall:
		return functionCallLabel(e)
	default:
		return ""
	}
}

func functionCallLabel(fc *ast.FunctionCall) string {
	if fc.Star {
		return fc.Name + "(*)"
	}
	return fc.Name + "(...)"
}

func isAggregateCall(expr ast.Expression) bool {
	fc, ok := expr.(*ast.FunctionCall)
	if !ok {
		return false
	}
	return isAggregateName(fc.Name)
}

func isAggregateName(name string) bool {
	switch strings.ToUpper(name) {
	case "COUNT", "SUM", "AVG", "MIN", "MAX":
		return true
	default:
		return false
	}
}

// aggregateRows collapses rows to a single ProjectedRow per spec.md §4.7
// step 2: aggregate items are reduced over all rows; a non-aggregate item
// takes its value from the first row (grouping is not implemented).
func aggregateRows(rows []Row, items []ast.ReturnItem) (ProjectedRow, error) {
	pr := ProjectedRow{Columns: make([]string, len(items)), Values: make([]value.Value, len(items))}
	for i, item := range items {
		pr.Columns[i] = returnItemLabel(item)
		if fc, ok := item.Expression.(*ast.FunctionCall); ok && isAggregateName(fc.Name) {
			v, err := evalAggregate(fc, rows)
			if err != nil {
				return ProjectedRow{}, err
			}
			pr.Values[i] = v
			continue
		}
		if len(rows) == 0 {
			pr.Values[i] = value.Null
			continue
		}
		v, err := Eval(item.Expression, rows[0])
		if err != nil {
			return ProjectedRow{}, err
		}
		pr.Values[i] = v
	}
	return pr, nil
}

func evalAggregate(fc *ast.FunctionCall, rows []Row) (value.Value, error) {
	name := strings.ToUpper(fc.Name)

	if name == "COUNT" && fc.Star {
		return value.Int(int64(len(rows))), nil
	}

	if len(fc.Args) != 1 {
		return value.Null, errInvalidExpression("%s takes exactly one argument", name)
	}
	arg := fc.Args[0]

	vals := make([]value.Value, 0, len(rows))
	for _, row := range rows {
		v, err := Eval(arg, row)
		if err != nil {
			return value.Null, err
		}
		if !v.IsNull() {
			vals = append(vals, v)
		}
	}

	switch name {
	case "COUNT":
		return value.Int(int64(len(vals))), nil
	case "SUM":
		return aggregateSum(vals)
	case "AVG":
		return aggregateAvg(vals)
	case "MIN":
		return aggregateExtreme(vals, value.Less)
	case "MAX":
		return aggregateExtreme(vals, value.Greater)
	default:
		return value.Null, errUnsupported("unknown aggregate function %q", fc.Name)
	}
}

func aggregateSum(vals []value.Value) (value.Value, error) {
	if len(vals) == 0 {
		return value.Null, nil
	}
	allInt := true
	var intSum int64
	var floatSum float64
	for _, v := range vals {
		f, ok := v.AsFloat64()
		if !ok {
			return value.Null, errTypeMismatch("SUM requires numeric operands, got %s", v.TypeName())
		}
		floatSum += f
		if v.Kind == value.KindInteger {
			intSum += v.Int
		} else {
			allInt = false
		}
	}
	if allInt {
		return value.Int(intSum), nil
	}
	return value.Float(floatSum), nil
}

func aggregateAvg(vals []value.Value) (value.Value, error) {
	if len(vals) == 0 {
		return value.Null, nil
	}
	var sum float64
	for _, v := range vals {
		f, ok := v.AsFloat64()
		if !ok {
			return value.Null, errTypeMismatch("AVG requires numeric operands, got %s", v.TypeName())
		}
		sum += f
	}
	return value.Float(sum / float64(len(vals))), nil
}

func aggregateExtreme(vals []value.Value, want value.Ordering) (value.Value, error) {
	if len(vals) == 0 {
		return value.Null, nil
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if value.CompareForSort(v, best) == want {
			best = v
		}
	}
	return best, nil
}

// orderProjected sorts projected in lockstep with the original rows (the
// sort items may reference bindings dropped by projection, e.g. `ORDER BY
// n.age` after `RETURN n.name`), mirroring compare_values/apply_order_by.
func orderProjected(projected []ProjectedRow, orderBy []ast.OrderItem, rows []Row) error {
	idx := make([]int, len(projected))
	for i := range idx {
		idx[i] = i
	}

	var sortErr error
	sort.SliceStable(idx, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		ri, rj := idx[i], idx[j]
		for _, item := range orderBy {
			va, err := Eval(item.Expression, rows[ri])
			if err != nil {
				sortErr = err
				return false
			}
			vb, err := Eval(item.Expression, rows[rj])
			if err != nil {
				sortErr = err
				return false
			}
			ord := value.CompareForSort(va, vb)
			if item.Descending {
				ord = -ord
			}
			if ord != value.EqualTo {
				return ord == value.Less
			}
		}
		return false
	})
	if sortErr != nil {
		return sortErr
	}

	sortedProjected := make([]ProjectedRow, len(projected))
	sortedRows := make([]Row, len(rows))
	for newPos, oldPos := range idx {
		sortedProjected[newPos] = projected[oldPos]
		sortedRows[newPos] = rows[oldPos]
	}
	copy(projected, sortedProjected)
	copy(rows, sortedRows)
	return nil
}
