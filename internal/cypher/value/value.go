// Package value implements the tagged row-value union used by WHERE and
// RETURN expression evaluation (spec.md §4.5).
package value

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/graphdb/graphdb/internal/graph"
)

// Kind discriminates the Value union.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindList
	KindMap
	KindVertex
	KindEdge
	KindPath
)

// Value is a closed tagged union over {Null, Boolean, Integer, Float,
// String, List, Map, Vertex, Edge, Path}.
type Value struct {
	Kind Kind

	Bool   bool
	Int    int64
	Float  float64
	Str    string
	List   []Value
	Map    map[string]Value
	Vertex graph.Vertex
	Edge   graph.Edge
	Path   graph.Path
}

// Null is the singleton null value.
var Null = Value{Kind: KindNull}

func Bool(b bool) Value           { return Value{Kind: KindBoolean, Bool: b} }
func Int(i int64) Value           { return Value{Kind: KindInteger, Int: i} }
func Float(f float64) Value       { return Value{Kind: KindFloat, Float: f} }
func String(s string) Value       { return Value{Kind: KindString, Str: s} }
func List(v []Value) Value        { return Value{Kind: KindList, List: v} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }
func FromVertex(v graph.Vertex) Value { return Value{Kind: KindVertex, Vertex: v} }
func FromEdge(e graph.Edge) Value     { return Value{Kind: KindEdge, Edge: e} }
func FromPath(p graph.Path) Value     { return Value{Kind: KindPath, Path: p} }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsTruthy implements spec.md §4.5's truthiness table: Null, false,
// zero-number, and empty string/list/map are falsy; Vertex/Edge/Path are
// truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.Bool
	case KindInteger:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) != 0
	case KindMap:
		return len(v.Map) != 0
	default:
		return true
	}
}

// TypeName names the kind for error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindVertex:
		return "Vertex"
	case KindEdge:
		return "Edge"
	case KindPath:
		return "Path"
	default:
		return "Unknown"
	}
}

// AsFloat64 returns the numeric value of an Integer or Float, for arithmetic
// promotion.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

const floatEpsilon = 1e-9

// Equal implements equality with an epsilon comparison between ints and
// floats (spec.md §4.5).
func Equal(a, b Value) bool {
	if a.Kind == KindInteger || a.Kind == KindFloat {
		if b.Kind == KindInteger || b.Kind == KindFloat {
			af, _ := a.AsFloat64()
			bf, _ := b.AsFloat64()
			return math.Abs(af-bf) < floatEpsilon
		}
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, av := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindVertex:
		return a.Vertex.ID == b.Vertex.ID
	case KindEdge:
		return a.Edge.ID == b.Edge.ID
	default:
		return false
	}
}

// Ordering is the result of comparing two values for sort/relational
// purposes.
type Ordering int

const (
	Less    Ordering = -1
	EqualTo Ordering = 0
	Greater Ordering = 1
)

// CompareForSort orders values for ORDER BY: numbers interconvert, strings
// are lexicographic, booleans false < true, Null is always Greater so it
// sorts last under ascending order (spec.md §4.7); heterogeneous types fall
// back to comparing a printable representation.
func CompareForSort(a, b Value) Ordering {
	if a.Kind == KindNull && b.Kind == KindNull {
		return 0
	}
	if a.Kind == KindNull {
		return Greater
	}
	if b.Kind == KindNull {
		return Less
	}
	if (a.Kind == KindInteger || a.Kind == KindFloat) && (b.Kind == KindInteger || b.Kind == KindFloat) {
		af, _ := a.AsFloat64()
		bf, _ := b.AsFloat64()
		switch {
		case af < bf:
			return Less
		case af > bf:
			return Greater
		default:
			return 0
		}
	}
	if a.Kind == KindString && b.Kind == KindString {
		return Ordering(strings.Compare(a.Str, b.Str))
	}
	if a.Kind == KindBoolean && b.Kind == KindBoolean {
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return Less
		}
		return Greater
	}
	return Ordering(strings.Compare(Printable(a), Printable(b)))
}

// CompareForFilter orders values for relational WHERE operators (<, >, <=,
// >=); unlike CompareForSort it reports when two values are not comparable
// at all (anything other than two numbers or two strings), which the caller
// turns into TypeMismatch.
func CompareForFilter(a, b Value) (Ordering, bool) {
	if (a.Kind == KindInteger || a.Kind == KindFloat) && (b.Kind == KindInteger || b.Kind == KindFloat) {
		af, _ := a.AsFloat64()
		bf, _ := b.AsFloat64()
		switch {
		case af < bf:
			return Less, true
		case af > bf:
			return Greater, true
		default:
			return 0, true
		}
	}
	if a.Kind == KindString && b.Kind == KindString {
		return Ordering(strings.Compare(a.Str, b.Str)), true
	}
	return 0, false
}

// Printable renders a value for diagnostics and the cross-type sort
// fallback.
func Printable(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return fmt.Sprintf("%v", v.Bool)
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%v", v.Float)
	case KindString:
		return v.Str
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = Printable(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ":" + Printable(v.Map[k])
		}
		return "{" + strings.Join(parts, ",") + "}"
	case KindVertex:
		return v.Vertex.ID.String()
	case KindEdge:
		return v.Edge.ID.String()
	case KindPath:
		return fmt.Sprintf("path(%d)", v.Path.Len())
	default:
		return ""
	}
}

// FromJSON converts a decoded JSON value (as produced by encoding/json into
// any) into a Value.
func FromJSON(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return Int(int64(t))
		}
		return Float(t)
	case int64:
		return Int(t)
	case int:
		return Int(int64(t))
	case string:
		return String(t)
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = FromJSON(e)
		}
		return List(out)
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = FromJSON(e)
		}
		return Map(out)
	default:
		return Null
	}
}

// ToJSON converts a Value back to a plain any suitable for
// encoding/json and property storage.
func ToJSON(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBoolean:
		return v.Bool
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindList:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = ToJSON(e)
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Map))
		for k, e := range v.Map {
			out[k] = ToJSON(e)
		}
		return out
	default:
		return nil
	}
}
