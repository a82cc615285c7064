// Package graph defines the property-graph record types: Vertex, Edge, and
// the invariant-checked Path sequence.
package graph

import (
	"encoding/json"

	"github.com/graphdb/graphdb/internal/ids"
)

// Properties is an open JSON object attached to a vertex or edge. It may be
// nil (absent) or empty; both are preserved on round-trip.
type Properties map[string]any

// Vertex is (id, label, properties). Label is stable for the vertex's
// lifetime; id.LabelOrdinal() is the catalog ordinal assigned to Label.
type Vertex struct {
	ID         ids.Identifier `json:"id"`
	Label      string         `json:"label"`
	Properties Properties     `json:"properties"`
}

// NewVertex builds a vertex, defaulting a nil properties map to empty.
func NewVertex(id ids.Identifier, label string, props Properties) Vertex {
	if props == nil {
		props = Properties{}
	}
	return Vertex{ID: id, Label: label, Properties: props}
}

// GetProperty returns the value at key and whether it was present.
func (v Vertex) GetProperty(key string) (any, bool) {
	val, ok := v.Properties[key]
	return val, ok
}

// SetProperty sets key to value, allocating the map if necessary.
func (v *Vertex) SetProperty(key string, value any) {
	if v.Properties == nil {
		v.Properties = Properties{}
	}
	v.Properties[key] = value
}

// Edge is (id, start, end, label, properties). Directed; self-loops
// permitted.
type Edge struct {
	ID         ids.Identifier `json:"id"`
	Start      ids.Identifier `json:"start"`
	End        ids.Identifier `json:"end"`
	Label      string         `json:"label"`
	Properties Properties     `json:"properties"`
}

// NewEdge builds an edge, defaulting a nil properties map to empty.
func NewEdge(id ids.Identifier, start, end ids.Identifier, label string, props Properties) Edge {
	if props == nil {
		props = Properties{}
	}
	return Edge{ID: id, Start: start, End: end, Label: label, Properties: props}
}

// IsSelfLoop reports whether the edge's endpoints coincide.
func (e Edge) IsSelfLoop() bool {
	return e.Start == e.End
}

// Reverse returns a copy of e with its endpoints swapped; id, label and
// properties are unchanged.
func (e Edge) Reverse() Edge {
	r := e
	r.Start, r.End = e.End, e.Start
	return r
}

// GetProperty returns the value at key and whether it was present.
func (e Edge) GetProperty(key string) (any, bool) {
	val, ok := e.Properties[key]
	return val, ok
}

// SetProperty sets key to value, allocating the map if necessary.
func (e *Edge) SetProperty(key string, value any) {
	if e.Properties == nil {
		e.Properties = Properties{}
	}
	e.Properties[key] = value
}

// MarshalJSON renders a vertex record as {"id","label","properties"} with id
// as the decimal raw identifier, matching spec.md's wire format.
func (v Vertex) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string     `json:"id"`
		Label      string     `json:"label"`
		Properties Properties `json:"properties"`
	}{
		ID:         idDecimal(v.ID),
		Label:      v.Label,
		Properties: v.Properties,
	})
}

// UnmarshalJSON parses the wire format produced by MarshalJSON.
func (v *Vertex) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         string     `json:"id"`
		Label      string     `json:"label"`
		Properties Properties `json:"properties"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	raw, err := decimalToRaw(wire.ID)
	if err != nil {
		return err
	}
	v.ID = ids.FromRaw(raw)
	v.Label = wire.Label
	v.Properties = wire.Properties
	return nil
}

// MarshalJSON renders an edge record as
// {"id","start","end","label","properties"} with raw identifiers as decimal
// strings, matching spec.md's wire format.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string     `json:"id"`
		Start      string     `json:"start"`
		End        string     `json:"end"`
		Label      string     `json:"label"`
		Properties Properties `json:"properties"`
	}{
		ID:         idDecimal(e.ID),
		Start:      idDecimal(e.Start),
		End:        idDecimal(e.End),
		Label:      e.Label,
		Properties: e.Properties,
	})
}

// UnmarshalJSON parses the wire format produced by MarshalJSON.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID         string     `json:"id"`
		Start      string     `json:"start"`
		End        string     `json:"end"`
		Label      string     `json:"label"`
		Properties Properties `json:"properties"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	id, err := decimalToRaw(wire.ID)
	if err != nil {
		return err
	}
	start, err := decimalToRaw(wire.Start)
	if err != nil {
		return err
	}
	end, err := decimalToRaw(wire.End)
	if err != nil {
		return err
	}
	e.ID = ids.FromRaw(id)
	e.Start = ids.FromRaw(start)
	e.End = ids.FromRaw(end)
	e.Label = wire.Label
	e.Properties = wire.Properties
	return nil
}
