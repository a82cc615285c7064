package storage

import (
	"encoding/binary"
	"encoding/json"

	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
)

// Transaction stages puts/deletes and per-label counter reservations;
// commit flushes as a single atomic batch (spec.md §4.3). Reads go straight
// through to the engine's committed state — a transaction never sees its
// own staged writes before commit.
type Transaction struct {
	engine *Engine
	batch  kvBatch

	counterCache map[string]uint64
	touched      []touchedRecord

	// edgeDelta tracks, per vertex, the net change in incident-edge count
	// staged by this transaction but not yet committed: +1 per endpoint on
	// CreateEdge, -1 per endpoint on DeleteEdge. DeleteVertex adds this to
	// engine.countIncidentEdges' committed-state count so a DETACH DELETE
	// that stages its edge deletes first sees the vertex as already clear.
	edgeDelta map[ids.Identifier]int

	// allocatedLabels holds labels newly allocated (not already cached) by
	// getOrCreateLabel during this transaction, so Rollback can reclaim
	// them from the engine's label cache.
	allocatedLabels map[string]uint16

	committed  bool
	rolledBack bool
}

type touchedRecord struct {
	isEdge bool
	id     ids.Identifier
}

func (tx *Transaction) checkState() error {
	if tx.committed {
		return errTransaction("already committed")
	}
	if tx.rolledBack {
		return errTransaction("already rolled back")
	}
	return nil
}

// --- reads: delegate to the engine, which always reads committed state ---

func (tx *Transaction) GetVertex(id ids.Identifier) (graph.Vertex, bool, error) {
	return tx.engine.GetVertex(id)
}

func (tx *Transaction) GetEdge(id ids.Identifier) (graph.Edge, bool, error) {
	return tx.engine.GetEdge(id)
}

func (tx *Transaction) ScanVertices(label string) ([]graph.Vertex, error) {
	return tx.engine.ScanVertices(label)
}

func (tx *Transaction) ScanEdges(label string) ([]graph.Edge, error) {
	return tx.engine.ScanEdges(label)
}

func (tx *Transaction) GetOutgoingEdges(vid ids.Identifier) ([]graph.Edge, error) {
	return tx.engine.GetOutgoingEdges(vid)
}

func (tx *Transaction) GetIncomingEdges(vid ids.Identifier) ([]graph.Edge, error) {
	return tx.engine.GetIncomingEdges(vid)
}

// nextLocalID advances (and caches for the lifetime of this transaction)
// the next local ordinal for label. The cache is seeded from the
// committed counter value on first use per transaction; two concurrent
// transactions that both seed before either commits can reserve the same
// ordinal — this is the documented, unresolved race of spec.md §9
// ("Concurrent counter contention").
func (tx *Transaction) nextLocalID(label string) (uint64, error) {
	cur, ok := tx.counterCache[label]
	if !ok {
		data, found, err := tx.engine.kv.get(counterKey(tx.engine.ns, label))
		if err != nil {
			return 0, err
		}
		if found && len(data) == 8 {
			cur = binary.LittleEndian.Uint64(data)
		}
	}
	if cur >= ids.MaxLocalOrdinal {
		return 0, errCounterOverflow(label)
	}
	next := cur + 1
	tx.counterCache[label] = next
	return next, nil
}

// getOrCreateLabel delegates to the engine and remembers any ordinal it
// newly allocated, so Rollback can undo the cache mutation if this
// transaction never commits.
func (tx *Transaction) getOrCreateLabel(label string) (uint16, error) {
	id, isNew, err := tx.engine.getOrCreateLabel(label, tx.batch)
	if err != nil {
		return 0, err
	}
	if isNew {
		if tx.allocatedLabels == nil {
			tx.allocatedLabels = make(map[string]uint16)
		}
		tx.allocatedLabels[label] = id
	}
	return id, nil
}

// CreateVertex allocates a label ordinal (if new) and the next local
// ordinal for that label, writes the vertex record, and returns it.
func (tx *Transaction) CreateVertex(label string, props graph.Properties) (graph.Vertex, error) {
	if err := tx.checkState(); err != nil {
		return graph.Vertex{}, err
	}
	labid, err := tx.getOrCreateLabel(label)
	if err != nil {
		return graph.Vertex{}, err
	}
	locid, err := tx.nextLocalID(label)
	if err != nil {
		return graph.Vertex{}, err
	}
	id, err := ids.New(labid, locid)
	if err != nil {
		return graph.Vertex{}, errCounterOverflow(label)
	}
	v := graph.NewVertex(id, label, props)
	data, err := json.Marshal(v)
	if err != nil {
		return graph.Vertex{}, errSerialization(err.Error())
	}
	tx.batch.put(vertexKey(tx.engine.ns, id), data)
	tx.touched = append(tx.touched, touchedRecord{id: id})
	return v, nil
}

// CreateEdge writes the edge record and both adjacency index entries.
// Callers must ensure endpoints exist; the engine does not verify
// (spec.md §4.2 — executor responsibility).
func (tx *Transaction) CreateEdge(label string, start, end ids.Identifier, props graph.Properties) (graph.Edge, error) {
	if err := tx.checkState(); err != nil {
		return graph.Edge{}, err
	}
	labid, err := tx.getOrCreateLabel(label)
	if err != nil {
		return graph.Edge{}, err
	}
	locid, err := tx.nextLocalID(label)
	if err != nil {
		return graph.Edge{}, err
	}
	id, err := ids.New(labid, locid)
	if err != nil {
		return graph.Edge{}, errCounterOverflow(label)
	}
	e := graph.NewEdge(id, start, end, label, props)
	data, err := json.Marshal(e)
	if err != nil {
		return graph.Edge{}, errSerialization(err.Error())
	}
	ns := tx.engine.ns
	tx.batch.put(edgeKey(ns, id), data)
	tx.batch.put(outgoingKey(ns, start, id), []byte{})
	tx.batch.put(incomingKey(ns, end, id), []byte{})
	tx.touched = append(tx.touched, touchedRecord{isEdge: true, id: id})
	tx.bumpEdgeDelta(start, 1)
	tx.bumpEdgeDelta(end, 1)
	return e, nil
}

func (tx *Transaction) bumpEdgeDelta(vid ids.Identifier, delta int) {
	if tx.edgeDelta == nil {
		tx.edgeDelta = make(map[ids.Identifier]int)
	}
	tx.edgeDelta[vid] += delta
}

// UpdateVertex rewrites the whole vertex record (spec.md §4.6 SET:
// "replacement is whole-value").
func (tx *Transaction) UpdateVertex(v graph.Vertex) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errSerialization(err.Error())
	}
	tx.batch.put(vertexKey(tx.engine.ns, v.ID), data)
	tx.touched = append(tx.touched, touchedRecord{id: v.ID})
	return nil
}

// UpdateEdge rewrites the whole edge record.
func (tx *Transaction) UpdateEdge(e graph.Edge) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return errSerialization(err.Error())
	}
	tx.batch.put(edgeKey(tx.engine.ns, e.ID), data)
	tx.touched = append(tx.touched, touchedRecord{isEdge: true, id: e.ID})
	return nil
}

// DeleteVertex fails with VertexHasEdges(n) if any outgoing or incoming
// edge exists; otherwise removes the record (spec.md §4.2).
//
// countIncidentEdges only sees committed adjacency entries, so its count
// is adjusted by edgeDelta to account for edges this same transaction has
// already staged for creation/deletion but not yet committed — without
// this, a DETACH DELETE that stages its edge deletes first and then calls
// DeleteVertex in the same transaction would always see the (still
// committed) old edge count and fail.
func (tx *Transaction) DeleteVertex(id ids.Identifier) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	n, err := tx.engine.countIncidentEdges(id)
	if err != nil {
		return err
	}
	n += tx.edgeDelta[id]
	if n > 0 {
		return errVertexHasEdges(n)
	}
	tx.batch.delete(vertexKey(tx.engine.ns, id))
	tx.touched = append(tx.touched, touchedRecord{id: id})
	return nil
}

// DeleteEdge reads the edge to recover endpoints, then deletes the edge
// record and both adjacency entries.
func (tx *Transaction) DeleteEdge(id ids.Identifier) error {
	if err := tx.checkState(); err != nil {
		return err
	}
	e, found, err := tx.engine.GetEdge(id)
	if err != nil {
		return err
	}
	if !found {
		return errEdgeNotFound(id.String())
	}
	ns := tx.engine.ns
	tx.batch.delete(edgeKey(ns, id))
	tx.batch.delete(outgoingKey(ns, e.Start, id))
	tx.batch.delete(incomingKey(ns, e.End, id))
	tx.touched = append(tx.touched, touchedRecord{isEdge: true, id: id})
	tx.bumpEdgeDelta(e.Start, -1)
	tx.bumpEdgeDelta(e.End, -1)
	return nil
}

// Commit assembles one atomic batch: counter writes first, then all staged
// operations in order, matching the original's transaction commit ordering.
// Once committed the handle is terminal.
func (tx *Transaction) Commit() error {
	if err := tx.checkState(); err != nil {
		return err
	}
	ob, ok := tx.batch.(*opBatch)
	if !ok {
		return errInvalidState("transaction batch has unexpected type")
	}
	final := &opBatch{commitFn: ob.commitFn}
	for label, val := range tx.counterCache {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, val)
		final.put(counterKey(tx.engine.ns, label), buf)
	}
	final.ops = append(final.ops, ob.ops...)
	if err := final.commit(); err != nil {
		return err
	}
	tx.committed = true
	for _, t := range tx.touched {
		if t.isEdge {
			tx.engine.cache.invalidateEdge(tx.engine.ns, t.id)
		} else {
			tx.engine.cache.invalidateVertex(tx.engine.ns, t.id)
		}
	}
	return nil
}

// Rollback discards buffered ops and marks the handle terminal. Label
// ordinals allocated via getOrCreateLabel during this transaction are
// reclaimed from the engine's in-memory cache (engine.reclaimLabel) so a
// later transaction re-stages the catalog Put instead of silently
// inheriting an unpersisted binding; no other I/O has occurred, so there
// is nothing else to undo.
func (tx *Transaction) Rollback() error {
	if err := tx.checkState(); err != nil {
		return err
	}
	tx.rolledBack = true
	for label, id := range tx.allocatedLabels {
		tx.engine.reclaimLabel(label, id)
	}
	return nil
}
