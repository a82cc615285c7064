// Package storage implements the storage engine: key-space design over an
// ordered KV store, secondary indexes for adjacency, the label/counter
// catalog, and the atomic batched transaction model (spec.md §4.1-§4.3).
package storage

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"sync"

	"github.com/graphdb/graphdb/internal/graph"
	"github.com/graphdb/graphdb/internal/ids"
)

// GraphStorage is the capability set algorithms and the executor depend on
// (spec.md §9, "Polymorphism over storage"). Engine and Transaction both
// implement it, which lets callers substitute the KV substrate for tests.
type GraphStorage interface {
	GetVertex(id ids.Identifier) (graph.Vertex, bool, error)
	GetEdge(id ids.Identifier) (graph.Edge, bool, error)
	ScanVertices(label string) ([]graph.Vertex, error)
	ScanEdges(label string) ([]graph.Edge, error)
	GetOutgoingEdges(vid ids.Identifier) ([]graph.Edge, error)
	GetIncomingEdges(vid ids.Identifier) ([]graph.Edge, error)
}

// GraphTransaction extends GraphStorage with the mutating operations that
// must be staged and committed atomically (spec.md §4.3).
type GraphTransaction interface {
	GraphStorage
	CreateVertex(label string, props graph.Properties) (graph.Vertex, error)
	CreateEdge(label string, start, end ids.Identifier, props graph.Properties) (graph.Edge, error)
	UpdateVertex(v graph.Vertex) error
	UpdateEdge(e graph.Edge) error
	DeleteVertex(id ids.Identifier) error
	DeleteEdge(id ids.Identifier) error
	Commit() error
	Rollback() error
}

// Engine is the storage engine over one namespace. Label catalog and
// next-ordinal bookkeeping live in memory, seeded from disk on Open and
// guarded by mu because they are updated from concurrent transactions
// (spec.md §5).
type Engine struct {
	kv     kvStore
	ns     string
	logger *log.Logger

	mu          sync.Mutex
	labelToID   map[string]uint16
	idToLabel   map[uint16]string
	nextLabelID uint32 // monotonic, starts at 1; > 0xFFFF means exhausted

	cache *recordCache
}

// OpenMemory returns a namespace-scoped Engine backed by an in-memory KV
// store, for tests and embedders that don't need durability.
func OpenMemory(namespace string) (*Engine, error) {
	return open(newMemoryKV(), namespace, nil)
}

// OpenBadger returns a namespace-scoped Engine backed by BadgerDB.
func OpenBadger(namespace string, opts BadgerOptions) (*Engine, error) {
	kv, err := newBadgerKV(opts)
	if err != nil {
		return nil, err
	}
	return open(kv, namespace, opts.Logger)
}

func open(kv kvStore, namespace string, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		kv:          kv,
		ns:          namespace,
		logger:      logger,
		labelToID:   make(map[string]uint16),
		idToLabel:   make(map[uint16]string),
		nextLabelID: 1,
		cache:       newRecordCache(),
	}
	e.logger.Printf("storage: opening namespace %q", namespace)
	if err := e.seedCatalog(); err != nil {
		return nil, err
	}
	e.logger.Printf("storage: namespace %q open, %d label(s) replayed from catalog", namespace, len(e.labelToID))
	return e, nil
}

// seedCatalog prefix-scans l:{ns}: and derives the next label ordinal as
// max(existing) + 1 (spec.md §4.2); this is this engine's WAL-replay
// equivalent — on a Badger-backed engine the catalog itself is the durable
// log of label allocations, reconstructed here on every Open.
func (e *Engine) seedCatalog() error {
	var maxID uint16
	var seen bool
	err := e.kv.iteratePrefix(labelPrefix(e.ns), func(key, value []byte) (bool, error) {
		if len(value) != 2 {
			return true, nil
		}
		id := binary.LittleEndian.Uint16(value)
		name := labelNameFromKey(key)
		e.labelToID[name] = id
		e.idToLabel[id] = name
		if !seen || id > maxID {
			maxID = id
			seen = true
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	if seen {
		e.nextLabelID = uint32(maxID) + 1
	}
	return nil
}

// Close releases the underlying KV store. On a Badger-backed engine this
// runs final value-log compaction (Badger.Close flushes and compacts
// before returning) — logged here since badgerKV itself stays silent on
// close.
func (e *Engine) Close() error {
	e.logger.Printf("storage: closing namespace %q", e.ns)
	if err := e.kv.close(); err != nil {
		e.logger.Printf("storage: error closing namespace %q: %v", e.ns, err)
		return err
	}
	return nil
}

// getOrCreateLabel returns label's ordinal, allocating and staging a
// catalog Put into batch if label is new, and reports whether an
// allocation actually happened (isNew) so the caller's transaction can
// reclaim it on rollback. Allocation is immediate and mutex-guarded (not
// deferred to the caller's commit), which guarantees the "ordinals never
// reused" invariant even under concurrent transactions, slightly stronger
// than the Rust original's per-transaction allocation.
func (e *Engine) getOrCreateLabel(label string, batch kvBatch) (id uint16, isNew bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id, ok := e.labelToID[label]; ok {
		return id, false, nil
	}
	if e.nextLabelID > 0xFFFF {
		return 0, false, errCounterOverflow(label)
	}
	id = uint16(e.nextLabelID)
	e.nextLabelID++
	e.labelToID[label] = id
	e.idToLabel[id] = label

	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, id)
	batch.put(labelKey(e.ns, label), buf)
	return id, true, nil
}

// reclaimLabel undoes a getOrCreateLabel allocation made by a transaction
// that rolled back before its catalog Put was ever committed, provided no
// other writer has since reused the name for a different ordinal. The
// ordinal itself is never reused (nextLabelID only advances), so the next
// transaction to create this label name allocates a fresh ordinal and
// re-stages its own catalog Put — closing the durability gap where a
// rolled-back allocation would otherwise be cached forever without ever
// reaching disk.
func (e *Engine) reclaimLabel(label string, id uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur, ok := e.labelToID[label]; ok && cur == id {
		delete(e.labelToID, label)
		delete(e.idToLabel, id)
	}
}

// labelID looks up an existing label's ordinal without allocating.
func (e *Engine) labelID(label string) (uint16, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.labelToID[label]
	return id, ok
}

// --- GraphStorage (read-only surface), implemented directly over kv ---

func (e *Engine) GetVertex(id ids.Identifier) (graph.Vertex, bool, error) {
	if v, ok := e.cache.getVertex(e.ns, id); ok {
		return v, true, nil
	}
	data, found, err := e.kv.get(vertexKey(e.ns, id))
	if err != nil {
		return graph.Vertex{}, false, err
	}
	if !found {
		return graph.Vertex{}, false, nil
	}
	var v graph.Vertex
	if err := json.Unmarshal(data, &v); err != nil {
		return graph.Vertex{}, false, errSerialization(err.Error())
	}
	e.cache.putVertex(e.ns, v)
	return v, true, nil
}

func (e *Engine) GetEdge(id ids.Identifier) (graph.Edge, bool, error) {
	if ed, ok := e.cache.getEdge(e.ns, id); ok {
		return ed, true, nil
	}
	data, found, err := e.kv.get(edgeKey(e.ns, id))
	if err != nil {
		return graph.Edge{}, false, err
	}
	if !found {
		return graph.Edge{}, false, nil
	}
	var ed graph.Edge
	if err := json.Unmarshal(data, &ed); err != nil {
		return graph.Edge{}, false, errSerialization(err.Error())
	}
	e.cache.putEdge(e.ns, ed)
	return ed, true, nil
}

// ScanVertices returns every vertex with the given label, or an empty slice
// if the label has never been created in this namespace (spec.md §4.2
// documents both options; this engine chooses "empty", since labels are
// lazily created on first write and a scan before any write is a normal,
// recoverable condition per spec.md §7).
func (e *Engine) ScanVertices(label string) ([]graph.Vertex, error) {
	labid, ok := e.labelID(label)
	if !ok {
		return nil, nil
	}
	var out []graph.Vertex
	err := e.kv.iteratePrefix(vertexLabelPrefix(e.ns, labid), func(key, value []byte) (bool, error) {
		var v graph.Vertex
		if err := json.Unmarshal(value, &v); err != nil {
			return false, errSerialization(err.Error())
		}
		out = append(out, v)
		return true, nil
	})
	return out, err
}

func (e *Engine) ScanEdges(label string) ([]graph.Edge, error) {
	labid, ok := e.labelID(label)
	if !ok {
		return nil, nil
	}
	var out []graph.Edge
	err := e.kv.iteratePrefix(edgeLabelPrefix(e.ns, labid), func(key, value []byte) (bool, error) {
		var ed graph.Edge
		if err := json.Unmarshal(value, &ed); err != nil {
			return false, errSerialization(err.Error())
		}
		out = append(out, ed)
		return true, nil
	})
	return out, err
}

func (e *Engine) GetOutgoingEdges(vid ids.Identifier) ([]graph.Edge, error) {
	return e.resolveAdjacency(outgoingPrefix(e.ns, vid))
}

func (e *Engine) GetIncomingEdges(vid ids.Identifier) ([]graph.Edge, error) {
	return e.resolveAdjacency(incomingPrefix(e.ns, vid))
}

func (e *Engine) resolveAdjacency(prefix []byte) ([]graph.Edge, error) {
	var out []graph.Edge
	err := e.kv.iteratePrefix(prefix, func(key, value []byte) (bool, error) {
		eid, err := edgeRawIDFromIndexKey(key)
		if err != nil {
			return false, err
		}
		ed, found, err := e.GetEdge(eid)
		if err != nil {
			return false, err
		}
		if found {
			out = append(out, ed)
		}
		return true, nil
	})
	return out, err
}

func (e *Engine) countIncidentEdges(vid ids.Identifier) (int, error) {
	n := 0
	err := e.kv.iteratePrefix(outgoingPrefix(e.ns, vid), func(key, value []byte) (bool, error) {
		n++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	err = e.kv.iteratePrefix(incomingPrefix(e.ns, vid), func(key, value []byte) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}

// --- single-operation convenience wrappers: each opens an implicit
// transaction, performs one mutation, and commits. ---

func (e *Engine) CreateVertex(label string, props graph.Properties) (graph.Vertex, error) {
	tx, err := e.BeginTransaction()
	if err != nil {
		return graph.Vertex{}, err
	}
	v, err := tx.CreateVertex(label, props)
	if err != nil {
		_ = tx.Rollback()
		return graph.Vertex{}, err
	}
	if err := tx.Commit(); err != nil {
		return graph.Vertex{}, err
	}
	return v, nil
}

func (e *Engine) CreateEdge(label string, start, end ids.Identifier, props graph.Properties) (graph.Edge, error) {
	tx, err := e.BeginTransaction()
	if err != nil {
		return graph.Edge{}, err
	}
	ed, err := tx.CreateEdge(label, start, end, props)
	if err != nil {
		_ = tx.Rollback()
		return graph.Edge{}, err
	}
	if err := tx.Commit(); err != nil {
		return graph.Edge{}, err
	}
	return ed, nil
}

func (e *Engine) DeleteVertex(id ids.Identifier) error {
	tx, err := e.BeginTransaction()
	if err != nil {
		return err
	}
	if err := tx.DeleteVertex(id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (e *Engine) DeleteEdge(id ids.Identifier) error {
	tx, err := e.BeginTransaction()
	if err != nil {
		return err
	}
	if err := tx.DeleteEdge(id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// BeginTransaction starts a new staged transaction over this engine.
func (e *Engine) BeginTransaction() (*Transaction, error) {
	return &Transaction{
		engine:       e,
		batch:        e.kv.newBatch(),
		counterCache: make(map[string]uint64),
	}, nil
}
