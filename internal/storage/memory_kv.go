package storage

import (
	"sort"
	"strings"
	"sync"
)

// memoryKV is an in-memory kvStore, grounded on the teacher's
// pkg/storage/memory.go in-memory engine shape. It exists so tests and
// embedders that don't need durability can use the same GraphStorage
// surface as the Badger-backed engine (spec.md §9).
type memoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) get(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *memoryKV) iteratePrefix(prefix []byte, fn func(key, value []byte) (bool, error)) error {
	m.mu.RLock()
	p := string(prefix)
	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	type kv struct {
		k string
		v []byte
	}
	snapshot := make([]kv, 0, len(keys))
	for _, k := range keys {
		snapshot = append(snapshot, kv{k: k, v: append([]byte(nil), m.data[k]...)})
	}
	m.mu.RUnlock()

	for _, e := range snapshot {
		cont, err := fn([]byte(e.k), e.v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

func (m *memoryKV) newBatch() kvBatch {
	return &opBatch{commitFn: m.applyBatch}
}

func (m *memoryKV) applyBatch(ops []kvOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range ops {
		if op.del {
			delete(m.data, string(op.key))
		} else {
			m.data[string(op.key)] = op.value
		}
	}
	return nil
}

func (m *memoryKV) close() error { return nil }
