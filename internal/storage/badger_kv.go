package storage

import (
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures the Badger-backed engine, grounded on the
// teacher's pkg/storage/badger.go BadgerOptions shape.
type BadgerOptions struct {
	DataDir    string
	InMemory   bool
	SyncWrites bool
	Logger     *log.Logger
}

// badgerKV is a kvStore backed by BadgerDB, the ordered KV substrate named
// in spec.md §2 item 3.
type badgerKV struct {
	db     *badger.DB
	logger *log.Logger
}

func newBadgerKV(opts BadgerOptions) (*badgerKV, error) {
	bopts := badger.DefaultOptions(opts.DataDir)
	bopts = bopts.WithInMemory(opts.InMemory)
	bopts = bopts.WithSyncWrites(opts.SyncWrites)
	bopts = bopts.WithLogger(nil) // quiet by default; diagnostics go through opts.Logger instead

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "graphdb: ", log.LstdFlags)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errDatabase("opening badger: " + err.Error())
	}
	logger.Printf("opened badger store at %q (in_memory=%v)", opts.DataDir, opts.InMemory)
	return &badgerKV{db: db, logger: logger}, nil
}

func (b *badgerKV) get(key []byte) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, errDatabase(err.Error())
	}
	if out == nil {
		return nil, false, nil
	}
	return out, true, nil
}

func (b *badgerKV) iteratePrefix(prefix []byte, fn func(key, value []byte) (bool, error)) error {
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := append([]byte(nil), item.Key()...)
			var value []byte
			if err := item.Value(func(val []byte) error {
				value = append([]byte(nil), val...)
				return nil
			}); err != nil {
				return err
			}
			cont, err := fn(key, value)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return errDatabase(err.Error())
	}
	return nil
}

func (b *badgerKV) newBatch() kvBatch {
	return &opBatch{commitFn: b.applyBatch}
}

func (b *badgerKV) applyBatch(ops []kvOp) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, op := range ops {
		var err error
		if op.del {
			err = wb.Delete(op.key)
		} else {
			err = wb.Set(op.key, op.value)
		}
		if err != nil {
			return errDatabase(err.Error())
		}
	}
	if err := wb.Flush(); err != nil {
		return errDatabase(err.Error())
	}
	return nil
}

// diskSize reports Badger's own LSM-tree and value-log byte counts,
// satisfying the optional diskSizer interface that Engine.Stats uses.
func (b *badgerKV) diskSize() (lsm, vlog int64) {
	return b.db.Size()
}

func (b *badgerKV) close() error {
	if err := b.db.Close(); err != nil {
		return errDatabase(err.Error())
	}
	return nil
}
