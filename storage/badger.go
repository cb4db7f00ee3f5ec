// Package storage persists wallets and transactions in BadgerDB and
// implements the core store interfaces on top of it.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// Config controls how the BadgerDB store is opened.
type Config struct {
	DataDir    string
	InMemory   bool
	SyncWrites bool
}

// DefaultConfig returns a durable on-disk configuration.
func DefaultConfig(dataDir string) Config {
	return Config{DataDir: dataDir, SyncWrites: true}
}

// BadgerStore is a persistent key-value store backed by BadgerDB. It is an
// explicitly constructed handle: open it at startup, pass it to the
// repositories that need it, and close it at shutdown. There is no hidden
// process-wide instance.
type BadgerStore struct {
	db  *badger.DB
	mu  sync.Mutex
	log *zap.Logger
}

// Open opens (or creates) the store described by cfg.
func Open(cfg Config, log *zap.Logger) (*BadgerStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	opts := badger.DefaultOptions(filepath.Join(cfg.DataDir, "badgerdb"))
	opts.Logger = nil
	opts.InMemory = cfg.InMemory
	opts.SyncWrites = cfg.SyncWrites
	if cfg.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return &BadgerStore{db: db, log: log}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores a key-value pair in the database
func (s *BadgerStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Get retrieves a value by key. A missing key returns (nil, nil).
func (s *BadgerStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			valCopy = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return valCopy, nil
}

// Delete removes a key-value pair from the database
func (s *BadgerStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// GetByPrefix retrieves all key-value pairs with a given prefix
func (s *BadgerStore) GetByPrefix(prefix string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string][]byte)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			k := item.Key()
			err := item.Value(func(v []byte) error {
				// Copy key and value; they are only valid inside the txn.
				keyCopy := append([]byte{}, k...)
				valCopy := append([]byte{}, v...)
				result[string(keyCopy)] = valCopy
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get values by prefix: %w", err)
	}

	return result, nil
}

// PutObject serializes and stores an object in the database
func (s *BadgerStore) PutObject(key string, obj interface{}) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to marshal object: %w", err)
	}

	return s.Put(key, data)
}

// GetObject retrieves and deserializes an object. It reports whether the
// key existed.
func (s *BadgerStore) GetObject(key string, obj interface{}) (bool, error) {
	data, err := s.Get(key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, obj); err != nil {
		return false, fmt.Errorf("failed to unmarshal object: %w", err)
	}

	return true, nil
}

// RunGC runs value-log garbage collection on the database.
func (s *BadgerStore) RunGC() error {
	return s.db.RunValueLogGC(0.5)
}
