package storage

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinops/walletcore/core"
)

const txKeyPrefix = "tx:"

// TransactionRepository persists transactions under `tx:<id>` keys.
type TransactionRepository struct {
	db *BadgerStore
}

func NewTransactionRepository(db *BadgerStore) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func txKey(id string) string {
	return fmt.Sprintf("%s%s", txKeyPrefix, id)
}

// Save persists a transaction, assigning its identity if it has none.
func (r *TransactionRepository) Save(tx *core.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	return r.db.PutObject(txKey(tx.ID), tx)
}

// Update overwrites an already-saved transaction, persisting its current
// status.
func (r *TransactionRepository) Update(tx *core.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("cannot update transaction without identity")
	}
	return r.db.PutObject(txKey(tx.ID), tx)
}

// Get returns a transaction by ID, or nil when absent.
func (r *TransactionRepository) Get(id string) (*core.Transaction, error) {
	var tx core.Transaction
	found, err := r.db.GetObject(txKey(id), &tx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &tx, nil
}

// FindAll returns every stored transaction.
func (r *TransactionRepository) FindAll() ([]*core.Transaction, error) {
	objects, err := r.db.GetByPrefix(txKeyPrefix)
	if err != nil {
		return nil, err
	}

	txs := make([]*core.Transaction, 0, len(objects))
	for key, data := range objects {
		var tx core.Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction at %s: %w", key, err)
		}
		txs = append(txs, &tx)
	}
	return txs, nil
}

var _ core.TransactionStore = (*TransactionRepository)(nil)
