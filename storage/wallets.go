package storage

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinops/walletcore/core"
)

const walletKeyPrefix = "wallet:"

// WalletRepository persists wallets under `wallet:<address>` keys. Addresses
// are unique and immutable, so they double as the lookup key.
type WalletRepository struct {
	db *BadgerStore
}

func NewWalletRepository(db *BadgerStore) *WalletRepository {
	return &WalletRepository{db: db}
}

func walletKey(address string) string {
	return fmt.Sprintf("%s%s", walletKeyPrefix, address)
}

// Save persists a wallet, assigning an ID if it has none.
func (r *WalletRepository) Save(w *core.Wallet) error {
	if w.Address == "" {
		return fmt.Errorf("cannot save wallet without address")
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return r.db.PutObject(walletKey(w.Address), w)
}

// FindByAddress returns the wallet for an address, or nil when absent.
func (r *WalletRepository) FindByAddress(address string) (*core.Wallet, error) {
	var w core.Wallet
	found, err := r.db.GetObject(walletKey(address), &w)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &w, nil
}

// GetBalance returns the balance for an address; the second return is false
// when no wallet exists there.
func (r *WalletRepository) GetBalance(address string) (decimal.Decimal, bool, error) {
	w, err := r.FindByAddress(address)
	if err != nil {
		return decimal.Zero, false, err
	}
	if w == nil {
		return decimal.Zero, false, nil
	}
	return w.Balance, true, nil
}

// UpdateBalance overwrites the balance of an existing wallet.
func (r *WalletRepository) UpdateBalance(address string, balance decimal.Decimal) error {
	w, err := r.FindByAddress(address)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("no wallet at address %s", address)
	}

	w.Balance = balance
	return r.db.PutObject(walletKey(address), w)
}

// FindAll returns every stored wallet.
func (r *WalletRepository) FindAll() ([]*core.Wallet, error) {
	objects, err := r.db.GetByPrefix(walletKeyPrefix)
	if err != nil {
		return nil, err
	}

	wallets := make([]*core.Wallet, 0, len(objects))
	for key, data := range objects {
		var w core.Wallet
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallet at %s: %w", key, err)
		}
		wallets = append(wallets, &w)
	}
	return wallets, nil
}

var _ core.WalletStore = (*WalletRepository)(nil)
