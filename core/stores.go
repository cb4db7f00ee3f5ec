package core

import "github.com/shopspring/decimal"

// WalletStore is the persistence boundary for wallets. Implementations are
// expected to be safe for concurrent use; they are not expected to provide
// cross-call transactions.
type WalletStore interface {
	// Save persists a wallet, assigning an ID if it has none.
	Save(w *Wallet) error
	// FindByAddress returns the wallet for an address, or nil when absent.
	FindByAddress(address string) (*Wallet, error)
	// GetBalance returns the balance for an address. The second return is
	// false when no wallet exists for the address.
	GetBalance(address string) (decimal.Decimal, bool, error)
	// UpdateBalance overwrites the balance for an address.
	UpdateBalance(address string, balance decimal.Decimal) error
	// FindAll returns every stored wallet.
	FindAll() ([]*Wallet, error)
}

// TransactionStore is the persistence boundary for transactions.
type TransactionStore interface {
	// Save persists a new transaction and assigns its identity.
	Save(tx *Transaction) error
	// Update persists a status change for an already-saved transaction.
	Update(tx *Transaction) error
	// Get returns a transaction by ID, or nil when absent.
	Get(id string) (*Transaction, error)
	// FindAll returns every stored transaction.
	FindAll() ([]*Transaction, error)
}
