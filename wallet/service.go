// Package wallet creates and lists wallets. Balance mutation is not done
// here; that belongs to the balance ledger.
package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinops/walletcore/core"
)

// Service creates wallets with generated addresses and reads wallet state.
type Service struct {
	wallets core.WalletStore
	log     *zap.Logger
}

func NewService(wallets core.WalletStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{wallets: wallets, log: log}
}

// Create generates an address for the asset class and persists a wallet
// holding the initial balance.
func (s *Service) Create(asset core.AssetClass, initialBalance decimal.Decimal) (*core.Wallet, error) {
	if !asset.Valid() {
		return nil, fmt.Errorf("unknown asset class %q", asset)
	}

	w := &core.Wallet{
		Address: GenerateAddress(asset),
		Asset:   asset,
		Balance: initialBalance,
	}
	if err := s.wallets.Save(w); err != nil {
		return nil, fmt.Errorf("saving wallet: %w", err)
	}

	s.log.Info("wallet created",
		zap.String("address", w.Address),
		zap.String("asset", string(asset)),
		zap.String("balance", initialBalance.String()),
	)
	return w, nil
}

// List returns every wallet in the store.
func (s *Service) List() ([]*core.Wallet, error) {
	return s.wallets.FindAll()
}

// Balance returns the balance for an address; ok is false when the address
// has no wallet.
func (s *Service) Balance(address string) (decimal.Decimal, bool, error) {
	return s.wallets.GetBalance(address)
}
