// Package fees computes transaction fees and simulated confirmation delays.
// One schedule exists per asset class; both computations are pure functions
// of the transaction's priority tier.
package fees

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinops/walletcore/core"
)

// Strategy prices a transaction and estimates how long it will sit in the
// mempool before the simulated confirmation fires.
type Strategy interface {
	CalculateFee(tx *core.Transaction) decimal.Decimal
	EstimateConfirmationDelay(tx *core.Transaction) time.Duration
}

// ForAsset returns the fee schedule bound to an asset class. The asset set
// is closed; anything that slips past input parsing gets the Bitcoin
// schedule rather than a nil strategy.
func ForAsset(asset core.AssetClass) Strategy {
	switch asset {
	case core.AssetEthereum:
		return Ethereum{}
	default:
		return Bitcoin{}
	}
}

// NewTransaction builds a transaction for the given transfer, pricing it
// with the schedule matching the asset class. The fee is fixed here and
// never recomputed. Identity is left empty; the transaction store assigns
// it on first save.
func NewTransaction(from, to string, amount decimal.Decimal, asset core.AssetClass, priority core.Priority) *core.Transaction {
	tx := &core.Transaction{
		From:      from,
		To:        to,
		Amount:    amount,
		Asset:     asset,
		Priority:  priority,
		Status:    core.StatusPending,
		CreatedAt: time.Now(),
	}
	tx.Fee = ForAsset(asset).CalculateFee(tx)
	return tx
}
