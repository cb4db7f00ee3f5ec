package fees

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinops/walletcore/core"
)

const (
	estimatedTxSizeBytes = 250
	satoshiPerByte       = 50
)

// baseFee = size * rate, converted from satoshi to BTC.
var btcBaseFee = decimal.NewFromInt(estimatedTxSizeBytes * satoshiPerByte).Shift(-8)

var btcEconomyMultiplier = decimal.NewFromFloat(0.8)

// Bitcoin prices transactions from a fixed estimated byte size and a fixed
// satoshi-per-byte rate. FAST carries no premium over STANDARD; the schedule
// keeps that literal behavior instead of inventing one.
type Bitcoin struct{}

func (Bitcoin) CalculateFee(tx *core.Transaction) decimal.Decimal {
	switch tx.Priority {
	case core.PriorityEconomy:
		return btcBaseFee.Mul(btcEconomyMultiplier)
	case core.PriorityFast:
		return btcBaseFee
	default:
		// STANDARD, and the documented fallback for unknown tiers.
		return btcBaseFee
	}
}

func (Bitcoin) EstimateConfirmationDelay(tx *core.Transaction) time.Duration {
	switch tx.Priority {
	case core.PriorityEconomy:
		return 240 * time.Second
	case core.PriorityFast:
		return 30 * time.Second
	default:
		return 120 * time.Second
	}
}
