package fees

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinops/walletcore/core"
)

const (
	ethAvgBlockTime = 13 * time.Second
	defaultGasLimit = 21000
	defaultGasPrice = 50 // gwei
)

// fee = gasLimit * gasPrice, converted from gwei to ETH.
var ethFee = decimal.NewFromInt(defaultGasLimit * defaultGasPrice).Shift(-9)

// Ethereum prices every tier identically: gas cost does not depend on how
// fast the caller wants inclusion, only the confirmation delay does.
type Ethereum struct{}

func (Ethereum) CalculateFee(tx *core.Transaction) decimal.Decimal {
	return ethFee
}

// EstimateConfirmationDelay scales the average block interval by tier:
// ECONOMY waits five blocks, STANDARD two, FAST one. Unknown tiers get the
// STANDARD delay.
func (Ethereum) EstimateConfirmationDelay(tx *core.Transaction) time.Duration {
	switch tx.Priority {
	case core.PriorityEconomy:
		return 5 * ethAvgBlockTime
	case core.PriorityFast:
		return ethAvgBlockTime
	default:
		return 2 * ethAvgBlockTime
	}
}
