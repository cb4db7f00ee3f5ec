package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a value transfer between two wallet addresses.
//
// ID is assigned by the transaction store on first save and is immutable
// afterwards. Fee is computed once from the asset's fee schedule when the
// transaction is built and is never recomputed.
type Transaction struct {
	ID        string          `json:"id"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	Asset     AssetClass      `json:"asset"`
	Priority  Priority        `json:"priority"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
