package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds funds for a single address on one asset class.
//
// Address is generated once at creation and never changes. The balance is
// only mutated through the balance ledger; nothing prevents it from going
// negative when concurrent transfers drain the same wallet, which is a
// documented limitation of this core.
type Wallet struct {
	ID        string          `json:"id"`
	Address   string          `json:"address"`
	Asset     AssetClass      `json:"asset"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}
