// Package ledger applies the balance movement for an already-validated
// transfer.
package ledger

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinops/walletcore/core"
)

// BalanceLedger debits the source and credits the destination of a
// transfer. A process-wide mutex serializes transfers so interleaved
// read-modify-write cycles cannot desynchronize balances; the wallet store
// is not assumed to provide cross-call transactions, so a crash between the
// two writes can still leave the debit applied without the credit. That
// window is a documented limitation of this core.
type BalanceLedger struct {
	wallets core.WalletStore
	mu      sync.Mutex
	log     *zap.Logger
}

func NewBalanceLedger(wallets core.WalletStore, log *zap.Logger) *BalanceLedger {
	if log == nil {
		log = zap.NewNop()
	}
	return &BalanceLedger{wallets: wallets, log: log}
}

// Transfer moves amount from the source to the destination address, burning
// fee from the source. It reports false when either balance cannot be read
// or a write fails; writes already applied at that point stay in place.
func (l *BalanceLedger) Transfer(from, to string, amount, fee decimal.Decimal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	sourceBalance, ok, err := l.wallets.GetBalance(from)
	if err != nil || !ok {
		l.log.Warn("ledger: cannot read source balance", zap.String("address", from), zap.Error(err))
		return false
	}

	destBalance, ok, err := l.wallets.GetBalance(to)
	if err != nil || !ok {
		l.log.Warn("ledger: cannot read destination balance", zap.String("address", to), zap.Error(err))
		return false
	}

	if err := l.wallets.UpdateBalance(from, sourceBalance.Sub(amount).Sub(fee)); err != nil {
		l.log.Error("ledger: source debit failed", zap.String("address", from), zap.Error(err))
		return false
	}

	if err := l.wallets.UpdateBalance(to, destBalance.Add(amount)); err != nil {
		// The debit above is not rolled back.
		l.log.Error("ledger: destination credit failed after debit", zap.String("address", to), zap.Error(err))
		return false
	}

	return true
}
