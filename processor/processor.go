// Package processor orchestrates the transfer pipeline: validation,
// persistence, then balance settlement.
package processor

import (
	"errors"

	"go.uber.org/zap"

	"github.com/coinops/walletcore/core"
	"github.com/coinops/walletcore/ledger"
	"github.com/coinops/walletcore/validation"
)

// ErrPersistenceFailed covers storage faults during processing. The exact
// store error is logged, not surfaced to callers.
var ErrPersistenceFailed = errors.New("failed to persist transaction")

// ErrBalanceUpdateFailed means the transaction was persisted but the balance
// movement did not apply. There is no compensating rollback; the persisted
// transaction stays recorded.
var ErrBalanceUpdateFailed = errors.New("failed to update wallet balances")

// Result is the single pass/fail outcome of processing one transaction.
type Result struct {
	Success     bool
	Err         error
	Transaction *core.Transaction
}

// Reason returns the human-readable failure reason, or "" on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Processor validates a transaction, persists it, and settles balances.
type Processor struct {
	txs       core.TransactionStore
	validator *validation.Validator
	ledger    *ledger.BalanceLedger
	log       *zap.Logger
}

func NewProcessor(txs core.TransactionStore, validator *validation.Validator, ledger *ledger.BalanceLedger, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{txs: txs, validator: validator, ledger: ledger, log: log}
}

// Process runs the pipeline and short-circuits on the first failure.
// Validation rejections come back as *validation.Error; storage faults are
// translated to the generic processing errors above. On success the returned
// transaction carries its store-assigned identity.
//
// A failure after the save step leaves the transaction persisted: the
// recorded-but-unsettled inconsistency is accepted as a documented
// limitation rather than closed with a rollback.
func (p *Processor) Process(tx *core.Transaction) Result {
	if err := p.validator.Validate(tx.From, tx.To, tx.Amount, tx.Fee); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return Result{Err: verr, Transaction: tx}
		}
		p.log.Error("wallet store fault during validation", zap.Error(err))
		return Result{Err: ErrPersistenceFailed, Transaction: tx}
	}

	if err := p.txs.Save(tx); err != nil {
		p.log.Error("transaction save failed", zap.Error(err))
		return Result{Err: ErrPersistenceFailed, Transaction: tx}
	}

	if !p.ledger.Transfer(tx.From, tx.To, tx.Amount, tx.Fee) {
		p.log.Error("balance update failed for persisted transaction", zap.String("txID", tx.ID))
		return Result{Err: ErrBalanceUpdateFailed, Transaction: tx}
	}

	p.log.Info("transaction processed",
		zap.String("txID", tx.ID),
		zap.String("from", tx.From),
		zap.String("to", tx.To),
		zap.String("amount", tx.Amount.String()),
		zap.String("fee", tx.Fee.String()),
	)

	return Result{Success: true, Transaction: tx}
}
