// Package service is the caller-facing surface of the core: it builds
// transfers, runs them through the processor, and admits successful ones
// into the mempool.
package service

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinops/walletcore/core"
	"github.com/coinops/walletcore/fees"
	"github.com/coinops/walletcore/mempool"
	"github.com/coinops/walletcore/processor"
)

// TransferService ties the processing pipeline to the mempool.
type TransferService struct {
	processor *processor.Processor
	pool      core.MempoolInterface
	txs       core.TransactionStore
	log       *zap.Logger
}

func NewTransferService(p *processor.Processor, pool core.MempoolInterface, txs core.TransactionStore, log *zap.Logger) *TransferService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TransferService{processor: p, pool: pool, txs: txs, log: log}
}

// SubmitTransfer builds a priced transaction for the transfer, processes it
// (validate, persist, settle balances), and on success hands it to the
// mempool, which schedules its confirmation. The caller gets exactly one
// pass/fail result and never waits for the confirmation.
func (s *TransferService) SubmitTransfer(from, to string, amount decimal.Decimal, asset core.AssetClass, priority core.Priority) processor.Result {
	tx := fees.NewTransaction(from, to, amount, asset, priority)

	res := s.processor.Process(tx)
	if !res.Success {
		s.log.Info("transfer rejected", zap.String("reason", res.Reason()))
		return res
	}

	if !s.pool.AddTransaction(res.Transaction) {
		s.log.Error("processed transaction rejected by mempool", zap.String("txID", res.Transaction.ID))
		return processor.Result{Err: mempool.ErrAdmissionRejected, Transaction: res.Transaction}
	}

	return res
}

// PendingMempool returns the pending transactions in confirmation-priority
// order.
func (s *TransferService) PendingMempool() []core.Transaction {
	return s.pool.GetPendingTransactions()
}

// AllTransactions returns every transaction the store has ever recorded,
// whatever its status.
func (s *TransferService) AllTransactions() ([]*core.Transaction, error) {
	return s.txs.FindAll()
}
