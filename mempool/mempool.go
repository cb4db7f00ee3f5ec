// Package mempool holds pending transactions ordered by priority and fee,
// and advances each one to CONFIRMED after a simulated delay.
package mempool

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/emirpasic/gods/sets/treeset"
	"go.uber.org/zap"

	"github.com/coinops/walletcore/core"
	"github.com/coinops/walletcore/fees"
)

// ErrAdmissionRejected is reported when a transaction cannot enter the pool.
var ErrAdmissionRejected = errors.New("transaction rejected by mempool")

// NATS subjects for transaction lifecycle events.
const (
	SubjectTxAdmitted  = "mempool.tx.admitted"
	SubjectTxConfirmed = "mempool.tx.confirmed"
)

// Publisher receives transaction lifecycle events. A nil publisher disables
// event publishing.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// entry wires a transaction to its admission sequence number and the delay
// its fee schedule promised. The sequence number makes the comparator total:
// equal tier and equal fee fall back to insertion order.
type entry struct {
	tx    *core.Transaction
	seq   uint64
	delay time.Duration
}

// byPriority orders entries highest-first: priority tier descending, fee
// descending, admission order ascending. It never returns 0 for two
// distinct entries, so treeset equality means identity.
func byPriority(a, b interface{}) int {
	ea, eb := a.(*entry), b.(*entry)

	if d := eb.tx.Priority.Rank() - ea.tx.Priority.Rank(); d != 0 {
		return d
	}
	if c := eb.tx.Fee.Cmp(ea.tx.Fee); c != 0 {
		return c
	}
	switch {
	case ea.seq < eb.seq:
		return -1
	case ea.seq > eb.seq:
		return 1
	default:
		return 0
	}
}

// Mempool stores pending transactions before they are confirmed. All access
// to the ordered set goes through the mutex; confirmation timers run on
// their own goroutines and synchronize through the same lock, so a
// transaction is confirmed at most once.
type Mempool struct {
	mu      sync.Mutex
	pending *treeset.Set      // of *entry, ordered by byPriority
	byID    map[string]*entry // txID -> entry, for check-and-act removal
	timers  map[string]*time.Timer
	seq     uint64
	stopped bool

	txs     core.TransactionStore
	delayFn func(*core.Transaction) time.Duration
	broker  Publisher
	log     *zap.Logger
}

// Option configures a Mempool.
type Option func(*Mempool)

// WithDelayFunc overrides how the confirmation delay for a transaction is
// computed. The default asks the fee schedule for the transaction's asset.
func WithDelayFunc(fn func(*core.Transaction) time.Duration) Option {
	return func(mp *Mempool) { mp.delayFn = fn }
}

// WithBroker attaches an event publisher for admission and confirmation.
func WithBroker(b Publisher) Option {
	return func(mp *Mempool) { mp.broker = b }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(mp *Mempool) { mp.log = log }
}

// NewMempool creates a mempool that persists confirmations through the
// given transaction store.
func NewMempool(txs core.TransactionStore, opts ...Option) *Mempool {
	mp := &Mempool{
		pending: treeset.NewWith(byPriority),
		byID:    make(map[string]*entry),
		timers:  make(map[string]*time.Timer),
		txs:     txs,
		delayFn: func(tx *core.Transaction) time.Duration {
			return fees.ForAsset(tx.Asset).EstimateConfirmationDelay(tx)
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(mp)
	}
	return mp
}

// AddTransaction admits a transaction into the pending set and schedules its
// one-shot confirmation. It reports false for a nil transaction, a
// transaction already present, or a stopped pool. The caller never blocks
// on the confirmation itself.
func (mp *Mempool) AddTransaction(tx *core.Transaction) bool {
	if tx == nil {
		return false
	}
	delay := mp.delayFn(tx)

	mp.mu.Lock()
	if mp.stopped {
		mp.mu.Unlock()
		return false
	}
	if _, exists := mp.byID[tx.ID]; exists {
		mp.mu.Unlock()
		return false
	}

	tx.Status = core.StatusPending
	mp.seq++
	e := &entry{tx: tx, seq: mp.seq, delay: delay}
	mp.pending.Add(e)
	mp.byID[tx.ID] = e

	// The timer closure holds the transaction ID, not the transaction
	// itself; the timer doubles as the cancellation handle.
	id := tx.ID
	mp.timers[id] = time.AfterFunc(delay, func() { mp.confirmTransaction(id) })
	mp.mu.Unlock()

	mp.log.Info("transaction admitted to mempool",
		zap.String("txID", id),
		zap.String("priority", string(tx.Priority)),
		zap.Duration("confirmationDelay", delay),
	)
	mp.publish(SubjectTxAdmitted, tx)
	return true
}

// confirmTransaction is invoked by the scheduled timer. The removal from the
// pending set and the status flip happen under the lock as one check-and-act
// step: if the transaction is already gone the call is a no-op, so a
// transaction scheduled twice still confirms exactly once.
func (mp *Mempool) confirmTransaction(id string) {
	mp.mu.Lock()
	e, ok := mp.byID[id]
	if !ok {
		mp.mu.Unlock()
		return
	}
	mp.remove(e)
	e.tx.Status = core.StatusConfirmed
	mp.mu.Unlock()

	if err := mp.txs.Update(e.tx); err != nil {
		mp.log.Error("persisting confirmation failed, re-admitting as pending",
			zap.String("txID", id), zap.Error(err))
		mp.readmit(e)
		return
	}

	mp.log.Info("transaction confirmed", zap.String("txID", id))
	mp.publish(SubjectTxConfirmed, e.tx)
}

// readmit puts an entry back into the pending set after a failed
// confirmation write, keeping its original fee and priority, and schedules
// another attempt after the entry's original delay.
func (mp *Mempool) readmit(e *entry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.stopped {
		return
	}
	e.tx.Status = core.StatusPending
	mp.pending.Add(e)
	mp.byID[e.tx.ID] = e

	id := e.tx.ID
	mp.timers[id] = time.AfterFunc(e.delay, func() { mp.confirmTransaction(id) })
}

// GetPendingTransactions returns a defensive copy of the pending set in
// priority order. The snapshot may be stale by the time it is read, but it
// is internally consistent.
func (mp *Mempool) GetPendingTransactions() []core.Transaction {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := make([]core.Transaction, 0, mp.pending.Size())
	it := mp.pending.Iterator()
	for it.Next() {
		txs = append(txs, *it.Value().(*entry).tx)
	}
	return txs
}

// PollHighest removes and returns the highest-priority pending transaction
// without waiting for its confirmation. Its scheduled confirmation is
// cancelled; the transaction stays PENDING.
func (mp *Mempool) PollHighest() (*core.Transaction, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	it := mp.pending.Iterator()
	if !it.Next() {
		return nil, false
	}
	e := it.Value().(*entry)
	mp.remove(e)
	return e.tx, true
}

// Size returns the number of pending transactions.
func (mp *Mempool) Size() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.pending.Size()
}

// Stop cancels every scheduled confirmation and rejects further admissions.
// Transactions still pending remain in the store as PENDING.
func (mp *Mempool) Stop() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.stopped = true
	for id, t := range mp.timers {
		t.Stop()
		delete(mp.timers, id)
	}
}

// remove drops an entry from the set, the index, and cancels its timer.
// Caller must hold mp.mu.
func (mp *Mempool) remove(e *entry) {
	mp.pending.Remove(e)
	delete(mp.byID, e.tx.ID)
	if t, ok := mp.timers[e.tx.ID]; ok {
		t.Stop()
		delete(mp.timers, e.tx.ID)
	}
}

func (mp *Mempool) publish(subject string, tx *core.Transaction) {
	if mp.broker == nil {
		return
	}
	data, err := json.Marshal(tx)
	if err != nil {
		return
	}
	if err := mp.broker.Publish(subject, data); err != nil {
		mp.log.Warn("publishing mempool event failed", zap.String("subject", subject), zap.Error(err))
	}
}

var _ core.MempoolInterface = (*Mempool)(nil)
