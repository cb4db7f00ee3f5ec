package mempool

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinops/walletcore/core"
)

// recordingStore is an in-memory core.TransactionStore that can be told to
// fail a number of Update calls.
type recordingStore struct {
	mu          sync.Mutex
	saved       map[string]core.Transaction
	updates     []core.Transaction
	failUpdates int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: make(map[string]core.Transaction)}
}

func (s *recordingStore) Save(tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = fmt.Sprintf("tx-%d", len(s.saved)+1)
	}
	s.saved[tx.ID] = *tx
	return nil
}

func (s *recordingStore) Update(tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdates > 0 {
		s.failUpdates--
		return fmt.Errorf("store unavailable")
	}
	s.saved[tx.ID] = *tx
	s.updates = append(s.updates, *tx)
	return nil
}

func (s *recordingStore) Get(id string) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx, ok := s.saved[id]; ok {
		return &tx, nil
	}
	return nil, nil
}

func (s *recordingStore) FindAll() ([]*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []*core.Transaction
	for id := range s.saved {
		tx := s.saved[id]
		txs = append(txs, &tx)
	}
	return txs, nil
}

func (s *recordingStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func pendingTx(id string, priority core.Priority, fee string) *core.Transaction {
	return &core.Transaction{
		ID:       id,
		From:     "src",
		To:       "dst",
		Amount:   decimal.NewFromInt(1),
		Fee:      decimal.RequireFromString(fee),
		Asset:    core.AssetBitcoin,
		Priority: priority,
		Status:   core.StatusPending,
	}
}

// longDelay keeps scheduled confirmations from firing during a test.
func longDelay(*core.Transaction) time.Duration { return time.Hour }

func TestAddTransactionRejectsNil(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	assert.False(t, mp.AddTransaction(nil))
	assert.Equal(t, 0, mp.Size())
}

func TestAddTransactionRejectsDuplicate(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	tx := pendingTx("a", core.PriorityStandard, "0.000125")

	assert.True(t, mp.AddTransaction(tx))
	assert.False(t, mp.AddTransaction(tx))
	assert.Equal(t, 1, mp.Size())
}

func TestSnapshotOrderedByPriorityThenFee(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	defer mp.Stop()

	// Admission order is deliberately scrambled.
	require.True(t, mp.AddTransaction(pendingTx("economy", core.PriorityEconomy, "0.0001")))
	require.True(t, mp.AddTransaction(pendingTx("fast", core.PriorityFast, "0.000125")))
	require.True(t, mp.AddTransaction(pendingTx("standard", core.PriorityStandard, "0.000125")))

	snapshot := mp.GetPendingTransactions()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "fast", snapshot[0].ID)
	assert.Equal(t, "standard", snapshot[1].ID)
	assert.Equal(t, "economy", snapshot[2].ID)
}

func TestOrderingTieBreaks(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	defer mp.Stop()

	// Same tier: higher fee wins. Same tier and fee: insertion order.
	require.True(t, mp.AddTransaction(pendingTx("cheap", core.PriorityFast, "0.0001")))
	require.True(t, mp.AddTransaction(pendingTx("rich", core.PriorityFast, "0.0002")))
	require.True(t, mp.AddTransaction(pendingTx("twin-1", core.PriorityFast, "0.0002")))

	snapshot := mp.GetPendingTransactions()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "rich", snapshot[0].ID)
	assert.Equal(t, "twin-1", snapshot[1].ID)
	assert.Equal(t, "cheap", snapshot[2].ID)
}

func TestPollHighest(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	defer mp.Stop()

	_, ok := mp.PollHighest()
	assert.False(t, ok)

	require.True(t, mp.AddTransaction(pendingTx("economy", core.PriorityEconomy, "0.0001")))
	require.True(t, mp.AddTransaction(pendingTx("fast", core.PriorityFast, "0.000125")))

	tx, ok := mp.PollHighest()
	require.True(t, ok)
	assert.Equal(t, "fast", tx.ID)
	assert.Equal(t, core.StatusPending, tx.Status, "polling is not confirming")
	assert.Equal(t, 1, mp.Size())
}

func TestConfirmHappensAtMostOnce(t *testing.T) {
	store := newRecordingStore()
	mp := NewMempool(store, WithDelayFunc(longDelay))
	defer mp.Stop()

	tx := pendingTx("a", core.PriorityStandard, "0.000125")
	require.True(t, mp.AddTransaction(tx))

	// Simulate a duplicated schedule racing on the same transaction.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mp.confirmTransaction("a")
		}()
	}
	wg.Wait()

	assert.Equal(t, core.StatusConfirmed, tx.Status)
	assert.Equal(t, 1, store.updateCount(), "exactly one persisted status update")
	assert.Equal(t, 0, mp.Size())
}

func TestConfirmThroughScheduler(t *testing.T) {
	store := newRecordingStore()
	mp := NewMempool(store, WithDelayFunc(func(*core.Transaction) time.Duration {
		return 10 * time.Millisecond
	}))
	defer mp.Stop()

	tx := pendingTx("a", core.PriorityFast, "0.000125")
	require.True(t, mp.AddTransaction(tx))

	assert.Eventually(t, func() bool {
		return mp.Size() == 0 && store.updateCount() == 1
	}, time.Second, 5*time.Millisecond)

	stored, err := store.Get("a")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, core.StatusConfirmed, stored.Status)
}

func TestFailedConfirmationReadmitsAsPending(t *testing.T) {
	store := newRecordingStore()
	store.failUpdates = 1

	mp := NewMempool(store, WithDelayFunc(longDelay))
	defer mp.Stop()

	tx := pendingTx("a", core.PriorityFast, "0.000125")
	require.True(t, mp.AddTransaction(tx))

	mp.confirmTransaction("a")

	assert.Equal(t, 1, mp.Size(), "transaction goes back into the pool")
	assert.Equal(t, core.StatusPending, tx.Status)
	fee := mp.GetPendingTransactions()[0].Fee
	assert.Equal(t, "0.000125", fee.String(), "fee survives re-admission")

	// A later attempt with a healthy store succeeds.
	mp.confirmTransaction("a")
	assert.Equal(t, 0, mp.Size())
	assert.Equal(t, core.StatusConfirmed, tx.Status)
}

func TestConcurrentAdmissionsAndSnapshots(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	defer mp.Stop()

	tiers := []core.Priority{core.PriorityEconomy, core.PriorityStandard, core.PriorityFast}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx := pendingTx(fmt.Sprintf("tx-%d", i), tiers[i%3], "0.000125")
			mp.AddTransaction(tx)
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			mp.GetPendingTransactions()
		}()
	}
	wg.Wait()

	snapshot := mp.GetPendingTransactions()
	require.Len(t, snapshot, 50)
	for i := 1; i < len(snapshot); i++ {
		assert.GreaterOrEqual(t,
			snapshot[i-1].Priority.Rank(), snapshot[i].Priority.Rank(),
			"snapshot must stay sorted by tier")
	}
}

func TestStopRejectsNewAdmissions(t *testing.T) {
	mp := NewMempool(newRecordingStore(), WithDelayFunc(longDelay))
	mp.Stop()
	assert.False(t, mp.AddTransaction(pendingTx("a", core.PriorityFast, "0.000125")))
}
