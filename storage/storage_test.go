package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinops/walletcore/core"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := Open(Config{InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTransactionRepositoryRoundTrip(t *testing.T) {
	repo := NewTransactionRepository(openTestStore(t))

	tx := &core.Transaction{
		From:     "bc1src",
		To:       "bc1dst",
		Amount:   decimal.NewFromFloat(0.5),
		Fee:      decimal.RequireFromString("0.000125"),
		Asset:    core.AssetBitcoin,
		Priority: core.PriorityFast,
		Status:   core.StatusPending,
	}

	require.NoError(t, repo.Save(tx))
	assert.NotEmpty(t, tx.ID, "save assigns identity")

	got, err := repo.Get(tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, core.StatusPending, got.Status)
	assert.True(t, got.Fee.Equal(tx.Fee))

	tx.Status = core.StatusConfirmed
	require.NoError(t, repo.Update(tx))

	got, err = repo.Get(tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, core.StatusConfirmed, got.Status)
}

func TestTransactionRepositorySaveKeepsExistingID(t *testing.T) {
	repo := NewTransactionRepository(openTestStore(t))

	tx := &core.Transaction{ID: "fixed", Asset: core.AssetEthereum, Status: core.StatusPending}
	require.NoError(t, repo.Save(tx))
	assert.Equal(t, "fixed", tx.ID)

	assert.Error(t, repo.Update(&core.Transaction{}), "update requires identity")
}

func TestTransactionRepositoryFindAll(t *testing.T) {
	repo := NewTransactionRepository(openTestStore(t))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(&core.Transaction{
			Asset:  core.AssetBitcoin,
			Status: core.StatusPending,
			Amount: decimal.NewFromInt(int64(i + 1)),
		}))
	}

	txs, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, txs, 3)
}

func TestWalletRepository(t *testing.T) {
	repo := NewWalletRepository(openTestStore(t))

	w := &core.Wallet{
		Address: "bc1abc",
		Asset:   core.AssetBitcoin,
		Balance: decimal.NewFromInt(2),
	}
	require.NoError(t, repo.Save(w))
	assert.NotEmpty(t, w.ID)

	got, err := repo.FindByAddress("bc1abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(2)))

	missing, err := repo.FindByAddress("bc1nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	balance, ok, err := repo.GetBalance("bc1abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", balance.String())

	_, ok, err = repo.GetBalance("bc1nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateBalance("bc1abc", decimal.RequireFromString("1.5")))
	balance, ok, err = repo.GetBalance("bc1abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1.5", balance.String())

	assert.Error(t, repo.UpdateBalance("bc1nope", decimal.Zero))

	wallets, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
}

func TestWalletRepositoryRejectsEmptyAddress(t *testing.T) {
	repo := NewWalletRepository(openTestStore(t))
	assert.Error(t, repo.Save(&core.Wallet{}))
}
