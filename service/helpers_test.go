package service

import (
	"context"
	"testing"
	"time"

	"courtside/events"
	"courtside/models"
	"courtside/rng"
	"courtside/store"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store    *store.Store
	bus      *events.Bus
	accounts AccountService
	income   IncomeService
	wagers   WageringService
}

func newTestEnv(t *testing.T, src rng.Source) *testEnv {
	t.Helper()
	st, err := store.Open(context.Background(), store.NewMemoryPersister(), store.WithClock(func() time.Time { return t0 }))
	require.NoError(t, err)

	bus := events.NewBus()
	settings := DefaultSettings()
	accounts := NewAccountService(st, settings, bus)
	return &testEnv{
		store:    st,
		bus:      bus,
		accounts: accounts,
		income:   NewIncomeService(accounts, src, settings),
		wagers:   NewWageringService(accounts, src, settings),
	}
}

// joined creates a user holding the starting stake
func (e *testEnv) joined(t *testing.T, id string) *models.User {
	t.Helper()
	res, err := e.accounts.EnsureJoined(context.Background(), id)
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) log(t *testing.T, id string) []*models.Transaction {
	t.Helper()
	txs, err := e.store.Transactions(context.Background(), id)
	require.NoError(t, err)
	return txs
}

// requireLedgerBalanced checks that the log explains every chip a user holds
func requireLedgerBalanced(t *testing.T, e *testEnv, id string) {
	t.Helper()
	user := e.store.Snapshot().Users[id]
	require.NotNil(t, user)
	require.GreaterOrEqual(t, user.Wallet, int64(0))
	require.GreaterOrEqual(t, user.Bank, int64(0))

	var net int64
	for _, tx := range e.log(t, id) {
		net += tx.NetChange()
	}
	require.Equal(t, user.Total(), net)
}
