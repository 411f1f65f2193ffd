package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"courtside/events"
	"courtside/models"
	"courtside/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Get_CreatesEmptyRecord(t *testing.T) {
	env := newTestEnv(t, rng.NewScripted())

	user, err := env.accounts.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Zero(t, user.Wallet)
	assert.Zero(t, user.Bank)
	assert.False(t, user.Joined)
	assert.Empty(t, env.log(t, "u1"))
}

func TestAccountService_EnsureJoined_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())

	first, err := env.accounts.EnsureJoined(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, first.Already)
	assert.Equal(t, int64(1000), first.Granted)
	assert.Equal(t, int64(1000), first.User.Wallet)
	assert.Zero(t, first.User.Bank)
	assert.True(t, first.User.Joined)

	second, err := env.accounts.EnsureJoined(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, second.Already)
	assert.Zero(t, second.Granted)
	assert.Equal(t, first.User.Wallet, second.User.Wallet)
	assert.Equal(t, first.User.Bank, second.User.Bank)

	txs := env.log(t, "u1")
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionKindJoin, txs[0].Kind)
	assert.Equal(t, int64(1000), txs[0].Amount)
	require.NotNil(t, txs[0].BalanceAfter)
	assert.Equal(t, int64(1000), *txs[0].BalanceAfter)
}

func TestAccountService_EnsureJoined_RecordsTruePostState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())

	_, err := env.accounts.Adjust(ctx, "u1", 50, 0, Entry{Kind: models.TransactionKindWork, Amount: 50})
	require.NoError(t, err)

	res, err := env.accounts.EnsureJoined(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1050), res.User.Wallet)

	txs := env.log(t, "u1")
	require.Len(t, txs, 2)
	assert.Equal(t, int64(1050), *txs[1].BalanceAfter)
}

func TestAccountService_Adjust_RejectsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")

	_, err := env.accounts.Adjust(ctx, "u1", -1001, 0, Entry{Kind: models.TransactionKindMambaTax, Amount: -1001})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, "wallet", fundsErr.Balance)
	assert.Equal(t, int64(1000), fundsErr.Available)
	assert.Equal(t, int64(1001), fundsErr.Required)

	_, err = env.accounts.Adjust(ctx, "u1", 10, -1, Entry{Kind: models.TransactionKindWithdraw, Amount: 1})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	user, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Wallet)
	assert.Len(t, env.log(t, "u1"), 1)
}

func TestAccountService_Adjust_RequiresKind(t *testing.T) {
	env := newTestEnv(t, rng.NewScripted())

	_, err := env.accounts.Adjust(context.Background(), "u1", 1, 0, Entry{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAccountService_Adjust_ConcurrentDeltas(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")

	const n = 100
	var wg sync.WaitGroup
	var expected int64 = 1000
	for i := 0; i < n; i++ {
		delta := int64(7)
		if i%2 == 1 {
			delta = -5
		}
		expected += delta

		wg.Add(1)
		go func(delta int64) {
			defer wg.Done()
			_, err := env.accounts.Adjust(ctx, "u1", delta, 0, Entry{Kind: models.TransactionKindMambaTax, Amount: delta})
			assert.NoError(t, err)
		}(delta)
	}
	wg.Wait()

	user, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, expected, user.Wallet)

	txs := env.log(t, "u1")
	assert.Len(t, txs, n+1)

	// balance_after follows commit order
	running := int64(0)
	for _, tx := range txs {
		running += tx.Amount
		assert.Equal(t, running, *tx.BalanceAfter)
	}
	requireLedgerBalanced(t, env, "u1")
}

func TestAccountService_Cooldowns(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())

	_, ok, err := env.accounts.GetCooldown(ctx, "u1", models.CooldownDaily)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.accounts.SetCooldown(ctx, "u1", models.CooldownDaily, t0, t0)
	assert.ErrorIs(t, err, ErrInvalidArgument, "cooldown must be strictly in the future")

	_, err = env.accounts.SetCooldown(ctx, "u1", models.CooldownName("nap"), t0.Add(time.Hour), t0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	until := t0.Add(time.Hour)
	_, err = env.accounts.SetCooldown(ctx, "u1", models.CooldownDaily, until, t0)
	require.NoError(t, err)

	got, ok, err := env.accounts.GetCooldown(ctx, "u1", models.CooldownDaily)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(until))
	assert.Empty(t, env.log(t, "u1"))
}

func TestAccountService_Record(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")

	tx, err := env.accounts.Record(ctx, "u1", Entry{Kind: models.TransactionKindMambaTax, Meta: map[string]any{"note": "waived"}})
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Nil(t, tx.BalanceAfter)

	txs := env.log(t, "u1")
	require.Len(t, txs, 2)
	assert.Equal(t, tx.ID, txs[1].ID)
	assert.Equal(t, "waived", txs[1].Meta["note"])
}

func TestAccountService_History_NewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")
	for i := 1; i <= 3; i++ {
		_, err := env.accounts.Adjust(ctx, "u1", int64(i), 0, Entry{Kind: models.TransactionKindWork, Amount: int64(i)})
		require.NoError(t, err)
	}

	all, err := env.accounts.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, int64(3), all[0].Amount)
	assert.Equal(t, models.TransactionKindJoin, all[3].Kind)

	recent, err := env.accounts.History(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(2), recent[1].Amount)
}

func TestAccountService_PublishesAfterCommit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())

	var mu sync.Mutex
	var received []events.Event
	collect := func(_ context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	}
	env.bus.Subscribe(events.EventTypeBalanceChange, collect)
	env.bus.Subscribe(events.EventTypeUserJoined, collect)

	env.joined(t, "u1")
	_, err := env.accounts.Adjust(ctx, "u1", -5000, 0, Entry{Kind: models.TransactionKindMambaTax, Amount: -5000})
	require.Error(t, err)
	env.bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2, "rejected changes publish nothing")

	var balance events.BalanceChangeEvent
	var joined events.UserJoinedEvent
	for _, e := range received {
		switch ev := e.(type) {
		case events.BalanceChangeEvent:
			balance = ev
		case events.UserJoinedEvent:
			joined = ev
		}
	}
	assert.Equal(t, models.TransactionKindJoin, balance.Kind)
	assert.Equal(t, int64(1000), balance.Wallet)
	assert.NotEmpty(t, balance.TransactionID)
	assert.Equal(t, "u1", joined.UserID)
	assert.Equal(t, int64(1000), joined.Granted)
}
