package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtside/events"
	"courtside/models"
	"courtside/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEconomy_SeededSession replays one user's session with fixed draws
func TestEconomy_SeededSession(t *testing.T) {
	ctx := context.Background()
	src := rng.NewScripted().
		Ints(337).              // daily reward
		Floats(0.3).            // bet
		Ints(4).                // dice roll
		Ints(3, 3, 3, 3, 3, 3). // horse ticks 1-2: every track +2
		Ints(3, 3, 3, 3, 3, 3). // ticks 3-4
		Ints(3, 1, 3)           // tick 5: +2, +1, +2
	env := newTestEnv(t, src)

	join, err := env.income.ClaimStartingStake(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), join.User.Wallet)

	daily, err := env.income.ClaimDaily(ctx, "u1", t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1337), daily.User.Wallet)

	deposit, err := env.income.Deposit(ctx, "u1", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(837), deposit.User.Wallet)
	assert.Equal(t, int64(490), deposit.User.Bank)

	bet, err := env.wagers.Bet(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionKindBetWin, bet.Kind)
	assert.Equal(t, int64(200), bet.Payout)
	assert.Equal(t, int64(100), bet.Delta)
	assert.Equal(t, int64(937), bet.NewWallet)

	dice, err := env.wagers.Dice(ctx, "u1", 100, 4)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionKindDiceWin, dice.Kind)
	assert.Equal(t, int64(500), dice.Payout)
	assert.Equal(t, int64(1337), dice.NewWallet)

	horse, err := env.wagers.Horse(ctx, "u1", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 9, 10}, horse.Details.Positions)
	assert.Equal(t, []int{0, 2}, horse.Details.Winners)
	assert.Equal(t, int64(300), horse.Payout)
	assert.Equal(t, int64(1537), horse.NewWallet)
	assert.Zero(t, src.Remaining())

	txs := env.log(t, "u1")
	require.Len(t, txs, 6)
	kinds := make([]models.TransactionKind, len(txs))
	for i, tx := range txs {
		kinds[i] = tx.Kind
	}
	assert.Equal(t, []models.TransactionKind{
		models.TransactionKindJoin,
		models.TransactionKindDaily,
		models.TransactionKindDeposit,
		models.TransactionKindBetWin,
		models.TransactionKindDiceWin,
		models.TransactionKindHorseWin,
	}, kinds)

	betTx := txs[3]
	assert.Equal(t, int64(200), betTx.Amount)
	assert.Equal(t, int64(937), *betTx.BalanceAfter)
	assert.Equal(t, int64(100), betTx.MetaInt(models.MetaStake))
	assert.Equal(t, int64(500), txs[4].Amount)
	requireLedgerBalanced(t, env, "u1")
}

func TestWageringService_Bet_Loss(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted().Floats(0.5))
	env.joined(t, "u1")

	out, err := env.wagers.Bet(ctx, "u1", 250)
	require.NoError(t, err)
	assert.False(t, out.Won())
	assert.Equal(t, models.TransactionKindBetLose, out.Kind)
	assert.Equal(t, int64(-250), out.Delta)
	assert.Equal(t, int64(750), out.NewWallet)

	txs := env.log(t, "u1")
	require.Len(t, txs, 2)
	assert.Equal(t, int64(-250), txs[1].Amount)
	assert.Nil(t, txs[1].BalanceAfter)
	requireLedgerBalanced(t, env, "u1")
}

func TestWageringService_StakeValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")
	_, err := env.accounts.Adjust(ctx, "u1", 30000, 0, Entry{Kind: models.TransactionKindWork, Amount: 30000})
	require.NoError(t, err)

	for _, stake := range []int64{0, -1, DefaultBetLimit + 1} {
		_, err := env.wagers.Bet(ctx, "u1", stake)
		assert.ErrorIs(t, err, ErrInvalidAmount, "stake %d", stake)
	}

	user, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(31000), user.Wallet)
	assert.Len(t, env.log(t, "u1"), 2)
}

func TestWageringService_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")

	_, err := env.wagers.Slots(ctx, "u1", 1001)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, int64(1000), fundsErr.Available)
	assert.Equal(t, int64(1001), fundsErr.Required)

	user, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Wallet)
}

func TestWageringService_NotJoined(t *testing.T) {
	env := newTestEnv(t, rng.NewScripted())

	_, err := env.wagers.Bet(context.Background(), "u1", 10)
	assert.ErrorIs(t, err, ErrNotJoined)
	assert.Empty(t, env.log(t, "u1"))
}

func TestWageringService_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted())
	env.joined(t, "u1")

	_, err := env.wagers.Dice(ctx, "u1", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.wagers.Dice(ctx, "u1", 10, 7)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.wagers.Coinflip(ctx, "u1", models.CoinSide("edge"), 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.wagers.Roulette(ctx, "u1", models.RouletteColor("blue"), 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = env.wagers.Horse(ctx, "u1", 3, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	user, err := env.accounts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), user.Wallet)
}

func TestWageringService_Coinflip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, rng.NewScripted().Ints(0, 0))
	env.joined(t, "u1")

	win, err := env.wagers.Coinflip(ctx, "u1", models.CoinHeads, 5)
	require.NoError(t, err)
	assert.Equal(t, models.CoinHeads, win.Details.Side)
	assert.Equal(t, int64(9), win.Payout, "1.8x is floored")
	assert.Equal(t, int64(1004), win.NewWallet)

	lose, err := env.wagers.Coinflip(ctx, "u1", models.CoinTails, 5)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionKindCoinflipLose, lose.Kind)
	assert.Equal(t, int64(999), lose.NewWallet)
	requireLedgerBalanced(t, env, "u1")
}

func TestWageringService_Slots(t *testing.T) {
	tests := []struct {
		name   string
		reels  []int
		payout int64
		kind   models.TransactionKind
	}{
		{"sevens", []int{5, 5, 5}, 1000, models.TransactionKindSlotsJackpot},
		{"triple", []int{0, 0, 0}, 500, models.TransactionKindSlotsJackpot},
		{"pair", []int{1, 2, 1}, 200, models.TransactionKindSlotsDouble},
		{"distinct", []int{0, 1, 2}, 0, models.TransactionKindSlotsLose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, rng.NewScripted().Ints(tt.reels...))
			env.joined(t, "u1")

			out, err := env.wagers.Slots(context.Background(), "u1", 100)
			require.NoError(t, err)
			assert.Equal(t, tt.payout, out.Payout)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, 900+tt.payout, out.NewWallet)
			require.Len(t, out.Details.Reels, 3)
			assert.Equal(t, SlotSymbols[tt.reels[0]], out.Details.Reels[0])

			txs := env.log(t, "u1")
			require.Len(t, txs, 2)
			assert.Equal(t, tt.kind, txs[1].Kind)
			requireLedgerBalanced(t, env, "u1")
		})
	}
}

func TestWageringService_Roulette(t *testing.T) {
	tests := []struct {
		name   string
		number int
		color  models.RouletteColor
		payout int64
	}{
		{"green zero", 0, models.RouletteGreen, 140},
		{"odd is red", 7, models.RouletteRed, 20},
		{"even is black", 36, models.RouletteBlack, 20},
		{"miss", 7, models.RouletteBlack, 0},
		{"green never above zero", 12, models.RouletteGreen, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, rng.NewScripted().Ints(tt.number))
			env.joined(t, "u1")

			out, err := env.wagers.Roulette(context.Background(), "u1", tt.color, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.number, out.Details.Number)
			assert.Equal(t, tt.payout, out.Payout)
			assert.Equal(t, 990+tt.payout, out.NewWallet)
		})
	}
}

func TestPocketColor(t *testing.T) {
	assert.Equal(t, models.RouletteGreen, PocketColor(0))
	for n := 1; n <= RoulettePockets; n++ {
		want := models.RouletteBlack
		if n%2 == 1 {
			want = models.RouletteRed
		}
		assert.Equal(t, want, PocketColor(n), "pocket %d", n)
	}
}

func TestRunRace_StopsAtFinishLine(t *testing.T) {
	src := rng.New(99)
	for i := 0; i < 200; i++ {
		positions, winners := RunRace(src)
		require.Len(t, positions, HorseTracks)
		require.NotEmpty(t, winners)

		lead := 0
		for _, p := range positions {
			lead = max(lead, p)
		}
		assert.GreaterOrEqual(t, lead, HorseFinishLine)
		assert.LessOrEqual(t, lead, HorseFinishLine+1)
		for _, w := range winners {
			assert.Equal(t, lead, positions[w])
		}
	}
}

func TestWageringService_Horse_Loss(t *testing.T) {
	src := rng.NewScripted()
	for tick := 0; tick < 5; tick++ {
		src.Ints(3, 1, 1)
	}
	env := newTestEnv(t, src)
	env.joined(t, "u1")

	out, err := env.wagers.Horse(context.Background(), "u1", 2, 100)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 5, 5}, out.Details.Positions)
	assert.Equal(t, []int{0}, out.Details.Winners)
	assert.Equal(t, models.TransactionKindHorseLose, out.Kind)
	assert.Equal(t, int64(900), out.NewWallet)
}

func TestWageringService_PublishesSettlement(t *testing.T) {
	env := newTestEnv(t, rng.NewScripted().Ints(6))
	env.joined(t, "u1")

	settled := make(chan events.WagerSettledEvent, 1)
	env.bus.Subscribe(events.EventTypeWagerSettled, func(_ context.Context, e events.Event) {
		settled <- e.(events.WagerSettledEvent)
	})

	_, err := env.wagers.Dice(context.Background(), "u1", 40, 6)
	require.NoError(t, err)

	select {
	case ev := <-settled:
		assert.Equal(t, models.GameDice, ev.Game)
		assert.Equal(t, int64(40), ev.Stake)
		assert.Equal(t, int64(200), ev.Payout)
	case <-time.After(2 * time.Second):
		t.Fatal("settlement event was not delivered")
	}
}

// TestEconomy_RandomSessionsKeepInvariants replays long random sessions and checks that
// balances never go negative and that the log accounts for every chip.
func TestEconomy_RandomSessionsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	src := rng.New(2024)
	env := newTestEnv(t, src)
	users := []string{"u1", "u2", "u3"}
	now := t0

	for i := 0; i < 600; i++ {
		id := users[src.Intn(len(users))]
		stake := int64(src.IntRange(1, 400))
		now = now.Add(7 * time.Minute)

		var err error
		switch src.Intn(11) {
		case 0:
			_, err = env.income.ClaimStartingStake(ctx, id)
		case 1:
			_, err = env.income.ClaimDaily(ctx, id, now)
		case 2:
			_, err = env.income.ClaimWork(ctx, id, now)
		case 3:
			_, err = env.income.Deposit(ctx, id, stake)
		case 4:
			_, err = env.income.Withdraw(ctx, id, stake)
		case 5:
			_, err = env.wagers.Bet(ctx, id, stake)
		case 6:
			_, err = env.wagers.Coinflip(ctx, id, models.CoinTails, stake)
		case 7:
			_, err = env.wagers.Dice(ctx, id, stake, src.IntRange(1, 6))
		case 8:
			_, err = env.wagers.Slots(ctx, id, stake)
		case 9:
			_, err = env.wagers.Roulette(ctx, id, models.RouletteRed, stake)
		case 10:
			_, err = env.wagers.Horse(ctx, id, src.Intn(HorseTracks), stake)
		}
		if err != nil {
			expected := errors.Is(err, ErrNotJoined) ||
				errors.Is(err, ErrCooldown) ||
				errors.Is(err, ErrInsufficientFunds)
			require.True(t, expected, "unexpected error: %v", err)
		}
	}

	for _, id := range users {
		requireLedgerBalanced(t, env, id)
	}
}
