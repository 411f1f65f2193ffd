package service

import (
	"context"
	"time"

	"courtside/events"
	"courtside/models"
	"courtside/store"
)

// Plan computes a conditional mutation from the committed state of a user. Events published
// to pub are delivered only if the resulting commit succeeds.
type Plan func(current *models.User, pub events.Publisher) (store.Mutation, store.TxFactory, error)

// Entry describes the transaction record written alongside a balance change
type Entry struct {
	Kind   models.TransactionKind
	Amount int64
	Meta   map[string]any
}

// AccountService defines the interface for account operations
type AccountService interface {
	// Get returns the user record, creating an empty one if absent
	Get(ctx context.Context, userID string) (*models.User, error)

	// EnsureJoined grants the starting stake once
	EnsureJoined(ctx context.Context, userID string) (*models.JoinResult, error)

	// Adjust applies wallet and bank deltas atomically and logs entry with the post-state wallet
	Adjust(ctx context.Context, userID string, walletDelta, bankDelta int64, entry Entry) (*models.User, error)

	// Record appends a log record that carries no balance change
	Record(ctx context.Context, userID string, entry Entry) (*models.Transaction, error)

	// GetCooldown returns the instant a named action is permitted again
	GetCooldown(ctx context.Context, userID string, name models.CooldownName) (time.Time, bool, error)

	// SetCooldown sets a cooldown to an instant strictly after now
	SetCooldown(ctx context.Context, userID string, name models.CooldownName, until, now time.Time) (*models.User, error)

	// Apply runs plan as one atomic read-modify-write
	Apply(ctx context.Context, userID string, plan Plan) (*models.User, error)

	// History returns the most recent records of a user, newest first. A limit <= 0 returns all.
	History(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
}

// IncomeService defines the interface for cooldown-gated income and bank transfers
type IncomeService interface {
	ClaimStartingStake(ctx context.Context, userID string) (*models.JoinResult, error)
	ClaimDaily(ctx context.Context, userID string, now time.Time) (*models.RewardResult, error)
	ClaimWork(ctx context.Context, userID string, now time.Time) (*models.RewardResult, error)
	Deposit(ctx context.Context, userID string, amount int64) (*models.BankResult, error)
	Withdraw(ctx context.Context, userID string, amount int64) (*models.BankResult, error)
}

// WageringService defines the interface for the chance games
type WageringService interface {
	Bet(ctx context.Context, userID string, stake int64) (*models.GameOutcome, error)
	Coinflip(ctx context.Context, userID string, side models.CoinSide, stake int64) (*models.GameOutcome, error)
	Dice(ctx context.Context, userID string, stake int64, guess int) (*models.GameOutcome, error)
	Slots(ctx context.Context, userID string, stake int64) (*models.GameOutcome, error)
	Roulette(ctx context.Context, userID string, color models.RouletteColor, stake int64) (*models.GameOutcome, error)
	Horse(ctx context.Context, userID string, pick int, stake int64) (*models.GameOutcome, error)
}

// Store is the subset of the user store the account service drives
type Store interface {
	Load(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, plan store.Plan) (*models.User, error)
	AppendTx(ctx context.Context, tx *models.Transaction) error
	Transactions(ctx context.Context, userID string) ([]*models.Transaction, error)
}
