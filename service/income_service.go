package service

import (
	"context"
	"fmt"
	"time"

	"courtside/events"
	"courtside/models"
	"courtside/rng"
	"courtside/store"
)

const (
	DailyRewardMin = 200
	DailyRewardMax = 600
)

// Job is a work shift with its pay range, both bounds inclusive
type Job struct {
	Name   string
	MinPay int
	MaxPay int
}

// Jobs is the fixed list work draws from
var Jobs = []Job{
	{Name: "Cleaner", MinPay: 120, MaxPay: 220},
	{Name: "Motivational speaker", MinPay: 200, MaxPay: 320},
	{Name: "Bodyguard", MinPay: 250, MaxPay: 400},
	{Name: "Chip accountant", MinPay: 180, MaxPay: 260},
	{Name: "VIP bartender", MinPay: 220, MaxPay: 360},
}

type incomeService struct {
	accounts AccountService
	rng      rng.Source
	settings Settings
}

// NewIncomeService creates a new income service
func NewIncomeService(accounts AccountService, src rng.Source, settings Settings) IncomeService {
	return &incomeService{
		accounts: accounts,
		rng:      src,
		settings: settings,
	}
}

func (s *incomeService) ClaimStartingStake(ctx context.Context, userID string) (*models.JoinResult, error) {
	return s.accounts.EnsureJoined(ctx, userID)
}

func (s *incomeService) ClaimDaily(ctx context.Context, userID string, now time.Time) (*models.RewardResult, error) {
	return s.claim(ctx, userID, now, models.CooldownDaily, s.settings.DailyCooldown, func() (int64, string) {
		return int64(s.rng.IntRange(DailyRewardMin, DailyRewardMax)), ""
	})
}

func (s *incomeService) ClaimWork(ctx context.Context, userID string, now time.Time) (*models.RewardResult, error) {
	return s.claim(ctx, userID, now, models.CooldownWork, s.settings.WorkCooldown, func() (int64, string) {
		job := rng.Choice(s.rng, Jobs)
		return int64(s.rng.IntRange(job.MinPay, job.MaxPay)), job.Name
	})
}

// claim checks joined and the cooldown, draws the reward and sets the next cooldown in one
// commit, so parallel claims observe each other.
func (s *incomeService) claim(ctx context.Context, userID string, now time.Time, name models.CooldownName, cooldown time.Duration, draw func() (int64, string)) (*models.RewardResult, error) {
	result := &models.RewardResult{NextAvailable: now.Add(cooldown)}
	kind := models.TransactionKindDaily
	if name == models.CooldownWork {
		kind = models.TransactionKindWork
	}

	user, err := s.accounts.Apply(ctx, userID, func(current *models.User, _ events.Publisher) (store.Mutation, store.TxFactory, error) {
		if !current.Joined {
			return nil, nil, ErrNotJoined
		}
		if current.CooldownActive(name, now) {
			until, _ := current.CooldownUntil(name)
			return nil, nil, &CooldownError{Action: name, Until: until}
		}

		result.Amount, result.Job = draw()
		var meta map[string]any
		if result.Job != "" {
			meta = map[string]any{models.MetaJob: result.Job}
		}

		mutation := store.Mutation{
			store.Inc{Field: store.FieldWallet, Delta: result.Amount},
			store.Set{Path: store.CooldownPath(name), Value: result.NextAvailable},
		}
		return mutation, func(after *models.User) []*models.Transaction {
			return []*models.Transaction{withWalletAfter(after, Entry{Kind: kind, Amount: result.Amount, Meta: meta})}
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim %s: %w", name, err)
	}

	result.User = user
	return result, nil
}

// Deposit moves amount from wallet to bank, less a fee rounded up
func (s *incomeService) Deposit(ctx context.Context, userID string, amount int64) (*models.BankResult, error) {
	if amount <= 0 {
		return nil, invalidAmount("deposit must be positive, got %d", amount)
	}

	fee := s.settings.Fee(amount)
	transferred := max(amount-fee, 0)

	user, err := s.accounts.Apply(ctx, userID, func(current *models.User, _ events.Publisher) (store.Mutation, store.TxFactory, error) {
		if current.Wallet < amount {
			return nil, nil, &InsufficientFundsError{Balance: store.FieldWallet, Available: current.Wallet, Required: amount}
		}

		mutation := store.Mutation{
			store.Inc{Field: store.FieldWallet, Delta: -amount},
			store.Inc{Field: store.FieldBank, Delta: transferred},
		}
		return mutation, func(after *models.User) []*models.Transaction {
			return []*models.Transaction{withWalletAfter(after, Entry{
				Kind:   models.TransactionKindDeposit,
				Amount: transferred,
				Meta: map[string]any{
					models.MetaFee:       fee,
					models.MetaBankAfter: after.Bank,
				},
			})}
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}

	return &models.BankResult{Amount: amount, Transferred: transferred, Fee: fee, User: user}, nil
}

// Withdraw moves amount from bank to wallet without a fee
func (s *incomeService) Withdraw(ctx context.Context, userID string, amount int64) (*models.BankResult, error) {
	if amount <= 0 {
		return nil, invalidAmount("withdrawal must be positive, got %d", amount)
	}

	user, err := s.accounts.Apply(ctx, userID, func(current *models.User, _ events.Publisher) (store.Mutation, store.TxFactory, error) {
		if current.Bank < amount {
			return nil, nil, &InsufficientFundsError{Balance: store.FieldBank, Available: current.Bank, Required: amount}
		}

		mutation := store.Mutation{
			store.Inc{Field: store.FieldBank, Delta: -amount},
			store.Inc{Field: store.FieldWallet, Delta: amount},
		}
		return mutation, func(after *models.User) []*models.Transaction {
			return []*models.Transaction{withWalletAfter(after, Entry{
				Kind:   models.TransactionKindWithdraw,
				Amount: amount,
				Meta:   map[string]any{models.MetaBankAfter: after.Bank},
			})}
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to withdraw: %w", err)
	}

	return &models.BankResult{Amount: amount, Transferred: amount, User: user}, nil
}
