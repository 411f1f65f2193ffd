package service

import (
	"context"
	"fmt"
	"time"

	"courtside/events"
	"courtside/models"
	"courtside/store"

	log "github.com/sirupsen/logrus"
)

// accountService implements the AccountService interface
type accountService struct {
	store    Store
	settings Settings
	bus      *events.Bus
}

// NewAccountService creates a new account service. bus may be nil.
func NewAccountService(st Store, settings Settings, bus *events.Bus) AccountService {
	return &accountService{
		store:    st,
		settings: settings,
		bus:      bus,
	}
}

func (s *accountService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// EnsureJoined sets joined and credits the starting stake in one commit. A second call is a no-op.
func (s *accountService) EnsureJoined(ctx context.Context, userID string) (*models.JoinResult, error) {
	result := &models.JoinResult{}
	chips := s.settings.StartingChips

	user, err := s.Apply(ctx, userID, func(current *models.User, pub events.Publisher) (store.Mutation, store.TxFactory, error) {
		if current.Joined {
			result.Already = true
			return nil, nil, nil
		}

		pub.Publish(events.UserJoinedEvent{UserID: userID, Granted: chips})
		result.Granted = chips
		mutation := store.Mutation{
			store.Set{Path: store.FieldJoined, Value: true},
			store.Inc{Field: store.FieldWallet, Delta: chips},
		}
		return mutation, func(after *models.User) []*models.Transaction {
			return []*models.Transaction{withWalletAfter(after, Entry{Kind: models.TransactionKindJoin, Amount: chips})}
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant starting stake: %w", err)
	}

	result.User = user
	return result, nil
}

func (s *accountService) Adjust(ctx context.Context, userID string, walletDelta, bankDelta int64, entry Entry) (*models.User, error) {
	if entry.Kind == "" {
		return nil, invalidArgument("transaction kind is required")
	}

	user, err := s.Apply(ctx, userID, func(*models.User, events.Publisher) (store.Mutation, store.TxFactory, error) {
		mutation := store.Mutation{
			store.Inc{Field: store.FieldWallet, Delta: walletDelta},
			store.Inc{Field: store.FieldBank, Delta: bankDelta},
		}
		return mutation, func(after *models.User) []*models.Transaction {
			return []*models.Transaction{withWalletAfter(after, entry)}
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return user, nil
}

func (s *accountService) Record(ctx context.Context, userID string, entry Entry) (*models.Transaction, error) {
	if entry.Kind == "" {
		return nil, invalidArgument("transaction kind is required")
	}

	tx := &models.Transaction{
		UserID: userID,
		Kind:   entry.Kind,
		Amount: entry.Amount,
		Meta:   copyMeta(entry.Meta),
	}
	if err := s.store.AppendTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return tx, nil
}

func (s *accountService) GetCooldown(ctx context.Context, userID string, name models.CooldownName) (time.Time, bool, error) {
	if !name.Valid() {
		return time.Time{}, false, invalidArgument("unknown cooldown %q", name)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return time.Time{}, false, err
	}
	until, ok := user.CooldownUntil(name)
	return until, ok, nil
}

func (s *accountService) SetCooldown(ctx context.Context, userID string, name models.CooldownName, until, now time.Time) (*models.User, error) {
	if !name.Valid() {
		return nil, invalidArgument("unknown cooldown %q", name)
	}
	if !until.After(now) {
		return nil, invalidArgument("cooldown must end after %s", now.Format(time.RFC3339))
	}

	user, err := s.Apply(ctx, userID, func(*models.User, events.Publisher) (store.Mutation, store.TxFactory, error) {
		return store.Mutation{store.Set{Path: store.CooldownPath(name), Value: until}}, nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set cooldown: %w", err)
	}
	return user, nil
}

// Apply runs plan under the store lock. Events raised by the plan, and one balance change
// event per committed record, are delivered after the commit is durable.
func (s *accountService) Apply(ctx context.Context, userID string, plan Plan) (*models.User, error) {
	tb := events.NewTransactionalBus(s.bus)
	var committed []*models.Transaction

	user, err := s.store.Update(ctx, userID, func(current *models.User) (store.Mutation, store.TxFactory, error) {
		mutation, factory, err := plan(current, tb)
		if err != nil || factory == nil {
			return mutation, factory, err
		}
		return mutation, func(after *models.User) []*models.Transaction {
			committed = factory(after)
			return committed
		}, nil
	})
	if err != nil {
		tb.Discard()
		return nil, translateStoreError(err)
	}

	publishBalanceChanges(tb, user, committed)
	log.WithFields(log.Fields{
		"user":    userID,
		"records": len(committed),
		"events":  tb.Pending(),
	}).Debug("Committed account change")
	tb.Flush()

	return user, nil
}

func (s *accountService) History(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	txs, err := s.store.Transactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	out := make([]*models.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, txs[i])
	}
	return out, nil
}
