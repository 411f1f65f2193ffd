package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courtside/models"

	log "github.com/sirupsen/logrus"
)

// TxFactory builds the transaction records of a commit from the post-mutation user
type TxFactory func(after *models.User) []*models.Transaction

// Plan computes a mutation from the committed state of a user. It runs with the store
// mutex held, so its checks and the resulting write are one atomic step. Returning an
// empty mutation and a nil factory makes the call a no-op.
type Plan func(current *models.User) (Mutation, TxFactory, error)

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is the process-wide user and transaction log store. Every operation runs under a
// single mutex: the in-memory change, the persister commit and the log append complete
// before the mutex is released.
type Store struct {
	mu        sync.Mutex
	persister Persister
	doc       *Document
	stale     bool
	recovered error
	now       func() time.Time
}

// Open loads the document from the persister. A document that cannot be decoded is
// replaced by an empty one; the decode error is kept for Recovered.
func Open(ctx context.Context, persister Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persister: persister,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Recovered returns the decode error that caused Open to start from an empty document, if any
func (s *Store) Recovered() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovered
}

func (s *Store) reload(ctx context.Context) error {
	doc, err := s.persister.Load(ctx)
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &decodeErr):
		s.recovered = err
		doc = NewDocument()
	case err != nil:
		return &PersistenceError{Op: "load", Err: err}
	}
	doc.normalize()
	s.doc = doc
	s.stale = false
	return nil
}

// acquire takes the mutex unless ctx is already done. Cancellation is only observed here;
// once the mutex is held the operation runs to completion.
func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.stale {
		if err := s.reload(context.WithoutCancel(ctx)); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	return nil
}

// userLocked returns the live record for id, creating it in memory when absent
func (s *Store) userLocked(id string) (*models.User, bool) {
	if u, ok := s.doc.Users[id]; ok {
		return u, false
	}
	u := models.NewUser(id, s.now())
	s.doc.Users[id] = u
	return u, true
}

// commitLocked persists the current document. On failure the caller's undo runs and the
// store reloads from the persister on the next call.
func (s *Store) commitLocked(ctx context.Context, change Change, undo func()) error {
	if err := s.persister.Commit(ctx, s.doc, change); err != nil {
		undo()
		s.stale = true
		return &PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// Load returns the user record, creating and persisting an empty one if absent
func (s *Store) Load(ctx context.Context, id string) (*models.User, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	u, created := s.userLocked(id)
	if created {
		err := s.commitLocked(context.WithoutCancel(ctx), Change{User: u.Clone()}, func() {
			delete(s.doc.Users, id)
		})
		if err != nil {
			return nil, err
		}
		log.WithField("user", id).Debug("Created user record")
	}
	return u.Clone(), nil
}

// Apply commits a mutation without a log record and returns the post-state
func (s *Store) Apply(ctx context.Context, id string, m Mutation) (*models.User, error) {
	return s.ApplyWithLog(ctx, id, m, nil)
}

// ApplyWithLog commits a mutation together with the records built by factory from the
// post-state. Observers see the records if and only if the balance change is durable.
func (s *Store) ApplyWithLog(ctx context.Context, id string, m Mutation, factory TxFactory) (*models.User, error) {
	return s.Update(ctx, id, func(*models.User) (Mutation, TxFactory, error) {
		return m, factory, nil
	})
}

// Update runs plan against the committed state of the user and commits its result
func (s *Store) Update(ctx context.Context, id string, plan Plan) (*models.User, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	ctx = context.WithoutCancel(ctx)

	current, created := s.userLocked(id)
	dropCreated := func() {
		if created {
			delete(s.doc.Users, id)
		}
	}

	mutation, factory, err := plan(current.Clone())
	if err != nil {
		dropCreated()
		return nil, err
	}

	if len(mutation) == 0 && factory == nil {
		if created {
			if err := s.commitLocked(ctx, Change{User: current.Clone()}, dropCreated); err != nil {
				return nil, err
			}
		}
		return current.Clone(), nil
	}

	now := s.now()
	next := current.Clone()
	if err := applyMutation(next, mutation); err != nil {
		dropCreated()
		return nil, err
	}
	if len(mutation) > 0 {
		next.UpdatedAt = now
	}

	var txs []*models.Transaction
	if factory != nil {
		txs = factory(next.Clone())
	}
	for _, tx := range txs {
		s.stamp(tx, id, now)
	}

	prev := s.doc.Users[id]
	logLen := len(s.doc.Transactions)
	s.doc.Users[id] = next
	s.doc.Transactions = append(s.doc.Transactions, txs...)

	err = s.commitLocked(ctx, Change{User: next.Clone(), Transactions: cloneTxs(txs)}, func() {
		if created {
			delete(s.doc.Users, id)
		} else {
			s.doc.Users[id] = prev
		}
		s.truncateLog(logLen)
	})
	if err != nil {
		return nil, err
	}

	return next.Clone(), nil
}

// AppendTx appends a record that carries no balance change of its own
func (s *Store) AppendTx(ctx context.Context, tx *models.Transaction) error {
	if tx == nil || tx.UserID == "" {
		return fmt.Errorf("transaction requires a user id")
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	record := tx.Clone()
	s.stamp(record, record.UserID, s.now())
	logLen := len(s.doc.Transactions)
	s.doc.Transactions = append(s.doc.Transactions, record)

	err := s.commitLocked(context.WithoutCancel(ctx), Change{Transactions: cloneTxs([]*models.Transaction{record})}, func() {
		s.truncateLog(logLen)
	})
	if err != nil {
		return err
	}

	tx.ID = record.ID
	tx.CreatedAt = record.CreatedAt
	return nil
}

// Snapshot returns a deep copy of the whole document
func (s *Store) Snapshot() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Transactions returns the records of one user in commit order
func (s *Store) Transactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var out []*models.Transaction
	for _, tx := range s.doc.Transactions {
		if tx.UserID == userID {
			out = append(out, tx.Clone())
		}
	}
	return out, nil
}

func (s *Store) stamp(tx *models.Transaction, userID string, now time.Time) {
	if tx.UserID == "" {
		tx.UserID = userID
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	if tx.ID == "" {
		tx.ID = NewID(tx.CreatedAt)
	}
}

func (s *Store) truncateLog(n int) {
	for i := n; i < len(s.doc.Transactions); i++ {
		s.doc.Transactions[i] = nil
	}
	s.doc.Transactions = s.doc.Transactions[:n]
}

func cloneTxs(txs []*models.Transaction) []*models.Transaction {
	out := make([]*models.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx.Clone()
	}
	return out
}
