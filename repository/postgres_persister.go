package repository

import (
	"context"
	"fmt"

	"courtside/database"
	"courtside/store"

	"github.com/jackc/pgx/v5"
)

// PostgresPersister keeps the store document in the users and transactions tables.
// Each commit writes only the changed user row and the new records, in one transaction.
type PostgresPersister struct {
	db *database.DB
}

// NewPostgresPersister creates a persister over a migrated database
func NewPostgresPersister(db *database.DB) *PostgresPersister {
	return &PostgresPersister{db: db}
}

func (p *PostgresPersister) Load(ctx context.Context) (*store.Document, error) {
	users, err := NewUserRepository(p.db).GetAll(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := NewTransactionRepository(p.db).All(ctx)
	if err != nil {
		return nil, err
	}

	doc := store.NewDocument()
	for _, u := range users {
		doc.Users[u.ID] = u
	}
	doc.Transactions = txs
	return doc, nil
}

func (p *PostgresPersister) Commit(ctx context.Context, _ *store.Document, change store.Change) error {
	return p.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if change.User != nil {
			if err := newUserRepositoryWithTx(tx).Upsert(ctx, change.User); err != nil {
				return err
			}
		}

		txRepo := newTransactionRepositoryWithTx(tx)
		for _, record := range change.Transactions {
			if err := txRepo.Insert(ctx, record); err != nil {
				return fmt.Errorf("failed to append log: %w", err)
			}
		}
		return nil
	})
}
