package repository

import (
	"context"
	"fmt"

	"courtside/database"
	"courtside/models"
)

// TransactionRepository appends to and reads the transaction log
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Insert appends one record
func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	var meta []byte
	if tx.Meta != nil {
		var err error
		meta, err = json.Marshal(tx.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
	}

	query := `
		INSERT INTO transactions (id, user_id, kind, amount, balance_after, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		string(tx.Kind),
		tx.Amount,
		tx.BalanceAfter,
		meta,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s for user %s: %w", tx.ID, tx.UserID, err)
	}
	return nil
}

// All returns the whole log in commit order
func (r *TransactionRepository) All(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, kind, amount, balance_after, meta, created_at
		FROM transactions
		ORDER BY seq
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var kind string
		var meta []byte
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&kind,
			&tx.Amount,
			&tx.BalanceAfter,
			&meta,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Kind = models.TransactionKind(kind)
		tx.CreatedAt = tx.CreatedAt.UTC()
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &tx.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode metadata of transaction %s: %w", tx.ID, err)
			}
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}
