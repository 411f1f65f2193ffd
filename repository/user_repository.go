package repository

import (
	"context"
	"fmt"
	"time"

	"courtside/database"
	"courtside/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// queryable is satisfied by both the pool and a transaction
type queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository reads and writes user rows
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetAll returns every user
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, wallet, bank, joined, cooldowns, created_at, updated_at
		FROM users
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		var cooldowns []byte
		if err := rows.Scan(
			&user.ID,
			&user.Wallet,
			&user.Bank,
			&user.Joined,
			&cooldowns,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user.Cooldowns = make(map[models.CooldownName]time.Time)
		if len(cooldowns) > 0 {
			if err := json.Unmarshal(cooldowns, &user.Cooldowns); err != nil {
				return nil, fmt.Errorf("failed to decode cooldowns of user %s: %w", user.ID, err)
			}
		}
		user.CreatedAt = user.CreatedAt.UTC()
		user.UpdatedAt = user.UpdatedAt.UTC()
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Upsert writes the full user row
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	cooldowns, err := json.Marshal(user.Cooldowns)
	if err != nil {
		return fmt.Errorf("failed to marshal cooldowns: %w", err)
	}

	query := `
		INSERT INTO users (id, wallet, bank, joined, cooldowns, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			wallet = EXCLUDED.wallet,
			bank = EXCLUDED.bank,
			joined = EXCLUDED.joined,
			cooldowns = EXCLUDED.cooldowns,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.q.Exec(ctx, query,
		user.ID,
		user.Wallet,
		user.Bank,
		user.Joined,
		cooldowns,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return nil
}
