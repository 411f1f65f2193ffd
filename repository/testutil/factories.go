package testutil

import (
	"time"

	"courtside/models"
)

// CreateTestUser creates a joined test user holding wallet and bank
func CreateTestUser(id string, wallet, bank int64) *models.User {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	user := models.NewUser(id, now)
	user.Wallet = wallet
	user.Bank = bank
	user.Joined = true
	return user
}

// CreateTestTransaction creates a log record stamped with the post-state wallet
func CreateTestTransaction(id, userID string, kind models.TransactionKind, amount, walletAfter int64) *models.Transaction {
	return &models.Transaction{
		ID:           id,
		UserID:       userID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: models.Int64Ptr(walletAfter),
		Meta:         map[string]any{"test": true},
		CreatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
