package service

import (
	"courtside/events"
	"courtside/models"
)

// publishBalanceChanges raises one balance change event per committed record
func publishBalanceChanges(pub events.Publisher, after *models.User, txs []*models.Transaction) {
	for _, tx := range txs {
		pub.Publish(events.BalanceChangeEvent{
			UserID:        tx.UserID,
			TransactionID: tx.ID,
			Kind:          tx.Kind,
			Amount:        tx.Amount,
			Wallet:        after.Wallet,
			Bank:          after.Bank,
		})
	}
}

// withWalletAfter builds a record stamped with the post-state wallet
func withWalletAfter(after *models.User, entry Entry) *models.Transaction {
	return &models.Transaction{
		Kind:         entry.Kind,
		Amount:       entry.Amount,
		BalanceAfter: models.Int64Ptr(after.Wallet),
		Meta:         copyMeta(entry.Meta),
	}
}

func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
