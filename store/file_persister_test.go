package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"courtside/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersister_MissingFileIsEmpty(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "data.json"))

	doc, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Transactions)
}

func TestFilePersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	p := NewFilePersister(path)

	s, err := Open(ctx, p, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)

	until := testNow.Add(30 * time.Minute)
	_, err = s.ApplyWithLog(ctx, "u1",
		Mutation{
			Inc{Field: FieldWallet, Delta: 250},
			Set{Path: CooldownPath(models.CooldownWork), Value: until},
		},
		func(u *models.User) []*models.Transaction {
			return []*models.Transaction{{
				Kind:         models.TransactionKindWork,
				Amount:       250,
				BalanceAfter: models.Int64Ptr(u.Wallet),
				Meta:         map[string]any{models.MetaJob: "Cleaner"},
			}}
		})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"users"`)
	assert.Contains(t, string(raw), `"transactions"`)
	assert.Contains(t, string(raw), testNow.Add(30*time.Minute).Format(time.RFC3339))

	reopened, err := Open(ctx, NewFilePersister(path))
	require.NoError(t, err)
	assert.NoError(t, reopened.Recovered())

	snap := reopened.Snapshot()
	require.Contains(t, snap.Users, "u1")
	u := snap.Users["u1"]
	assert.Equal(t, int64(250), u.Wallet)
	got, ok := u.CooldownUntil(models.CooldownWork)
	require.True(t, ok)
	assert.True(t, got.Equal(until))

	require.Len(t, snap.Transactions, 1)
	tx := snap.Transactions[0]
	assert.Equal(t, models.TransactionKindWork, tx.Kind)
	assert.Equal(t, "Cleaner", tx.Meta[models.MetaJob])
	require.NotNil(t, tx.BalanceAfter)
	assert.Equal(t, int64(250), *tx.BalanceAfter)

	// no temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFilePersister_CorruptDocumentStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFilePersister(path).Load(ctx)
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)

	s, err := Open(ctx, NewFilePersister(path))
	require.NoError(t, err)
	assert.Error(t, s.Recovered())
	assert.Empty(t, s.Snapshot().Users)

	// the first commit replaces the corrupt document
	_, err = s.Apply(ctx, "u1", Mutation{Inc{Field: FieldWallet, Delta: 1}})
	require.NoError(t, err)

	doc, err := NewFilePersister(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Users["u1"].Wallet)
}
