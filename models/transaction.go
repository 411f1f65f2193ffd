package models

import (
	"time"
)

// TransactionKind represents the type of monetary movement
type TransactionKind string

const (
	TransactionKindJoin         TransactionKind = "join"
	TransactionKindDaily        TransactionKind = "daily"
	TransactionKindWork         TransactionKind = "work"
	TransactionKindDeposit      TransactionKind = "deposit"
	TransactionKindWithdraw     TransactionKind = "withdraw"
	TransactionKindBetWin       TransactionKind = "bet_win"
	TransactionKindBetLose      TransactionKind = "bet_lose"
	TransactionKindCoinflipWin  TransactionKind = "coinflip_win"
	TransactionKindCoinflipLose TransactionKind = "coinflip_lose"
	TransactionKindDiceWin      TransactionKind = "dice_win"
	TransactionKindDiceLose     TransactionKind = "dice_lose"
	TransactionKindSlotsJackpot TransactionKind = "slots_jackpot"
	TransactionKindSlotsDouble  TransactionKind = "slots_double"
	TransactionKindSlotsLose    TransactionKind = "slots_lose"
	TransactionKindRouletteWin  TransactionKind = "roulette_win"
	TransactionKindRouletteLose TransactionKind = "roulette_lose"
	TransactionKindHorseWin     TransactionKind = "horse_win"
	TransactionKindHorseLose    TransactionKind = "horse_lose"
	TransactionKindMambaTax     TransactionKind = "mamba_tax"
)

// Metadata keys written by the engines
const (
	MetaStake     = "stake"
	MetaFee       = "fee"
	MetaJob       = "job"
	MetaBankAfter = "bank_after"
	MetaGame      = "game"
)

// IsLoss reports whether the kind records a lost wager
func (k TransactionKind) IsLoss() bool {
	switch k {
	case TransactionKindBetLose, TransactionKindCoinflipLose, TransactionKindDiceLose,
		TransactionKindSlotsLose, TransactionKindRouletteLose, TransactionKindHorseLose:
		return true
	}
	return false
}

// IsWin reports whether the kind records a paid wager
func (k TransactionKind) IsWin() bool {
	switch k {
	case TransactionKindBetWin, TransactionKindCoinflipWin, TransactionKindDiceWin,
		TransactionKindSlotsJackpot, TransactionKindSlotsDouble, TransactionKindRouletteWin,
		TransactionKindHorseWin:
		return true
	}
	return false
}

// Transaction is an append-only audit entry describing one monetary movement
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Kind         TransactionKind `json:"kind"`
	Amount       int64           `json:"amount"`
	BalanceAfter *int64          `json:"balance_after,omitempty"`
	Meta         map[string]any  `json:"meta,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Clone returns a copy with its own meta map and balance pointer
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.BalanceAfter != nil {
		v := *t.BalanceAfter
		c.BalanceAfter = &v
	}
	if t.Meta != nil {
		c.Meta = make(map[string]any, len(t.Meta))
		for k, v := range t.Meta {
			c.Meta[k] = v
		}
	}
	return &c
}

// MetaInt reads an integer metadata value. JSON round trips turn integers into float64,
// so both representations are accepted.
func (t *Transaction) MetaInt(key string) int64 {
	switch v := t.Meta[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// NetChange returns the effect of the recorded movement on wallet+bank.
// Win records carry the gross payout and the stake that was debited before the draw;
// deposits move chips between balances and only the fee leaves the account.
func (t *Transaction) NetChange() int64 {
	switch {
	case t.Kind == TransactionKindDeposit:
		return -t.MetaInt(MetaFee)
	case t.Kind == TransactionKindWithdraw:
		return 0
	case t.Kind.IsWin():
		return t.Amount - t.MetaInt(MetaStake)
	default:
		return t.Amount
	}
}

// Int64Ptr is a small helper for optional balance fields
func Int64Ptr(v int64) *int64 {
	return &v
}
