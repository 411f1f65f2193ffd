package service

import (
	"errors"
	"fmt"
	"time"

	"courtside/models"
	"courtside/store"
)

var (
	// ErrNotJoined is returned when an income or wagering operation runs before the starting stake was claimed
	ErrNotJoined = errors.New("user has not joined")

	// ErrCooldown is matched by CooldownError
	ErrCooldown = errors.New("action is on cooldown")

	// ErrInvalidAmount is returned for non-positive amounts and stakes above the bet limit
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is matched by InsufficientFundsError
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidArgument is returned for out-of-range game arguments
	ErrInvalidArgument = errors.New("invalid argument")
)

// CooldownError reports when a gated action is permitted again
type CooldownError struct {
	Action models.CooldownName
	Until  time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown until %s", e.Action, e.Until.Format(time.RFC3339))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}

// InsufficientFundsError reports the balance that could not cover an amount
type InsufficientFundsError struct {
	Balance   string // "wallet" or "bank"
	Available int64
	Required  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s: have %d, need %d", e.Balance, e.Available, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

func invalidAmount(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAmount, fmt.Sprintf(format, args...))
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// translateStoreError maps store rejections onto the error kinds callers handle
func translateStoreError(err error) error {
	var balanceErr *store.BalanceError
	if errors.As(err, &balanceErr) {
		return &InsufficientFundsError{
			Balance:   balanceErr.Field,
			Available: balanceErr.Balance,
			Required:  balanceErr.Balance - balanceErr.Result,
		}
	}
	return err
}
