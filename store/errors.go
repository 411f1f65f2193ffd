package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a mutation addresses a field outside the user schema
	ErrUnknownField = errors.New("unknown field")

	// ErrNegativeBalance is matched by BalanceError
	ErrNegativeBalance = errors.New("balance cannot be negative")
)

// BalanceError reports a mutation that would have left a balance below zero.
// No state is changed when it is returned.
type BalanceError struct {
	Field   string
	Balance int64 // committed value before the mutation
	Result  int64 // value the mutation would have produced
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s would become %d (current %d)", e.Field, e.Result, e.Balance)
}

func (e *BalanceError) Is(target error) bool {
	return target == ErrNegativeBalance
}

// PersistenceError wraps a failure of the underlying persister
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// DecodeError marks a document that exists but cannot be parsed
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
