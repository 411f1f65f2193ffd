package store

import (
	"fmt"
	"strings"
	"time"

	"courtside/models"
)

// Field paths accepted by mutations
const (
	FieldWallet    = "wallet"
	FieldBank      = "bank"
	FieldJoined    = "joined"
	cooldownPrefix = "cooldowns."
)

// CooldownPath returns the dotted path of a named cooldown
func CooldownPath(name models.CooldownName) string {
	return cooldownPrefix + string(name)
}

// Op is one step of a mutation. Implementations are Set and Inc.
type Op interface {
	applyTo(u *models.User) error
}

// Set assigns Value to the field at Path. Path may address a cooldown as cooldowns.<name>.
type Set struct {
	Path  string
	Value any
}

// Inc adds Delta to an integer field
type Inc struct {
	Field string
	Delta int64
}

// Mutation is an ordered composition of ops applied to a single user record
type Mutation []Op

func (s Set) applyTo(u *models.User) error {
	switch {
	case s.Path == FieldWallet || s.Path == FieldBank:
		v, ok := s.Value.(int64)
		if !ok {
			return fmt.Errorf("set %s: expected int64, got %T", s.Path, s.Value)
		}
		if s.Path == FieldWallet {
			u.Wallet = v
		} else {
			u.Bank = v
		}
	case s.Path == FieldJoined:
		v, ok := s.Value.(bool)
		if !ok {
			return fmt.Errorf("set %s: expected bool, got %T", s.Path, s.Value)
		}
		u.Joined = v
	case strings.HasPrefix(s.Path, cooldownPrefix):
		name := models.CooldownName(strings.TrimPrefix(s.Path, cooldownPrefix))
		if !name.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownField, s.Path)
		}
		v, ok := s.Value.(time.Time)
		if !ok {
			return fmt.Errorf("set %s: expected time.Time, got %T", s.Path, s.Value)
		}
		if u.Cooldowns == nil {
			u.Cooldowns = make(map[models.CooldownName]time.Time)
		}
		u.Cooldowns[name] = v.UTC()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, s.Path)
	}
	return nil
}

func (i Inc) applyTo(u *models.User) error {
	switch i.Field {
	case FieldWallet:
		u.Wallet += i.Delta
	case FieldBank:
		u.Bank += i.Delta
	default:
		return fmt.Errorf("%w: inc %s", ErrUnknownField, i.Field)
	}
	return nil
}

// applyMutation applies every op to u in order, then checks the balance invariants
func applyMutation(u *models.User, m Mutation) error {
	before := u.Clone()
	for _, op := range m {
		if err := op.applyTo(u); err != nil {
			return err
		}
	}
	if u.Wallet < 0 {
		return &BalanceError{Field: FieldWallet, Balance: before.Wallet, Result: u.Wallet}
	}
	if u.Bank < 0 {
		return &BalanceError{Field: FieldBank, Balance: before.Bank, Result: u.Bank}
	}
	return nil
}
