package models

import (
	"time"
)

// CooldownName identifies a cooldown-gated income action
type CooldownName string

const (
	CooldownDaily CooldownName = "daily"
	CooldownWork  CooldownName = "work"
)

// Valid reports whether the name belongs to the fixed cooldown set
func (c CooldownName) Valid() bool {
	switch c {
	case CooldownDaily, CooldownWork:
		return true
	}
	return false
}

// User represents a player account with a liquid wallet and a bank balance
type User struct {
	ID        string                     `json:"id"`
	Wallet    int64                      `json:"wallet"`
	Bank      int64                      `json:"bank"`
	Joined    bool                       `json:"joined"`
	Cooldowns map[CooldownName]time.Time `json:"cooldowns"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// NewUser returns a zeroed, not yet joined record
func NewUser(id string, now time.Time) *User {
	return &User{
		ID:        id,
		Cooldowns: make(map[CooldownName]time.Time),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers never share the cooldown map with the store
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Cooldowns = make(map[CooldownName]time.Time, len(u.Cooldowns))
	for k, v := range u.Cooldowns {
		c.Cooldowns[k] = v
	}
	return &c
}

// Total returns wallet plus bank
func (u *User) Total() int64 {
	return u.Wallet + u.Bank
}

// CooldownUntil returns the instant the named action is permitted again, if any
func (u *User) CooldownUntil(name CooldownName) (time.Time, bool) {
	until, ok := u.Cooldowns[name]
	return until, ok
}

// CooldownActive reports whether the named action is still blocked at now
func (u *User) CooldownActive(name CooldownName, now time.Time) bool {
	until, ok := u.Cooldowns[name]
	return ok && until.After(now)
}
