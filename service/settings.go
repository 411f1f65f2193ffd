package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultStartingChips = 1000
	DefaultBetLimit      = 20000
	DefaultDailyCooldown = 20 * time.Hour
	DefaultWorkCooldown  = 30 * time.Minute
)

// DefaultFeeRate is the deposit fee rate
var DefaultFeeRate = decimal.RequireFromString("0.02")

// Settings are read once at construction and stay fixed for the life of a service
type Settings struct {
	StartingChips int64
	DailyCooldown time.Duration
	WorkCooldown  time.Duration
	FeeRate       decimal.Decimal
	BetLimit      int64
}

// DefaultSettings returns the economy defaults
func DefaultSettings() Settings {
	return Settings{
		StartingChips: DefaultStartingChips,
		DailyCooldown: DefaultDailyCooldown,
		WorkCooldown:  DefaultWorkCooldown,
		FeeRate:       DefaultFeeRate,
		BetLimit:      DefaultBetLimit,
	}
}

// Validate checks the settings ranges
func (s Settings) Validate() error {
	if s.StartingChips < 0 {
		return fmt.Errorf("starting chips must not be negative, got %d", s.StartingChips)
	}
	if s.DailyCooldown <= 0 || s.WorkCooldown <= 0 {
		return fmt.Errorf("cooldowns must be positive")
	}
	if s.FeeRate.IsNegative() || s.FeeRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("fee rate must be within [0, 1], got %s", s.FeeRate)
	}
	if s.BetLimit <= 0 {
		return fmt.Errorf("bet limit must be positive, got %d", s.BetLimit)
	}
	return nil
}

// Fee returns the deposit fee for amount, rounded up
func (s Settings) Fee(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(s.FeeRate).Ceil().IntPart()
}
