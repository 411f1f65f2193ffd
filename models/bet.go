package models

import "time"

// Game names a wagering game
type Game string

const (
	GameBet      Game = "bet"
	GameCoinflip Game = "coinflip"
	GameDice     Game = "dice"
	GameSlots    Game = "slots"
	GameRoulette Game = "roulette"
	GameHorse    Game = "horse"
)

// CoinSide is a coinflip face
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// RouletteColor is a roulette pocket color
type RouletteColor string

const (
	RouletteRed   RouletteColor = "red"
	RouletteBlack RouletteColor = "black"
	RouletteGreen RouletteColor = "green"
)

// GameOutcome represents the outcome of a wager (returned to the user)
type GameOutcome struct {
	Game      Game
	Stake     int64
	Payout    int64 // gross credit, 0 on loss
	Delta     int64 // net wallet change: Payout - Stake
	NewWallet int64
	Kind      TransactionKind
	Details   GameDetails
}

// Won reports whether the wager paid out
func (o *GameOutcome) Won() bool {
	return o.Payout > 0
}

// GameDetails carries the drawn values for display. Only the fields of the played game are set.
type GameDetails struct {
	Roll      float64
	Side      CoinSide
	Picked    CoinSide
	Die       int
	Guess     int
	Reels     []string
	Number    int
	Color     RouletteColor
	Chosen    RouletteColor
	Positions []int
	Winners   []int
	Pick      int
}

// JoinResult represents the outcome of claiming the starting stake
type JoinResult struct {
	Already bool
	Granted int64
	User    *User
}

// RewardResult represents a daily or work payout
type RewardResult struct {
	Amount        int64
	Job           string
	NextAvailable time.Time
	User          *User
}

// BankResult represents a deposit or withdrawal
type BankResult struct {
	Amount      int64 // requested amount
	Transferred int64 // amount that reached the destination balance
	Fee         int64
	User        *User
}
