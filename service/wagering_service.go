package service

import (
	"context"
	"fmt"

	"courtside/events"
	"courtside/models"
	"courtside/rng"
	"courtside/store"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	SevenSymbol     = "7️⃣"
	HorseTracks     = 3
	HorseFinishLine = 10
	RoulettePockets = 36

	// DicePayout is the gross multiple of the stake paid for a correct dice guess
	DicePayout = 5
)

// SlotSymbols is the reel every slot draws from
var SlotSymbols = []string{"🍇", "🍋", "🍒", "⭐", "🔔", SevenSymbol}

// HorseAdvances is the multiset a track advances by on each tick
var HorseAdvances = []int{0, 1, 1, 2}

var coinflipMultiplier = decimal.RequireFromString("1.8")

var coinSides = []models.CoinSide{models.CoinHeads, models.CoinTails}

type wageringService struct {
	accounts AccountService
	rng      rng.Source
	settings Settings
}

// NewWageringService creates a new wagering service
func NewWageringService(accounts AccountService, src rng.Source, settings Settings) WageringService {
	return &wageringService{
		accounts: accounts,
		rng:      src,
		settings: settings,
	}
}

// draw is the game-specific part of a wager: it draws randomness and returns the gross payout
type draw func(stake int64) (payout int64, kind models.TransactionKind, details models.GameDetails)

func (s *wageringService) Bet(ctx context.Context, userID string, stake int64) (*models.GameOutcome, error) {
	return s.play(ctx, userID, models.GameBet, stake, func(stake int64) (int64, models.TransactionKind, models.GameDetails) {
		u := s.rng.Float64()
		details := models.GameDetails{Roll: u}
		if u < 0.5 {
			return 2 * stake, models.TransactionKindBetWin, details
		}
		return 0, models.TransactionKindBetLose, details
	})
}

func (s *wageringService) Coinflip(ctx context.Context, userID string, side models.CoinSide, stake int64) (*models.GameOutcome, error) {
	if side != models.CoinHeads && side != models.CoinTails {
		return nil, invalidArgument("unknown coin side %q", side)
	}

	return s.play(ctx, userID, models.GameCoinflip, stake, func(stake int64) (int64, models.TransactionKind, models.GameDetails) {
		landed := rng.Choice(s.rng, coinSides)
		details := models.GameDetails{Side: landed, Picked: side}
		if landed == side {
			payout := decimal.NewFromInt(stake).Mul(coinflipMultiplier).Floor().IntPart()
			return payout, models.TransactionKindCoinflipWin, details
		}
		return 0, models.TransactionKindCoinflipLose, details
	})
}

func (s *wageringService) Dice(ctx context.Context, userID string, stake int64, guess int) (*models.GameOutcome, error) {
	if guess < 1 || guess > 6 {
		return nil, invalidArgument("dice guess must be between 1 and 6, got %d", guess)
	}

	return s.play(ctx, userID, models.GameDice, stake, func(stake int64) (int64, models.TransactionKind, models.GameDetails) {
		roll := s.rng.IntRange(1, 6)
		details := models.GameDetails{Die: roll, Guess: guess}
		if roll == guess {
			return DicePayout * stake, models.TransactionKindDiceWin, details
		}
		return 0, models.TransactionKindDiceLose, details
	})
}

func (s *wageringService) Slots(ctx context.Context, userID string, stake int64) (*models.GameOutcome, error) {
	return s.play(ctx, userID, models.GameSlots, stake, func(stake int64) (int64, models.TransactionKind, models.GameDetails) {
		reels := make([]string, 3)
		for i := range reels {
			reels[i] = rng.Choice(s.rng, SlotSymbols)
		}
		details := models.GameDetails{Reels: reels}

		distinct := make(map[string]struct{}, len(reels))
		for _, r := range reels {
			distinct[r] = struct{}{}
		}

		switch len(distinct) {
		case 1:
			if reels[0] == SevenSymbol {
				return 10 * stake, models.TransactionKindSlotsJackpot, details
			}
			return 5 * stake, models.TransactionKindSlotsJackpot, details
		case 2:
			return 2 * stake, models.TransactionKindSlotsDouble, details
		default:
			return 0, models.TransactionKindSlotsLose, details
		}
	})
}

func (s *wageringService) Roulette(ctx context.Context, userID string, color models.RouletteColor, stake int64) (*models.GameOutcome, error) {
	switch color {
	case models.RouletteRed, models.RouletteBlack, models.RouletteGreen:
	default:
		return nil, invalidArgument("unknown roulette color %q", color)
	}

	return s.play(ctx, userID, models.GameRoulette, stake, func(stake int64) (int64, models.TransactionKind, models.GameDetails) {
		n := s.rng.IntRange(0, RoulettePockets)
		landed := PocketColor(n)
		details := models.GameDetails{Number: n, Color: landed, Chosen: color}
		switch {
		case landed != color:
			return 0, models.TransactionKindRouletteLose, details
		case color == models.RouletteGreen:
			return 14 * stake, models.TransactionKindRouletteWin, details
		default:
			return 2 * stake, models.TransactionKindRouletteWin, details
		}
	})
}

// PocketColor colors a roulette number: zero is green, odd numbers red and even numbers black
func PocketColor(n int) models.RouletteColor {
	switch {
	case n == 0:
		return models.RouletteGreen
	case n%2 == 1:
		return models.RouletteRed
	default:
		return models.RouletteBlack
	}
}

func (s *wageringService) Horse(ctx context.Context, userID string, pick int, stake int64) (*models.GameOutcome, error) {
	if pick < 0 || pick >= HorseTracks {
		return nil, invalidArgument("horse pick must be between 0 and %d, got %d", HorseTracks-1, pick)
	}

	return s.play(ctx, userID, models.GameHorse, stake, func(stake int64) (int64, models.TransactionKind, models.GameDetails) {
		positions, winners := RunRace(s.rng)
		details := models.GameDetails{Positions: positions, Winners: winners, Pick: pick}
		for _, w := range winners {
			if w == pick {
				return 3 * stake, models.TransactionKindHorseWin, details
			}
		}
		return 0, models.TransactionKindHorseLose, details
	})
}

// RunRace advances every track once per tick, in track order, until one reaches the finish
// line. Every track sharing the leading position wins.
func RunRace(src rng.Source) (positions []int, winners []int) {
	positions = make([]int, HorseTracks)
	lead := 0
	for lead < HorseFinishLine {
		for i := range positions {
			positions[i] += rng.Choice(src, HorseAdvances)
			lead = max(lead, positions[i])
		}
	}
	for i, p := range positions {
		if p == lead {
			winners = append(winners, i)
		}
	}
	return positions, winners
}

// play runs the common wager skeleton: validate the stake, debit it, draw, then credit the
// payout with a win record or log the loss.
func (s *wageringService) play(ctx context.Context, userID string, game models.Game, stake int64, run draw) (*models.GameOutcome, error) {
	if stake <= 0 {
		return nil, invalidAmount("stake must be positive, got %d", stake)
	}
	if stake > s.settings.BetLimit {
		return nil, invalidAmount("stake %d exceeds the limit of %d", stake, s.settings.BetLimit)
	}

	_, err := s.accounts.Apply(ctx, userID, func(current *models.User, _ events.Publisher) (store.Mutation, store.TxFactory, error) {
		if !current.Joined {
			return nil, nil, ErrNotJoined
		}
		if current.Wallet < stake {
			return nil, nil, &InsufficientFundsError{Balance: store.FieldWallet, Available: current.Wallet, Required: stake}
		}
		return store.Mutation{store.Inc{Field: store.FieldWallet, Delta: -stake}}, nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place %s wager: %w", game, err)
	}

	payout, kind, details := run(stake)
	meta := map[string]any{
		models.MetaStake: stake,
		models.MetaGame:  detailsMeta(game, details),
	}

	user, err := s.accounts.Apply(ctx, userID, func(_ *models.User, pub events.Publisher) (store.Mutation, store.TxFactory, error) {
		pub.Publish(events.WagerSettledEvent{UserID: userID, Game: game, Kind: kind, Stake: stake, Payout: payout})

		if payout > 0 {
			return store.Mutation{store.Inc{Field: store.FieldWallet, Delta: payout}}, func(after *models.User) []*models.Transaction {
				return []*models.Transaction{withWalletAfter(after, Entry{Kind: kind, Amount: payout, Meta: meta})}
			}, nil
		}
		return nil, func(*models.User) []*models.Transaction {
			return []*models.Transaction{{Kind: kind, Amount: -stake, Meta: meta}}
		}, nil
	})
	if err != nil {
		log.WithFields(log.Fields{
			"user":  userID,
			"game":  game,
			"stake": stake,
		}).WithError(err).Error("Wager settlement failed after the stake was debited")
		return nil, fmt.Errorf("failed to settle %s wager: %w", game, err)
	}

	return &models.GameOutcome{
		Game:      game,
		Stake:     stake,
		Payout:    payout,
		Delta:     payout - stake,
		NewWallet: user.Wallet,
		Kind:      kind,
		Details:   details,
	}, nil
}

// detailsMeta keeps the drawn values of a game in its log record
func detailsMeta(game models.Game, d models.GameDetails) map[string]any {
	switch game {
	case models.GameBet:
		return map[string]any{"roll": d.Roll}
	case models.GameCoinflip:
		return map[string]any{"side": string(d.Side), "picked": string(d.Picked)}
	case models.GameDice:
		return map[string]any{"die": d.Die, "guess": d.Guess}
	case models.GameSlots:
		return map[string]any{"reels": append([]string(nil), d.Reels...)}
	case models.GameRoulette:
		return map[string]any{"number": d.Number, "color": string(d.Color), "chosen": string(d.Chosen)}
	case models.GameHorse:
		return map[string]any{
			"positions": append([]int(nil), d.Positions...),
			"winners":   append([]int(nil), d.Winners...),
			"pick":      d.Pick,
		}
	}
	return nil
}
