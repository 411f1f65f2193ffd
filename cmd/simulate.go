package cmd

import (
	"context"
	"fmt"
	"io"

	"courtside/models"
	"courtside/rng"
	"courtside/service"
	"courtside/store"

	log "github.com/sirupsen/logrus"
)

// SimulationOptions control a dry run of every game against the wagering engine
type SimulationOptions struct {
	Rounds int
	Stake  int64
	Seed   uint64
}

// GameReport aggregates the rounds played of one game
type GameReport struct {
	Game   models.Game
	Rounds int
	Wins   int
	Staked int64
	Paid   int64
}

// WinRate is the share of rounds that paid out
func (r GameReport) WinRate() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Rounds)
}

// ReturnToPlayer is the gross payout per chip staked
func (r GameReport) ReturnToPlayer() float64 {
	if r.Staked == 0 {
		return 0
	}
	return float64(r.Paid) / float64(r.Staked)
}

// discardPersister keeps nothing; simulated play never touches real balances
type discardPersister struct{}

func (discardPersister) Load(context.Context) (*store.Document, error) {
	return store.NewDocument(), nil
}

func (discardPersister) Commit(context.Context, *store.Document, store.Change) error {
	return nil
}

type simulatedGame struct {
	game models.Game
	play func(ctx context.Context, w service.WageringService, userID string, round int, stake int64) (*models.GameOutcome, error)
}

var simulatedGames = []simulatedGame{
	{models.GameBet, func(ctx context.Context, w service.WageringService, id string, _ int, stake int64) (*models.GameOutcome, error) {
		return w.Bet(ctx, id, stake)
	}},
	{models.GameCoinflip, func(ctx context.Context, w service.WageringService, id string, _ int, stake int64) (*models.GameOutcome, error) {
		return w.Coinflip(ctx, id, models.CoinHeads, stake)
	}},
	{models.GameDice, func(ctx context.Context, w service.WageringService, id string, round int, stake int64) (*models.GameOutcome, error) {
		return w.Dice(ctx, id, stake, round%6+1)
	}},
	{models.GameSlots, func(ctx context.Context, w service.WageringService, id string, _ int, stake int64) (*models.GameOutcome, error) {
		return w.Slots(ctx, id, stake)
	}},
	{models.GameRoulette, func(ctx context.Context, w service.WageringService, id string, _ int, stake int64) (*models.GameOutcome, error) {
		return w.Roulette(ctx, id, models.RouletteRed, stake)
	}},
	{models.GameHorse, func(ctx context.Context, w service.WageringService, id string, round int, stake int64) (*models.GameOutcome, error) {
		return w.Horse(ctx, id, round%service.HorseTracks, stake)
	}},
}

// Simulate plays opts.Rounds rounds of every game with a seeded source. Each game gets its own
// player funded to survive a losing streak of every round.
func Simulate(ctx context.Context, opts SimulationOptions) ([]GameReport, error) {
	if opts.Rounds <= 0 || opts.Stake <= 0 {
		return nil, fmt.Errorf("rounds and stake must be positive")
	}

	settings := service.DefaultSettings()
	settings.StartingChips = opts.Stake * int64(opts.Rounds)
	settings.BetLimit = max(settings.BetLimit, opts.Stake)

	st, err := store.Open(ctx, discardPersister{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	accounts := service.NewAccountService(st, settings, nil)
	wagers := service.NewWageringService(accounts, rng.New(opts.Seed), settings)

	reports := make([]GameReport, 0, len(simulatedGames))
	for _, g := range simulatedGames {
		userID := "simulation-" + string(g.game)
		if _, err := accounts.EnsureJoined(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to fund %s: %w", userID, err)
		}

		report := GameReport{Game: g.game}
		for round := 0; round < opts.Rounds; round++ {
			outcome, err := g.play(ctx, wagers, userID, round, opts.Stake)
			if err != nil {
				return nil, fmt.Errorf("failed to play %s round %d: %w", g.game, round, err)
			}
			report.Rounds++
			report.Staked += outcome.Stake
			report.Paid += outcome.Payout
			if outcome.Won() {
				report.Wins++
			}
		}

		log.WithFields(log.Fields{
			"game":   g.game,
			"rounds": report.Rounds,
			"rtp":    report.ReturnToPlayer(),
		}).Debug("Simulated game")
		reports = append(reports, report)
	}
	return reports, nil
}

// WriteReports prints one line per game
func WriteReports(w io.Writer, reports []GameReport) {
	fmt.Fprintf(w, "%-10s %8s %8s %9s %8s\n", "game", "rounds", "wins", "win rate", "RTP")
	for _, r := range reports {
		fmt.Fprintf(w, "%-10s %8d %8d %8.2f%% %7.2f%%\n",
			r.Game, r.Rounds, r.Wins, r.WinRate()*100, r.ReturnToPlayer()*100)
	}
}
