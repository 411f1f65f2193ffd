package casino

import (
	"context"

	"courtside/bot/common"
	"courtside/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleGame(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)
	data := i.ApplicationCommandData()
	opts := common.NewOptions(data.Options)
	stake := opts.Int("amount", 0)

	var (
		outcome *models.GameOutcome
		err     error
	)
	switch data.Name {
	case "bet":
		outcome, err = f.wagers.Bet(ctx, userID, stake)
	case "coinflip":
		var side models.CoinSide
		if side, err = common.ParseSide(opts.String("side")); err == nil {
			outcome, err = f.wagers.Coinflip(ctx, userID, side, stake)
		}
	case "dice":
		outcome, err = f.wagers.Dice(ctx, userID, stake, int(opts.Int("guess", 0)))
	case "slots":
		outcome, err = f.wagers.Slots(ctx, userID, stake)
	case "roulette":
		var color models.RouletteColor
		if color, err = common.ParseColor(opts.String("color")); err == nil {
			outcome, err = f.wagers.Roulette(ctx, userID, color, stake)
		}
	case "horse":
		var pick int
		if pick, err = common.ParsePick(opts.String("pick")); err == nil {
			outcome, err = f.wagers.Horse(ctx, userID, pick, stake)
		}
	default:
		return
	}
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}

	log.WithFields(log.Fields{
		"user":   userID,
		"game":   outcome.Game,
		"stake":  outcome.Stake,
		"payout": outcome.Payout,
	}).Debug("Wager settled")

	common.Respond(s, i, RenderOutcome(userID, outcome), false)
}
