package economy

import (
	"context"

	"courtside/bot/common"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)

	result, err := f.income.ClaimStartingStake(ctx, userID)
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderJoin(userID, result), false)
}

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)

	user, err := f.accounts.Get(ctx, userID)
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderBalance(user), false)
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)

	result, err := f.income.ClaimDaily(ctx, userID, f.now())
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderDaily(userID, result), false)
}

func (f *Feature) handleWork(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)

	result, err := f.income.ClaimWork(ctx, userID, f.now())
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderWork(userID, result), false)
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	result, err := f.income.Deposit(ctx, userID, opts.Int("amount", 0))
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderDeposit(result), false)
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	result, err := f.income.Withdraw(ctx, userID, opts.Int("amount", 0))
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderWithdraw(result), false)
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.InvokerID(i)
	opts := common.NewOptions(i.ApplicationCommandData().Options)

	limit := int(min(max(opts.Int("limit", DefaultHistoryLimit), 1), MaxHistoryLimit))
	txs, err := f.accounts.History(ctx, userID, limit)
	if err != nil {
		common.RespondWithError(s, i, err)
		return
	}
	common.Respond(s, i, RenderHistory(txs), true)
}
