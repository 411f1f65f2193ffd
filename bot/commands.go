package bot

import (
	"fmt"

	"courtside/bot/features/economy"
	"courtside/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func amountOption(description string) *discordgo.ApplicationCommandOption {
	minAmount := 1.0
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minAmount,
	}
}

func stakeOption() *discordgo.ApplicationCommandOption {
	return amountOption("下注籌碼")
}

// Commands returns every slash command the bot serves
func Commands() []*discordgo.ApplicationCommand {
	minGuess, maxGuess := 1.0, 6.0
	minLimit, maxLimit := 1.0, float64(economy.MaxHistoryLimit)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "join",
			Description: "加入賭場並領取起始籌碼",
		},
		{
			Name:        "balance",
			Description: "查看錢包與銀行餘額",
		},
		{
			Name:        "daily",
			Description: "領取每日獎勵",
		},
		{
			Name:        "work",
			Description: "打工賺取籌碼",
		},
		{
			Name:        "deposit",
			Description: "把籌碼存進銀行（收取手續費）",
			Options:     []*discordgo.ApplicationCommandOption{amountOption("存入的籌碼")},
		},
		{
			Name:        "withdraw",
			Description: "從銀行提領籌碼",
			Options:     []*discordgo.ApplicationCommandOption{amountOption("提領的籌碼")},
		},
		{
			Name:        "history",
			Description: "查看最近的交易紀錄",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "顯示筆數",
					MinValue:    &minLimit,
					MaxValue:    maxLimit,
				},
			},
		},
		{
			Name:        "bet",
			Description: "押注：兩倍或全輸",
			Options:     []*discordgo.ApplicationCommandOption{stakeOption()},
		},
		{
			Name:        "coinflip",
			Description: "擲硬幣猜正反",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "heads/tails 或 正/反",
					Required:    true,
				},
				stakeOption(),
			},
		},
		{
			Name:        "dice",
			Description: fmt.Sprintf("猜骰子點數，猜中可得 %d 倍下注", service.DicePayout),
			Options: []*discordgo.ApplicationCommandOption{
				stakeOption(),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "guess",
					Description: "1 到 6",
					Required:    true,
					MinValue:    &minGuess,
					MaxValue:    maxGuess,
				},
			},
		},
		{
			Name:        "slots",
			Description: "拉霸機",
			Options:     []*discordgo.ApplicationCommandOption{stakeOption()},
		},
		{
			Name:        "roulette",
			Description: "輪盤押顏色",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "color",
					Description: "red/black/green 或 紅/黑/綠",
					Required:    true,
				},
				stakeOption(),
			},
		},
		{
			Name:        "horse",
			Description: fmt.Sprintf("賽馬：%d 匹馬先到終點者勝", service.HorseTracks),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "pick",
					Description: "湖人/塞爾提克/公牛 或 0/1/2",
					Required:    true,
				},
				stakeOption(),
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := Commands()
	created, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	log.WithFields(log.Fields{
		"count": len(created),
		"guild": b.config.GuildID,
	}).Info("Registered slash commands")
	return nil
}
