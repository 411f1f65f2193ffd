package economy

import (
	"fmt"
	"strings"

	"courtside/bot/common"
	"courtside/models"
)

var kindLabels = map[models.TransactionKind]string{
	models.TransactionKindJoin:         "加入",
	models.TransactionKindDaily:        "每日獎勵",
	models.TransactionKindWork:         "打工",
	models.TransactionKindDeposit:      "存款",
	models.TransactionKindWithdraw:     "提款",
	models.TransactionKindBetWin:       "押注贏",
	models.TransactionKindBetLose:      "押注輸",
	models.TransactionKindCoinflipWin:  "擲硬幣贏",
	models.TransactionKindCoinflipLose: "擲硬幣輸",
	models.TransactionKindDiceWin:      "骰子贏",
	models.TransactionKindDiceLose:     "骰子輸",
	models.TransactionKindSlotsJackpot: "拉霸大獎",
	models.TransactionKindSlotsDouble:  "拉霸對子",
	models.TransactionKindSlotsLose:    "拉霸輸",
	models.TransactionKindRouletteWin:  "輪盤贏",
	models.TransactionKindRouletteLose: "輪盤輸",
	models.TransactionKindHorseWin:     "賽馬贏",
	models.TransactionKindHorseLose:    "賽馬輸",
	models.TransactionKindMambaTax:     "曼巴稅",
}

var jobLabels = map[string]string{
	"Cleaner":              "清潔工",
	"Motivational speaker": "勵志講師",
	"Bodyguard":            "保鑣",
	"Chip accountant":      "籌碼會計",
	"VIP bartender":        "貴賓酒保",
}

// JobLabel returns the display name of a job, falling back to its name
func JobLabel(job string) string {
	if label, ok := jobLabels[job]; ok {
		return label
	}
	return job
}

// KindLabel returns the display name of a transaction kind
func KindLabel(kind models.TransactionKind) string {
	if label, ok := kindLabels[kind]; ok {
		return label
	}
	return string(kind)
}

func RenderJoin(userID string, result *models.JoinResult) string {
	if result.Already {
		return fmt.Sprintf("👋 %s 你已經加入過了，目前錢包 **%s** 籌碼。",
			common.Mention(userID), common.FormatChips(result.User.Wallet))
	}
	return fmt.Sprintf("🎉 歡迎 %s！你獲得了起始籌碼 **%s**，目前錢包 **%s** 籌碼。",
		common.Mention(userID), common.FormatChips(result.Granted), common.FormatChips(result.User.Wallet))
}

func RenderBalance(user *models.User) string {
	return fmt.Sprintf("💰 %s 的資產\n錢包：**%s**\n銀行：**%s**\n總計：**%s**",
		common.Mention(user.ID),
		common.FormatChips(user.Wallet),
		common.FormatChips(user.Bank),
		common.FormatChips(user.Total()))
}

func RenderDaily(userID string, result *models.RewardResult) string {
	return fmt.Sprintf("📅 %s 領取每日獎勵 **%s** 籌碼！目前錢包 **%s**。下次可領取：%s",
		common.Mention(userID),
		common.FormatChips(result.Amount),
		common.FormatChips(result.User.Wallet),
		common.FormatDiscordTimestamp(result.NextAvailable, "R"))
}

func RenderWork(userID string, result *models.RewardResult) string {
	return fmt.Sprintf("💼 %s 當了一回「%s」，賺到 **%s** 籌碼！目前錢包 **%s**。下次可打工：%s",
		common.Mention(userID),
		JobLabel(result.Job),
		common.FormatChips(result.Amount),
		common.FormatChips(result.User.Wallet),
		common.FormatDiscordTimestamp(result.NextAvailable, "R"))
}

func RenderDeposit(result *models.BankResult) string {
	return fmt.Sprintf("🏦 存入 **%s** 籌碼（手續費 %s），實際入帳 **%s**。\n錢包：**%s**　銀行：**%s**",
		common.FormatChips(result.Amount),
		common.FormatChips(result.Fee),
		common.FormatChips(result.Transferred),
		common.FormatChips(result.User.Wallet),
		common.FormatChips(result.User.Bank))
}

func RenderWithdraw(result *models.BankResult) string {
	return fmt.Sprintf("🏧 提領 **%s** 籌碼。\n錢包：**%s**　銀行：**%s**",
		common.FormatChips(result.Transferred),
		common.FormatChips(result.User.Wallet),
		common.FormatChips(result.User.Bank))
}

// RenderHistory lists records newest first
func RenderHistory(txs []*models.Transaction) string {
	if len(txs) == 0 {
		return "📜 目前沒有任何交易紀錄。"
	}

	var b strings.Builder
	b.WriteString("📜 最近的交易紀錄\n")
	for _, tx := range txs {
		line := fmt.Sprintf("%s %s **%s**",
			common.FormatDiscordTimestamp(tx.CreatedAt, "f"),
			KindLabel(tx.Kind),
			common.FormatDelta(tx.Amount))
		if tx.BalanceAfter != nil {
			line += fmt.Sprintf("（錢包 %s）", common.FormatChips(*tx.BalanceAfter))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
