package casino

import (
	"fmt"
	"strings"

	"courtside/bot/common"
	"courtside/models"
	"courtside/service"
)

var sideNames = map[models.CoinSide]string{
	models.CoinHeads: "正面",
	models.CoinTails: "反面",
}

var colorNames = map[models.RouletteColor]string{
	models.RouletteRed:   "🔴 紅色",
	models.RouletteBlack: "⚫ 黑色",
	models.RouletteGreen: "🟢 綠色",
}

// RenderOutcome renders a settled wager: what was drawn, then what it paid
func RenderOutcome(userID string, o *models.GameOutcome) string {
	return fmt.Sprintf("%s\n%s\n%s", common.Mention(userID), renderDraw(o), renderResult(o))
}

func renderDraw(o *models.GameOutcome) string {
	d := o.Details
	switch o.Game {
	case models.GameBet:
		return fmt.Sprintf("🎲 押注擲出 %.2f", d.Roll)
	case models.GameCoinflip:
		return fmt.Sprintf("🪙 硬幣落在 **%s**（你猜 %s）", sideNames[d.Side], sideNames[d.Picked])
	case models.GameDice:
		return fmt.Sprintf("🎲 骰出 **%d**（你猜 %d）", d.Die, d.Guess)
	case models.GameSlots:
		return "🎰 | " + strings.Join(d.Reels, " | ") + " |"
	case models.GameRoulette:
		return fmt.Sprintf("🎡 開出 **%d** 號 %s（你押 %s）", d.Number, colorNames[d.Color], colorNames[d.Chosen])
	case models.GameHorse:
		return renderRace(d)
	}
	return ""
}

func renderRace(d models.GameDetails) string {
	winners := make(map[int]bool, len(d.Winners))
	for _, w := range d.Winners {
		winners[w] = true
	}

	var b strings.Builder
	b.WriteString("🏇 比賽結束！\n")
	for track, pos := range d.Positions {
		marker := ""
		if winners[track] {
			marker = " 🏆"
		}
		pad := max(service.HorseFinishLine-pos, 0)
		fmt.Fprintf(&b, "`%s🐎%s|` %s%s\n", strings.Repeat("·", pos), strings.Repeat(" ", pad), common.HorseNames[track], marker)
	}
	fmt.Fprintf(&b, "你押的是 **%s**", common.HorseNames[d.Pick])
	return b.String()
}

func renderResult(o *models.GameOutcome) string {
	if o.Won() {
		headline := "🎉 你贏了"
		if o.Kind == models.TransactionKindSlotsJackpot {
			headline = "💎 大獎！"
		}
		return fmt.Sprintf("%s 獲得 **%s** 籌碼（淨 %s），目前錢包 **%s**。",
			headline, common.FormatChips(o.Payout), common.FormatDelta(o.Delta), common.FormatChips(o.NewWallet))
	}
	return fmt.Sprintf("😔 你輸了 **%s** 籌碼，目前錢包 **%s**。",
		common.FormatChips(o.Stake), common.FormatChips(o.NewWallet))
}
