package economy

import (
	"strings"
	"testing"
	"time"

	"courtside/models"
	"courtside/service"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func user(wallet, bank int64) *models.User {
	u := models.NewUser("42", t0)
	u.Wallet = wallet
	u.Bank = bank
	u.Joined = true
	return u
}

func TestRenderJoin(t *testing.T) {
	first := RenderJoin("42", &models.JoinResult{Granted: 1000, User: user(1000, 0)})
	assert.Contains(t, first, "<@42>")
	assert.Contains(t, first, "起始籌碼 **1,000**")

	again := RenderJoin("42", &models.JoinResult{Already: true, User: user(1337, 0)})
	assert.Contains(t, again, "已經加入")
	assert.Contains(t, again, "1,337")
}

func TestRenderBalance(t *testing.T) {
	msg := RenderBalance(user(847, 490))
	assert.Contains(t, msg, "錢包：**847**")
	assert.Contains(t, msg, "銀行：**490**")
	assert.Contains(t, msg, "總計：**1,337**")
}

func TestRenderDaily(t *testing.T) {
	next := t0.Add(20 * time.Hour)
	msg := RenderDaily("42", &models.RewardResult{Amount: 337, NextAvailable: next, User: user(1337, 0)})
	assert.Contains(t, msg, "**337**")
	assert.Contains(t, msg, "**1,337**")
	assert.Contains(t, msg, "<t:1709366400:R>")
}

func TestRenderWork(t *testing.T) {
	msg := RenderWork("42", &models.RewardResult{Amount: 333, Job: "Bodyguard", NextAvailable: t0.Add(30 * time.Minute), User: user(1333, 0)})
	assert.Contains(t, msg, "「保鑣」")
	assert.NotContains(t, msg, "Bodyguard")
	assert.Contains(t, msg, "**333**")
}

func TestRenderDeposit(t *testing.T) {
	msg := RenderDeposit(&models.BankResult{Amount: 500, Transferred: 490, Fee: 10, User: user(837, 490)})
	assert.Contains(t, msg, "存入 **500**")
	assert.Contains(t, msg, "手續費 10")
	assert.Contains(t, msg, "實際入帳 **490**")
	assert.Contains(t, msg, "錢包：**837**")
}

func TestRenderWithdraw(t *testing.T) {
	msg := RenderWithdraw(&models.BankResult{Amount: 90, Transferred: 90, User: user(937, 400)})
	assert.Contains(t, msg, "提領 **90**")
	assert.Contains(t, msg, "銀行：**400**")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, RenderHistory(nil), "沒有任何交易紀錄")

	txs := []*models.Transaction{
		{Kind: models.TransactionKindBetLose, Amount: -100, CreatedAt: t0.Add(time.Minute)},
		{Kind: models.TransactionKindDaily, Amount: 337, BalanceAfter: models.Int64Ptr(1337), CreatedAt: t0},
	}
	msg := RenderHistory(txs)
	assert.Contains(t, msg, "押注輸 **-100**")
	assert.Contains(t, msg, "每日獎勵 **+337**（錢包 1,337）")
	assert.Less(t, strings.Index(msg, "押注輸"), strings.Index(msg, "每日獎勵"), "order is preserved")
}

func TestJobLabel_CoversEveryJob(t *testing.T) {
	for _, job := range service.Jobs {
		label := JobLabel(job.Name)
		assert.NotEqual(t, job.Name, label, "job %q has no display name", job.Name)
	}
	assert.Equal(t, "mystery", JobLabel("mystery"))
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "拉霸大獎", KindLabel(models.TransactionKindSlotsJackpot))
	assert.Equal(t, "mystery", KindLabel(models.TransactionKind("mystery")))
}
