package economy

import (
	"time"

	"courtside/service"

	"github.com/bwmarrin/discordgo"
)

const (
	// DefaultHistoryLimit is the number of records /history shows when no limit is given
	DefaultHistoryLimit = 10
	// MaxHistoryLimit caps /history so the reply fits in one message
	MaxHistoryLimit = 25
)

// Feature handles joining, balances, income and bank transfers
type Feature struct {
	accounts service.AccountService
	income   service.IncomeService
	now      func() time.Time
}

func New(accounts service.AccountService, income service.IncomeService) *Feature {
	return &Feature{
		accounts: accounts,
		income:   income,
		now:      time.Now,
	}
}

// Handles reports whether name is one of this feature's commands
func (f *Feature) Handles(name string) bool {
	switch name {
	case "join", "balance", "daily", "work", "deposit", "withdraw", "history":
		return true
	}
	return false
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "join":
		f.handleJoin(s, i)
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "work":
		f.handleWork(s, i)
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "history":
		f.handleHistory(s, i)
	}
}
