package casino

import (
	"courtside/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the chance games
type Feature struct {
	wagers service.WageringService
}

func New(wagers service.WageringService) *Feature {
	return &Feature{
		wagers: wagers,
	}
}

// Handles reports whether name is one of this feature's commands
func (f *Feature) Handles(name string) bool {
	switch name {
	case "bet", "coinflip", "dice", "slots", "roulette", "horse":
		return true
	}
	return false
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleGame(s, i)
}
