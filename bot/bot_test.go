package bot

import (
	"fmt"
	"testing"

	"courtside/bot/features/casino"
	"courtside/bot/features/economy"
	"courtside/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeatures() []Feature {
	return []Feature{
		economy.New(nil, nil),
		casino.New(nil),
	}
}

func TestCommands_EveryCommandIsRouted(t *testing.T) {
	b := &Bot{features: newTestFeatures()}

	names := make(map[string]bool)
	for _, cmd := range Commands() {
		require.False(t, names[cmd.Name], "duplicate command %s", cmd.Name)
		names[cmd.Name] = true
		assert.NotEmpty(t, cmd.Description, cmd.Name)
		assert.NotNil(t, b.route(cmd.Name), "no feature handles %s", cmd.Name)
	}

	for _, want := range []string{"join", "balance", "daily", "work", "deposit", "withdraw", "history",
		"bet", "coinflip", "dice", "slots", "roulette", "horse"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.Nil(t, b.route("donate"))
}

func TestCommands_RequiredOptionsPrecedeOptional(t *testing.T) {
	for _, cmd := range Commands() {
		optional := false
		for _, opt := range cmd.Options {
			if !opt.Required {
				optional = true
				continue
			}
			assert.False(t, optional, "%s: required option %s follows an optional one", cmd.Name, opt.Name)
		}
	}
}

func TestCommands_DiceDescriptionStatesPayout(t *testing.T) {
	for _, cmd := range Commands() {
		if cmd.Name == "dice" {
			assert.Contains(t, cmd.Description, fmt.Sprintf("%d 倍", service.DicePayout))
			assert.Equal(t, 5, service.DicePayout)
			return
		}
	}
	t.Fatal("dice command is not registered")
}
