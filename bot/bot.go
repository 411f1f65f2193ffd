package bot

import (
	"fmt"

	"courtside/bot/common"
	"courtside/bot/features/casino"
	"courtside/bot/features/economy"
	"courtside/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
	// GuildID scopes command registration to one guild. Empty registers globally.
	GuildID string
}

// Feature is a group of slash commands sharing a handler
type Feature interface {
	Handles(name string) bool
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	features []Feature
}

func New(config Config, accounts service.AccountService, income service.IncomeService, wagers service.WageringService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		features: []Feature{
			economy.New(accounts, income),
			casino.New(wagers),
		},
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", r.User.Username).Info("Discord session ready")
	})

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	feature := b.route(name)
	if feature == nil {
		log.WithField("command", name).Warn("Received unknown command")
		return
	}

	// A panicking handler must not take the gateway loop down with it
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"command": name,
				"user":    common.InvokerID(i),
				"panic":   r,
			}).Error("Command handler panicked")
		}
	}()

	feature.HandleCommand(s, i)
}

func (b *Bot) route(name string) Feature {
	for _, f := range b.features {
		if f.Handles(name) {
			return f
		}
	}
	return nil
}
