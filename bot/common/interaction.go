package common

import (
	"github.com/bwmarrin/discordgo"
)

// InvokerID returns the id of the user who ran the command, in a guild or a DM
func InvokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// Options indexes the top-level options of a slash command by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	m := make(Options, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// Int returns an integer option, or fallback when it was not supplied
func (o Options) Int(name string, fallback int64) int64 {
	if opt, ok := o[name]; ok {
		return opt.IntValue()
	}
	return fallback
}

// String returns a string option, or "" when it was not supplied
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}
