package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Respond sends a plain text interaction response
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Content: content,
	}

	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"command": i.ApplicationCommandData().Name,
			"error":   err,
		}).Error("Failed to respond to interaction")
	}
}

// RespondWithError renders err for the invoker. Only failures the user cannot act on are logged.
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if !IsUserError(err) {
		log.WithFields(log.Fields{
			"command": i.ApplicationCommandData().Name,
			"user":    InvokerID(i),
			"error":   err,
		}).Error("Command failed")
	}
	Respond(s, i, ErrorMessage(err), true)
}
