package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// ResponseHandler provides standardized response methods for commands
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// CreateErrorEmbed creates a standard error embed for command events
func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       ErrorColor,
		}},
	})
}

// CreateInfoEmbed creates a standard info embed for command events
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       InfoColor,
		}},
	})
}

// CreateError creates a titled error embed, ephemeral so only the caller
// sees it.
func (h *ResponseHandler) CreateError(event *handler.CommandEvent, title, description string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: description,
			Color:       ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
