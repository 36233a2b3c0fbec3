package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	CheckIn,
	Shop,
	Buy,
	Profile,
	Moon,
	Version,
}
