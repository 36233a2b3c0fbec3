package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/utils"
)

var Moon = discord.SlashCommandCreate{
	Name:        "moon",
	Description: "今日の月を見る 🌕",
}

func MoonHandler(b *usagibot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		now := time.Now()
		phase := b.Engine.MoonPhase(now)
		age := b.Engine.MoonAge(now)

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title:       fmt.Sprintf("今日の月 %s", phase.Emoji()),
					Description: fmt.Sprintf("【 %s 】\n月齢 %.1f", phase.Label(), age),
					Color:       utils.InfoColor,
				},
			},
		})
	}
}
