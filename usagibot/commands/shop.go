package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/game"
	"github.com/usagipet/usagibot/usagibot/utils"
)

var Shop = discord.SlashCommandCreate{
	Name:        "shop",
	Description: "月面コンビニの品ぞろえを見る 🌙",
}

func ShopHandler(b *usagibot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		items := game.CatalogItems()

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				item := items[page]
				embed.
					SetTitle(fmt.Sprintf("🌙 月面コンビニ — %s", item.Name)).
					SetDescription(fmt.Sprintf("%s\n\n🥕 **%d人参**\n`/buy`、または「%s」で購入できます",
						item.Description, item.Price, item.BuyCommand)).
					SetThumbnail(b.Images.ShopImageURL(item.Key)).
					SetColor(utils.CarrotColor).
					SetFooter(fmt.Sprintf("%d/%d", page+1, len(items)), "")
			},
			Pages:      len(items),
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
