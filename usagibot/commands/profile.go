package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/utils"
)

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "月うさぎ会員証を見る 🌕",
}

func ProfileHandler(b *usagibot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		userID := e.User().ID.String()

		profile, err := b.ProfileRepository.GetOrCreate(ctx, userID)
		if err != nil {
			slog.Error("Failed to load profile",
				slog.String("type", "db"),
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "プロフィールの読み込みに失敗しました。少し待ってからもう一度試してね。")
		}

		data := b.MemberCard.CardData(e.User().Username, profile)

		imageBytes, err := b.MemberCard.Render(ctx, data)
		if err != nil {
			slog.Warn("Member card render failed, falling back to embed",
				slog.String("type", "sys"),
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{
					{
						Title: "月うさぎ会員証 🌕",
						Description: fmt.Sprintf("🥕 所持人参: %d 本\n🔥 連続記録: %d 日\n🧸 身代わり人形: %s\n状態: %s",
							data.Carrots, data.Streak, data.DollStatus, data.LookLabel),
						Color: utils.CarrotColor,
						Image: &discord.EmbedResource{URL: data.ImageURL},
					},
				},
			})
		}

		return e.CreateMessage(discord.MessageCreate{
			Files: []*discord.File{
				{
					Name:   "member_card.png",
					Reader: bytes.NewReader(imageBytes),
				},
			},
		})
	}
}
