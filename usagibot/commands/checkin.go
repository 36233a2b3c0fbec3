package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/game"
	"github.com/usagipet/usagibot/usagibot/utils"
)

var CheckIn = discord.SlashCommandCreate{
	Name:        "checkin",
	Description: "朝のあいさつをして人参をもらう 🥕",
}

func CheckInHandler(b *usagibot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
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

		updated, result := b.Engine.CheckIn(profile, time.Now())
		if result.Status == game.CheckInAlready {
			return utils.EH.CreateInfoEmbed(e, "今日はもう人参あげましたよ！また明日ね🥕")
		}

		if err := b.ProfileRepository.Update(ctx, updated,
			"carrot_count", "last_login", "current_streak", "items"); err != nil {
			slog.Error("Failed to save check-in",
				slog.String("type", "db"),
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "チェックインの保存に失敗しました。少し待ってからもう一度試してね。")
		}

		description := fmt.Sprintf("早起きのご褒美の人参です！🥕\n所持人参: %d本", result.Carrots)
		switch result.Status {
		case game.CheckInStarted:
			description += "\n\n今日から早起きチャレンジスタート！"
		case game.CheckInContinued:
			description += fmt.Sprintf("\n\n🔥 %d日連続早起き中！すごい！", result.Streak)
		case game.CheckInSavedByDoll:
			description += fmt.Sprintf("\n\n🧸 身代わり人形が身代わりになりました！\n連続記録(%d日)は守られた！", result.Streak)
		case game.CheckInBroken:
			description += "\n\n😢 連続記録が途切れちゃいました...\nまた今日から頑張りましょう！"
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title:       "おはようございます！☀️",
					Description: description,
					Color:       utils.SuccessColor,
				},
			},
		})
	}
}
