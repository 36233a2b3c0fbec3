package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/game"
	"github.com/usagipet/usagibot/usagibot/utils"
)

var Buy = discord.SlashCommandCreate{
	Name:        "buy",
	Description: "月面コンビニで買い物する 🥕",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "item",
			Description:  "買いたいアイテム",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func BuyHandler(b *usagibot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		key := game.ItemKey(e.SlashCommandInteractionData().String("item"))
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

		updated, result := b.Engine.Purchase(profile, key)

		switch result.Status {
		case game.PurchaseUnknownItem:
			return utils.EH.CreateError(e, "購入できません", "そのアイテムは取り扱っていません。")
		case game.PurchaseAlreadyOwned:
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("%sはもう持ってますよ！", result.Item.Name))
		case game.PurchaseInsufficientFunds:
			return utils.EH.CreateErrorEmbed(e,
				fmt.Sprintf("人参が足りませんっ！🐰💦\n%sは%d人参、いまの所持は%d本です。",
					result.Item.Name, result.Item.Price, profile.CarrotCount))
		}

		if err := b.ProfileRepository.Update(ctx, updated, "carrot_count", "items"); err != nil {
			slog.Error("Failed to save purchase",
				slog.String("type", "db"),
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "購入の保存に失敗しました。少し待ってからもう一度試してね。")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				{
					Title:       "まいどあり！",
					Description: fmt.Sprintf("%sを購入しました！\n(残り人参: %d本)", result.Item.Name, result.Balance),
					Color:       utils.SuccessColor,
					Thumbnail: &discord.EmbedResource{
						URL: b.Images.ShopImageURL(result.Item.Key),
					},
				},
			},
		})
	}
}

func BuyAutocomplete(b *usagibot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "item" {
			return nil
		}

		searchTerm := ""
		if focused.Value != nil {
			var s string
			if err := json.Unmarshal(focused.Value, &s); err != nil {
				return e.AutocompleteResult([]discord.AutocompleteChoice{})
			}
			searchTerm = strings.TrimSpace(s)
		}

		items := game.CatalogItems()

		if searchTerm == "" {
			choices := make([]discord.AutocompleteChoice, 0, len(items))
			for _, item := range items {
				choices = append(choices, discord.AutocompleteChoiceString{
					Name:  fmt.Sprintf("%s — 🥕%d", item.Name, item.Price),
					Value: string(item.Key),
				})
			}
			return e.AutocompleteResult(choices)
		}

		names := make([]string, len(items))
		for i, item := range items {
			names[i] = item.Name + " " + string(item.Key)
		}

		matches := fuzzy.Find(searchTerm, names)
		choices := make([]discord.AutocompleteChoice, 0, len(matches))
		for _, match := range matches {
			item := items[match.Index]
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  fmt.Sprintf("%s — 🥕%d", item.Name, item.Price),
				Value: string(item.Key),
			})
		}
		return e.AutocompleteResult(choices)
	}
}
