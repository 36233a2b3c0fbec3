package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/database/models"
	"github.com/usagipet/usagibot/usagibot/game"
	"github.com/usagipet/usagibot/usagibot/services"
	"github.com/usagipet/usagibot/usagibot/utils"
)

// failureReply is the single user-visible message for any collaborator
// failure. Profile-store errors must never fabricate a default profile, so
// the request ends here.
const failureReply = "ごめんなさい、うまく聞き取れなかったうさ…🐰💦\nもう少ししたら、もう一度話しかけてね"

type Action int

const (
	ActionPersona Action = iota
	ActionCheckIn
	ActionShop
	ActionBuy
	ActionLook
	ActionGoodnight
	ActionMemberCard
)

// Dispatch names the operation a message maps to, plus its payload.
type Dispatch struct {
	Action Action
	Item   game.ItemKey
	Look   models.Look
}

type route struct {
	match    func(text string) bool
	dispatch Dispatch
}

func equals(s string) func(string) bool {
	return func(text string) bool { return text == s }
}

func contains(s string) func(string) bool {
	return func(text string) bool { return strings.Contains(text, s) }
}

// routes is evaluated in order, first match wins. おはよう and おやすみ are
// substring matches; every other command is exact, and none of the exact
// strings contain either substring, so no pair can shadow another.
var routes = []route{
	{contains("おはよう"), Dispatch{Action: ActionCheckIn}},
	{equals("ショップ"), Dispatch{Action: ActionShop}},
	{equals("身代わり人形を買う"), Dispatch{Action: ActionBuy, Item: game.ItemSubstituteDoll}},
	{equals("サングラスを買う"), Dispatch{Action: ActionBuy, Item: game.ItemSunglasses}},
	{equals("ピンク染め粉を買う"), Dispatch{Action: ActionBuy, Item: game.ItemPinkDye}},
	{equals("サングラス装着"), Dispatch{Action: ActionLook, Look: models.LookSunglasses}},
	{equals("ピンクに変身"), Dispatch{Action: ActionLook, Look: models.LookPink}},
	{equals("元に戻す"), Dispatch{Action: ActionLook, Look: models.LookNormal}},
	{contains("おやすみ"), Dispatch{Action: ActionGoodnight}},
	{equals("会員証"), Dispatch{Action: ActionMemberCard}},
}

// Route resolves normalized message text to a dispatch. Unmatched text
// falls through to the persona.
func Route(text string) Dispatch {
	for _, r := range routes {
		if r.match(text) {
			return r.dispatch
		}
	}
	return Dispatch{Action: ActionPersona}
}

// Normalize prepares raw message text for routing.
func Normalize(text string) string {
	return strings.TrimSpace(text)
}

// MessageHandler routes plain chat messages to the game engine or the
// persona.
func MessageHandler(b *usagibot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.Message.Author.Bot || e.Message.Author.System {
			return
		}

		text := Normalize(e.Message.Content)
		if text == "" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		dispatch := Route(text)

		var err error
		switch dispatch.Action {
		case ActionCheckIn:
			err = handleCheckIn(ctx, b, e)
		case ActionShop:
			err = handleShop(b, e)
		case ActionBuy:
			err = handleBuy(ctx, b, e, dispatch.Item)
		case ActionLook:
			err = handleLook(ctx, b, e, dispatch.Look)
		case ActionGoodnight:
			err = handleGoodnight(b, e)
		case ActionMemberCard:
			err = handleMemberCard(ctx, b, e)
		default:
			err = handlePersona(ctx, b, e, text)
		}

		if err != nil {
			slog.Error("Message handling failed",
				slog.String("type", "error"),
				slog.String("user_id", e.Message.Author.ID.String()),
				slog.Any("error", err))
			replyText(b, e, failureReply)
		}
	})
}

func replyText(b *usagibot.Bot, e *events.MessageCreate, text string) {
	if _, err := b.Client.Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
		Content: text,
	}); err != nil {
		slog.Error("Failed to send reply",
			slog.String("type", "error"),
			slog.Any("error", err))
	}
}

func handleCheckIn(ctx context.Context, b *usagibot.Bot, e *events.MessageCreate) error {
	userID := e.Message.Author.ID.String()

	profile, err := b.ProfileRepository.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	updated, result := b.Engine.CheckIn(profile, time.Now())
	if result.Status == game.CheckInAlready {
		replyText(b, e, "今日はもう人参あげましたよ！また明日ね🥕")
		return nil
	}

	if err := b.ProfileRepository.Update(ctx, updated,
		"carrot_count", "last_login", "current_streak", "items"); err != nil {
		return err
	}

	replyText(b, e, "おはようございます！☀️\n早起きのご褒美の人参です！🥕"+streakMessage(result))
	return nil
}

func streakMessage(result game.CheckInResult) string {
	switch result.Status {
	case game.CheckInStarted:
		return "\n今日から早起きチャレンジスタート！"
	case game.CheckInContinued:
		return fmt.Sprintf("\n🔥 %d日連続早起き中！すごい！", result.Streak)
	case game.CheckInSavedByDoll:
		return fmt.Sprintf("\n🧸 身代わり人形が身代わりになりました！\n連続記録(%d日)は守られた！", result.Streak)
	case game.CheckInBroken:
		return "\n😢 連続記録が途切れちゃいました...\nまた今日から頑張りましょう！"
	default:
		return ""
	}
}

func handleShop(b *usagibot.Bot, e *events.MessageCreate) error {
	embeds := make([]discord.Embed, 0, len(game.CatalogOrder))
	for _, item := range game.CatalogItems() {
		embeds = append(embeds, discord.Embed{
			Title:       item.Name,
			Description: fmt.Sprintf("%s\n\n🥕 %d人参 — 「%s」と送ってね", item.Description, item.Price, item.BuyCommand),
			Color:       utils.CarrotColor,
			Thumbnail: &discord.EmbedResource{
				URL: b.Images.ShopImageURL(item.Key),
			},
		})
	}

	_, err := b.Client.Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
		Content: "🌙 月面コンビニへようこそ！",
		Embeds:  embeds,
	})
	return err
}

// purchaseReplies holds the item-specific shop banter.
var purchaseReplies = map[game.ItemKey]struct {
	owned  string
	bought string
}{
	game.ItemSubstituteDoll: {
		owned:  "もう一つ持ってますよ！\n保険は1つあれば十分です🧸",
		bought: "まいどあり！🧸\nこれで寝坊しても安心ですね！\n(残り人参: %d本)",
	},
	game.ItemSunglasses: {
		owned:  "もう持ってますよ！\n「サングラス装着」と送ってみてね🕶️",
		bought: "まいどあり！🕶️\n「サングラス装着」と送ると着替えるよ！\n(残り人参: %d本)",
	},
	game.ItemPinkDye: {
		owned:  "もう持ってますよ！\n「ピンクに変身」と送ってみてね🎀",
		bought: "まいどあり！🎨\n「ピンクに変身」と送ると着替えるよ！\n(残り人参: %d本)",
	},
}

func handleBuy(ctx context.Context, b *usagibot.Bot, e *events.MessageCreate, key game.ItemKey) error {
	userID := e.Message.Author.ID.String()

	profile, err := b.ProfileRepository.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	updated, result := b.Engine.Purchase(profile, key)
	replies := purchaseReplies[key]

	switch result.Status {
	case game.PurchaseUnknownItem:
		replyText(b, e, "そのアイテムは取り扱っていません。")
	case game.PurchaseAlreadyOwned:
		replyText(b, e, replies.owned)
	case game.PurchaseInsufficientFunds:
		replyText(b, e, "人参が足りませんっ！🐰💦")
	case game.PurchaseOK:
		if err := b.ProfileRepository.Update(ctx, updated, "carrot_count", "items"); err != nil {
			return err
		}
		replyText(b, e, fmt.Sprintf(replies.bought, result.Balance))
	}
	return nil
}

func handleLook(ctx context.Context, b *usagibot.Bot, e *events.MessageCreate, look models.Look) error {
	userID := e.Message.Author.ID.String()

	profile, err := b.ProfileRepository.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	updated, result := b.Engine.ChangeLook(profile, look)
	if result.Status == game.LookMissingItem {
		switch look {
		case models.LookPink:
			replyText(b, e, "まだ染め粉を持ってないよ！")
		default:
			replyText(b, e, "まだサングラスを持ってないよ！")
		}
		return nil
	}

	if err := b.ProfileRepository.Update(ctx, updated, "current_look"); err != nil {
		return err
	}

	switch look {
	case models.LookPink:
		replyText(b, e, "✨キラキラ〜✨\nピンク色に変身しました！🐰🎀")
	case models.LookSunglasses:
		replyText(b, e, "シャキーン！😎\nサングラスをかけました！")
	default:
		replyText(b, e, "ポンッ💨\n元の姿に戻りました！🐰")
	}
	return nil
}

func handleGoodnight(b *usagibot.Bot, e *events.MessageCreate) error {
	phase := b.Engine.MoonPhase(time.Now())
	replyText(b, e, fmt.Sprintf("おやすみなさいだうさ〜🐰💤\n\n今日の月は【 %s 】だぴょん！\nゆっくり休んでね✨", phase))
	return nil
}

func handleMemberCard(ctx context.Context, b *usagibot.Bot, e *events.MessageCreate) error {
	userID := e.Message.Author.ID.String()

	profile, err := b.ProfileRepository.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	data := b.MemberCard.CardData(e.Message.Author.Username, profile)

	imageBytes, err := b.MemberCard.Render(ctx, data)
	if err != nil {
		// Rendering is presentation only; degrade to a plain embed.
		_, err = b.Client.Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
			Embeds: []discord.Embed{memberCardEmbed(data)},
		})
		return err
	}

	_, err = b.Client.Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
		Files: []*discord.File{{
			Name:   "member_card.png",
			Reader: bytes.NewReader(imageBytes),
		}},
	})
	return err
}

func memberCardEmbed(data services.MemberCardData) discord.Embed {
	return discord.Embed{
		Title: "月うさぎ会員証 🌕",
		Description: fmt.Sprintf("🥕 所持人参: %d 本\n🔥 連続記録: %d 日\n🧸 身代わり人形: %s\n状態: %s",
			data.Carrots, data.Streak, data.DollStatus, data.LookLabel),
		Color: utils.CarrotColor,
		Image: &discord.EmbedResource{URL: data.ImageURL},
	}
}

func handlePersona(ctx context.Context, b *usagibot.Bot, e *events.MessageCreate, text string) error {
	reply := b.Persona.Reply(ctx, text)
	replyText(b, e, reply)
	return nil
}
