package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usagipet/usagibot/usagibot/database/models"
	"github.com/usagipet/usagibot/usagibot/game"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dispatch
	}{
		{
			name: "greeting routes to check-in",
			text: "おはよう",
			want: Dispatch{Action: ActionCheckIn},
		},
		{
			name: "greeting matches as a substring",
			text: "うさちゃんおはようございます！",
			want: Dispatch{Action: ActionCheckIn},
		},
		{
			name: "shop listing",
			text: "ショップ",
			want: Dispatch{Action: ActionShop},
		},
		{
			name: "buying the substitute doll",
			text: "身代わり人形を買う",
			want: Dispatch{Action: ActionBuy, Item: game.ItemSubstituteDoll},
		},
		{
			name: "buying the sunglasses",
			text: "サングラスを買う",
			want: Dispatch{Action: ActionBuy, Item: game.ItemSunglasses},
		},
		{
			name: "buying the pink dye",
			text: "ピンク染め粉を買う",
			want: Dispatch{Action: ActionBuy, Item: game.ItemPinkDye},
		},
		{
			name: "wearing the sunglasses",
			text: "サングラス装着",
			want: Dispatch{Action: ActionLook, Look: models.LookSunglasses},
		},
		{
			name: "turning pink",
			text: "ピンクに変身",
			want: Dispatch{Action: ActionLook, Look: models.LookPink},
		},
		{
			name: "reverting the look",
			text: "元に戻す",
			want: Dispatch{Action: ActionLook, Look: models.LookNormal},
		},
		{
			name: "goodnight routes to the moon report",
			text: "おやすみなさい",
			want: Dispatch{Action: ActionGoodnight},
		},
		{
			name: "member card",
			text: "会員証",
			want: Dispatch{Action: ActionMemberCard},
		},
		{
			name: "free text falls through to the persona",
			text: "今日は何の日？",
			want: Dispatch{Action: ActionPersona},
		},
		{
			name: "partial buy command is not a buy",
			text: "サングラス",
			want: Dispatch{Action: ActionPersona},
		},
		{
			name: "greeting wins over later routes",
			text: "おはよう、ショップ",
			want: Dispatch{Action: ActionCheckIn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.text))
		})
	}
}

func TestRouteBuyDispatchesMatchCatalog(t *testing.T) {
	for _, r := range routes {
		if r.dispatch.Action != ActionBuy {
			continue
		}
		item, ok := game.CatalogItem(r.dispatch.Item)
		assert.True(t, ok, "buy route carries an unknown item key %q", r.dispatch.Item)
		assert.Equal(t, r.dispatch.Item, item.Key)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ショップ", Normalize("  ショップ \n"))
	assert.Equal(t, "", Normalize("   "))
}
