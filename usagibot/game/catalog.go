package game

import "github.com/usagipet/usagibot/usagibot/database/models"

type ItemKey string

const (
	ItemSubstituteDoll ItemKey = "substitute_doll"
	ItemSunglasses     ItemKey = "sunglasses"
	ItemPinkDye        ItemKey = "pink_dye"
)

// Item is a static catalog entry. Prices are in carrots. Every item is
// single-unit: owning one blocks buying another, even the consumable doll.
type Item struct {
	Key         ItemKey
	Name        string
	Description string
	Price       int64
	Unlocks     models.Look
	Consumable  bool
	BuyCommand  string
}

var catalog = map[ItemKey]Item{
	ItemSubstituteDoll: {
		Key:         ItemSubstituteDoll,
		Name:        "身代わり人形",
		Description: "早起き失敗しても安心！\n1回だけ記録を守ってくれるよ🧸",
		Price:       5,
		Consumable:  true,
		BuyCommand:  "身代わり人形を買う",
	},
	ItemSunglasses: {
		Key:         ItemSunglasses,
		Name:        "イケてるサングラス",
		Description: "かけるとイケてる見た目になるよ🕶️",
		Price:       10,
		Unlocks:     models.LookSunglasses,
		BuyCommand:  "サングラスを買う",
	},
	ItemPinkDye: {
		Key:         ItemPinkDye,
		Name:        "魔法のピンク染め粉",
		Description: "ふわふわの毛をピンクに染められるよ🎀",
		Price:       20,
		Unlocks:     models.LookPink,
		BuyCommand:  "ピンク染め粉を買う",
	},
}

// CatalogOrder fixes the shop display order.
var CatalogOrder = []ItemKey{ItemSubstituteDoll, ItemSunglasses, ItemPinkDye}

func CatalogItem(key ItemKey) (Item, bool) {
	item, ok := catalog[key]
	return item, ok
}

func CatalogItems() []Item {
	items := make([]Item, 0, len(CatalogOrder))
	for _, key := range CatalogOrder {
		items = append(items, catalog[key])
	}
	return items
}

// RequiredItem returns the item a look depends on. The normal look never
// requires one.
func RequiredItem(look models.Look) (ItemKey, bool) {
	for key, item := range catalog {
		if item.Unlocks != "" && item.Unlocks == look {
			return key, true
		}
	}
	return "", false
}
