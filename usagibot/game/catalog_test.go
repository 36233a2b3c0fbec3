package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usagipet/usagibot/usagibot/database/models"
)

func TestCatalog(t *testing.T) {
	doll, ok := CatalogItem(ItemSubstituteDoll)
	require.True(t, ok)
	assert.Equal(t, int64(5), doll.Price)
	assert.True(t, doll.Consumable)
	assert.Empty(t, doll.Unlocks)

	sunglasses, ok := CatalogItem(ItemSunglasses)
	require.True(t, ok)
	assert.Equal(t, int64(10), sunglasses.Price)
	assert.Equal(t, models.LookSunglasses, sunglasses.Unlocks)

	dye, ok := CatalogItem(ItemPinkDye)
	require.True(t, ok)
	assert.Equal(t, int64(20), dye.Price)
	assert.Equal(t, models.LookPink, dye.Unlocks)

	_, ok = CatalogItem(ItemKey("golden_carrot"))
	assert.False(t, ok)
}

func TestCatalogItems_Order(t *testing.T) {
	items := CatalogItems()
	require.Len(t, items, 3)
	assert.Equal(t, ItemSubstituteDoll, items[0].Key)
	assert.Equal(t, ItemSunglasses, items[1].Key)
	assert.Equal(t, ItemPinkDye, items[2].Key)
}

func TestRequiredItem(t *testing.T) {
	key, ok := RequiredItem(models.LookPink)
	require.True(t, ok)
	assert.Equal(t, ItemPinkDye, key)

	key, ok = RequiredItem(models.LookSunglasses)
	require.True(t, ok)
	assert.Equal(t, ItemSunglasses, key)

	_, ok = RequiredItem(models.LookNormal)
	assert.False(t, ok)
}
