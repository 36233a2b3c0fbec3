package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usagipet/usagibot/usagibot/database/models"
)

var jst = time.FixedZone("JST", 9*60*60)

func testProfile(carrots int64, streak int, lastLogin string, items ...string) *models.Profile {
	if items == nil {
		items = []string{}
	}
	return &models.Profile{
		UserID:      "user-1",
		CarrotCount: carrots,
		Streak:      streak,
		LastLogin:   lastLogin,
		Items:       items,
		CurrentLook: models.LookNormal,
	}
}

func TestEngine_CheckIn(t *testing.T) {
	engine := NewEngine(jst)
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, jst)

	tests := []struct {
		name       string
		profile    *models.Profile
		wantStatus CheckInStatus
		wantStreak int
		wantCarrot int64
		wantDoll   bool
	}{
		{
			name:       "first ever check-in starts a streak",
			profile:    testProfile(0, 0, ""),
			wantStatus: CheckInStarted,
			wantStreak: 1,
			wantCarrot: 1,
		},
		{
			name:       "yesterday continues the streak",
			profile:    testProfile(10, 5, "2025-03-09"),
			wantStatus: CheckInContinued,
			wantStreak: 6,
			wantCarrot: 11,
		},
		{
			name:       "missed days with a doll keeps the streak and consumes it",
			profile:    testProfile(10, 5, "2025-03-07", string(ItemSubstituteDoll)),
			wantStatus: CheckInSavedByDoll,
			wantStreak: 6,
			wantCarrot: 11,
			wantDoll:   false,
		},
		{
			name:       "missed days without a doll breaks the streak",
			profile:    testProfile(10, 5, "2025-03-07"),
			wantStatus: CheckInBroken,
			wantStreak: 1,
			wantCarrot: 11,
		},
		{
			name:       "short streak continues the same way",
			profile:    testProfile(3, 2, "2025-03-09"),
			wantStatus: CheckInContinued,
			wantStreak: 3,
			wantCarrot: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, result := engine.CheckIn(tt.profile, now)

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantStreak, result.Streak)
			assert.Equal(t, tt.wantCarrot, result.Carrots)
			assert.Equal(t, tt.wantStreak, updated.Streak)
			assert.Equal(t, tt.wantCarrot, updated.CarrotCount)
			assert.Equal(t, "2025-03-10", updated.LastLogin)
			assert.Equal(t, tt.wantDoll, updated.HasItem(string(ItemSubstituteDoll)))
		})
	}
}

func TestEngine_CheckIn_MonthBoundary(t *testing.T) {
	engine := NewEngine(jst)
	now := time.Date(2025, 4, 1, 6, 30, 0, 0, jst)

	updated, result := engine.CheckIn(testProfile(0, 9, "2025-03-31"), now)

	assert.Equal(t, CheckInContinued, result.Status)
	assert.Equal(t, 10, updated.Streak)
}

func TestEngine_CheckIn_IdempotentPerDay(t *testing.T) {
	engine := NewEngine(jst)
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, jst)

	first, result := engine.CheckIn(testProfile(0, 0, ""), now)
	require.Equal(t, CheckInStarted, result.Status)

	// Second call on the same calendar day must be a no-op.
	second, result := engine.CheckIn(first, now.Add(5*time.Hour))
	assert.Equal(t, CheckInAlready, result.Status)
	assert.Equal(t, first.CarrotCount, second.CarrotCount)
	assert.Equal(t, first.Streak, second.Streak)
	assert.Same(t, first, second)
}

func TestEngine_CheckIn_DoesNotMutateSnapshot(t *testing.T) {
	engine := NewEngine(jst)
	now := time.Date(2025, 3, 10, 7, 0, 0, 0, jst)
	snapshot := testProfile(10, 5, "2025-03-07", string(ItemSubstituteDoll))

	_, result := engine.CheckIn(snapshot, now)

	require.Equal(t, CheckInSavedByDoll, result.Status)
	assert.Equal(t, int64(10), snapshot.CarrotCount)
	assert.Equal(t, "2025-03-07", snapshot.LastLogin)
	assert.True(t, snapshot.HasItem(string(ItemSubstituteDoll)))
}

func TestEngine_Purchase(t *testing.T) {
	engine := NewEngine(jst)

	tests := []struct {
		name        string
		profile     *models.Profile
		key         ItemKey
		wantStatus  PurchaseStatus
		wantBalance int64
	}{
		{
			name:        "exact balance buys the item",
			profile:     testProfile(10, 0, ""),
			key:         ItemSunglasses,
			wantStatus:  PurchaseOK,
			wantBalance: 0,
		},
		{
			name:        "one carrot short is rejected",
			profile:     testProfile(4, 0, ""),
			key:         ItemSubstituteDoll,
			wantStatus:  PurchaseInsufficientFunds,
			wantBalance: 4,
		},
		{
			name:        "owned item cannot be bought twice",
			profile:     testProfile(100, 0, "", string(ItemSunglasses)),
			key:         ItemSunglasses,
			wantStatus:  PurchaseAlreadyOwned,
			wantBalance: 100,
		},
		{
			name:        "the doll is single-unit even though it is consumable",
			profile:     testProfile(100, 0, "", string(ItemSubstituteDoll)),
			key:         ItemSubstituteDoll,
			wantStatus:  PurchaseAlreadyOwned,
			wantBalance: 100,
		},
		{
			name:        "unknown keys are rejected",
			profile:     testProfile(100, 0, ""),
			key:         ItemKey("golden_carrot"),
			wantStatus:  PurchaseUnknownItem,
			wantBalance: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, result := engine.Purchase(tt.profile, tt.key)

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantBalance, result.Balance)
			assert.Equal(t, tt.wantBalance, updated.CarrotCount)
			if tt.wantStatus == PurchaseOK {
				assert.True(t, updated.HasItem(string(tt.key)))
			} else {
				// No mutation on any rejection path.
				assert.Same(t, tt.profile, updated)
			}
			if tt.wantStatus != PurchaseUnknownItem {
				// Renderers name the item from the result alone.
				assert.Equal(t, tt.key, result.Item.Key)
				assert.NotEmpty(t, result.Item.Name)
			}
			assert.GreaterOrEqual(t, updated.CarrotCount, int64(0))
		})
	}
}

func TestEngine_ChangeLook(t *testing.T) {
	engine := NewEngine(jst)

	t.Run("look without the unlocking item is rejected", func(t *testing.T) {
		profile := testProfile(0, 0, "")
		updated, result := engine.ChangeLook(profile, models.LookPink)

		assert.Equal(t, LookMissingItem, result.Status)
		assert.Equal(t, ItemPinkDye, result.MissingItem)
		assert.Equal(t, models.LookNormal, updated.CurrentLook)
	})

	t.Run("owning the item unlocks the look", func(t *testing.T) {
		profile := testProfile(0, 0, "", string(ItemSunglasses))
		updated, result := engine.ChangeLook(profile, models.LookSunglasses)

		assert.Equal(t, LookChanged, result.Status)
		assert.Equal(t, models.LookSunglasses, updated.CurrentLook)
	})

	t.Run("resetting to normal never requires an item", func(t *testing.T) {
		profile := testProfile(0, 0, "")
		profile.CurrentLook = models.LookPink

		updated, result := engine.ChangeLook(profile, models.LookNormal)

		assert.Equal(t, LookChanged, result.Status)
		assert.Equal(t, models.LookNormal, updated.CurrentLook)
	})
}

func TestEngine_CarrotsNeverNegative(t *testing.T) {
	engine := NewEngine(jst)
	profile := testProfile(0, 0, "")
	day := time.Date(2025, 3, 1, 7, 0, 0, 0, jst)

	// Interleave check-ins and purchase attempts for a month; the balance
	// must never dip below zero.
	for i := 0; i < 30; i++ {
		profile, _ = engine.CheckIn(profile, day.AddDate(0, 0, i))
		profile, _ = engine.Purchase(profile, ItemSubstituteDoll)
		profile, _ = engine.Purchase(profile, ItemPinkDye)
		assert.GreaterOrEqual(t, profile.CarrotCount, int64(0))
	}
}
