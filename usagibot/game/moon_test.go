package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func atMoonAge(e *Engine, age float64) time.Time {
	return e.moonEpoch().Add(time.Duration(age * 24 * float64(time.Hour)))
}

func TestEngine_MoonPhase_Buckets(t *testing.T) {
	engine := NewEngine(jst)

	tests := []struct {
		age  float64
		want MoonPhase
	}{
		{0, MoonNew},
		{0.5, MoonNew},
		{1, MoonWaxingCrescent},
		{5.9, MoonWaxingCrescent},
		{6, MoonFirstQuarter},
		{8.9, MoonFirstQuarter},
		{9, MoonWaxingGibbous},
		{13.9, MoonWaxingGibbous},
		{14, MoonFull},
		{15.9, MoonFull},
		{16, MoonWaningGibbous},
		{19.9, MoonWaningGibbous},
		{20, MoonLastQuarter},
		{23.9, MoonLastQuarter},
		{24, MoonWaningCrescent},
		{28.5, MoonWaningCrescent},
		{28.6, MoonNew},
		// One full cycle later the bucket repeats.
		{SynodicPeriod + 0.5, MoonNew},
		{SynodicPeriod + 14.5, MoonFull},
	}

	for _, tt := range tests {
		got := engine.MoonPhase(atMoonAge(engine, tt.age))
		assert.Equalf(t, tt.want, got, "age %.2f", tt.age)
	}
}

func TestEngine_MoonPhase_BeforeEpoch(t *testing.T) {
	engine := NewEngine(jst)

	// Ages wrap backwards too: half a day before the reference new moon
	// sits at the tail of the previous cycle.
	got := engine.MoonPhase(engine.moonEpoch().Add(-12 * time.Hour))
	assert.Equal(t, MoonNew, got)
}

func TestMoonPhase_Strings(t *testing.T) {
	assert.Equal(t, "🌑 (新月)", MoonNew.String())
	assert.Equal(t, "🌕 (満月)", MoonFull.String())
	assert.Equal(t, "🌘 (有明月)", MoonWaningCrescent.String())
}
