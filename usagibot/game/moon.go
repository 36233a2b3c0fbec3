package game

import (
	"math"
	"time"
)

// SynodicPeriod is the mean length of a lunar cycle in days.
const SynodicPeriod = 29.53059

type MoonPhase int

const (
	MoonNew MoonPhase = iota
	MoonWaxingCrescent
	MoonFirstQuarter
	MoonWaxingGibbous
	MoonFull
	MoonWaningGibbous
	MoonLastQuarter
	MoonWaningCrescent
)

func (p MoonPhase) Emoji() string {
	switch p {
	case MoonNew:
		return "🌑"
	case MoonWaxingCrescent:
		return "🌒"
	case MoonFirstQuarter:
		return "🌓"
	case MoonWaxingGibbous:
		return "🌔"
	case MoonFull:
		return "🌕"
	case MoonWaningGibbous:
		return "🌖"
	case MoonLastQuarter:
		return "🌗"
	default:
		return "🌘"
	}
}

func (p MoonPhase) Label() string {
	switch p {
	case MoonNew:
		return "新月"
	case MoonWaxingCrescent:
		return "三日月"
	case MoonFirstQuarter:
		return "上弦の月"
	case MoonWaxingGibbous:
		return "十三夜"
	case MoonFull:
		return "満月"
	case MoonWaningGibbous:
		return "寝待月"
	case MoonLastQuarter:
		return "下弦の月"
	default:
		return "有明月"
	}
}

func (p MoonPhase) String() string {
	return p.Emoji() + " (" + p.Label() + ")"
}

// moonEpoch returns the reference new moon of 2023-01-22 midnight in the
// engine timezone.
func (e *Engine) moonEpoch() time.Time {
	return time.Date(2023, time.January, 22, 0, 0, 0, 0, e.loc)
}

// MoonAge returns the days elapsed inside the current lunar cycle,
// fractional, in [0, SynodicPeriod).
func (e *Engine) MoonAge(now time.Time) float64 {
	days := now.Sub(e.moonEpoch()).Hours() / 24
	age := math.Mod(days, SynodicPeriod)
	if age < 0 {
		age += SynodicPeriod
	}
	return age
}

// MoonPhase buckets the moon age into one of eight phases. Deterministic,
// no I/O.
func (e *Engine) MoonPhase(now time.Time) MoonPhase {
	age := e.MoonAge(now)
	switch {
	case age < 1 || age > 28.5:
		return MoonNew
	case age < 6:
		return MoonWaxingCrescent
	case age < 9:
		return MoonFirstQuarter
	case age < 14:
		return MoonWaxingGibbous
	case age < 16:
		return MoonFull
	case age < 20:
		return MoonWaningGibbous
	case age < 24:
		return MoonLastQuarter
	default:
		return MoonWaningCrescent
	}
}
