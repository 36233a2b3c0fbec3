package game

import (
	"time"

	"github.com/usagipet/usagibot/usagibot/database/models"
)

// Engine holds the pure decision logic for check-ins, purchases and
// appearance changes. It never touches the database: every operation takes
// a profile snapshot and returns a new snapshot plus an outcome, and the
// caller persists the changed columns. All calendar arithmetic runs in a
// single configured timezone.
type Engine struct {
	loc *time.Location
}

func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today returns the current calendar date in the engine timezone.
func (e *Engine) Today(now time.Time) string {
	return now.In(e.loc).Format(models.DateLayout)
}

// CheckIn processes the once-per-day morning greeting. The returned
// profile reflects the new carrot count, streak, last login and item set;
// on CheckInAlready the input snapshot is returned untouched and must not
// be written back.
func (e *Engine) CheckIn(snapshot *models.Profile, now time.Time) (*models.Profile, CheckInResult) {
	today := e.Today(now)

	if snapshot.LastLogin == today {
		return snapshot, CheckInResult{
			Status:  CheckInAlready,
			Streak:  snapshot.Streak,
			Carrots: snapshot.CarrotCount,
		}
	}

	p := snapshot.Clone()
	status := CheckInStarted
	newStreak := 1

	if p.LastLogin != "" {
		if delta, ok := e.daysBetween(p.LastLogin, today); ok {
			switch {
			case delta == 1:
				newStreak = p.Streak + 1
				status = CheckInContinued
			case delta > 1 && p.HasItem(string(ItemSubstituteDoll)):
				p.RemoveItem(string(ItemSubstituteDoll))
				newStreak = p.Streak + 1
				status = CheckInSavedByDoll
			case delta > 1:
				newStreak = 1
				status = CheckInBroken
			}
			// delta < 1 cannot happen while last_login is monotonic;
			// if it does, the streak restarts at 1.
		}
	}

	p.CarrotCount++
	p.LastLogin = today
	p.Streak = newStreak

	return p, CheckInResult{
		Status:  status,
		Streak:  newStreak,
		Carrots: p.CarrotCount,
	}
}

// daysBetween returns whole calendar days from one date string to another.
func (e *Engine) daysBetween(from, to string) (int, bool) {
	a, err := time.ParseInLocation(models.DateLayout, from, e.loc)
	if err != nil {
		return 0, false
	}
	b, err := time.ParseInLocation(models.DateLayout, to, e.loc)
	if err != nil {
		return 0, false
	}
	// Normalize to UTC midnights so DST shifts never produce a fractional
	// day.
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24), true
}

// Purchase buys a catalog item if it is not owned yet and the balance
// covers the price. The price check is inclusive: a balance equal to the
// price succeeds.
func (e *Engine) Purchase(snapshot *models.Profile, key ItemKey) (*models.Profile, PurchaseResult) {
	item, ok := CatalogItem(key)
	if !ok {
		return snapshot, PurchaseResult{Status: PurchaseUnknownItem, Balance: snapshot.CarrotCount}
	}

	if snapshot.HasItem(string(key)) {
		return snapshot, PurchaseResult{Status: PurchaseAlreadyOwned, Item: item, Balance: snapshot.CarrotCount}
	}

	if snapshot.CarrotCount < item.Price {
		return snapshot, PurchaseResult{Status: PurchaseInsufficientFunds, Item: item, Balance: snapshot.CarrotCount}
	}

	p := snapshot.Clone()
	p.CarrotCount -= item.Price
	p.Items = append(p.Items, string(key))

	return p, PurchaseResult{Status: PurchaseOK, Item: item, Balance: p.CarrotCount}
}

// ChangeLook switches the cosmetic appearance. Looks other than normal
// require their unlocking item to be owned; resetting to normal always
// succeeds.
func (e *Engine) ChangeLook(snapshot *models.Profile, look models.Look) (*models.Profile, LookResult) {
	if required, ok := RequiredItem(look); ok && !snapshot.HasItem(string(required)) {
		return snapshot, LookResult{Status: LookMissingItem, MissingItem: required}
	}

	p := snapshot.Clone()
	p.CurrentLook = look
	return p, LookResult{Status: LookChanged}
}
