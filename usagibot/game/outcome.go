package game

// Domain outcomes are data, never errors: every operation reports what
// happened through one of these results and the caller decides how to
// render it.

type CheckInStatus int

const (
	// CheckInAlready means the user already checked in today; nothing
	// changed and nothing must be written.
	CheckInAlready CheckInStatus = iota
	// CheckInStarted is the first check-in ever.
	CheckInStarted
	CheckInContinued
	// CheckInSavedByDoll means one or more days were missed but a
	// substitute doll was consumed to keep the streak alive.
	CheckInSavedByDoll
	CheckInBroken
)

type CheckInResult struct {
	Status  CheckInStatus
	Streak  int
	Carrots int64
}

type PurchaseStatus int

const (
	PurchaseOK PurchaseStatus = iota
	PurchaseAlreadyOwned
	PurchaseInsufficientFunds
	PurchaseUnknownItem
)

type PurchaseResult struct {
	Status  PurchaseStatus
	Item    Item
	Balance int64
}

type LookStatus int

const (
	LookChanged LookStatus = iota
	LookMissingItem
)

type LookResult struct {
	Status      LookStatus
	MissingItem ItemKey
}
