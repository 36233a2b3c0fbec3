package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DateLayout is the wire format for calendar dates on the profile.
const DateLayout = "2006-01-02"

// Look is a cosmetic appearance state. Anything other than LookNormal
// requires the matching catalog item to be owned.
type Look string

const (
	LookNormal     Look = "normal"
	LookSunglasses Look = "sunglasses"
	LookPink       Look = "pink"
)

// Profile is the single per-user record. last_login is a calendar date in
// the bot timezone, stored as "2006-01-02"; empty means the user has never
// checked in.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull,unique"`
	CarrotCount int64     `bun:"carrot_count,notnull,default:0"`
	Streak      int       `bun:"current_streak,notnull,default:0"`
	LastLogin   string    `bun:"last_login"`
	Items       []string  `bun:"items,type:jsonb"`
	CurrentLook Look      `bun:"current_look,notnull,default:'normal'"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// HasItem reports whether the profile owns the given item key.
func (p *Profile) HasItem(key string) bool {
	for _, it := range p.Items {
		if it == key {
			return true
		}
	}
	return false
}

// RemoveItem deletes one occurrence of key from the item set.
func (p *Profile) RemoveItem(key string) {
	for i, it := range p.Items {
		if it == key {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return
		}
	}
}

// Clone returns a copy safe to mutate without touching the original
// snapshot. Items is the only reference field that the engine mutates.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Items = append([]string(nil), p.Items...)
	return &cp
}

func NewProfile(userID string, now time.Time) *Profile {
	return &Profile{
		UserID:      userID,
		CarrotCount: 0,
		Streak:      0,
		LastLogin:   "",
		Items:       []string{},
		CurrentLook: LookNormal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
