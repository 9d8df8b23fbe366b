package domain

import "time"

// Token is a server-side session record. The value is opaque to the holder;
// validity is decided by this record, never by the value alone.
type Token struct {
	ID        uint      `json:"-"`
	Value     string    `json:"token"`
	UserID    uint      `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Active    bool      `json:"-"`
}

func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
