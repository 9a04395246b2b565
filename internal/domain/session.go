package domain

import "time"

type Session struct {
	ID        string
	Username  Username
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}

	return !now.Before(s.ExpiresAt)
}
