package domain

import (
	"strings"
	"time"
)

type Username string

func NormalizeUsername(raw string) Username {
	return Username(strings.TrimSpace(raw))
}

// Credential is the stored username and password digest pair. It is created once on
// signup and never rewritten.
type Credential struct {
	Username     Username
	PasswordHash string
	CreatedAt    time.Time
}
