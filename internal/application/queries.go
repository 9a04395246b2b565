package application

import "github.com/bnema/summ/internal/domain"

type Screen string

const (
	ScreenAuth Screen = "auth"
	ScreenMain Screen = "main"
)

type AuthForm string

const (
	AuthFormLogin  AuthForm = "login"
	AuthFormSignup AuthForm = "signup"
)

type StatusLevel string

const (
	StatusInfo  StatusLevel = "info"
	StatusError StatusLevel = "error"
)

type StatusLine struct {
	Message string
	Level   StatusLevel
}

func (s StatusLine) Empty() bool {
	return s.Message == ""
}

// HistoryItem is one row of the history list. Placeholder rows ("No history
// yet.") have no ID and cannot be opened.
type HistoryItem struct {
	ID          domain.HistoryEntryID
	Label       string
	Placeholder bool
}
