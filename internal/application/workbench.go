package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/logging"
	"github.com/bnema/summ/internal/ports"
)

type WorkbenchDeps struct {
	Auth       *AuthService
	Input      *InputService
	Summarizer ports.Summarizer
	History    *HistoryService
	Logger     logging.Logger
	Clock      ports.Clock
	// Location is used for history timestamps. Nil means time.Local.
	Location *time.Location
}

// Workbench owns the view and the current session and exposes one handler
// per user action. Each handler writes the outcome into the view, logs
// failures and returns the error so callers can pick an exit code.
type Workbench struct {
	auth       *AuthService
	input      *InputService
	summarizer ports.Summarizer
	history    *HistoryService
	log        logging.Logger
	clock      ports.Clock
	loc        *time.Location

	view    View
	session *domain.Session
}

func NewWorkbench(deps WorkbenchDeps) *Workbench {
	w := &Workbench{
		auth:       deps.Auth,
		input:      deps.Input,
		summarizer: deps.Summarizer,
		history:    deps.History,
		log:        deps.Logger,
		clock:      deps.Clock,
		loc:        deps.Location,
		view:       newView(),
	}
	if w.log == nil {
		w.log = logging.Discard()
	}
	if w.clock == nil {
		w.clock = ports.SystemClock{}
	}
	if w.loc == nil {
		w.loc = time.Local
	}

	return w
}

func (w *Workbench) View() View {
	return w.view.clone()
}

func (w *Workbench) Session() (domain.Session, bool) {
	if w.session == nil {
		return domain.Session{}, false
	}

	return *w.session, true
}

func (w *Workbench) CheckLoginState(ctx context.Context) error {
	session, err := w.auth.Current(ctx)
	if errors.Is(err, domain.ErrNoSession) {
		w.session = nil
		w.view.showAuthForms()
		return nil
	}
	if err != nil {
		w.log.Error(ctx, "check login state", "error", err)
		w.session = nil
		w.view.showAuthForms()
		return err
	}

	w.enter(ctx, session)
	return nil
}

func (w *Workbench) ShowLoginForm() {
	w.view.showLoginForm()
}

func (w *Workbench) ShowSignupForm() {
	w.view.showSignupForm()
}

func (w *Workbench) Signup(ctx context.Context, c Credentials) error {
	w.view.SignupFields = c
	if strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == "" {
		w.view.setAuthStatus(msgCredentialsRequired, StatusError)
		return fmt.Errorf("signup: %w", domain.ErrValidation)
	}

	w.view.setAuthStatus(msgSigningUp, StatusInfo)

	err := w.auth.Signup(ctx, c)
	switch {
	case err == nil:
		w.log.Info(ctx, "signup succeeded", "username", strings.TrimSpace(c.Username))
		w.view.SignupFields = Credentials{}
		w.view.showLoginForm()
		w.view.setAuthStatus(msgSignupSucceeded, StatusInfo)
		return nil
	case errors.Is(err, domain.ErrConflict):
		w.view.setAuthStatus(msgUsernameTaken, StatusError)
	case errors.Is(err, domain.ErrValidation):
		w.view.setAuthStatus(msgCredentialsRequired, StatusError)
	default:
		w.log.Error(ctx, "signup failed", "error", err)
		w.view.setAuthStatus(msgSignupFailed, StatusError)
	}

	return err
}

func (w *Workbench) Login(ctx context.Context, c Credentials) error {
	w.view.LoginFields = c
	if strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == "" {
		w.view.setAuthStatus(msgCredentialsRequired, StatusError)
		return fmt.Errorf("login: %w", domain.ErrValidation)
	}

	w.view.setAuthStatus(msgLoggingIn, StatusInfo)

	session, err := w.auth.Login(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidCredentials):
		w.log.Warn(ctx, "login rejected", "username", strings.TrimSpace(c.Username))
		w.view.setAuthStatus(msgInvalidCredentials, StatusError)
		return err
	case errors.Is(err, domain.ErrValidation):
		w.view.setAuthStatus(msgCredentialsRequired, StatusError)
		return err
	default:
		w.log.Error(ctx, "login failed", "error", err)
		w.view.setAuthStatus(msgLoginFailed, StatusError)
		return err
	}

	w.log.Info(ctx, "login succeeded", "username", session.Username, "session_id", session.ID)
	w.view.setAuthStatus("", StatusInfo)
	w.view.LoginFields = Credentials{}
	w.enter(ctx, session)

	return nil
}

// Logout always leaves the view on the login form, even when the stored
// session could not be removed.
func (w *Workbench) Logout(ctx context.Context) error {
	err := w.auth.Logout(ctx)
	w.session = nil
	w.view.showAuthForms()
	w.view.Input, w.view.Output = "", ""
	w.view.setHistory(nil, false)
	w.view.setStatus("", StatusInfo)

	if err != nil {
		w.log.Error(ctx, "logout failed", "error", err)
		w.view.setAuthStatus(msgLogoutFailed, StatusError)
		return err
	}

	return nil
}

func (w *Workbench) SetInput(text string) {
	w.view.Input = text
}

func (w *Workbench) LoadFile(ctx context.Context, cmd LoadFileCommand) error {
	if err := w.requireSession(ctx); err != nil {
		return err
	}

	file, err := w.input.LoadFile(ctx, cmd)
	switch {
	case err == nil:
		w.view.Input = file.Text
		w.view.setStatus(fmt.Sprintf(msgFileLoaded, file.Name), StatusInfo)
		w.log.Info(ctx, "file loaded", "name", file.Name, "kind", string(file.Kind), "chars", len(file.Text))
		return nil
	case errors.Is(err, domain.ErrUnsupportedFileType):
		w.view.setStatus(msgUnsupportedFile, StatusError)
	default:
		w.view.setStatus(msgFileReadFailed, StatusError)
	}

	w.log.Error(ctx, "load file failed", "path", cmd.Path, "error", err)
	w.view.Input = ""
	return err
}

// Summarize sends the trimmed input pane to the summarizer and records the
// pair in history.
func (w *Workbench) Summarize(ctx context.Context) error {
	if err := w.requireSession(ctx); err != nil {
		return err
	}

	text := strings.TrimSpace(w.view.Input)
	if text == "" {
		w.view.setStatus(msgEmptyInput, StatusError)
		return fmt.Errorf("summarize: empty input: %w", domain.ErrValidation)
	}

	w.view.setStatus(msgSummarizing, StatusInfo)
	w.view.Output = ""

	summary, err := w.summarizer.Summarize(ctx, text)
	if err != nil {
		w.log.Error(ctx, "summarize failed", "error", err)
		w.view.setStatus("Error: "+userMessage(err), StatusError)
		w.view.Output = msgSummaryFailedPane
		return err
	}

	w.view.Output = summary
	w.view.setStatus(msgSummarized, StatusInfo)

	entry, err := w.history.Record(ctx, text, summary)
	if err != nil {
		w.log.Error(ctx, "record history failed", "error", err)
		w.view.setStatus(msgHistorySaveFailed, StatusError)
		return err
	}
	w.log.Info(ctx, "summary recorded", "id", string(entry.ID), "input_chars", len(text))

	return w.refreshHistory(ctx)
}

func (w *Workbench) LoadHistory(ctx context.Context) error {
	if err := w.requireSession(ctx); err != nil {
		return err
	}

	return w.refreshHistory(ctx)
}

func (w *Workbench) OpenHistoryEntry(ctx context.Context, id domain.HistoryEntryID) error {
	if err := w.requireSession(ctx); err != nil {
		return err
	}

	entry, err := w.history.Get(ctx, id)
	if err != nil {
		w.log.Error(ctx, "load history item failed", "id", string(id), "error", err)
		w.view.setStatus(msgHistoryItemFailed, StatusError)
		return err
	}

	w.view.Input = entry.OriginalText
	w.view.Output = entry.Summary
	w.view.setStatus(fmt.Sprintf(msgHistoryItemLoaded, domain.DisplayTime(entry.Timestamp, w.loc)), StatusInfo)

	return nil
}

// ClearHistory does nothing when the confirmer declines.
func (w *Workbench) ClearHistory(ctx context.Context, confirmer ports.Confirmer) error {
	if err := w.requireSession(ctx); err != nil {
		return err
	}

	cleared, err := w.history.Clear(ctx, confirmer)
	if err != nil {
		w.log.Error(ctx, "clear history failed", "error", err)
		w.view.setStatus(msgHistoryClearFailed, StatusError)
		return err
	}
	if !cleared {
		return nil
	}

	w.log.Info(ctx, "history cleared")
	w.view.setStatus(msgHistoryCleared, StatusInfo)
	w.view.Input, w.view.Output = "", ""

	return w.refreshHistory(ctx)
}

func (w *Workbench) enter(ctx context.Context, session domain.Session) {
	w.session = &session
	w.view.showAppContent(string(session.Username))

	// A failed reload is already reported in the view.
	_ = w.refreshHistory(ctx)
}

func (w *Workbench) refreshHistory(ctx context.Context) error {
	entries, err := w.history.List(ctx)
	if err != nil {
		w.log.Error(ctx, "load history failed", "error", err)
		w.view.setStatus(msgHistoryLoadFailed, StatusError)
		w.view.setHistory([]HistoryItem{{Label: msgHistoryLoadFailed, Placeholder: true}}, false)
		return err
	}

	if len(entries) == 0 {
		w.view.setHistory([]HistoryItem{{Label: msgNoHistory, Placeholder: true}}, false)
		return nil
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:    e.ID,
			Label: fmt.Sprintf(msgHistoryItemLabel, domain.DisplayTime(e.Timestamp, w.loc)),
		})
	}
	w.view.setHistory(items, true)

	return nil
}

func (w *Workbench) requireSession(ctx context.Context) error {
	if w.session != nil && !w.session.Expired(w.clock.Now()) {
		return nil
	}

	if w.session != nil {
		w.log.Info(ctx, "session expired", "username", string(w.session.Username))
		w.session = nil
		w.view.showAuthForms()
	}
	w.view.setStatus(msgLoginRequired, StatusError)

	return domain.ErrNoSession
}

// userMessage is the text shown after "Error: " in the status line.
func userMessage(err error) string {
	var httpErr *domain.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Error()
	case errors.Is(err, domain.ErrParse):
		return "Could not extract summary from API response."
	case errors.Is(err, context.DeadlineExceeded):
		return "The summarization request timed out."
	default:
		return err.Error()
	}
}
