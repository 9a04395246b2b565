package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/summ/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/summ/internal/adapters/repo/toml"
	"github.com/bnema/summ/internal/adapters/session/memory"
	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/logging"
	"github.com/bnema/summ/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, digest string) (bool, error) {
	return digest == "plain:"+password, nil
}

type answer bool

func (a answer) Confirm(context.Context, string) (bool, error) { return bool(a), nil }

type workbenchFixture struct {
	wb         *Workbench
	summarizer *mocks.MockSummarizer
	history    *sqlite.HistoryRepository
	sessions   *memory.Store
	dir        string
}

func newWorkbenchFixture(t *testing.T) workbenchFixture {
	t.Helper()

	dir := t.TempDir()
	clock := &stepClock{now: time.Date(2026, 7, 9, 14, 3, 0, 0, time.UTC)}

	creds, err := tomlrepo.NewCredentialRepository(filepath.Join(dir, "users.toml"))
	require.NoError(t, err)
	history, err := sqlite.Open(context.Background(), filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = history.Close() })

	sessions := memory.NewStore(clock)
	summarizer := mocks.NewMockSummarizer(t)

	wb := NewWorkbench(WorkbenchDeps{
		Auth:       NewAuthService(creds, plainHasher{}, sessions, clock, time.Hour),
		Input:      NewInputService(mocks.NewMockDocumentParser(t)),
		Summarizer: summarizer,
		History:    NewHistoryService(history, clock),
		Logger:     logging.Discard(),
		Clock:      clock,
		Location:   time.UTC,
	})

	return workbenchFixture{wb: wb, summarizer: summarizer, history: history, sessions: sessions, dir: dir}
}

func (f workbenchFixture) loginAs(t *testing.T, username string) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.wb.Signup(ctx, Credentials{Username: username, Password: "pw"}))
	require.NoError(t, f.wb.Login(ctx, Credentials{Username: username, Password: "pw"}))
}

func TestWorkbenchStartsOnLoginForm(t *testing.T) {
	f := newWorkbenchFixture(t)

	require.NoError(t, f.wb.CheckLoginState(context.Background()))

	v := f.wb.View()
	assert.Equal(t, ScreenAuth, v.Screen)
	assert.Equal(t, AuthFormLogin, v.Form)
	assert.False(t, v.LogoutVisible)
	assert.Equal(t, "AI Text Summarizer", v.Title)
	_, ok := f.wb.Session()
	assert.False(t, ok)
}

func TestWorkbenchSignupFlow(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()

	f.wb.ShowSignupForm()
	err := f.wb.Signup(ctx, Credentials{Username: " ", Password: "pw"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, StatusLine{Message: "Username and password are required.", Level: StatusError}, f.wb.View().AuthStatus)

	require.NoError(t, f.wb.Signup(ctx, Credentials{Username: "alice", Password: "pw"}))
	v := f.wb.View()
	assert.Equal(t, AuthFormLogin, v.Form)
	assert.Equal(t, StatusLine{Message: "Signup successful! Please log in.", Level: StatusInfo}, v.AuthStatus)
	assert.Equal(t, Credentials{}, v.SignupFields)

	f.wb.ShowSignupForm()
	assert.True(t, f.wb.View().AuthStatus.Empty(), "switching forms clears the auth status")

	err = f.wb.Signup(ctx, Credentials{Username: "alice", Password: "other"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, StatusLine{Message: "Username already exists.", Level: StatusError}, f.wb.View().AuthStatus)
}

func TestWorkbenchSignupStoreFailure(t *testing.T) {
	f := newWorkbenchFixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "users.toml"), 0o700))

	err := f.wb.Signup(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Signup failed. Please try again.", f.wb.View().AuthStatus.Message)
}

func TestWorkbenchLoginFlow(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()

	require.NoError(t, f.wb.Signup(ctx, Credentials{Username: "alice", Password: "pw"}))

	for _, c := range []Credentials{{Username: "alice", Password: "nope"}, {Username: "bob", Password: "pw"}} {
		err := f.wb.Login(ctx, c)
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, StatusLine{Message: "Invalid username or password.", Level: StatusError}, f.wb.View().AuthStatus)
		assert.Equal(t, ScreenAuth, f.wb.View().Screen)
	}

	require.NoError(t, f.wb.Login(ctx, Credentials{Username: " alice ", Password: "pw "}))

	v := f.wb.View()
	assert.Equal(t, ScreenMain, v.Screen)
	assert.True(t, v.LogoutVisible)
	assert.Equal(t, "AI Text Summarizer (Logged in as: alice)", v.Title)
	assert.True(t, v.AuthStatus.Empty())
	assert.Equal(t, Credentials{}, v.LoginFields)
	assert.Equal(t, []HistoryItem{{Label: "No history yet.", Placeholder: true}}, v.History)
	assert.False(t, v.ClearVisible)

	session, ok := f.wb.Session()
	require.True(t, ok)
	assert.Equal(t, domain.Username("alice"), session.Username)
}

func TestWorkbenchLoginStoreFailure(t *testing.T) {
	f := newWorkbenchFixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(f.dir, "users.toml"), 0o700))

	err := f.wb.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, StatusLine{Message: "Login failed. Please try again.", Level: StatusError}, f.wb.View().AuthStatus)
}

func TestWorkbenchHandlersRequireSession(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()

	checks := map[string]func() error{
		"summarize":    func() error { return f.wb.Summarize(ctx) },
		"load history": func() error { return f.wb.LoadHistory(ctx) },
		"open":         func() error { return f.wb.OpenHistoryEntry(ctx, "x") },
		"clear":        func() error { return f.wb.ClearHistory(ctx, answer(true)) },
		"load file":    func() error { return f.wb.LoadFile(ctx, LoadFileCommand{Path: "x.txt"}) },
	}
	for name, run := range checks {
		err := run()
		require.ErrorIs(t, err, domain.ErrNoSession, name)
		assert.Equal(t, StatusLine{Message: "Please log in first.", Level: StatusError}, f.wb.View().Status, name)
	}
}

func TestWorkbenchSummarizeRecordsHistory(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	f.loginAs(t, "alice")

	f.summarizer.EXPECT().Summarize(mockAnyContext(), "The quick brown fox.").Return("A fox.", nil).Once()

	f.wb.SetInput("  The quick brown fox.\n")
	require.NoError(t, f.wb.Summarize(ctx))

	v := f.wb.View()
	assert.Equal(t, "A fox.", v.Output)
	assert.Equal(t, StatusLine{Message: "Summary generated successfully!", Level: StatusInfo}, v.Status)
	require.Len(t, v.History, 1)
	assert.False(t, v.History[0].Placeholder)
	assert.True(t, strings.HasPrefix(v.History[0].Label, "Summary from 7/9/2026, 2:03:"), v.History[0].Label)
	assert.True(t, v.ClearVisible)

	entry, err := f.history.Get(ctx, v.History[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox.", entry.OriginalText)
	assert.Equal(t, "A fox.", entry.Summary)
}

func TestWorkbenchNewestSummaryListedFirst(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	f.loginAs(t, "alice")

	f.summarizer.EXPECT().Summarize(mockAnyContext(), "first").Return("1", nil).Once()
	f.summarizer.EXPECT().Summarize(mockAnyContext(), "second").Return("2", nil).Once()

	f.wb.SetInput("first")
	require.NoError(t, f.wb.Summarize(ctx))
	f.wb.SetInput("second")
	require.NoError(t, f.wb.Summarize(ctx))

	v := f.wb.View()
	require.Len(t, v.History, 2)
	require.NoError(t, f.wb.OpenHistoryEntry(ctx, v.History[0].ID))
	assert.Equal(t, "second", f.wb.View().Input)
	assert.Equal(t, "2", f.wb.View().Output)
	assert.True(t, strings.HasPrefix(f.wb.View().Status.Message, "Loaded history item from 7/9/2026"))
}

func TestWorkbenchSummarizeEmptyInput(t *testing.T) {
	f := newWorkbenchFixture(t)
	f.loginAs(t, "alice")

	f.wb.SetInput(" \n\t ")
	err := f.wb.Summarize(context.Background())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, StatusLine{Message: "Error: Please enter text or upload a file to summarize.", Level: StatusError}, f.wb.View().Status)
}

func TestWorkbenchSummarizeFailures(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{
			name:       "http error",
			err:        &domain.HTTPError{StatusCode: 400, Status: "400 Bad Request", Message: "API key not valid."},
			wantStatus: "Error: API request failed: 400 Bad Request. API key not valid.",
		},
		{
			name:       "unexpected shape",
			err:        errors.Join(errors.New("decode"), domain.ErrParse),
			wantStatus: "Error: Could not extract summary from API response.",
		},
		{
			name:       "transport",
			err:        errors.New("connection refused"),
			wantStatus: "Error: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newWorkbenchFixture(t)
			f.loginAs(t, "alice")
			f.summarizer.EXPECT().Summarize(mockAnyContext(), "text").Return("", tc.err).Once()

			f.wb.SetInput("text")
			err := f.wb.Summarize(context.Background())
			require.Error(t, err)

			v := f.wb.View()
			assert.Equal(t, StatusLine{Message: tc.wantStatus, Level: StatusError}, v.Status)
			assert.Equal(t, "Failed to generate summary. Check console for details.", v.Output)
			assert.Equal(t, []HistoryItem{{Label: "No history yet.", Placeholder: true}}, v.History)
		})
	}
}

func TestWorkbenchLoadFile(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	f.loginAs(t, "alice")

	txt := filepath.Join(f.dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("from a file"), 0o600))
	require.NoError(t, f.wb.LoadFile(ctx, LoadFileCommand{Path: txt}))
	assert.Equal(t, "from a file", f.wb.View().Input)
	assert.Equal(t, StatusLine{Message: "File 'notes.txt' loaded successfully.", Level: StatusInfo}, f.wb.View().Status)

	img := filepath.Join(f.dir, "photo.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	err := f.wb.LoadFile(ctx, LoadFileCommand{Path: img})
	require.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	assert.Empty(t, f.wb.View().Input)
	assert.Equal(t, StatusLine{Message: "Error: Please upload a .txt or .pdf file.", Level: StatusError}, f.wb.View().Status)

	f.wb.SetInput("keep?")
	err = f.wb.LoadFile(ctx, LoadFileCommand{Path: filepath.Join(f.dir, "gone.txt")})
	require.ErrorIs(t, err, domain.ErrIO)
	assert.Empty(t, f.wb.View().Input)
	assert.Equal(t, "Error reading file.", f.wb.View().Status.Message)
}

func TestWorkbenchOpenMissingHistoryEntry(t *testing.T) {
	f := newWorkbenchFixture(t)
	f.loginAs(t, "alice")

	err := f.wb.OpenHistoryEntry(context.Background(), "2020-01-01T00:00:00.000Z")
	require.ErrorIs(t, err, domain.ErrHistoryEntryNotFound)
	assert.Equal(t, StatusLine{Message: "Error loading history item.", Level: StatusError}, f.wb.View().Status)
}

func TestWorkbenchClearHistory(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	f.loginAs(t, "alice")

	f.summarizer.EXPECT().Summarize(mockAnyContext(), "text").Return("sum", nil).Once()
	f.wb.SetInput("text")
	require.NoError(t, f.wb.Summarize(ctx))

	require.NoError(t, f.wb.ClearHistory(ctx, answer(false)))
	assert.Len(t, f.wb.View().History, 1)
	assert.Equal(t, "sum", f.wb.View().Output, "declining leaves everything in place")

	require.NoError(t, f.wb.ClearHistory(ctx, answer(true)))
	v := f.wb.View()
	assert.Equal(t, StatusLine{Message: "History cleared.", Level: StatusInfo}, v.Status)
	assert.Empty(t, v.Input)
	assert.Empty(t, v.Output)
	assert.Equal(t, []HistoryItem{{Label: "No history yet.", Placeholder: true}}, v.History)
	assert.False(t, v.ClearVisible)

	require.NoError(t, f.wb.ClearHistory(ctx, answer(true)), "clearing an empty store succeeds")
}

func TestWorkbenchHistoryLoadFailure(t *testing.T) {
	f := newWorkbenchFixture(t)
	f.loginAs(t, "alice")
	require.NoError(t, f.history.Close())

	err := f.wb.LoadHistory(context.Background())
	require.Error(t, err)

	v := f.wb.View()
	assert.Equal(t, StatusLine{Message: "Error loading history.", Level: StatusError}, v.Status)
	assert.Equal(t, []HistoryItem{{Label: "Error loading history.", Placeholder: true}}, v.History)
	assert.False(t, v.ClearVisible)
}

func TestWorkbenchLogoutResetsView(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	f.loginAs(t, "alice")
	f.wb.SetInput("draft")

	require.NoError(t, f.wb.Logout(ctx))

	v := f.wb.View()
	assert.Equal(t, ScreenAuth, v.Screen)
	assert.Equal(t, AuthFormLogin, v.Form)
	assert.False(t, v.LogoutVisible)
	assert.Equal(t, "AI Text Summarizer", v.Title)
	assert.Empty(t, v.Input)
	_, ok := f.wb.Session()
	assert.False(t, ok)

	_, err := f.sessions.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNoSession)
}

func TestWorkbenchCheckLoginStateResumesSession(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, domain.Session{ID: "s", Username: "carol"}))

	require.NoError(t, f.wb.CheckLoginState(ctx))

	v := f.wb.View()
	assert.Equal(t, ScreenMain, v.Screen)
	assert.Equal(t, "AI Text Summarizer (Logged in as: carol)", v.Title)
	assert.Equal(t, []HistoryItem{{Label: "No history yet.", Placeholder: true}}, v.History)
}

func TestWorkbenchExpiredSessionFallsBackToLogin(t *testing.T) {
	f := newWorkbenchFixture(t)
	ctx := context.Background()
	past := time.Date(2026, 7, 9, 10, 0, 0, 0, time.UTC)
	require.NoError(t, f.sessions.Save(ctx, domain.Session{ID: "s", Username: "carol", IssuedAt: past, ExpiresAt: past.Add(time.Hour)}))

	require.NoError(t, f.wb.CheckLoginState(ctx))
	assert.Equal(t, ScreenAuth, f.wb.View().Screen)
}
