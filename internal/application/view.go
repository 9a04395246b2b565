package application

import "slices"

const (
	baseTitle = "AI Text Summarizer"

	msgCredentialsRequired = "Username and password are required."
	msgSigningUp           = "Signing up..."
	msgUsernameTaken       = "Username already exists."
	msgSignupSucceeded     = "Signup successful! Please log in."
	msgSignupFailed        = "Signup failed. Please try again."
	msgLoggingIn           = "Logging in..."
	msgInvalidCredentials  = "Invalid username or password."
	msgLoginFailed         = "Login failed. Please try again."
	msgLoginRequired       = "Please log in first."
	msgLogoutFailed        = "Logout failed. Please try again."

	msgEmptyInput        = "Error: Please enter text or upload a file to summarize."
	msgSummarizing       = "Summarizing..."
	msgSummarized        = "Summary generated successfully!"
	msgSummaryFailedPane = "Failed to generate summary. Check console for details."
	msgFileLoaded        = "File '%s' loaded successfully."
	msgFileReadFailed    = "Error reading file."
	msgUnsupportedFile   = "Error: Please upload a .txt or .pdf file."

	msgNoHistory          = "No history yet."
	msgHistoryItemLabel   = "Summary from %s"
	msgHistoryItemLoaded  = "Loaded history item from %s"
	msgHistoryItemFailed  = "Error loading history item."
	msgHistoryLoadFailed  = "Error loading history."
	msgHistoryCleared     = "History cleared."
	msgHistoryClearFailed = "Error clearing history."
	msgHistorySaveFailed  = "Error: summary was not saved to history."
)

// View is the full presentation state. Renderers read it; only Workbench
// handlers write it.
type View struct {
	Screen        Screen
	Form          AuthForm
	LogoutVisible bool
	Title         string
	AuthStatus    StatusLine
	Status        StatusLine

	// Form fields, cleared whenever they may hold a password.
	LoginFields  Credentials
	SignupFields Credentials

	Input        string
	Output       string
	History      []HistoryItem
	ClearVisible bool
}

func newView() View {
	v := View{}
	v.showAuthForms()
	return v
}

func (v View) clone() View {
	v.History = slices.Clone(v.History)
	return v
}

func (v *View) setAuthStatus(message string, level StatusLevel) {
	v.AuthStatus = StatusLine{Message: message, Level: level}
}

func (v *View) setStatus(message string, level StatusLevel) {
	v.Status = StatusLine{Message: message, Level: level}
}

func (v *View) showLoginForm() {
	v.Form = AuthFormLogin
	v.setAuthStatus("", StatusInfo)
}

func (v *View) showSignupForm() {
	v.Form = AuthFormSignup
	v.setAuthStatus("", StatusInfo)
}

func (v *View) showAuthForms() {
	v.Screen = ScreenAuth
	v.LogoutVisible = false
	v.showLoginForm()
	v.Title = baseTitle
	v.LoginFields = Credentials{}
	v.SignupFields = Credentials{}
	v.setAuthStatus("", StatusInfo)
}

func (v *View) showAppContent(username string) {
	v.Screen = ScreenMain
	v.LogoutVisible = true
	v.Title = baseTitle + " (Logged in as: " + username + ")"
}

func (v *View) setHistory(items []HistoryItem, clearVisible bool) {
	v.History = items
	v.ClearVisible = clearVisible
}
