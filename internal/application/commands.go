package application

// Credentials are the values typed into the signup or login form.
type Credentials struct {
	Username string
	Password string
}

type LoadFileCommand struct {
	Path string
}
