package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/summ/internal/application"
	"github.com/bnema/summ/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter reads answers from the command's stdin. Passwords are read
// without echo when stdin is a terminal.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	terminal bool
}

var _ ports.Confirmer = (*prompter)(nil)

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	p := &prompter{in: bufio.NewReader(in), out: cmd.ErrOrStderr()}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.terminal = true
	}

	return p
}

func (p *prompter) line(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}

	raw, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && raw != "" {
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}

	return strings.TrimRight(raw, "\r\n"), nil
}

func (p *prompter) password(label string) (string, error) {
	if !p.terminal {
		return p.line(label)
	}

	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}
	raw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return string(raw), nil
}

func (p *prompter) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := p.line(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}

	return isYes(answer), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

type assumeYes struct{}

func (assumeYes) Confirm(context.Context, string) (bool, error) { return true, nil }

// readCredentials prompts for whichever of username and password was not
// given as a flag.
func readCredentials(p *prompter, username, password string) (application.Credentials, error) {
	var err error
	if username == "" {
		if username, err = p.line("Username: "); err != nil {
			return application.Credentials{}, err
		}
	}
	if password == "" {
		if password, err = p.password("Password: "); err != nil {
			return application.Credentials{}, err
		}
	}

	return application.Credentials{Username: username, Password: password}, nil
}
