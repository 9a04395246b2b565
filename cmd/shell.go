package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bnema/summ/internal/adapters/render/view"
	"github.com/bnema/summ/internal/application"
	"github.com/bnema/summ/internal/ports"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  signup <username> [password]   create an account
  login <username> [password]    log in for this shell session
  logout                         end the session
  text <text>                    set the input pane
  upload <path>                  load a .txt or .pdf file into the input pane
  summarize                      summarize the input pane
  history                        list saved summaries
  open <n|id>                    show a saved summary
  clear                          delete all history
  status                         show the whole screen
  help                           show this help
  exit                           leave the shell`

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	ReadPassword(prompt string) ([]byte, error)
	SetPrompt(prompt string)
	Close() error
}

func newReadlineReader(in io.Reader, out io.Writer, historyFile string) (lineReader, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "summ> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           io.NopCloser(in),
		Stdout:          out,
	})
}

func newShellCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session; the login ends with the shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			wb, err := app.workbench(ctx, app.memorySessions())
			if err != nil {
				return err
			}
			if err := wb.CheckLoginState(ctx); err != nil {
				return err
			}

			rl, err := app.newLineReader(cmd.InOrStdin(), cmd.OutOrStdout(), filepath.Join(app.cfg.DataDir, "shell_history"))
			if err != nil {
				return fmt.Errorf("start readline: %w", err)
			}
			defer rl.Close()

			sh := &shell{wb: wb, rl: rl, out: cmd.OutOrStdout()}
			fmt.Fprintln(sh.out, view.Render(wb.View()))
			fmt.Fprintln(sh.out, "Type 'help' for commands.")

			return sh.run(ctx)
		},
	}
}

type shell struct {
	wb  *application.Workbench
	rl  lineReader
	out io.Writer
}

func (s *shell) run(ctx context.Context) error {
	for {
		s.rl.SetPrompt(s.prompt())

		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(s.out, "Use 'exit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		args := parseArgs(line)
		if len(args) == 0 {
			continue
		}

		quit, err := s.execute(ctx, args, strings.TrimSpace(strings.TrimPrefix(line, args[0])))
		if quit {
			return nil
		}

		var done reportedError
		if err != nil && !errors.As(err, &done) {
			fmt.Fprintln(s.out, "Error:", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// execute runs one shell command. rest is the raw text after the command
// word.
func (s *shell) execute(ctx context.Context, args []string, rest string) (bool, error) {
	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, shellHelp)
		return false, nil
	case "signup":
		return false, s.signup(ctx, args[1:])
	case "login":
		return false, s.login(ctx, args[1:])
	case "logout":
		err := s.wb.Logout(ctx)
		s.printStatus(s.wb.View().AuthStatus)
		if err == nil {
			fmt.Fprintln(s.out, "Logged out.")
		}
		return false, reported(err)
	case "text":
		s.wb.SetInput(rest)
		fmt.Fprintf(s.out, "Input set (%d characters).\n", utf8.RuneCountInString(rest))
		return false, nil
	case "upload":
		if len(args) != 2 {
			return false, errors.New("usage: upload <path>")
		}
		err := s.wb.LoadFile(ctx, application.LoadFileCommand{Path: args[1]})
		s.printStatus(s.wb.View().Status)
		return false, reported(err)
	case "summarize":
		fmt.Fprintln(s.out, "Summarizing...")
		err := s.wb.Summarize(ctx)
		v := s.wb.View()
		if v.Output != "" {
			fmt.Fprintln(s.out, v.Output)
		}
		s.printStatus(v.Status)
		return false, reported(err)
	case "history":
		err := s.wb.LoadHistory(ctx)
		v := s.wb.View()
		if err != nil {
			s.printStatus(v.Status)
			return false, reported(err)
		}
		fmt.Fprintln(s.out, view.RenderHistory(v.History, v.ClearVisible))
		return false, nil
	case "open":
		return false, s.open(ctx, args[1:])
	case "clear":
		before := s.wb.View().Status
		err := s.wb.ClearHistory(ctx, lineConfirmer{rl: s.rl, prompt: s.prompt()})
		if v := s.wb.View(); v.Status != before {
			s.printStatus(v.Status)
		}
		return false, reported(err)
	case "status":
		fmt.Fprintln(s.out, view.Render(s.wb.View()))
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", args[0])
	}
}

func (s *shell) signup(ctx context.Context, args []string) error {
	creds, err := s.credentials(args)
	if err != nil {
		return err
	}

	s.wb.ShowSignupForm()
	err = s.wb.Signup(ctx, creds)
	s.printStatus(s.wb.View().AuthStatus)

	return reported(err)
}

func (s *shell) login(ctx context.Context, args []string) error {
	creds, err := s.credentials(args)
	if err != nil {
		return err
	}

	if err := s.wb.Login(ctx, creds); err != nil {
		s.printStatus(s.wb.View().AuthStatus)
		return reported(err)
	}

	v := s.wb.View()
	fmt.Fprintln(s.out, v.Title)
	fmt.Fprintln(s.out, view.RenderHistory(v.History, v.ClearVisible))
	s.printStatus(v.Status)

	return nil
}

func (s *shell) credentials(args []string) (application.Credentials, error) {
	switch len(args) {
	case 1:
		password, err := s.rl.ReadPassword("Password: ")
		if err != nil {
			return application.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		return application.Credentials{Username: args[0], Password: string(password)}, nil
	case 2:
		return application.Credentials{Username: args[0], Password: args[1]}, nil
	default:
		return application.Credentials{}, errors.New("usage: signup|login <username> [password]")
	}
}

func (s *shell) open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open <n|id>")
	}

	if err := s.wb.LoadHistory(ctx); err != nil {
		s.printStatus(s.wb.View().Status)
		return reported(err)
	}

	id, err := resolveHistoryID(s.wb.View(), args[0])
	if err != nil {
		return err
	}

	err = s.wb.OpenHistoryEntry(ctx, id)
	v := s.wb.View()
	if err == nil {
		fmt.Fprintln(s.out, view.Render(v))
		return nil
	}
	s.printStatus(v.Status)

	return reported(err)
}

func (s *shell) prompt() string {
	session, ok := s.wb.Session()
	if !ok {
		return "summ> "
	}

	return fmt.Sprintf("summ(%s)> ", session.Username)
}

func (s *shell) printStatus(line application.StatusLine) {
	if line.Empty() {
		return
	}

	fmt.Fprintln(s.out, view.RenderStatus(line))
}

// lineConfirmer asks a y/N question on the shell's own line reader.
type lineConfirmer struct {
	rl     lineReader
	prompt string
}

var _ ports.Confirmer = lineConfirmer{}

func (c lineConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	c.rl.SetPrompt(question + " [y/N]: ")
	defer c.rl.SetPrompt(c.prompt)

	answer, err := c.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return isYes(answer), nil
}

// parseArgs splits a line on spaces, keeping double-quoted runs together.
func parseArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == ' ' && !quoted:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
