package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"SessionKeeper/internal/cli/bootstrap"
	"SessionKeeper/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store the session" }
func (loginCmd) Usage() string       { return "login [--remember[=false]] [<login> [<password>]]" }

// Run без пароля берёт запомненный (если включено "запомнить меня" и логин совпадает),
// иначе спрашивает его в терминале. Без логина используется запомненный логин.
func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 3 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		remember := fs.Bool("remember", s.State.RememberCheckbox(), "remember login and password")
		if err := fs.Parse(args); err != nil {
			return ErrUsage
		}
		rest := fs.Args()
		if len(rest) > 2 {
			return ErrUsage
		}

		var login, password string
		switch len(rest) {
		case 2:
			login, password = rest[0], rest[1]
		case 1:
			login = rest[0]
		case 0:
			if !s.State.RememberCheckbox() || s.State.RememberedUsername() == "" {
				return ErrUsage
			}
			login = s.State.RememberedUsername()
		}
		if login == "" {
			return ErrUsage
		}

		if password == "" && s.State.RememberCheckbox() && s.State.RememberedUsername() == login {
			password = s.State.RememberedPassword()
			if password != "" {
				logger.Debugw("using remembered password", "login", login)
			}
		}
		if password == "" {
			p, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			password = p
		}

		if err := s.Auth.Login(ctx, login, password, *remember); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Logged in successfully")
		return nil
	})
}

func init() { RegisterCmd(loginCmd{}) }
