package commands

import (
	"context"
	"fmt"

	"SessionKeeper/internal/cli/bootstrap"
	"SessionKeeper/internal/cli/session"
	"SessionKeeper/internal/config"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Drop the token and profile (remembered credentials stay)" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		if err := s.Auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Logged out")
		return nil
	})
}

type forgetCmd struct{}

func (forgetCmd) Name() string { return "forget" }
func (forgetCmd) Description() string {
	return "Forget remembered login and password (--all drops the whole stored session)"
}
func (forgetCmd) Usage() string { return "forget [--all]" }

func (forgetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	all := false
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "--all":
		all = true
	default:
		return ErrUsage
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		if all {
			// Restore не вызывает синхронизацию, поэтому ключ после Clear не появится снова
			s.State.Restore(session.Snapshot{})
			if err := s.Persister.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(Out, "Stored session removed")
			return nil
		}
		s.State.SetRememberCheckbox(false)
		s.State.SetRememberedUsername("")
		s.State.SetRememberedPassword("")
		fmt.Fprintln(Out, "Remembered credentials cleared")
		return nil
	})
}

func init() {
	RegisterCmd(logoutCmd{})
	RegisterCmd(forgetCmd{})
}
