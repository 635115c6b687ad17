package commands

import (
	"context"
	"fmt"
	"strings"

	"SessionKeeper/internal/cli/bootstrap"
	"SessionKeeper/internal/config"
)

type rememberCmd struct{}

func (rememberCmd) Name() string        { return "remember" }
func (rememberCmd) Description() string { return "Show or toggle the \"remember me\" checkbox" }
func (rememberCmd) Usage() string       { return "remember [on|off]" }

func (rememberCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	var set *bool
	if len(args) == 1 {
		var v bool
		switch strings.ToLower(args[0]) {
		case "on", "true", "yes", "1":
			v = true
		case "off", "false", "no", "0":
			v = false
		default:
			return ErrUsage
		}
		set = &v
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		if set != nil {
			s.State.SetRememberCheckbox(*set)
		}
		state := "off"
		if s.State.RememberCheckbox() {
			state = "on"
		}
		fmt.Fprintf(Out, "Remember me: %s\n", state)
		if u := s.State.RememberedUsername(); u != "" {
			fmt.Fprintf(Out, "Remembered login: %s\n", u)
		}
		return nil
	})
}

func init() { RegisterCmd(rememberCmd{}) }
