package commands

import (
	"context"
	"fmt"

	"SessionKeeper/internal/cli/bootstrap"
	"SessionKeeper/internal/config"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Register a new user and log in" }
func (registerCmd) Usage() string       { return "register <login> [<password>]" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 || args[0] == "" {
		return ErrUsage
	}
	login := args[0]
	var password string
	if len(args) == 2 {
		password = args[1]
	} else {
		p, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		password = p
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		if err := s.Auth.Register(ctx, login, password); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Registered successfully")
		return nil
	})
}

func init() { RegisterCmd(registerCmd{}) }
