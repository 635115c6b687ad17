package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"SessionKeeper/internal/cli/bootstrap"
	"SessionKeeper/internal/config"
)

var errNotLoggedIn = errors.New("not logged in")

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Print the current user profile" }
func (whoamiCmd) Usage() string       { return "whoami [--refresh]" }

// Run печатает сохранённый профиль. С --refresh (или если профиль пуст) запрашивает его с сервера.
func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	refresh := false
	switch {
	case len(args) == 0:
	case len(args) == 1 && (args[0] == "--refresh" || args[0] == "-r"):
		refresh = true
	default:
		return ErrUsage
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		if !s.State.Authenticated() {
			return errNotLoggedIn
		}
		user := s.State.User()
		if refresh || len(user) == 0 {
			p, err := s.Auth.CurrentUser(ctx)
			if err != nil {
				return err
			}
			user = p
		}
		keys := make([]string, 0, len(user))
		for k := range user {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(Out, "%s: %v\n", k, user[k])
		}
		return nil
	})
}

func init() { RegisterCmd(whoamiCmd{}) }
