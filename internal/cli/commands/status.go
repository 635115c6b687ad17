package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"SessionKeeper/internal/cli/api"
	"SessionKeeper/internal/cli/bootstrap"
	"SessionKeeper/internal/config"
)

type dataResponse struct {
	Result string `json:"result"`
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Check how the server sees the stored token" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withSession(ctx, cfg, func(s *bootstrap.Session) error {
		resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/user/test"), struct{}{}, s.State.Token())
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return &api.StatusError{Code: resp.StatusCode, Body: string(body)}
		}
		var dr dataResponse
		if err := json.Unmarshal(body, &dr); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fmt.Fprintln(Out, "Status:", dr.Result)
		return nil
	})
}

func init() { RegisterCmd(statusCmd{}) }
