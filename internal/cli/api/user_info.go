package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"SessionKeeper/internal/cli/session"
)

// UserInfoPath — эндпоинт профиля текущего пользователя.
const UserInfoPath = "/api/user/info"

// UserInfoClient загружает профиль пользователя с сервера.
// Токен берётся при каждом запросе, поэтому клиент видит актуальное состояние сессии.
type UserInfoClient struct {
	BaseURL string
	Token   func() string
}

var _ session.UserInfoFetcher = (*UserInfoClient)(nil)

// NewUserInfoClient создаёт клиент профиля.
func NewUserInfoClient(baseURL string, token func() string) *UserInfoClient {
	return &UserInfoClient{BaseURL: baseURL, Token: token}
}

// FetchUserInfo запрашивает GET /api/user/info. Ошибки сети и статуса возвращаются без повторов.
func (c *UserInfoClient) FetchUserInfo(ctx context.Context) (*session.UserInfoResponse, error) {
	token := ""
	if c.Token != nil {
		token = c.Token()
	}
	resp, body, err := GetJSON(ctx, Endpoint(c.BaseURL, UserInfoPath), token)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var info session.UserInfoBody
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &session.UserInfoResponse{Status: resp.StatusCode, Data: info}, nil
}
