package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AuthCookieName имя cookie с auth-токеном.
const AuthCookieName = "auth_token"

var (
	// ErrUnauthorized — сервер ответил 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedResponse — тело ответа не удалось разобрать.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoAuthCookie — в ответе нет auth cookie.
	ErrNoAuthCookie = errors.New("no auth cookie in response")
)

// StatusError — неожиданный HTTP-статус ответа.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server status %d: %s", e.Code, e.Body)
}

// Client — HTTP-клиент, используемый пакетом. В тестах может переназначаться.
var Client = http.DefaultClient

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as auth cookie.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req, token)
}

// GetJSON sends a GET request expecting a JSON body.
func GetJSON(ctx context.Context, url string, token string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	return do(req, token)
}

func do(req *http.Request, token string) (*http.Response, []byte, error) {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	}
	resp, err := Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, bytes.TrimSpace(body), nil
}

// TokenFromResponse извлекает auth-токен из Set-Cookie ответа.
func TokenFromResponse(resp *http.Response) (string, error) {
	for _, c := range resp.Cookies() {
		if c.Name == AuthCookieName && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", ErrNoAuthCookie
}

// Endpoint склеивает базовый адрес сервера и путь.
func Endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
