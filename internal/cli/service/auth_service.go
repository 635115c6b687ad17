package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"SessionKeeper/internal/cli/api"
	"SessionKeeper/internal/cli/session"
)

var (
	// ErrInvalidCredentials — сервер отверг логин/пароль.
	ErrInvalidCredentials = errors.New("invalid login or password")
	// ErrLoginTaken — логин уже используется.
	ErrLoginTaken = errors.New("login already in use")
	// ErrTooManyAttempts — сервер ограничил частоту попыток входа.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Login логирование пользователя. remember управляет запоминанием учётных данных.
	Login(ctx context.Context, login, password string, remember bool) error

	// Register регистрирует пользователя и сразу открывает сессию.
	Register(ctx context.Context, login, password string) error

	// Logout очищает локальный контекст аутентификации.
	Logout(ctx context.Context) error

	// CurrentUser загружает профиль текущего пользователя.
	CurrentUser(ctx context.Context) (session.Profile, error)
}

// AuthServiceHTTP — реализация AuthService поверх HTTP API и состояния сессии.
type AuthServiceHTTP struct {
	baseURL string
	state   *session.State
}

var _ AuthService = (*AuthServiceHTTP)(nil)

// NewAuthServiceHTTP конструктор сервиса аутентификации.
func NewAuthServiceHTTP(baseURL string, state *session.State) *AuthServiceHTTP {
	return &AuthServiceHTTP{baseURL: baseURL, state: state}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login выполняет вход, сохраняет токен и флаг "запомнить меня".
// При remember=true логин и пароль запоминаются, иначе запомненные значения очищаются.
// Профиль загружается сразу после входа; его ошибка возвращается, но токен остаётся.
func (s *AuthServiceHTTP) Login(ctx context.Context, login, password string, remember bool) error {
	resp, body, err := api.PostJSON(ctx, api.Endpoint(s.baseURL, "/api/user/login"), credentials{Login: login, Password: password}, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return ErrTooManyAttempts
	default:
		return &api.StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	token, err := api.TokenFromResponse(resp)
	if err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	s.state.SetToken(token)

	s.state.SetRememberCheckbox(remember)
	if remember {
		s.state.SetRememberedUsername(login)
		s.state.SetRememberedPassword(password)
	} else {
		s.state.SetRememberedUsername("")
		s.state.SetRememberedPassword("")
	}

	if err := s.state.FetchUser(ctx); err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	return nil
}

// Register регистрирует пользователя, сохраняет токен и загружает профиль.
func (s *AuthServiceHTTP) Register(ctx context.Context, login, password string) error {
	resp, body, err := api.PostJSON(ctx, api.Endpoint(s.baseURL, "/api/user/register"), credentials{Login: login, Password: password}, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return ErrLoginTaken
	case http.StatusTooManyRequests:
		return ErrTooManyAttempts
	default:
		return &api.StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	token, err := api.TokenFromResponse(resp)
	if err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	s.state.SetToken(token)

	if err := s.state.FetchUser(ctx); err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	return nil
}

// Logout удаляет токен и профиль. Запомненные учётные данные не трогаются.
func (s *AuthServiceHTTP) Logout(_ context.Context) error {
	s.state.RemoveToken()
	s.state.SetUser(session.Profile{})
	return nil
}

// CurrentUser обновляет профиль с сервера и возвращает его.
func (s *AuthServiceHTTP) CurrentUser(ctx context.Context) (session.Profile, error) {
	if err := s.state.FetchUser(ctx); err != nil {
		return nil, err
	}
	return s.state.User(), nil
}
