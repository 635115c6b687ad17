// Package session хранит клиентское состояние сессии: auth-токен, профиль
// пользователя и настройки "запомнить меня" для формы входа.
//
// State создаётся явно через New и передаётся потребителям. Все поля
// независимы друг от друга: очистка токена не трогает запомненные
// учётные данные. Долговременное хранение вынесено в Persister.
package session

import (
	"context"
	"errors"
	"maps"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrNoFetcher возвращается FetchUser, если источник профиля не задан.
	ErrNoFetcher = errors.New("user info fetcher is not configured")
	// ErrEmptyResponse возвращается FetchUser, если источник вернул nil без ошибки.
	ErrEmptyResponse = errors.New("empty user info response")
)

// Profile — открытая запись профиля пользователя. Форма не проверяется.
type Profile map[string]any

// UserInfoBody — тело ответа сервиса профиля: {code, message, data}.
type UserInfoBody struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Data    Profile `json:"data"`
}

// UserInfoResponse — ответ источника профиля: HTTP-статус и разобранное тело.
type UserInfoResponse struct {
	Status int
	Data   UserInfoBody
}

// UserInfoFetcher загружает профиль текущего пользователя.
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context) (*UserInfoResponse, error)
}

// FetcherFunc адаптирует функцию к UserInfoFetcher.
type FetcherFunc func(ctx context.Context) (*UserInfoResponse, error)

// FetchUserInfo вызывает f(ctx).
func (f FetcherFunc) FetchUserInfo(ctx context.Context) (*UserInfoResponse, error) {
	return f(ctx)
}

// Option настраивает State при создании.
type Option func(*State)

// WithTrace включает отладочный вывод значения флага при каждом чтении RememberCheckbox.
func WithTrace(logger *zap.SugaredLogger) Option {
	return func(s *State) { s.trace = logger }
}

// State — контейнер состояния сессии. Безопасен для конкурентного использования.
type State struct {
	// notifyMu сериализует мутации вместе с вызовом onChange,
	// чтобы последний сохранённый снимок всегда был самым свежим.
	notifyMu sync.Mutex
	mu       sync.RWMutex

	token              string
	user               Profile
	rememberCheckbox   bool
	rememberPassword   string // устаревшее поле, только переносится между снимками
	rememberedUsername string
	rememberedPassword string

	fetcher  UserInfoFetcher
	trace    *zap.SugaredLogger
	onChange func(Snapshot)
}

// New создаёт пустое состояние: нет токена, пустой профиль, флаг выключен.
func New(fetcher UserInfoFetcher, opts ...Option) *State {
	s := &State{
		user:    Profile{},
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange регистрирует обработчик, вызываемый со снимком после каждой мутации.
// Обработчик не должен вызывать мутирующие методы State.
func (s *State) OnChange(fn func(Snapshot)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *State) mutate(fn func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn()
	hook := s.onChange
	var snap Snapshot
	if hook != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

// Token возвращает текущий auth-токен. Пустая строка — не аутентифицирован.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken безусловно заменяет токен.
func (s *State) SetToken(token string) {
	s.mutate(func() { s.token = token })
}

// RemoveToken сбрасывает токен в пустую строку.
func (s *State) RemoveToken() {
	s.mutate(func() { s.token = "" })
}

// Authenticated сообщает, есть ли непустой токен.
func (s *State) Authenticated() bool {
	return s.Token() != ""
}

// User возвращает копию профиля.
func (s *State) User() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.user)
}

// SetUser целиком заменяет профиль. nil хранится как пустой профиль.
func (s *State) SetUser(p Profile) {
	p = cloneProfile(p)
	s.mutate(func() { s.user = p })
}

func cloneProfile(p Profile) Profile {
	if p == nil {
		return Profile{}
	}
	return maps.Clone(p)
}

// FetchUser загружает профиль через UserInfoFetcher и заменяет им текущий.
// Ошибка источника возвращается как есть, профиль при этом не меняется.
func (s *State) FetchUser(ctx context.Context) error {
	s.mu.RLock()
	f := s.fetcher
	s.mu.RUnlock()
	if f == nil {
		return ErrNoFetcher
	}

	res, err := f.FetchUserInfo(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrEmptyResponse
	}
	s.SetUser(res.Data.Data)
	return nil
}

// RememberCheckbox возвращает флаг "запомнить меня".
func (s *State) RememberCheckbox() bool {
	s.mu.RLock()
	v := s.rememberCheckbox
	trace := s.trace
	s.mu.RUnlock()
	if trace != nil {
		trace.Debugw("remember checkbox read", "value", v)
	}
	return v
}

// SetRememberCheckbox устанавливает флаг "запомнить меня".
func (s *State) SetRememberCheckbox(v bool) {
	s.mutate(func() { s.rememberCheckbox = v })
}

// RememberedUsername возвращает запомненный логин.
func (s *State) RememberedUsername() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rememberedUsername
}

// SetRememberedUsername запоминает логин.
func (s *State) SetRememberedUsername(v string) {
	s.mutate(func() { s.rememberedUsername = v })
}

// RememberedPassword возвращает запомненный пароль (хранится в открытом виде).
func (s *State) RememberedPassword() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rememberedPassword
}

// SetRememberedPassword запоминает пароль.
func (s *State) SetRememberedPassword(v string) {
	s.mutate(func() { s.rememberedPassword = v })
}
