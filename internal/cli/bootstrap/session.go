package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"SessionKeeper/internal/cli/api"
	"SessionKeeper/internal/cli/repo"
	fsrepo "SessionKeeper/internal/cli/repo/fs"
	redisrepo "SessionKeeper/internal/cli/repo/redis"
	reposqlite "SessionKeeper/internal/cli/repo/sqlite"
	"SessionKeeper/internal/cli/service"
	"SessionKeeper/internal/cli/session"
	"SessionKeeper/internal/config"

	"go.uber.org/zap"
)

// Session — собранное состояние сессии вместе с его зависимостями.
type Session struct {
	State     *session.State
	Persister *session.Persister
	Auth      service.AuthService
}

// OpenStore открывает хранилище состояния, выбранное в конфиге,
// и возвращает (store, cleanup, error).
func OpenStore(ctx context.Context, cfg *config.Config) (repo.StateStore, func() error, error) {
	switch cfg.SessionBackend {
	case config.BackendSQLite:
		r, err := reposqlite.Open(cfg.ClientDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open client db: %w", err)
		}
		if err := r.Migrate(); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("migrate client db: %w", err)
		}
		return r, r.Close, nil
	case config.BackendRedis:
		r, err := redisrepo.Dial(ctx, redisrepo.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	default:
		return fsrepo.StateFSStore{Dir: cfg.SessionDir}, func() error { return nil }, nil
	}
}

// OpenSession открывает хранилище, восстанавливает сохранённое состояние
// и подписывает его на автоматическую синхронизацию.
// cleanup необходимо вызвать после окончания работы: он закрывает хранилище
// и возвращает ошибку последней синхронизации, если она была.
func OpenSession(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*Session, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var st *session.State
	fetcher := api.NewUserInfoClient(cfg.ServerURL, func() string { return st.Token() })
	opts := []session.Option{}
	if cfg.LogLevel == "debug" {
		opts = append(opts, session.WithTrace(logger))
	}
	st = session.New(fetcher, opts...)

	p := session.NewPersister(store, cfg.SessionKey, logger)
	if err := p.Load(ctx, st); err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	p.Bind(st)
	logger.Debugw("session restored", "backend", cfg.SessionBackend, "key", p.Key(), "authenticated", st.Authenticated())

	s := &Session{
		State:     st,
		Persister: p,
		Auth:      service.NewAuthServiceHTTP(cfg.ServerURL, st),
	}
	cleanup := func() error {
		return errors.Join(p.Err(), closeStore())
	}
	return s, cleanup, nil
}
