package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SessionKeeper/internal/cli/repo"

	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix префикс ключей снимков сессии в Redis.
const KeyPrefix = "session:"

// Commander — подмножество команд go-redis, которое нужно хранилищу.
type Commander interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Options параметры подключения к Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// StateRedisStore хранит снимки сессии в Redis без срока жизни.
type StateRedisStore struct {
	cmd    Commander
	closer func() error
}

var _ repo.StateStore = (*StateRedisStore)(nil)

// NewStateRedisStore оборачивает готовый клиент.
func NewStateRedisStore(cmd Commander) *StateRedisStore {
	return &StateRedisStore{cmd: cmd}
}

// Dial подключается к Redis и проверяет соединение.
func Dial(ctx context.Context, opts Options) (*StateRedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &StateRedisStore{cmd: client, closer: client.Close}, nil
}

// Close закрывает соединение, если оно было открыто через Dial.
func (s *StateRedisStore) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// Get возвращает значение по ключу или repo.ErrNotFound.
func (s *StateRedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("empty state key")
	}
	b, err := s.cmd.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Set перезаписывает значение по ключу.
func (s *StateRedisStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("empty state key")
	}
	return s.cmd.Set(ctx, KeyPrefix+key, value, 0).Err()
}

// Delete удаляет ключ.
func (s *StateRedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("empty state key")
	}
	return s.cmd.Del(ctx, KeyPrefix+key).Err()
}
