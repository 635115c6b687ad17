package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SessionKeeper/internal/cli/repo"

	"go.uber.org/zap"
)

// DefaultKey — фиксированный идентификатор хранилища состояния сессии.
const DefaultKey = "big-user"

// syncTimeout ограничивает одну фоновую запись снимка.
const syncTimeout = 5 * time.Second

// Persister связывает State с долговременным key-value хранилищем.
type Persister struct {
	store  repo.StateStore
	key    string
	logger *zap.SugaredLogger

	mu      sync.Mutex
	lastErr error
}

// NewPersister создаёт Persister. Пустой key означает DefaultKey, nil logger — Nop.
func NewPersister(store repo.StateStore, key string, logger *zap.SugaredLogger) *Persister {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Persister{store: store, key: key, logger: logger}
}

// Key возвращает ключ, под которым хранится снимок.
func (p *Persister) Key() string { return p.key }

// Load восстанавливает State из хранилища. Если снимка нет, State не меняется.
func (p *Persister) Load(ctx context.Context, s *State) error {
	b, err := p.store.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session %q: %w", p.key, err)
	}
	snap, err := DecodeSnapshot(b)
	if err != nil {
		return err
	}
	s.Restore(snap)
	return nil
}

// SaveSnapshot записывает готовый снимок.
func (p *Persister) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	b, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, p.key, b); err != nil {
		return fmt.Errorf("save session %q: %w", p.key, err)
	}
	return nil
}

// Clear удаляет сохранённый снимок целиком.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.store.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("clear session %q: %w", p.key, err)
	}
	return nil
}

// Bind подписывает Persister на изменения State: после каждой мутации
// снимок синхронно записывается в хранилище. Ошибки записи логируются
// и доступны через Err, так как сеттеры State ошибок не возвращают.
func (p *Persister) Bind(s *State) {
	s.OnChange(func(snap Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		err := p.SaveSnapshot(ctx, snap)
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		if err != nil {
			p.logger.Errorw("session sync failed", "key", p.key, "error", err)
			return
		}
		p.logger.Debugw("session synced", "key", p.key)
	})
}

// Err возвращает ошибку последней автоматической синхронизации.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
