package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"SessionKeeper/internal/cli/repo"

	_ "modernc.org/sqlite"
)

// StateRepositorySQLite — хранилище снимков сессии в локальной БД SQLite.
type StateRepositorySQLite struct {
	db *sql.DB
}

var _ repo.StateStore = (*StateRepositorySQLite)(nil)

// ErrEmptyPath — путь к файлу БД не задан.
var ErrEmptyPath = errors.New("empty client db path")

// Open открывает (и создаёт при необходимости) файл БД по указанному пути.
// Путь по умолчанию выбирает config (CLIENT_DB_PATH / -client-db).
func Open(dbPath string) (*StateRepositorySQLite, error) {
	if dbPath == "" {
		return nil, ErrEmptyPath
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// один писатель: SQLite не любит параллельные записи
	db.SetMaxOpenConns(1)
	return &StateRepositorySQLite{db: db}, nil
}

// Close закрывает соединение с БД.
func (r *StateRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц.
func (r *StateRepositorySQLite) Migrate() error {
	_, err := r.db.Exec(initialDDL())
	return err
}

// Get возвращает значение по ключу или repo.ErrNotFound.
func (r *StateRepositorySQLite) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("empty state key")
	}
	var v []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session_state WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Set вставляет или перезаписывает значение по ключу.
func (r *StateRepositorySQLite) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("empty state key")
	}
	now := time.Now().Unix()
	_, err := r.db.ExecContext(ctx, `INSERT INTO session_state(key, value, updated_at) VALUES(?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	return err
}

// Delete удаляет ключ.
func (r *StateRepositorySQLite) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("empty state key")
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_state WHERE key = ?`, key)
	return err
}
