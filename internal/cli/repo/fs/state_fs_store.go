package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"SessionKeeper/internal/cli/repo"
)

// AppDirName — имя каталога приложения внутри пользовательского конфиг-каталога.
const AppDirName = "SessionKeeper"

// StateFSStore — файловое хранилище снимков сессии для CLI.
// Каждый ключ хранится в отдельном файле <Dir>/<key>.json.
type StateFSStore struct {
	// Dir переопределяет каталог хранения. Пусто — %CONFIG%/SessionKeeper.
	Dir string
}

var _ repo.StateStore = StateFSStore{}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateKey проверяет, что ключ безопасен для использования в имени файла.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New("empty state key")
	}
	if !keyRe.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid state key: %q (allowed: letters, digits, . _ -)", key)
	}
	return nil
}

// ConfigDir возвращает каталог приложения, создавая его при необходимости.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, AppDirName)
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s StateFSStore) statePath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, key+".json"), nil
}

// Get читает снимок из файла.
func (s StateFSStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.statePath(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	// обрезаем завершающие переводы строки/пробелы
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	if len(b) == 0 {
		return nil, repo.ErrNotFound
	}
	return b, nil
}

// Set записывает снимок через временный файл, чтобы не оставлять полузаписанное состояние.
func (s StateFSStore) Set(_ context.Context, key string, value []byte) error {
	p, err := s.statePath(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// Delete удаляет файл снимка.
func (s StateFSStore) Delete(_ context.Context, key string) error {
	p, err := s.statePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
