package repo

import (
	"context"
	"errors"
)

// ErrNotFound возвращается, когда по ключу ничего не сохранено.
var ErrNotFound = errors.New("state not found")

// StateStore описывает долговременное key-value хранилище клиента,
// в которое сериализуется снимок сессии.
type StateStore interface {
	// Get возвращает сохранённое значение или ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set перезаписывает значение по ключу целиком.
	Set(ctx context.Context, key string, value []byte) error

	// Delete удаляет ключ. Отсутствующий ключ ошибкой не считается.
	Delete(ctx context.Context, key string) error
}
