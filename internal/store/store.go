package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

// Store defines the local persistence used by the client. The only value
// the application keeps across runs is the signed-in user id.
type Store interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error

	LoadUserID(ctx context.Context) (int64, bool, error)
	SaveUserID(ctx context.Context, id int64) error
	ClearUserID(ctx context.Context) error

	Close() error
}
