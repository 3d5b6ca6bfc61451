package credential

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/99designs/keyring"
)

const serviceName = "mailorganizer"

// userIDKey is the fixed keyring item holding the signed-in user id.
const userIDKey = "user_id"

// Open returns the system keyring for this application. dir is used by
// the encrypted file fallback when no OS keyring is available.
func Open(dir string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(dir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("mailorganizer-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Persister keeps the signed-in user id in a keyring.
type Persister struct {
	ring keyring.Keyring
}

// NewPersister wraps ring.
func NewPersister(ring keyring.Keyring) *Persister {
	return &Persister{ring: ring}
}

// LoadUserID returns the stored user id, if any.
func (p *Persister) LoadUserID(_ context.Context) (int64, bool, error) {
	item, err := p.ring.Get(userIDKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("getting credential %q: %w", userIDKey, err)
	}

	id, err := strconv.ParseInt(string(item.Data), 10, 64)
	if err != nil || id <= 0 {
		return 0, false, nil
	}
	return id, true, nil
}

// SaveUserID stores the signed-in user id.
func (p *Persister) SaveUserID(_ context.Context, id int64) error {
	err := p.ring.Set(keyring.Item{
		Key:   userIDKey,
		Data:  []byte(strconv.FormatInt(id, 10)),
		Label: "Mail Organizer session",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", userIDKey, err)
	}
	return nil
}

// ClearUserID removes the stored user id. A missing item is not an error.
func (p *Persister) ClearUserID(_ context.Context) error {
	err := p.ring.Remove(userIDKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", userIDKey, err)
	}
	return nil
}
