package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/storage"
)

var _ storage.SessionSlot = (*Keyring)(nil)

// Keyring stores the session record in the operating system keyring.
type Keyring struct {
	ring keyring.Keyring
	key  string
}

// OpenKeyring opens the system keyring for service, falling back to an
// encrypted file store under fileDir when no native backend is available.
func OpenKeyring(service, fileDir, key string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyring(ring, key), nil
}

// NewKeyring wraps an already opened keyring.
func NewKeyring(ring keyring.Keyring, key string) *Keyring {
	if key == "" {
		key = DefaultKey
	}
	return &Keyring{ring: ring, key: key}
}

func (k *Keyring) Load(_ context.Context) (models.SessionRecord, error) {
	item, err := k.ring.Get(k.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return models.SessionRecord{}, storage.ErrNotFound
		}
		return models.SessionRecord{}, fmt.Errorf("getting session %q: %w", k.key, err)
	}
	return decode(item.Data)
}

func (k *Keyring) Save(_ context.Context, record models.SessionRecord) error {
	raw, err := encode(record)
	if err != nil {
		return err
	}
	err = k.ring.Set(keyring.Item{
		Key:         k.key,
		Data:        raw,
		Label:       "Console session",
		Description: "Current console identity",
	})
	if err != nil {
		return fmt.Errorf("setting session %q: %w", k.key, err)
	}
	return nil
}

func (k *Keyring) Clear(_ context.Context) error {
	if err := k.ring.Remove(k.key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting session %q: %w", k.key, err)
	}
	return nil
}

func (k *Keyring) Close() error { return nil }
