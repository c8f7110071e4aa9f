package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/all-in-console/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// IdentityDirectory is the identity table the session store looks logins up in.
type IdentityDirectory interface {
	FindByEmail(ctx context.Context, email string) (models.Identity, error)
	FindByID(ctx context.Context, id string) (models.Identity, error)
	List(ctx context.Context) ([]models.Identity, error)
}

// SessionSlot is single-key durable storage for the current session record.
// Load returns ErrNotFound when the slot is empty.
type SessionSlot interface {
	Load(ctx context.Context) (models.SessionRecord, error)
	Save(ctx context.Context, record models.SessionRecord) error
	Clear(ctx context.Context) error
	Close() error
}

// WatchableSlot is implemented by slots that can report external writes.
type WatchableSlot interface {
	SessionSlot
	// Watch blocks until ctx is done, invoking onChange after each external
	// change to the slot.
	Watch(ctx context.Context, onChange func()) error
}
