package slot

import (
	"context"
	"sync"

	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/storage"
)

var _ storage.SessionSlot = (*Memory)(nil)

// Memory keeps the encoded record in process memory. It still round-trips
// through JSON so it behaves like the durable backends.
type Memory struct {
	mu  sync.Mutex
	raw []byte
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (models.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return models.SessionRecord{}, storage.ErrNotFound
	}
	return decode(m.raw)
}

func (m *Memory) Save(_ context.Context, record models.SessionRecord) error {
	raw, err := encode(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.raw = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
