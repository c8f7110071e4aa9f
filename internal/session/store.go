// Package session holds the current console identity and keeps it in sync
// with the durable session slot.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/all-in-console/internal/auth"
	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/storage"
)

// ErrInvalidCredentials is returned by Login when no identity matches.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Listener observes identity changes. prev and next are nil when logged out.
type Listener func(prev, next *models.Identity)

// Options tune a Store.
type Options struct {
	// VerifyPassword makes Login compare the password against the identity's
	// bcrypt hash. Identities without a hash cannot log in when enabled.
	VerifyPassword bool
	Logger         *zap.Logger
}

// Store owns the current identity. At most one identity is current.
type Store struct {
	directory storage.IdentityDirectory
	slot      storage.SessionSlot
	tokens    *auth.TokenManager
	logger    *zap.Logger
	verify    bool
	now       func() time.Time

	mu        sync.RWMutex
	current   *models.Identity
	token     string
	listeners []Listener
}

// NewStore wires a session store. Call Restore to pick up a persisted session.
func NewStore(directory storage.IdentityDirectory, slot storage.SessionSlot, tokens *auth.TokenManager, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		directory: directory,
		slot:      slot,
		tokens:    tokens,
		logger:    logger.Named("session"),
		verify:    opts.VerifyPassword,
		now:       time.Now,
	}
}

// OnChange registers l to run after every identity change.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Login looks the identity up by email and makes it current. The password is
// only checked when the store was built with VerifyPassword.
func (s *Store) Login(ctx context.Context, email, password string) (models.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Identity{}, ErrInvalidCredentials
	}
	identity, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info("login rejected: unknown email", zap.String("email", email))
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, fmt.Errorf("lookup identity: %w", err)
	}
	if s.verify {
		if err := auth.CheckPassword(identity.PasswordHash, password); err != nil {
			s.logger.Info("login rejected: password mismatch", zap.String("email", email))
			return models.Identity{}, ErrInvalidCredentials
		}
	}

	token, err := s.tokens.Generate(identity)
	if err != nil {
		return models.Identity{}, fmt.Errorf("generate token: %w", err)
	}
	record := models.SessionRecord{Identity: identity, Token: token, IssuedAt: s.now().UTC()}
	if err := s.slot.Save(ctx, record); err != nil {
		return models.Identity{}, fmt.Errorf("persist session: %w", err)
	}

	prev := s.swap(&record.Identity, token)
	s.logger.Info("login", zap.String("identity", identity.ID), zap.String("role", identity.Role))
	s.notify(prev, &record.Identity)
	return identity.Clone(), nil
}

// Logout clears the current identity and the persisted record. It never fails;
// slot errors are logged.
func (s *Store) Logout(ctx context.Context) {
	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn("clear session slot", zap.Error(err))
	}
	prev := s.swap(nil, "")
	if prev != nil {
		s.logger.Info("logout", zap.String("identity", prev.ID))
	}
	s.notify(prev, nil)
}

// Restore reads the persisted session once at startup.
func (s *Store) Restore(ctx context.Context) error {
	return s.Reload(ctx)
}

// Reload re-reads the slot, typically after another process changed it.
// Listeners fire only when the current identity actually changed.
func (s *Store) Reload(ctx context.Context) error {
	record, err := s.slot.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			prev := s.swap(nil, "")
			s.notify(prev, nil)
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	token := record.Token
	if claims, err := s.tokens.Parse(token); err != nil || claims.Subject != record.Identity.ID {
		token, err = s.tokens.Generate(record.Identity)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		record.Token = token
		record.IssuedAt = s.now().UTC()
		if err := s.slot.Save(ctx, record); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
		s.logger.Debug("reissued session token", zap.String("identity", record.Identity.ID))
	}

	prev := s.swap(&record.Identity, token)
	s.notify(prev, &record.Identity)
	return nil
}

// Current returns a copy of the current identity.
func (s *Store) Current() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Identity{}, false
	}
	return s.current.Clone(), true
}

// Token returns the bearer token of the current session, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasPermission reports whether the current identity may use capability.
func (s *Store) HasPermission(capability string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return false
	}
	return s.current.Grants(capability)
}

func (s *Store) swap(next *models.Identity, token string) *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	if next != nil {
		c := next.Clone()
		s.current = &c
	} else {
		s.current = nil
	}
	s.token = token
	return prev
}

func (s *Store) notify(prev, next *models.Identity) {
	if sameIdentity(prev, next) {
		return
	}
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(prev, next)
	}
}

func sameIdentity(a, b *models.Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}
