// Package console constructs the console stores once and wires them together.
package console

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/all-in-console/internal/access"
	"github.com/hongminglow/all-in-console/internal/auth"
	"github.com/hongminglow/all-in-console/internal/config"
	"github.com/hongminglow/all-in-console/internal/messaging"
	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/notify"
	"github.com/hongminglow/all-in-console/internal/session"
	"github.com/hongminglow/all-in-console/internal/storage"
	"github.com/hongminglow/all-in-console/internal/storage/memory"
	postgres "github.com/hongminglow/all-in-console/internal/storage/postgres"
	"github.com/hongminglow/all-in-console/internal/storage/slot"
	"github.com/hongminglow/all-in-console/internal/toast"
)

// Console owns every store for the lifetime of the process.
type Console struct {
	Config        config.Config
	Logger        *zap.Logger
	Directory     storage.IdentityDirectory
	Slot          storage.SessionSlot
	Tokens        *auth.TokenManager
	Session       *session.Store
	Access        *access.Evaluator
	Toasts        *toast.Feed
	Notifications *notify.Store
	Messages      *messaging.Store

	closers []func()
}

// New opens the identity directory and session slot named by cfg, builds the
// stores and restores any persisted session.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Console, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Console{Config: cfg, Logger: logger}

	dir, err := c.openDirectory(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Directory = dir

	s, err := c.openSlot()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Slot = s
	c.closers = append(c.closers, func() {
		if err := s.Close(); err != nil {
			logger.Warn("close session slot", zap.Error(err))
		}
	})

	c.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	c.Session = session.NewStore(dir, s, c.Tokens, session.Options{
		VerifyPassword: cfg.VerifyPassword,
		Logger:         logger,
	})
	c.Access = access.NewEvaluator(c.Session, access.DefaultRules())
	c.Toasts = toast.NewFeed(cfg.ToastDuration, 20, logger)
	c.Notifications = notify.NewStore(c.Toasts, logger)
	c.Messages = messaging.NewStore(c.Session, c.Notifications, messaging.Options{
		ReplyProbability: cfg.ReplyProbability,
		ReplyDelayMin:    cfg.ReplyDelayMin,
		ReplyDelayMax:    cfg.ReplyDelayMax,
		Logger:           logger,
	})
	c.closers = append(c.closers, c.Messages.Close)

	c.Session.OnChange(c.Messages.HandleIdentityChange)
	if cfg.SeedDemoMessages {
		c.Session.OnChange(func(_, next *models.Identity) {
			if next != nil {
				c.seedMessages(context.Background(), *next)
			}
		})
	}

	if err := c.Session.Restore(ctx); err != nil {
		logger.Warn("restore session", zap.Error(err))
	}
	return c, nil
}

// WatchSession reloads the session whenever another process rewrites the
// slot. It returns immediately when the slot cannot be watched.
func (c *Console) WatchSession(ctx context.Context) error {
	watchable, ok := c.Slot.(storage.WatchableSlot)
	if !ok || !c.Config.SessionWatch {
		return nil
	}
	return watchable.Watch(ctx, func() {
		if err := c.Session.Reload(ctx); err != nil {
			c.Logger.Warn("reload session", zap.Error(err))
		}
	})
}

// Close releases resources in reverse order of acquisition.
func (c *Console) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Console) openDirectory(ctx context.Context) (storage.IdentityDirectory, error) {
	switch {
	case c.Config.DatabaseURL != "":
		store, err := postgres.NewIdentityStore(ctx, c.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		if err := seedDirectory(ctx, store, memory.DemoIdentities()); err != nil {
			return nil, err
		}
		return store, nil
	case c.Config.IdentitiesFile != "":
		return memory.LoadDirectory(c.Config.IdentitiesFile)
	default:
		return memory.NewDemoDirectory(), nil
	}
}

type identityCreator interface {
	storage.IdentityDirectory
	CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error)
}

// seedDirectory fills an empty directory with identities.
func seedDirectory(ctx context.Context, dir identityCreator, identities []models.Identity) error {
	existing, err := dir.List(ctx)
	if err != nil {
		return fmt.Errorf("list identities: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, identity := range identities {
		if _, err := dir.CreateIdentity(ctx, identity); err != nil {
			return fmt.Errorf("seed identity %s: %w", identity.Email, err)
		}
	}
	return nil
}

func (c *Console) openSlot() (storage.SessionSlot, error) {
	cfg := c.Config
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return slot.NewMemory(), nil
	case config.SessionSQLite:
		return slot.OpenSQLite(cfg.SessionPath, cfg.SessionKey)
	case config.SessionKeyring:
		return slot.OpenKeyring("all-in-console", cfg.SessionPath, cfg.SessionKey)
	default:
		return slot.NewFile(cfg.SessionPath, c.Logger), nil
	}
}

func (c *Console) seedMessages(ctx context.Context, me models.Identity) {
	all, err := c.Directory.List(ctx)
	if err != nil {
		c.Logger.Warn("list identities for demo messages", zap.Error(err))
		return
	}
	var counterparts []models.Identity
	for _, identity := range all {
		if identity.ID != me.ID && identity.Grants(models.CapMessagesSend) && len(counterparts) < 3 {
			counterparts = append(counterparts, identity)
		}
	}
	n := c.Messages.Seed(messaging.DemoHistory(me, counterparts, time.Now()))
	c.Logger.Debug("seeded demo messages", zap.Int("count", n))
}
