package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.IdentityDirectory interface at compile time.
var _ storage.IdentityDirectory = (*Store)(nil)

// Store provides a Postgres-backed identity directory.
type Store struct {
	pool *pgxpool.Pool
}

// NewIdentityStore creates a new Store and runs migrations.
func NewIdentityStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS role (id BIGINT PRIMARY KEY, role_name TEXT UNIQUE NOT NULL, role_description TEXT);`,
		`INSERT INTO role (id, role_name, role_description) VALUES (1, 'superuser', 'Platform administrator'), (2, 'user', 'Client user') ON CONFLICT (id) DO UPDATE SET role_name = EXCLUDED.role_name;`,
		`CREATE TABLE IF NOT EXISTS identities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			role TEXT NOT NULL DEFAULT 'user' REFERENCES role(role_name),
			avatar TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS identities_email_lower_idx ON identities (LOWER(email));`,
		`CREATE TABLE IF NOT EXISTS permission (id BIGSERIAL PRIMARY KEY, permission_name TEXT UNIQUE NOT NULL, permission_description TEXT);`,
		`INSERT INTO permission (permission_name, permission_description) VALUES
			('all', 'Every capability'),
			('dashboard:view', 'View dashboards'),
			('analytics:view', 'View analytics'),
			('opportunities:view', 'View opportunity tiers'),
			('labour:view', 'View labour planning'),
			('notifications:view', 'Read notifications'),
			('messages:send', 'Send direct messages'),
			('companies:manage', 'Manage client companies'),
			('billing:manage', 'Manage billing'),
			('users:manage', 'Manage users'),
			('modules:manage', 'Manage modules')
			ON CONFLICT (permission_name) DO NOTHING;`,
		`CREATE TABLE IF NOT EXISTS identity_permissions (identity_id TEXT NOT NULL, permission_id BIGINT NOT NULL, PRIMARY KEY (identity_id, permission_id), FOREIGN KEY (identity_id) REFERENCES identities(id) ON DELETE CASCADE, FOREIGN KEY (permission_id) REFERENCES permission(id));`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const selectIdentity = `
	SELECT i.id, i.name, i.email, i.role, i.avatar, i.password_hash,
	(
		SELECT COALESCE(array_agg(p.permission_name ORDER BY p.permission_name), '{}')
		FROM identity_permissions ip
		JOIN permission p ON ip.permission_id = p.id
		WHERE ip.identity_id = i.id
	)
	FROM identities i
	JOIN role r ON i.role = r.role_name
`

// CreateIdentity inserts an identity row and links its permissions. Unknown
// permission names are ignored.
func (s *Store) CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if strings.TrimSpace(identity.ID) == "" {
		identity.ID = uuid.NewString()
	}
	if identity.Role == "" {
		identity.Role = models.RoleUser
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Identity{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `INSERT INTO identities (id, name, email, role, avatar, password_hash) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, insert, identity.ID, identity.Name, identity.Email, identity.Role, identity.Avatar, identity.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Identity{}, storage.ErrAlreadyExists
		}
		return models.Identity{}, err
	}

	const link = `
		INSERT INTO identity_permissions (identity_id, permission_id)
		SELECT $1, p.id FROM permission p WHERE p.permission_name = ANY($2)
		ON CONFLICT DO NOTHING;`
	if _, err := tx.Exec(ctx, link, identity.ID, identity.Permissions); err != nil {
		return models.Identity{}, fmt.Errorf("link permissions: %w", err)
	}

	row := tx.QueryRow(ctx, selectIdentity+`WHERE i.id = $1;`, identity.ID)
	created, err := scanIdentity(row)
	if err != nil {
		return models.Identity{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Identity{}, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

// FindByEmail fetches an identity by email address, ignoring case.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	row := s.pool.QueryRow(ctx, selectIdentity+`WHERE LOWER(i.email) = LOWER($1);`, strings.TrimSpace(email))
	return scanIdentity(row)
}

// FindByID fetches an identity by id.
func (s *Store) FindByID(ctx context.Context, id string) (models.Identity, error) {
	row := s.pool.QueryRow(ctx, selectIdentity+`WHERE i.id = $1;`, id)
	return scanIdentity(row)
}

// List returns every identity ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Identity, error) {
	rows, err := s.pool.Query(ctx, selectIdentity+`ORDER BY i.name;`)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var out []models.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return out, nil
}

func scanIdentity(row pgx.Row) (models.Identity, error) {
	var identity models.Identity
	if err := row.Scan(&identity.ID, &identity.Name, &identity.Email, &identity.Role, &identity.Avatar, &identity.PasswordHash, &identity.Permissions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Identity{}, storage.ErrNotFound
		}
		return models.Identity{}, err
	}
	return identity, nil
}
