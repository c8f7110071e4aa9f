package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/storage"
)

var _ storage.IdentityDirectory = (*Directory)(nil)

// Directory is a static, in-process identity table.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]models.Identity
	byEmail map[string]string
}

// NewDirectory builds a directory from identities. Duplicate ids or emails
// are rejected with storage.ErrAlreadyExists.
func NewDirectory(identities []models.Identity) (*Directory, error) {
	d := &Directory{
		byID:    make(map[string]models.Identity, len(identities)),
		byEmail: make(map[string]string, len(identities)),
	}
	for _, identity := range identities {
		if err := d.add(identity); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// NewDemoDirectory returns a directory holding DemoIdentities.
func NewDemoDirectory() *Directory {
	d, err := NewDirectory(DemoIdentities())
	if err != nil {
		panic(fmt.Sprintf("memory: demo identities: %v", err))
	}
	return d
}

type seedFile struct {
	Identities []models.Identity `yaml:"identities"`
}

// LoadDirectory reads identities from a YAML seed file of the form
//
//	identities:
//	  - id: u-1
//	    name: Ada
//	    email: ada@example.com
//	    role: user
//	    permissions: [dashboard:view]
func LoadDirectory(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identities file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse identities file: %w", err)
	}
	for i, identity := range seed.Identities {
		if strings.TrimSpace(identity.ID) == "" || strings.TrimSpace(identity.Email) == "" {
			return nil, fmt.Errorf("identities file: entry %d needs id and email", i)
		}
		if identity.Role == "" {
			seed.Identities[i].Role = models.RoleUser
		} else if !models.ValidRole(identity.Role) {
			return nil, fmt.Errorf("identities file: entry %d has unknown role %q", i, identity.Role)
		}
	}
	return NewDirectory(seed.Identities)
}

func (d *Directory) add(identity models.Identity) error {
	key := normalizeEmail(identity.Email)
	if _, ok := d.byID[identity.ID]; ok {
		return fmt.Errorf("identity %s: %w", identity.ID, storage.ErrAlreadyExists)
	}
	if _, ok := d.byEmail[key]; ok {
		return fmt.Errorf("identity %s: %w", identity.Email, storage.ErrAlreadyExists)
	}
	d.byID[identity.ID] = identity.Clone()
	d.byEmail[key] = identity.ID
	return nil
}

// FindByEmail looks an identity up by email, ignoring case and surrounding space.
func (d *Directory) FindByEmail(_ context.Context, email string) (models.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return models.Identity{}, storage.ErrNotFound
	}
	return d.byID[id].Clone(), nil
}

// FindByID looks an identity up by id.
func (d *Directory) FindByID(_ context.Context, id string) (models.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.byID[id]
	if !ok {
		return models.Identity{}, storage.ErrNotFound
	}
	return identity.Clone(), nil
}

// List returns all identities ordered by name.
func (d *Directory) List(_ context.Context) ([]models.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Identity, 0, len(d.byID))
	for _, identity := range d.byID {
		out = append(out, identity.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
