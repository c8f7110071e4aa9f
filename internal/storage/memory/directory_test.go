package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/storage"
)

func TestDirectoryFindByEmailIgnoresCase(t *testing.T) {
	d := NewDemoDirectory()

	identity, err := d.FindByEmail(context.Background(), "  ADMIN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "1", identity.ID)
	assert.True(t, identity.IsSuperuser())

	_, err = d.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDirectoryReturnsCopies(t *testing.T) {
	d := NewDemoDirectory()

	identity, err := d.FindByID(context.Background(), "2")
	require.NoError(t, err)
	identity.Permissions[0] = "tampered"

	again, err := d.FindByID(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, models.CapDashboardView, again.Permissions[0])
}

func TestNewDirectoryRejectsDuplicates(t *testing.T) {
	_, err := NewDirectory([]models.Identity{
		{ID: "a", Email: "x@example.com"},
		{ID: "b", Email: "X@example.com"},
	})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestListSortedByName(t *testing.T) {
	d := NewDemoDirectory()
	list, err := d.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(DemoIdentities()))
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].Name, list[i].Name)
	}
}

func TestLoadDirectoryFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identities.yaml")
	seed := `identities:
  - id: u-1
    name: Ada
    email: ada@example.com
    permissions: [dashboard:view]
  - id: u-2
    name: Root
    email: root@example.com
    role: superuser
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	d, err := LoadDirectory(path)
	require.NoError(t, err)

	ada, err := d.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, ada.Role)
	assert.Equal(t, []string{"dashboard:view"}, ada.Permissions)

	root, err := d.FindByID(context.Background(), "u-2")
	require.NoError(t, err)
	assert.True(t, root.IsSuperuser())
}

func TestLoadDirectoryRejectsUnknownRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identities.yaml")
	require.NoError(t, os.WriteFile(path, []byte("identities:\n  - id: a\n    email: a@example.com\n    role: owner\n"), 0o600))

	_, err := LoadDirectory(path)
	assert.Error(t, err)
}
