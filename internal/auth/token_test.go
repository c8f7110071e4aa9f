package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/all-in-console/internal/models"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("secret", "console-test", time.Hour)
	identity := models.Identity{ID: "2", Email: "user@example.com", Role: models.RoleUser, Permissions: []string{"dashboard:view"}}

	raw, err := tm.Generate(identity)
	require.NoError(t, err)

	claims, err := tm.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, []string{"dashboard:view"}, claims.Permissions)
}

func TestParseRejectsWrongSecretAndIssuer(t *testing.T) {
	identity := models.Identity{ID: "2"}
	raw, err := NewTokenManager("secret", "console-test", time.Hour).Generate(identity)
	require.NoError(t, err)

	_, err = NewTokenManager("other", "console-test", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("secret", "someone-else", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "console-test", time.Minute)
	issued := time.Now().Add(-time.Hour)
	tm.now = func() time.Time { return issued }
	raw, err := tm.Generate(models.Identity{ID: "2"})
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, CheckPassword("", "anything"), ErrPasswordMismatch)
}
