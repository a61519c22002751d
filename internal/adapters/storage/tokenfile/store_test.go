package tokenfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/phenrril/medwear/internal/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session", "tokens.json")
	s := New(path)

	_, err := s.Load()
	require.ErrorIs(t, err, domain.ErrNotFound)

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: exp}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err := New(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
	assert.True(t, tok.Expiry.Equal(exp))
}

func TestStore_Clear(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, s.Save(&oauth2.Token{AccessToken: "a"}))

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear(), "clearing twice is fine")

	_, err := s.Load()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
