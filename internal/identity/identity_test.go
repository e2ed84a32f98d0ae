package identity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/cprof/internal/identity"
	"github.com/hbjs97/cprof/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidJSON(t *testing.T) {
	path := testutil.TempIdentitiesFile(t, `{
		"identities": {
			"work": {"github_username": "alice-corp"},
			"home": {"github_username": "alice"}
		}
	}`)
	s := identity.NewStore(afero.NewOsFs(), path)

	got, ok := s.Get("work")
	assert.True(t, ok)
	assert.Equal(t, "alice-corp", got)
	assert.Equal(t, []string{"home", "work"}, s.Names())
}

func TestLoad_MissingFile(t *testing.T) {
	s := identity.NewStore(afero.NewMemMapFs(), "/nonexistent/identities.json")

	assert.Empty(t, s.All()) // graceful: no bindings
	_, ok := s.Get("work")
	assert.False(t, ok)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := testutil.TempIdentitiesFile(t, "not json {{{")
	s := identity.NewStore(afero.NewOsFs(), path)

	assert.Empty(t, s.All()) // graceful degradation
}

func TestLoad_NullIdentities(t *testing.T) {
	path := testutil.TempIdentitiesFile(t, `{"identities": null}`)
	s := identity.NewStore(afero.NewOsFs(), path)

	require.NoError(t, s.Set("a", "b"))
	assert.Equal(t, map[string]string{"a": "b"}, s.All())
}

func TestSet_Overwrites(t *testing.T) {
	s := identity.NewStore(afero.NewMemMapFs(), "/cfg/identities.json")

	require.NoError(t, s.Set("work", "alice"))
	require.NoError(t, s.Set("work", "bob"))
	require.NoError(t, s.Set("not-a-profile-yet", "carol"))

	got, _ := s.Get("work")
	assert.Equal(t, "bob", got)
	assert.Len(t, s.All(), 2)
}

func TestSet_FileFormatAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "identities.json")
	s := identity.NewStore(afero.NewOsFs(), path)

	require.NoError(t, s.Set("work", "alice"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"identities":{"work":{"github_username":"alice"}}}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestUnset(t *testing.T) {
	s := identity.NewStore(afero.NewMemMapFs(), "/cfg/identities.json")
	require.NoError(t, s.Set("work", "alice"))

	require.NoError(t, s.Unset("work"))
	_, ok := s.Get("work")
	assert.False(t, ok)

	err := s.Unset("work")
	assert.ErrorIs(t, err, identity.ErrNotBound)
}

func TestRename(t *testing.T) {
	s := identity.NewStore(afero.NewMemMapFs(), "/cfg/identities.json")
	require.NoError(t, s.Set("old", "alice"))

	moved, err := s.Rename("old", "new")
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, map[string]string{"new": "alice"}, s.All())

	moved, err = s.Rename("ghost", "x")
	require.NoError(t, err)
	assert.False(t, moved)
}
