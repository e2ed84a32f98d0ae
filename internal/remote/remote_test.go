package remote_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hbjs97/cprof/internal/gh"
	"github.com/hbjs97/cprof/internal/remote"
	"github.com/hbjs97/cprof/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const activeAlice = "  ✓ Logged in to github.com account alice (keyring)\n  - Active account: true\n"

func setup(t *testing.T, remoteURL, authStatus string) (*remote.Reconciler, *testutil.FakeCommander, string) {
	t.Helper()
	repo := testutil.TempRepoDir(t)
	fake := testutil.NewFakeCommander()
	fake.Register("git -C "+repo+" remote get-url origin", remoteURL+"\n", nil)
	fake.Register("gh auth status", authStatus, nil)
	fake.Register("gh auth setup-git", "", nil)
	fake.Register("git -C "+repo+" remote set-url origin", "", nil)
	return remote.New(fake, "github.com"), fake, repo
}

func TestCheckAuth_OK(t *testing.T) {
	r, _, repo := setup(t, "https://alice@github.com/alice/widget.git", activeAlice)

	rep, err := r.CheckAuth(context.Background(), repo)
	require.NoError(t, err)
	assert.True(t, rep.OK())
	assert.Equal(t, "alice", rep.Active)
	assert.Contains(t, rep.String(), "OK")
}

func TestCheckAuth_NoUserAndMismatch(t *testing.T) {
	r, _, repo := setup(t, "https://github.com/acme/widget.git", activeAlice)

	rep, err := r.CheckAuth(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, []remote.Warning{remote.WarnNoEmbeddedUser, remote.WarnAccountMismatch}, rep.Warnings)
	assert.False(t, rep.OK())
}

func TestCheckAuth_ZeroAccountsStillRenders(t *testing.T) {
	r, _, repo := setup(t, "https://github.com/acme/widget.git", "You are not logged into any GitHub hosts.\n")

	rep, err := r.CheckAuth(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, []remote.Warning{remote.WarnNoEmbeddedUser, remote.WarnNoActiveAccount}, rep.Warnings)
	out := rep.String()
	assert.Contains(t, out, "Active gh account: (none)")
	assert.Contains(t, out, string(remote.WarnNoActiveAccount))
}

func TestCheckAuth_GhUnavailable(t *testing.T) {
	repo := testutil.TempRepoDir(t)
	fake := testutil.NewFakeCommander()
	fake.Register("git -C "+repo+" remote get-url origin", "https://bob@github.com/bob/w.git\n", nil)
	fake.Register("gh auth status", "", fmt.Errorf("gh: not found"))

	rep, err := remote.New(fake, "github.com").CheckAuth(context.Background(), repo)
	require.NoError(t, err)
	assert.Contains(t, rep.Warnings, remote.WarnAccountsUnknown)
	assert.Contains(t, rep.Warnings, remote.WarnNoActiveAccount)
}

func TestCheckAuth_UnsupportedRemote(t *testing.T) {
	r, _, repo := setup(t, "https://gitlab.com/acme/widget", activeAlice)

	rep, err := r.CheckAuth(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, []remote.Warning{remote.WarnUnsupportedURL}, rep.Warnings)
}

func TestCheckAuth_NotAGitRepo(t *testing.T) {
	fake := testutil.NewFakeCommander()

	_, err := remote.New(fake, "github.com").CheckAuth(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, remote.ErrNotAGitRepo)
	assert.Empty(t, fake.Calls)
}

func TestCheckAuth_NoRemote(t *testing.T) {
	repo := testutil.TempRepoDir(t)
	fake := testutil.NewFakeCommander()
	fake.Register("git -C", "error: No such remote 'origin'", fmt.Errorf("exit status 2"))

	_, err := remote.New(fake, "github.com").CheckAuth(context.Background(), repo)
	assert.ErrorIs(t, err, remote.ErrNoRemote)
}

func TestFixRemote_DefaultsToOwner(t *testing.T) {
	r, fake, repo := setup(t, "git@github.com:acme/widget.git", activeAlice)

	res, err := r.FixRemote(context.Background(), repo, "")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "acme", res.Username)
	assert.Equal(t, "https://acme@github.com/acme/widget.git", res.NewURL)
	assert.True(t, fake.Called("git -C "+repo+" remote set-url origin https://acme@github.com/acme/widget.git"))
	assert.True(t, fake.Called("gh auth setup-git -h github.com"))
	assert.Empty(t, res.Note)
}

func TestFixRemote_Idempotent(t *testing.T) {
	r, _, repo := setup(t, "https://github.com/acme/widget.git", activeAlice)
	first, err := r.FixRemote(context.Background(), repo, "bob")
	require.NoError(t, err)

	r2, fake2, repo2 := setup(t, first.NewURL, activeAlice)
	second, err := r2.FixRemote(context.Background(), repo2, "bob")
	require.NoError(t, err)

	assert.Equal(t, first.NewURL, second.NewURL)
	assert.False(t, second.Changed)
	assert.False(t, fake2.Called("git -C "+repo2+" remote set-url"))
}

func TestFixRemote_SetupGitFailureIsNote(t *testing.T) {
	r, fake, repo := setup(t, "https://github.com/acme/widget.git", activeAlice)
	fake.Register("gh auth setup-git", "", fmt.Errorf("exit status 1"))

	res, err := r.FixRemote(context.Background(), repo, "bob")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.NotEmpty(t, res.Note)
	assert.Contains(t, res.String(), "Note:")
}

func TestFixRemote_SetURLFails(t *testing.T) {
	r, fake, repo := setup(t, "https://github.com/acme/widget.git", activeAlice)
	fake.Register("git -C "+repo+" remote set-url origin", "fatal: could not lock config", fmt.Errorf("exit status 255"))

	_, err := r.FixRemote(context.Background(), repo, "bob")
	assert.ErrorIs(t, err, remote.ErrRemoteUpdateFailed)
	assert.False(t, fake.Called("gh auth setup-git"))
}

func TestFixRemote_Unsupported(t *testing.T) {
	r, _, repo := setup(t, "https://gitlab.com/acme/widget", activeAlice)

	_, err := r.FixRemote(context.Background(), repo, "")
	assert.ErrorIs(t, err, remote.ErrUnsupportedRemote)
}

func TestSwitchAccount(t *testing.T) {
	fake := testutil.NewFakeCommander()
	fake.Register("gh auth switch -h github.com -u bob", "", nil)
	fake.Register("gh auth switch -h github.com -u ghost", "no accounts matched", fmt.Errorf("exit status 1"))
	r := remote.New(fake, "github.com")

	require.NoError(t, r.SwitchAccount(context.Background(), "bob"))

	err := r.SwitchAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, gh.ErrSwitchFailed)
	assert.Contains(t, err.Error(), "no accounts matched")
}

func TestActiveAccount(t *testing.T) {
	r, _, _ := setup(t, "https://github.com/acme/widget.git", activeAlice)

	name, ok := r.ActiveAccount(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	accounts, err := r.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
