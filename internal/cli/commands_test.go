package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/cprof/internal/cli"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/hbjs97/cprof/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authStatus = `github.com
  ✓ Logged in to github.com account alice (keyring)
  - Active account: true
  ✓ Logged in to github.com account bob (keyring)
  - Active account: false
`

type fakeLister struct{ names []string }

func (f fakeLister) ProcessNames(context.Context) ([]string, error) { return f.names, nil }

type testEnv struct {
	app     *cli.App
	fc      *testutil.FakeCommander
	layout  paths.Layout
	cfgPath string
	idPath  string
}

// newTestEnv는 임시 홈과 설정 파일, FakeCommander로 App을 만든다.
// extra는 설정 파일 끝에 덧붙는 TOML이다.
func newTestEnv(t *testing.T, extra string) *testEnv {
	t.Helper()
	home := t.TempDir()
	cfgDir := t.TempDir()
	idPath := filepath.Join(cfgDir, "identities.json")
	cfg := fmt.Sprintf("app_name = \"Cursor\"\nauto_open = false\nidentities_path = %q\n%s", idPath, extra)
	cfgPath := filepath.Join(cfgDir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0600))

	fc := testutil.NewFakeCommander()
	return &testEnv{
		app: &cli.App{
			Commander: fc,
			CfgPath:   cfgPath,
			Lister:    fakeLister{},
			Family:    paths.FamilyPOSIX,
			Home:      home,
		},
		fc:      fc,
		layout:  paths.Resolve(paths.FamilyPOSIX, home, "Cursor"),
		cfgPath: cfgPath,
		idPath:  idPath,
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := e.app.NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// --- profile commands ---

func TestListCmd_Empty(t *testing.T) {
	e := newTestEnv(t, "")

	out, err := e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No profiles found")
}

func TestInitCmd_AdoptsLiveDirectories(t *testing.T) {
	e := newTestEnv(t, "")
	for _, tree := range e.layout.Trees() {
		require.NoError(t, os.MkdirAll(tree.Live, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tree.Live, "settings.json"), []byte(tree.Name), 0644))
	}

	out, err := e.run(t, "init", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized new profile 'work'")

	for _, tree := range e.layout.Trees() {
		assert.Equal(t, filepath.Join(tree.Store, "work"), testutil.ReadLink(t, tree.Live))
		data, err := os.ReadFile(filepath.Join(tree.Store, "work", "settings.json"))
		require.NoError(t, err)
		assert.Equal(t, tree.Name, string(data))
	}

	out, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* work")
}

func TestInitCmd_WithAccount(t *testing.T) {
	e := newTestEnv(t, "")
	e.fc.Register("gh auth switch", "", nil)

	out, err := e.run(t, "init", "work", "--account", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Linked profile 'work' to GitHub account 'bob'")
	assert.True(t, e.fc.Called("gh auth switch -h github.com -u bob"))

	data, err := os.ReadFile(e.idPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"github_username": "bob"`)
}

func TestInitCmd_AlreadyExists(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "work")

	_, err := e.run(t, "init", "work")
	require.Error(t, err)
	assert.Equal(t, cli.ExitAlreadyExists, cli.MapExitCode(err))
}

func TestSwitchCmd(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "home")
	testutil.MakeProfile(t, e.layout, "work")
	testutil.LinkProfile(t, e.layout, "home")
	e.fc.Register("gh auth switch", "", nil)
	require.NoError(t, os.WriteFile(e.idPath, []byte(`{"identities":{"work":{"github_username":"bob"}}}`), 0600))

	out, err := e.run(t, "switch", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Switched to profile 'work'")
	assert.Contains(t, out, "Switched GitHub account to 'bob'")
	for _, tree := range e.layout.Trees() {
		assert.Equal(t, filepath.Join(tree.Store, "work"), testutil.ReadLink(t, tree.Live))
	}
	assert.Empty(t, e.fc.Starts, "auto_open = false")
}

func TestSwitchCmd_AutoOpenAndNoOpen(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(fmt.Sprintf("identities_path = %q\n", e.idPath)), 0600))
	testutil.MakeProfile(t, e.layout, "work")

	out, err := e.run(t, "switch", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Cursor")
	assert.True(t, e.fc.Started("cursor"))

	e.fc.Starts = nil
	_, err = e.run(t, "--no-open", "switch", "work")
	require.NoError(t, err)
	assert.Empty(t, e.fc.Starts)
}

func TestSwitchCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		running []string
		profile string
		want    cli.ExitCode
	}{
		{"invalid name", nil, "../etc", cli.ExitInvalidName},
		{"not found", nil, "ghost", cli.ExitNotFound},
		{"app running", []string{"cursor"}, "work", cli.ExitAppRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, "")
			e.app.Lister = fakeLister{names: tt.running}
			testutil.MakeProfile(t, e.layout, "work")

			_, err := e.run(t, "switch", tt.profile)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.MapExitCode(err))
		})
	}
}

func TestSwitchCmd_RealDirectoryRefused(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "work")
	require.NoError(t, os.MkdirAll(e.layout.DataDir, 0755))

	_, err := e.run(t, "switch", "work")
	require.Error(t, err)
	assert.Equal(t, cli.ExitLinkState, cli.MapExitCode(err))
}

func TestRenameCmd(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "work")
	testutil.LinkProfile(t, e.layout, "work")
	require.NoError(t, os.WriteFile(e.idPath, []byte(`{"identities":{"work":{"github_username":"bob"}}}`), 0600))

	out, err := e.run(t, "rename", "work", "job")
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed profile 'work' to 'job'")
	assert.Contains(t, out, "Moved identity binding")

	out, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* job (gh: bob)")
	assert.NotContains(t, out, "work")
}

func TestLinkUnlinkCmd(t *testing.T) {
	e := newTestEnv(t, "")

	out, err := e.run(t, "link", "work", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Linked profile 'work' to GitHub account 'bob'")

	out, err = e.run(t, "unlink", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlinked")

	_, err = e.run(t, "unlink", "work")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.MapExitCode(err))
}

func TestOpenCmd(t *testing.T) {
	e := newTestEnv(t, "")

	out, err := e.run(t, "open")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Cursor application")
	assert.True(t, e.fc.Started("cursor"))
}

func TestOpenCmd_BuiltinProfile(t *testing.T) {
	e := newTestEnv(t, "launch_mode = \"builtin\"\n")

	out, err := e.run(t, "open", "--profile", "Side Project")
	require.NoError(t, err)
	assert.Contains(t, out, "with profile 'Side Project'")
	assert.True(t, e.fc.Started("cursor --profile Side Project"))
}

func TestRepairCmd(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "home")
	testutil.MakeProfile(t, e.layout, "work")
	testutil.LinkProfile(t, e.layout, "home")
	require.NoError(t, os.Remove(e.layout.DotDir))
	require.NoError(t, os.Symlink(filepath.Join(e.layout.DotStore, "work"), e.layout.DotDir))

	out, err := e.run(t, "repair")
	require.NoError(t, err)
	assert.Contains(t, out, "Repaired links to profile 'home'")
	assert.Equal(t, filepath.Join(e.layout.DotStore, "home"), testutil.ReadLink(t, e.layout.DotDir))
}

// --- account commands ---

func TestAccountsCmd(t *testing.T) {
	e := newTestEnv(t, "")
	e.fc.Register("gh auth status --hostname github.com", authStatus, nil)

	out, err := e.run(t, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "* alice (active)")
	assert.Contains(t, out, "bob")
}

func TestCheckAuthCmd(t *testing.T) {
	e := newTestEnv(t, "")
	repo := testutil.TempRepoDir(t)
	e.fc.Register("git -C "+repo+" remote get-url origin", "https://github.com/acme/widget.git\n", nil)
	e.fc.Register("gh auth status --hostname github.com", authStatus, nil)

	out, err := e.run(t, "check-auth", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "Owner: acme  Repo: widget")
	assert.Contains(t, out, "WARNING")
}

func TestCheckAuthCmd_NotARepo(t *testing.T) {
	e := newTestEnv(t, "")

	_, err := e.run(t, "check-auth", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, cli.ExitRemote, cli.MapExitCode(err))
}

func TestFixRemoteCmd(t *testing.T) {
	e := newTestEnv(t, "")
	repo := testutil.TempRepoDir(t)
	e.fc.Register("git -C "+repo+" remote get-url origin", "git@github.com:acme/widget.git\n", nil)
	e.fc.Register("git -C "+repo+" remote set-url origin", "", nil)
	e.fc.Register("gh auth setup-git", "", nil)

	out, err := e.run(t, "fix-remote", repo, "--account", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "https://bob@github.com/acme/widget.git")
	assert.True(t, e.fc.Called("git -C "+repo+" remote set-url origin https://bob@github.com/acme/widget.git"))
}

func TestSwitchAccountCmd_Failure(t *testing.T) {
	e := newTestEnv(t, "")
	e.fc.Register("gh auth switch", "no account found for carol", errors.New("exit status 1"))

	_, err := e.run(t, "switch-account", "carol")
	require.Error(t, err)
	assert.Equal(t, cli.ExitSwitchFailed, cli.MapExitCode(err))
	assert.Contains(t, err.Error(), "no account found")
}

// --- status / doctor ---

func TestStatusCmd(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "work")
	testutil.LinkProfile(t, e.layout, "work")
	e.fc.Register("gh auth status", authStatus, nil)
	require.NoError(t, os.WriteFile(e.idPath, []byte(`{"identities":{"work":{"github_username":"alice"}}}`), 0600))

	out, err := e.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Cursor (symlink, posix)")
	assert.Contains(t, out, "work (gh: alice)")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "consistent")
	assert.Contains(t, out, "not running")
}

func TestStatusCmd_JSON(t *testing.T) {
	e := newTestEnv(t, "")
	testutil.MakeProfile(t, e.layout, "work")
	testutil.LinkProfile(t, e.layout, "work")
	e.fc.Register("gh auth status", authStatus, nil)

	out, err := e.run(t, "status", "--json")
	require.NoError(t, err)

	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "work", snap["active_profile"])
	assert.Equal(t, "alice", snap["active_account"])
	assert.Equal(t, "not running", snap["app_running"])
}

func TestDoctorCmd(t *testing.T) {
	e := newTestEnv(t, "")
	e.fc.Register("git --version", "git version 2.44.0\n", nil)
	e.fc.Register("gh --version", "gh version 2.50.0\n", nil)
	e.fc.Register("gh auth status", authStatus, nil)

	out, err := e.run(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "git version 2.44.0")
	assert.Contains(t, out, "활성 계정 alice")
	assert.Contains(t, out, "link_consistency")
}

func TestDoctorCmd_BrokenConfig(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(e.cfgPath, []byte("launch_mode = \"teleport\"\n"), 0600))
	e.fc.DefaultResponse = &testutil.Response{Output: []byte("v1\n")}

	out, err := e.run(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "config:")
	assert.True(t, e.fc.Called("git --version"))
}

func TestBrokenConfig_ExitCode(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(e.cfgPath, []byte("launch_mode = \"teleport\"\n"), 0600))

	_, err := e.run(t, "list")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.MapExitCode(err))
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := (&cli.App{Commander: testutil.NewFakeCommander()}).NewRootCmd()
	for _, name := range []string{
		"list", "switch", "init", "rename", "open", "link", "unlink", "accounts",
		"check-auth", "fix-remote", "switch-account", "status", "repair", "doctor",
		"watch", "setup", "serve",
	} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-open"))
	assert.NotNil(t, cmd.PersistentFlags().ShorthandLookup("v"))
}
