package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/identity"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/hbjs97/cprof/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authStatus = `github.com
  ✓ Logged in to github.com account alice (keyring)
  - Active account: true
  ✓ Logged in to github.com account bob (keyring)
  - Active account: false
`

// mockFormRunner는 테스트용 FormRunner다.
type mockFormRunner struct {
	settings    SettingsInput
	settingsErr error
	gotDefaults SettingsInput
	accounts    map[string]string
	asked       []string
	confirm     bool
	confirmed   int
}

func (m *mockFormRunner) RunSettingsForm(defaults SettingsInput) (SettingsInput, error) {
	m.gotDefaults = defaults
	return m.settings, m.settingsErr
}

func (m *mockFormRunner) RunAccountSelect(profileName string, accounts []string) (string, error) {
	m.asked = append(m.asked, profileName)
	if a, ok := m.accounts[profileName]; ok {
		return a, nil
	}
	return skipAccount, nil
}

func (m *mockFormRunner) RunConfirm(message string) (bool, error) {
	m.confirmed++
	return m.confirm, nil
}

type fakeLister struct{}

func (fakeLister) ProcessNames(context.Context) ([]string, error) { return nil, nil }

func defaultSettings() SettingsInput {
	return SettingsInput{
		AppName:    "Cursor",
		LaunchMode: config.LaunchSymlink,
		GitHost:    "github.com",
		AutoOpen:   false,
	}
}

func newRunner(t *testing.T, fc *testutil.FakeCommander, form FormRunner) (*Runner, *bytes.Buffer, string) {
	t.Helper()
	home := t.TempDir()
	var out bytes.Buffer
	return &Runner{
		CfgPath:    filepath.Join(t.TempDir(), "config.toml"),
		Commander:  fc,
		FormRunner: form,
		Lister:     fakeLister{},
		Family:     paths.FamilyPOSIX,
		Home:       home,
		Out:        &out,
	}, &out, home
}

func TestRunner_FirstRun_WritesConfig(t *testing.T) {
	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{Output: []byte("ok\n")}
	form := &mockFormRunner{settings: defaultSettings()}
	form.settings.ProcessNames = []string{"Cursor Helper"}

	r, out, _ := newRunner(t, fc, form)
	require.NoError(t, r.Run(context.Background()))

	cfg, err := config.Load(r.CfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Cursor", cfg.AppName)
	assert.False(t, cfg.IsAutoOpen())
	assert.Equal(t, []string{"Cursor Helper"}, cfg.ProcessNames)

	assert.Equal(t, 0, form.confirmed, "첫 실행은 확인을 묻지 않는다")
	assert.Equal(t, "Cursor", form.gotDefaults.AppName)
	assert.True(t, form.gotDefaults.AutoOpen)
	assert.Contains(t, out.String(), "초기 설정")
	assert.Contains(t, out.String(), "프로필이 없어 계정 연결을 건너뜁니다")
	assert.Contains(t, out.String(), "환경 진단 실행 중")
	assert.Empty(t, form.asked)
}

func TestRunner_Existing_Declined(t *testing.T) {
	fc := testutil.NewFakeCommander()
	form := &mockFormRunner{settings: defaultSettings(), confirm: false}

	r, out, _ := newRunner(t, fc, form)
	require.NoError(t, os.WriteFile(r.CfgPath, []byte("app_name = \"Code\"\n"), 0600))

	require.NoError(t, r.Run(context.Background()))

	cfg, err := config.Load(r.CfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Code", cfg.AppName, "취소하면 설정이 그대로다")
	assert.Contains(t, out.String(), "취소")
	assert.Empty(t, fc.Calls)
}

func TestRunner_Existing_BindsUnlinkedProfiles(t *testing.T) {
	fc := testutil.NewFakeCommander()
	fc.Register("gh auth status --hostname github.com", authStatus, nil)
	fc.DefaultResponse = &testutil.Response{Output: []byte("ok\n")}
	form := &mockFormRunner{
		settings: defaultSettings(),
		confirm:  true,
		accounts: map[string]string{"work": "bob"},
	}

	r, out, home := newRunner(t, fc, form)
	idPath := filepath.Join(t.TempDir(), "identities.json")
	content := fmt.Sprintf("app_name = \"Code\"\nidentities_path = %q\n", idPath)
	require.NoError(t, os.WriteFile(r.CfgPath, []byte(content), 0600))

	ids := identity.NewStore(afero.NewOsFs(), idPath)
	require.NoError(t, ids.Set("home", "alice"))

	l := paths.Resolve(paths.FamilyPOSIX, home, "Cursor")
	testutil.MakeProfile(t, l, "home")
	testutil.MakeProfile(t, l, "work")
	testutil.MakeProfile(t, l, "scratch")

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, "Code", form.gotDefaults.AppName, "기존 값을 초기값으로 보여준다")
	assert.ElementsMatch(t, []string{"scratch", "work"}, form.asked, "이미 연결된 프로필은 묻지 않는다")

	got, ok := ids.Get("work")
	require.True(t, ok)
	assert.Equal(t, "bob", got)
	_, ok = ids.Get("scratch")
	assert.False(t, ok)
	assert.Contains(t, out.String(), "work -> bob")

	cfg, err := config.Load(r.CfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Cursor", cfg.AppName)
	assert.Equal(t, idPath, cfg.IdentitiesPath, "폼에 없는 값은 보존된다")
}

func TestRunner_NoAccounts_SkipsBinding(t *testing.T) {
	fc := testutil.NewFakeCommander()
	fc.Register("gh auth status", "", errors.New("exit status 1"))
	fc.DefaultResponse = &testutil.Response{Output: []byte("ok\n")}
	form := &mockFormRunner{settings: defaultSettings()}

	r, out, home := newRunner(t, fc, form)
	testutil.MakeProfile(t, paths.Resolve(paths.FamilyPOSIX, home, "Cursor"), "work")

	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, form.asked)
	assert.Contains(t, out.String(), "로그인된 gh 계정이 없어")
}

func TestRunner_FormError(t *testing.T) {
	fc := testutil.NewFakeCommander()
	form := &mockFormRunner{settingsErr: errors.New("user aborted")}

	r, _, _ := newRunner(t, fc, form)
	err := r.Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(r.CfgPath)
	assert.True(t, os.IsNotExist(statErr), "폼 실패 시 설정 파일을 만들지 않는다")
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, WriteTemplate(path, false))
	cfg, err := config.Load(path)
	require.NoError(t, err, "템플릿은 그대로 로드 가능해야 한다")
	assert.Equal(t, "Cursor", cfg.AppName)
	assert.Equal(t, config.LaunchSymlink, cfg.LaunchMode)

	err = WriteTemplate(path, false)
	assert.ErrorIs(t, err, ErrConfigExists)

	require.NoError(t, os.WriteFile(path, []byte("app_name = \"Code\"\n"), 0600))
	require.NoError(t, WriteTemplate(path, true))
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Cursor", cfg.AppName)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, splitList(" a, ,b c ,"))
	assert.Nil(t, splitList(""))
}
