// Package manager는 프로필, 계정 바인딩, remote 점검, 앱 실행을 하나의 작업 표면으로 묶는다.
// 각 작업은 사람이 읽는 텍스트 요약을 반환하며, CLI와 MCP 서버가 같은 작업을 공유한다.
package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/guard"
	"github.com/hbjs97/cprof/internal/identity"
	"github.com/hbjs97/cprof/internal/launcher"
	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/hbjs97/cprof/internal/profile"
	"github.com/hbjs97/cprof/internal/remote"
	"github.com/rs/zerolog"
)

// ErrEmptyAccount는 계정명이 비어 있을 때 반환된다.
var ErrEmptyAccount = errors.New("계정명이 비어 있음")

// Detector는 앱 실행 여부를 조회한다.
type Detector interface {
	Detect(ctx context.Context) guard.Detection
}

// Deps는 Manager 구성 요소다.
type Deps struct {
	AppName    string
	Profiles   *profile.Store
	Identities *identity.Store
	Remote     *remote.Reconciler
	Launcher   *launcher.Launcher
	Detector   Detector
	AutoOpen   bool
}

// Manager는 작업 표면이다.
type Manager struct {
	appName    string
	profiles   *profile.Store
	identities *identity.Store
	remote     *remote.Reconciler
	launcher   *launcher.Launcher
	detector   Detector
	autoOpen   bool
	log        zerolog.Logger
}

// New는 새 Manager를 생성한다.
func New(d Deps) *Manager {
	return &Manager{
		appName:    d.AppName,
		profiles:   d.Profiles,
		identities: d.Identities,
		remote:     d.Remote,
		launcher:   d.Launcher,
		detector:   d.Detector,
		autoOpen:   d.AutoOpen,
		log:        logging.Component("manager"),
	}
}

// Layout은 프로필 저장소의 경로 구성이다.
func (m *Manager) Layout() paths.Layout {
	return m.profiles.Layout()
}

// Profiles는 프로필 저장소다.
func (m *Manager) Profiles() *profile.Store {
	return m.profiles
}

func (m *Manager) builtin() bool {
	return m.launcher.Mode() == config.LaunchBuiltin
}

// ListProfiles는 프로필 목록을 활성 표시, 불완전 표시, 바인딩 계정과 함께 반환한다.
func (m *Manager) ListProfiles(_ context.Context) (string, error) {
	entries := m.profiles.List()
	if len(entries) == 0 {
		return "No profiles found", nil
	}
	bindings := m.identities.All()

	var b strings.Builder
	b.WriteString("Available profiles:")
	for _, e := range entries {
		mark := " "
		if e.Active {
			mark = "*"
		}
		fmt.Fprintf(&b, "\n%s %s", mark, e.Name)
		if account, ok := bindings[e.Name]; ok {
			fmt.Fprintf(&b, " (gh: %s)", account)
		}
		if !e.Complete {
			b.WriteString(" [incomplete]")
		}
	}
	return b.String(), nil
}

// SwitchProfile은 name 프로필로 전환하고, 바인딩된 계정이 있으면 gh 계정도 바꾼 뒤 앱을 연다.
// builtin 모드에서는 링크를 건드리지 않고 앱을 --profile로 연다.
func (m *Manager) SwitchProfile(ctx context.Context, name string) (string, error) {
	var lines []string
	if m.builtin() {
		if err := profile.ValidateName(name, true); err != nil {
			return "", fmt.Errorf("manager.SwitchProfile: %w", err)
		}
		lines = append(lines, fmt.Sprintf("Selected profile '%s'", name))
	} else {
		if err := m.profiles.Activate(ctx, name); err != nil {
			return "", fmt.Errorf("manager.SwitchProfile: %w", err)
		}
		lines = append(lines, fmt.Sprintf("Switched to profile '%s'", name))
	}

	if account, ok := m.identities.Get(name); ok {
		lines = append(lines, m.applyAccount(ctx, account))
	}
	if line := m.maybeOpen(ctx, name); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// InitProfile은 현재 라이브 설정으로 새 프로필을 만든다. account가 있으면 바인딩하고 gh 계정을 바꾼다.
func (m *Manager) InitProfile(ctx context.Context, name, account string) (string, error) {
	var lines []string
	if m.builtin() {
		if err := profile.ValidateName(name, true); err != nil {
			return "", fmt.Errorf("manager.InitProfile: %w", err)
		}
		lines = append(lines, fmt.Sprintf("Profile '%s' will be created by %s on first launch", name, m.appName))
	} else {
		if err := m.profiles.Create(ctx, name); err != nil {
			return "", fmt.Errorf("manager.InitProfile: %w", err)
		}
		lines = append(lines, fmt.Sprintf("Initialized new profile '%s'", name))
	}

	if account != "" {
		// 프로필은 이미 만들어졌으므로 바인딩 실패는 경고로 낮춘다
		if err := m.identities.Set(name, account); err != nil {
			m.log.Warn().Err(err).Str("profile", name).Msg("바인딩 저장 실패")
			lines = append(lines, fmt.Sprintf("Warning: could not link profile '%s' to GitHub account '%s': %v", name, account, err))
		} else {
			lines = append(lines, fmt.Sprintf("Linked profile '%s' to GitHub account '%s'", name, account))
		}
		lines = append(lines, m.applyAccount(ctx, account))
	}
	if line := m.maybeOpen(ctx, name); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// RenameProfile은 프로필 이름을 바꾸고 바인딩도 함께 옮긴다.
func (m *Manager) RenameProfile(ctx context.Context, oldName, newName string) (string, error) {
	if err := m.profiles.Rename(ctx, oldName, newName); err != nil {
		return "", fmt.Errorf("manager.RenameProfile: %w", err)
	}
	msg := fmt.Sprintf("Renamed profile '%s' to '%s'", oldName, newName)

	moved, err := m.identities.Rename(oldName, newName)
	switch {
	case err != nil:
		m.log.Warn().Err(err).Msg("바인딩 이동 실패")
		msg += fmt.Sprintf("\nWarning: identity binding was not moved: %v", err)
	case moved:
		msg += "\nMoved identity binding"
	}
	return msg, nil
}

// OpenApp은 앱을 연다. builtin 모드에서 name이 있으면 그 프로필로, symlink 모드에서는 name을 무시한다.
func (m *Manager) OpenApp(ctx context.Context, name string) (string, error) {
	if name != "" && m.builtin() {
		if err := profile.ValidateName(name, true); err != nil {
			return "", fmt.Errorf("manager.OpenApp: %w", err)
		}
	}
	if err := m.launcher.Open(ctx, name); err != nil {
		return "", fmt.Errorf("manager.OpenApp: %w", err)
	}
	if name != "" && m.builtin() {
		return fmt.Sprintf("Opened %s with profile '%s'", m.appName, name), nil
	}
	return fmt.Sprintf("Opened %s application", m.appName), nil
}

// LinkIdentity는 프로필에 GitHub 계정을 바인딩한다. 기존 바인딩은 덮어쓴다.
func (m *Manager) LinkIdentity(_ context.Context, name, account string) (string, error) {
	if err := profile.ValidateName(name, m.builtin()); err != nil {
		return "", fmt.Errorf("manager.LinkIdentity: %w", err)
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return "", fmt.Errorf("manager.LinkIdentity: %w", ErrEmptyAccount)
	}
	if err := m.identities.Set(name, account); err != nil {
		return "", fmt.Errorf("manager.LinkIdentity: %w", err)
	}
	return fmt.Sprintf("Linked profile '%s' to GitHub account '%s'", name, account), nil
}

// UnlinkIdentity는 프로필의 바인딩을 제거한다.
func (m *Manager) UnlinkIdentity(_ context.Context, name string) (string, error) {
	if err := m.identities.Unset(name); err != nil {
		return "", fmt.Errorf("manager.UnlinkIdentity: %w", err)
	}
	return fmt.Sprintf("Unlinked GitHub account from profile '%s'", name), nil
}

// ListAccounts는 gh에 로그인된 계정 목록을 반환한다.
func (m *Manager) ListAccounts(ctx context.Context) (string, error) {
	accounts, err := m.remote.ListAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("manager.ListAccounts: %w", err)
	}
	if len(accounts) == 0 {
		return fmt.Sprintf("No GitHub accounts logged in to %s (run: gh auth login)", m.remote.Host()), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "GitHub accounts (%s):", m.remote.Host())
	for _, a := range accounts {
		if a.Active {
			fmt.Fprintf(&b, "\n* %s (active)", a.Username)
		} else {
			fmt.Fprintf(&b, "\n  %s", a.Username)
		}
	}
	return b.String(), nil
}

// CheckAuth는 리포의 remote와 gh 계정 상태를 점검한다.
func (m *Manager) CheckAuth(ctx context.Context, repoPath string) (string, error) {
	rep, err := m.remote.CheckAuth(ctx, repoPath)
	if err != nil {
		return "", fmt.Errorf("manager.CheckAuth: %w", err)
	}
	return rep.String(), nil
}

// FixRemote는 remote URL에 계정명을 박는다.
func (m *Manager) FixRemote(ctx context.Context, repoPath, account string) (string, error) {
	res, err := m.remote.FixRemote(ctx, repoPath, strings.TrimSpace(account))
	if err != nil {
		return "", fmt.Errorf("manager.FixRemote: %w", err)
	}
	return res.String(), nil
}

// SwitchAccount는 gh 활성 계정을 바꾼다.
func (m *Manager) SwitchAccount(ctx context.Context, account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", fmt.Errorf("manager.SwitchAccount: %w", ErrEmptyAccount)
	}
	if err := m.remote.SwitchAccount(ctx, account); err != nil {
		return "", fmt.Errorf("manager.SwitchAccount: %w", err)
	}
	return fmt.Sprintf("Switched GitHub account to '%s'", account), nil
}

// Repair는 두 라이브 경로를 같은 프로필로 다시 맞춘다.
func (m *Manager) Repair(ctx context.Context, name string) (string, error) {
	before := m.profiles.Inspect()
	repaired, err := m.profiles.Repair(ctx, name)
	if err != nil {
		return "", fmt.Errorf("manager.Repair: %w", err)
	}
	if before.Consistent && name == "" {
		return fmt.Sprintf("Profile '%s' already consistent; links refreshed", repaired), nil
	}
	return fmt.Sprintf("Repaired links to profile '%s'", repaired), nil
}

// applyAccount는 gh 계정을 바꾸고 결과 한 줄을 돌려준다. 실패는 경고 줄이 된다.
func (m *Manager) applyAccount(ctx context.Context, account string) string {
	if err := m.remote.SwitchAccount(ctx, account); err != nil {
		m.log.Warn().Err(err).Str("account", account).Msg("gh 계정 전환 실패, 프로필 전환은 유지")
		return fmt.Sprintf("Warning: could not switch GitHub account to '%s': %v", account, err)
	}
	return fmt.Sprintf("Switched GitHub account to '%s'", account)
}

// maybeOpen은 auto_open이면 앱을 연다. 실패는 경고 줄이 된다.
func (m *Manager) maybeOpen(ctx context.Context, name string) string {
	if !m.autoOpen {
		return ""
	}
	if err := m.launcher.Open(ctx, name); err != nil {
		m.log.Warn().Err(err).Msg("앱 실행 실패")
		return fmt.Sprintf("Warning: could not open %s: %v", m.appName, err)
	}
	return fmt.Sprintf("Opened %s", m.appName)
}
