// Package remote는 git remote URL에 박힌 계정과 gh의 활성 계정을 리모트 소유자와 맞춘다.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbjs97/cprof/internal/cmdexec"
	"github.com/hbjs97/cprof/internal/gh"
	"github.com/hbjs97/cprof/internal/git"
	"github.com/hbjs97/cprof/internal/logging"
	"github.com/rs/zerolog"
)

var (
	// ErrNotAGitRepo는 경로에 .git 메타데이터가 없을 때 반환된다.
	ErrNotAGitRepo = errors.New("git 리포지토리가 아님")
	// ErrNoRemote는 origin remote가 없을 때 반환된다.
	ErrNoRemote = errors.New("origin remote 없음")
	// ErrUnsupportedRemote는 origin이 지원하는 URL 형식이 아닐 때 fix에서 반환된다.
	ErrUnsupportedRemote = errors.New("지원하지 않는 remote 형식")
	// ErrRemoteUpdateFailed는 git remote set-url이 실패했을 때 반환된다.
	ErrRemoteUpdateFailed = errors.New("remote URL 변경 실패")
)

const originRemote = "origin"

// Warning은 CheckAuth가 보고하는 개별 경고다.
type Warning string

const (
	WarnNoEmbeddedUser  Warning = "remote URL에 계정명이 없음"
	WarnAccountMismatch Warning = "활성 gh 계정이 리모트 소유자와 다름"
	WarnNoActiveAccount Warning = "활성 gh 계정 없음"
	WarnUnsupportedURL  Warning = "지원하지 않는 remote 형식"
	WarnAccountsUnknown Warning = "gh 계정 조회 실패"
)

// Report는 CheckAuth 결과다.
type Report struct {
	RepoPath  string
	RemoteURL string
	Remote    git.Remote
	Accounts  []gh.Account
	Active    string
	Warnings  []Warning
}

// OK는 경고가 하나도 없을 때 true다.
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

// String은 사람이 읽는 요약을 만든다.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", r.RepoPath)
	fmt.Fprintf(&b, "Remote: %s\n", r.RemoteURL)
	if r.Remote.Owner != "" {
		fmt.Fprintf(&b, "Owner: %s  Repo: %s\n", r.Remote.Owner, r.Remote.Repo)
	}
	user := r.Remote.User
	if user == "" {
		user = "(none)"
	}
	fmt.Fprintf(&b, "Embedded user: %s\n", user)
	active := r.Active
	if active == "" {
		active = "(none)"
	}
	fmt.Fprintf(&b, "Active gh account: %s\n", active)
	if len(r.Accounts) > 0 {
		names := make([]string, 0, len(r.Accounts))
		for _, a := range r.Accounts {
			names = append(names, a.Username)
		}
		fmt.Fprintf(&b, "Logged-in accounts: %s\n", strings.Join(names, ", "))
	}
	if r.OK() {
		b.WriteString("OK")
		return b.String()
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", w)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FixResult는 FixRemote 결과다.
type FixResult struct {
	OldURL   string
	NewURL   string
	Username string
	Changed  bool
	Note     string
}

// String은 사람이 읽는 요약을 만든다.
func (f FixResult) String() string {
	var b strings.Builder
	if f.Changed {
		fmt.Fprintf(&b, "Remote updated: %s -> %s", f.OldURL, f.NewURL)
	} else {
		fmt.Fprintf(&b, "Remote already set: %s", f.NewURL)
	}
	if f.Note != "" {
		fmt.Fprintf(&b, "\nNote: %s", f.Note)
	}
	return b.String()
}

// Reconciler는 remote 점검, 수정, 계정 전환을 수행한다.
type Reconciler struct {
	git  *git.Adapter
	gh   *gh.Adapter
	host string
	log  zerolog.Logger
}

// New는 host(예: github.com)를 대상으로 하는 Reconciler를 생성한다.
func New(cmd cmdexec.Commander, host string) *Reconciler {
	return &Reconciler{
		git:  git.NewAdapter(cmd),
		gh:   gh.NewAdapter(cmd),
		host: host,
		log:  logging.Component("remote"),
	}
}

// Host는 대상 호스트다.
func (r *Reconciler) Host() string {
	return r.host
}

// ListAccounts는 host에 로그인된 gh 계정 목록을 반환한다.
func (r *Reconciler) ListAccounts(ctx context.Context) ([]gh.Account, error) {
	accounts, err := r.gh.ListAccounts(ctx, r.host)
	if err != nil {
		return nil, fmt.Errorf("remote.ListAccounts: %w", err)
	}
	return accounts, nil
}

// ActiveAccount는 활성 계정명을 반환한다. 조회 실패나 활성 계정 없음은 false다.
func (r *Reconciler) ActiveAccount(ctx context.Context) (string, bool) {
	accounts, err := r.gh.ListAccounts(ctx, r.host)
	if err != nil {
		r.log.Debug().Err(err).Msg("활성 계정 조회 실패")
		return "", false
	}
	a, ok := gh.ActiveAccount(accounts)
	return a.Username, ok
}

// CheckAuth는 repoPath의 origin remote와 gh 계정 상태를 점검한다.
// 경고 항목은 서로 독립적으로 평가된다.
func (r *Reconciler) CheckAuth(ctx context.Context, repoPath string) (Report, error) {
	rawURL, err := r.origin(ctx, repoPath)
	if err != nil {
		return Report{}, fmt.Errorf("remote.CheckAuth: %w", err)
	}
	rep := Report{RepoPath: repoPath, RemoteURL: rawURL}

	parsed, ok := git.ParseRemote(rawURL, r.host)
	if ok {
		rep.Remote = parsed
	} else {
		rep.Warnings = append(rep.Warnings, WarnUnsupportedURL)
	}

	accounts, err := r.gh.ListAccounts(ctx, r.host)
	if err != nil {
		r.log.Warn().Err(err).Msg("gh 계정 조회 실패, 계정 없음으로 취급")
		rep.Warnings = append(rep.Warnings, WarnAccountsUnknown)
	}
	rep.Accounts = accounts
	if a, found := gh.ActiveAccount(accounts); found {
		rep.Active = a.Username
	}

	if ok && parsed.User == "" {
		rep.Warnings = append(rep.Warnings, WarnNoEmbeddedUser)
	}
	if ok && rep.Active != "" && !strings.EqualFold(rep.Active, parsed.Owner) {
		rep.Warnings = append(rep.Warnings, WarnAccountMismatch)
	}
	if rep.Active == "" {
		rep.Warnings = append(rep.Warnings, WarnNoActiveAccount)
	}
	return rep, nil
}

// FixRemote는 origin URL을 username이 박힌 HTTPS URL로 바꾼다. username이 비면 리모트 소유자를 쓴다.
// 이후 gh auth setup-git을 시도하며, 그 실패는 Note로만 남긴다.
func (r *Reconciler) FixRemote(ctx context.Context, repoPath, username string) (FixResult, error) {
	rawURL, err := r.origin(ctx, repoPath)
	if err != nil {
		return FixResult{}, fmt.Errorf("remote.FixRemote: %w", err)
	}
	parsed, ok := git.ParseRemote(rawURL, r.host)
	if !ok {
		return FixResult{}, fmt.Errorf("remote.FixRemote: %w: %s", ErrUnsupportedRemote, rawURL)
	}
	if username == "" {
		username = parsed.Owner
	}

	res := FixResult{
		OldURL:   rawURL,
		NewURL:   git.BuildHTTPSRemoteURL(username, r.host, parsed.Owner, parsed.Repo),
		Username: username,
	}
	if res.NewURL != rawURL {
		if err := r.git.SetRemoteURL(ctx, repoPath, originRemote, res.NewURL); err != nil {
			return FixResult{}, fmt.Errorf("remote.FixRemote: %w: %s", ErrRemoteUpdateFailed, gh.MaskTokens(err.Error()))
		}
		res.Changed = true
		r.log.Info().Str("repo", repoPath).Str("url", res.NewURL).Msg("remote URL 변경")
	}

	if err := r.gh.SetupGit(ctx, r.host); err != nil {
		r.log.Warn().Err(err).Msg("credential helper 설정 실패")
		res.Note = fmt.Sprintf("gh auth setup-git 실패 (URL 변경은 완료됨): %v", err)
	}
	return res, nil
}

// SwitchAccount는 gh 활성 계정을 username으로 바꾼다.
func (r *Reconciler) SwitchAccount(ctx context.Context, username string) error {
	if err := r.gh.Switch(ctx, r.host, username); err != nil {
		return fmt.Errorf("remote.SwitchAccount: %w", err)
	}
	r.log.Info().Str("account", username).Msg("gh 계정 전환")
	return nil
}

func (r *Reconciler) origin(ctx context.Context, repoPath string) (string, error) {
	if !git.IsRepo(repoPath) {
		return "", fmt.Errorf("%w: %s", ErrNotAGitRepo, repoPath)
	}
	rawURL, err := r.git.GetRemoteURL(ctx, repoPath, originRemote)
	if err != nil || rawURL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoRemote, repoPath)
	}
	return rawURL, nil
}
