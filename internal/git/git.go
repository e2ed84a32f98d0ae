package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hbjs97/cprof/internal/cmdexec"
)

// Remote는 remote URL에서 파싱한 리포지토리 정보다. User는 URL에 박힌 계정명이며 없을 수 있다.
type Remote struct {
	Owner string
	Repo  string
	User  string
}

var (
	httpsRemotePattern = regexp.MustCompile(`^https://(?:([^@/\s]+)@)?([^/\s]+)/([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)
	sshRemotePattern   = regexp.MustCompile(`^[^@\s]+@([^:\s]+):([^/\s]+)/([^/\s]+?)(?:\.git)?$`)
)

// ParseRemote는 host 호스트의 HTTPS(https://[user@]host/owner/repo[.git]) 또는
// SSH(user@host:owner/repo[.git]) remote URL을 파싱한다.
// 그 외 형식이거나 다른 호스트면 false를 반환한다. 지원하지 않는 remote는 에러가 아니다.
func ParseRemote(raw, host string) (Remote, bool) {
	raw = strings.TrimSpace(raw)
	if m := httpsRemotePattern.FindStringSubmatch(raw); m != nil {
		if !strings.EqualFold(m[2], host) {
			return Remote{}, false
		}
		user := m[1]
		// user:token 형식이면 계정명만 남긴다
		if i := strings.Index(user, ":"); i >= 0 {
			user = user[:i]
		}
		return Remote{Owner: m[3], Repo: m[4], User: user}, true
	}
	if m := sshRemotePattern.FindStringSubmatch(raw); m != nil {
		if !strings.EqualFold(m[1], host) {
			return Remote{}, false
		}
		// SSH의 "git@"는 계정이 아니라 전송 사용자다
		return Remote{Owner: m[2], Repo: m[3]}, true
	}
	return Remote{}, false
}

// BuildHTTPSRemoteURL은 user가 박힌 HTTPS remote URL을 생성한다.
func BuildHTTPSRemoteURL(user, host, owner, repo string) string {
	return fmt.Sprintf("https://%s@%s/%s/%s.git", user, host, owner, repo)
}

// IsRepo는 dir에 .git 메타데이터(디렉토리 또는 worktree 파일)가 있는지 확인한다.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Adapter는 git CLI를 Commander를 통해 실행한다.
type Adapter struct {
	cmd cmdexec.Commander
}

// NewAdapter는 새 Git Adapter를 생성한다.
func NewAdapter(cmd cmdexec.Commander) *Adapter {
	return &Adapter{cmd: cmd}
}

// GetRemoteURL은 remote URL을 반환한다.
func (a *Adapter) GetRemoteURL(ctx context.Context, repoDir, remoteName string) (string, error) {
	out, err := a.cmd.Run(ctx, "git", "-C", repoDir, "remote", "get-url", remoteName)
	if err != nil {
		return "", fmt.Errorf("git.GetRemoteURL: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// SetRemoteURL은 remote URL을 변경한다.
func (a *Adapter) SetRemoteURL(ctx context.Context, repoDir, remoteName, newURL string) error {
	if out, err := a.cmd.Run(ctx, "git", "-C", repoDir, "remote", "set-url", remoteName, newURL); err != nil {
		return fmt.Errorf("git.SetRemoteURL: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
