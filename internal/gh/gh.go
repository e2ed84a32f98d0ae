// Package gh는 GitHub CLI(gh)의 인증 상태 조회와 계정 전환을 감싼다.
package gh

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hbjs97/cprof/internal/cmdexec"
)

// ErrSwitchFailed는 gh auth switch가 실패했을 때 반환된다.
var ErrSwitchFailed = errors.New("gh 계정 전환 실패")

// Account는 gh auth status 출력에서 파싱한 계정이다.
type Account struct {
	Username string `json:"username"`
	Active   bool   `json:"active"`
}

var (
	// "Logged in to github.com account bob (keyring)" / 구버전 "Logged in to github.com as bob (...)"
	loggedInPattern = regexp.MustCompile(`Logged in to (\S+) (?:account|as) (\S+)`)
	activePattern   = regexp.MustCompile(`Active account:\s*(true|false)`)
)

// ParseAuthStatus는 gh auth status 출력을 줄 단위로 파싱한다.
// "Logged in" 줄이 대기 사용자명을 정하고, 다음 "Active account" 줄이 플래그를 붙인 뒤 대기 슬롯을 비운다.
// host가 비어 있지 않으면 해당 호스트 계정만 남긴다. 알 수 없는 줄은 무시한다.
func ParseAuthStatus(output, host string) []Account {
	var (
		accounts []Account
		pending  string
	)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if m := loggedInPattern.FindStringSubmatch(line); m != nil {
			pending = ""
			if host == "" || m[1] == host {
				pending = strings.TrimSuffix(m[2], ",")
			}
			continue
		}
		if m := activePattern.FindStringSubmatch(line); m != nil && pending != "" {
			accounts = append(accounts, Account{Username: pending, Active: m[1] == "true"})
			pending = ""
		}
	}
	return accounts
}

// ActiveAccount는 Active 계정을 반환한다. 없으면 false.
func ActiveAccount(accounts []Account) (Account, bool) {
	for _, a := range accounts {
		if a.Active {
			return a, true
		}
	}
	return Account{}, false
}

// Adapter는 gh CLI를 Commander를 통해 실행한다.
type Adapter struct {
	cmd cmdexec.Commander
}

// NewAdapter는 새 GH Adapter를 생성한다.
func NewAdapter(cmd cmdexec.Commander) *Adapter {
	return &Adapter{cmd: cmd}
}

// ListAccounts는 gh auth status를 실행해 host의 계정 목록을 반환한다.
// 로그인되지 않은 호스트가 있으면 gh가 비정상 종료하므로, 에러와 함께 받은 출력도 파싱한다.
// gh 실행 자체가 불가능하고 출력도 없으면 에러를 반환한다.
func (a *Adapter) ListAccounts(ctx context.Context, host string) ([]Account, error) {
	out, err := a.cmd.RunWithEnv(ctx, SuppressEnvTokens(), "gh", "auth", "status", "--hostname", host)
	accounts := ParseAuthStatus(string(out), host)
	if err != nil && len(accounts) == 0 && len(out) == 0 {
		return nil, fmt.Errorf("gh.ListAccounts: %s", MaskTokens(err.Error()))
	}
	return accounts, nil
}

// Switch는 host의 활성 계정을 user로 바꾼다.
func (a *Adapter) Switch(ctx context.Context, host, user string) error {
	out, err := a.cmd.Run(ctx, "gh", "auth", "switch", "-h", host, "-u", user)
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("gh.Switch: %w: %s", ErrSwitchFailed, MaskTokens(detail))
	}
	return nil
}

// SetupGit은 gh를 host의 git credential helper로 등록한다.
func (a *Adapter) SetupGit(ctx context.Context, host string) error {
	out, err := a.cmd.Run(ctx, "gh", "auth", "setup-git", "-h", host)
	if err != nil {
		return fmt.Errorf("gh.SetupGit: %s", MaskTokens(strings.TrimSpace(string(out)+" "+err.Error())))
	}
	return nil
}

// SuppressEnvTokens는 현재 프로세스에 설정된 GH_TOKEN/GITHUB_TOKEN 환경변수를
// 빈 문자열로 덮어쓰기 위한 env 맵을 반환한다.
// 토큰이 설정되지 않았으면 해당 키는 맵에 포함되지 않는다.
func SuppressEnvTokens() map[string]string {
	env := make(map[string]string)
	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if os.Getenv(key) != "" {
			env[key] = ""
		}
	}
	return env
}

// DetectEnvTokenInterference는 GH_TOKEN/GITHUB_TOKEN 환경변수를 감지한다.
func DetectEnvTokenInterference() (string, bool) {
	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if os.Getenv(key) != "" {
			return key, true
		}
	}
	return "", false
}
