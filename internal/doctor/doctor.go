package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbjs97/cprof/internal/cmdexec"
	"github.com/hbjs97/cprof/internal/gh"
	"github.com/hbjs97/cprof/internal/guard"
	"github.com/hbjs97/cprof/internal/profile"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// CheckBinaries는 필수 바이너리(git, gh) 존재 여부를 확인한다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander) []DiagResult {
	binaries := []struct {
		name    string
		args    []string
		install string
	}{
		{"git", []string{"--version"}, "https://git-scm.com/downloads"},
		{"gh", []string{"--version"}, "https://cli.github.com/"},
	}

	var results []DiagResult
	for _, b := range binaries {
		out, err := cmd.Run(ctx, b.name, b.args...)
		if err != nil {
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  StatusFail,
				Message: fmt.Sprintf("%s 없음", b.name),
				Fix:     fmt.Sprintf("설치: %s", b.install),
			})
			continue
		}
		first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
		results = append(results, DiagResult{
			Name:    b.name,
			Status:  StatusOK,
			Message: first,
		})
	}
	return results
}

// CheckGHAuth는 host에 로그인된 gh 계정과 활성 계정을 확인한다.
func CheckGHAuth(ctx context.Context, cmd cmdexec.Commander, host string) DiagResult {
	accounts, err := gh.NewAdapter(cmd).ListAccounts(ctx, host)
	if err != nil || len(accounts) == 0 {
		return DiagResult{
			Name:    "gh_auth",
			Status:  StatusFail,
			Message: fmt.Sprintf("gh CLI가 %s에 인증 안됨", host),
			Fix:     fmt.Sprintf("gh auth login -h %s 실행", host),
		}
	}
	active, ok := gh.ActiveAccount(accounts)
	if !ok {
		return DiagResult{
			Name:    "gh_auth",
			Status:  StatusWarn,
			Message: fmt.Sprintf("계정 %d개 로그인됨, 활성 계정 없음", len(accounts)),
			Fix:     "cprof switch-account <user> 실행",
		}
	}
	return DiagResult{
		Name:    "gh_auth",
		Status:  StatusOK,
		Message: fmt.Sprintf("활성 계정 %s (로그인 %d개)", active.Username, len(accounts)),
	}
}

// CheckEnvTokens는 환경변수 토큰 간섭을 확인한다.
func CheckEnvTokens() DiagResult {
	key, found := gh.DetectEnvTokenInterference()
	if found {
		return DiagResult{
			Name:    "env_tokens",
			Status:  StatusWarn,
			Message: fmt.Sprintf("환경변수 %s 설정됨. gh 계정 전환이 무시될 수 있음", key),
			Fix:     fmt.Sprintf("unset %s", key),
		}
	}
	return DiagResult{
		Name:    "env_tokens",
		Status:  StatusOK,
		Message: "토큰 환경변수 없음",
	}
}

// CheckLinks는 두 라이브 경로 상태를 진단한다.
func CheckLinks(r profile.Report) []DiagResult {
	var results []DiagResult
	for _, t := range r.Trees {
		d := DiagResult{Name: "link_" + t.Tree}
		switch t.State {
		case profile.StateSymlink:
			d.Status = StatusOK
			d.Message = fmt.Sprintf("%s -> %s", t.Live, t.Profile)
		case profile.StateAbsent:
			d.Status = StatusWarn
			d.Message = fmt.Sprintf("%s 없음", t.Live)
			d.Fix = "cprof init <name> 실행"
		case profile.StateDangling:
			d.Status = StatusFail
			d.Message = fmt.Sprintf("%s 링크 대상 없음: %s", t.Live, t.Target)
			d.Fix = "cprof repair <name> 실행"
		case profile.StateDirectory:
			d.Status = StatusWarn
			d.Message = fmt.Sprintf("%s 가 실제 디렉토리임 (프로필로 이관 전)", t.Live)
			d.Fix = "cprof init <name> 으로 이관"
		default:
			d.Status = StatusFail
			d.Message = fmt.Sprintf("%s 가 링크도 디렉토리도 아님", t.Live)
			d.Fix = "해당 파일을 직접 확인"
		}
		results = append(results, d)
	}

	consistency := DiagResult{Name: "link_consistency", Status: StatusOK, Message: "두 트리가 같은 프로필을 가리킴"}
	if !r.Consistent {
		consistency.Status = StatusFail
		consistency.Message = "두 트리가 서로 다른 상태"
		consistency.Fix = "cprof repair 실행"
	}
	return append(results, consistency)
}

// CheckAppRunning은 앱 실행 여부를 보고한다. 실행 중이면 전환이 막히므로 경고다.
func CheckAppRunning(d guard.Detection) DiagResult {
	switch d {
	case guard.Running:
		return DiagResult{Name: "app", Status: StatusWarn, Message: "앱 실행 중", Fix: "전환 전 앱 종료"}
	case guard.Unknown:
		return DiagResult{Name: "app", Status: StatusWarn, Message: "앱 실행 여부 확인 불가"}
	default:
		return DiagResult{Name: "app", Status: StatusOK, Message: "앱 실행 안 함"}
	}
}

// Deps는 RunAll이 사용하는 구성 요소다.
type Deps struct {
	Cmd       cmdexec.Commander
	Host      string
	Inspector interface{ Inspect() profile.Report }
	Detector  interface {
		Detect(ctx context.Context) guard.Detection
	}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, d Deps) []DiagResult {
	var results []DiagResult
	results = append(results, CheckBinaries(ctx, d.Cmd)...)
	results = append(results, CheckGHAuth(ctx, d.Cmd, d.Host))
	results = append(results, CheckEnvTokens())
	results = append(results, CheckLinks(d.Inspector.Inspect())...)
	results = append(results, CheckAppRunning(d.Detector.Detect(ctx)))
	return results
}

// HasFailure는 FAIL 결과가 하나라도 있으면 true다.
func HasFailure(results []DiagResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}
