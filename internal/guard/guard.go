// Package guard는 관리 대상 앱이 실행 중인지 확인하고, 실행 중이면 변경 작업을 막는다.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
)

// ErrAppRunning은 앱이 실행 중이라 변경 작업을 진행할 수 없을 때 반환된다.
var ErrAppRunning = errors.New("앱이 실행 중입니다. 종료 후 다시 시도하세요")

// Detection은 실행 여부 조회 결과다. 조회 실패는 Unknown으로 표현된다.
type Detection int

const (
	NotRunning Detection = iota
	Running
	Unknown
)

func (d Detection) String() string {
	switch d {
	case Running:
		return "running"
	case NotRunning:
		return "not running"
	default:
		return "unknown"
	}
}

// Lister는 현재 실행 중인 프로세스 이름 목록을 반환한다.
type Lister interface {
	ProcessNames(ctx context.Context) ([]string, error)
}

// ProcessLister는 gopsutil로 OS 프로세스 목록을 조회한다.
type ProcessLister struct{}

// ProcessNames는 이름을 읽을 수 있는 모든 프로세스의 이름을 반환한다.
func (ProcessLister) ProcessNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("guard.ProcessNames: %w", err)
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // 권한 없거나 이미 종료된 프로세스
		}
		names = append(names, name)
	}
	return names, nil
}

// DefaultProcessNames는 OS 계열별 기본 프로세스 이름이다.
func DefaultProcessNames(family paths.Family, appName string) []string {
	switch family {
	case paths.FamilyDarwin:
		return []string{appName}
	case paths.FamilyWindows:
		return []string{appName + ".exe"}
	default:
		return []string{strings.ToLower(appName)}
	}
}

// Guard는 이름이 정확히 일치하는 프로세스를 찾는다.
type Guard struct {
	lister Lister
	names  []string
	fold   bool
	log    zerolog.Logger
}

// New는 새 Guard를 생성한다. Windows에서는 대소문자를 구분하지 않는다.
func New(lister Lister, family paths.Family, names []string) *Guard {
	return &Guard{
		lister: lister,
		names:  names,
		fold:   family == paths.FamilyWindows,
		log:    logging.Component("guard"),
	}
}

// Detect는 앱 실행 여부를 조회한다. 조회 실패는 에러 대신 Unknown으로 돌려준다.
func (g *Guard) Detect(ctx context.Context) Detection {
	running, err := g.lister.ProcessNames(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("프로세스 조회 실패, 실행 여부 알 수 없음")
		return Unknown
	}
	for _, have := range running {
		for _, want := range g.names {
			if have == want || (g.fold && strings.EqualFold(have, want)) {
				g.log.Debug().Str("process", have).Msg("앱 실행 중")
				return Running
			}
		}
	}
	return NotRunning
}

// IsRunning은 Detect 결과를 bool로 접는다. Unknown은 false다.
func (g *Guard) IsRunning(ctx context.Context) bool {
	return g.Detect(ctx) == Running
}

// AbortIfRunning은 앱이 실행 중이면 ErrAppRunning을 반환한다.
func (g *Guard) AbortIfRunning(ctx context.Context) error {
	if g.IsRunning(ctx) {
		return fmt.Errorf("guard.AbortIfRunning: %w (%s)", ErrAppRunning, strings.Join(g.names, ", "))
	}
	return nil
}
