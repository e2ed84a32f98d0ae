// Package launcher는 관리 대상 앱을 띄운다. 실행한 프로세스의 종료를 기다리지 않는다.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbjs97/cprof/internal/cmdexec"
	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/rs/zerolog"
)

// ErrLaunchFailed는 앱 프로세스를 시작하지 못했을 때 반환된다.
var ErrLaunchFailed = errors.New("앱 실행 실패")

// Launcher는 OS 계열과 실행 모드에 맞는 명령으로 앱을 시작한다.
type Launcher struct {
	cmd      cmdexec.Commander
	family   paths.Family
	appName  string
	mode     config.LaunchMode
	override []string
	log      zerolog.Logger
}

// New는 새 Launcher를 생성한다. override가 비어 있지 않으면 OS 기본 명령 대신 사용한다.
func New(cmd cmdexec.Commander, family paths.Family, appName string, mode config.LaunchMode, override []string) *Launcher {
	return &Launcher{
		cmd:      cmd,
		family:   family,
		appName:  appName,
		mode:     mode,
		override: override,
		log:      logging.Component("launcher"),
	}
}

// Mode는 실행 모드다.
func (l *Launcher) Mode() config.LaunchMode {
	return l.mode
}

// Command는 profile로 앱을 여는 argv를 만든다.
// symlink 모드에서는 profile을 무시한다. 링크가 이미 프로필을 고정하고 있다.
func (l *Launcher) Command(profile string) (string, []string) {
	var extra []string
	if l.mode == config.LaunchBuiltin && profile != "" {
		extra = []string{"--profile", profile}
	}

	if len(l.override) > 0 {
		return l.override[0], append(append([]string{}, l.override[1:]...), extra...)
	}

	switch l.family {
	case paths.FamilyDarwin:
		args := []string{"-a", l.appName}
		if len(extra) > 0 {
			args = append(append(args, "--args"), extra...)
		}
		return "open", args
	case paths.FamilyWindows:
		// start의 첫 인자는 창 제목이다
		return "cmd", append([]string{"/c", "start", "", strings.ToLower(l.appName)}, extra...)
	default:
		return strings.ToLower(l.appName), extra
	}
}

// Open은 앱을 시작하고 바로 반환한다.
func (l *Launcher) Open(ctx context.Context, profile string) error {
	name, args := l.Command(profile)
	if err := l.cmd.Start(ctx, name, args...); err != nil {
		return fmt.Errorf("launcher.Open: %w: %v", ErrLaunchFailed, err)
	}
	l.log.Info().Str("command", name).Strs("args", args).Msg("앱 실행")
	return nil
}
