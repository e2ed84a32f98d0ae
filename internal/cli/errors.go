package cli

import (
	"github.com/hbjs97/cprof/internal/config"
	"github.com/hbjs97/cprof/internal/gh"
	"github.com/hbjs97/cprof/internal/guard"
	"github.com/hbjs97/cprof/internal/identity"
	"github.com/hbjs97/cprof/internal/profile"
	"github.com/hbjs97/cprof/internal/remote"
	"github.com/hbjs97/cprof/internal/setup"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrAppRunning는 앱이 실행 중이라 전환을 거부할 때의 sentinel error다.
	ErrAppRunning = guard.ErrAppRunning
	// ErrInvalidName는 프로필 이름 형식 위반이다.
	ErrInvalidName = profile.ErrInvalidName
	// ErrNotFound는 프로필이 없을 때의 sentinel error다.
	ErrNotFound = profile.ErrNotFound
	// ErrNotBound는 프로필에 연결된 계정이 없을 때의 sentinel error다.
	ErrNotBound = identity.ErrNotBound
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
	// ErrAlreadyExists는 프로필 이름 충돌이다.
	ErrAlreadyExists = profile.ErrAlreadyExists
	// ErrConfigExists는 설정 파일이 이미 있을 때의 sentinel error다.
	ErrConfigExists = setup.ErrConfigExists
	// ErrNotASymlink는 라이브 경로가 실제 디렉토리일 때의 sentinel error다.
	ErrNotASymlink = profile.ErrNotASymlink
	// ErrInconsistent는 두 트리가 서로 다른 프로필을 가리킬 때의 sentinel error다.
	ErrInconsistent = profile.ErrInconsistent
	// ErrNotAGitRepo는 대상 경로가 git 리포가 아닐 때의 sentinel error다.
	ErrNotAGitRepo = remote.ErrNotAGitRepo
	// ErrNoRemote는 origin remote가 없을 때의 sentinel error다.
	ErrNoRemote = remote.ErrNoRemote
	// ErrUnsupportedRemote는 git_host가 아닌 remote일 때의 sentinel error다.
	ErrUnsupportedRemote = remote.ErrUnsupportedRemote
	// ErrRemoteUpdateFailed는 remote URL 변경 실패다.
	ErrRemoteUpdateFailed = remote.ErrRemoteUpdateFailed
	// ErrSwitchFailed는 gh 계정 전환 실패다.
	ErrSwitchFailed = gh.ErrSwitchFailed
)
