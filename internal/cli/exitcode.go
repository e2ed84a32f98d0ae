package cli

import (
	"errors"
)

// ExitCode는 cprof의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitAppRunning는 앱 실행 중이라 거부된 경우다.
	ExitAppRunning ExitCode = 2
	// ExitInvalidName는 잘못된 프로필 이름이다.
	ExitInvalidName ExitCode = 3
	// ExitNotFound는 프로필 또는 계정 연결이 없는 경우다.
	ExitNotFound ExitCode = 4
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 5
	// ExitAlreadyExists는 이름 충돌이다.
	ExitAlreadyExists ExitCode = 6
	// ExitLinkState는 라이브 경로가 링크가 아니거나 두 트리가 어긋난 경우다.
	ExitLinkState ExitCode = 7
	// ExitRemote는 remote 점검/수정 전제 조건 실패다.
	ExitRemote ExitCode = 8
	// ExitSwitchFailed는 gh 계정 전환 실패다.
	ExitSwitchFailed ExitCode = 9
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrAppRunning):
		return ExitAppRunning
	case errors.Is(err, ErrInvalidName):
		return ExitInvalidName
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotBound):
		return ExitNotFound
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConfigExists):
		return ExitAlreadyExists
	case errors.Is(err, ErrNotASymlink), errors.Is(err, ErrInconsistent):
		return ExitLinkState
	case errors.Is(err, ErrNotAGitRepo), errors.Is(err, ErrNoRemote),
		errors.Is(err, ErrUnsupportedRemote), errors.Is(err, ErrRemoteUpdateFailed):
		return ExitRemote
	case errors.Is(err, ErrSwitchFailed):
		return ExitSwitchFailed
	default:
		return ExitGeneral
	}
}
