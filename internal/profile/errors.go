package profile

import "errors"

var (
	// ErrInvalidName는 프로필 이름 형식 위반이다. 파일시스템에 접근하기 전에 반환된다.
	ErrInvalidName = errors.New("잘못된 프로필 이름")
	// ErrNotFound는 프로필이 두 저장소 중 하나 이상에 없을 때 반환된다.
	ErrNotFound = errors.New("프로필 없음")
	// ErrAlreadyExists는 이름 충돌이다.
	ErrAlreadyExists = errors.New("프로필이 이미 존재함")
	// ErrNotASymlink는 라이브 경로가 심볼릭 링크가 아닌 실제 디렉토리일 때 반환된다.
	ErrNotASymlink = errors.New("라이브 경로가 심볼릭 링크가 아님")
	// ErrInconsistent는 data 트리만 전환되고 dot 트리 전환이 실패했음을 표시한다.
	ErrInconsistent = errors.New("data 트리와 dot 트리가 서로 다른 프로필을 가리킴")
)
