package profile

import (
	"fmt"
	"regexp"
)

var (
	strictNameRegex  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	displayNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._ -]*$`)
)

// ValidateName은 프로필 이름을 검사한다. 경로를 조합하기 전에 반드시 호출해야 한다.
// allowSpace가 true면 첫 글자 이후 공백을 허용한다.
func ValidateName(name string, allowSpace bool) error {
	re := strictNameRegex
	if allowSpace {
		re = displayNameRegex
	}
	if !re.MatchString(name) {
		return fmt.Errorf("%w: %q (영문/숫자로 시작, 이후 영문/숫자/./-/_ 만 허용)", ErrInvalidName, name)
	}
	return nil
}
