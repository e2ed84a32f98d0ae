package setup

import "github.com/hbjs97/cprof/internal/config"

// SettingsInput은 설정 폼에서 받는 값이다.
type SettingsInput struct {
	AppName      string
	LaunchMode   config.LaunchMode
	GitHost      string
	AutoOpen     bool
	ProcessNames []string
}

// skipAccount는 계정 선택에서 "연결 안 함"을 뜻한다.
const skipAccount = ""

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunSettingsForm은 설정 입력 폼을 실행한다. defaults를 초기값으로 표시한다.
	RunSettingsForm(defaults SettingsInput) (SettingsInput, error)

	// RunAccountSelect는 프로필에 연결할 GitHub 계정을 고른다. 건너뛰면 빈 문자열이다.
	RunAccountSelect(profileName string, accounts []string) (string, error)

	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)
}

func inputFromConfig(cfg *config.Config) SettingsInput {
	return SettingsInput{
		AppName:      cfg.AppName,
		LaunchMode:   cfg.LaunchMode,
		GitHost:      cfg.GitHost,
		AutoOpen:     cfg.IsAutoOpen(),
		ProcessNames: cfg.ProcessNames,
	}
}

func (in SettingsInput) apply(cfg *config.Config) {
	cfg.AppName = in.AppName
	cfg.LaunchMode = in.LaunchMode
	cfg.GitHost = in.GitHost
	autoOpen := in.AutoOpen
	cfg.AutoOpen = &autoOpen
	cfg.ProcessNames = in.ProcessNames
}
