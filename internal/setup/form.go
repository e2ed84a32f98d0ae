package setup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hbjs97/cprof/internal/config"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// RunSettingsForm은 설정 입력 폼을 실행한다.
func (h *HuhFormRunner) RunSettingsForm(defaults SettingsInput) (SettingsInput, error) {
	input := defaults
	if input.LaunchMode == "" {
		input.LaunchMode = config.LaunchSymlink
	}
	processes := strings.Join(input.ProcessNames, ", ")

	appValidate := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("앱 이름을 입력하세요")
		}
		if filepath.Base(s) != s {
			return fmt.Errorf("경로 구분자는 사용할 수 없습니다")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("앱 이름").
				Description("설정 디렉토리 이름 (예: Cursor)").
				Value(&input.AppName).
				Validate(appValidate),
			huh.NewSelect[config.LaunchMode]().
				Title("프로필 고정 방식").
				Options(
					huh.NewOption("심볼릭 링크 전환", config.LaunchSymlink),
					huh.NewOption("앱 --profile 플래그", config.LaunchBuiltin),
				).
				Value(&input.LaunchMode),
			huh.NewInput().Title("Git 호스트").
				Value(&input.GitHost).
				Validate(huh.ValidateNotEmpty()),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("전환 후 앱을 자동으로 열까요?").Value(&input.AutoOpen),
			huh.NewInput().Title("프로세스 이름 (콤마 구분)").
				Description("비워두면 OS 기본값을 사용합니다").
				Value(&processes),
		),
	)
	if err := form.Run(); err != nil {
		return SettingsInput{}, fmt.Errorf("setup.RunSettingsForm: %w", err)
	}

	input.AppName = strings.TrimSpace(input.AppName)
	input.GitHost = strings.TrimSpace(input.GitHost)
	input.ProcessNames = splitList(processes)
	return input, nil
}

// RunAccountSelect는 프로필에 연결할 계정 선택 UI를 표시한다.
func (h *HuhFormRunner) RunAccountSelect(profileName string, accounts []string) (string, error) {
	options := make([]huh.Option[string], 0, len(accounts)+1)
	for _, a := range accounts {
		options = append(options, huh.NewOption(a, a))
	}
	options = append(options, huh.NewOption("연결 안 함", skipAccount))

	var selected string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("프로필 %q에 연결할 GitHub 계정", profileName)).
			Options(options...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("setup.RunAccountSelect: %w", err)
	}
	return selected, nil
}

// RunConfirm은 확인 프롬프트를 표시한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	var confirm bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirm, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
