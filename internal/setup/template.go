package setup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists는 템플릿을 쓸 자리에 설정 파일이 이미 있을 때 반환된다.
var ErrConfigExists = errors.New("설정 파일이 이미 존재합니다")

// Template은 cprof setup --template이 쓰는 설정 파일 예시다.
const Template = `# cprof 설정 파일
version = 1

# 설정 디렉토리 이름. 라이브 경로 계산에 쓰인다.
app_name = "Cursor"

# symlink: 라이브 경로 심볼릭 링크 전환
# builtin: 앱의 --profile 플래그에 위임
launch_mode = "symlink"

git_host = "github.com"

# 전환 후 앱 자동 실행
auto_open = true

# 실행 중 감지에 쓰는 프로세스 이름. 비우면 OS 기본값.
# process_names = ["Cursor"]

# 앱 실행 명령 덮어쓰기.
# launch_command = ["cursor"]

# 프로필-계정 연결 파일 경로.
# identities_path = "/home/me/.local/share/cprof/identities.json"

[paths]
# 절대 경로만 허용. 비우면 OS 기본값.
# data_dir = ""
# data_store = ""
# dot_dir = ""
# dot_store = ""

[log]
# level = "info"
# max_size_mb = 5
# max_backups = 3
`

// WriteTemplate은 path에 Template을 쓴다. force가 아니면 기존 파일을 덮어쓰지 않는다.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("setup.WriteTemplate: %w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("setup.WriteTemplate: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0600); err != nil {
		return fmt.Errorf("setup.WriteTemplate: %w", err)
	}
	return nil
}
