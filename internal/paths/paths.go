// Package paths는 호스트 OS 계열에서 라이브 설정 경로와 프로필 저장소 경로를 도출한다.
// 결과 Layout은 프로세스 시작 시 한 번 계산되어 모든 컴포넌트 생성자에 값으로 전달된다.
package paths

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// Family는 경로 규칙을 결정하는 OS 계열이다.
type Family string

const (
	// FamilyDarwin은 macOS다.
	FamilyDarwin Family = "darwin"
	// FamilyWindows는 Windows다.
	FamilyWindows Family = "windows"
	// FamilyPOSIX는 Linux 및 기타 유닉스 계열이다.
	FamilyPOSIX Family = "posix"
)

// ToolDirName은 cprof 자체 파일(config, sidecar, log)이 놓이는 디렉토리 이름이다.
const ToolDirName = "cprof"

// FamilyOf는 GOOS 값을 OS 계열로 변환한다. 알 수 없는 값은 POSIX로 취급한다.
func FamilyOf(goos string) Family {
	switch goos {
	case "darwin":
		return FamilyDarwin
	case "windows":
		return FamilyWindows
	default:
		return FamilyPOSIX
	}
}

// Detect는 현재 프로세스의 OS 계열을 반환한다.
func Detect() Family {
	return FamilyOf(runtime.GOOS)
}

// Tree는 라이브 경로 하나와 그에 대응하는 프로필 저장소 루트다.
type Tree struct {
	Name  string
	Live  string
	Store string
}

// Layout은 두 트리(data, dot)의 라이브 경로와 저장소 루트다.
type Layout struct {
	Family    Family
	Home      string
	DataDir   string
	DataStore string
	DotDir    string
	DotStore  string
}

// Resolve는 OS 계열, 홈 디렉토리, 앱 이름으로 Layout을 계산한다.
// appName "Cursor" 기준 POSIX 결과는 ~/.config/Cursor, ~/.config/CursorProfiles,
// ~/.cursor, ~/.cursor-profiles 이다.
func Resolve(family Family, home, appName string) Layout {
	var base string
	switch family {
	case FamilyDarwin:
		base = filepath.Join(home, "Library", "Application Support")
	case FamilyWindows:
		base = filepath.Join(home, "AppData", "Roaming")
	default:
		family = FamilyPOSIX
		base = filepath.Join(home, ".config")
	}
	dot := "." + strings.ToLower(appName)
	return Layout{
		Family:    family,
		Home:      home,
		DataDir:   filepath.Join(base, appName),
		DataStore: filepath.Join(base, appName+"Profiles"),
		DotDir:    filepath.Join(home, dot),
		DotStore:  filepath.Join(home, dot+"-profiles"),
	}
}

// Trees는 스왑 순서(data 먼저, dot 나중)대로 두 트리를 반환한다.
func (l Layout) Trees() []Tree {
	return []Tree{
		{Name: "data", Live: l.DataDir, Store: l.DataStore},
		{Name: "dot", Live: l.DotDir, Store: l.DotStore},
	}
}

// Map은 논리 이름 → 경로 매핑이다. 스냅샷 출력용.
func (l Layout) Map() map[string]string {
	return map[string]string{
		"data_dir":   l.DataDir,
		"data_store": l.DataStore,
		"dot_dir":    l.DotDir,
		"dot_store":  l.DotStore,
	}
}

// DefaultConfigPath는 XDG config 디렉토리 아래 config.toml 경로다.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, ToolDirName, "config.toml")
}

// DefaultIdentitiesPath는 프로필-계정 바인딩 sidecar 경로다.
func DefaultIdentitiesPath() string {
	return filepath.Join(xdg.ConfigHome, ToolDirName, "identities.json")
}

// DefaultLogPath는 XDG state 디렉토리 아래 로그 파일 경로다.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, ToolDirName, "cprof.log")
}
