package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hbjs97/cprof/internal/paths"
)

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("설정 파일 오류")

// LaunchMode는 앱을 프로필에 고정하는 방식이다.
type LaunchMode string

const (
	// LaunchSymlink는 라이브 경로 심볼릭 링크로 프로필을 고정한다.
	LaunchSymlink LaunchMode = "symlink"
	// LaunchBuiltin은 앱 자체의 --profile 플래그에 위임한다.
	LaunchBuiltin LaunchMode = "builtin"
)

// Config는 cprof 설정 파일의 최상위 구조체다.
type Config struct {
	Version        int        `toml:"version"`
	AppName        string     `toml:"app_name"`
	LaunchMode     LaunchMode `toml:"launch_mode"`
	GitHost        string     `toml:"git_host"`
	ProcessNames   []string   `toml:"process_names"`
	LaunchCommand  []string   `toml:"launch_command"`
	IdentitiesPath string     `toml:"identities_path"`
	AutoOpen       *bool      `toml:"auto_open"`
	Paths          PathConfig `toml:"paths"`
	Log            LogConfig  `toml:"log"`
}

// PathConfig는 OS 기본 경로를 덮어쓰는 선택 항목이다.
type PathConfig struct {
	DataDir   string `toml:"data_dir"`
	DataStore string `toml:"data_store"`
	DotDir    string `toml:"dot_dir"`
	DotStore  string `toml:"dot_store"`
}

// LogConfig는 로그 설정이다.
type LogConfig struct {
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Default는 설정 파일이 없을 때 사용하는 기본 설정이다.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// Load는 config.toml을 파싱하여 Config를 반환한다. 파일이 없으면 기본 설정을 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 설정을 TOML로 저장한다 (0600 권한).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	// os.WriteFile은 Close 에러까지 반환한다
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsAutoOpen은 auto_open 설정값을 반환한다.
func (c *Config) IsAutoOpen() bool {
	if c.AutoOpen == nil {
		return true
	}
	return *c.AutoOpen
}

// Layout은 OS 기본 경로에 [paths] 덮어쓰기를 적용한 Layout을 반환한다.
func (c *Config) Layout(family paths.Family, home string) paths.Layout {
	l := paths.Resolve(family, home, c.AppName)
	if c.Paths.DataDir != "" {
		l.DataDir = c.Paths.DataDir
	}
	if c.Paths.DataStore != "" {
		l.DataStore = c.Paths.DataStore
	}
	if c.Paths.DotDir != "" {
		l.DotDir = c.Paths.DotDir
	}
	if c.Paths.DotStore != "" {
		l.DotStore = c.Paths.DotStore
	}
	return l
}

// IdentitiesFile은 sidecar 경로를 반환한다.
func (c *Config) IdentitiesFile() string {
	if c.IdentitiesPath != "" {
		return c.IdentitiesPath
	}
	return paths.DefaultIdentitiesPath()
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.AppName == "" {
		c.AppName = "Cursor"
	}
	if c.LaunchMode == "" {
		c.LaunchMode = LaunchSymlink
	}
	if c.GitHost == "" {
		c.GitHost = "github.com"
	}
	if c.AutoOpen == nil {
		t := true
		c.AutoOpen = &t
	}
}

func (c *Config) validate() error {
	switch c.LaunchMode {
	case LaunchSymlink, LaunchBuiltin:
	default:
		return fmt.Errorf("config.Load: %w: launch_mode은 symlink 또는 builtin이어야 합니다: %q", ErrConfig, c.LaunchMode)
	}
	if filepath.Base(c.AppName) != c.AppName {
		return fmt.Errorf("config.Load: %w: app_name에 경로 구분자 사용 불가: %q", ErrConfig, c.AppName)
	}
	for _, p := range []string{c.Paths.DataDir, c.Paths.DataStore, c.Paths.DotDir, c.Paths.DotStore} {
		if p != "" && !filepath.IsAbs(p) {
			return fmt.Errorf("config.Load: %w: [paths] 항목은 절대 경로여야 합니다: %q", ErrConfig, p)
		}
	}
	return nil
}
