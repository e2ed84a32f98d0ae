// Package identity는 프로필 이름과 GitHub 계정의 바인딩을 JSON 사이드카 파일로 관리한다.
// 바인딩은 최적화 정보이므로 읽기 실패는 "바인딩 없음"으로 취급한다.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// ErrNotBound는 해제하려는 바인딩이 없을 때 반환된다.
var ErrNotBound = errors.New("바인딩 없음")

// Binding은 한 프로필의 계정 바인딩이다.
type Binding struct {
	GitHubUsername string `json:"github_username"`
}

// File은 사이드카 파일 전체다.
type File struct {
	Identities map[string]Binding `json:"identities"`
}

// Store는 사이드카 파일 하나를 다룬다. 모든 변경은 즉시 디스크에 기록된다.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore는 path의 사이드카를 다루는 Store를 생성한다.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path는 사이드카 파일 경로다.
func (s *Store) Path() string {
	return s.path
}

// Load는 사이드카를 읽는다. 파일 없음/읽기 실패/파싱 실패 시 빈 파일 반환 (graceful).
func (s *Store) Load() *File {
	f := &File{Identities: make(map[string]Binding)}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return f
	}
	if err := json.Unmarshal(data, f); err != nil || f.Identities == nil {
		return &File{Identities: make(map[string]Binding)}
	}
	return f
}

// Get은 name의 바인딩된 계정명을 반환한다.
func (s *Store) Get(name string) (string, bool) {
	b, ok := s.Load().Identities[name]
	if !ok || b.GitHubUsername == "" {
		return "", false
	}
	return b.GitHubUsername, true
}

// All은 모든 바인딩을 프로필 이름 -> 계정명 맵으로 반환한다.
func (s *Store) All() map[string]string {
	out := make(map[string]string)
	for name, b := range s.Load().Identities {
		out[name] = b.GitHubUsername
	}
	return out
}

// Names는 바인딩된 프로필 이름을 정렬해 반환한다.
func (s *Store) Names() []string {
	all := s.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set은 바인딩을 추가하거나 덮어쓴다. 프로필 존재 여부는 검사하지 않는다.
func (s *Store) Set(name, username string) error {
	f := s.Load()
	f.Identities[name] = Binding{GitHubUsername: username}
	if err := s.save(f); err != nil {
		return fmt.Errorf("identity.Set: %w", err)
	}
	return nil
}

// Unset은 바인딩을 제거한다. 없으면 ErrNotBound.
func (s *Store) Unset(name string) error {
	f := s.Load()
	if _, ok := f.Identities[name]; !ok {
		return fmt.Errorf("identity.Unset: %w: %q", ErrNotBound, name)
	}
	delete(f.Identities, name)
	if err := s.save(f); err != nil {
		return fmt.Errorf("identity.Unset: %w", err)
	}
	return nil
}

// Rename은 oldName의 바인딩을 newName으로 옮긴다. 바인딩이 없으면 아무것도 하지 않고 false.
func (s *Store) Rename(oldName, newName string) (bool, error) {
	f := s.Load()
	b, ok := f.Identities[oldName]
	if !ok {
		return false, nil
	}
	delete(f.Identities, oldName)
	f.Identities[newName] = b
	if err := s.save(f); err != nil {
		return false, fmt.Errorf("identity.Rename: %w", err)
	}
	return true, nil
}

// save는 사이드카를 JSON으로 저장한다 (0600 권한).
func (s *Store) save(f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, append(data, '\n'), os.FileMode(0600))
}
