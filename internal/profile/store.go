// Package profile은 두 디렉토리 트리(data, dot)에 걸친 프로필 저장소와
// 라이브 경로 심볼릭 링크 전환을 구현한다. 파일시스템이 유일한 진실 공급원이다.
package profile

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/paths"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Guard는 변경 작업 전에 대상 앱이 실행 중인지 확인한다.
type Guard interface {
	AbortIfRunning(ctx context.Context) error
}

// Entry는 List 결과 항목이다.
type Entry struct {
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Complete bool   `json:"complete"` // 두 저장소 모두에 존재
}

// Store는 프로필 저장소다.
type Store struct {
	fs         FS
	layout     paths.Layout
	guard      Guard
	allowSpace bool
	log        zerolog.Logger
}

// Option은 Store 생성 옵션이다.
type Option func(*Store)

// WithDisplayNames는 프로필 이름에 공백을 허용한다.
func WithDisplayNames() Option {
	return func(s *Store) { s.allowSpace = true }
}

// NewStore는 새 Store를 생성한다.
func NewStore(fs FS, layout paths.Layout, guard Guard, opts ...Option) *Store {
	s := &Store{
		fs:     fs,
		layout: layout,
		guard:  guard,
		log:    logging.Component("profile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layout은 Store가 사용하는 경로 구성을 반환한다.
func (s *Store) Layout() paths.Layout {
	return s.layout
}

// List는 두 저장소의 디렉토리 이름 합집합을 정렬해 반환한다. 실패하지 않는다.
func (s *Store) List() []Entry {
	s.ensureRoots()

	active, _ := s.ActiveName()
	seen := make(map[string]int)
	for _, tree := range s.layout.Trees() {
		infos, err := afero.ReadDir(s.fs, tree.Store)
		if err != nil {
			s.log.Warn().Err(err).Str("store", tree.Store).Msg("저장소 읽기 실패, 빈 목록으로 취급")
			continue
		}
		for _, info := range infos {
			if info.IsDir() {
				seen[info.Name()]++
			}
		}
	}

	entries := make([]Entry, 0, len(seen))
	for name, count := range seen {
		entries = append(entries, Entry{
			Name:     name,
			Active:   name == active,
			Complete: count == len(s.layout.Trees()),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// ActiveName은 data 트리 라이브 링크가 가리키는 프로필 이름을 반환한다.
// 링크가 아니거나 대상이 사라진 경우 ("", false)를 반환한다.
func (s *Store) ActiveName() (string, bool) {
	target, ok := readLink(s.fs, s.layout.DataDir)
	if !ok || !isDir(s.fs, target) {
		return "", false
	}
	return filepath.Base(target), true
}

// Activate는 두 라이브 경로를 name 프로필로 전환한다. data 트리가 먼저, dot 트리가 나중이다.
func (s *Store) Activate(ctx context.Context, name string) error {
	if err := s.prepare(ctx, name); err != nil {
		return fmt.Errorf("profile.Activate: %w", err)
	}
	if !s.wellFormed(name) {
		return fmt.Errorf("profile.Activate: %w: %q (두 저장소 모두에 있어야 함)", ErrNotFound, name)
	}
	for _, tree := range s.layout.Trees() {
		if info, err := lstat(s.fs, tree.Live); err == nil && !isSymlink(info) {
			return fmt.Errorf("profile.Activate: %w: %s", ErrNotASymlink, tree.Live)
		}
	}
	if err := s.swapAll(name); err != nil {
		return fmt.Errorf("profile.Activate: %w", err)
	}
	s.log.Info().Str("profile", name).Msg("프로필 전환 완료")
	return nil
}

// Create는 현재 라이브 설정으로 새 프로필을 만들고 두 라이브 경로를 그 프로필로 연결한다.
// 각 라이브 경로는 독립적으로 처리된다: 링크면 대상 복사 후 재연결, 실제 디렉토리면
// 저장소로 이동 후 링크, 없으면 빈 디렉토리 생성 후 링크.
func (s *Store) Create(ctx context.Context, name string) error {
	if err := s.prepare(ctx, name); err != nil {
		return fmt.Errorf("profile.Create: %w", err)
	}
	for _, tree := range s.layout.Trees() {
		if exists(s.fs, filepath.Join(tree.Store, name)) {
			return fmt.Errorf("profile.Create: %w: %q", ErrAlreadyExists, name)
		}
	}
	// 한 트리라도 흡수할 수 없으면 어느 트리도 건드리지 않는다
	for _, tree := range s.layout.Trees() {
		if info, err := lstat(s.fs, tree.Live); err == nil && !isSymlink(info) && !info.IsDir() {
			return fmt.Errorf("profile.Create: %w: %s", ErrNotASymlink, tree.Live)
		}
	}

	for _, tree := range s.layout.Trees() {
		if err := s.adopt(tree, name); err != nil {
			return fmt.Errorf("profile.Create[%s]: %w", tree.Name, err)
		}
	}
	s.log.Info().Str("profile", name).Msg("프로필 생성 완료")
	return nil
}

// adopt는 한 트리의 라이브 경로를 새 프로필 디렉토리로 흡수한다.
func (s *Store) adopt(tree paths.Tree, name string) error {
	dest := filepath.Join(tree.Store, name)
	info, err := lstat(s.fs, tree.Live)

	switch {
	case err == nil && isSymlink(info):
		src, rerr := resolveLink(s.fs, tree.Live)
		if rerr != nil {
			return rerr
		}
		if isDir(s.fs, src) {
			s.log.Debug().Str("from", src).Str("to", dest).Msg("현재 프로필 복사")
			if err := copyTree(s.fs, src, dest); err != nil {
				return fmt.Errorf("복사 실패: %w", err)
			}
		} else if err := s.fs.MkdirAll(dest, 0755); err != nil {
			return err
		}
	case err == nil && info.IsDir():
		s.log.Debug().Str("from", tree.Live).Str("to", dest).Msg("기존 디렉토리 이관")
		if err := moveDir(s.fs, tree.Live, dest); err != nil {
			return fmt.Errorf("이관 실패: %w", err)
		}
	case err == nil:
		return fmt.Errorf("%w: %s", ErrNotASymlink, tree.Live)
	default:
		if err := s.fs.MkdirAll(dest, 0755); err != nil {
			return err
		}
	}
	return Swap(s.fs, tree.Live, dest)
}

// Rename은 두 저장소 디렉토리의 이름을 바꾸고, oldName을 가리키던 라이브 링크만 새 위치로 옮긴다.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	if err := ValidateName(oldName, s.allowSpace); err != nil {
		return fmt.Errorf("profile.Rename: %w", err)
	}
	if err := s.prepare(ctx, newName); err != nil {
		return fmt.Errorf("profile.Rename: %w", err)
	}
	if !s.wellFormed(oldName) {
		return fmt.Errorf("profile.Rename: %w: %q", ErrNotFound, oldName)
	}
	for _, tree := range s.layout.Trees() {
		if exists(s.fs, filepath.Join(tree.Store, newName)) {
			return fmt.Errorf("profile.Rename: %w: %q", ErrAlreadyExists, newName)
		}
	}

	var moved []paths.Tree
	for _, tree := range s.layout.Trees() {
		from := filepath.Join(tree.Store, oldName)
		to := filepath.Join(tree.Store, newName)
		if err := s.fs.Rename(from, to); err != nil {
			for _, m := range moved {
				_ = s.fs.Rename(filepath.Join(m.Store, newName), filepath.Join(m.Store, oldName)) // 되돌리기 실패는 아래 에러로 충분
			}
			return fmt.Errorf("profile.Rename[%s]: %w", tree.Name, err)
		}
		moved = append(moved, tree)
	}

	for _, tree := range s.layout.Trees() {
		target, ok := readLink(s.fs, tree.Live)
		if !ok || filepath.Base(target) != oldName {
			continue
		}
		if err := Swap(s.fs, tree.Live, filepath.Join(tree.Store, newName)); err != nil {
			return fmt.Errorf("profile.Rename[%s]: %w", tree.Name, err)
		}
	}
	s.log.Info().Str("from", oldName).Str("to", newName).Msg("프로필 이름 변경 완료")
	return nil
}

// Repair는 두 라이브 경로를 같은 프로필로 다시 맞춘다.
// name이 비어 있으면 data 트리 링크가 가리키는 프로필을 기준으로 삼는다.
func (s *Store) Repair(ctx context.Context, name string) (string, error) {
	if name == "" {
		target, ok := readLink(s.fs, s.layout.DataDir)
		if !ok {
			return "", fmt.Errorf("profile.Repair: %w: data 트리에 활성 링크가 없음", ErrNotFound)
		}
		name = filepath.Base(target)
	}
	if err := s.Activate(ctx, name); err != nil {
		return "", fmt.Errorf("profile.Repair: %w", err)
	}
	return name, nil
}

// prepare는 이름 검증, 실행 중 검사, 저장소 루트 생성을 순서대로 수행한다.
func (s *Store) prepare(ctx context.Context, name string) error {
	if err := ValidateName(name, s.allowSpace); err != nil {
		return err
	}
	if s.guard != nil {
		if err := s.guard.AbortIfRunning(ctx); err != nil {
			return err
		}
	}
	s.ensureRoots()
	return nil
}

func (s *Store) ensureRoots() {
	for _, tree := range s.layout.Trees() {
		if err := s.fs.MkdirAll(tree.Store, 0755); err != nil {
			s.log.Warn().Err(err).Str("store", tree.Store).Msg("저장소 루트 생성 실패")
		}
	}
}

func (s *Store) wellFormed(name string) bool {
	for _, tree := range s.layout.Trees() {
		if !isDir(s.fs, filepath.Join(tree.Store, name)) {
			return false
		}
	}
	return true
}

// swapAll은 고정 순서로 두 트리를 전환한다. 두 번째가 실패하면 ErrInconsistent를 함께 감싼다.
func (s *Store) swapAll(name string) error {
	for i, tree := range s.layout.Trees() {
		if err := Swap(s.fs, tree.Live, filepath.Join(tree.Store, name)); err != nil {
			if i > 0 {
				s.log.Error().Err(err).Str("profile", name).Str("tree", tree.Name).Msg("부분 전환 상태")
				return fmt.Errorf("%w: %s 트리 전환 실패: %w", ErrInconsistent, tree.Name, err)
			}
			return err
		}
	}
	return nil
}

// IsWellFormed는 name이 두 저장소 모두에 존재하는지 확인한다.
func (s *Store) IsWellFormed(name string) bool {
	if ValidateName(name, s.allowSpace) != nil {
		return false
	}
	return s.wellFormed(name)
}
