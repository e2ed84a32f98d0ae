package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FS는 심볼릭 링크를 다룰 수 있는 afero 파일시스템이다.
type FS interface {
	afero.Fs
	afero.Symlinker
}

// OSFS는 실제 OS 파일시스템을 반환한다.
func OSFS() FS {
	return &afero.OsFs{}
}

// maxLinkHops는 링크 체인 해석 상한이다.
const maxLinkHops = 40

// swapSuffix는 교체용 임시 링크 이름의 접미사다.
const swapSuffix = ".cprof-swap"

// Swap은 livePath가 newTarget을 가리키는 심볼릭 링크가 되도록 교체한다.
// livePath가 실제 디렉토리(또는 파일)면 아무것도 건드리지 않고 ErrNotASymlink를 반환한다.
// 기존 링크는 옆에 만든 임시 링크를 rename해서 교체하므로, 실패하면 기존 링크가 그대로 남는다.
// 이전 링크 대상은 디스크에서 그대로 유지된다.
func Swap(fs FS, livePath, newTarget string) error {
	info, err := lstat(fs, livePath)
	switch {
	case err == nil:
		if !isSymlink(info) {
			return fmt.Errorf("profile.Swap: %w: %s", ErrNotASymlink, livePath)
		}
		return replaceLink(fs, livePath, newTarget)
	case errors.Is(err, os.ErrNotExist):
		if err := fs.MkdirAll(filepath.Dir(livePath), 0755); err != nil {
			return fmt.Errorf("profile.Swap: %w", err)
		}
	default:
		return fmt.Errorf("profile.Swap: %w", err)
	}

	if err := fs.SymlinkIfPossible(newTarget, livePath); err != nil {
		return fmt.Errorf("profile.Swap: 링크 생성 실패: %w", err)
	}
	return nil
}

func replaceLink(fs FS, livePath, newTarget string) error {
	tmp := livePath + swapSuffix
	if info, err := lstat(fs, tmp); err == nil && isSymlink(info) {
		_ = fs.Remove(tmp) // 이전 실패의 잔여 링크
	}
	if err := fs.SymlinkIfPossible(newTarget, tmp); err != nil {
		return fmt.Errorf("profile.Swap: 링크 생성 실패: %w", err)
	}
	if err := fs.Rename(tmp, livePath); err != nil {
		// Windows는 디렉토리 링크 위로 rename하지 못한다
		if rmErr := fs.Remove(livePath); rmErr != nil {
			_ = fs.Remove(tmp)
			return fmt.Errorf("profile.Swap: 기존 링크 제거 실패: %w", rmErr)
		}
		if err := fs.Rename(tmp, livePath); err != nil {
			return fmt.Errorf("profile.Swap: 링크 교체 실패: %w", err)
		}
	}
	return nil
}

// lstat은 링크를 따라가지 않는 stat이다.
func lstat(fs FS, path string) (os.FileInfo, error) {
	info, ok, err := fs.LstatIfPossible(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("profile.lstat: 파일시스템이 lstat을 지원하지 않음: %s", path)
	}
	return info, nil
}

func isSymlink(info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}

// readLink는 path가 심볼릭 링크일 때 절대 경로로 정규화된 한 단계 대상을 반환한다.
func readLink(fs FS, path string) (string, bool) {
	info, err := lstat(fs, path)
	if err != nil || !isSymlink(info) {
		return "", false
	}
	target, err := fs.ReadlinkIfPossible(path)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), true
}

// resolveLink는 링크 체인을 끝까지 따라간 경로를 반환한다.
func resolveLink(fs FS, path string) (string, error) {
	current := path
	for i := 0; i < maxLinkHops; i++ {
		next, ok := readLink(fs, current)
		if !ok {
			return current, nil
		}
		current = next
	}
	return "", fmt.Errorf("profile.resolveLink: 링크 단계가 너무 많음: %s", path)
}

// isDir는 path(링크를 따라감)가 디렉토리인지 확인한다.
func isDir(fs FS, path string) bool {
	ok, err := afero.DirExists(fs, path)
	return err == nil && ok
}

// exists는 path가 링크 자체를 포함해 존재하는지 확인한다.
func exists(fs FS, path string) bool {
	_, err := lstat(fs, path)
	return err == nil
}
