package profile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// copyTree는 src 디렉토리 트리 전체를 dst로 복사한다. 내부 심볼릭 링크는 링크로 복사한다.
func copyTree(fs FS, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case isSymlink(info):
			link, err := fs.ReadlinkIfPossible(path)
			if err != nil {
				return err
			}
			return fs.SymlinkIfPossible(link, target)
		case info.IsDir():
			return fs.MkdirAll(target, info.Mode().Perm()|0700)
		case info.Mode().IsRegular():
			return copyFile(fs, path, target, info.Mode().Perm())
		default:
			// 소켓, 파이프 등은 설정 내용이 아니므로 건너뛴다.
			return nil
		}
	})
}

func copyFile(fs FS, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// moveDir는 src를 dst로 옮긴다. rename이 실패하면(예: 다른 볼륨) 복사 후 원본을 삭제한다.
// 원본 삭제는 복사가 완전히 성공한 뒤에만 일어난다.
func moveDir(fs FS, src, dst string) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(fs, src, dst); err != nil {
		_ = fs.RemoveAll(dst) // 부분 복사본 정리, 원본은 그대로
		return fmt.Errorf("profile.moveDir: %w", err)
	}
	return fs.RemoveAll(src)
}
