// Package fsutil holds filesystem helpers shared by the engine.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/toolbelt/internal/messages"
)

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place.
// Readers see either the old or the new content, never a partial write.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFmt, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf(messages.FsutilChmodFmt, tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf(messages.FsutilWriteFmt, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf(messages.FsutilSyncFmt, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FsutilCloseFmt, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return fmt.Errorf(messages.FsutilRenameFmt, path, err)
	}
	committed = true
	syncDir(dir)
	return nil
}

// CopyFile copies src to dst with the given mode, replacing dst.
func CopyFile(src string, dst string, perm os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf(messages.FsutilReadFmt, src, err)
	}
	return WriteFileAtomic(dst, data, perm)
}

// Exists reports whether path exists; errors other than not-exist are returned.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}
