package host

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FS is the file side-effect boundary for artifact-writing steps.
type FS interface {
	WriteFile(path string, data []byte, mode os.FileMode) error
	MkdirAll(path string, mode os.FileMode) error
	Symlink(oldname, newname string) error
	Remove(path string) error
}

// OSFS writes to the real filesystem.
type OSFS struct{}

func NewOSFS() *OSFS {
	return &OSFS{}
}

func (OSFS) WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, mode)
}

func (OSFS) MkdirAll(path string, mode os.FileMode) error {
	return os.MkdirAll(path, mode)
}

func (OSFS) Symlink(oldname, newname string) error {
	if _, err := os.Lstat(newname); err == nil {
		return nil
	}
	return os.Symlink(oldname, newname)
}

func (OSFS) Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// DryFS records intended writes without touching the disk.
type DryFS struct {
	Written []string
}

func NewDryFS() *DryFS {
	return &DryFS{}
}

func (f *DryFS) WriteFile(path string, data []byte, mode os.FileMode) error {
	f.Written = append(f.Written, path)
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("dry-run: would write file")
	return nil
}

func (f *DryFS) MkdirAll(path string, mode os.FileMode) error {
	log.Info().Str("path", path).Msg("dry-run: would create directory")
	return nil
}

func (f *DryFS) Symlink(oldname, newname string) error {
	log.Info().Str("target", oldname).Str("link", newname).Msg("dry-run: would symlink")
	return nil
}

func (f *DryFS) Remove(path string) error {
	log.Info().Str("path", path).Msg("dry-run: would remove")
	return nil
}

// MemFS keeps written files in memory for tests.
type MemFS struct {
	Files map[string][]byte
	Links map[string]string
}

func NewMemFS() *MemFS {
	return &MemFS{Files: map[string][]byte{}, Links: map[string]string{}}
}

func (f *MemFS) WriteFile(path string, data []byte, mode os.FileMode) error {
	f.Files[path] = data
	return nil
}

func (f *MemFS) MkdirAll(path string, mode os.FileMode) error { return nil }

func (f *MemFS) Symlink(oldname, newname string) error {
	f.Links[newname] = oldname
	return nil
}

func (f *MemFS) Remove(path string) error {
	delete(f.Files, path)
	delete(f.Links, path)
	return nil
}

var (
	_ FS = (*OSFS)(nil)
	_ FS = (*DryFS)(nil)
	_ FS = (*MemFS)(nil)
)
