package fileutil

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/afero"
)

// FS defines the metadata operations cpmod performs on a filesystem.
type FS interface {
	Open(name string) (afero.File, error)
	Stat(name string) (os.FileInfo, error)
	Lstat(name string) (os.FileInfo, error)
	Chmod(name string, mode os.FileMode) error
	ReadDirNames(name string) ([]string, error)
}

// AferoFS adapts an afero.Fs to our FS interface
type AferoFS struct {
	fs afero.Fs
}

var _ FS = (*AferoFS)(nil)

// NewAferoFS creates a new AferoFS instance wrapping the provided afero.Fs
func NewAferoFS(fs afero.Fs) *AferoFS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &AferoFS{fs: fs}
}

// Open opens a file for reading
func (a *AferoFS) Open(name string) (afero.File, error) {
	file, err := a.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return file, nil
}

// Stat returns file info, following symbolic links
func (a *AferoFS) Stat(name string) (os.FileInfo, error) {
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return info, nil
}

// Lstat returns file info without following a trailing symbolic link.
// Filesystems that cannot lstat fall back to Stat.
func (a *AferoFS) Lstat(name string) (os.FileInfo, error) {
	lstater, ok := a.fs.(afero.Lstater)
	if !ok {
		return a.Stat(name)
	}
	info, _, err := lstater.LstatIfPossible(name)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", name, err)
	}
	return info, nil
}

// Chmod changes the mode of the named file
func (a *AferoFS) Chmod(name string, mode os.FileMode) error {
	if err := a.fs.Chmod(name, mode); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	return nil
}

// ReadDirNames returns the sorted entry names of a directory
func (a *AferoFS) ReadDirNames(name string) ([]string, error) {
	dir, err := a.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", name, err)
	}
	defer func() {
		_ = dir.Close()
	}()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", name, err)
	}
	sort.Strings(names)
	return names, nil
}

// GetUnderlyingFs returns the underlying afero.Fs implementation
func (a *AferoFS) GetUnderlyingFs() afero.Fs {
	return a.fs
}
