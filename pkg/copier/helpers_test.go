package copier

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/cpmod/pkg/fileutil"
)

func fileutilFS(fsys afero.Fs) *fileutil.AferoFS {
	return fileutil.NewAferoFS(fsys)
}

// newReadOnly rejects every chmod with EPERM while still serving reads.
func newReadOnly(fsys afero.Fs) *fileutil.AferoFS {
	return fileutil.NewAferoFS(afero.NewReadOnlyFs(fsys))
}

// unlistableFs fails to open one directory, as an unreadable one would.
type unlistableFs struct {
	afero.Fs
	dir string
}

func (u *unlistableFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == u.dir {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return u.Fs.Open(name)
}
