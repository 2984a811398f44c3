package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/cpmod/pkg/fileutil"
)

// Entry describes one node of a test tree. Directories carry os.ModeDir.
type Entry struct {
	Path string
	Mode os.FileMode
}

// Dir returns a directory Entry with the given permission bits.
func Dir(path string, perm os.FileMode) Entry {
	return Entry{Path: path, Mode: os.ModeDir | perm}
}

// File returns a regular file Entry with the given permission bits.
func File(path string, perm os.FileMode) Entry {
	return Entry{Path: path, Mode: perm}
}

// BuildTree creates entries below root on fsys and then sets their exact
// modes, deepest first, so restrictive directory modes and the umask do not
// get in the way.
func BuildTree(t testing.TB, fsys afero.Fs, root string, entries ...Entry) {
	t.Helper()

	if err := fsys.MkdirAll(root, fileutil.ReadWriteExecuteUserPermission); err != nil {
		t.Fatalf("failed to create tree root %s: %v", root, err)
	}
	for _, e := range entries {
		p := filepath.Join(root, e.Path)
		if e.Mode.IsDir() {
			if err := fsys.MkdirAll(p, fileutil.ReadWriteExecuteUserPermission); err != nil {
				t.Fatalf("failed to create directory %s: %v", p, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(p), fileutil.ReadWriteExecuteUserPermission); err != nil {
			t.Fatalf("failed to create directory %s: %v", filepath.Dir(p), err)
		}
		if err := afero.WriteFile(fsys, p, []byte(e.Path), fileutil.ReadWriteUserPermission); err != nil {
			t.Fatalf("failed to create file %s: %v", p, err)
		}
	}

	ordered := append([]Entry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Path) > len(ordered[j].Path)
	})
	for _, e := range ordered {
		p := filepath.Join(root, e.Path)
		if err := fsys.Chmod(p, e.Mode.Perm()|e.Mode&(os.ModeSetuid|os.ModeSetgid|os.ModeSticky)); err != nil {
			t.Fatalf("failed to chmod %s: %v", p, err)
		}
	}
}

// ModeOf returns the permission and special bits of path.
func ModeOf(t testing.TB, fsys afero.Fs, path string) os.FileMode {
	t.Helper()
	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat %s: %v", path, err)
	}
	return info.Mode() & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky)
}

// OwnerMap returns an owner lookup reporting owners[path], or fallback for
// paths not in the map. Its signature matches copier.OwnerFunc.
func OwnerMap(owners map[string]int, fallback int) func(path string, info os.FileInfo) (int, bool) {
	return func(path string, _ os.FileInfo) (int, bool) {
		if uid, ok := owners[filepath.Clean(path)]; ok {
			return uid, true
		}
		return fallback, true
	}
}
