package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestBuildTree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	BuildTree(t, fsys, "/tree",
		Dir("", 0o750),
		Dir("sub", 0o500),
		File("sub/a.txt", 0o640),
		File("b.sh", 0o755),
	)

	assert.Equal(t, os.FileMode(0o750), ModeOf(t, fsys, "/tree"))
	assert.Equal(t, os.FileMode(0o500), ModeOf(t, fsys, "/tree/sub"))
	assert.Equal(t, os.FileMode(0o640), ModeOf(t, fsys, "/tree/sub/a.txt"))
	assert.Equal(t, os.FileMode(0o755), ModeOf(t, fsys, "/tree/b.sh"))
}

func TestBuildTreeOnDisk(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tree")
	fsys := afero.NewOsFs()
	BuildTree(t, fsys, root,
		File("sub/x", 0o666),
		Dir("sub", 0o555),
	)

	assert.Equal(t, os.FileMode(0o666), ModeOf(t, fsys, filepath.Join(root, "sub/x")), "umask must not apply")
	assert.Equal(t, os.FileMode(0o555), ModeOf(t, fsys, filepath.Join(root, "sub")))

	// let t.TempDir clean up
	assert.NoError(t, os.Chmod(filepath.Join(root, "sub"), 0o755))
}

func TestOwnerMap(t *testing.T) {
	owner := OwnerMap(map[string]int{"/tree/foreign": 1001}, 1000)

	uid, ok := owner("/tree/foreign", nil)
	assert.True(t, ok)
	assert.Equal(t, 1001, uid)

	uid, ok = owner("/tree/./mine", nil)
	assert.True(t, ok)
	assert.Equal(t, 1000, uid)
}
