package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/cpmod/pkg/exitcodes"
	"github.com/lucas-albers-lz4/cpmod/pkg/fileutil"
	"github.com/lucas-albers-lz4/cpmod/pkg/perm"
	"github.com/lucas-albers-lz4/cpmod/pkg/report"
	"github.com/lucas-albers-lz4/cpmod/pkg/testutil"
)

func writeConfig(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), fileutil.ReadWriteUserPermission))
}

func TestConfigFileSuppliesFlags(t *testing.T) {
	fsys := useMemFs(t, []testutil.Entry{
		testutil.Dir("", 0o700),
		testutil.File("a", 0o600),
	})
	writeConfig(t, fsys, "/etc/cpmod.yaml", "src: u\ntar: o\nmask: 6\nrecursive: true\n")

	_, _, err := executeCommand(newRootCmd(), "--config", "/etc/cpmod.yaml", "/tree")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o706), testutil.ModeOf(t, fsys, "/tree"))
	assert.Equal(t, os.FileMode(0o606), testutil.ModeOf(t, fsys, "/tree/a"))
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	fsys := useMemFs(t, []testutil.Entry{testutil.File("f", 0o700)})
	writeConfig(t, fsys, "/etc/cpmod.yaml", "src: u\ntar: o\n")

	_, _, err := executeCommand(newRootCmd(), "--config", "/etc/cpmod.yaml", "-t", "g", "/tree/f")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o770), testutil.ModeOf(t, fsys, "/tree/f"))
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	fsys := useMemFs(t, []testutil.Entry{testutil.File("f", 0o700)})
	writeConfig(t, fsys, "/etc/cpmod.yaml", "src: u\ntar: o\nmask: 7\n")
	t.Setenv("CPMOD_TAR", "g")
	t.Setenv("CPMOD_MASK", "4")

	_, _, err := executeCommand(newRootCmd(), "--config", "/etc/cpmod.yaml", "/tree/f")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o740), testutil.ModeOf(t, fsys, "/tree/f"))
}

func TestHomeConfigFile(t *testing.T) {
	fsys := useMemFs(t, []testutil.Entry{testutil.File("f", 0o600)})
	home := "/home/tester"
	t.Setenv("HOME", home)
	require.NoError(t, fsys.MkdirAll(home, fileutil.ReadWriteExecuteUserReadExecuteOthers))
	writeConfig(t, fsys, filepath.Join(home, ".cpmod.yaml"), "src: u\ntar: g\noutput: yaml\n")

	out, _, err := executeCommand(newRootCmd(), "/tree/f")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o660), testutil.ModeOf(t, fsys, "/tree/f"))
	assert.Contains(t, out, "changed: 1")
}

func TestConfigFileErrors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		useMemFs(t, []testutil.Entry{testutil.File("f", 0o600)})

		_, _, err := executeCommand(newRootCmd(), "--config", "/nope.yaml", "-s", "u", "-t", "g", "/tree/f")
		requireExitCode(t, err, exitcodes.ExitInputConfigurationError)
	})

	t.Run("malformed file", func(t *testing.T) {
		fsys := useMemFs(t, []testutil.Entry{testutil.File("f", 0o600)})
		writeConfig(t, fsys, "/etc/cpmod.yaml", "src: [u\n")

		_, _, err := executeCommand(newRootCmd(), "--config", "/etc/cpmod.yaml", "/tree/f")
		requireExitCode(t, err, exitcodes.ExitInputConfigurationError)
		assert.Equal(t, os.FileMode(0o600), testutil.ModeOf(t, fsys, "/tree/f"))
	})

	t.Run("invalid mask in file", func(t *testing.T) {
		fsys := useMemFs(t, []testutil.Entry{testutil.File("f", 0o600)})
		writeConfig(t, fsys, "/etc/cpmod.yaml", "src: u\ntar: g\nmask: 9\n")

		_, _, err := executeCommand(newRootCmd(), "--config", "/etc/cpmod.yaml", "/tree/f")
		requireExitCode(t, err, exitcodes.ExitInvalidMask)
	})
}

func TestLoadSettings(t *testing.T) {
	v := viper.New()
	v.Set("src", "owner")
	v.Set("tar", "o")
	v.Set("mask", 5)
	v.Set("recursive", true)
	v.Set("follow-symlinks", true)
	v.Set("verbose", true)
	v.Set("output", "JSON")

	s, err := loadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, perm.Owner, s.opts.Source)
	assert.Equal(t, perm.Other, s.opts.Target)
	assert.Equal(t, perm.Read|perm.Execute, s.opts.Mask)
	assert.True(t, s.opts.Recursive)
	assert.True(t, s.opts.FollowSymlinks)
	assert.True(t, s.verbose)
	assert.Equal(t, report.FormatJSON, s.format)
}
