package main

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/cpmod/pkg/copier"
	"github.com/lucas-albers-lz4/cpmod/pkg/debug"
	log "github.com/lucas-albers-lz4/cpmod/pkg/log"
	"github.com/lucas-albers-lz4/cpmod/pkg/testutil"
)

const (
	testUID    = 1000
	foreignUID = 1001
)

// executeCommand is a helper for testing Cobra commands. stdout and stderr
// are captured separately.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(outBuf)
	root.SetErr(errBuf)
	root.SetArgs(args)

	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// isolate restores global logger and debug state after the test and keeps
// a real $HOME/.cpmod.yaml out of the way.
func isolate(t *testing.T) {
	t.Helper()
	testutil.UseTestLogger(t)
	t.Setenv("HOME", t.TempDir())

	origLevel := log.CurrentLevel()
	origDebug := debug.IsEnabled
	t.Cleanup(func() {
		log.SetLevel(origLevel)
		debug.IsEnabled = origDebug
	})
}

// useMemFs swaps AppFs for an in-memory filesystem holding entries below
// /tree. Every entry is owned by testUID except those listed in foreign.
func useMemFs(t *testing.T, entries []testutil.Entry, foreign ...string) afero.Fs {
	t.Helper()
	isolate(t)

	fsys := afero.NewMemMapFs()
	testutil.BuildTree(t, fsys, "/tree", entries...)
	t.Cleanup(SetFs(fsys))

	owners := make(map[string]int, len(foreign))
	for _, p := range foreign {
		owners[p] = foreignUID
	}
	origFactory := newCopier
	newCopier = func(fsys afero.Fs, opts copier.Options) *copier.Copier {
		c := copier.New(fsys, opts)
		c.Owner = testutil.OwnerMap(owners, testUID)
		c.EUID = testUID
		return c
	}
	t.Cleanup(func() { newCopier = origFactory })
	return fsys
}
