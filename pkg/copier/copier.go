// Package copier copies the permission triplet of one subject class of a
// filesystem entry onto another subject class of the same entry, optionally
// walking directory trees.
//
// Only entries owned by the invoking user are touched; everything else is
// skipped silently and shows up in the Report as Skipped. Failures on one
// entry never stop the walk.
//
// The ownership pre-check and the mode write are separate syscalls. The
// copier re-checks ownership on the opened handle before writing, but the
// entry can still change between the path-based check and the open.
package copier

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/cpmod/pkg/fileutil"
	log "github.com/lucas-albers-lz4/cpmod/pkg/log"
	"github.com/lucas-albers-lz4/cpmod/pkg/perm"
)

// Options selects what to copy and how to walk.
type Options struct {
	Source perm.Class
	Target perm.Class
	// Mask scopes the copy to a subset of read, write and execute.
	Mask           perm.Triplet
	Recursive      bool
	FollowSymlinks bool
}

// OwnerFunc returns the uid owning an entry, or false if it cannot tell.
type OwnerFunc func(path string, info os.FileInfo) (uid int, ok bool)

// Copier applies Options to filesystem entries.
type Copier struct {
	fs   *fileutil.AferoFS
	opts Options

	// Owner resolves entry ownership. New sets it to SysOwner.
	Owner OwnerFunc
	// EUID is the effective uid of the invoking user. New sets it to os.Geteuid().
	EUID int
}

// New creates a Copier working on fsys.
func New(fsys afero.Fs, opts Options) *Copier {
	return &Copier{
		fs:    fileutil.NewAferoFS(fsys),
		opts:  opts,
		Owner: SysOwner,
		EUID:  os.Geteuid(),
	}
}

// Options returns the options the copier was created with.
func (c *Copier) Options() Options {
	return c.opts
}

// IsEligible reports whether path exists, is owned by the invoking user and,
// if it is a symbolic link, whether followSymlinks allows acting on it.
// Any stat failure makes the entry ineligible.
func (c *Copier) IsEligible(path string, followSymlinks bool) bool {
	_, reason, err := c.inspect(path, followSymlinks)
	return err == nil && reason == ""
}

// inspect stats path under the symlink policy. It returns a non-empty skip
// reason when the entry is ineligible. For a followed link whose target is
// missing the link's own info comes back along with the error.
func (c *Copier) inspect(path string, followSymlinks bool) (os.FileInfo, string, error) {
	info, err := c.fs.Lstat(path)
	if err != nil {
		return nil, "", statFailure(path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if !followSymlinks {
			return info, ReasonSymlink, nil
		}
		target, err := c.fs.Stat(path)
		if err != nil {
			return info, "", statFailure(path, err)
		}
		info = target
	}
	if !c.owns(path, info) {
		return info, ReasonNotOwner, nil
	}
	return info, "", nil
}

func (c *Copier) owns(path string, info os.FileInfo) bool {
	if c.Owner == nil {
		return false
	}
	uid, ok := c.Owner(path, info)
	return ok && uid == c.EUID
}

func statFailure(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Path: path, Err: err}
	}
	return &StatError{Path: path, Err: err}
}

// CopyPermission copies the source triplet of the entry behind f onto the
// target class, restricted to mask. The mode is re-read from the handle and
// written back through it when the handle supports chmod.
func (c *Copier) CopyPermission(f afero.File, source, target perm.Class, mask perm.Triplet) (Result, error) {
	if err := validClasses(source, target); err != nil {
		return fail(Result{Path: f.Name()}, err)
	}
	info, err := f.Stat()
	if err != nil {
		return fail(Result{Path: f.Name()}, &StatError{Path: f.Name(), Err: err})
	}
	return c.copyMode(f.Name(), info.Mode(), source, target, mask, c.chmodFunc(f.Name(), f))
}

// SetPermission writes t into the target class of the entry behind f,
// restricted to mask. A triplet outside 0-7 leaves the entry untouched and
// fails with perm.ErrInvalidPermissionValue.
func (c *Copier) SetPermission(f afero.File, target perm.Class, mask perm.Triplet, t perm.Triplet) (Result, error) {
	if err := validClasses(target); err != nil {
		return fail(Result{Path: f.Name()}, err)
	}
	info, err := f.Stat()
	if err != nil {
		return fail(Result{Path: f.Name()}, &StatError{Path: f.Name(), Err: err})
	}
	return c.writeMode(f.Name(), info.Mode(), target, mask, t, c.chmodFunc(f.Name(), f))
}

// validClasses rejects classes not built through perm.ParseClass or the
// declared constants.
func validClasses(classes ...perm.Class) error {
	for _, cl := range classes {
		if !cl.Valid() {
			return errors.Wrapf(perm.ErrInvalidClass, "subject class %d", uint8(cl))
		}
	}
	return nil
}

func (c *Copier) copyMode(path string, old os.FileMode, source, target perm.Class, mask perm.Triplet, chmod func(os.FileMode) error) (Result, error) {
	return c.writeMode(path, old, target, mask, perm.Extract(old, source, mask), chmod)
}

func (c *Copier) writeMode(path string, old os.FileMode, target perm.Class, mask perm.Triplet, t perm.Triplet, chmod func(os.FileMode) error) (Result, error) {
	res := Result{Path: path, OldMode: old, NewMode: old}

	mode, err := perm.Apply(old, target, mask, t)
	if err != nil {
		return fail(res, err)
	}

	newMode := old&^perm.ChmodMask | mode
	if newMode == old {
		res.Outcome = Unchanged
		return res, nil
	}
	if err := chmod(mode); err != nil {
		return fail(res, &ChmodError{Path: path, Mode: perm.Octal(mode), Err: err})
	}
	res.NewMode = newMode
	res.Outcome = Changed
	return res, nil
}

type chmodder interface {
	Chmod(mode os.FileMode) error
}

// chmodFunc prefers the handle (fchmod) and falls back to a path-based chmod.
func (c *Copier) chmodFunc(path string, f afero.File) func(os.FileMode) error {
	if ch, ok := f.(chmodder); ok {
		return ch.Chmod
	}
	return func(mode os.FileMode) error {
		return c.fs.Chmod(path, mode)
	}
}

func fail(res Result, err error) (Result, error) {
	res.Outcome = Failed
	res.Err = err
	return res, err
}

type fileIdent struct {
	dev   uint64
	inode uint64
}

type walker struct {
	ctx     context.Context
	report  *Report
	visited map[any]struct{}
}

// enter marks a directory as visited and reports whether it was new.
func (w *walker) enter(path string, info os.FileInfo) bool {
	var key any = filepath.Clean(path)
	if ident, ok := fileIdentFromSys(info); ok {
		key = ident
	}
	if _, seen := w.visited[key]; seen {
		return false
	}
	w.visited[key] = struct{}{}
	return true
}

// Copy visits every root in order and, when Options.Recursive is set, every
// entry below root directories. The returned report is complete for all
// entries visited; the error is non-nil only when ctx ended the walk early
// or the options name an invalid class, in which case nothing is visited.
func (c *Copier) Copy(ctx context.Context, roots ...string) (*Report, error) {
	if err := validClasses(c.opts.Source, c.opts.Target); err != nil {
		return &Report{}, err
	}
	w := &walker{
		ctx:     ctx,
		report:  &Report{},
		visited: make(map[any]struct{}),
	}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return w.report, errors.Wrapf(err, "copy interrupted after %d entries", len(w.report.Results))
		}
		c.visit(w, root, true)
	}
	if err := ctx.Err(); err != nil {
		return w.report, errors.Wrapf(err, "copy interrupted after %d entries", len(w.report.Results))
	}
	return w.report, nil
}

func (c *Copier) visit(w *walker, path string, root bool) {
	info, reason, err := c.inspect(path, c.opts.FollowSymlinks)
	if err != nil {
		var notFound *NotFoundError
		if root || !errors.As(err, &notFound) {
			c.record(w, Result{Path: path, Outcome: Failed, Err: err})
			return
		}
		// Children that vanished or point nowhere are ineligible, not failures.
		reason = ReasonMissing
		if info != nil {
			reason = ReasonDangling
		}
		c.record(w, Result{Path: path, Outcome: Skipped, Reason: reason})
		return
	}
	if reason == "" && root && !info.Mode().IsRegular() && !info.IsDir() {
		reason = ReasonUnsupported
	}
	descend := c.opts.Recursive && info.IsDir()
	if reason == "" && descend && !w.enter(path, info) {
		reason = ReasonVisited
	}
	if reason != "" {
		c.record(w, Result{Path: path, Outcome: Skipped, Reason: reason, OldMode: info.Mode(), NewMode: info.Mode()})
		return
	}

	res, _ := c.copyEntry(path, info)
	if !descend || res.Outcome == Skipped {
		c.record(w, res)
		return
	}

	// A listing failure belongs to the directory's own result.
	names, err := c.fs.ReadDirNames(path)
	if err != nil {
		rdErr := &ReadDirError{Path: path, Err: err}
		if res.Outcome == Failed {
			res.Err = multierror.Append(res.Err, rdErr)
		} else {
			res.Outcome = Failed
			res.Err = rdErr
		}
	}
	c.record(w, res)
	for _, name := range names {
		if w.ctx.Err() != nil {
			return
		}
		c.visit(w, filepath.Join(path, name), false)
	}
}

func (c *Copier) copyEntry(path string, info os.FileInfo) (Result, error) {
	byPath := func(mode os.FileMode) error {
		return c.fs.Chmod(path, mode)
	}
	// Opening a fifo or device can block or have side effects.
	if !info.Mode().IsRegular() && !info.IsDir() {
		return c.copyMode(path, info.Mode(), c.opts.Source, c.opts.Target, c.opts.Mask, byPath)
	}

	f, err := c.fs.Open(path)
	if err != nil {
		// The owner may chmod entries it cannot read.
		log.Debug("Open failed, changing mode by path", "path", path, "error", err)
		return c.copyMode(path, info.Mode(), c.opts.Source, c.opts.Target, c.opts.Mask, byPath)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Debug("Closing entry failed", "path", path, "error", cerr)
		}
	}()

	current, err := f.Stat()
	if err != nil {
		return fail(Result{Path: path}, &StatError{Path: path, Err: err})
	}
	if !c.owns(path, current) {
		return Result{Path: path, Outcome: Skipped, Reason: ReasonOwnerChanged, OldMode: current.Mode(), NewMode: current.Mode()}, nil
	}
	return c.copyMode(path, current.Mode(), c.opts.Source, c.opts.Target, c.opts.Mask, c.chmodFunc(path, f))
}

func (c *Copier) record(w *walker, res Result) {
	switch res.Outcome {
	case Changed:
		log.Debug("Mode changed", "path", res.Path, "from", perm.Octal(res.OldMode), "to", perm.Octal(res.NewMode))
	case Unchanged:
		log.Debug("Mode unchanged", "path", res.Path, "mode", perm.Octal(res.OldMode))
	case Skipped:
		log.Debug("Entry skipped", "path", res.Path, "reason", res.Reason)
	case Failed:
		log.Warn("Entry failed", "path", res.Path, "error", res.Err)
	}
	w.report.add(res)
}
