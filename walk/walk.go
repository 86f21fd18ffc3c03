// walk.go - filtered fs-walker on top of the fts engine
//
// (c) 2025- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package walk traverses one or more file hierarchies depth-first
// and calls a caller supplied function for every matching entry.
// Callers can filter the visited entries via `Options` or a caller
// provided `Filter` function, stay on one file system, follow
// symlinks and suppress hardlinked duplicates.
//
// The traversal itself is strictly sequential; it is a thin layer
// over the fts engine in the parent package.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/opencoff/go-fts"
)

// Type is an output filter that can be bitwise OR'd. It denotes
// the types of file system entries that will be *returned* to the
// caller.
type Type uint

const (
	FILE    Type = 1 << iota // regular file
	DIR                      // directory
	SYMLINK                  // symbolic link
	DEVICE                   // device special file (blk and char)
	SPECIAL                  // other special files

	// This is a short cut for "give me all entries"
	ALL = FILE | DIR | SYMLINK | DEVICE | SPECIAL
)

var strMap = map[Type]string{
	FILE:    "File",
	DIR:     "Dir",
	SYMLINK: "Symlink",
	DEVICE:  "Device",
	SPECIAL: "Special",
}

// Stringer for walk filter Type
func (t Type) String() string {
	var z []string
	for k, v := range strMap {
		if (k & t) > 0 {
			z = append(z, v)
		}
	}
	return strings.Join(z, "|")
}

// Options control the behavior of the filesystem walk.
type Options struct {
	// Follow symlinks if set
	FollowSymlinks bool

	// stay within the same file-system
	OneFS bool

	// Ignore duplicate inodes. Turning this on
	// suppresses entries with hardlink count greater
	// than 1 - for those entries, only the first encountered
	// entry is output.
	IgnoreDuplicateInode bool

	// Types of entries to return
	Type Type

	// Excludes is a list of shell-glob patterns to exclude from
	// the file-system traversal. In a sense it is an "input filter" -
	// excluded directories are not descended. The matching is done
	// on the basename component of the pathname.
	Excludes []string

	// Filter is an optional caller provided callback to similarly
	// exclude entries from further traversal.
	// This function must return True if this entry should
	// no longer be processed. ie filtered out.
	Filter func(fi *fts.Info) (bool, error)
}

// internal state
type walkState struct {
	Options

	apply func(fi *fts.Info) error

	// dev:rdev:ino of entries already output; suppresses
	// hardlinked duplicates
	seen map[string]bool

	errs []error
}

// WalkFunc traverses the hierarchies rooted at 'names' in depth-first
// order and calls 'apply' for every entry that matches the criteria
// in 'opt'. Directories are handed to 'apply' before their contents.
// Errors encountered during the walk are collected and returned
// after the traversal completes; an error from 'apply' itself ends
// the walk immediately.
func WalkFunc(names []string, opt *Options, apply func(fi *fts.Info) error) error {
	if opt == nil {
		opt = &Options{Type: ALL}
	}

	d := &walkState{
		Options: *opt,
		apply:   apply,
		seen:    make(map[string]bool),
	}

	// by default - "don't filter anything"
	if d.Filter == nil {
		d.Filter = func(_ *fts.Info) (bool, error) {
			return false, nil
		}
	}

	fopt := fts.PHYSICAL
	if d.FollowSymlinks {
		fopt = fts.LOGICAL
	}
	if d.OneFS {
		fopt |= fts.XDEV
	}

	sp, err := fts.Open(names, fopt, nil)
	if err != nil {
		return err
	}
	defer sp.Close()

	for {
		e, err := sp.Read()
		if err != nil {
			d.errs = append(d.errs, err)
			break
		}
		if e == nil {
			break
		}

		if err = d.visit(sp, e); err != nil {
			return err
		}
	}

	if len(d.errs) > 0 {
		return errors.Join(d.errs...)
	}
	return nil
}

// process a single entry; returns a non-nil error only when 'apply'
// wants the walk to end.
func (d *walkState) visit(sp *fts.FTS, e *fts.Entry) error {
	switch e.Kind() {
	case fts.DP, fts.DOT, fts.DC:
		// dirs are output in pre-order; cycles and dots never
		return nil

	case fts.DNR, fts.NS, fts.ERR:
		d.errs = append(d.errs, &Error{Op: "read", Name: e.Path(), Err: e.Errno()})
		return nil
	}

	fi := e.Stat()
	fi.SetPath(e.Path())

	if d.exclude(fi.Path()) {
		if e.Kind() == fts.D {
			sp.Set(e, fts.SKIP)
		}
		return nil
	}

	if d.IgnoreDuplicateInode && d.isEntrySeen(fi) {
		if e.Kind() == fts.D {
			sp.Set(e, fts.SKIP)
		}
		return nil
	}

	skip, err := d.Filter(fi)
	if err != nil {
		d.error("filter %s: %w", fi.Path(), err)
		return nil
	}
	if skip {
		if e.Kind() == fts.D {
			sp.Set(e, fts.SKIP)
		}
		return nil
	}

	if d.output(fi) {
		return d.apply(fi)
	}
	return nil
}

// return true if this entry matches the output type mask
func (d *walkState) output(fi *fts.Info) bool {
	m := fi.Mode()
	switch {
	case m.IsRegular():
		return d.Type&FILE > 0
	case m.IsDir():
		return d.Type&DIR > 0
	case m&fs.ModeSymlink > 0:
		return d.Type&SYMLINK > 0
	case m&fs.ModeDevice > 0:
		return d.Type&DEVICE > 0
	}
	return d.Type&SPECIAL > 0
}

// return true iff basename(nm) matches one of the patterns
func (d *walkState) exclude(nm string) bool {
	if len(d.Excludes) == 0 {
		return false
	}

	bn := path.Base(nm)
	for _, pat := range d.Excludes {
		ok, err := path.Match(pat, bn)
		if err != nil {
			d.error("glob '%s': %w", pat, err)
		} else if ok {
			return true
		}
	}

	return false
}

// track this inode; return true if we've seen it before.
func (d *walkState) isEntrySeen(fi *fts.Info) bool {
	key := fmt.Sprintf("%d:%d:%d", fi.Dev, fi.Rdev, fi.Ino)
	if d.seen[key] {
		return true
	}
	d.seen[key] = true
	return false
}

// collect an error
func (d *walkState) error(s string, args ...any) {
	d.errs = append(d.errs, fmt.Errorf(s, args...))
}

// EOF
