// fts.go - depth-first file system traversal
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

// Package fts walks a file hierarchy in depth-first order and hands
// every entry to the caller, one per call. It is the moral equivalent
// of the POSIX fts(3) API that underlies ls -R, find and rm -r.
//
// Directories are visited twice - in pre-order before any descendant
// and in post-order after all of them - so callers can compute both
// descending and ascending side effects. The walk is cycle safe in
// both logical and physical mode, can be pinned to one device, and
// keeps syscalls short by changing into each directory as it
// descends (with a transparent fallback to full paths when changing
// directories is impossible or disabled).
//
// The engine changes the process working directory unless NOCHDIR is
// set; since the working directory is shared process-wide state, at
// most one chdir-mode traversal may be active in a process at a time.
package fts

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Option is a bit-mask controlling the behavior of a traversal.
type Option uint

const (
	COMFOLLOW Option = 1 << iota // dereference symlinks given as arguments
	LOGICAL                      // dereference every symlink encountered
	NOCHDIR                      // never change the working directory
	NOSTAT                       // skip stat calls where possible
	PHYSICAL                     // treat symlinks as leaves (default)
	SEEDOT                       // return "." and ".." during enumeration
	XDEV                         // do not cross mount points
	WHITEOUT                     // return whiteout directory entries

	optMask = COMFOLLOW | LOGICAL | NOCHDIR | NOSTAT | PHYSICAL |
		SEEDOT | XDEV | WHITEOUT
)

// initial path buffer size; real paths routinely exceed the old
// MAXPATHLEN, the buffer grows as needed during the walk
const maxPathLen = 4096

// Compare imposes a total order on entries at the same level; it
// returns a negative number when a sorts before b, zero when they
// are equal and a positive number otherwise.
type Compare func(a, b *Entry) int

// FTS is the state of one traversal. It is not safe for concurrent
// use.
type FTS struct {
	cur   *Entry // entry most recently returned by Read
	child *Entry // pending children built by Children

	path    []byte // shared path buffer; one path for the whole walk
	pathCap int

	dev uint64 // device of the current root; pins XDEV walks
	rfd int    // handle to the starting directory

	opts     Option
	compar   Compare
	sortArr  []*Entry // grow-only sort scratch
	nameonly bool     // pending children were built without stats

	stopped bool
	err     error
}

func (sp *FTS) has(o Option) bool {
	return sp.opts&o != 0
}

// chdir and fchdir are no-ops when the caller disabled directory
// changes; everything then runs on full paths.
func (sp *FTS) chdir(path string) error {
	if sp.has(NOCHDIR) {
		return nil
	}
	return unix.Chdir(path)
}

func (sp *FTS) fchdir(fd int) error {
	if sp.has(NOCHDIR) {
		return nil
	}
	return unix.Fchdir(fd)
}

func (sp *FTS) setstop(err error) {
	sp.stopped = true
	sp.err = err
}

// grow the shared path buffer; entries reference it by length, so
// growth needs no per-entry pointer fixup.
func (sp *FTS) palloc(more int) {
	sp.pathCap += more + 256
	np := make([]byte, sp.pathCap)
	copy(np, sp.path)
	sp.path = np
}

// Special case a root of "/" so that we never emit "//name".
func nappend(p *Entry) int {
	if p.level == RootLevel && p.pathLen == 1 && p.fts.path[0] == '/' {
		return 0
	}
	return p.pathLen
}

func isDot(name string) bool {
	return name == "." || name == ".."
}

// Open starts a traversal of the hierarchies rooted at 'paths', in
// argument order unless a comparator is supplied. Each entry is then
// obtained with Read. A nil comparator returns directory entries in
// readdir order.
func Open(paths []string, opts Option, compar Compare) (*FTS, error) {
	if opts&^optMask != 0 {
		return nil, &Error{Op: "open", Err: unix.EINVAL}
	}

	sp := &FTS{
		opts:   opts,
		compar: compar,
		rfd:    -1,
	}

	// Logical walks turn on NOCHDIR; symbolic links are too hard.
	if sp.has(LOGICAL) {
		sp.opts |= NOCHDIR
	}

	// Start with enough path space for the longest argument and, in
	// any case, for a system max-path.
	maxarg := 0
	for _, nm := range paths {
		if len(nm) > maxarg {
			maxarg = len(nm)
		}
	}
	sp.palloc(max(maxarg, maxPathLen))

	parent := sp.newEntry("")
	parent.level = RootParentLevel

	var root, tmp *Entry
	nitems := 0
	for _, nm := range paths {
		if len(nm) == 0 {
			return nil, &Error{Op: "open", Name: nm, Err: unix.ENOENT}
		}

		p := sp.newEntry(nm)
		p.level = RootLevel
		p.parent = parent
		p.acc = accName
		p.info = sp.statProbe(p, dtUnknown, sp.has(COMFOLLOW))

		// "." and ".." given as arguments are real directories
		if p.info == DOT {
			p.info = D
		}

		// with a comparator roots are pushed head-first and sorted
		// once below; without, argument order is preserved
		if compar != nil {
			p.link = root
			root = p
		} else {
			if root == nil {
				root = p
				tmp = p
			} else {
				tmp.link = p
				tmp = p
			}
		}
		nitems++
	}
	if compar != nil && nitems > 1 {
		root = sp.sortEntries(root, nitems)
	}

	// A sentinel makes Read think we just finished the node before
	// the first root.
	cur := sp.newEntry("")
	cur.level = RootLevel
	cur.parent = parent
	cur.link = root
	cur.info = INIT
	sp.cur = cur

	// Grab a handle to dot so we can get back here; if that fails we
	// still run, just on full paths.
	if !sp.has(NOCHDIR) {
		fd, err := unix.Open(".", unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if err != nil {
			sp.opts |= NOCHDIR
		} else {
			sp.rfd = fd
		}
	}

	return sp, nil
}

// load readies the path buffer for the next root. The engine does
// not enter the directory until after the pre-order visit, so the
// accessible path switches to the full buffer and the name keeps
// only its final component.
func (sp *FTS) load(p *Entry) {
	p.pathLen = len(p.name)
	copy(sp.path, p.name)
	if i := strings.LastIndexByte(p.name, '/'); i >= 0 && (i > 0 || i+1 < len(p.name)) {
		p.name = p.name[i+1:]
	}
	p.acc = accPath
	sp.dev = p.dev
}

// Read returns the next entry of the walk. At the end of the stream
// it returns (nil, nil); after an unrecoverable error it returns
// (nil, err) and keeps doing so until Close.
func (sp *FTS) Read() (*Entry, error) {
	if sp.cur == nil || sp.stopped {
		return nil, sp.err
	}

	p := sp.cur

	// consume the caller instruction
	instr := p.instr
	p.instr = NOINSTR

	// any type of entry may be re-visited; re-stat and re-turn
	if instr == AGAIN {
		p.info = sp.statProbe(p, dtUnknown, false)
		return p, nil
	}

	// Following a symlink -- SLNONE lets the application see the
	// broken link and recover. When indirecting through a symlink we
	// keep a handle to the current location or the follow fails.
	if instr == FOLLOW && (p.info == SL || p.info == SLNONE) {
		p.info = sp.statProbe(p, dtUnknown, true)
		if p.info == D && !sp.has(NOCHDIR) {
			fd, err := unix.Open(".", unix.O_RDONLY|unix.O_CLOEXEC, 0)
			if err != nil {
				p.errno = err
				p.info = ERR
			} else {
				p.symfd = fd
				p.flags |= flSymFollow
			}
		}
		return p, nil
	}

	// directory in pre-order
	if p.info == D {
		// skipped, or crossed a mount point: post-order visit now
		if instr == SKIP || (sp.has(XDEV) && p.dev != sp.dev) {
			p.release()
			sp.child = nil
			p.info = DP
			return p, nil
		}

		// rebuild if we only read the names and are now traversing
		if sp.child != nil && sp.nameonly {
			sp.nameonly = false
			sp.child = nil
		}

		if sp.child != nil {
			// Children built the list already; enter the directory
			// now. On failure the names still come out right, against
			// the parent's accessible path, and the error surfaces on
			// the post-order visit.
			if err := sp.chdir(p.AccPath()); err != nil {
				p.errno = err
				p.flags |= flDontChdir
				for c := sp.child; c != nil; c = c.link {
					c.acc = accParent
				}
			}
		} else if sp.child = sp.build(bread); sp.child == nil {
			if sp.stopped {
				return nil, sp.err
			}
			// reclassified: DNR on open failure, DP when empty
			return p, nil
		}

		p = sp.child
		sp.child = nil
		return sp.loadName(p), nil
	}

	return sp.next(p)
}

// next advances laterally to the following sibling, or ascends to
// the parent for its post-order visit when the level is exhausted.
func (sp *FTS) next(p *Entry) (*Entry, error) {
	tmp := p
	if p = p.link; p != nil {
		tmp.release()

		// Reached the top: return to the starting directory and
		// load the path buffer for the next root.
		if p.level == RootLevel {
			if err := sp.fchdir(sp.rfd); err != nil {
				sp.setstop(err)
				return nil, sp.err
			}
			sp.load(p)
			sp.cur = p
			return p, nil
		}

		// the caller may have set an instruction on the sibling
		if p.instr == SKIP {
			p.instr = NOINSTR
			return sp.next(p)
		}
		if p.instr == FOLLOW {
			p.info = sp.statProbe(p, dtUnknown, true)
			if p.info == D && !sp.has(NOCHDIR) {
				fd, err := unix.Open(".", unix.O_RDONLY|unix.O_CLOEXEC, 0)
				if err != nil {
					p.errno = err
					p.info = ERR
				} else {
					p.symfd = fd
					p.flags |= flSymFollow
				}
			}
			p.instr = NOINSTR
		}

		return sp.loadName(p), nil
	}

	// move up to the parent node
	p = tmp.parent
	tmp.release()

	if p.level == RootParentLevel {
		// done; a nil error distinguishes EOF from a stop
		sp.cur = nil
		return nil, nil
	}

	// Return to the parent directory: through the saved root handle
	// at root level, through the symlink-follow handle if we came via
	// one, else by going up one directory.
	switch {
	case p.level == RootLevel:
		if err := sp.fchdir(sp.rfd); err != nil {
			sp.setstop(err)
			return nil, sp.err
		}

	case p.flags&flSymFollow != 0:
		err := unix.Fchdir(p.symfd)
		p.release()
		if err != nil {
			sp.setstop(err)
			return nil, sp.err
		}

	case p.flags&flDontChdir == 0:
		if err := sp.chdir(".."); err != nil {
			sp.setstop(err)
			return nil, sp.err
		}
	}

	if p.errno != nil {
		p.info = ERR
	} else {
		p.info = DP
	}
	sp.cur = p
	return p, nil
}

// loadName splices the entry's name onto its parent's path in the
// shared buffer and makes it the current entry.
func (sp *FTS) loadName(p *Entry) *Entry {
	t := nappend(p.parent)
	sp.path[t] = '/'
	copy(sp.path[t+1:], p.name)
	sp.cur = p
	return p
}

// Set installs a one-shot instruction on an entry returned by Read
// or Children; the engine consumes it at the entry's next visit.
// Only NOINSTR, AGAIN, FOLLOW and SKIP are accepted.
func (sp *FTS) Set(p *Entry, instr Instr) error {
	switch instr {
	case NOINSTR, AGAIN, FOLLOW, SKIP:
		p.instr = instr
		return nil
	}
	return &Error{Op: "set", Name: p.name, Err: unix.EINVAL}
}

// Children returns the list of entries of the directory the current
// entry names, linked through Link, without advancing the walk. The
// only instruction accepted is NAMEONLY (or NOINSTR). A nil list
// with a nil error means an empty directory or an entry that has no
// children; after a stop the stop error is returned.
func (sp *FTS) Children(instr Instr) (*Entry, error) {
	if instr != NOINSTR && instr != NAMEONLY {
		return nil, &Error{Op: "children", Err: unix.EINVAL}
	}

	if sp.cur == nil || sp.stopped {
		return nil, sp.err
	}

	p := sp.cur

	// before the first Read the children are the roots themselves
	if p.info == INIT {
		return p.link, nil
	}

	// only a directory being visited in pre-order has children here
	if p.info != D {
		return nil, nil
	}

	// drop any previous child list
	sp.child = nil

	btype := bchild
	if instr == NAMEONLY {
		sp.nameonly = true
		btype = bnames
	}

	// If using chdir on a relative root before the first descent, we
	// must bracket the build with a way back: the build chdirs into
	// the directory and the current directory is otherwise unknown.
	acc := p.AccPath()
	if p.level != RootLevel || (len(acc) > 0 && acc[0] == '/') || sp.has(NOCHDIR) {
		sp.child = sp.build(btype)
		if sp.stopped {
			return nil, sp.err
		}
		return sp.child, nil
	}

	fd, err := unix.Open(".", unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &Error{Op: "children", Name: p.name, Err: err}
	}
	sp.child = sp.build(btype)
	if err = unix.Fchdir(fd); err != nil {
		unix.Close(fd)
		return nil, &Error{Op: "children", Name: p.name, Err: err}
	}
	unix.Close(fd)

	if sp.stopped {
		return nil, sp.err
	}
	return sp.child, nil
}

// Close ends the traversal, releases every live entry and handle and
// returns to the directory the walk was opened from. It reports the
// error of that final return, if any.
func (sp *FTS) Close() error {
	// This works even if nothing was read: the sentinel links to the
	// root list, which ends at an entry with a valid parent.
	if sp.cur != nil {
		p := sp.cur
		for p.level >= RootLevel {
			freep := p
			if p.link != nil {
				p = p.link
			} else {
				p = p.parent
			}
			freep.release()
		}
	}
	for c := sp.child; c != nil; c = c.link {
		c.release()
	}

	sp.cur = nil
	sp.child = nil
	sp.sortArr = nil
	sp.path = nil
	sp.stopped = true

	// return to the original directory
	var saved error
	if sp.rfd >= 0 {
		if !sp.has(NOCHDIR) {
			saved = unix.Fchdir(sp.rfd)
		}
		unix.Close(sp.rfd)
		sp.rfd = -1
	}

	if saved != nil {
		return &Error{Op: "close", Err: saved}
	}
	return nil
}

// EOF
