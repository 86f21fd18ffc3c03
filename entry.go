// entry.go - per-node records of a traversal
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

package fts

import (
	"golang.org/x/sys/unix"
)

// Kind classifies an entry returned by Read or Children.
// Directories are returned twice: once in pre-order (D) before any
// descendant, and once in post-order (DP) after every descendant.
type Kind uint8

const (
	INIT    Kind = iota // sentinel before the first root; never returned
	D                   // directory, pre-order visit
	DC                  // directory that would cause a cycle
	DEFAULT             // anything not otherwise classified
	DNR                 // directory that could not be read
	DOT                 // "." or ".." encountered during enumeration
	DP                  // directory, post-order visit
	ERR                 // unrecoverable error on this node
	F                   // regular file
	NS                  // stat failed; no metadata available
	NSOK                // no stat requested; no metadata available
	SL                  // symbolic link
	SLNONE              // symbolic link whose target does not exist
	W                   // whiteout entry
)

var kindNames = map[Kind]string{
	INIT:    "init",
	D:       "pre-dir",
	DC:      "cycle-dir",
	DEFAULT: "default",
	DNR:     "unreadable-dir",
	DOT:     "dot",
	DP:      "post-dir",
	ERR:     "error",
	F:       "file",
	NS:      "stat-failed",
	NSOK:    "no-stat",
	SL:      "symlink",
	SLNONE:  "broken-symlink",
	W:       "whiteout",
}

// String returns the name of a Kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Instr is a one-shot caller instruction installed via Set (or
// passed to Children). The engine reads and clears it at the next
// visit of the entry.
type Instr uint8

const (
	NOINSTR  Instr = iota // no instruction
	AGAIN                 // re-stat and return the entry again
	FOLLOW                // dereference the symlink and revisit
	NAMEONLY              // Children only: names, no stat calls
	SKIP                  // do not descend this directory
)

// Levels of the traversal; roots sit at RootLevel, their parent
// sentinel one above, and descendants grow downward one per level.
const (
	RootParentLevel = -1
	RootLevel       = 0
)

// entry flags
const (
	flSymFollow uint8 = 1 << iota // symfd holds the way back
	flDontChdir                   // don't chdir ".." on post-order ascent
)

// how the accessible path of an entry is derived
type accKind uint8

const (
	accName   accKind = iota // bare name; the engine sits in the parent dir
	accPath                  // full path from the shared buffer
	accParent                // parent's accessible path (chdir failed)
)

// Entry describes one file system entry encountered during the walk.
// All entries of a traversal are linked: Parent leads back to the
// root's sentinel, Link chains unvisited siblings.
type Entry struct {
	// scratch slots reserved for the caller; the engine never
	// touches them
	Number  int64
	Pointer any

	fts    *FTS
	parent *Entry
	link   *Entry
	cycle  *Entry
	statp  *Info

	name    string
	pathLen int
	level   int
	errno   error

	dev   uint64
	ino   uint64
	nlink uint64

	symfd int
	info  Kind
	instr Instr
	acc   accKind
	flags uint8
}

// newEntry makes a fresh entry carrying 'name'. The metadata slot is
// only allocated when the caller asked for stat info.
func (sp *FTS) newEntry(name string) *Entry {
	p := &Entry{
		fts:   sp,
		name:  name,
		symfd: -1,
	}
	if !sp.has(NOSTAT) {
		p.statp = &Info{}
	}
	return p
}

// Name returns the final path component of the entry.
func (e *Entry) Name() string {
	return e.name
}

// Kind returns the classification of the entry as of its most
// recent visit.
func (e *Entry) Kind() Kind {
	return e.info
}

// Level returns the depth of the entry: 0 for the walk arguments,
// one more per directory level below them.
func (e *Entry) Level() int {
	return e.level
}

// Parent returns the entry of the directory containing this entry.
func (e *Entry) Parent() *Entry {
	return e.parent
}

// Link returns the next unvisited sibling of this entry, if any.
func (e *Entry) Link() *Entry {
	return e.link
}

// Cycle returns the ancestor that this directory would revisit;
// it is non-nil exactly when Kind is DC.
func (e *Entry) Cycle() *Entry {
	return e.cycle
}

// Stat returns the metadata of the entry. It is nil when the walk
// was opened with NOSTAT, and zeroed when Kind is NS, NSOK or W.
func (e *Entry) Stat() *Info {
	return e.statp
}

// Errno returns the syscall error recorded on the entry; it is set
// for the NS, DNR and ERR kinds and nil otherwise.
func (e *Entry) Errno() error {
	return e.errno
}

// Path returns the path of the entry from the root of the walk. The
// underlying storage is shared by the whole traversal: the value is
// valid for the current entry and its ancestors, and must be copied
// if it is to outlive the next call to Read.
func (e *Entry) Path() string {
	return string(e.fts.path[:e.pathLen])
}

// AccPath returns the path a syscall must use to reach the entry
// right now: the bare name while the engine sits in the parent
// directory, the parent's accessible path when changing into the
// parent failed, and the full path otherwise.
func (e *Entry) AccPath() string {
	switch e.acc {
	case accName:
		return e.name
	case accParent:
		return e.parent.AccPath()
	}
	return e.Path()
}

// close any directory handle held for a followed symlink
func (e *Entry) release() {
	if e.symfd >= 0 {
		unix.Close(e.symfd)
		e.symfd = -1
		e.flags &^= flSymFollow
	}
}

// EOF
