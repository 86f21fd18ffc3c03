// build.go - read one directory and build its sibling list
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
	"os"
)

// build modes
const (
	bchild = 1 // Children
	bnames = 2 // Children, names only
	bread  = 3 // Read
)

// build opens the current directory, enumerates it and returns the
// linked list of child entries used by Read and Children.
//
// The real slowdown in walking a tree is the stat calls. When NOSTAT
// is set on a physical walk, symlinks cannot be directories, so the
// directory entry type hint classifies most children outright, and
// the parent's link count bounds how many subdirectories are left:
// once that many have been found the rest cannot be directories and
// need no stat either. That cuts the stat calls in wide leaf
// directories by about two thirds.
func (sp *FTS) build(btype int) *Entry {
	cur := sp.cur

	// Open the directory for reading. If this fails we're done; Read
	// learns about it through the reclassified current node.
	dirp, err := os.Open(cur.AccPath())
	if err != nil {
		if btype == bread {
			cur.info = DNR
			cur.errno = err
		}
		return nil
	}

	// nlinks is the stat budget: the number of possible directories
	// among the children when we're cheating on stat calls, 0 when
	// not stat'ing at all, -1 when stat'ing everything.
	var nlinks int
	switch {
	case btype == bnames:
		nlinks = 0
	case sp.has(NOSTAT) && sp.has(PHYSICAL):
		nlinks = int(cur.nlink)
		if !sp.has(SEEDOT) {
			nlinks -= 2
		}
	default:
		nlinks = -1
	}

	// If we will need to stat anything, or we want to stay in the
	// directory for the descent, change into it. If that fails we
	// keep going and still produce the names; the children's
	// accessible paths then run through the parent so stat attempts
	// fail against the right target. On a Read that stats the
	// children the error itself is reported on the post-order visit;
	// otherwise it only shows on the children.
	var cderr error
	descend := false
	if nlinks != 0 || btype == bread {
		if err := sp.fchdir(int(dirp.Fd())); err != nil {
			if nlinks != 0 && btype == bread {
				cur.errno = err
			}
			cur.flags |= flDontChdir
			cderr = err
		} else {
			descend = true
		}
	}

	// Tail space left for a name in the path buffer; the loop grows
	// the buffer as needed. When not changing directories, child
	// names are spliced into the buffer one at a time so the stat
	// below sees a full path.
	maxlen := sp.pathCap - cur.pathLen - 1
	length := nappend(cur)
	cp := 0
	if sp.has(NOCHDIR) {
		cp = length
		sp.path[cp] = '/'
		cp++
	}

	level := cur.level + 1

	ents, _ := readDirents(dirp, sp.has(SEEDOT))
	dirp.Close()

	var head, tail *Entry
	nitems := 0
	for _, de := range ents {
		if !sp.has(SEEDOT) && isDot(de.name) {
			continue
		}
		if de.typ == dtWht && !sp.has(WHITEOUT) {
			continue
		}

		namlen := len(de.name)
		if namlen > maxlen {
			sp.palloc(namlen)
			maxlen = sp.pathCap - cur.pathLen - 1
		}

		p := sp.newEntry(de.name)
		p.pathLen = length + namlen + 1
		p.parent = cur
		p.level = level

		switch {
		case cderr != nil:
			if nlinks != 0 {
				p.info = NS
				p.errno = cderr
			} else {
				p.info = NSOK
			}
			p.acc = accParent

		case nlinks == 0 || (nlinks > 0 && de.typ != dtDir && de.typ != dtUnknown):
			// trust the hint that this is not a directory
			if sp.has(NOCHDIR) {
				p.acc = accPath
			} else {
				p.acc = accName
			}
			p.info = NSOK

		default:
			if sp.has(NOCHDIR) {
				p.acc = accPath
				copy(sp.path[cp:cp+namlen], de.name)
			} else {
				p.acc = accName
			}
			p.info = sp.statProbe(p, de.typ, false)

			// one fewer possible subdirectory left
			if nlinks > 0 && (p.info == D || p.info == DC || p.info == DOT) {
				nlinks--
			}
		}

		// keep readdir order so "ls -f" doesn't get upset
		if head == nil {
			head = p
			tail = p
		} else {
			tail.link = p
			tail = p
		}
		nitems++
	}

	// If we descended for a Children peek, or for a Read that found
	// nothing, get back to where we were. At root level only the
	// saved handle can take us back: the argument may have been a
	// relative path to an empty directory. If we can't get back,
	// we're done.
	if descend && (btype == bchild || nitems == 0) {
		var err error
		if cur.level == RootLevel {
			err = sp.fchdir(sp.rfd)
		} else {
			err = sp.chdir("..")
		}
		if err != nil {
			cur.info = ERR
			sp.setstop(err)
			return nil
		}
	}

	if nitems == 0 {
		if btype == bread {
			cur.info = DP
		}
		return nil
	}

	if sp.compar != nil && nitems > 1 {
		head = sp.sortEntries(head, nitems)
	}
	return head
}

// EOF
