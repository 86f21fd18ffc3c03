// stat.go - classify one entry into its visit kind
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
	"io/fs"
)

// statProbe stats the entry through its accessible path and returns
// its kind. 'dtype' is the directory-entry type hint (dtUnknown when
// there is none) and 'follow' forces dereferencing the entry even on
// a physical walk.
func (sp *FTS) statProbe(p *Entry, dtype uint8, follow bool) Kind {
	// with NOSTAT there is no metadata slot; stat into scratch
	sbp := p.statp
	if sbp == nil {
		sbp = &Info{}
	}

	// Whited-out entries don't really exist; they are reported by
	// kind alone and carry no metadata.
	if dtype == dtWht {
		*sbp = Info{}
		return W
	}

	// On a logical walk, or on request, do a dereferencing stat. If
	// that fails, check for a broken symlink before giving up.
	if sp.has(LOGICAL) || follow {
		if err := Statm(p.AccPath(), sbp); err != nil {
			if Lstatm(p.AccPath(), sbp) == nil {
				p.errno = nil
				return SLNONE
			}
			p.errno = err
			*sbp = Info{}
			return NS
		}
	} else if err := Lstatm(p.AccPath(), sbp); err != nil {
		p.errno = err
		*sbp = Info{}
		return NS
	}

	if sbp.IsDir() {
		// Remember device, inode and link count: the first two find
		// cycles and mount point crossings, the last bounds the stat
		// calls in build. They are only meaningful on directory
		// kinds.
		p.dev = sbp.Dev
		p.ino = sbp.Ino
		p.nlink = sbp.Nlink

		if isDot(p.name) {
			return DOT
		}

		// Cycle detection is brute force when the directory is first
		// encountered. If trees get deep enough or symlinked enough,
		// something faster might be worthwhile.
		for t := p.parent; t.level >= RootLevel; t = t.parent {
			if p.ino == t.ino && p.dev == t.dev {
				p.cycle = t
				return DC
			}
		}
		return D
	}

	switch {
	case sbp.Mode()&fs.ModeSymlink != 0:
		return SL
	case sbp.IsRegular():
		return F
	}
	return DEFAULT
}

// EOF
