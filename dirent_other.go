// dirent_other.go - directory enumeration for non-linux unix
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

//go:build unix && !linux

package fts

import (
	"io/fs"
	"os"
)

// readDirents enumerates 'dirp' through the portable readdir. That
// API never returns "." and "..", so they are synthesized up front
// when the caller wants them; whiteout entries are not visible
// through this path.
func readDirents(dirp *os.File, seedot bool) ([]dirent, error) {
	des, err := dirp.ReadDir(-1)

	ents := make([]dirent, 0, len(des)+2)
	if seedot {
		ents = append(ents, dirent{name: ".", typ: dtDir},
			dirent{name: "..", typ: dtDir})
	}
	for _, de := range des {
		ents = append(ents, dirent{name: de.Name(), typ: modeDtype(de.Type())})
	}
	return ents, err
}

func modeDtype(m fs.FileMode) uint8 {
	switch m & fs.ModeType {
	case 0:
		return dtReg
	case fs.ModeDir:
		return dtDir
	case fs.ModeSymlink:
		return dtLnk
	case fs.ModeDevice | fs.ModeCharDevice:
		return dtChr
	case fs.ModeDevice:
		return dtBlk
	case fs.ModeNamedPipe:
		return dtFifo
	case fs.ModeSocket:
		return dtSock
	}
	return dtUnknown
}

// EOF
