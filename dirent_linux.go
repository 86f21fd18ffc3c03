// dirent_linux.go - raw directory enumeration with type hints
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

//go:build linux

package fts

import (
	"bytes"
	"encoding/binary"
	"os"

	"golang.org/x/sys/unix"
)

// linux_dirent64 layout: ino 8, off 8, reclen 2, type 1, name ...
const direntHdrLen = 19

// readDirents enumerates 'dirp' via getdents(2) so the d_type hints
// are preserved. The kernel includes "." and ".." in the stream, so
// 'seedot' needs no extra work here.
func readDirents(dirp *os.File, seedot bool) ([]dirent, error) {
	fd := int(dirp.Fd())
	buf := make([]byte, 8192)

	var ents []dirent
	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			return ents, err
		}
		if n == 0 {
			return ents, nil
		}
		ents = parseDirents(buf[:n], ents)
	}
}

func parseDirents(buf []byte, ents []dirent) []dirent {
	for len(buf) >= direntHdrLen {
		ino := binary.NativeEndian.Uint64(buf[0:8])
		reclen := int(binary.NativeEndian.Uint16(buf[16:18]))
		if reclen < direntHdrLen || reclen > len(buf) {
			break
		}
		typ := buf[18]

		rec := buf[direntHdrLen:reclen]
		if i := bytes.IndexByte(rec, 0); i >= 0 {
			rec = rec[:i]
		}
		buf = buf[reclen:]

		// skip deleted entries
		if ino == 0 || len(rec) == 0 {
			continue
		}
		ents = append(ents, dirent{name: string(rec), typ: typ})
	}
	return ents
}

// EOF
