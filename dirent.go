// dirent.go - normalized directory-entry records
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

// d_type hints, the classic BSD dirent values
const (
	dtUnknown uint8 = 0
	dtFifo    uint8 = 1
	dtChr     uint8 = 2
	dtDir     uint8 = 4
	dtBlk     uint8 = 6
	dtReg     uint8 = 8
	dtLnk     uint8 = 10
	dtSock    uint8 = 12
	dtWht     uint8 = 14
)

// one enumerated directory entry: the name and the d_type hint
type dirent struct {
	name string
	typ  uint8
}

// EOF
