// xattr.go - extended attribute support
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
	"fmt"
	"strings"

	"github.com/pkg/xattr"
)

// Xattr is a collection of all the extended attributes of a given file
type Xattr map[string]string

// String returns the string representation of all the extended attributes
func (x Xattr) String() string {
	var s strings.Builder
	for k, v := range x {
		s.WriteString(fmt.Sprintf("%s=%s\n", k, v))
	}
	return s.String()
}

// GetXattr returns all the extended attributes of a file.
// This function will traverse symlinks.
func GetXattr(nm string) (Xattr, error) {
	return fetch(nm, xattr.List, xattr.Get)
}

// LgetXattr returns all the extended attributes of a file.
// If 'nm' points to a symlink, LgetXattr will return the
// extended attributes of the symlink and *not* the target.
func LgetXattr(nm string) (Xattr, error) {
	return fetch(nm, xattr.LList, xattr.LGet)
}

// Xattr returns the extended attributes of the entry, fetched
// through its accessible path. On a physical walk symlinks are not
// dereferenced.
func (e *Entry) Xattr() (Xattr, error) {
	if e.fts.has(LOGICAL) {
		return GetXattr(e.AccPath())
	}
	return LgetXattr(e.AccPath())
}

func fetch(nm string, list func(string) ([]string, error),
	get func(string, string) ([]byte, error)) (Xattr, error) {

	keys, err := list(nm)
	if err != nil {
		return nil, err
	}

	x := make(Xattr, len(keys))
	for _, k := range keys {
		v, err := get(nm, k)
		if err != nil {
			return nil, err
		}
		x[k] = string(v)
	}
	return x, nil
}

// EOF
