// map.go -- a map of names to fts.Info
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

package walk

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/opencoff/go-fts"
)

// Map is a concurrency safe map of path name and the corresponding
// Stat/Lstat info; the walk fills it sequentially but callers are
// free to share it across goroutines afterwards.
type Map = xsync.MapOf[string, *fts.Info]

func NewMap() *Map {
	return xsync.NewMapOf[string, *fts.Info]()
}

// WalkMap traverses the hierarchies rooted at 'names' per 'opt' and
// collects every matching entry into a Map keyed by path.
func WalkMap(names []string, opt *Options) (*Map, error) {
	m := NewMap()
	err := WalkFunc(names, opt, func(fi *fts.Info) error {
		m.Store(fi.Path(), fi)
		return nil
	})
	if err != nil {
		return m, err
	}
	return m, nil
}

// EOF
