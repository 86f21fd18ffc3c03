// sort.go - order a sibling list with the caller's comparator
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
	"slices"
)

// sortEntries reorders the sibling chain by the caller's comparator
// and returns the new head. The scratch slice is reused across
// directories and only grows when a longer list needs it.
func (sp *FTS) sortEntries(head *Entry, nitems int) *Entry {
	if cap(sp.sortArr) < nitems {
		sp.sortArr = make([]*Entry, 0, nitems+40)
	}

	arr := sp.sortArr[:0]
	for p := head; p != nil; p = p.link {
		arr = append(arr, p)
	}
	slices.SortStableFunc(arr, sp.compar)

	for i := 0; i < nitems-1; i++ {
		arr[i].link = arr[i+1]
	}
	arr[nitems-1].link = nil

	sp.sortArr = arr
	return arr[0]
}

// EOF
