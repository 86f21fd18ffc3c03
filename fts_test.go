// fts_test.go -- test harness for the fts engine
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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

// one observed (kind, name) pair
type tvisit struct {
	kind Kind
	name string
}

func lexOrder(a, b *Entry) int {
	return strings.Compare(a.Name(), b.Name())
}

// run a complete walk and record the (kind, name) sequence
func collect(t *testing.T, roots []string, opts Option, compar Compare) []tvisit {
	assert := newAsserter(t)

	sp, err := Open(roots, opts, compar)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	var seq []tvisit
	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		seq = append(seq, tvisit{e.Kind(), e.Name()})
	}
	return seq
}

func seqEq(t *testing.T, want, saw []tvisit) {
	assert := newAsserter(t)

	n := min(len(want), len(saw))
	for i := 0; i < n; i++ {
		assert(want[i] == saw[i], "visit %d: exp %s=%s, saw %s=%s",
			i, want[i].kind, want[i].name, saw[i].kind, saw[i].name)
	}
	assert(len(want) == len(saw), "exp %d visits, saw %d", len(want), len(saw))
}

func TestFlatDir(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	for _, nm := range []string{"top/a", "top/b", "top/c"} {
		assert(mkfile(tmp, nm) == nil, "mkfile %s", nm)
	}

	saw := collect(t, []string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	want := []tvisit{
		{D, "top"},
		{F, "a"}, {F, "b"}, {F, "c"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestSortedNested(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/m") == nil, "mkfile m")
	assert(mkfile(tmp, "top/sub/z") == nil, "mkfile z")
	assert(mkfile(tmp, "top/sub/a") == nil, "mkfile a")

	saw := collect(t, []string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	want := []tvisit{
		{D, "top"},
		{F, "m"},
		{D, "sub"},
		{F, "a"}, {F, "z"},
		{DP, "sub"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestSymlinkLoop(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkdir(tmp, "top") == nil, "mkdir top")
	assert(mksym(tmp, "top", "top/loop") == nil, "symlink loop")

	sp, err := Open([]string{filepath.Join(tmp, "top")}, LOGICAL, nil)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	root, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(root.Kind() == D, "root: exp pre-dir, saw %s", root.Kind())

	loop, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(loop.Kind() == DC, "loop: exp cycle-dir, saw %s", loop.Kind())
	assert(loop.Name() == "loop", "loop: exp name loop, saw %s", loop.Name())
	assert(loop.Cycle() == root, "loop: cycle link doesn't point at root")

	post, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(post.Kind() == DP, "post: exp post-dir, saw %s", post.Kind())

	e, err := sp.Read()
	assert(err == nil && e == nil, "exp EOF; saw %v, %s", e, err)
}

func TestSkipSubtree(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/m") == nil, "mkfile m")
	assert(mkfile(tmp, "top/sub/z") == nil, "mkfile z")
	assert(mkfile(tmp, "top/sub/a") == nil, "mkfile a")

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	var saw []tvisit
	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		saw = append(saw, tvisit{e.Kind(), e.Name()})

		if e.Kind() == D && e.Name() == "sub" {
			assert(sp.Set(e, SKIP) == nil, "set skip")
		}
	}

	want := []tvisit{
		{D, "top"},
		{F, "m"},
		{D, "sub"},
		{DP, "sub"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root; permission checks don't apply")
	}

	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkdir(tmp, "top/priv") == nil, "mkdir priv")
	priv := filepath.Join(tmp, "top", "priv")
	assert(os.Chmod(priv, 0) == nil, "chmod 0")
	t.Cleanup(func() {
		os.Chmod(priv, 0700)
	})

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, nil)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	var saw []tvisit
	var dnr *Entry
	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		saw = append(saw, tvisit{e.Kind(), e.Name()})
		if e.Kind() == DNR {
			dnr = e
		}
	}

	want := []tvisit{
		{D, "top"},
		{D, "priv"},
		{DNR, "priv"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
	assert(dnr != nil, "no unreadable-dir entry seen")
	assert(errors.Is(dnr.Errno(), fs.ErrPermission), "errno: exp EACCES, saw %s", dnr.Errno())
}

func TestMissingRoot(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkdir(tmp, "alpha") == nil, "mkdir alpha")
	roots := []string{
		filepath.Join(tmp, "alpha"),
		filepath.Join(tmp, "missing"),
	}

	sp, err := Open(roots, PHYSICAL, nil)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	e, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(e.Kind() == D && e.Name() == "alpha", "exp pre-dir alpha, saw %s %s", e.Kind(), e.Name())

	e, err = sp.Read()
	assert(err == nil, "read: %s", err)
	assert(e.Kind() == DP && e.Name() == "alpha", "exp post-dir alpha, saw %s %s", e.Kind(), e.Name())

	e, err = sp.Read()
	assert(err == nil, "read: %s", err)
	assert(e.Kind() == NS && e.Name() == "missing", "exp stat-failed missing, saw %s %s", e.Kind(), e.Name())
	assert(errors.Is(e.Errno(), unix.ENOENT), "errno: exp ENOENT, saw %s", e.Errno())

	e, err = sp.Read()
	assert(err == nil && e == nil, "exp EOF; saw %v, %s", e, err)
}

func TestSortedRoots(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkdir(tmp, "a") == nil, "mkdir a")
	assert(mkdir(tmp, "b") == nil, "mkdir b")

	// argument order reversed; the comparator puts them right
	roots := []string{filepath.Join(tmp, "b"), filepath.Join(tmp, "a")}
	saw := collect(t, roots, PHYSICAL, lexOrder)
	want := []tvisit{
		{D, "a"}, {DP, "a"},
		{D, "b"}, {DP, "b"},
	}
	seqEq(t, want, saw)
}

func TestNoChdir(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	for _, nm := range []string{"top/a", "top/sub/b", "top/sub/deep/c"} {
		assert(mkfile(tmp, nm) == nil, "mkfile %s", nm)
	}

	root := []string{filepath.Join(tmp, "top")}
	saw := collect(t, root, PHYSICAL, lexOrder)
	sawNC := collect(t, root, PHYSICAL|NOCHDIR, lexOrder)
	seqEq(t, saw, sawNC)
}

func TestPathInvariants(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	for _, nm := range []string{"top/a", "top/sub/b", "top/sub/deep/c"} {
		assert(mkfile(tmp, nm) == nil, "mkfile %s", nm)
	}

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}

		if e.Level() == RootLevel {
			assert(e.Parent().Level() == RootParentLevel,
				"root parent: exp level %d, saw %d", RootParentLevel, e.Parent().Level())
			continue
		}

		// paths concatenate parent-to-child, levels grow by one
		par := e.Parent()
		assert(e.Level() == par.Level()+1, "%s: exp level %d, saw %d",
			e.Name(), par.Level()+1, e.Level())
		assert(e.Path() == par.Path()+"/"+e.Name(),
			"%s: path: exp %s/%s, saw %s", e.Name(), par.Path(), e.Name(), e.Path())
	}
}

func TestPairedVisits(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	for _, nm := range []string{"top/a", "top/s1/b", "top/s1/s2/c", "top/s3/d"} {
		assert(mkfile(tmp, nm) == nil, "mkfile %s", nm)
	}

	pre := make(map[string]int)
	post := make(map[string]int)

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, nil)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		switch e.Kind() {
		case D:
			pre[e.Path()]++
		case DP:
			post[e.Path()]++
		}
	}

	assert(len(pre) == len(post), "exp %d post-dir visits, saw %d", len(pre), len(post))
	for p, n := range pre {
		assert(n == 1, "%s: %d pre-dir visits", p, n)
		assert(post[p] == 1, "%s: %d post-dir visits", p, post[p])
	}
}

func TestNoStatElision(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/a") == nil, "mkfile a")
	assert(mkfile(tmp, "top/b") == nil, "mkfile b")
	assert(mkfile(tmp, "top/sub/c") == nil, "mkfile c")

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL|NOSTAT, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	var saw []tvisit
	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		saw = append(saw, tvisit{e.Kind(), e.Name()})

		// no metadata slot on a nostat walk
		assert(e.Stat() == nil, "%s: unexpected stat info", e.Name())
	}

	want := []tvisit{
		{D, "top"},
		{NSOK, "a"}, {NSOK, "b"},
		{D, "sub"},
		{NSOK, "c"},
		{DP, "sub"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestSeeDot(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/a") == nil, "mkfile a")

	saw := collect(t, []string{filepath.Join(tmp, "top")}, PHYSICAL|SEEDOT, lexOrder)
	want := []tvisit{
		{D, "top"},
		{DOT, "."}, {DOT, ".."},
		{F, "a"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestChildren(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	for _, nm := range []string{"top/a", "top/b", "top/c"} {
		assert(mkfile(tmp, nm) == nil, "mkfile %s", nm)
	}

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	// before the first Read, the children are the roots
	c, err := sp.Children(NOINSTR)
	assert(err == nil, "children: %s", err)
	assert(c != nil && c.Link() == nil, "root list: exp one entry")

	root, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(root.Kind() == D, "exp pre-dir, saw %s", root.Kind())

	c, err = sp.Children(NOINSTR)
	assert(err == nil, "children: %s", err)

	var names []string
	for e := c; e != nil; e = e.Link() {
		names = append(names, e.Name())
		assert(e.Parent() == root, "%s: wrong parent", e.Name())
		assert(e.Kind() == F, "%s: exp file, saw %s", e.Name(), e.Kind())
	}
	assert(strings.Join(names, " ") == "a b c", "children: exp a b c, saw %v", names)

	// the peeked list is consumed by the subsequent descent
	e, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(e.Kind() == F && e.Name() == "a", "exp file a, saw %s %s", e.Kind(), e.Name())

	// not a pre-order directory: no children here
	c, err = sp.Children(NOINSTR)
	assert(err == nil, "children: %s", err)
	assert(c == nil, "children of a file?")
}

func TestChildrenNameOnly(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	for _, nm := range []string{"top/a", "top/b"} {
		assert(mkfile(tmp, nm) == nil, "mkfile %s", nm)
	}

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	root, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(root.Kind() == D, "exp pre-dir, saw %s", root.Kind())

	c, err := sp.Children(NAMEONLY)
	assert(err == nil, "children: %s", err)
	for e := c; e != nil; e = e.Link() {
		assert(e.Kind() == NSOK, "%s: exp no-stat, saw %s", e.Name(), e.Kind())
	}

	// descending must rebuild the list with stat info
	e, err := sp.Read()
	assert(err == nil, "read: %s", err)
	assert(e.Kind() == F && e.Name() == "a", "exp file a, saw %s %s", e.Kind(), e.Name())
}

func TestInstrAgain(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/a") == nil, "mkfile a")

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, nil)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	e, err := sp.Read()
	assert(err == nil && e.Kind() == D, "exp pre-dir; saw %v, %s", e, err)

	e, err = sp.Read()
	assert(err == nil && e.Kind() == F && e.Name() == "a", "exp file a; saw %v, %s", e, err)
	assert(sp.Set(e, AGAIN) == nil, "set again")

	// the entry comes around one more time
	e, err = sp.Read()
	assert(err == nil && e.Kind() == F && e.Name() == "a", "exp file a again; saw %v, %s", e, err)

	e, err = sp.Read()
	assert(err == nil && e.Kind() == DP, "exp post-dir; saw %v, %s", e, err)
}

func TestInstrFollow(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/d/f") == nil, "mkfile f")
	assert(mksym(tmp, "top/d", "top/link") == nil, "symlink link")

	sp, err := Open([]string{filepath.Join(tmp, "top")}, PHYSICAL, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	var saw []tvisit
	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		saw = append(saw, tvisit{e.Kind(), e.Name()})

		if e.Kind() == SL {
			assert(sp.Set(e, FOLLOW) == nil, "set follow")
		}
	}

	want := []tvisit{
		{D, "top"},
		{D, "d"}, {F, "f"}, {DP, "d"},
		{SL, "link"},
		{D, "link"}, {F, "f"}, {DP, "link"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestInstrIdempotent(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkfile(tmp, "top/m") == nil, "mkfile m")
	assert(mkfile(tmp, "top/sub/a") == nil, "mkfile a")

	root := []string{filepath.Join(tmp, "top")}
	plain := collect(t, root, PHYSICAL, lexOrder)

	sp, err := Open(root, PHYSICAL, lexOrder)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	var saw []tvisit
	for {
		e, err := sp.Read()
		assert(err == nil, "read: %s", err)
		if e == nil {
			break
		}
		saw = append(saw, tvisit{e.Kind(), e.Name()})

		// set and clear; the walk must not change
		if e.Kind() == D && e.Name() == "sub" {
			assert(sp.Set(e, SKIP) == nil, "set skip")
			assert(sp.Set(e, NOINSTR) == nil, "clear skip")
		}
	}
	seqEq(t, plain, saw)
}

func TestBrokenSymlink(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	assert(mkdir(tmp, "top") == nil, "mkdir top")
	assert(mksym(tmp, "top/gone", "top/dangling") == nil, "symlink dangling")

	saw := collect(t, []string{filepath.Join(tmp, "top")}, LOGICAL, nil)
	want := []tvisit{
		{D, "top"},
		{SLNONE, "dangling"},
		{DP, "top"},
	}
	seqEq(t, want, saw)
}

func TestBadArgs(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	// unknown option bits are rejected
	_, err := Open([]string{tmp}, Option(1<<30), nil)
	assert(err != nil, "open: bad option accepted")
	assert(errors.Is(err, unix.EINVAL), "open: exp EINVAL, saw %s", err)

	// empty paths are rejected
	_, err = Open([]string{""}, PHYSICAL, nil)
	assert(err != nil, "open: empty path accepted")
	assert(errors.Is(err, unix.ENOENT), "open: exp ENOENT, saw %s", err)

	sp, err := Open([]string{tmp}, PHYSICAL, nil)
	assert(err == nil, "open: %s", err)
	defer sp.Close()

	e, err := sp.Read()
	assert(err == nil && e != nil, "read: %v, %s", e, err)

	// NAMEONLY is a Children instruction, not a Set one
	err = sp.Set(e, NAMEONLY)
	assert(errors.Is(err, unix.EINVAL), "set: exp EINVAL, saw %s", err)

	// and SKIP is a Set instruction, not a Children one
	_, err = sp.Children(SKIP)
	assert(errors.Is(err, unix.EINVAL), "children: exp EINVAL, saw %s", err)
}

func TestStatInfo(t *testing.T) {
	assert := newAsserter(t)
	tmp := t.TempDir()

	fp := filepath.Join(tmp, "a")
	assert(mkfilex(fp) == nil, "mkfile a")

	st, err := os.Stat(fp)
	assert(err == nil, "os.stat: %s", err)

	fi, err := Stat(fp)
	assert(err == nil, "stat: %s", err)

	assert(st.Size() == fi.Size(), "size: exp %d, saw %d", st.Size(), fi.Size())
	assert(st.Mode() == fi.Mode(), "mode: exp %#b, saw %#b", st.Mode(), fi.Mode())
	assert(st.ModTime().Equal(fi.ModTime()), "mtime: exp %s, saw %s", st.ModTime(), fi.ModTime())
}

// EOF
