// cmd_walk.go -- implements the "walk" command

package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/opencoff/go-utils"
	flag "github.com/opencoff/pflag"

	"github.com/opencoff/go-fts"
)

type walkCmd struct {
	*flag.FlagSet

	logical bool
	nochdir bool
	nostat  bool
	seedot  bool
	xdev    bool
	sorted  bool
}

func (t *walkCmd) Name() string {
	return "walk"
}

func (t *walkCmd) Reset() {
	t.logical = false
	t.nochdir = false
	t.nostat = false
	t.seedot = false
	t.xdev = false
	t.sorted = false
}

// walk [options] root [root...]
//
// Runs the fts engine over the named roots (relative names resolve
// under $ROOT) and records the (kind, name) visit sequence for a
// later "expect".
func (t *walkCmd) Run(env *TestEnv, args []string) error {
	err := t.Parse(args)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	args = t.Args()
	if len(args) == 0 {
		return fmt.Errorf("walk: no roots given")
	}

	roots := make([]string, 0, len(args))
	for _, nm := range args {
		if !path.IsAbs(nm) {
			nm = path.Join(env.TestRoot, nm)
		}
		roots = append(roots, nm)
	}

	opt := fts.PHYSICAL
	if t.logical {
		opt = fts.LOGICAL
	}
	if t.nochdir {
		opt |= fts.NOCHDIR
	}
	if t.nostat {
		opt |= fts.NOSTAT
	}
	if t.seedot {
		opt |= fts.SEEDOT
	}
	if t.xdev {
		opt |= fts.XDEV
	}

	var compar fts.Compare
	if t.sorted {
		compar = func(a, b *fts.Entry) int {
			return strings.Compare(a.Name(), b.Name())
		}
	}

	sp, err := fts.Open(roots, opt, compar)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	defer sp.Close()

	env.visits = env.visits[:0]
	var nbytes uint64
	for {
		e, err := sp.Read()
		if err != nil {
			return fmt.Errorf("walk: %w", err)
		}
		if e == nil {
			break
		}

		if fi := e.Stat(); fi != nil && e.Kind() == fts.F {
			nbytes += uint64(fi.Size())
		}

		v := visit{kind: e.Kind().String(), name: e.Name()}
		env.log.Debug("walk: %s %s", v.kind, e.Path())
		env.visits = append(env.visits, v)
	}

	env.log.Info("walk: %d entries, %s of file data", len(env.visits), utils.HumanizeSize(nbytes))
	return nil
}

var _ Cmd = &walkCmd{}

func newWalkCmd() *walkCmd {
	n := &walkCmd{
		FlagSet: flag.NewFlagSet("walk", flag.ExitOnError),
	}
	n.BoolVarP(&n.logical, "logical", "L", false, "Follow symlinks during the walk [False]")
	n.BoolVarP(&n.nochdir, "no-chdir", "", false, "Never change the working directory [False]")
	n.BoolVarP(&n.nostat, "no-stat", "", false, "Skip stat calls where possible [False]")
	n.BoolVarP(&n.seedot, "see-dot", "", false, "Return '.' and '..' entries [False]")
	n.BoolVarP(&n.xdev, "one-fs", "x", false, "Don't cross mount points [False]")
	n.BoolVarP(&n.sorted, "sort", "s", false, "Visit entries in lexical order [False]")
	return n
}

func init() {
	RegisterCommand(newWalkCmd())
}
