// cmd_mkfile.go -- implements the "mkfile" command

package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path"

	flag "github.com/opencoff/pflag"
)

type mkfileCmd struct {
	*flag.FlagSet

	mkdir bool
	minsz SizeValue
	maxsz SizeValue
}

func (t *mkfileCmd) Name() string {
	return "mkfile"
}

func (t *mkfileCmd) Reset() {
	t.mkdir = false
	t.minsz = 1024
	t.maxsz = 8 * 1024
}

// mkfile [-D] [-m minsize] [-M maxsize] entries...
func (t *mkfileCmd) Run(env *TestEnv, args []string) error {
	err := t.Parse(args)
	if err != nil {
		return fmt.Errorf("mkfile: %w", err)
	}

	env.log.Debug("mkfile: sizes: min %d max %d", t.minsz.Value(), t.maxsz.Value())

	base := env.TestRoot
	for _, nm := range t.Args() {
		fn := nm
		if !path.IsAbs(fn) {
			fn = path.Join(base, fn)
		}

		if t.mkdir {
			env.log.Debug("mkdir %s", fn)
			err = os.MkdirAll(fn, 0700)
		} else {
			sz := int64(t.minsz)
			if t.maxsz > t.minsz {
				sz += int64(rand.N(t.maxsz - t.minsz))
			}
			env.log.Debug("mkfile %s %d", fn, sz)
			err = mkfile(fn, sz)
		}

		if err != nil {
			return fmt.Errorf("mkfile: %s: %w", fn, err)
		}
	}
	return nil
}

// make one file of 'sz' random bytes, creating parents as needed
func mkfile(fn string, sz int64) error {
	bn := path.Dir(fn)
	if err := os.MkdirAll(bn, 0700); err != nil {
		return err
	}

	fd, err := os.OpenFile(fn, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	if _, err = fd.Write(randBuf(sz)); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

var _ Cmd = &mkfileCmd{}

func newMkFileCmd() *mkfileCmd {
	n := &mkfileCmd{
		FlagSet: flag.NewFlagSet("mkfile", flag.ExitOnError),
		minsz:   1024,
		maxsz:   8 * 1024,
	}
	n.VarP(&n.minsz, "min-file-size", "m", "Minimum file size to be created [1k]")
	n.VarP(&n.maxsz, "max-file-size", "M", "Maximum file size to be created [8k]")
	n.BoolVarP(&n.mkdir, "dir", "D", false, "Make directories instead of files [False]")
	return n
}

func init() {
	RegisterCommand(newMkFileCmd())
}
