// cmd_symlink.go -- implements the "symlink" command

package main

import (
	"fmt"
	"os"
	"path"
	"strings"
)

type symlinkCmd struct {
}

func (t *symlinkCmd) Reset() {
}

// symlink NEWNAME@OLDNAME [NEWNAME@OLDNAME...]
func (t *symlinkCmd) Run(env *TestEnv, args []string) error {
	base := env.TestRoot

	for _, nm := range args {
		i := strings.Index(nm, "@")
		if i < 0 {
			return fmt.Errorf("symlink: %s: incorrect format; exp NEWNAME@OLDNAME", nm)
		}

		newnm := nm[:i]
		oldnm := nm[i+1:]

		if !path.IsAbs(newnm) {
			newnm = path.Join(base, newnm)
		}
		if !path.IsAbs(oldnm) {
			oldnm = path.Join(base, oldnm)
		}

		env.log.Debug("symlink %s --> %s", newnm, oldnm)
		if err := os.Symlink(oldnm, newnm); err != nil {
			return fmt.Errorf("symlink: %w", err)
		}
	}
	return nil
}

func (t *symlinkCmd) Name() string {
	return "symlink"
}

var _ Cmd = &symlinkCmd{}

func init() {
	// symlink takes no flags
	RegisterCommand(&symlinkCmd{})
}
