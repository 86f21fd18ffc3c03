// utils_test.go -- shared helpers for the fts tests

package fts

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}

		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}

		s := fmt.Sprintf(msg, args...)
		t.Fatalf("\n%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

// make one file (and its parents)
func mkfilex(fn string) error {
	bn := filepath.Dir(fn)
	if err := os.MkdirAll(bn, 0700); err != nil {
		return fmt.Errorf("mkdir: %s: %w", bn, err)
	}

	fd, err := os.OpenFile(fn, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creat: %s: %w", fn, err)
	}

	fd.Write([]byte("hello"))
	fd.Sync()
	return fd.Close()
}

func mkfile(tmpdir, p string) error {
	return mkfilex(filepath.Join(tmpdir, p))
}

func mkdir(tmpdir, p string) error {
	return os.MkdirAll(filepath.Join(tmpdir, p), 0700)
}

// make a symlink named 'link' pointing to 'targ'
func mksym(tmpdir, targ, link string) error {
	s := filepath.Join(tmpdir, targ)
	d := filepath.Join(tmpdir, link)
	return os.Symlink(s, d)
}
