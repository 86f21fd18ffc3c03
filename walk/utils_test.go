// utils_test.go -- shared helpers for the walk tests

package walk

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

func hardlink(old, new string) error {
	return os.Link(old, new)
}

// make a test dir with known entries
func mkTestDir(tmpdir string) error {
	var err error

	if err = mkfilex(filepath.Join(tmpdir, "a")); err != nil {
		return err
	}

	if err = mkfilex(filepath.Join(tmpdir, "b/c/d")); err != nil {
		return err
	}

	if err = mkfilex(filepath.Join(tmpdir, "b/c/e")); err != nil {
		return err
	}

	if err = os.Symlink(filepath.Join(tmpdir, "b/c/e"),
		filepath.Join(tmpdir, "b/symlink")); err != nil {
		return err
	}

	return nil
}
