// die.go -- print an error and exit

package main

import (
	"fmt"
	"os"
)

func Die(s string, v ...interface{}) {
	Warn(s, v...)
	os.Exit(1)
}

func Warn(s string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", Z, s)
	s = fmt.Sprintf(z, v...)
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
