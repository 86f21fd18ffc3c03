// cmd_expect.go -- implements the "expect" command

package main

import (
	"fmt"
)

type expectCmd struct {
}

func (t *expectCmd) New() Cmd {
	return &expectCmd{}
}

func (t *expectCmd) Reset() {
}

func (t *expectCmd) Name() string {
	return "expect"
}

// expect KIND=NAME [KIND=NAME...]
//
// Compares the visit sequence recorded by the most recent "walk"
// against the given (kind, name) pairs, in order and in full.
func (t *expectCmd) Run(env *TestEnv, args []string) error {
	want := make([]visit, 0, len(args))
	for i := range args {
		arg := args[i]

		key, vals, err := Split(arg)
		if err != nil {
			return err
		}
		if len(vals) != 1 {
			return fmt.Errorf("expect: %s: want exactly one name", arg)
		}

		want = append(want, visit{kind: key, name: vals[0]})
	}

	saw := env.visits
	n := min(len(want), len(saw))
	for i := 0; i < n; i++ {
		if want[i] != saw[i] {
			return fmt.Errorf("expect: visit %d: exp %s=%s, saw %s=%s",
				i, want[i].kind, want[i].name, saw[i].kind, saw[i].name)
		}
	}

	if len(want) != len(saw) {
		return fmt.Errorf("expect: exp %d visits, saw %d", len(want), len(saw))
	}

	env.log.Debug("expect: %d visits matched", len(want))
	return nil
}

var _ Cmd = &expectCmd{}

func init() {
	// expect takes no flags
	RegisterCommand(&expectCmd{})
}
