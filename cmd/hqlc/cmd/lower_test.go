package cmd

import (
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/hlvm-dev/hql/internal/lower"
	"github.com/hlvm-dev/hql/internal/reader"
	"github.com/stretchr/testify/require"
)

// TestLowerJSONDumpSnapshots snapshot-tests the IR-as-JSON dump the lower
// command prints, the natural analogue of go-dws's bytecode/AST snapshot
// fixtures (internal/interp/fixture_test.go) applied to this core's IR
// boundary artifact instead of bytecode.
func TestLowerJSONDumpSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"const-binding", `(const x 10)`},
		{"let-iife", `(let (n 10) (* n n))`},
		{"loop-recur-while", `(loop [i 0 sum 0] (if (< i 100) (recur (+ i 1) (+ sum i)) sum))`},
		{"fn-destructure", `(fn greet [[a b] & rest] (+ a b))`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			forms, perr := reader.Read(tc.src, "snap.hql")
			require.Nil(t, perr)
			prog, err := lower.Lower(forms, ".")
			require.NoError(t, err)

			out, err := json.MarshalIndent(toJSONValue(prog.Body), "", "  ")
			require.NoError(t, err)

			snaps.MatchSnapshot(t, tc.name, string(out))
		})
	}
}
