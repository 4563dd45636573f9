// Command hqlc is the thin CLI front-end over the HQL compiler core: the
// reader (internal/reader) and the AST→IR lowering pipeline
// (internal/lower). It does not emit JavaScript text — that back-end is
// out of scope per spec §1 — so its output is either a human-readable AST
// dump or the IR tree serialized as JSON, the boundary artifact the
// (out-of-scope) emitter would consume.
package main

import (
	"fmt"
	"os"

	"github.com/hlvm-dev/hql/cmd/hqlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
