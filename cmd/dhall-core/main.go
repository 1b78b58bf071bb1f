// Command dhall-core is a thin CLI over the core/parser/binary
// packages: parse an expression from stdin, type-check it, normalise
// it, and optionally round-trip it through the CBOR binary encoding.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
