package main

import (
	"os"

	"github.com/go-dhall/dhall-core/core"
	"github.com/go-dhall/dhall-core/imports"
	"github.com/go-dhall/dhall-core/parser"
	"github.com/pkg/errors"
)

// readExpr parses path (or stdin, for "-") and runs it through
// imports.Load, which only rejects expressions that still contain
// unresolved imports since this module doesn't fetch them.
func readExpr(path string) (core.Term, error) {
	var expr core.Term
	var err error
	if path == "-" || path == "" {
		expr, err = parser.ParseReader("-", os.Stdin)
	} else {
		expr, err = parser.ParseFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse error")
	}
	resolved, err := imports.Load(expr)
	if err != nil {
		return nil, errors.Wrap(err, "import resolve error")
	}
	return resolved, nil
}
