package main

import (
	"fmt"

	"github.com/go-dhall/dhall-core/core"
	"github.com/spf13/cobra"
)

// explainer is implemented by every typed error in this module
// (core.TypeError, binary.DecodeError) that can render a longer
// explanation than Error() does.
type explainer interface {
	Explain() string
}

func newTypeCmd() *cobra.Command {
	var path string
	var explain bool
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Type-check an expression and print its inferred type",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := readExpr(path)
			if err != nil {
				return err
			}
			typ, err := core.TypeOf(expr)
			if err != nil {
				if explain {
					if e, ok := err.(explainer); ok {
						cmd.PrintErrln(e.Explain())
					}
				}
				return fmt.Errorf("type error: %w", err)
			}
			cmd.Println(core.Print(core.Quote(typ)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "-", "input file, or - for stdin")
	cmd.Flags().BoolVar(&explain, "explain", false, "print a longer explanation of any type error")
	return cmd
}
