package main

import (
	"fmt"

	"github.com/go-dhall/dhall-core/core"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	var path string
	var skipTypeCheck bool
	var explain bool
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Type-check and beta-normalise an expression, printing the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := readExpr(path)
			if err != nil {
				return err
			}
			if !skipTypeCheck {
				if _, err := core.TypeOf(expr); err != nil {
					if explain {
						if e, ok := err.(explainer); ok {
							cmd.PrintErrln(e.Explain())
						}
					}
					return fmt.Errorf("type error: %w", err)
				}
			}
			cmd.Println(core.Print(core.Normalize(expr)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "-", "input file, or - for stdin")
	cmd.Flags().BoolVar(&skipTypeCheck, "no-typecheck", false, "normalise without type-checking first")
	cmd.Flags().BoolVar(&explain, "explain", false, "print a longer explanation of any type error")
	return cmd
}
