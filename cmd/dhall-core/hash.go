package main

import (
	"fmt"

	"github.com/go-dhall/dhall-core/binary"
	"github.com/go-dhall/dhall-core/core"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	var path string
	var explain bool
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the semantic integrity hash of a type-checked expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := readExpr(path)
			if err != nil {
				return err
			}
			if _, err := core.TypeOf(expr); err != nil {
				if explain {
					if e, ok := err.(explainer); ok {
						cmd.PrintErrln(e.Explain())
					}
				}
				return fmt.Errorf("type error: %w", err)
			}
			sum, err := binary.SemanticHash(expr)
			if err != nil {
				return err
			}
			cmd.Println(sum)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "-", "input file, or - for stdin")
	cmd.Flags().BoolVar(&explain, "explain", false, "print a longer explanation of any type error")
	return cmd
}
