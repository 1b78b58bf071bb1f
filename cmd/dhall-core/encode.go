package main

import (
	"os"

	"github.com/go-dhall/dhall-core/binary"
	"github.com/go-dhall/dhall-core/core"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode an expression, as parsed, and write its CBOR binary encoding to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := readExpr(path)
			if err != nil {
				return err
			}
			return binary.EncodeAsCbor(os.Stdout, expr)
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "-", "input file, or - for stdin")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a CBOR binary expression from stdin and print its Dhall source",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := binary.DecodeAsCbor(os.Stdin)
			if err != nil {
				if explain {
					if e, ok := err.(explainer); ok {
						cmd.PrintErrln(e.Explain())
					}
				}
				return err
			}
			cmd.Println(core.Print(expr))
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print a longer explanation of any decode error")
	return cmd
}
