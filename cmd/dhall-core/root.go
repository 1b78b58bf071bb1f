package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the dhall-core CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dhall-core",
		Short: "Parse, type-check, normalise, and hash Dhall expressions",
		Long: `dhall-core is a front-end over the Dhall core calculus: grammar
parsing, a bidirectional type-checker, a lazy normaliser, and the CBOR
binary encoding used for semantic hashing. It does not resolve imports;
every input must be self-contained.`,
	}

	cmd.AddCommand(newTypeCmd())
	cmd.AddCommand(newNormalizeCmd())
	cmd.AddCommand(newHashCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newDecodeCmd())

	return cmd
}
