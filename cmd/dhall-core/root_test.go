package main

import "testing"

func TestRootCmdHasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()
	want := map[string]bool{"type": false, "normalize": false, "hash": false, "encode": false, "decode": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestTypeCmdReportsUnreadableInput(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"type", "-f", "/nonexistent/path.dhall"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for a nonexistent input file")
	}
}
