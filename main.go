/*
Copyright © 2025 The cirrus authors
*/
package main

import (
	"fmt"
	"os"

	"github.com/NEXN0/cirrus/internal/state"
	"github.com/NEXN0/cirrus/pkg/cmd/root"
)

func main() {
	s, err := state.NewState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer s.Close()

	cmd, err := root.NewCmdRoot(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
