// Package main is the entry point for the pubcfg CLI.
package main

import (
	"fmt"
	"os"

	"github.com/donaldgifford/pubcfg/cmd"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersionInfo(version, commit)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
