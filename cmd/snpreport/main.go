// Package main is a binary wrapper package around cmd.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/google/go-snp-tools/cmd"
)

// GoReleaser will populates those fields
// https://goreleaser.com/cookbooks/using-main.version/
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	sevGuestVersion = "unknown"
	sevGuest        = "github.com/google/go-sev-guest"
)

func main() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == sevGuest {
				sevGuestVersion = dep.Version
			}
		}
	}

	cmd.RootCmd.Version = fmt.Sprintf("%s, commit %s, built at %s\n- go-sev-guest version %s",
		version, commit, date, sevGuestVersion)

	if cmd.RootCmd.Execute() != nil {
		os.Exit(1)
	}
}
