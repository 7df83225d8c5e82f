// RomFerry - SFTP ROM browser and downloader
package main

import (
	"os"

	"github.com/romferry/romferry/internal/cli"
	"github.com/romferry/romferry/internal/version"
)

// Version information, overridable at build time:
//
//	go build -ldflags "-X main.Version=v1.2.0 -X main.BuildTime=2026-08-25"
var (
	Version   = "v1.2.0"
	BuildTime = "unknown"
)

func main() {
	// The version package is the canonical source for all packages;
	// the cli package keeps its own copy for the root help text.
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
