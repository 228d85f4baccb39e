package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/authkeeper/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cmd := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s)", Version, Commit))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
