package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hookwarden/hookwarden/internal/cmd"
	_ "github.com/hookwarden/hookwarden/internal/hooks" // register built-in hooks
)

// Populated via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := cmd.New(cmd.VersionInfo{Version: version, Commit: commit, Date: date})
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
