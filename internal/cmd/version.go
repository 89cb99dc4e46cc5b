package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hookwarden/hookwarden/internal/constants"
	"github.com/urfave/cli/v3"
)

// VersionInfo holds build-time version information, injected via
// ldflags from main.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewVersionCmd creates the version command.
func NewVersionCmd(info VersionInfo) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Printf("%s version %s\n", constants.BinaryName, info.Version)
			fmt.Printf("commit: %s\n", info.Commit)
			fmt.Printf("date: %s\n", info.Date)
			fmt.Printf("go: %s\n", runtime.Version())
			return nil
		},
	}
}
