// Package cmd builds the hookwarden command tree.
package cmd

import (
	"log/slog"
	"os"

	"github.com/hookwarden/hookwarden/internal/constants"
	"github.com/urfave/cli/v3"
)

// New assembles the root command with all subcommands.
func New(version VersionInfo) *cli.Command {
	return &cli.Command{
		Name:  constants.BinaryName,
		Usage: "Hook runtime for AI coding assistant lifecycle events",
		Description: `Hookwarden is invoked by the host assistant at lifecycle points
(PreToolUse, PostToolUse, UserPromptSubmit, SessionStart, Stop) with a JSON
event on stdin, and answers with an exit code and optional JSON on stdout.
It also manages per-session hook state and diagnoses configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug diagnostics on stderr",
			},
		},
		Commands: []*cli.Command{
			NewRunCmd(),
			NewEnableCmd(),
			NewDisableCmd(),
			NewStatusCmd(),
			NewListCmd(),
			NewSessionsCmd(),
			NewDoctorCmd(),
			NewVersionCmd(version),
		},
	}
}

// setupLogging routes framework diagnostics to stderr. Stdout belongs
// to the host protocol and must stay clean.
func setupLogging(cmd *cli.Command) {
	level := slog.LevelError
	if cmd.Bool("verbose") || os.Getenv(constants.EnvDebug) == "1" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
