package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/core"
	"github.com/hookwarden/hookwarden/internal/session"
	"github.com/urfave/cli/v3"
)

func sessionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "session",
		Usage: "Operate on the given session id instead of the resolved one",
	}
}

// newController builds the session control resolver for the current
// invocation: effective configuration for the configured-name set, the
// registry for the known-name set.
func newController(cmd *cli.Command) (*session.Controller, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	eff, err := config.LoadEffective(root)
	if err != nil {
		return nil, err
	}
	id := cmd.String("session")
	if id == "" {
		id = session.ResolveID(root)
	}
	store := session.NewStore(config.SessionsDir())
	return session.NewController(store, id, eff.ConfiguredNames(), core.GetHookKeys()), nil
}

// NewDisableCmd creates the disable command.
func NewDisableCmd() *cli.Command {
	return &cli.Command{
		Name:      "disable",
		Usage:     "Disable a hook for the current session",
		ArgsUsage: "<hook-name>",
		Description: `Disable a hook for this session only. Partial names resolve when
unambiguous; shared project and global configuration is never touched.`,
		Flags: []cli.Flag{sessionFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			return mutateSession(cmd, "disable")
		},
	}
}

// NewEnableCmd creates the enable command.
func NewEnableCmd() *cli.Command {
	return &cli.Command{
		Name:        "enable",
		Usage:       "Re-enable a session-disabled hook",
		ArgsUsage:   "<hook-name>",
		Description: `Remove a hook from this session's disabled set.`,
		Flags:       []cli.Flag{sessionFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			return mutateSession(cmd, "enable")
		},
	}
}

func mutateSession(cmd *cli.Command, op string) error {
	args := cmd.Args().Slice()
	if len(args) != 1 {
		return fmt.Errorf("exactly one argument required: <hook-name>")
	}
	ctl, err := newController(cmd)
	if err != nil {
		return err
	}

	var resolved string
	var changed bool
	if op == "disable" {
		resolved, changed, err = ctl.Disable(args[0])
	} else {
		resolved, changed, err = ctl.Enable(args[0])
	}
	if err != nil {
		return err
	}

	if changed {
		fmt.Printf("Hook %q %sd for session %s\n", resolved, op, ctl.SessionID())
	} else {
		fmt.Printf("Hook %q was already %sd for session %s\n", resolved, op, ctl.SessionID())
	}
	return nil
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show session-scoped hook status",
		ArgsUsage: "[hook-name]",
		Description: `With a name, show the 4-state status (enabled, disabled,
not-configured, not-found) of that hook in the current session. Without one,
list every registered hook with its status.`,
		Flags: []cli.Flag{sessionFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			ctl, err := newController(cmd)
			if err != nil {
				return err
			}

			args := cmd.Args().Slice()
			if len(args) > 1 {
				return fmt.Errorf("at most one argument allowed: [hook-name]")
			}
			if len(args) == 1 {
				status, resolved, err := ctl.Status(args[0])
				if err != nil {
					return err
				}
				if resolved == "" {
					resolved = args[0]
				}
				fmt.Printf("%s: %s\n", resolved, status)
				return nil
			}

			fmt.Printf("Session %s:\n", ctl.SessionID())
			for _, key := range core.GetHookKeys() {
				status, err := ctl.StatusExact(key)
				if err != nil {
					return err
				}
				fmt.Printf("  %-16s %s\n", key, status)
			}
			return nil
		},
	}
}
