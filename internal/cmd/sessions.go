package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/session"
	"github.com/urfave/cli/v3"
)

// NewSessionsCmd creates the sessions command group.
func NewSessionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Inspect and prune stored session state",
		Commands: []*cli.Command{
			newSessionsListCmd(),
			newSessionsPruneCmd(),
		},
	}
}

func newSessionsListCmd() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List stored session files",
		Description: `Show every stored session with its age and disabled-hook count. Session state is never garbage-collected automatically; prune removes stale files.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			store := session.NewStore(config.SessionsDir())
			infos, err := store.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No stored sessions.")
				return nil
			}
			fmt.Printf("Sessions in %s:\n", store.Dir())
			for _, info := range infos {
				fmt.Printf("  %-40s  %-12s  %d disabled\n",
					info.ID, humanAge(time.Since(info.ModTime)), info.Disabled)
			}
			return nil
		},
	}
}

func newSessionsPruneCmd() *cli.Command {
	return &cli.Command{
		Name:        "prune",
		Usage:       "Delete session files older than a threshold",
		Description: `Remove session state not touched within --older-than. With --archive, each pruned file is first gzipped into the archive directory.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "older-than",
				Value: 720 * time.Hour,
				Usage: "Age threshold for pruning",
			},
			&cli.BoolFlag{
				Name:  "archive",
				Usage: "Gzip pruned files into the archive directory before removal",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			store := session.NewStore(config.SessionsDir())
			pruned, err := store.PruneOlderThan(cmd.Duration("older-than"), cmd.Bool("archive"))
			if err != nil {
				return err
			}
			if len(pruned) == 0 {
				fmt.Println("Nothing to prune.")
				return nil
			}
			for _, id := range pruned {
				fmt.Printf("Pruned session %s\n", id)
			}
			fmt.Printf("%d session(s) pruned.\n", len(pruned))
			if cmd.Bool("archive") {
				fmt.Printf("Archived copies in %s\n", config.SessionArchiveDir())
			}
			return nil
		},
	}
}

func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
