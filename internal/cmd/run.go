package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/constants"
	"github.com/hookwarden/hookwarden/internal/core"
	"github.com/hookwarden/hookwarden/internal/session"
	"github.com/urfave/cli/v3"
)

// NewRunCmd creates the run command, the entry point the host invokes.
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Dispatch the stdin event through the configured hooks",
		ArgsUsage: "[hook-key ...]",
		Description: `Read one JSON event from stdin and run the hooks bound to it.
With hook keys as arguments, dispatch is restricted to those hooks; this lets
host settings bind individual hooks per event. Exit codes: 0 allow, 2 blocking
deny, 1 non-blocking error.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Usage:   "Append dispatch decisions to the rotating dispatch log",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: config.LoggingFormatJSONL,
				Usage: "Dispatch log format: jsonl or pretty",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			setupLogging(cmd)

			root, err := os.Getwd()
			if err != nil {
				return cli.Exit(fmt.Sprintf("%s: %v", constants.BinaryName, err), constants.ExitError)
			}

			only := cmd.Args().Slice()
			for _, key := range only {
				if _, ok := core.GetDescriptor(key); !ok {
					return cli.Exit(fmt.Sprintf("%s: hook %q not found; registered hooks: %s",
						constants.BinaryName, key, strings.Join(core.GetHookKeys(), ", ")), constants.ExitError)
				}
			}

			eff, err := config.LoadEffective(root)
			if err != nil {
				return cli.Exit(fmt.Sprintf("%s: %v", constants.BinaryName, err), constants.ExitError)
			}

			store := session.NewStore(config.SessionsDir())

			// Hooks created during this dispatch share the run's store
			// and the logger setupLogging configured.
			hctx := core.GlobalContext()
			hctx.Store = store
			hctx.Logger = slog.Default()
			core.SetGlobalContext(hctx)

			dispatcher := &core.Dispatcher{
				Config:    eff,
				Store:     store,
				SessionID: session.ResolveID(root),
				Root:      root,
				Only:      only,
			}

			if cmd.Bool("log") {
				format := cmd.String("log-format")
				if !config.IsValidLoggingFormat(format) {
					return cli.Exit(fmt.Sprintf("%s: invalid --log-format %q (valid: %s, %s)",
						constants.BinaryName, format, config.LoggingFormatJSONL, config.LoggingFormatPretty), constants.ExitError)
				}
				logPath := config.DispatchLogPath(root)
				writer, err := config.NewRotatingWriter(logPath, eff.Logging)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: dispatch log unavailable: %v\n", constants.BinaryName, err)
				} else {
					defer writer.Close()
					dispatcher.Log = core.NewDispatchLogger(writer, format)
					if err := config.CleanupOldLogs(filepath.Dir(logPath), eff.Logging.MaxAgeDays); err != nil {
						fmt.Fprintf(os.Stderr, "%s: log cleanup: %v\n", constants.BinaryName, err)
					}
				}
			}

			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("%s: reading event payload: %v", constants.BinaryName, err), constants.ExitError)
			}

			if code := dispatcher.Dispatch(ctx, raw); code != constants.ExitAllow {
				return cli.Exit("", code)
			}
			return nil
		},
	}
}
