package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hookwarden/hookwarden/internal/core"
	"github.com/urfave/cli/v3"
)

// NewListCmd creates the list command.
func NewListCmd() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List registered hooks",
		Description: `List every registered hook with its events, behavior flags, and options.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the registry as JSON",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			descriptors := core.AllDescriptors()

			if cmd.Bool("json") {
				type jsonOption struct {
					Name    string `json:"name"`
					Type    string `json:"type"`
					Default any    `json:"default,omitempty"`
					Usage   string `json:"usage,omitempty"`
				}
				type jsonHook struct {
					Key         string       `json:"key"`
					Name        string       `json:"name"`
					Description string       `json:"description"`
					Events      []string     `json:"events"`
					Flags       []string     `json:"flags,omitempty"`
					Options     []jsonOption `json:"options,omitempty"`
				}
				out := make([]jsonHook, 0, len(descriptors))
				for _, d := range descriptors {
					h := jsonHook{
						Key:         d.Key,
						Name:        d.Name,
						Description: d.Description,
						Events:      eventNames(d),
						Flags:       behaviorFlags(d),
					}
					for _, o := range d.Options {
						h.Options = append(h.Options, jsonOption{Name: o.Name, Type: o.Type, Default: o.Default, Usage: o.Usage})
					}
					out = append(out, h)
				}
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println("Registered hooks (dispatch order):")
			fmt.Println()
			for _, d := range descriptors {
				fmt.Printf("  %s - %s\n", d.Key, d.Description)
				fmt.Printf("      events: %s\n", strings.Join(eventNames(d), ", "))
				if flags := behaviorFlags(d); len(flags) > 0 {
					fmt.Printf("      flags: %s\n", strings.Join(flags, ", "))
				}
				for _, o := range d.Options {
					if o.Default != nil {
						fmt.Printf("      option %s (%s, default %v): %s\n", o.Name, o.Type, o.Default, o.Usage)
					} else {
						fmt.Printf("      option %s (%s): %s\n", o.Name, o.Type, o.Usage)
					}
				}
			}
			return nil
		},
	}
}

func eventNames(d core.Descriptor) []string {
	names := make([]string, len(d.Events))
	for i, e := range d.Events {
		names[i] = string(e)
	}
	return names
}

func behaviorFlags(d core.Descriptor) []string {
	var flags []string
	if d.Blocking {
		flags = append(flags, "blocking")
	}
	if d.AlwaysRun {
		flags = append(flags, "always-run")
	}
	if d.FailClosed {
		flags = append(flags, "fail-closed")
	}
	return flags
}
