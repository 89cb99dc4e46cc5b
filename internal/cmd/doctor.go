package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hookwarden/hookwarden/internal/config"
	"github.com/hookwarden/hookwarden/internal/core"
	"github.com/hookwarden/hookwarden/internal/ignore"
	"github.com/hookwarden/hookwarden/internal/session"
	"github.com/urfave/cli/v3"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cli.Command {
	return &cli.Command{
		Name:        "doctor",
		Usage:       "Diagnose configuration, ignore files, and session state",
		Description: `Check that both configuration scopes parse, that ignore files parse, that the state directory is writable, and report the resolved session identity.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			setupLogging(cmd)
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			issues := 0
			issues += checkConfiguration(root)
			issues += checkIgnoreFiles(root)
			issues += checkJobs(root)
			issues += checkStateDir()
			fmt.Println()

			fmt.Printf("Resolved session id: %s\n", session.ResolveID(root))
			fmt.Println()
			if issues == 0 {
				fmt.Println("No issues found.")
				return nil
			}
			return fmt.Errorf("%d issue(s) found", issues)
		},
	}
}

func checkConfiguration(root string) int {
	fmt.Println("Configuration")
	eff, err := config.LoadEffective(root)
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		return 1
	}
	if len(eff.Sources) == 0 {
		fmt.Println("  - no configuration file in either scope; only explicitly named hooks will run")
		return 0
	}
	for _, src := range eff.Sources {
		fmt.Printf("  ✓ %s\n", src)
	}

	issues := 0
	registered := core.GetHookKeys()
	for _, name := range eff.ConfiguredNames() {
		known := false
		for _, key := range registered {
			if key == name {
				known = true
				break
			}
		}
		if !known {
			// Tolerated at dispatch (version skew); worth a note here.
			fmt.Printf("  - hook %q is configured but not registered in this binary\n", name)
		}
	}
	return issues
}

func checkIgnoreFiles(root string) int {
	fmt.Println("Ignore files")
	present := false
	for _, name := range ignore.RecognizedFiles {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			present = true
			fmt.Printf("  ✓ %s\n", name)
		}
	}
	if !present {
		fmt.Println("  - none present; the built-in default set protects common secret files")
	}
	set, err := ignore.LoadProject(root)
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		return 1
	}
	fmt.Printf("  %d rule(s) from %s\n", set.Len(), strings.Join(set.Sources(), ", "))
	return 0
}

func checkJobs(root string) int {
	fmt.Println("Custom jobs")
	jobs, err := config.LoadJobs(root)
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		return 1
	}
	if len(jobs) == 0 {
		fmt.Println("  - no jobs file")
		return 0
	}
	if err := config.ValidateJobs(jobs); err != nil {
		fmt.Printf("  ✗ %v\n", err)
		return 1
	}
	for event, list := range jobs {
		fmt.Printf("  ✓ %s: %d job(s)\n", event, len(list))
	}
	return 0
}

func checkStateDir() int {
	fmt.Println("Session state")
	if err := config.EnsureStateDirs(); err != nil {
		fmt.Printf("  ✗ %v\n", err)
		return 1
	}
	probe, err := os.CreateTemp(config.SessionsDir(), ".doctor-*")
	if err != nil {
		fmt.Printf("  ✗ state directory not writable: %v\n", err)
		return 1
	}
	probe.Close()
	os.Remove(probe.Name())
	fmt.Printf("  ✓ %s is writable\n", config.SessionsDir())
	return 0
}
