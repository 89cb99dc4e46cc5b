package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hookwarden/hookwarden/internal/constants"
	"gopkg.in/yaml.v3"
)

// Job is one user-defined command bound to a lifecycle event through the
// jobs file. Run is executed through `bash -c` with the raw event JSON on
// stdin.
type Job struct {
	Name    string            `yaml:"name"`
	Run     string            `yaml:"run"`
	Glob    string            `yaml:"glob,omitempty"`    // filters by payload file path
	Timeout int               `yaml:"timeout,omitempty"` // seconds; 0 means the hook's own timeout
	Env     map[string]string `yaml:"env,omitempty"`
	Dir     string            `yaml:"dir,omitempty"` // working directory, default project root
}

// JobsConfig maps a lifecycle event name to the jobs that run on it.
type JobsConfig map[string][]Job

// JobsFilePath returns the jobs file location under baseDir.
func JobsFilePath(baseDir string) string {
	return filepath.Join(constants.GetAppDir(baseDir), constants.JobsFileName)
}

// LoadJobs merges the global jobs file with the project one. A project file
// that defines an event replaces the global job list for that event, so a
// project can both extend and silence global jobs.
func LoadJobs(root string) (JobsConfig, error) {
	merged := JobsConfig{}

	var paths []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, JobsFilePath(homeDir))
	}
	paths = append(paths, JobsFilePath(root))

	for _, path := range paths {
		cfg, err := loadJobsFile(path)
		if err != nil {
			return nil, err
		}
		for event, jobs := range cfg {
			merged[event] = jobs
		}
	}
	return merged, nil
}

func loadJobsFile(path string) (JobsConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- fixed app-directory locations
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading jobs file %s: %w", path, err)
	}
	var cfg JobsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing jobs file %s: %w", path, err)
	}
	return cfg, nil
}

// ValidateJobs checks structural soundness: every job needs a name and a run
// command, timeouts must not be negative, and globs must compile. Unknown
// event names are not errors; they simply never fire.
func ValidateJobs(cfg JobsConfig) error {
	for event, jobs := range cfg {
		seen := map[string]bool{}
		for i, j := range jobs {
			if j.Name == "" {
				return fmt.Errorf("event %q job[%d] missing name", event, i)
			}
			if seen[j.Name] {
				return fmt.Errorf("event %q has duplicate job name %q", event, j.Name)
			}
			seen[j.Name] = true
			if j.Run == "" {
				return fmt.Errorf("event %q job %q missing run command", event, j.Name)
			}
			if j.Timeout < 0 {
				return fmt.Errorf("event %q job %q has negative timeout", event, j.Name)
			}
			if j.Glob != "" {
				if _, err := filepath.Match(j.Glob, "probe"); err != nil {
					return fmt.Errorf("event %q job %q has invalid glob %q: %w", event, j.Name, j.Glob, err)
				}
			}
		}
	}
	return nil
}
