package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/hookwarden/hookwarden/internal/constants"
)

// State is the persisted record for one session: the hooks explicitly
// disabled for it, plus bookkeeping timestamps used for debouncing.
type State struct {
	DisabledHooks []string             `json:"disabledHooks,omitempty"`
	Timestamps    map[string]time.Time `json:"timestamps,omitempty"`
}

// IsDisabled reports whether the hook is disabled in this session.
func (s *State) IsDisabled(name string) bool {
	return slices.Contains(s.DisabledHooks, name)
}

// Disable adds the hook to the disabled set. Returns false when it was
// already disabled (idempotent).
func (s *State) Disable(name string) bool {
	if s.IsDisabled(name) {
		return false
	}
	s.DisabledHooks = append(s.DisabledHooks, name)
	sort.Strings(s.DisabledHooks)
	return true
}

// Enable removes the hook from the disabled set. Returns false when it was
// not disabled (idempotent).
func (s *State) Enable(name string) bool {
	idx := slices.Index(s.DisabledHooks, name)
	if idx < 0 {
		return false
	}
	s.DisabledHooks = slices.Delete(s.DisabledHooks, idx, idx+1)
	return true
}

// Timestamp returns the bookkeeping timestamp stored under key.
func (s *State) Timestamp(key string) (time.Time, bool) {
	t, ok := s.Timestamps[key]
	return t, ok
}

// SetTimestamp records a bookkeeping timestamp under key.
func (s *State) SetTimestamp(key string, t time.Time) {
	if s.Timestamps == nil {
		s.Timestamps = map[string]time.Time{}
	}
	s.Timestamps[key] = t
}

// Store persists one State file per session id under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir (normally config.SessionsDir()).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)

// Path returns the state file path for a session id.
func (s *Store) Path(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Load reads the session's state. A missing file yields an empty state, since
// state is created lazily on first disable.
func (s *Store) Load(id string) (*State, error) {
	path, err := s.Path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is validated and store-rooted
	if errors.Is(err, fs.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing session state %s: %w", path, err)
	}
	return &st, nil
}

// Save writes the session's state atomically: the content goes to a temp file
// in the same directory, is synced, then renamed over the final path, so a
// killed process never leaves a torn file.
func (s *Store) Save(id string, st *State) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session state: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing session state: %w", err)
	}
	return nil
}

// Info describes one stored session file.
type Info struct {
	ID       string
	Path     string
	ModTime  time.Time
	Disabled int
}

// List returns all stored sessions, newest first.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		st, err := s.Load(id)
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:       id,
			Path:     filepath.Join(s.dir, entry.Name()),
			ModTime:  fi.ModTime(),
			Disabled: len(st.DisabledHooks),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ModTime.After(infos[j].ModTime) })
	return infos, nil
}

// PruneOlderThan removes session files whose last modification is older than
// maxAge. With archive set, each pruned file is first gzipped into the
// archive directory so an operator can still inspect it.
func (s *Store) PruneOlderThan(maxAge time.Duration, archive bool) ([]string, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-maxAge)

	var pruned []string
	for _, info := range infos {
		if !info.ModTime.Before(cutoff) {
			continue
		}
		if archive {
			if err := s.archiveFile(info); err != nil {
				return pruned, err
			}
		}
		if err := os.Remove(info.Path); err != nil {
			return pruned, fmt.Errorf("removing session %s: %w", info.ID, err)
		}
		pruned = append(pruned, info.ID)
	}
	return pruned, nil
}

func (s *Store) archiveFile(info Info) error {
	archiveDir := filepath.Join(s.dir, constants.ArchiveDir)
	if err := os.MkdirAll(archiveDir, 0o750); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	src, err := os.Open(info.Path) // #nosec G304 -- store-rooted path from List
	if err != nil {
		return fmt.Errorf("opening session %s: %w", info.ID, err)
	}
	defer src.Close()

	dstPath := filepath.Join(archiveDir, info.ID+".json.gz")
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 -- archive path is internally constructed
	if err != nil {
		return fmt.Errorf("creating archive for %s: %w", info.ID, err)
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	gz.ModTime = info.ModTime
	if _, err := io.Copy(gz, src); err != nil {
		gz.Close()
		return fmt.Errorf("archiving session %s: %w", info.ID, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finishing archive for %s: %w", info.ID, err)
	}
	return nil
}
