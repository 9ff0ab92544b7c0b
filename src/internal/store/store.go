// Package store tracks the versions installed under the versions directory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/constants"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/bvm-cli/bvm/src/internal/version"
)

// ActiveReader reports which version the active pointer targets
type ActiveReader interface {
	Current() (string, bool, error)
}

// Store owns <root>/versions. A version is installed when its directory
// holds the executable; anything else in the directory is ignored.
type Store struct {
	dir        string
	executable string
	active     ActiveReader
}

// New creates a Store over dir. active guards Remove and may be nil.
func New(dir string, active ActiveReader) *Store {
	return &Store{
		dir:        dir,
		executable: constants.ExecutableName(runtime.GOOS),
		active:     active,
	}
}

// Dir returns the versions directory
func (s *Store) Dir() string {
	return s.dir
}

// ExecutableName returns the file name of the managed executable
func (s *Store) ExecutableName() string {
	return s.executable
}

// VersionDir returns the install directory of v
func (s *Store) VersionDir(v string) string {
	return filepath.Join(s.dir, version.Normalize(v))
}

// ExecutablePath returns where the executable of v lives once installed
func (s *Store) ExecutablePath(v string) string {
	return filepath.Join(s.VersionDir(v), s.executable)
}

// IsInstalled reports whether v has a complete installation
func (s *Store) IsInstalled(v string) bool {
	n, ok := version.Canonical(v)
	return ok && isExecutable(s.ExecutablePath(n))
}

// ListInstalled returns complete installations, highest first. Directories
// with invalid names or without an executable are skipped, not repaired.
func (s *Store) ListInstalled() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read versions directory: %w", err)
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !version.IsValid(name) || version.Normalize(name) != name {
			continue
		}
		if !isExecutable(filepath.Join(s.dir, name, s.executable)) {
			ui.Debug("Skipping incomplete installation %s", name)
			continue
		}
		versions = append(versions, name)
	}

	version.SortDescending(versions)
	return versions, nil
}

// Remove deletes the installation of v. The active version cannot be removed.
func (s *Store) Remove(v string) error {
	n := version.Normalize(v)
	if !s.IsInstalled(n) {
		return apperr.NotFound(v, s.installedOrNil())
	}

	if s.active != nil {
		current, ok, err := s.active.Current()
		if err != nil {
			return fmt.Errorf("failed to read active version: %w", err)
		}
		if ok && current == n {
			return apperr.Conflict("cannot uninstall %s: it is the active version; switch to another version or deactivate first", n)
		}
	}

	if err := os.RemoveAll(s.VersionDir(n)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", n, err)
	}
	return nil
}

func (s *Store) installedOrNil() []string {
	installed, err := s.ListInstalled()
	if err != nil {
		return nil
	}
	return installed
}
