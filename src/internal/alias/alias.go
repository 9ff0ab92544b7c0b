// Package alias stores named pointers to versions, one file per name.
package alias

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/resolve"
	"github.com/bvm-cli/bvm/src/internal/version"
)

// Default is the alias created for the first installed version
const Default = "default"

// Store owns the alias directory
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ValidateName rejects reserved names and names that cannot be a single file
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperr.Usage("alias name is empty")
	case resolve.IsReserved(name):
		return apperr.Usage("'%s' is a reserved name and cannot be used as an alias", name)
	case strings.HasPrefix(name, "."):
		return apperr.Usage("alias name '%s' cannot start with '.'", name)
	case strings.ContainsAny(name, `/\`) || name != filepath.Base(name):
		return apperr.Usage("alias name '%s' cannot contain path separators", name)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Set points name at v, replacing any previous target. Readers see either
// the old record or the new one, never a partial write.
func (s *Store) Set(name, v string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	v = version.Normalize(v)
	if v == "" {
		return apperr.Usage("alias '%s' needs a version", name)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create alias directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to write alias %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(v + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write alias %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write alias %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write alias %s: %w", name, err)
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("failed to write alias %s: %w", name, err)
	}
	return nil
}

// Get returns the version name points at. Unknown and invalid names are absent.
func (s *Store) Get(name string) (string, bool, error) {
	if ValidateName(name) != nil {
		return "", false, nil
	}

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		// A directory with the alias name is not an alias
		if info, statErr := os.Stat(s.path(name)); statErr == nil && info.IsDir() {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read alias %s: %w", name, err)
	}

	v := version.Normalize(string(data))
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// Remove deletes the alias, failing with NotFound if it does not exist
func (s *Store) Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return &apperr.Error{Kind: apperr.KindNotFound, Message: fmt.Sprintf("alias '%s' not found", name)}
	}
	if err != nil {
		return fmt.Errorf("failed to remove alias %s: %w", name, err)
	}
	return nil
}

// List returns every alias and its target
func (s *Store) List() (map[string]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}

	aliases := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		v, ok, err := s.Get(entry.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			aliases[entry.Name()] = v
		}
	}
	return aliases, nil
}
