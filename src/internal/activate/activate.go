// Package activate manages the active pointer: a symlink at <root>/bin/bun
// targeting one installed executable.
package activate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/bvm-cli/bvm/src/internal/version"
)

var tmpCounter uint64

// Activator is the only writer of the active pointer
type Activator struct {
	link        string
	versionsDir string
	executable  string
}

// New creates an Activator for the pointer at link. Targets live at
// <versionsDir>/<version>/<executable>. Relative paths are made absolute so
// the link target does not depend on the directory holding the link.
func New(link, versionsDir, executable string) *Activator {
	return &Activator{link: absPath(link), versionsDir: absPath(versionsDir), executable: executable}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Link returns the path of the active pointer
func (a *Activator) Link() string {
	return a.link
}

func (a *Activator) targetFor(v string) string {
	return filepath.Join(a.versionsDir, version.Normalize(v), a.executable)
}

// Activate points the active pointer at v. The new link is created under a
// temporary name and renamed over the old one, so the pointer is never
// missing. Activating the current version again is a no-op.
func (a *Activator) Activate(v string) error {
	target := a.targetFor(v)
	if _, err := os.Stat(target); err != nil {
		return apperr.Fatal("activating "+version.Normalize(v), fmt.Errorf("executable missing: %w", err))
	}

	if current, err := os.Readlink(a.link); err == nil && current == target {
		ui.Debug("%s already active", v)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(a.link), 0755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	tmp := fmt.Sprintf("%s.tmp-%d-%d-%d", a.link, os.Getpid(), time.Now().UnixNano(), atomic.AddUint64(&tmpCounter, 1))
	if err := os.Symlink(target, tmp); err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	if err := os.Rename(tmp, a.link); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace active link: %w", err)
	}

	ui.Debug("Linked %s -> %s", a.link, target)
	return nil
}

// Deactivate removes the active pointer. It reports whether one existed.
func (a *Activator) Deactivate() (bool, error) {
	err := os.Remove(a.link)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to remove active link: %w", err)
	}
	return true, nil
}

// Target returns the executable the pointer resolves to. A missing link,
// a regular file in its place, or a dangling link all count as absent.
func (a *Activator) Target() (string, bool, error) {
	target, err := os.Readlink(a.link)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.EINVAL) {
			return "", false, nil
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			// Not a symlink on platforms that do not report EINVAL
			if info, statErr := os.Lstat(a.link); statErr == nil && info.Mode()&os.ModeSymlink == 0 {
				return "", false, nil
			}
		}
		return "", false, fmt.Errorf("failed to read active link: %w", err)
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(a.link), target)
	}
	if _, err := os.Stat(target); err != nil {
		ui.Debug("Active link %s is dangling: %v", a.link, err)
		return "", false, nil
	}
	return target, true, nil
}

// Current returns the active version, read from the name of the directory
// holding the link target.
func (a *Activator) Current() (string, bool, error) {
	target, ok, err := a.Target()
	if err != nil || !ok {
		return "", false, err
	}

	v, valid := version.Canonical(filepath.Base(filepath.Dir(target)))
	if !valid {
		return "", false, nil
	}
	return v, true, nil
}
