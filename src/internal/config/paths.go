// Package config holds the bvm directory layout, user settings and project file lookup
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/bvm-cli/bvm/src/internal/constants"
)

// RootEnvVar overrides the bvm root directory
const RootEnvVar = "BVM_DIR"

// Paths holds all important bvm directory paths
type Paths struct {
	Root     string // Root bvm directory (~/.bvm)
	Versions string // Installed versions (~/.bvm/versions)
	Bin      string // Active pointer directory (~/.bvm/bin)
	Alias    string // One file per alias (~/.bvm/alias)
	Cache    string // Downloaded archives (~/.bvm/cache)
}

// NewPaths builds the layout under root. A relative root is made absolute
// against the working directory.
func NewPaths(root string) *Paths {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Paths{
		Root:     root,
		Versions: filepath.Join(root, "versions"),
		Bin:      filepath.Join(root, "bin"),
		Alias:    filepath.Join(root, "alias"),
		Cache:    filepath.Join(root, "cache"),
	}
}

// DefaultRoot returns $BVM_DIR, or ~/.bvm when it is unset
func DefaultRoot() string {
	if root := os.Getenv(RootEnvVar); root != "" {
		return root
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return ".bvm"
	}

	return filepath.Join(home, ".bvm")
}

// ActiveLink returns the path of the active pointer
func (p *Paths) ActiveLink() string {
	return filepath.Join(p.Bin, constants.ExecutableName(runtime.GOOS))
}

// ConfigFile returns the optional settings file under the root
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.Root, SettingsFileName)
}
