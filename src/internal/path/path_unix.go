//go:build !windows

package path

import (
	"fmt"
	"os"
	"path/filepath"
)

// Shell names with their own syntax
const (
	ShellFish = "fish"
	ShellBash = "bash"
	ShellZsh  = "zsh"
)

// DetectShell returns the user's shell name (bash, zsh, fish, etc.)
func DetectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return "unknown"
	}

	// Extract just the shell name from the path
	return filepath.Base(shell)
}

// ShellConfigFile returns the config file path for the given shell
func ShellConfigFile(shell string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch shell {
	case ShellBash:
		// Prefer .bashrc if it exists, otherwise .bash_profile
		bashrc := filepath.Join(home, ".bashrc")
		if _, err := os.Stat(bashrc); err == nil {
			return bashrc
		}
		return filepath.Join(home, ".bash_profile")

	case ShellZsh:
		return filepath.Join(home, ".zshrc")

	case ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish")

	default:
		// Try .profile as a fallback
		return filepath.Join(home, ".profile")
	}
}

// ExportLine returns the line that puts dir first on PATH in shell
func ExportLine(shell, dir string) string {
	if shell == ShellFish {
		return fmt.Sprintf("set -gx PATH \"%s\" $PATH", dir)
	}
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", dir)
}

// SetupHint returns the file to edit and the line to add so dir is on PATH
func SetupHint(dir string) (configFile, line string) {
	shell := DetectShell()
	return ShellConfigFile(shell), ExportLine(shell, dir)
}
