//go:build windows

package path

import (
	"fmt"
	"os"
)

// Shell names with their own syntax
const (
	ShellPowerShell = "powershell"
	ShellCmd        = "cmd"
)

// DetectShell returns "powershell" or "cmd" on Windows
func DetectShell() string {
	// Check if running in PowerShell
	if os.Getenv("PSModulePath") != "" {
		return ShellPowerShell
	}
	return ShellCmd
}

// ShellConfigFile returns the PowerShell profile, or "" for cmd
func ShellConfigFile(shell string) string {
	if shell == ShellPowerShell {
		return os.Getenv("PROFILE")
	}
	return ""
}

// ExportLine returns the command that puts dir first on PATH in shell
func ExportLine(shell, dir string) string {
	if shell == ShellPowerShell {
		return fmt.Sprintf("$env:Path = \"%s;\" + $env:Path", dir)
	}
	return fmt.Sprintf("set PATH=%s;%%PATH%%", dir)
}

// SetupHint returns the file to edit and the line to add so dir is on PATH
func SetupHint(dir string) (configFile, line string) {
	shell := DetectShell()
	return ShellConfigFile(shell), ExportLine(shell, dir)
}
