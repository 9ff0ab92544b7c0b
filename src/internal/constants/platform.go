// Package constants defines common constants used across bvm
package constants

import "runtime"

// Operating systems (Go GOOS values)
const (
	OSWindows = "windows"
	OSDarwin  = "darwin"
	OSLinux   = "linux"
)

// CPU architectures (Go GOARCH values)
const (
	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// File extensions
const (
	ExtExe = ".exe"
)

// ToolName is the name of this program
const ToolName = "bvm"

// ManagedName is the name of the managed executable, without platform extension
const ManagedName = "bun"

// UserAgent is sent with every outbound HTTP request
const UserAgent = "bvm (Bun Version Manager)"

// ExecutableName returns the managed executable's file name for goos
func ExecutableName(goos string) string {
	if goos == OSWindows {
		return ManagedName + ExtExe
	}
	return ManagedName
}

// HostExecutableName returns the managed executable's file name on this host
func HostExecutableName() string {
	return ExecutableName(runtime.GOOS)
}
