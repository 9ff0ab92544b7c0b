// Package testutil holds fixtures shared by bvm's tests
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bvm-cli/bvm/src/internal/constants"
)

// FakeInstall creates versionsDir/v with a runnable bun stub that prints its
// version and arguments. It returns the stub's path.
func FakeInstall(t testing.TB, versionsDir, v string) string {
	t.Helper()
	dir := filepath.Join(versionsDir, v)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}

	exe := filepath.Join(dir, constants.HostExecutableName())
	if err := os.WriteFile(exe, StubScript(v), 0755); err != nil {
		t.Fatalf("failed to write %s: %v", exe, err)
	}
	return exe
}

// StubScript returns a shell script standing in for bun v
func StubScript(v string) []byte {
	return []byte("#!/bin/sh\necho \"bun " + v + " $*\"\n")
}

// SkipWithoutSymlinks skips tests that create symlinks where that needs privileges
func SkipWithoutSymlinks(t testing.TB) {
	t.Helper()
	if runtime.GOOS == constants.OSWindows {
		t.Skip("symlinks need elevated privileges on Windows")
	}
}
