// Package process runs commands with a version directory in front of PATH.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bvm-cli/bvm/src/internal/constants"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// ExitError carries a child's non-zero exit status up to the process exit
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the child's exit status
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Command describes a child process
type Command struct {
	Name string
	Args []string
	// PrependPath is placed first on the child's PATH
	PrependPath string
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// Run starts the command, waits for it and maps a non-zero exit to *ExitError
func Run(ctx context.Context, c Command) error {
	env := Environ(os.Environ(), c.PrependPath)

	execPath, err := LookPath(c.Name, pathFrom(env))
	if err != nil {
		return err
	}
	ui.Debug("Running %s %s", execPath, strings.Join(c.Args, " "))

	cmd := exec.CommandContext(ctx, execPath, c.Args...)
	cmd.Env = env
	cmd.Stdin = orDefault(c.Stdin, os.Stdin)
	cmd.Stdout = orDefaultWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orDefaultWriter(c.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		// Command ran but returned non-zero: propagate its exit code
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to execute %s: %w", c.Name, err)
	}
	return nil
}

// Environ returns base with dir prepended to PATH. The PATH key is matched
// case-insensitively on Windows.
func Environ(base []string, dir string) []string {
	env := make([]string, 0, len(base)+1)
	found := false
	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if ok && isPathKey(key) {
			found = true
			if dir != "" {
				if value == "" {
					kv = key + "=" + dir
				} else {
					kv = key + "=" + dir + string(os.PathListSeparator) + value
				}
			}
		}
		env = append(env, kv)
	}
	if !found && dir != "" {
		env = append(env, "PATH="+dir)
	}
	return env
}

func isPathKey(key string) bool {
	if runtime.GOOS == constants.OSWindows {
		return strings.EqualFold(key, "PATH")
	}
	return key == "PATH"
}

func pathFrom(env []string) string {
	for _, kv := range env {
		if key, value, ok := strings.Cut(kv, "="); ok && isPathKey(key) {
			return value
		}
	}
	return ""
}

// LookPath finds name in the directories of pathList. Names containing a
// path separator are used as they are.
func LookPath(name, pathList string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		if isRunnable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates(filepath.Join(dir, name)) {
			if isRunnable(candidate) {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}

func candidates(base string) []string {
	if runtime.GOOS != constants.OSWindows || filepath.Ext(base) != "" {
		return []string{base}
	}
	// Windows: try .exe, .cmd, .bat extensions
	return []string{base + ".exe", base + ".cmd", base + ".bat"}
}

func isRunnable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == constants.OSWindows {
		return true
	}
	return info.Mode()&0111 != 0
}

func orDefault(r, def io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return def
}

func orDefaultWriter(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}
