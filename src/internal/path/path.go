// Package path inspects PATH and suggests how to put bvm's bin directory on it
package path

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bvm-cli/bvm/src/internal/constants"
)

// IsInPath checks if a directory is in the system PATH
func IsInPath(dir string) bool {
	return Contains(os.Getenv("PATH"), dir)
}

// Contains reports whether dir is one of the entries of pathList
func Contains(pathList, dir string) bool {
	dir = filepath.Clean(dir)
	for _, p := range filepath.SplitList(pathList) {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if p == dir || (runtime.GOOS == constants.OSWindows && strings.EqualFold(p, dir)) {
			return true
		}
	}
	return false
}
