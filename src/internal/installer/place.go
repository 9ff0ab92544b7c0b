package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// knownLayouts are the archive subdirectories release builds have used
var knownLayouts = []string{
	"bun-darwin-x64",
	"bun-darwin-aarch64",
	"bun-linux-x64",
	"bun-linux-aarch64",
	"bun",
}

// candidatePaths lists where an archive may hold the executable, most
// likely first. Directories named bun-* found in dir are appended.
func candidatePaths(dir, exe string) []string {
	candidates := []string{filepath.Join(dir, exe)}
	for _, layout := range knownLayouts {
		candidates = append(candidates, filepath.Join(dir, layout, exe))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return candidates
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "bun-") {
			candidates = append(candidates,
				filepath.Join(dir, entry.Name(), exe),
				filepath.Join(dir, entry.Name(), "bin", exe),
			)
		}
	}
	return candidates
}

func findExecutable(dir, exe string) (string, bool) {
	for _, candidate := range candidatePaths(dir, exe) {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

// placeExecutable moves the executable found in dir to dir/exe, removes the
// subdirectory it came from and marks it executable.
func placeExecutable(dir, exe string) error {
	found, ok := findExecutable(dir, exe)
	if !ok {
		return apperr.Fatal("placing", fmt.Errorf("%w: looked for %s under %s", ErrExecutableNotFound, exe, dir))
	}

	canonical := filepath.Join(dir, exe)
	if found != canonical {
		ui.Debug("Moving %s to %s", found, canonical)

		// Park the file first: its source directory may share the canonical name
		parked := filepath.Join(dir, ".placing-"+exe)
		if err := os.Rename(found, parked); err != nil {
			return err
		}

		parent := filepath.Dir(found)
		if isWithin(dir, parent) {
			if err := os.RemoveAll(parent); err != nil {
				return err
			}
		}

		if err := os.Rename(parked, canonical); err != nil {
			return err
		}
	}

	return os.Chmod(canonical, 0755)
}

// isWithin reports whether path is strictly inside dir
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && !filepath.IsAbs(rel)
}
