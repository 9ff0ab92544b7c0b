package config

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ProjectFileName is the per-project version file
const ProjectFileName = ".bvmrc"

// ProjectVersion is a version specifier read from a project file
type ProjectVersion struct {
	Spec string // First non-empty line of the file
	Path string // File it was read from
}

// FindProjectVersion walks up from startDir looking for a .bvmrc file.
// It stops at a git repository root or the filesystem root. A file that
// exists but holds no specifier is skipped.
func FindProjectVersion(startDir string) (*ProjectVersion, bool, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, false, err
	}

	// Walk up the directory tree
	for {
		versionFile := filepath.Join(currentDir, ProjectFileName)
		spec, err := readProjectFile(versionFile)
		switch {
		case err == nil && spec != "":
			return &ProjectVersion{Spec: spec, Path: versionFile}, true, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return nil, false, err
		}

		// Check if this directory contains a .git directory (repository root)
		if _, err := os.Stat(filepath.Join(currentDir, ".git")); err == nil {
			break
		}

		// Move up one directory
		parent := filepath.Dir(currentDir)

		// Stop if we've reached the filesystem root
		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return nil, false, nil
}

// readProjectFile returns the first non-empty trimmed line of path
func readProjectFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", scanner.Err()
}
