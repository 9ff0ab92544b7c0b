//go:build windows

package store

import "os"

// isExecutable reports whether path is a regular file; Windows has no execute bit
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
