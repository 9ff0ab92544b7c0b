// Package version canonicalizes and orders Bun version strings.
package version

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Marker is the leading character of every canonical version
const Marker = "v"

// TagPrefix is the prefix Bun puts on its release tags (bun-v1.1.0)
const TagPrefix = "bun-"

// Normalize returns the canonical form of s. It strips the release-tag prefix
// and ensures a single leading marker. It never fails; whether the result is
// a usable version is decided by IsValid.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, TagPrefix)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, Marker) {
		s = Marker + s
	}
	return s
}

// Parse normalizes s and parses it as a strict major.minor.patch version
func Parse(s string) (*semver.Version, error) {
	return semver.StrictNewVersion(strings.TrimPrefix(Normalize(s), Marker))
}

// IsValid reports whether s is a complete semantic version once normalized
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Canonical returns Normalize(s) and whether the result is a valid version
func Canonical(s string) (string, bool) {
	n := Normalize(s)
	return n, IsValid(n)
}

// IsPrerelease reports whether s carries a prerelease segment or is a canary build
func IsPrerelease(s string) bool {
	if strings.Contains(strings.ToLower(s), "canary") {
		return true
	}
	v, err := Parse(s)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

// Compare orders two version strings by semantic precedence. Invalid strings
// sort below valid ones and compare lexically among themselves.
func Compare(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// SortDescending sorts versions in place, highest first
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}

// FilterValid normalizes every entry, drops invalid ones and duplicates, and
// returns the result sorted highest first.
func FilterValid(versions []string) []string {
	seen := make(map[string]bool, len(versions))
	result := make([]string, 0, len(versions))
	for _, raw := range versions {
		v, ok := Canonical(raw)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	SortDescending(result)
	return result
}

// Stable returns the entries of versions that are not prereleases, preserving order
func Stable(versions []string) []string {
	result := make([]string, 0, len(versions))
	for _, v := range versions {
		if !IsPrerelease(v) {
			result = append(result, v)
		}
	}
	return result
}

// Highest returns the highest valid version in versions
func Highest(versions []string) (string, bool) {
	best := ""
	for _, v := range versions {
		if !IsValid(v) {
			continue
		}
		if best == "" || Compare(v, best) > 0 {
			best = v
		}
	}
	return best, best != ""
}
