// Package resolve maps version specifiers to concrete versions.
//
// Resolution is a pure read: it consults the active pointer and the alias
// store but never mutates either. Not finding a match is reported through the
// ok return, not as an error.
package resolve

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/bvm-cli/bvm/src/internal/version"
)

// Reserved specifiers
const (
	Current = "current"
	Latest  = "latest"
)

// ActiveReader reports the version the active pointer targets
type ActiveReader interface {
	Current() (string, bool, error)
}

// AliasReader looks up alias targets
type AliasReader interface {
	Get(name string) (string, bool, error)
}

// Resolver resolves specifiers against a candidate list
type Resolver struct {
	active  ActiveReader
	aliases AliasReader
}

// New creates a Resolver. Either reader may be nil, in which case the
// corresponding rule never matches.
func New(active ActiveReader, aliases AliasReader) *Resolver {
	return &Resolver{active: active, aliases: aliases}
}

// IsReserved reports whether name is one of the reserved specifiers.
// Keywords match case-insensitively.
func IsReserved(name string) bool {
	return keyword(name) != ""
}

// IsCurrent reports whether spec names the active version
func IsCurrent(spec string) bool {
	return keyword(spec) == Current
}

// keyword returns the reserved specifier spec spells, or ""
func keyword(spec string) string {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case Current:
		return Current
	case Latest:
		return Latest
	}
	return ""
}

// Resolve returns the version spec refers to. Rules are tried in order:
// current, latest, alias, exact, then fuzzy range; the first match wins.
// candidates need not be sorted or canonical.
func (r *Resolver) Resolve(spec string, candidates []string) (string, bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", false, nil
	}
	cands := version.FilterValid(candidates)

	switch keyword(spec) {
	case Current:
		return r.current()
	case Latest:
		v, ok := version.Highest(cands)
		return v, ok, nil
	}

	if v, ok, err := r.alias(spec); err != nil || ok {
		return v, ok, err
	}

	if v, ok := exact(spec, cands); ok {
		return v, true, nil
	}

	v, ok := fuzzy(spec, cands)
	return v, ok, nil
}

// Pin resolves spec without any candidate list. It succeeds for "current",
// alias names and complete versions; "latest" and partial versions need
// candidates and are never pinned.
func (r *Resolver) Pin(spec string) (string, bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", false, nil
	}
	switch keyword(spec) {
	case Current:
		return r.current()
	case Latest:
		return "", false, nil
	}

	if v, ok, err := r.alias(spec); err != nil || ok {
		return v, ok && version.IsValid(v), err
	}

	if v, ok := version.Canonical(spec); ok {
		return v, true, nil
	}
	return "", false, nil
}

func (r *Resolver) current() (string, bool, error) {
	if r.active == nil {
		return "", false, nil
	}
	return r.active.Current()
}

// alias dereferences one level. Targets are not checked for existence.
func (r *Resolver) alias(name string) (string, bool, error) {
	if r.aliases == nil {
		return "", false, nil
	}
	target, ok, err := r.aliases.Get(name)
	if err != nil || !ok {
		return "", false, err
	}
	ui.Debug("Alias %s -> %s", name, target)
	return version.Normalize(target), true, nil
}

func exact(spec string, candidates []string) (string, bool) {
	want, err := version.Parse(spec)
	if err != nil {
		return "", false
	}
	for _, c := range candidates {
		if v, err := version.Parse(c); err == nil && v.Equal(want) && v.Metadata() == want.Metadata() {
			return c, true
		}
	}
	return "", false
}

// fuzzy returns the highest candidate satisfying the range spec describes.
// Prerelease candidates only match when the range itself names a prerelease.
func fuzzy(spec string, candidates []string) (string, bool) {
	rangeSpec, ok := RangeFor(spec)
	if !ok {
		return "", false
	}

	constraint, err := semver.NewConstraint(rangeSpec)
	if err != nil {
		ui.Debug("Invalid version range %q: %v", rangeSpec, err)
		return "", false
	}

	// candidates are sorted highest first
	for _, c := range candidates {
		v, err := version.Parse(c)
		if err != nil {
			continue
		}
		if constraint.Check(v) {
			return c, true
		}
	}
	return "", false
}

// RangeFor turns a specifier into a range expression. Partial versions
// (1, 1.2) become tilde ranges, explicit ranges and wildcards pass through,
// and complete versions have no range: they only ever match exactly.
func RangeFor(spec string) (string, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(spec), version.TagPrefix)
	if s == "" {
		return "", false
	}

	if strings.ContainsAny(s, "<>=~^ |") {
		return s, true
	}

	s = strings.TrimPrefix(s, version.Marker)
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "x" || p == "X" || p == "*" {
			return s, true
		}
	}

	if len(parts) >= 3 {
		return "", false
	}
	return "~" + s, true
}
