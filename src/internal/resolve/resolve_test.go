package resolve

import (
	"errors"
	"testing"
)

type fakeActive struct {
	version string
	err     error
}

func (f fakeActive) Current() (string, bool, error) {
	return f.version, f.version != "", f.err
}

type fakeAliases map[string]string

func (f fakeAliases) Get(name string) (string, bool, error) {
	v, ok := f[name]
	return v, ok, nil
}

func TestResolve(t *testing.T) {
	installed := []string{"v1.2.3", "v1.2.23", "v1.3.0", "v1.3.4-beta.1", "v0.8.1"}
	resolver := New(fakeActive{version: "v1.2.3"}, fakeAliases{
		"default": "1.3.0",
		"prod":    "bun-v1.0.0",
		"chain":   "default",
	})

	tests := []struct {
		name   string
		spec   string
		want   string
		wantOK bool
	}{
		{"current", "current", "v1.2.3", true},
		{"latest", "latest", "v1.3.4-beta.1", true},
		{"latest any case", "LATEST", "v1.3.4-beta.1", true},
		{"current any case", "Current", "v1.2.3", true},
		{"alias", "default", "v1.3.0", true},
		{"alias to missing version is returned unverified", "prod", "v1.0.0", true},
		{"alias does not chain", "chain", "vdefault", true},
		{"exact with marker", "v1.2.23", "v1.2.23", true},
		{"exact without marker", "1.3.0", "v1.3.0", true},
		{"exact with tag prefix", "bun-v0.8.1", "v0.8.1", true},
		{"exact prerelease", "1.3.4-beta.1", "v1.3.4-beta.1", true},
		{"fuzzy major.minor picks highest", "1.2", "v1.2.23", true},
		{"fuzzy major excludes prerelease", "1", "v1.3.0", true},
		{"fuzzy with marker", "v1.3", "v1.3.0", true},
		{"wildcard", "1.2.x", "v1.2.23", true},
		{"explicit range", ">=1.2.4 <1.3.0", "v1.2.23", true},
		{"caret range", "^0.8", "v0.8.1", true},
		{"complete version is never fuzzy", "1.2.4", "", false},
		{"no match", "99.x", "", false},
		{"garbage", "not-a-version", "", false},
		{"empty", "", "", false},
		{"whitespace trimmed", "  1.2  ", "v1.2.23", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := resolver.Resolve(tt.spec, installed)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.spec, err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve(%q) = %q, %v, want %q, %v", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveLatestFromInstalled(t *testing.T) {
	got, ok, err := New(nil, nil).Resolve("latest", []string{"v1.0.0", "v1.2.23", "v1.3.4"})
	if err != nil || !ok || got != "v1.3.4" {
		t.Errorf("Resolve(latest) = %q, %v, %v, want v1.3.4", got, ok, err)
	}
}

func TestResolveFuzzyTieBreak(t *testing.T) {
	got, ok, _ := New(nil, nil).Resolve("1.2", []string{"v1.2.3", "v1.2.23", "v1.3.0"})
	if !ok || got != "v1.2.23" {
		t.Errorf("Resolve(1.2) = %q, %v, want v1.2.23", got, ok)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	resolver := New(nil, fakeAliases{})
	candidates := []string{"1.0.0", "v1.0.1", "bun-v1.0.2", "v1.0.2"}

	first, _, _ := resolver.Resolve("1.0", candidates)
	for i := 0; i < 10; i++ {
		got, _, _ := resolver.Resolve("1.0", candidates)
		if got != first {
			t.Fatalf("Resolve() returned %q then %q", first, got)
		}
	}
	if first != "v1.0.2" {
		t.Errorf("Resolve(1.0) = %q, want v1.0.2", first)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	resolver := New(fakeActive{}, fakeAliases{})
	for _, spec := range []string{"current", "latest", "1.0", "1.0.0"} {
		if got, ok, err := resolver.Resolve(spec, nil); ok || err != nil {
			t.Errorf("Resolve(%q, nil) = %q, %v, %v, want not found", spec, got, ok, err)
		}
	}
}

func TestResolvePropagatesActiveErrors(t *testing.T) {
	boom := errors.New("permission denied")
	_, _, err := New(fakeActive{err: boom}, nil).Resolve("current", nil)
	if !errors.Is(err, boom) {
		t.Errorf("Resolve(current) error = %v, want %v", err, boom)
	}
}

func TestPin(t *testing.T) {
	resolver := New(fakeActive{version: "v1.1.0"}, fakeAliases{"default": "1.0.0", "odd": "stable"})

	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{"current", "v1.1.0", true},
		{"default", "v1.0.0", true},
		{"1.2.3", "v1.2.3", true},
		{"bun-v1.2.3", "v1.2.3", true},
		{"latest", "", false},
		{"Latest", "", false},
		{"CURRENT", "v1.1.0", true},
		{"1.2", "", false},
		{"", "", false},
		{"odd", "vstable", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok, err := resolver.Pin(tt.spec)
			if err != nil {
				t.Fatalf("Pin(%q) error = %v", tt.spec, err)
			}
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Pin(%q) = %q, %v, want %q, %v", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRangeFor(t *testing.T) {
	tests := []struct {
		spec   string
		want   string
		wantOK bool
	}{
		{"1", "~1", true},
		{"1.2", "~1.2", true},
		{"v1.2", "~1.2", true},
		{"bun-v1.2", "~1.2", true},
		{"1.2.x", "1.2.x", true},
		{"1.*", "1.*", true},
		{"^1.2.0", "^1.2.0", true},
		{">=1.0.0 <2.0.0", ">=1.0.0 <2.0.0", true},
		{"1.2.3", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, ok := RangeFor(tt.spec)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("RangeFor(%q) = %q, %v, want %q, %v", tt.spec, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"current", true},
		{"latest", true},
		{"LATEST", true},
		{" Current ", true},
		{"default", false},
		{"latest-1", false},
	}
	for _, tt := range tests {
		if got := IsReserved(tt.name); got != tt.want {
			t.Errorf("IsReserved(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
