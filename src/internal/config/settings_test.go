package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadSettingsDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv(RootEnvVar, root)

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.Root != root {
		t.Errorf("Root = %q, want %q", settings.Root, root)
	}
	if !reflect.DeepEqual(settings.Registries, []string{DefaultRegistry}) {
		t.Errorf("Registries = %v", settings.Registries)
	}
	if settings.MirrorRegistry != DefaultMirrorRegistry {
		t.Errorf("MirrorRegistry = %q", settings.MirrorRegistry)
	}
	if settings.GitURL != DefaultGitURL {
		t.Errorf("GitURL = %q", settings.GitURL)
	}
	if settings.SourceTimeout != 5*time.Second {
		t.Errorf("SourceTimeout = %s, want 5s", settings.SourceTimeout)
	}
	if settings.GitTimeout != 10*time.Second {
		t.Errorf("GitTimeout = %s, want 10s", settings.GitTimeout)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv(RootEnvVar, root)

	content := `registries:
  - https://registry.example.com/bun
git_url: https://git.example.com/bun.git
source_timeout: 2s
timezone: Europe/Berlin
`
	if err := os.WriteFile(filepath.Join(root, SettingsFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if !reflect.DeepEqual(settings.Registries, []string{"https://registry.example.com/bun"}) {
		t.Errorf("Registries = %v", settings.Registries)
	}
	if settings.GitURL != "https://git.example.com/bun.git" {
		t.Errorf("GitURL = %q", settings.GitURL)
	}
	if settings.SourceTimeout != 2*time.Second {
		t.Errorf("SourceTimeout = %s, want 2s", settings.SourceTimeout)
	}
	if settings.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", settings.Timezone)
	}
	// Untouched keys keep their defaults
	if settings.GitTimeout != 10*time.Second {
		t.Errorf("GitTimeout = %s, want 10s", settings.GitTimeout)
	}
}

func TestLoadSettingsEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv(RootEnvVar, root)

	if err := os.WriteFile(filepath.Join(root, SettingsFileName), []byte("git_url: https://file.example.com/bun.git\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BVM_GIT_URL", "https://env.example.com/bun.git")
	t.Setenv("BVM_REGISTRIES", "https://a.example.com/bun, https://b.example.com/bun")
	t.Setenv("BVM_VERBOSE", "true")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if settings.GitURL != "https://env.example.com/bun.git" {
		t.Errorf("GitURL = %q, env should win", settings.GitURL)
	}
	want := []string{"https://a.example.com/bun", "https://b.example.com/bun"}
	if !reflect.DeepEqual(settings.Registries, want) {
		t.Errorf("Registries = %v, want %v", settings.Registries, want)
	}
	if !settings.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestLoadSettingsRejectsBadTimeout(t *testing.T) {
	t.Setenv(RootEnvVar, t.TempDir())
	t.Setenv("BVM_SOURCE_TIMEOUT", "0s")

	if _, err := LoadSettings(); err == nil {
		t.Error("LoadSettings() should reject a zero source timeout")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"BVM_DIR":               "root",
		"BVM_GIT_URL":           "git_url",
		"BVM_MIRROR_REGISTRY":   "mirror_registry",
		"BVM_DOWNLOAD_BASE_URL": "download_base_url",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
