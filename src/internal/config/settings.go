package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// SettingsFileName is the optional YAML settings file under the root
const SettingsFileName = "config.yaml"

// EnvPrefix is the prefix of every environment variable bvm reads
const EnvPrefix = "BVM_"

// Default remote endpoints
const (
	DefaultRegistry        = "https://registry.npmjs.org/bun"
	DefaultMirrorRegistry  = "https://registry.npmmirror.com/bun"
	DefaultGitURL          = "https://github.com/oven-sh/bun.git"
	DefaultDownloadBaseURL = "https://github.com/oven-sh/bun/releases/download"
)

// Settings is the user-tunable configuration, threaded into every component
type Settings struct {
	Root            string        `koanf:"root"`
	Registries      []string      `koanf:"registries"`
	MirrorRegistry  string        `koanf:"mirror_registry"`
	GitURL          string        `koanf:"git_url"`
	DownloadBaseURL string        `koanf:"download_base_url"`
	SourceTimeout   time.Duration `koanf:"source_timeout"`
	GitTimeout      time.Duration `koanf:"git_timeout"`
	Timezone        string        `koanf:"timezone"`
	Verbose         bool          `koanf:"verbose"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() *Settings {
	return &Settings{
		Root:            DefaultRoot(),
		Registries:      []string{DefaultRegistry},
		MirrorRegistry:  DefaultMirrorRegistry,
		GitURL:          DefaultGitURL,
		DownloadBaseURL: DefaultDownloadBaseURL,
		SourceTimeout:   5 * time.Second,
		GitTimeout:      10 * time.Second,
	}
}

// Paths returns the directory layout for these settings
func (s *Settings) Paths() *Paths {
	return NewPaths(s.Root)
}

// LoadSettings layers defaults, <root>/config.yaml and BVM_* environment
// variables, in increasing priority.
func LoadSettings() (*Settings, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	defaults := DefaultSettings()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: settings file (optional)
	configPath := NewPaths(defaults.Root).ConfigFile()
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load settings file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitRegistries(k); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if settings.Root == "" {
		settings.Root = defaults.Root
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

// Validate checks the settings for values no component can work with
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Root) == "" {
		return fmt.Errorf("root directory is empty")
	}
	if s.SourceTimeout <= 0 {
		return fmt.Errorf("source_timeout must be positive, got %s", s.SourceTimeout)
	}
	if s.GitTimeout <= 0 {
		return fmt.Errorf("git_timeout must be positive, got %s", s.GitTimeout)
	}
	if s.DownloadBaseURL == "" {
		return fmt.Errorf("download_base_url is empty")
	}
	return nil
}

// splitRegistries turns a comma-separated BVM_REGISTRIES value into a list
func splitRegistries(k *koanf.Koanf) error {
	val, ok := k.Get("registries").(string)
	if !ok {
		return nil
	}

	var registries []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			registries = append(registries, part)
		}
	}

	if err := k.Set("registries", registries); err != nil {
		return fmt.Errorf("failed to set registries: %w", err)
	}
	return nil
}

// envTransformFunc maps BVM_* variables to settings keys.
//
// Examples:
//   - BVM_DIR -> root
//   - BVM_GIT_URL -> git_url
//   - BVM_SOURCE_TIMEOUT -> source_timeout
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "dir" {
		return "root"
	}
	return key
}
