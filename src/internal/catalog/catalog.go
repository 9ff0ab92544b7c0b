package catalog

import (
	"context"
	"net/http"

	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/bvm-cli/bvm/src/internal/version"
)

// Catalog is the remote half of version listing
type Catalog struct {
	chain *Chain
}

// New creates a Catalog over chain
func New(chain *Chain) *Catalog {
	return &Catalog{chain: chain}
}

// NewFromSettings builds the default chain: npm registries (mirror first when
// the timezone suggests it), then the git tag listing.
func NewFromSettings(settings *config.Settings, client *http.Client) *Catalog {
	tz := DetectTimezone(settings.Timezone)
	biased := IsLocaleBiased(tz)
	ui.Debug("Timezone %q, mirror first: %v", tz, biased)

	var sources []TimedSource
	for _, url := range RegistryOrder(settings.Registries, settings.MirrorRegistry, biased) {
		sources = append(sources, WithTimeout(NewRegistrySourceWithClient(url, client), settings.SourceTimeout))
	}
	if settings.GitURL != "" {
		sources = append(sources, WithTimeout(NewGitTagSource(settings.GitURL), settings.GitTimeout))
	}

	return New(NewChain(sources...))
}

// RegistryOrder places mirror before or after registries. Duplicates are dropped.
func RegistryOrder(registries []string, mirror string, mirrorFirst bool) []string {
	var ordered []string
	if mirrorFirst && mirror != "" {
		ordered = append(ordered, mirror)
	}
	ordered = append(ordered, registries...)
	if !mirrorFirst && mirror != "" {
		ordered = append(ordered, mirror)
	}

	seen := make(map[string]bool, len(ordered))
	result := ordered[:0]
	for _, url := range ordered {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		result = append(result, url)
	}
	return result
}

// SourceNames lists the sources in attempt order
func (c *Catalog) SourceNames() []string {
	return c.chain.Names()
}

// RemoteAll returns every published version, prereleases included, highest first
func (c *Catalog) RemoteAll(ctx context.Context) ([]string, error) {
	result, err := c.chain.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	ui.Debug("Got %d versions from %s", len(result.Versions), result.Source)
	return result.Versions, nil
}

// Remote returns published release versions, highest first. Prereleases and
// canary builds are excluded.
func (c *Catalog) Remote(ctx context.Context) ([]string, error) {
	all, err := c.RemoteAll(ctx)
	if err != nil {
		return nil, err
	}
	return version.Stable(all), nil
}
