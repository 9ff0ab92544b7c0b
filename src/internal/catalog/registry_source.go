package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/bvm-cli/bvm/src/internal/constants"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// abbreviatedMetadata is the npm "install" document media type; it is much
// smaller than the full packument and still carries the versions map.
const abbreviatedMetadata = "application/vnd.npm.install-v1+json"

// RegistrySource lists versions from an npm registry package document
type RegistrySource struct {
	url        string
	httpClient *http.Client
}

// NewRegistrySource creates a Source for the package document at url
func NewRegistrySource(url string) *RegistrySource {
	return NewRegistrySourceWithClient(url, http.DefaultClient)
}

// NewRegistrySourceWithClient creates a RegistrySource with a custom HTTP client.
// Callers bound each request through the context, not the client.
func NewRegistrySourceWithClient(url string, client *http.Client) *RegistrySource {
	return &RegistrySource{
		url:        url,
		httpClient: client,
	}
}

// Name returns the registry URL
func (s *RegistrySource) Name() string {
	return s.url
}

type packageDocument struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

// Versions fetches the package document and returns the keys of its versions map
func (s *RegistrySource) Versions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", abbreviatedMetadata)
	req.Header.Set("User-Agent", constants.UserAgent)

	ui.Debug("Fetching versions from %s", s.url)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", s.url, err)
	}

	var doc packageDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ErrSchema{Source: s.url, Reason: err.Error()}
	}
	if doc.Versions == nil {
		return nil, &ErrSchema{Source: s.url, Reason: "missing \"versions\" mapping"}
	}

	versions := make([]string, 0, len(doc.Versions))
	for v := range doc.Versions {
		versions = append(versions, v)
	}
	return versions, nil
}
