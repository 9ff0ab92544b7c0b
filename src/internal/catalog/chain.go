package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/bvm-cli/bvm/src/internal/version"
)

// TimedSource pairs a Source with the timeout of a single attempt
type TimedSource struct {
	Source  Source
	Timeout time.Duration
}

// WithTimeout bounds one attempt at source by timeout
func WithTimeout(source Source, timeout time.Duration) TimedSource {
	return TimedSource{Source: source, Timeout: timeout}
}

// Result is a successful listing and the source that produced it
type Result struct {
	Source   string
	Versions []string // Canonical, deduplicated, highest first
}

// Chain tries sources in order until one answers with valid versions
type Chain struct {
	sources []TimedSource
}

// NewChain creates a failover chain over sources
func NewChain(sources ...TimedSource) *Chain {
	return &Chain{sources: sources}
}

// Names lists the chain's source names in attempt order
func (c *Chain) Names() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Source.Name()
	}
	return names
}

// Fetch returns the first non-empty valid listing. When every source fails,
// the error is Transient and joins each source's failure.
func (c *Chain) Fetch(ctx context.Context) (*Result, error) {
	var errs []error
	for _, s := range c.sources {
		versions, err := attempt(ctx, s)
		if err == nil {
			return &Result{Source: s.Source.Name(), Versions: versions}, nil
		}

		ui.Debug("Version source %s failed: %v", s.Source.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Source.Name(), err))

		// Stop early if the caller gave up, not just this attempt
		if ctx.Err() != nil {
			break
		}
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no version sources configured"))
	}
	return nil, apperr.Transient("fetching remote versions", errors.Join(errs...))
}

func attempt(ctx context.Context, s TimedSource) ([]string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	raw, err := s.Source.Versions(ctx)
	if err != nil {
		return nil, err
	}

	versions := version.FilterValid(raw)
	if len(versions) == 0 {
		return nil, ErrEmpty
	}
	return versions, nil
}
