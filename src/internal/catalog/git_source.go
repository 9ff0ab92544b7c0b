package catalog

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/bvm-cli/bvm/src/internal/ui"
)

// releaseTag matches Bun release tags (bun-v1.1.0) and captures the version
var releaseTag = regexp.MustCompile(`^bun-v?(\d+\.\d+\.\d+.*)$`)

// TagLister returns the tag names advertised by a git remote
type TagLister func(ctx context.Context, url string) ([]string, error)

// GitTagSource lists versions from the release tags of a git repository.
// It needs no API, only the smart-HTTP ref advertisement.
type GitTagSource struct {
	url  string
	list TagLister
}

// NewGitTagSource creates a Source over the tags of the repository at url
func NewGitTagSource(url string) *GitTagSource {
	return NewGitTagSourceWithLister(url, listRemoteTags)
}

// NewGitTagSourceWithLister creates a GitTagSource with a custom tag lister
func NewGitTagSourceWithLister(url string, list TagLister) *GitTagSource {
	return &GitTagSource{url: url, list: list}
}

// Name returns the repository URL
func (s *GitTagSource) Name() string {
	return s.url
}

// Versions lists release tags and strips them down to version strings
func (s *GitTagSource) Versions(ctx context.Context) ([]string, error) {
	ui.Debug("Listing tags of %s", s.url)
	tags, err := s.list(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", s.url, err)
	}

	var versions []string
	for _, tag := range tags {
		if m := releaseTag.FindStringSubmatch(tag); m != nil {
			versions = append(versions, m[1])
		}
	}
	return versions, nil
}

// listRemoteTags is the go-git equivalent of `git ls-remote --tags`
func listRemoteTags(ctx context.Context, url string) ([]string, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{PeelingOption: git.IgnorePeeled})
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, ref := range refs {
		if ref.Name().IsTag() {
			tags = append(tags, ref.Name().Short())
		}
	}
	return tags, nil
}
