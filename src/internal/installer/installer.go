// Package installer takes a version specifier to an active installation:
// resolve, locate the release archive, fetch it through the cache, extract,
// place the executable and activate it.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/bvm-cli/bvm/src/internal/activate"
	"github.com/bvm-cli/bvm/src/internal/alias"
	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/download"
	"github.com/bvm-cli/bvm/src/internal/resolve"
	"github.com/bvm-cli/bvm/src/internal/store"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// ErrExecutableNotFound is returned when an archive holds no usable executable
var ErrExecutableNotFound = errors.New("executable not found in archive")

// Catalog lists installable versions, highest first, prereleases excluded
type Catalog interface {
	Remote(ctx context.Context) ([]string, error)
}

// Fetcher downloads url to dest
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string, observer download.Observer) error
}

// Config wires an Installer to its collaborators
type Config struct {
	Paths           *config.Paths
	Store           *store.Store
	Activator       *activate.Activator
	Aliases         *alias.Store
	Resolver        *resolve.Resolver
	Catalog         Catalog
	Fetcher         Fetcher
	Platform        Platform
	DownloadBaseURL string
	// WorkDir is where the project file search starts when no spec is given
	WorkDir string
	// LockRetry is how often a held per-version lock is retried
	LockRetry time.Duration
}

// Installer runs installations
type Installer struct {
	cfg Config
}

// New creates an Installer
func New(cfg Config) *Installer {
	if cfg.LockRetry <= 0 {
		cfg.LockRetry = 250 * time.Millisecond
	}
	if cfg.Platform == (Platform{}) {
		cfg.Platform = HostPlatform()
	}
	return &Installer{cfg: cfg}
}

// Result describes a finished installation
type Result struct {
	Version          string
	Spec             string
	ProjectFile      string // Set when the spec came from a project file
	AlreadyInstalled bool
	CacheHit         bool
	DefaultAliasSet  bool
	ExecutablePath   string
}

// run tracks the stage of one installation so failures can name it
type run struct {
	observer Observer
	stage    Stage
	version  string
}

func (r *run) enter(stage Stage) {
	r.stage = stage
	r.observer.StageChanged(stage, r.version)
}

func (r *run) fail(err error) error {
	stage := r.stage
	r.observer.StageChanged(StageFailed, r.version)
	return apperr.WithContext(err, stage.String(), r.version)
}

// Install installs the version spec refers to and makes it active. An empty
// spec falls back to the project file. Installing an installed version only
// re-activates it.
func (i *Installer) Install(ctx context.Context, spec string, observer Observer) (*Result, error) {
	if observer == nil {
		observer = NopObserver{}
	}
	r := &run{observer: observer}
	result := &Result{Spec: strings.TrimSpace(spec)}

	r.enter(StageResolving)
	if result.Spec == "" {
		pv, found, err := config.FindProjectVersion(i.cfg.WorkDir)
		if err != nil {
			return nil, r.fail(err)
		}
		if !found {
			return nil, r.fail(apperr.Usage("no version specified and no %s file found", config.ProjectFileName))
		}
		ui.Debug("Using %s from %s", pv.Spec, pv.Path)
		result.Spec, result.ProjectFile = pv.Spec, pv.Path
	}

	r.enter(StageLocating)
	asset, err := i.cfg.Platform.AssetName()
	if err != nil {
		return nil, r.fail(err)
	}

	resolved, err := i.locate(ctx, result.Spec, asset)
	if err != nil {
		return nil, r.fail(err)
	}
	r.version = resolved
	result.Version = resolved
	result.ExecutablePath = i.cfg.Store.ExecutablePath(resolved)

	if i.cfg.Store.IsInstalled(resolved) {
		result.AlreadyInstalled = true
	} else if err := i.installLocked(ctx, r, result, asset); err != nil {
		return nil, r.fail(err)
	}

	r.enter(StageActivating)
	if !result.AlreadyInstalled {
		installed, err := i.cfg.Store.ListInstalled()
		if err != nil {
			return nil, r.fail(err)
		}
		if len(installed) == 1 && installed[0] == resolved {
			if err := i.cfg.Aliases.Set(alias.Default, resolved); err != nil {
				return nil, r.fail(err)
			}
			result.DefaultAliasSet = true
		}
	}
	if err := i.cfg.Activator.Activate(resolved); err != nil {
		return nil, r.fail(err)
	}

	r.enter(StageDone)
	return result, nil
}

// locate resolves spec to a concrete version. Specs that pin a version
// already on disk, or already in the cache, need no catalog round trip.
func (i *Installer) locate(ctx context.Context, spec, asset string) (string, error) {
	pinned, ok, err := i.cfg.Resolver.Pin(spec)
	if err != nil {
		return "", err
	}
	if ok && (i.cfg.Store.IsInstalled(pinned) || download.IsCached(i.archivePath(pinned, asset))) {
		ui.Debug("%s pinned to %s without a catalog lookup", spec, pinned)
		return pinned, nil
	}

	remote, err := i.cfg.Catalog.Remote(ctx)
	if err != nil {
		return "", err
	}

	resolved, found, err := i.cfg.Resolver.Resolve(spec, remote)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperr.NotFound(spec, remote)
	}
	return resolved, nil
}

func (i *Installer) archivePath(v, asset string) string {
	return filepath.Join(i.cfg.Paths.Cache, v+"-"+asset)
}

func (i *Installer) lockPath(v string) string {
	return filepath.Join(i.cfg.Paths.Cache, v+".lock")
}

// installLocked holds the per-version lock from download through placement
func (i *Installer) installLocked(ctx context.Context, r *run, result *Result, asset string) error {
	v := result.Version
	if err := os.MkdirAll(i.cfg.Paths.Cache, 0755); err != nil {
		return err
	}

	lock := flock.New(i.lockPath(v))
	locked, err := lock.TryLockContext(ctx, i.cfg.LockRetry)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", v, err)
	}
	if !locked {
		return fmt.Errorf("failed to lock %s", v)
	}
	defer func() { _ = lock.Unlock() }()

	// Another process may have finished while we waited
	if i.cfg.Store.IsInstalled(v) {
		ui.Debug("%s was installed while waiting for the lock", v)
		result.AlreadyInstalled = true
		return nil
	}

	archive := i.archivePath(v, asset)
	if download.IsCached(archive) {
		r.enter(StageCacheHit)
		result.CacheHit = true
	} else {
		r.enter(StageDownloading)
		url, err := DownloadURL(i.cfg.DownloadBaseURL, v, i.cfg.Platform)
		if err != nil {
			return err
		}
		if err := i.cfg.Fetcher.Fetch(ctx, url, archive, r.observer); err != nil {
			return err
		}
	}

	r.enter(StageExtracting)
	if err := os.MkdirAll(i.cfg.Paths.Versions, 0755); err != nil {
		return err
	}
	sweepStaging(i.cfg.Paths.Versions, v)
	staging, err := os.MkdirTemp(i.cfg.Paths.Versions, stagingPrefix(v))
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := download.Extract(archive, staging); err != nil {
		return err
	}

	r.enter(StagePlacing)
	if err := placeExecutable(staging, i.cfg.Store.ExecutableName()); err != nil {
		return err
	}

	installDir := i.cfg.Store.VersionDir(v)
	// A directory without an executable is a leftover, never a real install
	if err := os.RemoveAll(installDir); err != nil {
		return err
	}
	if err := os.Rename(staging, installDir); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", v, err)
	}
	return nil
}

func stagingPrefix(v string) string {
	return ".staging-" + v + "-"
}

// sweepStaging removes staging directories of v left by interrupted installs.
// The caller holds v's lock, so none of them belongs to a live install.
// Names are matched exactly: the part after the prefix must be the digits
// MkdirTemp appends, so v1.0.0 never claims v1.0.0-beta.1's staging.
func sweepStaging(versionsDir, v string) {
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return
	}
	prefix := stagingPrefix(v)
	for _, entry := range entries {
		suffix, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok || !entry.IsDir() || !isDigits(suffix) {
			continue
		}
		stale := filepath.Join(versionsDir, entry.Name())
		ui.Debug("Removing stale staging directory %s", stale)
		if err := os.RemoveAll(stale); err != nil {
			ui.Debug("Failed to remove %s: %v", stale, err)
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
