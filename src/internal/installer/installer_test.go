package installer

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/bvm-cli/bvm/src/internal/activate"
	"github.com/bvm-cli/bvm/src/internal/alias"
	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/download"
	"github.com/bvm-cli/bvm/src/internal/resolve"
	"github.com/bvm-cli/bvm/src/internal/store"
)

var linuxX64 = Platform{OS: "linux", Arch: "amd64"}

type fakeCatalog struct {
	mu       sync.Mutex
	versions []string
	err      error
	calls    int
}

func (c *fakeCatalog) Remote(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.versions, c.err
}

func (c *fakeCatalog) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type recordingObserver struct {
	NopObserver
	mu     sync.Mutex
	stages []Stage
}

func (o *recordingObserver) StageChanged(stage Stage, version string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
}

func (o *recordingObserver) saw(stage Stage) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range o.stages {
		if s == stage {
			return true
		}
	}
	return false
}

type harness struct {
	t         *testing.T
	paths     *config.Paths
	store     *store.Store
	activator *activate.Activator
	aliases   *alias.Store
	catalog   *fakeCatalog
	installer *Installer
	server    *httptest.Server

	mu       sync.Mutex
	hits     []string
	failures map[string]int // version -> HTTP status to answer with
	emptyZip map[string]bool
}

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Errorf("zip %s: %v", name, err)
			return nil
		}
		_, _ = w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Errorf("zip close: %v", err)
	}
	return buf.Bytes()
}

func newHarness(t *testing.T, remote ...string) *harness {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	h := &harness{t: t, failures: map[string]int{}, emptyZip: map[string]bool{}}
	h.paths = config.NewPaths(t.TempDir())
	h.activator = activate.New(h.paths.ActiveLink(), h.paths.Versions, filepath.Base(h.paths.ActiveLink()))
	h.store = store.New(h.paths.Versions, h.activator)
	h.aliases = alias.NewStore(h.paths.Alias)
	h.catalog = &fakeCatalog{versions: remote}

	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.hits = append(h.hits, r.URL.Path)
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		v := strings.TrimPrefix(parts[0], "bun-")
		status, fail := h.failures[v]
		empty := h.emptyZip[v]
		h.mu.Unlock()

		if fail {
			w.WriteHeader(status)
			return
		}
		files := map[string]string{"bun-linux-x64/" + h.store.ExecutableName(): "bun " + v}
		if empty {
			files = map[string]string{"README.md": "nothing here"}
		}
		_, _ = w.Write(zipWith(t, files))
	}))
	t.Cleanup(h.server.Close)

	h.installer = New(Config{
		Paths:           h.paths,
		Store:           h.store,
		Activator:       h.activator,
		Aliases:         h.aliases,
		Resolver:        resolve.New(h.activator, h.aliases),
		Catalog:         h.catalog,
		Fetcher:         download.NewClientWithHTTP(h.server.Client()),
		Platform:        linuxX64,
		DownloadBaseURL: h.server.URL,
		WorkDir:         t.TempDir(),
	})
	return h
}

func (h *harness) hitCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hits)
}

func (h *harness) hit(i int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[i]
}

func (h *harness) failWith(v string, status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if status == 0 {
		delete(h.failures, v)
		return
	}
	h.failures[v] = status
}

func (h *harness) serveEmpty(v string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emptyZip[v] = true
}

func (h *harness) active() string {
	v, _, err := h.activator.Current()
	if err != nil {
		h.t.Fatal(err)
	}
	return v
}

func TestFirstInstall(t *testing.T) {
	h := newHarness(t, "v1.0.0", "v1.1.0")
	obs := &recordingObserver{}

	result, err := h.installer.Install(context.Background(), "1.0.0", obs)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if result.Version != "v1.0.0" || result.AlreadyInstalled || result.CacheHit {
		t.Errorf("result = %+v", result)
	}
	if !result.DefaultAliasSet {
		t.Error("first install should set the default alias")
	}
	if got, ok, _ := h.aliases.Get(alias.Default); !ok || got != "v1.0.0" {
		t.Errorf("default alias = %q, %v", got, ok)
	}
	if got := h.active(); got != "v1.0.0" {
		t.Errorf("active = %q, want v1.0.0", got)
	}

	if h.hitCount() != 1 || h.hit(0) != "/bun-v1.0.0/bun-linux-x64.zip" {
		t.Errorf("downloads = %d", h.hitCount())
	}
	if !download.IsCached(filepath.Join(h.paths.Cache, "v1.0.0-bun-linux-x64.zip")) {
		t.Error("archive should stay in the cache")
	}

	info, err := os.Stat(h.store.ExecutablePath("v1.0.0"))
	if err != nil {
		t.Fatalf("executable missing: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("executable mode = %v, want 0755", info.Mode().Perm())
	}

	// Archive subdirectory is gone, staging is cleaned up
	entries, _ := os.ReadDir(h.store.VersionDir("v1.0.0"))
	if len(entries) != 1 {
		t.Errorf("install dir holds %d entries, want only the executable", len(entries))
	}
	versions, _ := os.ReadDir(h.paths.Versions)
	if len(versions) != 1 {
		t.Errorf("versions dir holds %d entries, want 1", len(versions))
	}

	for _, stage := range []Stage{StageResolving, StageLocating, StageDownloading, StageExtracting, StagePlacing, StageActivating, StageDone} {
		if !obs.saw(stage) {
			t.Errorf("observer never saw %s", stage)
		}
	}
}

func TestInstallAlreadyInstalled(t *testing.T) {
	h := newHarness(t, "v1.0.0")
	if _, err := h.installer.Install(context.Background(), "1.0.0", nil); err != nil {
		t.Fatal(err)
	}
	catalogCalls := h.catalog.Calls()

	result, err := h.installer.Install(context.Background(), "v1.0.0", nil)
	if err != nil {
		t.Fatalf("second Install() error = %v", err)
	}
	if !result.AlreadyInstalled {
		t.Error("second install should report already installed")
	}
	if result.DefaultAliasSet {
		t.Error("re-install must not touch the default alias")
	}
	if h.hitCount() != 1 {
		t.Errorf("downloads = %d, want 1", h.hitCount())
	}
	if h.catalog.Calls() != catalogCalls {
		t.Error("already-installed exact version should not query the catalog")
	}
}

func TestInstallAlreadyInstalledReactivates(t *testing.T) {
	h := newHarness(t, "v1.0.0", "v1.1.0")
	ctx := context.Background()
	_, _ = h.installer.Install(ctx, "1.0.0", nil)
	_, _ = h.installer.Install(ctx, "1.1.0", nil)

	if got := h.active(); got != "v1.1.0" {
		t.Fatalf("active = %q, want v1.1.0", got)
	}
	if got, _, _ := h.aliases.Get(alias.Default); got != "v1.0.0" {
		t.Errorf("default alias = %q, should stay on the first install", got)
	}

	if _, err := h.installer.Install(ctx, "1.0.0", nil); err != nil {
		t.Fatal(err)
	}
	if got := h.active(); got != "v1.0.0" {
		t.Errorf("active = %q, want v1.0.0 after re-install", got)
	}
}

func TestInstallFuzzyAndLatest(t *testing.T) {
	h := newHarness(t, "v1.2.3", "v1.2.23", "v1.3.0")

	result, err := h.installer.Install(context.Background(), "1.2", nil)
	if err != nil {
		t.Fatalf("Install(1.2) error = %v", err)
	}
	if result.Version != "v1.2.23" {
		t.Errorf("Install(1.2) = %s, want v1.2.23", result.Version)
	}

	result, err = h.installer.Install(context.Background(), "latest", nil)
	if err != nil {
		t.Fatalf("Install(latest) error = %v", err)
	}
	if result.Version != "v1.3.0" {
		t.Errorf("Install(latest) = %s, want v1.3.0", result.Version)
	}
}

func TestInstallReusesCache(t *testing.T) {
	h := newHarness(t, "v1.0.0")
	ctx := context.Background()
	if _, err := h.installer.Install(ctx, "1.0.0", nil); err != nil {
		t.Fatal(err)
	}

	// Drop the installation, keep the cache
	if _, err := h.activator.Deactivate(); err != nil {
		t.Fatal(err)
	}
	if err := h.store.Remove("v1.0.0"); err != nil {
		t.Fatal(err)
	}
	catalogCalls := h.catalog.Calls()

	obs := &recordingObserver{}
	result, err := h.installer.Install(ctx, "1.0.0", obs)
	if err != nil {
		t.Fatalf("Install() from cache error = %v", err)
	}
	if !result.CacheHit {
		t.Error("install should report a cache hit")
	}
	if h.hitCount() != 1 {
		t.Errorf("downloads = %d, want 1", h.hitCount())
	}
	if h.catalog.Calls() != catalogCalls {
		t.Error("cached exact version should not query the catalog")
	}
	if obs.saw(StageDownloading) || !obs.saw(StageCacheHit) {
		t.Errorf("stages = %v", obs.stages)
	}
	if !h.store.IsInstalled("v1.0.0") {
		t.Error("version should be installed again")
	}
}

func TestInstallNotFound(t *testing.T) {
	h := newHarness(t, "v1.0.0", "v1.1.0")

	_, err := h.installer.Install(context.Background(), "99.x", nil)
	if !apperr.IsNotFound(err) {
		t.Fatalf("Install(99.x) error = %v, want not found", err)
	}
	if apperr.ExitCode(err) == 0 {
		t.Error("not found should exit non-zero")
	}
	if got := apperr.CandidatesOf(err); len(got) != 2 {
		t.Errorf("candidates = %v", got)
	}

	for _, dir := range []string{h.paths.Versions, h.paths.Cache, h.paths.Bin, h.paths.Alias} {
		if entries, _ := os.ReadDir(dir); len(entries) != 0 {
			t.Errorf("%s was mutated: %d entries", dir, len(entries))
		}
	}
	if h.hitCount() != 0 {
		t.Error("no download should happen")
	}
}

func TestInstallCatalogFailure(t *testing.T) {
	h := newHarness(t)
	h.catalog.err = apperr.Transient("fetching remote versions", errors.New("all sources down"))

	_, err := h.installer.Install(context.Background(), "1.2", nil)
	if !apperr.IsTransient(err) {
		t.Errorf("Install() error = %v, want transient", err)
	}
}

func TestInstallDownloadFailureKeepsPriorState(t *testing.T) {
	h := newHarness(t, "v1.0.0", "v1.1.0")
	ctx := context.Background()
	if _, err := h.installer.Install(ctx, "1.0.0", nil); err != nil {
		t.Fatal(err)
	}
	h.failWith("v1.1.0", http.StatusInternalServerError)

	_, err := h.installer.Install(ctx, "1.1.0", nil)
	if !apperr.IsTransient(err) {
		t.Fatalf("Install() error = %v, want transient", err)
	}
	if !strings.Contains(err.Error(), "v1.1.0") {
		t.Errorf("error %q should name the version", err)
	}

	if got := h.active(); got != "v1.0.0" {
		t.Errorf("active = %q, prior version should stay active", got)
	}
	archive := filepath.Join(h.paths.Cache, "v1.1.0-bun-linux-x64.zip")
	for _, p := range []string{archive, archive + download.PartialSuffix, h.store.VersionDir("v1.1.0")} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", p)
		}
	}

	// A later attempt downloads again instead of trusting a broken cache entry
	h.failWith("v1.1.0", 0)
	result, err := h.installer.Install(ctx, "1.1.0", nil)
	if err != nil {
		t.Fatalf("retry Install() error = %v", err)
	}
	if result.CacheHit {
		t.Error("retry must not be a cache hit")
	}
}

func TestInstallArchiveWithoutExecutable(t *testing.T) {
	h := newHarness(t, "v1.0.0")
	h.serveEmpty("v1.0.0")

	_, err := h.installer.Install(context.Background(), "1.0.0", nil)
	if !errors.Is(err, ErrExecutableNotFound) || !apperr.IsFatal(err) {
		t.Fatalf("Install() error = %v, want fatal ErrExecutableNotFound", err)
	}
	if !strings.HasPrefix(err.Error(), "placing v1.0.0") {
		t.Errorf("error %q should name the stage and version", err)
	}

	if _, err := os.Stat(h.store.VersionDir("v1.0.0")); !os.IsNotExist(err) {
		t.Error("install dir should not exist")
	}
	if entries, _ := os.ReadDir(h.paths.Versions); len(entries) != 0 {
		t.Errorf("staging left behind: %d entries", len(entries))
	}
	if !download.IsCached(filepath.Join(h.paths.Cache, "v1.0.0-bun-linux-x64.zip")) {
		t.Error("cache entry must survive a failed extraction")
	}
	if _, ok, _ := h.activator.Current(); ok {
		t.Error("nothing should be active")
	}
}

func TestInstallFromProjectFile(t *testing.T) {
	h := newHarness(t, "v1.0.0", "v1.1.0")
	if err := os.WriteFile(filepath.Join(h.installer.cfg.WorkDir, config.ProjectFileName), []byte("1.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := h.installer.Install(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if result.Version != "v1.1.0" || result.ProjectFile == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestInstallWithoutSpecOrProjectFile(t *testing.T) {
	h := newHarness(t, "v1.0.0")
	if err := os.Mkdir(filepath.Join(h.installer.cfg.WorkDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := h.installer.Install(context.Background(), "  ", nil)
	if !apperr.IsUsage(err) {
		t.Fatalf("Install() error = %v, want usage", err)
	}
	if apperr.ExitCode(err) != 2 {
		t.Errorf("ExitCode = %d, want 2", apperr.ExitCode(err))
	}
	if h.catalog.Calls() != 0 {
		t.Error("usage errors must not reach the catalog")
	}
}

func TestInstallUnsupportedPlatform(t *testing.T) {
	h := newHarness(t, "v1.0.0")
	h.installer.cfg.Platform = Platform{OS: "plan9", Arch: "amd64"}

	_, err := h.installer.Install(context.Background(), "1.0.0", nil)
	if !apperr.IsFatal(err) {
		t.Fatalf("Install() error = %v, want fatal", err)
	}
	if h.hitCount() != 0 || h.catalog.Calls() != 0 {
		t.Error("unsupported platform should fail before any network call")
	}
}

func TestConcurrentInstallDownloadsOnce(t *testing.T) {
	h := newHarness(t, "v1.0.0")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.installer.Install(context.Background(), "1.0.0", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Install #%d error = %v", i, err)
		}
	}
	if h.hitCount() != 1 {
		t.Errorf("downloads = %d, want 1", h.hitCount())
	}
	if !h.store.IsInstalled("v1.0.0") || h.active() != "v1.0.0" {
		t.Error("v1.0.0 should be installed and active")
	}
}

func TestInstallSweepsStaleStaging(t *testing.T) {
	h := newHarness(t, "v1.0.0")
	stale := filepath.Join(h.paths.Versions, ".staging-v1.0.0-12345")
	other := filepath.Join(h.paths.Versions, ".staging-v1.0.0-beta.1-67890")
	for _, dir := range []string{stale, other} {
		if err := os.MkdirAll(filepath.Join(dir, "bun-linux-x64"), 0755); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := h.installer.Install(context.Background(), "1.0.0", nil); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale staging directory still present: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("staging directory of another version was removed: %v", err)
	}
}

func TestSweepStaging(t *testing.T) {
	dir := t.TempDir()
	names := map[string]bool{
		".staging-v1.0.0-1":         false,
		".staging-v1.0.0-987654321": false,
		".staging-v1.0.0-":          true,
		".staging-v1.0.0-beta.1-42": true,
		".staging-v1.0.1-42":        true,
		"v1.0.0":                    true,
	}
	for name := range names {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	sweepStaging(dir, "v1.0.0")

	for name, kept := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != kept {
			t.Errorf("%s present = %v, want %v", name, exists, kept)
		}
	}
}
