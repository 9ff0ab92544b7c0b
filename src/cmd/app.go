package cmd

import (
	"fmt"
	"os"

	"github.com/bvm-cli/bvm/src/internal/activate"
	"github.com/bvm-cli/bvm/src/internal/alias"
	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/catalog"
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/constants"
	"github.com/bvm-cli/bvm/src/internal/download"
	"github.com/bvm-cli/bvm/src/internal/installer"
	"github.com/bvm-cli/bvm/src/internal/resolve"
	"github.com/bvm-cli/bvm/src/internal/store"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// app holds the components every command works with. It is built once per
// invocation from the loaded settings.
type app struct {
	settings  *config.Settings
	paths     *config.Paths
	activator *activate.Activator
	store     *store.Store
	aliases   *alias.Store
	resolver  *resolve.Resolver
	catalog   *catalog.Catalog
	installer *installer.Installer
	workDir   string
}

// bvm is set by the root command before any subcommand runs
var bvm *app

func newApp(settings *config.Settings, workDir string) (*app, error) {
	// Directories are created by the operations that write to them
	paths := settings.Paths()
	ui.Debug("Root: %s", paths.Root)

	activator := activate.New(paths.ActiveLink(), paths.Versions, constants.HostExecutableName())
	versions := store.New(paths.Versions, activator)
	aliases := alias.NewStore(paths.Alias)
	resolver := resolve.New(activator, aliases)

	client := download.NewClient()
	remote := catalog.NewFromSettings(settings, client.HTTPClient())
	ui.Debug("Version sources: %v", remote.SourceNames())

	a := &app{
		settings:  settings,
		paths:     paths,
		activator: activator,
		store:     versions,
		aliases:   aliases,
		resolver:  resolver,
		catalog:   remote,
		workDir:   workDir,
	}
	a.installer = installer.New(installer.Config{
		Paths:           paths,
		Store:           versions,
		Activator:       activator,
		Aliases:         aliases,
		Resolver:        resolver,
		Catalog:         remote,
		Fetcher:         client,
		DownloadBaseURL: settings.DownloadBaseURL,
		WorkDir:         workDir,
	})
	return a, nil
}

// loadApp reads settings from the file and environment and builds the app
func loadApp() (*app, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, apperr.Usage("invalid configuration: %v", err)
	}
	if settings.Verbose {
		ui.SetVerbose(true)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return newApp(settings, wd)
}

// resolveLocal resolves spec against the installed versions. When spec is
// empty the project file is used. An alias whose version is gone does not
// resolve.
func (a *app) resolveLocal(spec string) (string, error) {
	spec, err := a.specOrProject(spec)
	if err != nil {
		return "", err
	}

	installed, err := a.store.ListInstalled()
	if err != nil {
		return "", err
	}
	v, ok, err := a.resolver.Resolve(spec, installed)
	if err != nil {
		return "", err
	}
	if !ok || !a.store.IsInstalled(v) {
		if ok {
			ui.Debug("%s resolved to %s, which is not installed", spec, v)
		}
		return "", apperr.NotFound(spec, installed)
	}
	return v, nil
}

// specOrProject returns spec, or the project file's spec when spec is empty
func (a *app) specOrProject(spec string) (string, error) {
	if spec != "" {
		return spec, nil
	}
	pv, found, err := config.FindProjectVersion(a.workDir)
	if err != nil {
		return "", err
	}
	if !found {
		return "", apperr.Usage("no version specified and no %s file found", config.ProjectFileName)
	}
	ui.Debug("Using %s from %s", pv.Spec, pv.Path)
	return pv.Spec, nil
}
