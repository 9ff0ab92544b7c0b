package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/download"
	"github.com/bvm-cli/bvm/src/internal/installer"
	"github.com/bvm-cli/bvm/src/internal/ui"
)

// consoleObserver shows a spinner between stages and a byte bar while downloading
type consoleObserver struct {
	spinner *ui.Spinner
	bar     *download.BarObserver
}

func newConsoleObserver() *consoleObserver {
	return &consoleObserver{
		spinner: ui.NewSpinner("Resolving version..."),
		bar:     download.NewBarObserver("Downloading"),
	}
}

func (o *consoleObserver) StageChanged(stage installer.Stage, version string) {
	ui.Debug("Install stage: %s %s", stage, version)

	switch stage {
	case installer.StageResolving:
		o.spinner.Start()
	case installer.StageLocating:
		o.spinner.UpdateMessage("Finding a matching version...")
	case installer.StageCacheHit:
		o.spinner.UpdateMessage("Using cached archive for " + version)
	case installer.StageDownloading:
		o.spinner.Stop()
		o.bar.Description = "Downloading bun " + version
	case installer.StageExtracting:
		o.spinner.UpdateMessage("Extracting " + version + "...")
		o.spinner.Start()
	case installer.StagePlacing:
		o.spinner.UpdateMessage("Installing " + version + "...")
	case installer.StageActivating:
		o.spinner.UpdateMessage("Activating " + version + "...")
	case installer.StageDone, installer.StageFailed:
		o.spinner.Stop()
	}
}

func (o *consoleObserver) Start(total int64) {
	o.bar.Start(total)
}

func (o *consoleObserver) Advance(n int64) {
	o.bar.Advance(n)
}

func (o *consoleObserver) Finish() {
	o.bar.Finish()
	ui.Println("")
}
