package installer

import (
	"github.com/bvm-cli/bvm/src/internal/download"
)

// Stage is a step of an installation
type Stage int

const (
	StageResolving Stage = iota
	StageLocating
	StageCacheHit
	StageDownloading
	StageExtracting
	StagePlacing
	StageActivating
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageResolving:
		return "resolving"
	case StageLocating:
		return "locating"
	case StageCacheHit:
		return "using cache"
	case StageDownloading:
		return "downloading"
	case StageExtracting:
		return "extracting"
	case StagePlacing:
		return "placing"
	case StageActivating:
		return "activating"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer follows an installation. It receives stage changes and, while
// downloading, byte progress.
type Observer interface {
	download.Observer
	StageChanged(stage Stage, version string)
}

// NopObserver ignores everything
type NopObserver struct {
	download.NopObserver
}

func (NopObserver) StageChanged(Stage, string) {}
