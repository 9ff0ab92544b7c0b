package download

import (
	"github.com/schollz/progressbar/v3"
)

// Observer receives download progress. total is -1 when the server does
// not send Content-Length.
type Observer interface {
	Start(total int64)
	Advance(n int64)
	Finish()
}

// NopObserver ignores progress
type NopObserver struct{}

func (NopObserver) Start(int64)   {}
func (NopObserver) Advance(int64) {}
func (NopObserver) Finish()       {}

// BarObserver renders progress as a terminal byte counter
type BarObserver struct {
	Description string
	bar         *progressbar.ProgressBar
}

// NewBarObserver creates a progress bar observer labelled description
func NewBarObserver(description string) *BarObserver {
	return &BarObserver{Description: description}
}

func (o *BarObserver) Start(total int64) {
	o.bar = progressbar.DefaultBytes(total, o.Description)
}

func (o *BarObserver) Advance(n int64) {
	if o.bar != nil {
		_ = o.bar.Add64(n)
	}
}

func (o *BarObserver) Finish() {
	if o.bar != nil {
		_ = o.bar.Finish()
	}
}
