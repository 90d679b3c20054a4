package progress

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"clipscraper/internal/core/ports"
)

// Bars implements ports.Progress with one terminal byte bar per transfer.
type Bars struct {
	w io.Writer
}

// NewBars creates bars that render to w. A nil w means stderr.
func NewBars(w io.Writer) *Bars {
	if w == nil {
		w = os.Stderr
	}
	return &Bars{w: w}
}

// Begin starts a bar sized to total bytes.
func (b *Bars) Begin(name string, total int64) ports.ProgressTracker {
	if total <= 0 {
		total = -1 // spinner
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(b.w, "\n")
		}),
	)
	return &tracker{bar: bar}
}

type tracker struct {
	bar *progressbar.ProgressBar
}

func (t *tracker) Update(received int64) {
	_ = t.bar.Set64(received)
}

func (t *tracker) Done() {
	_ = t.bar.Finish()
}
