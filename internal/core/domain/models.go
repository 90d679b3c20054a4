package domain

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// Credentials identifies the application to the identity endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Clip is the typed view of one item from the clip listing.
type Clip struct {
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatorName  string    `json:"creator_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClipPage is one page of the clip listing.
// HasNext is false once the API stops returning a pagination cursor.
type ClipPage struct {
	Clips   []Clip
	Cursor  string
	HasNext bool
}

// DownloadOutcome describes what happened to a single clip.
type DownloadOutcome int

const (
	OutcomeCompleted DownloadOutcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o DownloadOutcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DownloadResult holds the outcome of downloading one clip.
type DownloadResult struct {
	Clip    Clip
	Outcome DownloadOutcome
	Path    string
	Bytes   int64
	Err     error // set only when Outcome is OutcomeFailed
}

// Run represents a single scraping run for one channel.
type Run struct {
	ID        string    `json:"run_id"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// RunResult holds the outcome of a finished run.
type RunResult struct {
	Run           Run
	BroadcasterID string
	NotFound      bool
	Pages         int
	Completed     int
	Skipped       int
	Failed        int
	CompletedAt   time.Time

	// Err collects the per-clip download failures. Nil when every clip succeeded.
	Err *multierror.Error
}

// Attempts is the number of clips handed to the downloader.
func (r *RunResult) Attempts() int {
	return r.Completed + r.Skipped + r.Failed
}

// Record adds a download result to the run totals.
func (r *RunResult) Record(res DownloadResult) {
	switch res.Outcome {
	case OutcomeCompleted:
		r.Completed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
		r.Err = multierror.Append(r.Err, res.Err)
	}
}
