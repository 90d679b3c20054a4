package ports

import (
	"context"
	"io"

	"clipscraper/internal/core/domain"
)

// TokenSource hands out the bearer token used on every API request.
type TokenSource interface {
	// Token returns the held token, renewing it first if none is held.
	Token(ctx context.Context) (string, error)

	// Invalidate drops the held token so the next call to Token renews it.
	Invalidate()
}

// ClipSource defines the contract for reading channel and clip metadata.
type ClipSource interface {
	// ResolveUser looks up the broadcaster ID for a login name.
	// found is false when no account matches; that is not an error.
	ResolveUser(ctx context.Context, login string) (id string, found bool, err error)

	// ListClips fetches one page of clips. An empty cursor means the first page.
	ListClips(ctx context.Context, broadcasterID, cursor string) (*domain.ClipPage, error)
}

// Stream is an open download. The caller must close Body.
type Stream struct {
	Body io.ReadCloser
	// ContentLength is -1 when the server did not announce a size.
	ContentLength int64
}

// Downloader defines the contract for opening video streams.
type Downloader interface {
	Open(ctx context.Context, videoURL string) (*Stream, error)
}

// Storage defines the contract for where clip files are written.
type Storage interface {
	// Init creates the storage root.
	Init() error

	// Path returns the full path for a file name.
	Path(name string) string

	// Size reports the size of an existing file; exists is false if there is none.
	Size(name string) (size int64, exists bool, err error)

	// Create opens the file for writing, truncating any previous content.
	Create(name string) (io.WriteCloser, error)
}

// Progress creates a tracker for each transfer.
type Progress interface {
	Begin(name string, total int64) ProgressTracker
}

// ProgressTracker receives the running byte count of one transfer.
type ProgressTracker interface {
	Update(received int64)
	Done()
}
