package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"clipscraper/internal/core/domain"
	"clipscraper/internal/core/ports"
)

const (
	chunkSize       = 32 * 1024
	timestampLayout = "20060102150405"
)

var previewSuffix = regexp.MustCompile(`-preview.*`)

// MediaURL derives the video URL from a clip thumbnail URL:
// ".../AT-cm%7C123-preview-480x272.jpg" becomes ".../AT-cm%7C123.mp4".
func MediaURL(thumbnailURL string) (string, error) {
	if !previewSuffix.MatchString(thumbnailURL) {
		return "", &domain.MalformedResponseError{
			Op:     "derive",
			URL:    thumbnailURL,
			Reason: "thumbnail_url has no -preview suffix",
		}
	}
	return previewSuffix.ReplaceAllString(thumbnailURL, ".mp4"), nil
}

var illegalChars = strings.NewReplacer(
	"<", "", ">", "", ":", "", "*", "", "|", "",
	"?", "", "/", "", `"`, "", `\`, "",
)

// FileName returns the file name a clip is stored under.
func FileName(clip domain.Clip) string {
	name := fmt.Sprintf("%s-%s.mp4", clip.CreatedAt.Format(timestampLayout), clip.Title)
	return illegalChars.Replace(name)
}

// ClipDownloader fetches single clips into storage, skipping clips that are
// already complete on disk.
type ClipDownloader struct {
	downloader ports.Downloader
	storage    ports.Storage
	progress   ports.Progress
	logger     *zap.SugaredLogger
}

// NewClipDownloader creates a new ClipDownloader.
func NewClipDownloader(
	downloader ports.Downloader,
	storage ports.Storage,
	progress ports.Progress,
	logger *zap.SugaredLogger,
) *ClipDownloader {
	return &ClipDownloader{
		downloader: downloader,
		storage:    storage,
		progress:   progress,
		logger:     logger.Named("download"),
	}
}

// Download fetches one clip. Failures are reported in the result, never panicked
// or returned separately, so the caller can move on to the next clip.
func (d *ClipDownloader) Download(ctx context.Context, clip domain.Clip) domain.DownloadResult {
	name := FileName(clip)
	result := domain.DownloadResult{Clip: clip, Path: d.storage.Path(name)}
	fail := func(err error) domain.DownloadResult {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("clip %q: %w", clip.Title, err)
		return result
	}

	videoURL, err := MediaURL(clip.ThumbnailURL)
	if err != nil {
		return fail(err)
	}

	stream, err := d.downloader.Open(ctx, videoURL)
	if err != nil {
		return fail(err)
	}
	defer stream.Body.Close()

	total := stream.ContentLength
	if total < 0 {
		return fail(&domain.MalformedResponseError{Op: "GET", URL: videoURL, Reason: "no Content-Length"})
	}

	size, exists, err := d.storage.Size(name)
	if err != nil {
		return fail(err)
	}
	if exists && size == total {
		d.logger.Debugw("Already downloaded", "path", result.Path, "bytes", size)
		result.Outcome = domain.OutcomeSkipped
		result.Bytes = size
		return result
	}

	file, err := d.storage.Create(name)
	if err != nil {
		return fail(err)
	}
	defer file.Close()

	tracker := d.progress.Begin(result.Path, total)
	received, readErr, writeErr := copyChunks(file, stream.Body, tracker.Update)
	tracker.Done()
	result.Bytes = received
	if writeErr != nil {
		return fail(fmt.Errorf("failed to write %s: %w", result.Path, writeErr))
	}
	if readErr != nil {
		return fail(&domain.TransportError{Op: "GET", URL: videoURL, Err: readErr})
	}
	if received != total {
		return fail(&domain.TransportError{
			Op:  "GET",
			URL: videoURL,
			Err: fmt.Errorf("stream ended after %d of %d bytes", received, total),
		})
	}
	if err := file.Close(); err != nil {
		return fail(fmt.Errorf("failed to write %s: %w", result.Path, err))
	}

	result.Outcome = domain.OutcomeCompleted
	return result
}

// copyChunks writes src to dst one read at a time, reporting the running total
// after every chunk.
func copyChunks(dst io.Writer, src io.Reader, report func(int64)) (received int64, readErr, writeErr error) {
	buf := make([]byte, chunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return received, nil, werr
			}
			received += int64(n)
			report(received)
		}
		if err == io.EOF {
			return received, nil, nil
		}
		if err != nil {
			return received, err, nil
		}
	}
}
