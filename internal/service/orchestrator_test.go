package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipscraper/internal/core/domain"
)

func makePage(prefix string, n int, cursor string) *domain.ClipPage {
	page := &domain.ClipPage{Cursor: cursor, HasNext: cursor != ""}
	for i := 0; i < n; i++ {
		page.Clips = append(page.Clips, testClip(fmt.Sprintf("%s-%02d", prefix, i)))
	}
	return page
}

func newTestOrchestrator(source *fakeSource, dl *fakeDownloader, storage *fakeStorage) *Orchestrator {
	clips := NewClipDownloader(dl, storage, &fakeProgress{}, nopLogger)
	return NewOrchestrator(source, clips, storage, nopLogger)
}

func serveAll(dl *fakeDownloader, pages map[string]*domain.ClipPage) {
	for _, page := range pages {
		for _, clip := range page.Clips {
			url, _ := MediaURL(clip.ThumbnailURL)
			dl.videos[url] = fakeVideo{data: []byte(clip.Title)}
		}
	}
}

func TestRunUserNotFound(t *testing.T) {
	source := &fakeSource{users: map[string]string{}}
	dl := newFakeDownloader()
	storage := newFakeStorage()

	result, err := newTestOrchestrator(source, dl, storage).Run(context.Background(), "nobody")

	require.NoError(t, err)
	assert.True(t, result.NotFound)
	assert.Empty(t, source.listCursors)
	assert.Empty(t, dl.opened)
	assert.Zero(t, storage.inits)
	assert.NotEmpty(t, result.Run.ID)
}

func TestRunThreePages(t *testing.T) {
	pages := map[string]*domain.ClipPage{
		"":   makePage("p1", 30, "C1"),
		"C1": makePage("p2", 30, "C2"),
		"C2": makePage("p3", 12, ""),
	}
	source := &fakeSource{users: map[string]string{"streamer": "42"}, pages: pages}
	dl := newFakeDownloader()
	serveAll(dl, pages)
	storage := newFakeStorage()

	result, err := newTestOrchestrator(source, dl, storage).Run(context.Background(), "streamer")

	require.NoError(t, err)
	assert.Equal(t, "42", result.BroadcasterID)
	assert.Equal(t, []string{"", "C1", "C2"}, source.listCursors)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 72, result.Attempts())
	assert.Equal(t, 72, result.Completed)
	assert.Nil(t, result.Err.ErrorOrNil())

	// Downloads happen page by page, clip by clip.
	var want []string
	for _, cursor := range []string{"", "C1", "C2"} {
		for _, clip := range pages[cursor].Clips {
			url, _ := MediaURL(clip.ThumbnailURL)
			want = append(want, url)
		}
	}
	assert.Equal(t, want, dl.opened)
	assert.Len(t, storage.names(), 72)
}

func TestRunStopsAfterPageWithoutCursor(t *testing.T) {
	pages := map[string]*domain.ClipPage{
		"":   makePage("p1", 2, "C1"),
		"C1": makePage("p2", 2, "C2"),
		"C2": makePage("p3", 2, ""),
		"C3": makePage("never", 2, ""),
	}
	source := &fakeSource{users: map[string]string{"streamer": "42"}, pages: pages}
	dl := newFakeDownloader()
	serveAll(dl, pages)

	result, err := newTestOrchestrator(source, dl, newFakeStorage()).Run(context.Background(), "streamer")

	require.NoError(t, err)
	assert.Len(t, source.listCursors, 3)
	assert.Equal(t, 6, result.Attempts())
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	pages := map[string]*domain.ClipPage{
		"":   makePage("p1", 3, "C1"),
		"C1": makePage("p2", 0, "C2"),
		"C2": makePage("never", 3, ""),
	}
	source := &fakeSource{users: map[string]string{"streamer": "42"}, pages: pages}
	dl := newFakeDownloader()
	serveAll(dl, pages)

	result, err := newTestOrchestrator(source, dl, newFakeStorage()).Run(context.Background(), "streamer")

	require.NoError(t, err)
	assert.Equal(t, []string{"", "C1"}, source.listCursors)
	assert.Equal(t, 3, result.Attempts())
}

func TestRunContinuesAfterClipFailure(t *testing.T) {
	pages := map[string]*domain.ClipPage{"": makePage("p1", 4, "")}
	source := &fakeSource{users: map[string]string{"streamer": "42"}, pages: pages}
	dl := newFakeDownloader()
	serveAll(dl, pages)
	broken, _ := MediaURL(pages[""].Clips[1].ThumbnailURL)
	delete(dl.videos, broken)
	storage := newFakeStorage()
	storage.files[FileName(pages[""].Clips[2])] = []byte(pages[""].Clips[2].Title)

	result, err := newTestOrchestrator(source, dl, storage).Run(context.Background(), "streamer")

	require.NoError(t, err)
	assert.Len(t, dl.opened, 4)
	assert.Equal(t, 2, result.Completed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.NotNil(t, result.Err)
	require.Len(t, result.Err.Errors, 1)
	var transportErr *domain.TransportError
	assert.True(t, errors.As(result.Err.Errors[0], &transportErr))
}

func TestRunFatalErrors(t *testing.T) {
	validation := &domain.ValidationError{URL: "u", Index: 3, Err: errors.New("missing title")}
	auth := &domain.AuthError{URL: "u", Err: errors.New("denied")}

	t.Run("validation", func(t *testing.T) {
		source := &fakeSource{users: map[string]string{"streamer": "42"}, listErr: validation}
		dl := newFakeDownloader()

		_, err := newTestOrchestrator(source, dl, newFakeStorage()).Run(context.Background(), "streamer")

		var got *domain.ValidationError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, 3, got.Index)
		assert.Empty(t, dl.opened)
	})

	t.Run("auth", func(t *testing.T) {
		source := &fakeSource{resolveErr: auth}

		_, err := newTestOrchestrator(source, newFakeDownloader(), newFakeStorage()).Run(context.Background(), "streamer")

		var got *domain.AuthError
		assert.True(t, errors.As(err, &got))
		assert.Empty(t, source.listCursors)
	})
}

func TestRunCancelled(t *testing.T) {
	pages := map[string]*domain.ClipPage{"": makePage("p1", 3, "")}
	source := &fakeSource{users: map[string]string{"streamer": "42"}, pages: pages}
	dl := newFakeDownloader()
	serveAll(dl, pages)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOrchestrator(source, dl, newFakeStorage()).Run(ctx, "streamer")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dl.opened)
}
