package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"clipscraper/internal/core/domain"
	"clipscraper/internal/core/ports"
)

var nopLogger = zap.NewNop().Sugar()

type fakeStorage struct {
	files   map[string][]byte
	creates int
	inits   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Init() error {
	s.inits++
	return nil
}

func (s *fakeStorage) Path(name string) string { return "Downloads/" + name }

func (s *fakeStorage) Size(name string) (int64, bool, error) {
	data, ok := s.files[name]
	return int64(len(data)), ok, nil
}

func (s *fakeStorage) Create(name string) (io.WriteCloser, error) {
	s.creates++
	s.files[name] = nil
	return &fakeFile{storage: s, name: name}, nil
}

func (s *fakeStorage) names() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type fakeFile struct {
	storage *fakeStorage
	name    string
}

func (f *fakeFile) Write(p []byte) (int, error) {
	f.storage.files[f.name] = append(f.storage.files[f.name], p...)
	return len(p), nil
}

func (f *fakeFile) Close() error { return nil }

type fakeVideo struct {
	data []byte
	// length overrides the announced size when non-zero.
	length int64
	err    error
}

type fakeDownloader struct {
	videos map[string]fakeVideo
	opened []string
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{videos: map[string]fakeVideo{}}
}

func (d *fakeDownloader) Open(_ context.Context, videoURL string) (*ports.Stream, error) {
	d.opened = append(d.opened, videoURL)
	v, ok := d.videos[videoURL]
	if !ok {
		return nil, &domain.TransportError{Op: "GET", URL: videoURL, StatusCode: 404}
	}
	if v.err != nil {
		return nil, v.err
	}
	length := int64(len(v.data))
	if v.length != 0 {
		length = v.length
	}
	return &ports.Stream{Body: io.NopCloser(bytes.NewReader(v.data)), ContentLength: length}, nil
}

type fakeProgress struct {
	begun   []string
	updates []int64
	done    int
}

func (p *fakeProgress) Begin(name string, _ int64) ports.ProgressTracker {
	p.begun = append(p.begun, name)
	return p
}

func (p *fakeProgress) Update(received int64) { p.updates = append(p.updates, received) }
func (p *fakeProgress) Done()                 { p.done++ }

type fakeSource struct {
	users       map[string]string
	resolveErr  error
	pages       map[string]*domain.ClipPage
	listErr     error
	listCursors []string
}

func (s *fakeSource) ResolveUser(_ context.Context, login string) (string, bool, error) {
	if s.resolveErr != nil {
		return "", false, s.resolveErr
	}
	id, ok := s.users[login]
	return id, ok, nil
}

func (s *fakeSource) ListClips(_ context.Context, _ string, cursor string) (*domain.ClipPage, error) {
	s.listCursors = append(s.listCursors, cursor)
	if s.listErr != nil {
		return nil, s.listErr
	}
	page, ok := s.pages[cursor]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %q", cursor)
	}
	return page, nil
}
