package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clipscraper/internal/core/domain"
	"clipscraper/internal/core/ports"
)

// Orchestrator coordinates the scraping workflow for one channel.
type Orchestrator struct {
	source  ports.ClipSource
	clips   *ClipDownloader
	storage ports.Storage
	logger  *zap.SugaredLogger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	source ports.ClipSource,
	clips *ClipDownloader,
	storage ports.Storage,
	logger *zap.SugaredLogger,
) *Orchestrator {
	return &Orchestrator{
		source:  source,
		clips:   clips,
		storage: storage,
		logger:  logger.Named("orchestrator"),
	}
}

// ResolveUser returns the broadcaster ID for a channel name. found is false
// when the channel does not exist.
func (o *Orchestrator) ResolveUser(ctx context.Context, name string) (string, bool, error) {
	id, found, err := o.source.ResolveUser(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve user %s: %w", name, err)
	}
	if !found {
		o.logger.Infof("User %s not found on Twitch", name)
	}
	return id, found, nil
}

// Run downloads every clip of the named channel, one at a time, in listing
// order. The returned error is set only for failures that stop the run; a
// clip that fails to download is recorded in RunResult.Err and the run moves on.
func (o *Orchestrator) Run(ctx context.Context, name string) (*domain.RunResult, error) {
	run := domain.Run{
		ID:        uuid.New().String(),
		Channel:   name,
		CreatedAt: time.Now().UTC(),
	}
	result := &domain.RunResult{Run: run}
	log := o.logger.With("run_id", run.ID)
	log.Infof("Starting run for channel %s", name)

	broadcasterID, found, err := o.ResolveUser(ctx, name)
	if err != nil {
		log.Errorw("Run failed", "error", err)
		return result, err
	}
	if !found {
		result.NotFound = true
		result.CompletedAt = time.Now().UTC()
		return result, nil
	}
	result.BroadcasterID = broadcasterID

	if err := o.storage.Init(); err != nil {
		log.Errorw("Run failed", "error", err)
		return result, err
	}

	cursor := ""
	for {
		page, err := o.source.ListClips(ctx, broadcasterID, cursor)
		if err != nil {
			err = fmt.Errorf("failed to list clips for %s: %w", broadcasterID, err)
			log.Errorw("Run failed", "error", err, "page", result.Pages+1)
			return result, err
		}
		result.Pages++

		if len(page.Clips) == 0 {
			if result.Pages == 1 {
				log.Infof("No clips found for %s", name)
			}
			break
		}

		log.Infof("Downloading %d clips from page %d", len(page.Clips), result.Pages)
		for _, clip := range page.Clips {
			if err := ctx.Err(); err != nil {
				log.Warnw("Run cancelled", "error", err)
				return result, err
			}
			res := o.clips.Download(ctx, clip)
			result.Record(res)
			switch res.Outcome {
			case domain.OutcomeFailed:
				log.Warnw("Clip failed", "path", res.Path, "error", res.Err)
			case domain.OutcomeSkipped:
				log.Infow("Clip already downloaded", "path", res.Path)
			default:
				log.Infow("Clip downloaded", "path", res.Path, "bytes", res.Bytes)
			}
		}

		if !page.HasNext {
			break
		}
		cursor = page.Cursor
	}

	result.CompletedAt = time.Now().UTC()
	log.Infow("Run completed",
		"pages", result.Pages,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}
