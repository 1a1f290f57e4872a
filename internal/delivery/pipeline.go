package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
)

// Pipeline orchestrates retrieval of a chosen variant, evaluates the delivery
// ceiling, and picks between direct delivery and fallback-link delivery.
type Pipeline struct {
	logger         *slog.Logger
	extractor      extractor.Extractor
	janitor        *Janitor
	baseDir        string
	maxUploadBytes int64
	active         atomic.Int64
}

func NewPipeline(log *slog.Logger, ex extractor.Extractor, janitor *Janitor, baseDir string, maxUploadBytes int64) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		logger:         log.With(slog.String("component", "pipeline")),
		extractor:      ex,
		janitor:        janitor,
		baseDir:        baseDir,
		maxUploadBytes: maxUploadBytes,
	}
}

// ActiveJobs reports currently executing pipeline runs.
func (p *Pipeline) ActiveJobs() int64 { return p.active.Load() }

// Execute retrieves formatID from url and delivers it through surface.
// The janitor runs on every exit path, failures included; errors are terminal
// for the session and never retried here.
func (p *Pipeline) Execute(ctx context.Context, url, formatID string, anchor int64, surface Surface) Result {
	p.active.Add(1)
	defer p.active.Add(-1)

	job, err := NewJob(p.baseDir, url, formatID)
	if err != nil {
		p.janitor.Cleanup(nil, anchor)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	defer p.janitor.Cleanup(job, anchor)

	if err := surface.Status(ctx, StageRetrieving); err != nil {
		p.logger.Warn("status update failed", slog.String("job_id", job.ID), slog.Any("error", err))
	}

	fetched, err := p.extractor.Fetch(ctx, url, formatID, job.Dir)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	job.Path = fetched.Path

	info, err := os.Stat(job.Path)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("stat artifact: %w", err)}
	}
	size := info.Size()
	p.logger.Info("artifact retrieved",
		slog.String("job_id", job.ID),
		slog.String("format_id", formatID),
		slog.Int64("bytes", size),
	)

	if size > p.maxUploadBytes {
		// The artifact is never transmitted past the ceiling; the direct
		// link, when obtained, is the only thing surfaced.
		return Result{Outcome: OutcomeFallbackOnly, DirectURL: fetched.DirectURL}
	}

	if err := surface.Status(ctx, StageDelivering); err != nil {
		p.logger.Warn("status update failed", slog.String("job_id", job.ID), slog.Any("error", err))
	}
	if err := surface.Transmit(ctx, job.Path); err != nil {
		return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("%w: %v", ErrTransmissionFailed, err)}
	}

	if fetched.DirectURL != "" {
		return Result{Outcome: OutcomeDeliveredWithFallback, DirectURL: fetched.DirectURL}
	}
	return Result{Outcome: OutcomeDelivered}
}
