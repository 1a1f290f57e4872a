package delivery

import (
	"log/slog"
	"os"
)

// Invalidator removes an open correlation for an anchor. The session
// correlator implements it; token mode makes it a no-op.
type Invalidator interface {
	Invalidate(anchor int64)
}

// Janitor guarantees release of a job's transient resources: the local
// artifact directory and the correlation entry. It runs exactly once per
// pipeline invocation, on every exit path.
type Janitor struct {
	logger      *slog.Logger
	invalidator Invalidator
}

func NewJanitor(log *slog.Logger, invalidator Invalidator) *Janitor {
	if log == nil {
		log = slog.Default()
	}
	return &Janitor{
		logger:      log.With(slog.String("component", "janitor")),
		invalidator: invalidator,
	}
}

// Cleanup removes the job directory (artifact included) and invalidates the
// anchor's correlation. A nil job still invalidates the correlation, so a
// failed job allocation cannot leak a store entry.
func (j *Janitor) Cleanup(job *Job, anchor int64) {
	if job != nil {
		if err := os.RemoveAll(job.Dir); err != nil {
			j.logger.Warn("remove job dir failed", slog.String("job_id", job.ID), slog.Any("error", err))
		} else {
			j.logger.Debug("job dir removed", slog.String("job_id", job.ID))
		}
	}
	if j.invalidator != nil {
		j.invalidator.Invalidate(anchor)
	}
}
