package delivery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Job is the transient server-side state of one delivery: the chosen variant,
// the origin URL, and the per-job directory holding the local artifact. The
// janitor destroys it when the pipeline finishes, whatever the outcome.
type Job struct {
	ID       string
	URL      string
	FormatID string
	// Dir is the job-private directory; every artifact lands inside it.
	Dir string
	// Path is the artifact location once retrieval succeeds; empty before.
	Path string
}

// NewJob allocates a job-private directory under baseDir.
func NewJob(baseDir, url, formatID string) (*Job, error) {
	id := uuid.NewString()
	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &Job{
		ID:       id,
		URL:      url,
		FormatID: formatID,
		Dir:      dir,
	}, nil
}
