package delivery_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jalilimmd/video-downloader-bot/internal/delivery"
	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
)

// fakeExtractor writes an artifact of artifactSize bytes into destDir, or
// fails when fetchErr is set.
type fakeExtractor struct {
	artifactSize int
	directURL    string
	fetchErr     error
	fetchCalls   int
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (extractor.MediaInfo, error) {
	return extractor.MediaInfo{}, nil
}

func (f *fakeExtractor) Fetch(ctx context.Context, url, formatID, destDir string) (extractor.FetchResult, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return extractor.FetchResult{}, f.fetchErr
	}
	path := filepath.Join(destDir, "video_"+formatID+".mp4")
	if err := os.WriteFile(path, make([]byte, f.artifactSize), 0o644); err != nil {
		return extractor.FetchResult{}, err
	}
	return extractor.FetchResult{Path: path, DirectURL: f.directURL}, nil
}

type fakeSurface struct {
	stages      []delivery.Stage
	transmits   []string
	transmitErr error
}

func (f *fakeSurface) Status(ctx context.Context, stage delivery.Stage) error {
	f.stages = append(f.stages, stage)
	return nil
}

func (f *fakeSurface) Transmit(ctx context.Context, path string) error {
	f.transmits = append(f.transmits, path)
	return f.transmitErr
}

type countingInvalidator struct {
	calls   int
	anchors []int64
}

func (c *countingInvalidator) Invalidate(anchor int64) {
	c.calls++
	c.anchors = append(c.anchors, anchor)
}

func newPipeline(t *testing.T, ex extractor.Extractor, maxBytes int64) (*delivery.Pipeline, *countingInvalidator, string) {
	t.Helper()
	inv := &countingInvalidator{}
	baseDir := t.TempDir()
	janitor := delivery.NewJanitor(nil, inv)
	return delivery.NewPipeline(nil, ex, janitor, baseDir, maxBytes), inv, baseDir
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "job artifacts must be cleaned up")
}

func TestExecute_DeliveredWithFallback(t *testing.T) {
	t.Parallel()
	ex := &fakeExtractor{artifactSize: 10 * 1024, directURL: "https://cdn.example.com/v"}
	pipeline, inv, baseDir := newPipeline(t, ex, 50*1024*1024)
	surface := &fakeSurface{}

	result := pipeline.Execute(context.Background(), "https://example.com/v", "18", 7, surface)

	require.Equal(t, delivery.OutcomeDeliveredWithFallback, result.Outcome)
	require.Equal(t, "https://cdn.example.com/v", result.DirectURL)
	require.NoError(t, result.Err)
	require.Equal(t, []delivery.Stage{delivery.StageRetrieving, delivery.StageDelivering}, surface.stages)
	require.Len(t, surface.transmits, 1)
	require.Equal(t, 1, inv.calls, "janitor must run exactly once")
	require.Equal(t, []int64{7}, inv.anchors)
	requireEmptyDir(t, baseDir)
}

func TestExecute_DeliveredWithoutDirectLink(t *testing.T) {
	t.Parallel()
	ex := &fakeExtractor{artifactSize: 1024}
	pipeline, inv, baseDir := newPipeline(t, ex, 50*1024*1024)
	surface := &fakeSurface{}

	result := pipeline.Execute(context.Background(), "https://example.com/v", "18", 1, surface)

	require.Equal(t, delivery.OutcomeDelivered, result.Outcome)
	require.Empty(t, result.DirectURL)
	require.Equal(t, 1, inv.calls)
	requireEmptyDir(t, baseDir)
}

func TestExecute_OversizeFallsBackWithoutTransmit(t *testing.T) {
	t.Parallel()
	ex := &fakeExtractor{artifactSize: 2048, directURL: "https://cdn.example.com/big"}
	pipeline, inv, baseDir := newPipeline(t, ex, 1024)
	surface := &fakeSurface{}

	result := pipeline.Execute(context.Background(), "https://example.com/v", "137", 3, surface)

	require.Equal(t, delivery.OutcomeFallbackOnly, result.Outcome)
	require.Equal(t, "https://cdn.example.com/big", result.DirectURL)
	require.Empty(t, surface.transmits, "oversize artifact must never be transmitted")
	require.Equal(t, []delivery.Stage{delivery.StageRetrieving}, surface.stages)
	require.Equal(t, 1, inv.calls)
	requireEmptyDir(t, baseDir)
}

func TestExecute_RetrievalFailure(t *testing.T) {
	t.Parallel()
	ex := &fakeExtractor{fetchErr: extractor.ErrRetrievalFailed}
	pipeline, inv, baseDir := newPipeline(t, ex, 1024)
	surface := &fakeSurface{}

	result := pipeline.Execute(context.Background(), "https://example.com/v", "18", 9, surface)

	require.Equal(t, delivery.OutcomeFailed, result.Outcome)
	require.ErrorIs(t, result.Err, extractor.ErrRetrievalFailed)
	require.Empty(t, surface.transmits)
	require.Equal(t, 1, inv.calls, "janitor must run on the failure path too")
	requireEmptyDir(t, baseDir)
}

func TestExecute_TransmissionFailure(t *testing.T) {
	t.Parallel()
	ex := &fakeExtractor{artifactSize: 512}
	pipeline, inv, baseDir := newPipeline(t, ex, 1024)
	surface := &fakeSurface{transmitErr: errors.New("surface rejected upload")}

	result := pipeline.Execute(context.Background(), "https://example.com/v", "18", 5, surface)

	require.Equal(t, delivery.OutcomeFailed, result.Outcome)
	require.ErrorIs(t, result.Err, delivery.ErrTransmissionFailed)
	require.Equal(t, 1, inv.calls)
	requireEmptyDir(t, baseDir)
}

func TestExecute_NoAutomaticRetry(t *testing.T) {
	t.Parallel()
	ex := &fakeExtractor{fetchErr: errors.New("boom")}
	pipeline, _, _ := newPipeline(t, ex, 1024)

	pipeline.Execute(context.Background(), "https://example.com/v", "18", 0, &fakeSurface{})
	require.Equal(t, 1, ex.fetchCalls)
}
