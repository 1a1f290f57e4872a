package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLPExtractor implements Extractor by shelling out to yt-dlp.
type YTDLPExtractor struct {
	logger       *slog.Logger
	probeTimeout time.Duration
	fetchTimeout time.Duration
}

// NewYTDLPExtractor creates a yt-dlp backed extractor. Zero timeouts disable
// the corresponding deadline.
func NewYTDLPExtractor(log *slog.Logger, probeTimeout, fetchTimeout time.Duration) *YTDLPExtractor {
	if log == nil {
		log = slog.Default()
	}
	return &YTDLPExtractor{
		logger:       log.With(slog.String("component", "extractor")),
		probeTimeout: probeTimeout,
		fetchTimeout: fetchTimeout,
	}
}

// Install downloads a managed yt-dlp binary when none is on PATH.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

// dumpPayload mirrors the subset of yt-dlp's --dump-single-json output the
// bot consumes. Null fields decode as zero values.
type dumpPayload struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Thumbnail          string         `json:"thumbnail"`
	Formats            []dumpFormat   `json:"formats"`
	RequestedDownloads []dumpArtifact `json:"requested_downloads"`
}

type dumpFormat struct {
	FormatID       string `json:"format_id"`
	FormatNote     string `json:"format_note"`
	Ext            string `json:"ext"`
	Height         int    `json:"height"`
	Filesize       int64  `json:"filesize"`
	FilesizeApprox int64  `json:"filesize_approx"`
	VCodec         string `json:"vcodec"`
	ACodec         string `json:"acodec"`
	URL            string `json:"url"`
}

type dumpArtifact struct {
	Filepath string `json:"filepath"`
}

func (p dumpPayload) toMediaInfo() MediaInfo {
	info := MediaInfo{
		ID:        p.ID,
		Title:     p.Title,
		Thumbnail: p.Thumbnail,
		Variants:  make([]MediaVariant, 0, len(p.Formats)),
	}
	for _, f := range p.Formats {
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeApprox
		}
		info.Variants = append(info.Variants, MediaVariant{
			ID:        f.FormatID,
			Ext:       f.Ext,
			Note:      f.FormatNote,
			Height:    f.Height,
			Size:      size,
			HasVideo:  f.VCodec != "" && f.VCodec != "none",
			HasAudio:  f.ACodec != "" && f.ACodec != "none",
			DirectURL: f.URL,
		})
	}
	return info
}

// Probe runs yt-dlp in simulate mode and parses its single-JSON dump.
func (e *YTDLPExtractor) Probe(ctx context.Context, url string) (MediaInfo, error) {
	if e.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.probeTimeout)
		defer cancel()
	}
	cmd := ytdlp.New().
		Quiet().
		NoPlaylist().
		SkipDownload().
		DumpSingleJSON()
	result, err := cmd.Run(ctx, url)
	if err != nil {
		e.logger.Error("probe failed", slog.String("url", url), slog.Any("error", err))
		return MediaInfo{}, fmt.Errorf("%w: %v", ErrDiscoveryFailed, err)
	}
	var payload dumpPayload
	if err := json.Unmarshal([]byte(result.Stdout), &payload); err != nil {
		return MediaInfo{}, fmt.Errorf("%w: decode dump: %v", ErrDiscoveryFailed, err)
	}
	info := payload.toMediaInfo()
	e.logger.Info("probe complete",
		slog.String("url", url),
		slog.String("title", info.Title),
		slog.Int("variants", len(info.Variants)),
	)
	return info, nil
}

// Fetch downloads formatID into destDir and reports the artifact path plus the
// variant's direct link when the fresh format list still contains it.
func (e *YTDLPExtractor) Fetch(ctx context.Context, url, formatID, destDir string) (FetchResult, error) {
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}
	template := filepath.Join(destDir, "%(id)s_"+formatID+".%(ext)s")
	cmd := ytdlp.New().
		Quiet().
		NoPlaylist().
		NoSimulate().
		DumpSingleJSON().
		Format(formatID).
		Output(template)
	result, err := cmd.Run(ctx, url)
	if err != nil {
		e.logger.Error("fetch failed",
			slog.String("url", url),
			slog.String("format_id", formatID),
			slog.Any("error", err),
		)
		return FetchResult{}, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	var payload dumpPayload
	if err := json.Unmarshal([]byte(result.Stdout), &payload); err != nil {
		return FetchResult{}, fmt.Errorf("%w: decode dump: %v", ErrRetrievalFailed, err)
	}

	path := artifactPath(payload, destDir)
	if path == "" {
		return FetchResult{}, fmt.Errorf("%w: no artifact produced", ErrRetrievalFailed)
	}

	// A variant missing from the fresh list means "no direct link", not failure.
	directURL := ""
	for _, f := range payload.Formats {
		if f.FormatID == formatID {
			directURL = f.URL
			break
		}
	}
	e.logger.Info("fetch complete",
		slog.String("format_id", formatID),
		slog.String("path", path),
		slog.Bool("direct_link", directURL != ""),
	)
	return FetchResult{Path: path, DirectURL: directURL}, nil
}

// artifactPath prefers yt-dlp's reported filepath and falls back to scanning
// the per-job directory, which holds at most one download.
func artifactPath(payload dumpPayload, destDir string) string {
	for _, d := range payload.RequestedDownloads {
		if d.Filepath != "" {
			return d.Filepath
		}
	}
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return filepath.Join(destDir, entry.Name())
		}
	}
	return ""
}
