// Package extractor discovers downloadable media variants for a URL and
// retrieves the bytes of a chosen variant.
package extractor

import "context"

// MediaVariant is one concrete downloadable rendition of a media item.
// Variants are immutable once discovered.
type MediaVariant struct {
	// ID is opaque and unique within one discovery result.
	ID string
	// Ext is the container/format tag (e.g. "mp4").
	Ext string
	// Note is the source's human label for the rendition, when present.
	Note string
	// Height is the vertical resolution; 0 when unknown.
	Height int
	// Size is the exact or approximate byte size; 0 when unknown.
	Size int64
	// HasVideo and HasAudio report the tracks carried by the variant.
	HasVideo bool
	HasAudio bool
	// DirectURL is an externally servable link for the variant, when available.
	DirectURL string
}

// MediaInfo is the result of probing a URL.
type MediaInfo struct {
	ID        string
	Title     string
	Thumbnail string
	Variants  []MediaVariant
}

// FetchResult reports where a retrieved artifact landed and, when the fresh
// variant list still contains the chosen variant, its direct link.
type FetchResult struct {
	Path      string
	DirectURL string
}

// Extractor is the media discovery/retrieval collaborator. Implementations
// report failures as opaque wrapped errors; callers do not retry.
type Extractor interface {
	// Probe discovers the variants available at url without downloading.
	Probe(ctx context.Context, url string) (MediaInfo, error)
	// Fetch downloads the variant identified by formatID into destDir.
	Fetch(ctx context.Context, url, formatID, destDir string) (FetchResult, error)
}
