package extractor

import "errors"

var (
	// ErrDiscoveryFailed indicates the URL could not be probed (unsupported,
	// private, or invalid).
	ErrDiscoveryFailed = errors.New("media discovery failed")
	// ErrRetrievalFailed indicates the chosen variant could not be downloaded.
	ErrRetrievalFailed = errors.New("media retrieval failed")
)
