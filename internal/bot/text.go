package bot

import (
	"errors"
	"fmt"

	"github.com/jalilimmd/video-downloader-bot/internal/delivery"
	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
	"github.com/jalilimmd/video-downloader-bot/internal/session"
)

// User-facing copy. Every failure is terminal for the session; the only
// recovery path offered is resubmitting the URL.
const (
	greetingText        = "👋 Hi! Send me a video link. I'll show you the available download options."
	probingText         = "🔎 Fetching video info..."
	discoveryFailedText = "❌ Could not process this URL. It might be unsupported, private, or invalid."
	noVariantTextFmt    = "❌ No downloadable %s versions found."
	expiredText         = "❌ This download link has expired. Please send the URL again."
	malformedText       = "❌ This button is no longer valid. Please send the URL again."
	downloadFailedText  = "❌ An error occurred during download."
	uploadFailedText    = "❌ The video could not be uploaded. Please try again with a smaller version."
	videoCaption        = "✅ Here is your video!"
	linkNotAvailable    = "Not available"
)

func noVariantText(container string) string {
	return fmt.Sprintf(noVariantTextFmt, container)
}

func menuCaption(title string) string {
	return fmt.Sprintf("🎬 *%s*\n\nSelect a version to download:", title)
}

func statusText(stage delivery.Stage) string {
	switch stage {
	case delivery.StageDelivering:
		return "Uploading to Telegram... 🚀"
	default:
		return "Downloading to server... 📥"
	}
}

func directLinkLine(url string) string {
	if url == "" {
		return "🔗 *Direct Link:* " + linkNotAvailable
	}
	return fmt.Sprintf("🔗 *Direct Link:* [Click here](%s)", url)
}

func uploadCompleteText(directURL string) string {
	return "✅ *Upload Complete!*\n\n" + directLinkLine(directURL)
}

func tooLargeText(directURL string) string {
	return "✅ *Download Complete!*\n\n⚠️ File too large for Telegram.\n\n" + directLinkLine(directURL)
}

// failureText maps the error taxonomy to user-visible copy.
func failureText(err error) string {
	switch {
	case errors.Is(err, delivery.ErrTransmissionFailed):
		return uploadFailedText
	case errors.Is(err, session.ErrCorrelationExpired):
		return expiredText
	case errors.Is(err, session.ErrTokenMalformed), errors.Is(err, session.ErrTokenTooLong):
		return malformedText
	case errors.Is(err, extractor.ErrDiscoveryFailed):
		return discoveryFailedText
	default:
		return downloadFailedText
	}
}
