// Package menu projects discovered media variants into the bounded button
// menu offered to the user.
package menu

import (
	"fmt"
	"sort"

	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
)

// DefaultMaxEntries bounds the menu when callers pass no explicit limit.
const DefaultMaxEntries = 10

// Entry is one selectable menu row: a display label and the opaque token the
// chat surface returns when the row is chosen. Derived and disposable.
type Entry struct {
	Label string
	Token string
	// Variant keeps the projected variant for callers that need it.
	Variant extractor.MediaVariant
}

// TokenFunc produces the selection token for a variant. Returning ok=false
// drops the variant from the menu entirely (e.g. the encoded token would
// exceed the platform bound; a truncated token is worse than no button).
type TokenFunc func(v extractor.MediaVariant) (token string, ok bool)

// Build filters, orders, and truncates variants into a presentable menu.
// Only variants carrying both tracks in the accepted container survive.
// An empty result means "nothing deliverable", not a technical error.
func Build(variants []extractor.MediaVariant, container string, maxEntries int, tokenFor TokenFunc) []Entry {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	kept := make([]extractor.MediaVariant, 0, len(variants))
	for _, v := range variants {
		if v.HasVideo && v.HasAudio && v.Ext == container {
			kept = append(kept, v)
		}
	}
	// Unknown resolution sorts as 0, i.e. last.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Height > kept[j].Height
	})

	entries := make([]Entry, 0, maxEntries)
	for _, v := range kept {
		if len(entries) == maxEntries {
			break
		}
		token, ok := tokenFor(v)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Label:   Label(v),
			Token:   token,
			Variant: v,
		})
	}
	return entries
}

// Label renders the deterministic button text for a variant.
func Label(v extractor.MediaVariant) string {
	return fmt.Sprintf("%s - %s (%s)", v.Ext, resolution(v), FormatBytes(v.Size))
}

func resolution(v extractor.MediaVariant) string {
	if v.Note != "" {
		return v.Note
	}
	if v.Height > 0 {
		return fmt.Sprintf("%dp", v.Height)
	}
	return "unknown"
}

var byteUnits = []string{"", "K", "M", "G", "T"}

// FormatBytes renders a byte count with one decimal place, climbing the unit
// ladder while the value exceeds 1024. Absent sizes render as "N/A".
func FormatBytes(size int64) string {
	if size <= 0 {
		return "N/A"
	}
	value := float64(size)
	unit := 0
	for value > 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f%sB", value, byteUnits[unit])
}
