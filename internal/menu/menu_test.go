package menu_test

import (
	"fmt"
	"testing"

	"github.com/jalilimmd/video-downloader-bot/internal/extractor"
	"github.com/jalilimmd/video-downloader-bot/internal/menu"
)

func idToken(v extractor.MediaVariant) (string, bool) { return "dl|" + v.ID, true }

func mp4(id string, height int, size int64) extractor.MediaVariant {
	return extractor.MediaVariant{
		ID:       id,
		Ext:      "mp4",
		Height:   height,
		Size:     size,
		HasVideo: true,
		HasAudio: true,
	}
}

func TestBuild_FiltersTracksAndContainer(t *testing.T) {
	t.Parallel()
	variants := []extractor.MediaVariant{
		mp4("ok", 720, 0),
		{ID: "webm", Ext: "webm", Height: 1080, HasVideo: true, HasAudio: true},
		{ID: "video-only", Ext: "mp4", Height: 1080, HasVideo: true},
		{ID: "audio-only", Ext: "mp4", HasAudio: true},
	}
	entries := menu.Build(variants, "mp4", 10, idToken)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Variant.ID != "ok" {
		t.Fatalf("kept variant = %q, want \"ok\"", entries[0].Variant.ID)
	}
}

func TestBuild_SortsDescendingUnknownLast(t *testing.T) {
	t.Parallel()
	variants := []extractor.MediaVariant{
		mp4("a", 480, 0),
		mp4("b", 0, 0),
		mp4("c", 1080, 0),
		mp4("d", 720, 0),
	}
	entries := menu.Build(variants, "mp4", 10, idToken)
	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Variant.ID)
	}
	want := []string{"c", "d", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBuild_TruncatesToMaxEntries(t *testing.T) {
	t.Parallel()
	variants := make([]extractor.MediaVariant, 0, 25)
	for i := 0; i < 25; i++ {
		variants = append(variants, mp4(fmt.Sprintf("f%d", i), 100+i, 0))
	}
	entries := menu.Build(variants, "mp4", 10, idToken)
	if len(entries) != 10 {
		t.Fatalf("len(entries) = %d, want 10", len(entries))
	}
}

func TestBuild_DropsEntriesWithoutToken(t *testing.T) {
	t.Parallel()
	variants := []extractor.MediaVariant{mp4("long", 1080, 0), mp4("short", 720, 0)}
	entries := menu.Build(variants, "mp4", 10, func(v extractor.MediaVariant) (string, bool) {
		if v.ID == "long" {
			return "", false
		}
		return v.ID, true
	})
	if len(entries) != 1 || entries[0].Variant.ID != "short" {
		t.Fatalf("entries = %+v, want only \"short\"", entries)
	}
}

func TestBuild_EmptyWhenNothingDeliverable(t *testing.T) {
	t.Parallel()
	variants := []extractor.MediaVariant{
		{ID: "v", Ext: "mp4", HasVideo: true},
		{ID: "a", Ext: "mp4", HasAudio: true},
	}
	if entries := menu.Build(variants, "mp4", 10, idToken); len(entries) != 0 {
		t.Fatalf("len(entries) = %d, want 0", len(entries))
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		variant extractor.MediaVariant
		want    string
	}{
		{
			name:    "note preferred over height",
			variant: extractor.MediaVariant{Ext: "mp4", Note: "720p60", Height: 720, Size: 1500},
			want:    "mp4 - 720p60 (1.5KB)",
		},
		{
			name:    "height fallback",
			variant: extractor.MediaVariant{Ext: "mp4", Height: 1080, Size: 0},
			want:    "mp4 - 1080p (N/A)",
		},
		{
			name:    "unknown resolution",
			variant: extractor.MediaVariant{Ext: "mp4"},
			want:    "mp4 - unknown (N/A)",
		},
	}
	for _, tc := range cases {
		if got := menu.Label(tc.variant); got != tc.want {
			t.Fatalf("%s: Label() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		size int64
		want string
	}{
		{0, "N/A"},
		{-1, "N/A"},
		{512, "512.0B"},
		{1500, "1.5KB"},
		{60 * 1024 * 1024, "60.0MB"},
		{3 * 1024 * 1024 * 1024, "3.0GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.0TB"},
	}
	for _, tc := range cases {
		if got := menu.FormatBytes(tc.size); got != tc.want {
			t.Fatalf("FormatBytes(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}
