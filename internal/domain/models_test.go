package domain

import (
	"testing"
)

func TestValidVideoID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"dQw4w9WgXcQ", true},
		{"a_b-c_d-e_f", true},
		{"short", false},
		{"", false},
		{"dQw4w9WgXcQx", false},
		{"dQw4w9WgXc!", false},
		{"dQw4w9 gXcQ", false},
		{"dQw4w9WgXç1", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidVideoID(tt.id); got != tt.want {
				t.Errorf("ValidVideoID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestKindFromBrowseID(t *testing.T) {
	tests := []struct {
		id     string
		want   EntityKind
		wantOK bool
	}{
		{"UCIaFw5VBEK8qaW6nRpx_qnw", KindArtist, true},
		{"MPREb_abc", KindAlbum, true},
		{"OLAK5uy_abc", KindPlaylist, true},
		{"VLPL123", KindPlaylist, true},
		{"PL123", KindPlaylist, true},
		{"FEmusic_home", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := KindFromBrowseID(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("KindFromBrowseID(%q) = (%q, %v), want (%q, %v)", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKindFromPageType(t *testing.T) {
	if k, ok := KindFromPageType(PageTypeArtist); !ok || k != KindArtist {
		t.Errorf("Expected artist, got %q", k)
	}
	if k, ok := KindFromPageType(PageTypeAlbum); !ok || k != KindAlbum {
		t.Errorf("Expected album, got %q", k)
	}
	if _, ok := KindFromPageType("MUSIC_PAGE_TYPE_UNKNOWN"); ok {
		t.Error("Expected unknown page type to be unmapped")
	}
}

func TestPlaylistIDs(t *testing.T) {
	if got := PlaylistBrowseID("PL123"); got != "VLPL123" {
		t.Errorf("Expected VLPL123, got %s", got)
	}
	if got := PlaylistBrowseID("VLPL123"); got != "VLPL123" {
		t.Errorf("Expected VLPL123, got %s", got)
	}
	if got := PlaylistID("VLPL123"); got != "PL123" {
		t.Errorf("Expected PL123, got %s", got)
	}
}

func intPtr(v int) *int { return &v }

func TestComputeCompletion(t *testing.T) {
	tests := []struct {
		name        string
		expected    *int
		actual      int
		wantState   CompletionState
		wantPercent int
	}{
		{"complete", intPtr(12), 12, CompletionComplete, 100},
		{"partial", intPtr(12), 5, CompletionPartial, 42},
		{"unknown", nil, 5, CompletionUnknown, 0},
		{"zero expected", intPtr(0), 3, CompletionUnknown, 0},
		{"over expected", intPtr(10), 11, CompletionComplete, 100},
		{"empty partial", intPtr(10), 0, CompletionPartial, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ComputeCompletion(tt.expected, tt.actual)
			if c.State != tt.wantState {
				t.Errorf("State = %q, want %q", c.State, tt.wantState)
			}
			if c.Percent != tt.wantPercent {
				t.Errorf("Percent = %d, want %d", c.Percent, tt.wantPercent)
			}
		})
	}
}

func TestThumbnailsLargest(t *testing.T) {
	ts := Thumbnails{
		{URL: "small", Width: 60, Height: 60},
		{URL: "big", Width: 544, Height: 544},
		{URL: "mid", Width: 226, Height: 226},
	}
	if got := ts.Largest(); got != "big" {
		t.Errorf("Expected big, got %s", got)
	}

	widthOnly := Thumbnails{{URL: "a", Width: 100}, {URL: "b", Height: 50}}
	if got := widthOnly.Largest(); got != "a" {
		t.Errorf("Expected a, got %s", got)
	}

	if got := (Thumbnails{}).Largest(); got != "" {
		t.Errorf("Expected empty, got %s", got)
	}
}

func TestThumbnails_ValueScan(t *testing.T) {
	ts := Thumbnails{{URL: "u", Width: 1, Height: 2}}
	v, err := ts.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var back Thumbnails
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(back) != 1 || back[0].URL != "u" {
		t.Errorf("Expected round trip, got %+v", back)
	}

	var empty Thumbnails
	if err := empty.Scan(nil); err != nil || empty != nil {
		t.Errorf("Expected nil scan to clear, got %+v, %v", empty, err)
	}
}

func TestArtistBestName(t *testing.T) {
	a := Artist{ArtistKey: "k"}
	if a.BestName() != "k" {
		t.Errorf("Expected key fallback, got %s", a.BestName())
	}
	a.NormalizedName = "coldplay"
	if a.BestName() != "coldplay" {
		t.Errorf("Expected normalized fallback, got %s", a.BestName())
	}
	a.DisplayName = "Coldplay"
	if a.BestName() != "Coldplay" {
		t.Errorf("Expected display name, got %s", a.BestName())
	}
}
