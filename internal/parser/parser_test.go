package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purplemusic/catalog/internal/domain"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func titles(nodes []ParsedNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

func TestParseSearch(t *testing.T) {
	res, err := ParseSearch(loadFixture(t, "search_coldplay.json"), "coldplay")
	require.NoError(t, err)

	assert.Len(t, res.All, 12)
	assert.Equal(t, []string{"Coldplay", "Yellow", "Viva La Vida", "The Scientist", "Parachutes", "Coldplay Best Of"}, titles(res.Items))

	hero := res.Items[0]
	assert.Equal(t, domain.KindArtist, hero.Kind)
	assert.Equal(t, "UCIaFw5VBEK8qaW6nRpx_qnw", hero.ID)
	assert.True(t, hero.Hero)
	assert.Equal(t, "https://lh3.example.com/coldplay=w544-h544", hero.Thumbnail)
	assert.Equal(t, domain.PageTypeArtist, hero.PageType)

	yellow := res.Items[1]
	assert.Equal(t, domain.KindSong, yellow.Kind)
	assert.Equal(t, "yKNxeF4KMsY", yellow.ID)
	assert.Equal(t, "top result", yellow.Section)
	assert.Equal(t, 267, yellow.DurationSeconds)
	assert.Equal(t, "Coldplay", yellow.ArtistText)
	assert.Equal(t, []ArtistRef{{Name: "Coldplay", ChannelID: "UCIaFw5VBEK8qaW6nRpx_qnw"}}, yellow.Artists)
	assert.Equal(t, "MPREb_parachutes", yellow.AlbumID)

	viva := res.Items[2]
	assert.Equal(t, "songs", viva.Section)
	assert.Equal(t, 242, viva.DurationSeconds)

	album := res.Items[4]
	assert.Equal(t, domain.KindAlbum, album.Kind)
	assert.Equal(t, "albums", album.Section)
	assert.Equal(t, "Coldplay", album.ArtistText)

	playlist := res.Items[5]
	assert.Equal(t, domain.KindPlaylist, playlist.Kind)
	assert.Equal(t, "VLPLbestofcoldplay", playlist.ID)
	assert.Equal(t, "Music Fan", playlist.ArtistText)
}

func TestParseSearch_ExactMatchKeepsTributeArtist(t *testing.T) {
	res, err := ParseSearch(loadFixture(t, "search_coldplay.json"), "Coldplay Tribute Band")
	require.NoError(t, err)

	assert.Contains(t, titles(res.Items), "Coldplay Tribute Band")
	assert.NotContains(t, titles(res.Items), "Coldplay Fans")
}

func TestParseSearch_InvalidJSON(t *testing.T) {
	_, err := ParseSearch([]byte("<html>"), "x")
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestParseSearch_OddShapesNeverPanic(t *testing.T) {
	inputs := []string{
		`null`,
		`[]`,
		`"text"`,
		`{"musicResponsiveListItemRenderer": 5}`,
		`{"musicResponsiveListItemRenderer": {"flexColumns": "nope"}}`,
		`{"musicTwoRowItemRenderer": {"title": {"runs": "x"}, "navigationEndpoint": []}}`,
		`{"musicCardShelfRenderer": {"title": 1, "contents": {"a": null}}}`,
		`{"musicShelfRenderer": {"title": {"runs": [{"text": 3}]}, "contents": [null, 1]}}`,
		`{"playlistPanelVideoRenderer": {"videoId": 12345678901}}`,
		`{"musicResponsiveHeaderRenderer": {"secondSubtitle": {"runs": [{"text": "99999999999999999999 songs"}]}}}`,
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, err := ParseSearch([]byte(in), "q")
			assert.NoError(t, err)
		}, in)
	}
}

func TestClassify_Priority(t *testing.T) {
	// a playable video beats a browse reference
	raw := `{"musicTwoRowItemRenderer": {
		"title": {"runs": [{"text": "Clip"}]},
		"navigationEndpoint": {"watchEndpoint": {"videoId": "dQw4w9WgXcQ"},
			"browseEndpoint": {"browseId": "MPREb_x"}}
	}}`
	nodes, _, err := Walk([]byte(raw))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.KindSong, nodes[0].Kind)
	assert.Equal(t, "dQw4w9WgXcQ", nodes[0].ID)

	// page type beats the id prefix
	raw = `{"musicTwoRowItemRenderer": {
		"title": {"runs": [{"text": "Odd"}]},
		"navigationEndpoint": {"browseEndpoint": {"browseId": "UCodd",
			"browseEndpointContextSupportedConfigs": {"browseEndpointContextMusicConfig": {"pageType": "MUSIC_PAGE_TYPE_ALBUM"}}}}
	}}`
	nodes, _, err = Walk([]byte(raw))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.KindAlbum, nodes[0].Kind)

	// id prefix decides without a hint
	raw = `{"musicTwoRowItemRenderer": {
		"title": {"runs": [{"text": "Mix"}]},
		"navigationEndpoint": {"browseEndpoint": {"browseId": "OLAK5uy_abc"}}
	}}`
	nodes, _, err = Walk([]byte(raw))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.KindPlaylist, nodes[0].Kind)

	// unknown prefix without hint is dropped
	raw = `{"musicTwoRowItemRenderer": {
		"title": {"runs": [{"text": "Home"}]},
		"navigationEndpoint": {"browseEndpoint": {"browseId": "FEmusic_home"}}
	}}`
	nodes, _, err = Walk([]byte(raw))
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestTitleChain(t *testing.T) {
	// simple text, then a plain title field
	raw := `[
		{"musicTwoRowItemRenderer": {"title": {"simpleText": "Simple"},
			"navigationEndpoint": {"browseEndpoint": {"browseId": "MPREb_1"}}}},
		{"playlistPanelVideoRenderer": {"videoId": "dQw4w9WgXcQ", "name": "Named"}},
		{"musicTwoRowItemRenderer": {"navigationEndpoint": {"browseEndpoint": {"browseId": "MPREb_2"}}}}
	]`
	nodes, _, err := Walk([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"Simple", "Named"}, titles(nodes))
}

func TestThumbnailLargestArea(t *testing.T) {
	raw := `{"musicTwoRowItemRenderer": {
		"title": {"runs": [{"text": "A"}]},
		"navigationEndpoint": {"browseEndpoint": {"browseId": "MPREb_1"}},
		"thumbnailRenderer": {"musicThumbnailRenderer": {"thumbnail": {"thumbnails": [
			{"url": "mid", "width": 300, "height": 300},
			{"url": "wide", "width": 1000, "height": 50},
			{"url": "last", "width": 100, "height": 100}
		]}}}
	}}`
	nodes, _, err := Walk([]byte(raw))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "mid", nodes[0].Thumbnail)
}

func TestKeep(t *testing.T) {
	profile := ParsedNode{Kind: domain.KindArtist, Title: "Coldplay", Subtitle: "Various Artists Profile"}
	assert.False(t, Keep(profile, "coldplay"), "profile rejected even on exact title")

	tribute := ParsedNode{Kind: domain.KindArtist, Title: "Karaoke Kings", Subtitle: "Artist"}
	assert.False(t, Keep(tribute, "karaoke"))
	assert.True(t, Keep(tribute, "Karaoke Kings"), "exact title overrides the tribute rule")

	song := ParsedNode{Kind: domain.KindSong, Title: "Yellow (Karaoke Version)", Subtitle: "Song"}
	assert.True(t, Keep(song, "yellow"), "tribute rule applies to artists only")

	show := ParsedNode{Kind: domain.KindPlaylist, Title: "Morning", PageType: domain.PageTypePodcastShow}
	assert.False(t, Keep(show, "morning"))

	showtek := ParsedNode{Kind: domain.KindArtist, Title: "Showtek", Subtitle: "Artist"}
	assert.True(t, Keep(showtek, "showtek"))
}

func TestDedupe(t *testing.T) {
	nodes := []ParsedNode{
		{Kind: domain.KindSong, ID: "a", Title: "first"},
		{Kind: domain.KindArtist, ID: "a", Title: "other kind"},
		{Kind: domain.KindSong, ID: "a", Title: "second"},
	}
	out := Dedupe(nodes)
	assert.Equal(t, []string{"first", "other kind"}, titles(out))
}

func TestParseBrowse_Playlist(t *testing.T) {
	b, err := ParseBrowse(loadFixture(t, "browse_playlist.json"))
	require.NoError(t, err)

	assert.Equal(t, "Road Trip", b.Header.Title)
	assert.Equal(t, "Songs for the road", b.Header.Description)
	assert.Equal(t, "https://lh3.example.com/roadtrip=w544-h544", b.Header.Thumbnail)
	require.NotNil(t, b.Header.ExpectedTrackCount)
	assert.Equal(t, 4, *b.Header.ExpectedTrackCount)

	require.Len(t, b.Tracks, 3)
	assert.Equal(t, []string{"Someone Like You", "Hello", "Stay With Me"}, titles(b.Tracks))
	assert.Equal(t, "Adele", b.Tracks[0].ArtistText)
	assert.Equal(t, "UCadele00000000000000000", b.Tracks[0].ChannelFor("Adele"))
	assert.Equal(t, 285, b.Tracks[0].DurationSeconds)
	assert.Equal(t, "Sam Smith", b.Tracks[2].ArtistText)
}

func TestParseBrowse_Album(t *testing.T) {
	b, err := ParseBrowse(loadFixture(t, "browse_album.json"))
	require.NoError(t, err)

	assert.Equal(t, "Parachutes", b.Header.Title)
	assert.Equal(t, "Coldplay", b.Header.ArtistText)
	assert.Equal(t, "2000", b.Header.Year)
	require.Len(t, b.Header.Artists, 1)
	assert.Equal(t, "UCIaFw5VBEK8qaW6nRpx_qnw", b.Header.Artists[0].ChannelID)
	require.NotNil(t, b.Header.ExpectedTrackCount)
	assert.Equal(t, 3, *b.Header.ExpectedTrackCount)

	require.Len(t, b.Tracks, 3)
	assert.Equal(t, "", b.Tracks[0].ArtistText)
	assert.Equal(t, 137, b.Tracks[0].DurationSeconds)
}

func TestParseBrowse_Artist(t *testing.T) {
	b, err := ParseBrowse(loadFixture(t, "browse_artist.json"))
	require.NoError(t, err)

	assert.Equal(t, "Coldplay", b.Header.Title)
	assert.Equal(t, "British rock band.", b.Header.Description)
	assert.Equal(t, "https://lh3.example.com/coldplaybanner=w1440-h600", b.Header.Thumbnail)
	assert.Equal(t, []string{"Yellow", "Viva La Vida"}, titles(b.Tracks))
	assert.Equal(t, []string{"Parachutes", "A Rush of Blood to the Head"}, titles(b.Albums))
	assert.Equal(t, "albums", b.Albums[0].Section)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3:45", 225, true},
		{"1:02:03", 3723, true},
		{"0:07", 7, true},
		{"12:60", 0, false},
		{"3:456", 0, false},
		{"abc", 0, false},
		{"2000", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDuration(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestIsArtistSegment(t *testing.T) {
	assert.False(t, IsArtistSegment("Album"))
	assert.False(t, IsArtistSegment("2004"))
	assert.False(t, IsArtistSegment("1.1M views"))
	assert.False(t, IsArtistSegment("4:27"))
	assert.True(t, IsArtistSegment("Coldplay"))
}
