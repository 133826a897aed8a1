package ranking

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/parser"
)

func searchFixture(t *testing.T, query string) parser.SearchParse {
	t.Helper()
	data, err := os.ReadFile("../parser/testdata/search_coldplay.json")
	require.NoError(t, err)
	res, err := parser.ParseSearch(data, query)
	require.NoError(t, err)
	return res
}

func itemTitles(items []domain.SearchItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestRank_HeroArtist(t *testing.T) {
	res := searchFixture(t, "coldplay")
	resp := Rank(res.All, res.Items, "coldplay")

	require.NotNil(t, resp.Featured)
	assert.Equal(t, domain.KindArtist, resp.Featured.Type)
	assert.Equal(t, "UCIaFw5VBEK8qaW6nRpx_qnw", resp.Featured.ID)

	assert.Equal(t, []string{"Yellow", "Viva La Vida", "The Scientist"}, itemTitles(resp.Sections.Songs))
	assert.Empty(t, resp.Sections.Artists, "featured artist is excluded from its section")
	assert.Equal(t, []string{"Parachutes"}, itemTitles(resp.Sections.Albums))
	assert.Equal(t, []string{"Coldplay Best Of"}, itemTitles(resp.Sections.Playlists))
}

func TestFeatured_ExactArtistAnywhere(t *testing.T) {
	adele := parser.ParsedNode{Kind: domain.KindArtist, ID: "UCadele", Title: "Adele"}
	fans := parser.ParsedNode{Kind: domain.KindArtist, ID: "UCfans", Title: "Adele Fans", Section: "artists"}
	song := parser.ParsedNode{Kind: domain.KindSong, ID: "hLQl3WQQoQ0", Title: "Hello"}

	items := []parser.ParsedNode{song, fans, adele}
	got, ok := Featured([]parser.ParsedNode{song, adele, fans}, items, "ADELE")
	require.True(t, ok)
	assert.Equal(t, "UCadele", got.ID)

	resp := Rank([]parser.ParsedNode{song, adele, fans}, items, "adele")
	assert.Equal(t, []string{"Adele Fans"}, itemTitles(resp.Sections.Artists))
}

func TestFeatured_ArtistsSection(t *testing.T) {
	other := parser.ParsedNode{Kind: domain.KindArtist, ID: "UCother", Title: "Other", Section: "artists"}
	fans := parser.ParsedNode{Kind: domain.KindArtist, ID: "UCfans", Title: "Adele Fans", Section: "artists"}
	items := []parser.ParsedNode{other, fans}

	got, ok := Featured(items, items, "adele")
	require.True(t, ok)
	assert.Equal(t, "UCfans", got.ID)

	got, ok = Featured(items, items, "")
	require.True(t, ok)
	assert.Equal(t, "UCother", got.ID, "no query takes the first artist")
}

func TestFeatured_SynthesizedFromSubtitle(t *testing.T) {
	song := parser.ParsedNode{
		Kind:     domain.KindSong,
		ID:       "5NV6Rdv1a3I",
		Title:    "Get Lucky",
		Subtitle: "Song • Daft Punk • Random Access Memories",
		Artists:  []parser.ArtistRef{{Name: "Daft Punk", ChannelID: "UCdaftpunk"}},
	}
	items := []parser.ParsedNode{song}

	got, ok := Featured(items, items, "daft punk")
	require.True(t, ok)
	assert.Equal(t, domain.KindArtist, got.Type)
	assert.Equal(t, "Daft Punk", got.Title)
	assert.Equal(t, "UCdaftpunk", got.ID)

	_, ok = Featured(items, items, "get lucky")
	assert.False(t, ok, "first segment must equal the query")

	resp := Rank(items, items, "daft punk")
	assert.Equal(t, []string{"Get Lucky"}, itemTitles(resp.Sections.Songs))
}

func TestRank_EmptyInput(t *testing.T) {
	resp := Rank(nil, nil, "nothing")
	assert.Nil(t, resp.Featured)
	assert.NotNil(t, resp.Sections.Songs)
	assert.Empty(t, resp.Sections.Songs)
}

func sug(typ, id string) domain.Suggestion {
	return domain.Suggestion{Type: typ, ID: id, Name: id}
}

func ids(ss []domain.Suggestion) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.ID
	}
	return out
}

func TestInterleave(t *testing.T) {
	cands := []domain.Suggestion{
		sug(domain.SuggestTrack, "t1"),
		sug(domain.SuggestTrack, "t2"),
		sug(domain.SuggestArtist, "a1"),
		sug(domain.SuggestPlaylist, "p1"),
	}
	got := Interleave(cands, 12, 4)
	assert.Equal(t, []string{"t1", "a1", "p1", "t2"}, ids(got))
}

func TestInterleave_Caps(t *testing.T) {
	var cands []domain.Suggestion
	for _, typ := range Priority {
		for i := 0; i < 6; i++ {
			cands = append(cands, sug(typ, typ+string(rune('0'+i))))
		}
	}
	got := Interleave(cands, 12, 4)
	require.Len(t, got, 12)
	assert.Equal(t, []string{"track0", "artist0", "playlist0", "album0"}, ids(got[:4]))

	counts := map[string]int{}
	for _, s := range got {
		counts[s.Type]++
	}
	for typ, n := range counts {
		assert.LessOrEqual(t, n, 4, typ)
	}

	got = Interleave(cands, 5, 4)
	assert.Equal(t, []string{"track0", "artist0", "playlist0", "album0", "track1"}, ids(got))
}

func TestInterleave_DuplicatesDroppedDuringInterleave(t *testing.T) {
	cands := []domain.Suggestion{
		sug(domain.SuggestTrack, "t1"),
		sug(domain.SuggestTrack, "t1"),
		sug(domain.SuggestTrack, "t2"),
		sug(domain.SuggestArtist, "a1"),
		sug(domain.SuggestTrack, "t3"),
		sug(domain.SuggestTrack, "t4"),
	}
	// the duplicate still occupies one of the four track slots
	got := Interleave(cands, 12, 4)
	assert.Equal(t, []string{"t1", "a1", "t2", "t3"}, ids(got))
}

func TestInterleave_UnknownTypeIgnored(t *testing.T) {
	got := Interleave([]domain.Suggestion{sug("podcast", "x"), sug(domain.SuggestAlbum, "b")}, 12, 4)
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestScoreArtist(t *testing.T) {
	exact := ArtistCandidate{Name: "Coldplay", ID: "UCcold", PageType: domain.PageTypeArtist}
	assert.Equal(t, 260, ScoreArtist(exact, "coldplay"))

	exact.Official = true
	assert.Equal(t, 300, ScoreArtist(exact, "Coldplay"))

	substring := ArtistCandidate{Name: "Coldplay Tribute Band", Subtitle: "Artist", ID: "UCtrib", PageType: domain.PageTypeArtist}
	assert.Equal(t, 40+30+10-200, ScoreArtist(substring, "coldplay"))

	profile := ArtistCandidate{Name: "Coldplay", Subtitle: "Profile", ID: "UCprof", PageType: domain.PageTypeUserChannel}
	assert.Equal(t, 220+10-1000, ScoreArtist(profile, "coldplay"))

	plain := ArtistCandidate{Name: "Someone"}
	assert.Equal(t, 0, ScoreArtist(plain, "coldplay"))
}

func TestBestArtist(t *testing.T) {
	cands := []ArtistCandidate{
		{Name: "Coldplay Tribute Band", ID: "UCtrib"},
		{Name: "Coldplay", ID: "xyz"},
		{Name: "Coldplay", ID: "UCcold", PageType: domain.PageTypeArtist},
	}
	best, ok := BestArtist(cands, "coldplay")
	require.True(t, ok)
	assert.Equal(t, "UCcold", best.ID)

	tie := []ArtistCandidate{{Name: "Coldplay", ID: "first"}, {Name: "Coldplay", ID: "second"}}
	best, ok = BestArtist(tie, "coldplay")
	require.True(t, ok)
	assert.Equal(t, "first", best.ID)

	_, ok = BestArtist([]ArtistCandidate{{Name: "Coldplay Karaoke", Subtitle: "Profile"}}, "coldplay")
	assert.False(t, ok)
}

func TestOverrides(t *testing.T) {
	o := NewOverrides([]string{"Đorđe Balašević", "  "})
	assert.Equal(t, 1, o.Len())
	assert.True(t, o.Applies("Dorde Balasevic", "dor"))
	assert.True(t, o.Applies("Đorđe Balašević", "Đorđe"))
	assert.False(t, o.Applies("Dorde Balasevic", "xyz"))
	assert.False(t, o.Applies("Other", "oth"))
	assert.False(t, NewOverrides(nil).Applies("Dorde Balasevic", "dor"))
}

func TestSuggestions(t *testing.T) {
	res := searchFixture(t, "coldplay")
	cands := Suggestions(res.All, res.Items, "coldplay", NewOverrides(nil))
	got := Interleave(cands, 12, 4)

	assert.Equal(t, []string{"yKNxeF4KMsY", "UCIaFw5VBEK8qaW6nRpx_qnw", "VLPLbestofcoldplay", "MPREb_parachutes", "dvgZkm1xWPE", "RB-RcX5DS5A"}, ids(got))
	assert.Equal(t, "watch", got[0].EndpointType)
	assert.Equal(t, domain.SuggestTrack, got[0].Type)
	assert.Equal(t, "browse", got[1].EndpointType)
}

func TestSuggestions_OverrideForcesArtist(t *testing.T) {
	res := searchFixture(t, "coldplay")
	cands := Suggestions(res.All, res.Items, "coldplay", NewOverrides([]string{"Coldplay Fans"}))
	got := Interleave(cands, 12, 4)

	var artists []string
	for _, s := range got {
		if s.Type == domain.SuggestArtist {
			artists = append(artists, s.Name)
		}
	}
	assert.Equal(t, []string{"Coldplay Fans", "Coldplay"}, artists)
}
