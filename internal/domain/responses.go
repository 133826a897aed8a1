package domain

// Suggestion types, in the order used for interleaving.
const (
	SuggestTrack    = "track"
	SuggestArtist   = "artist"
	SuggestPlaylist = "playlist"
	SuggestAlbum    = "album"
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Type            string `json:"type"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	ImageURL        string `json:"imageUrl"`
	Subtitle        string `json:"subtitle"`
	EndpointType    string `json:"endpointType"`
	EndpointPayload string `json:"endpointPayload"`
}

type SuggestResponse struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
}

// SearchItem is one classified search result.
type SearchItem struct {
	Type      EntityKind `json:"type"`
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	Thumbnail string     `json:"thumbnail"`
	Duration  int        `json:"duration,omitempty"`
}

type SearchSections struct {
	Songs     []SearchItem `json:"songs"`
	Artists   []SearchItem `json:"artists"`
	Albums    []SearchItem `json:"albums"`
	Playlists []SearchItem `json:"playlists"`
}

type SearchResponse struct {
	Featured *SearchItem    `json:"featured"`
	Sections SearchSections `json:"sections"`
}

// EmptySearchResponse has non-nil sections so it encodes as empty arrays.
func EmptySearchResponse() SearchResponse {
	return SearchResponse{Sections: SearchSections{
		Songs:     []SearchItem{},
		Artists:   []SearchItem{},
		Albums:    []SearchItem{},
		Playlists: []SearchItem{},
	}}
}

type BrowseTrack struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Duration  int    `json:"duration"`
	Thumbnail string `json:"thumbnail"`
}

type BrowseResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Subtitle  string        `json:"subtitle"`
	Thumbnail string        `json:"thumbnail"`
	Tracks    []BrowseTrack `json:"tracks"`
}

func EmptyBrowseResponse(id string) BrowseResponse {
	return BrowseResponse{ID: id, Tracks: []BrowseTrack{}}
}

// CatalogStats counts the rows behind the catalog.
type CatalogStats struct {
	Artists        int `json:"artists" db:"artists"`
	Albums         int `json:"albums" db:"albums"`
	Tracks         int `json:"tracks" db:"tracks"`
	Playlists      int `json:"playlists" db:"playlists"`
	SuggestEntries int `json:"suggest_entries" db:"suggest_entries"`
	CachedEntries  int `json:"cached_responses" db:"cached_responses"`
}

// ArtistStats summarizes what the catalog holds for one artist.
type ArtistStats struct {
	ArtistKey        string `json:"artist_key"`
	Name             string `json:"name"`
	ChannelRef       string `json:"channel_ref,omitempty"`
	Tracks           int    `json:"tracks"`
	Albums           int    `json:"albums"`
	SuggestEntries   int    `json:"suggest_entries"`
	SuggestProcessed bool   `json:"suggest_processed"`
}
