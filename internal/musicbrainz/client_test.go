package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purplemusic/catalog/internal/logger"
)

const coldplayMBID = "cc197bad-dc9c-440d-a5b5-d52ba2e14234"

const coldplayJSON = `{
	"id": "cc197bad-dc9c-440d-a5b5-d52ba2e14234",
	"name": "Coldplay",
	"country": "GB",
	"relations": [
		{"type": "official homepage", "url": {"resource": "https://www.coldplay.com/"}},
		{"type": "youtube", "url": {"resource": "https://www.youtube.com/channel/UCDPM_n1atn2ijUwHd0NNRQw"}},
		{"type": "youtube", "url": {"resource": "https://www.youtube.com/user/ColdplayVEVO"}}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(ClientConfig{
		BaseURL:     url,
		UserAgent:   "catalog-test/1.0",
		Timeout:     5 * time.Second,
		MinInterval: time.Millisecond,
	}, logger.Discard())
}

func TestClient_LookupArtist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/artist/"+coldplayMBID, r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, "url-rels", r.URL.Query().Get("inc"))
		assert.Equal(t, "catalog-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(coldplayJSON))
	}))
	defer srv.Close()

	a, err := newTestClient(srv.URL).LookupArtist(context.Background(), " "+coldplayMBID+" ")
	require.NoError(t, err)
	assert.Equal(t, &Artist{
		MBID:       coldplayMBID,
		Name:       "Coldplay",
		Country:    "GB",
		YouTubeURL: "https://www.youtube.com/channel/UCDPM_n1atn2ijUwHd0NNRQw",
		ChannelID:  "UCDPM_n1atn2ijUwHd0NNRQw",
	}, a)
}

func TestClient_LookupArtistHandleOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Adele","relations":[{"url":{"resource":"https://www.youtube.com/@adele"}}]}`))
	}))
	defer srv.Close()

	a, err := newTestClient(srv.URL).LookupArtist(context.Background(), coldplayMBID)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/@adele", a.YouTubeURL)
	assert.Empty(t, a.ChannelID)
}

func TestClient_NotFoundAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/artist/"+coldplayMBID {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	_, err := c.LookupArtist(context.Background(), coldplayMBID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.LookupArtist(context.Background(), "a74b1b7f-71a5-4011-9441-d0b5e4122711")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)

	_, err = c.LookupArtist(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidMBID)
}

func TestClient_RetriesServiceUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(coldplayJSON))
	}))
	defer srv.Close()

	a, err := newTestClient(srv.URL).LookupArtist(context.Background(), coldplayMBID)
	require.NoError(t, err)
	assert.Equal(t, "UCDPM_n1atn2ijUwHd0NNRQw", a.ChannelID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestChannelIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/channel/UCDPM_n1atn2ijUwHd0NNRQw", "UCDPM_n1atn2ijUwHd0NNRQw"},
		{"https://music.youtube.com/channel/UCIaFw5VBEK8qaW6nRpx_qnw/", "UCIaFw5VBEK8qaW6nRpx_qnw"},
		{"https://youtube.com/Channel/UCIaFw5VBEK8qaW6nRpx_qnw/videos", "UCIaFw5VBEK8qaW6nRpx_qnw"},
		{"https://www.youtube.com/channel/UCshort", ""},
		{"https://www.youtube.com/user/ColdplayVEVO", ""},
		{"https://www.youtube.com/@coldplay", ""},
		{"https://youtu.be/yKNxeF4KMsY", ""},
		{"", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChannelIDFromURL(tt.url), tt.url)
	}
}
