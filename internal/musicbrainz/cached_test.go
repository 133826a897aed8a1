package musicbrainz

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purplemusic/catalog/internal/logger"
	"github.com/purplemusic/catalog/internal/store"
	"github.com/purplemusic/catalog/internal/upstream"
)

type countingLookup struct {
	artists map[string]*Artist
	err     error
	calls   int
}

func (c *countingLookup) LookupArtist(_ context.Context, mbid string) (*Artist, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	a, ok := c.artists[mbid]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "mb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCachedClient_HitsAndMisses(t *testing.T) {
	inner := &countingLookup{artists: map[string]*Artist{
		coldplayMBID: {MBID: coldplayMBID, Name: "Coldplay", ChannelID: "UCDPM_n1atn2ijUwHd0NNRQw"},
	}}
	c := NewCachedClient(inner, upstream.NewStoreCache(openDB(t)), time.Hour, logger.Discard())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		a, err := c.LookupArtist(ctx, coldplayMBID)
		require.NoError(t, err)
		assert.Equal(t, "UCDPM_n1atn2ijUwHd0NNRQw", a.ChannelID)
	}
	assert.Equal(t, 1, inner.calls)

	for i := 0; i < 2; i++ {
		_, err := c.LookupArtist(ctx, "a74b1b7f-71a5-4011-9441-d0b5e4122711")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, inner.calls, "misses are cached too")
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	inner := &countingLookup{err: errors.New("connection reset")}
	c := NewCachedClient(inner, upstream.NewStoreCache(openDB(t)), time.Hour, logger.Discard())

	for i := 0; i < 2; i++ {
		_, err := c.LookupArtist(context.Background(), coldplayMBID)
		assert.EqualError(t, err, "connection reset")
	}
	assert.Equal(t, 2, inner.calls)
}
