package store

// Schema is valid on both SQLite and Postgres.
const Schema = `
CREATE TABLE IF NOT EXISTS artists (
	artist_key TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	normalized_name TEXT NOT NULL DEFAULT '',
	external_channel_ref TEXT UNIQUE,
	thumbnails TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_artists_updated_at ON artists(updated_at);

CREATE TABLE IF NOT EXISTS albums (
	external_id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	artist_key TEXT,
	release_date TEXT NOT NULL DEFAULT '',
	track_count INTEGER,
	thumbnail TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tracks (
	youtube_id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	artist_key TEXT,
	album_id TEXT,
	thumbnail TEXT NOT NULL DEFAULT '',
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tracks_album_id ON tracks(album_id);

CREATE TABLE IF NOT EXISTS playlists (
	external_id TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	thumbnail TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS album_tracks (
	album_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (album_id, track_id)
);

CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (playlist_id, track_id)
);

CREATE TABLE IF NOT EXISTS artist_tracks (
	artist_key TEXT NOT NULL,
	track_id TEXT NOT NULL,
	PRIMARY KEY (artist_key, track_id)
);

CREATE TABLE IF NOT EXISTS artist_albums (
	artist_key TEXT NOT NULL,
	album_id TEXT NOT NULL,
	PRIMARY KEY (artist_key, album_id)
);

CREATE TABLE IF NOT EXISTS suggest_entries (
	prefix TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_ref TEXT NOT NULL,
	payload TEXT NOT NULL DEFAULT '{}',
	hit_count INTEGER NOT NULL DEFAULT 0,
	last_seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (prefix, entity_type, entity_ref)
);

CREATE INDEX IF NOT EXISTS idx_suggest_entries_ref ON suggest_entries(entity_type, entity_ref);

CREATE TABLE IF NOT EXISTS suggest_processed (
	artist_key TEXT PRIMARY KEY,
	processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS response_cache (
	cache_key TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	expires_at TIMESTAMP
);
`
