// Package parser classifies upstream JSON responses into typed catalog nodes.
//
// The upstream service has no published schema. The walker descends through
// every object and array, and only a closed set of renderer shapes produces
// nodes; anything else is recursed into and otherwise ignored.
package parser

import (
	"github.com/purplemusic/catalog/internal/domain"
)

// ArtistRef is an artist mention that carries an upstream channel id.
type ArtistRef struct {
	Name      string
	ChannelID string
}

// ParsedNode is one classified entity found in an upstream tree.
type ParsedNode struct {
	Kind            domain.EntityKind
	ID              string
	Title           string
	Subtitle        string
	PageType        string
	Thumbnail       string
	Thumbnails      domain.Thumbnails
	DurationSeconds int
	ArtistText      string
	Artists         []ArtistRef
	AlbumID         string
	Section         string
	Official        bool
	Hero            bool
}

// Key identifies the node for dedupe.
func (n ParsedNode) Key() string {
	return string(n.Kind) + "\x00" + n.ID
}

// ChannelFor returns the channel id of the referenced artist with the given name.
func (n ParsedNode) ChannelFor(name string) string {
	for _, a := range n.Artists {
		if a.Name == name {
			return a.ChannelID
		}
	}
	return ""
}

// Header is the page header of a browse response.
type Header struct {
	ExpectedTrackCount *int
	Title              string
	Subtitle           string
	Description        string
	Thumbnail          string
	Thumbnails         domain.Thumbnails
	ArtistText         string
	Artists            []ArtistRef
	Year               string
}

// Browse is a flattened playlist, album or artist page.
type Browse struct {
	Header    Header
	Tracks    []ParsedNode
	Albums    []ParsedNode
	Playlists []ParsedNode
	Artists   []ParsedNode
}

// SearchParse holds every node in walk order and the filtered, deduped items.
type SearchParse struct {
	All   []ParsedNode
	Items []ParsedNode
}
