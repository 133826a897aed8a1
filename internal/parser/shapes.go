package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/purplemusic/catalog/internal/domain"
)

type textRun struct {
	NavigationEndpoint *endpoint `json:"navigationEndpoint"`
	Text               string    `json:"text"`
}

type text struct {
	Runs       []textRun `json:"runs"`
	SimpleText string    `json:"simpleText"`
}

// String prefers the joined runs, then simple text.
func (t text) String() (string, bool) {
	if len(t.Runs) > 0 {
		var b strings.Builder
		for _, r := range t.Runs {
			b.WriteString(r.Text)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s, true
		}
	}
	if s := strings.TrimSpace(t.SimpleText); s != "" {
		return s, true
	}
	return "", false
}

func (t text) firstEndpoint() *endpoint {
	for _, r := range t.Runs {
		if r.NavigationEndpoint != nil {
			return r.NavigationEndpoint
		}
	}
	return nil
}

type watchEndpoint struct {
	VideoID    string `json:"videoId"`
	PlaylistID string `json:"playlistId"`
}

type browseEndpoint struct {
	BrowseID string `json:"browseId"`
	Configs  struct {
		Music struct {
			PageType string `json:"pageType"`
		} `json:"browseEndpointContextMusicConfig"`
	} `json:"browseEndpointContextSupportedConfigs"`
}

type endpoint struct {
	WatchEndpoint  *watchEndpoint  `json:"watchEndpoint"`
	BrowseEndpoint *browseEndpoint `json:"browseEndpoint"`
}

func (e *endpoint) videoID() string {
	if e == nil || e.WatchEndpoint == nil {
		return ""
	}
	return e.WatchEndpoint.VideoID
}

func (e *endpoint) browse() (id, pageType string) {
	if e == nil || e.BrowseEndpoint == nil {
		return "", ""
	}
	return e.BrowseEndpoint.BrowseID, e.BrowseEndpoint.Configs.Music.PageType
}

type thumbnailList struct {
	Thumbnails []domain.Thumbnail `json:"thumbnails"`
}

type thumbnailRenderer struct {
	Thumbnail thumbnailList `json:"thumbnail"`
}

// thumbnailHolder covers the wrappers images arrive in.
type thumbnailHolder struct {
	Music         *thumbnailRenderer `json:"musicThumbnailRenderer"`
	CroppedSquare *thumbnailRenderer `json:"croppedSquareThumbnailRenderer"`
	Thumbnails    []domain.Thumbnail `json:"thumbnails"`
}

func (h thumbnailHolder) all() domain.Thumbnails {
	var out domain.Thumbnails
	if h.Music != nil {
		out = append(out, h.Music.Thumbnail.Thumbnails...)
	}
	if h.CroppedSquare != nil {
		out = append(out, h.CroppedSquare.Thumbnail.Thumbnails...)
	}
	return append(out, h.Thumbnails...)
}

type overlay struct {
	Renderer struct {
		Content struct {
			PlayButton struct {
				PlayNavigationEndpoint *endpoint `json:"playNavigationEndpoint"`
			} `json:"musicPlayButtonRenderer"`
		} `json:"content"`
	} `json:"musicItemThumbnailOverlayRenderer"`
}

type flexColumn struct {
	Renderer struct {
		Text text `json:"text"`
	} `json:"musicResponsiveListItemFlexColumnRenderer"`
}

type fixedColumn struct {
	Renderer struct {
		Text text `json:"text"`
	} `json:"musicResponsiveListItemFixedColumnRenderer"`
}

// musicResponsiveListItemRenderer: rows of search shelves and track lists.
type responsiveListItem struct {
	PlaylistItemData *struct {
		VideoID string `json:"videoId"`
	} `json:"playlistItemData"`
	NavigationEndpoint *endpoint       `json:"navigationEndpoint"`
	Overlay            *overlay        `json:"overlay"`
	FlexColumns        []flexColumn    `json:"flexColumns"`
	FixedColumns       []fixedColumn   `json:"fixedColumns"`
	Thumbnail          thumbnailHolder `json:"thumbnail"`
}

// musicTwoRowItemRenderer: carousel cards.
type twoRowItem struct {
	NavigationEndpoint *endpoint       `json:"navigationEndpoint"`
	Title              text            `json:"title"`
	Subtitle           text            `json:"subtitle"`
	ThumbnailRenderer  thumbnailHolder `json:"thumbnailRenderer"`
}

// musicCardShelfRenderer: the top-result hero card.
type cardShelf struct {
	OnTap     *endpoint       `json:"onTap"`
	Contents  json.RawMessage `json:"contents"`
	Title     text            `json:"title"`
	Subtitle  text            `json:"subtitle"`
	Thumbnail thumbnailHolder `json:"thumbnail"`
}

// playlistPanelVideoRenderer: watch queue rows.
type panelVideo struct {
	NavigationEndpoint *endpoint     `json:"navigationEndpoint"`
	VideoID            string        `json:"videoId"`
	Title              text          `json:"title"`
	LongBylineText     text          `json:"longBylineText"`
	ShortBylineText    text          `json:"shortBylineText"`
	LengthText         text          `json:"lengthText"`
	Thumbnail          thumbnailList `json:"thumbnail"`
}

// musicMultiRowListItemRenderer: podcast episodes and similar rows.
type multiRowItem struct {
	OnTap     *endpoint       `json:"onTap"`
	Title     text            `json:"title"`
	Subtitle  text            `json:"subtitle"`
	Thumbnail thumbnailHolder `json:"thumbnail"`
}

type shelf struct {
	Contents json.RawMessage `json:"contents"`
	Title    text            `json:"title"`
}

type carouselShelf struct {
	Contents json.RawMessage `json:"contents"`
	Header   struct {
		Basic struct {
			Title text `json:"title"`
		} `json:"musicCarouselShelfBasicHeaderRenderer"`
	} `json:"header"`
}

// page headers of album, playlist and artist browse responses
type pageHeader struct {
	Title               text            `json:"title"`
	Subtitle            text            `json:"subtitle"`
	SecondSubtitle      text            `json:"secondSubtitle"`
	StraplineTextOne    text            `json:"straplineTextOne"`
	Description         json.RawMessage `json:"description"`
	Thumbnail           thumbnailHolder `json:"thumbnail"`
	ForegroundThumbnail thumbnailHolder `json:"foregroundThumbnail"`
}

// decodeShape decodes best-effort: fields of the wrong type are left zero.
func decodeShape(raw json.RawMessage, v any) bool {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// fallbackTitle looks for plain title/name fields on an otherwise unknown shape.
func fallbackTitle(raw json.RawMessage) (string, bool) {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return "", false
	}
	for _, key := range []string{"title", "name"} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
		var t text
		if decodeShape(v, &t) {
			if s, ok := t.String(); ok {
				return s, true
			}
		}
		var nested struct {
			Content string `json:"content"`
			Text    string `json:"text"`
		}
		if decodeShape(v, &nested) {
			if s := strings.TrimSpace(nested.Content + nested.Text); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// descriptionText reads either text runs or a description shelf.
func descriptionText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var t text
	if decodeShape(raw, &t) {
		if s, ok := t.String(); ok {
			return s
		}
	}
	var desc struct {
		Renderer struct {
			Description text `json:"description"`
		} `json:"musicDescriptionShelfRenderer"`
	}
	if decodeShape(raw, &desc) {
		s, _ := desc.Renderer.Description.String()
		return s
	}
	return ""
}
