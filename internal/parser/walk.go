package parser

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/purplemusic/catalog/internal/domain"
	"github.com/purplemusic/catalog/internal/textnorm"
)

const maxDepth = 512

// candidate is what a renderer shape yields before classification.
type candidate struct {
	videoID  string
	browseID string
	pageType string
	title    string
	subtitle string
	runs     []textRun
	thumbs   domain.Thumbnails
	duration int
	hero     bool
}

type walker struct {
	header  *Header
	section string
	nodes   []ParsedNode
}

func (w *walker) walk(raw json.RawMessage, depth int) {
	if depth > maxDepth {
		return
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return
		}
		for _, item := range items {
			w.walk(item, depth+1)
		}
	case '{':
		var obj map[string]json.RawMessage
		if json.Unmarshal(raw, &obj) != nil {
			return
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !w.visit(k, obj[k], depth+1) {
				w.walk(obj[k], depth+1)
			}
		}
	}
}

// visit handles the known renderer keys and reports whether key was one.
func (w *walker) visit(key string, raw json.RawMessage, depth int) bool {
	switch key {
	case "musicResponsiveListItemRenderer":
		var item responsiveListItem
		if decodeShape(raw, &item) {
			w.emit(fromResponsive(item, raw))
		}
	case "musicTwoRowItemRenderer":
		var item twoRowItem
		if decodeShape(raw, &item) {
			w.emit(fromTwoRow(item, raw))
		}
	case "playlistPanelVideoRenderer":
		var item panelVideo
		if decodeShape(raw, &item) {
			w.emit(fromPanel(item, raw))
		}
	case "musicMultiRowListItemRenderer":
		var item multiRowItem
		if decodeShape(raw, &item) {
			w.emit(fromMultiRow(item, raw))
		}
	case "musicCardShelfRenderer":
		var card cardShelf
		if !decodeShape(raw, &card) {
			return true
		}
		w.emit(fromCard(card, raw))
		w.withSection("top result", func() { w.walk(card.Contents, depth+1) })
	case "musicShelfRenderer":
		var s shelf
		if !decodeShape(raw, &s) {
			return true
		}
		title, _ := s.Title.String()
		w.withSection(textnorm.Normalize(title), func() { w.walk(s.Contents, depth+1) })
	case "musicCarouselShelfRenderer":
		var s carouselShelf
		if !decodeShape(raw, &s) {
			return true
		}
		title, _ := s.Header.Basic.Title.String()
		w.withSection(textnorm.Normalize(title), func() { w.walk(s.Contents, depth+1) })
	case "musicResponsiveHeaderRenderer", "musicDetailHeaderRenderer",
		"musicImmersiveHeaderRenderer", "musicVisualHeaderRenderer":
		var h pageHeader
		if decodeShape(raw, &h) && w.header == nil {
			w.header = headerFrom(h)
		}
	default:
		return false
	}
	return true
}

func (w *walker) withSection(section string, fn func()) {
	prev := w.section
	w.section = section
	fn()
	w.section = prev
}

func (w *walker) emit(c candidate, ok bool) {
	if !ok {
		return
	}
	n, ok := classify(c)
	if !ok {
		return
	}
	n.Section = w.section
	w.nodes = append(w.nodes, n)
}

func fromResponsive(item responsiveListItem, raw json.RawMessage) (candidate, bool) {
	var c candidate
	if len(item.FlexColumns) > 0 {
		c.title, _ = item.FlexColumns[0].Renderer.Text.String()
	}
	if c.title == "" {
		c.title, _ = fallbackTitle(raw)
	}

	var subs []string
	for _, col := range item.FlexColumns[min(1, len(item.FlexColumns)):] {
		if s, ok := col.Renderer.Text.String(); ok {
			subs = append(subs, s)
			c.runs = append(c.runs, col.Renderer.Text.Runs...)
		}
	}
	c.subtitle = strings.Join(subs, " • ")

	switch {
	case item.PlaylistItemData != nil && item.PlaylistItemData.VideoID != "":
		c.videoID = item.PlaylistItemData.VideoID
	case item.Overlay != nil && item.Overlay.Renderer.Content.PlayButton.PlayNavigationEndpoint.videoID() != "":
		c.videoID = item.Overlay.Renderer.Content.PlayButton.PlayNavigationEndpoint.videoID()
	case item.NavigationEndpoint.videoID() != "":
		c.videoID = item.NavigationEndpoint.videoID()
	case len(item.FlexColumns) > 0:
		c.videoID = item.FlexColumns[0].Renderer.Text.firstEndpoint().videoID()
	}

	c.browseID, c.pageType = item.NavigationEndpoint.browse()
	if c.browseID == "" && len(item.FlexColumns) > 0 {
		c.browseID, c.pageType = item.FlexColumns[0].Renderer.Text.firstEndpoint().browse()
	}

	if len(item.FixedColumns) > 0 {
		if s, ok := item.FixedColumns[0].Renderer.Text.String(); ok {
			c.duration, _ = ParseDuration(s)
		}
	}
	if c.duration == 0 {
		c.duration = durationFromRuns(c.runs)
	}
	c.thumbs = item.Thumbnail.all()
	return c, c.title != ""
}

func fromTwoRow(item twoRowItem, raw json.RawMessage) (candidate, bool) {
	c := candidate{runs: item.Subtitle.Runs, thumbs: item.ThumbnailRenderer.all()}
	c.title, _ = item.Title.String()
	if c.title == "" {
		c.title, _ = fallbackTitle(raw)
	}
	c.subtitle, _ = item.Subtitle.String()
	c.videoID = item.NavigationEndpoint.videoID()
	c.browseID, c.pageType = item.NavigationEndpoint.browse()
	if c.browseID == "" {
		c.browseID, c.pageType = item.Title.firstEndpoint().browse()
	}
	return c, c.title != ""
}

func fromCard(card cardShelf, raw json.RawMessage) (candidate, bool) {
	c := candidate{runs: card.Subtitle.Runs, thumbs: card.Thumbnail.all(), hero: true}
	c.title, _ = card.Title.String()
	if c.title == "" {
		c.title, _ = fallbackTitle(raw)
	}
	c.subtitle, _ = card.Subtitle.String()
	c.videoID = card.OnTap.videoID()
	if c.videoID == "" {
		c.videoID = card.Title.firstEndpoint().videoID()
	}
	c.browseID, c.pageType = card.OnTap.browse()
	if c.browseID == "" {
		c.browseID, c.pageType = card.Title.firstEndpoint().browse()
	}
	return c, c.title != ""
}

func fromPanel(item panelVideo, raw json.RawMessage) (candidate, bool) {
	c := candidate{thumbs: domain.Thumbnails(item.Thumbnail.Thumbnails)}
	c.title, _ = item.Title.String()
	if c.title == "" {
		c.title, _ = fallbackTitle(raw)
	}
	byline := item.LongBylineText
	if len(byline.Runs) == 0 && byline.SimpleText == "" {
		byline = item.ShortBylineText
	}
	c.subtitle, _ = byline.String()
	c.runs = byline.Runs
	c.videoID = item.VideoID
	if c.videoID == "" {
		c.videoID = item.NavigationEndpoint.videoID()
	}
	if s, ok := item.LengthText.String(); ok {
		c.duration, _ = ParseDuration(s)
	}
	return c, c.title != ""
}

func fromMultiRow(item multiRowItem, raw json.RawMessage) (candidate, bool) {
	c := candidate{runs: item.Subtitle.Runs, thumbs: item.Thumbnail.all()}
	c.title, _ = item.Title.String()
	if c.title == "" {
		c.title, _ = fallbackTitle(raw)
	}
	c.subtitle, _ = item.Subtitle.String()
	c.videoID = item.OnTap.videoID()
	c.browseID, c.pageType = item.OnTap.browse()
	return c, c.title != ""
}

var trackCountPattern = regexp.MustCompile(`(?i)(\d[\d,.]*)\s+(?:songs?|tracks?)\b`)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

func headerFrom(h pageHeader) *Header {
	out := &Header{}
	out.Title, _ = h.Title.String()
	out.Subtitle, _ = h.Subtitle.String()
	out.Description = descriptionText(h.Description)

	out.Thumbnails = h.Thumbnail.all()
	if len(out.Thumbnails) == 0 {
		out.Thumbnails = h.ForegroundThumbnail.all()
	}
	out.Thumbnail = out.Thumbnails.Largest()

	runs := h.StraplineTextOne.Runs
	if strapline, ok := h.StraplineTextOne.String(); ok {
		out.ArtistText = strapline
	}
	runs = append(runs, h.Subtitle.Runs...)
	out.Artists = artistRefs(runs)
	if out.ArtistText == "" {
		out.ArtistText = artistTextFrom(out.Artists, out.Subtitle)
	}

	for _, r := range h.Subtitle.Runs {
		if t := strings.TrimSpace(r.Text); yearPattern.MatchString(t) {
			out.Year = t
		}
	}

	second, _ := h.SecondSubtitle.String()
	for _, s := range []string{second, out.Subtitle} {
		if m := trackCountPattern.FindStringSubmatch(s); m != nil {
			digits := strings.NewReplacer(",", "", ".", "").Replace(m[1])
			if n, err := strconv.Atoi(digits); err == nil && n > 0 {
				out.ExpectedTrackCount = &n
				break
			}
		}
	}
	return out
}

func durationFromRuns(runs []textRun) int {
	for i := len(runs) - 1; i >= 0; i-- {
		if d, ok := ParseDuration(runs[i].Text); ok {
			return d
		}
	}
	return 0
}

// artistRefs collects runs that link to an artist channel.
func artistRefs(runs []textRun) []ArtistRef {
	var out []ArtistRef
	seen := make(map[string]struct{})
	for _, r := range runs {
		id, pageType := r.NavigationEndpoint.browse()
		if id == "" {
			continue
		}
		if pageType != domain.PageTypeArtist && pageType != domain.PageTypeUserChannel && !strings.HasPrefix(id, "UC") {
			continue
		}
		name := strings.TrimSpace(r.Text)
		if name == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, ArtistRef{Name: name, ChannelID: id})
	}
	return out
}

func albumRef(runs []textRun) string {
	for _, r := range runs {
		id, pageType := r.NavigationEndpoint.browse()
		if pageType == domain.PageTypeAlbum || strings.HasPrefix(id, "MPRE") {
			return id
		}
	}
	return ""
}

// subtitle segments that label an item instead of naming an artist
var subtitleLabels = map[string]struct{}{
	"song": {}, "video": {}, "album": {}, "single": {}, "ep": {}, "playlist": {},
	"artist": {}, "episode": {}, "podcast": {}, "profile": {},
}

var countPattern = regexp.MustCompile(`(?i)^[\d.,]+\s*[kmb]?\s+(?:views|plays|songs|tracks|subscribers|monthly audience)$`)

// artistTextFrom prefers linked artist names and falls back to the first
// subtitle segment that is not a label, count, year or duration.
func artistTextFrom(refs []ArtistRef, subtitle string) string {
	if len(refs) > 0 {
		names := make([]string, len(refs))
		for i, r := range refs {
			names[i] = r.Name
		}
		return strings.Join(names, " & ")
	}
	for _, seg := range strings.FieldsFunc(subtitle, func(r rune) bool { return r == '•' || r == '·' }) {
		seg = strings.TrimSpace(seg)
		if !IsArtistSegment(seg) {
			continue
		}
		return seg
	}
	return ""
}

// IsArtistSegment reports whether a subtitle segment plausibly names an artist.
func IsArtistSegment(seg string) bool {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return false
	}
	if _, label := subtitleLabels[strings.ToLower(seg)]; label {
		return false
	}
	if yearPattern.MatchString(seg) || countPattern.MatchString(seg) {
		return false
	}
	if _, ok := ParseDuration(seg); ok {
		return false
	}
	return true
}
