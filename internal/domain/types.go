package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Thumbnail is one image variant offered by the upstream service.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Area is width×height, or whichever dimension is present.
func (t Thumbnail) Area() int {
	switch {
	case t.Width > 0 && t.Height > 0:
		return t.Width * t.Height
	case t.Width > 0:
		return t.Width
	default:
		return t.Height
	}
}

// Thumbnails is stored as a JSON array column.
type Thumbnails []Thumbnail

// Largest returns the URL of the biggest image, or "" when empty.
func (ts Thumbnails) Largest() string {
	best := -1
	url := ""
	for _, t := range ts {
		if t.URL == "" {
			continue
		}
		if a := t.Area(); a > best {
			best = a
			url = t.URL
		}
	}
	return url
}

func (ts Thumbnails) Value() (driver.Value, error) {
	if len(ts) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]Thumbnail(ts))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (ts *Thumbnails) Scan(value interface{}) error {
	data, ok := scanBytes(value)
	if !ok || len(data) == 0 || string(data) == "null" {
		*ts = nil
		return nil
	}
	return json.Unmarshal(data, (*[]Thumbnail)(ts))
}

// SuggestPayload is the display data cached with a suggest entry.
type SuggestPayload struct {
	Name            string `json:"name"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
	EndpointType    string `json:"endpointType,omitempty"`
	EndpointPayload string `json:"endpointPayload,omitempty"`
}

func (p SuggestPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *SuggestPayload) Scan(value interface{}) error {
	data, ok := scanBytes(value)
	if !ok {
		return fmt.Errorf("suggest payload: unsupported type %T", value)
	}
	if len(data) == 0 {
		*p = SuggestPayload{}
		return nil
	}
	return json.Unmarshal(data, p)
}

func scanBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
