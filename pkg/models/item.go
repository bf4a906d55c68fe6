package models

import (
	"fmt"
	"strings"
)

// ContentType is the kind of archived content.
type ContentType string

const (
	ContentText      ContentType = "text"
	ContentFile      ContentType = "file"
	ContentInstagram ContentType = "instagram"
)

// Label returns a human readable name for the content type.
func (c ContentType) Label() string {
	switch c {
	case ContentText:
		return "Text"
	case ContentFile:
		return "File"
	case ContentInstagram:
		return "Link"
	default:
		return string(c)
	}
}

// Location is an optional place attached to an item.
type Location struct {
	Address       string   `json:"address,omitempty" yaml:"address,omitempty"`
	GoogleMapsURL string   `json:"google_maps_url,omitempty" yaml:"google_maps_url,omitempty" validate:"omitempty,url"`
	Latitude      *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

// String renders the address, or the coordinates when there is none.
func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Address != "":
		return l.Address
	case l.HasCoordinates():
		return fmt.Sprintf("%.4f, %.4f", *l.Latitude, *l.Longitude)
	default:
		return ""
	}
}

// Item is an archived piece of content.
type Item struct {
	ID          string      `json:"id"`
	Field       string      `json:"field"`
	ContentType ContentType `json:"content_type"`
	Title       string      `json:"title"`
	Content     string      `json:"content,omitempty"`
	FileURL     string      `json:"file_url,omitempty"`
	FileName    string      `json:"file_name,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Location    *Location   `json:"location,omitempty"`
	Message     string      `json:"message,omitempty"`
	CreatedAt   Timestamp   `json:"created_at"`
	UpdatedAt   *Timestamp  `json:"updated_at,omitempty"`
}

// Matches reports whether the title or content contains term, ignoring case.
// An empty term matches everything.
func (i Item) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), term) ||
		strings.Contains(strings.ToLower(i.Content), term)
}

// ItemList is a page of items.
type ItemList struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// Filter returns the items matching term; Total reflects the filtered count.
func (l ItemList) Filter(term string) ItemList {
	if strings.TrimSpace(term) == "" {
		return l
	}
	out := ItemList{Skip: l.Skip, Limit: l.Limit}
	for _, item := range l.Items {
		if item.Matches(term) {
			out.Items = append(out.Items, item)
		}
	}
	out.Total = len(out.Items)
	return out
}
