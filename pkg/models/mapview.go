package models

// MapMarker is an item with coordinates, as shown on the map view.
type MapMarker struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Field          string    `json:"field"`
	ContentPreview string    `json:"content_preview,omitempty"`
	CreatedAt      Timestamp `json:"created_at"`
}

// MapView is the gateway's map payload.
type MapView struct {
	Markers         []MapMarker `json:"markers"`
	Total           int         `json:"total"`
	CenterLatitude  *float64    `json:"center_latitude,omitempty"`
	CenterLongitude *float64    `json:"center_longitude,omitempty"`
}

// Center returns the map centre: the server's value when present, else the
// mean marker position, else the fallback.
func (m MapView) Center(fallbackLat, fallbackLon float64) (float64, float64) {
	if m.CenterLatitude != nil && m.CenterLongitude != nil {
		return *m.CenterLatitude, *m.CenterLongitude
	}
	if len(m.Markers) == 0 {
		return fallbackLat, fallbackLon
	}
	var lat, lon float64
	for _, marker := range m.Markers {
		lat += marker.Latitude
		lon += marker.Longitude
	}
	n := float64(len(m.Markers))
	return lat / n, lon / n
}
