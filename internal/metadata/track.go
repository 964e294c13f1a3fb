package metadata

import (
	"strconv"
)

// Track is the tag record for one music file.
type Track struct {
	TrackName     string  `json:"track_name"`
	TrackNumber   int     `json:"track_number"`
	TotalTracks   int     `json:"total_tracks"`
	Genre         string  `json:"genre"`
	Artist        string  `json:"artist"`
	AlbumArtist   string  `json:"album_artist"`
	Talent        string  `json:"talent"`
	Composer      string  `json:"composer"`
	Source        string  `json:"source"`
	Album         string  `json:"album"`
	CatalogNumber string  `json:"catalog_number"`
	Description   string  `json:"description"`
	Duration      float64 `json:"duration"`
}

var fieldNames = []string{
	"Track Name",
	"Track",
	"Total Tracks",
	"Genre",
	"Artist",
	"Album Artist",
	"Talent",
	"Composer",
	"Source",
	"Album",
	"Catalog #",
	"Description",
	"Duration",
}

// FieldNames returns the display names of Track fields in report order.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

// Values returns the Track fields as strings in FieldNames order. Zero
// numbers render as empty cells.
func (t Track) Values() []string {
	return []string{
		t.TrackName,
		formatInt(t.TrackNumber),
		formatInt(t.TotalTracks),
		t.Genre,
		t.Artist,
		t.AlbumArtist,
		t.Talent,
		t.Composer,
		t.Source,
		t.Album,
		t.CatalogNumber,
		t.Description,
		formatSeconds(t.Duration),
	}
}

func formatInt(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func formatSeconds(v float64) string {
	if v <= 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
