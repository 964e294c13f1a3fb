package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mxtoaaf/internal/logging"
	"mxtoaaf/internal/media/ffprobe"
)

// ErrUnreadableSource reports that tags could not be read from a file.
var ErrUnreadableSource = errors.New("unreadable source")

// Extractor reads tag metadata from a music file.
type Extractor interface {
	Extract(ctx context.Context, path string) (Track, error)
}

type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// FFprobeExtractor reads tags with ffprobe.
type FFprobeExtractor struct {
	binary  string
	inspect inspectFunc
	logger  *slog.Logger
}

// NewFFprobeExtractor returns an extractor using the given ffprobe binary.
func NewFFprobeExtractor(binary string, logger *slog.Logger) *FFprobeExtractor {
	return &FFprobeExtractor{
		binary:  strings.TrimSpace(binary),
		inspect: ffprobe.Inspect,
		logger:  logging.NewComponentLogger(logger, "metadata"),
	}
}

// Extract implements Extractor.
func (e *FFprobeExtractor) Extract(ctx context.Context, path string) (Track, error) {
	if _, err := os.Stat(path); err != nil {
		return Track{}, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	result, err := e.inspect(ctx, e.binary, path)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, path, err)
	}
	if result.AudioStreamCount() == 0 {
		return Track{}, fmt.Errorf("%w: %s: no audio stream", ErrUnreadableSource, path)
	}

	track := FromProbe(result)
	if track.TrackName == "" {
		track.TrackName = TitleFromFilename(path)
	}
	logging.WithContext(ctx, e.logger).Debug("metadata extracted",
		logging.String("track_name", track.TrackName),
		logging.String("artist", track.Artist),
		logging.Float64("duration_s", track.Duration),
	)
	return track, nil
}

// FromProbe maps ffprobe tags onto a Track.
func FromProbe(result ffprobe.Result) Track {
	number, total := ParseTrackNumber(result.Tag("track", "tracknumber", "trkn"))
	if total == 0 {
		total, _ = strconv.Atoi(result.Tag("tracktotal", "totaltracks", "total_tracks"))
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}
	return Track{
		TrackName:     result.Tag("title"),
		TrackNumber:   number,
		TotalTracks:   total,
		Genre:         result.Tag("genre"),
		Artist:        result.Tag("artist"),
		AlbumArtist:   result.Tag("album_artist", "albumartist", "album artist"),
		Talent:        result.Tag("performer", "talent"),
		Composer:      result.Tag("composer"),
		Source:        result.Tag("publisher", "label", "source"),
		Album:         result.Tag("album"),
		CatalogNumber: result.Tag("catalognumber", "catalog_number", "catalog"),
		Description:   result.Tag("description", "comment"),
		Duration:      duration,
	}
}

// ParseTrackNumber parses "3", "3/12", or "03 / 12". Malformed parts are zero.
func ParseTrackNumber(value string) (number, total int) {
	left, right, hasTotal := strings.Cut(strings.TrimSpace(value), "/")
	number, _ = strconv.Atoi(strings.TrimSpace(left))
	if hasTotal {
		total, _ = strconv.Atoi(strings.TrimSpace(right))
	}
	if number < 0 {
		number = 0
	}
	if total < 0 {
		total = 0
	}
	return number, total
}

// TitleFromFilename derives a display title from a file name, turning
// separators into spaces and title-casing the words.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '&':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled"
	}
	return cases.Title(language.Und).String(title)
}
