package store

import (
	"github.com/cratefm/crate/internal/shared"
)

// Kind tags an [Item] as either an audio track or a video.
type Kind string

const (
	KindTrack Kind = "track"
	KindVideo Kind = "video"
)

// Default source tags per kind, matching the catalogs items historically came from.
const (
	SourceTrack = "spotify"
	SourceVideo = "youtube"
)

// PlaceholderTitle is substituted when a draft carries no title.
const PlaceholderTitle = "(Untitled)"

// Item is a single playlist entry: a track or a video, unified under one shape.
//
// JSON field names follow the persisted collection layout.
type Item struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Source     string `json:"source"`
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	DurationMs int64  `json:"durationMs,omitempty"`
	Thumbnail  string `json:"thumbnail"`
	URL        string `json:"url"`
	AddedAt    int64  `json:"addedAt"`
}

// Draft is the loosely-typed input shape accepted by mutation operations.
//
// Every field is optional; [Normalize] fills defaults. Artist and Channel are
// accepted as legacy/video aliases for Subtitle.
type Draft struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Source     string `json:"source"`
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Artist     string `json:"artist"`
	Channel    string `json:"channel"`
	DurationMs int64  `json:"durationMs"`
	Thumbnail  string `json:"thumbnail"`
	URL        string `json:"url"`
	AddedAt    int64  `json:"addedAt"`
}

// LegacyTrack is the old flat track shape, kept as a derived read-only mirror
// for consumers that predate the item model. Artist mirrors [Item.Subtitle].
type LegacyTrack struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	DurationMs int64  `json:"durationMs,omitempty"`
	Thumbnail  string `json:"thumbnail"`
	URL        string `json:"url"`
	Source     string `json:"source"`
	ExternalID string `json:"externalId"`
	AddedAt    int64  `json:"addedAt"`
}

// Normalize maps a [Draft] into a full [Item], applying every default:
// kind falls back to track, source follows kind, missing ids are generated,
// the subtitle is resolved through the subtitle → artist → channel chain,
// and addedAt falls back to now (epoch milliseconds).
func Normalize(d Draft, now int64) Item {
	kind := KindTrack
	if d.Kind == string(KindVideo) {
		kind = KindVideo
	}

	source := d.Source
	if source == "" {
		if kind == KindVideo {
			source = SourceVideo
		} else {
			source = SourceTrack
		}
	}

	id := d.ID
	if id == "" {
		id = shared.GenerateID()
	}

	title := d.Title
	if title == "" {
		title = PlaceholderTitle
	}

	subtitle := d.Subtitle
	if subtitle == "" {
		subtitle = d.Artist
	}
	if subtitle == "" {
		subtitle = d.Channel
	}

	addedAt := d.AddedAt
	if addedAt == 0 {
		addedAt = now
	}

	return Item{
		ID:         id,
		Kind:       kind,
		Source:     source,
		ExternalID: d.ExternalID,
		Title:      title,
		Subtitle:   subtitle,
		DurationMs: d.DurationMs,
		Thumbnail:  d.Thumbnail,
		URL:        d.URL,
		AddedAt:    addedAt,
	}
}

// normalizeTrackDraft forces the track kind before normalization so legacy
// track-only callers can never smuggle in a video.
func normalizeTrackDraft(d Draft, now int64) Item {
	d.Kind = string(KindTrack)
	return Normalize(d, now)
}

// mirror converts a track-kind item to its legacy flat shape.
func (it Item) mirror() LegacyTrack {
	return LegacyTrack{
		ID:         it.ID,
		Title:      it.Title,
		Artist:     it.Subtitle,
		DurationMs: it.DurationMs,
		Thumbnail:  it.Thumbnail,
		URL:        it.URL,
		Source:     it.Source,
		ExternalID: it.ExternalID,
		AddedAt:    it.AddedAt,
	}
}

// contentKey is the title+subtitle identity used by the setTracks merge path
// to reject re-imports of the same content under a fresh id.
func (it Item) contentKey() string {
	return it.Title + "::" + it.Subtitle
}
