package catalog

import (
	"strconv"

	"github.com/cratefm/crate/internal/store"
)

// Entry is a single catalog result. Track results carry a nested user;
// video results carry a channel title instead.
type Entry struct {
	ID           int64  `json:"id"`
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Duration     int64  `json:"duration"`
	Genre        string `json:"genre,omitempty"`
	ArtworkURL   string `json:"artwork_url,omitempty"`
	PermalinkURL string `json:"permalink_url,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	User         User   `json:"user"`
}

// User is the uploader attached to a track entry.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PermalinkURL string `json:"permalink_url,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

// Draft converts the entry into a playlist item draft. Entries tagged as
// videos become video drafts with the channel as subtitle; everything else
// becomes a track draft with the uploader as artist. The catalog id becomes
// the draft's external id.
func (e Entry) Draft() store.Draft {
	d := store.Draft{
		ExternalID: strconv.FormatInt(e.ID, 10),
		Title:      e.Title,
		DurationMs: e.Duration,
		Thumbnail:  e.ArtworkURL,
		URL:        e.PermalinkURL,
	}

	if e.Kind == string(store.KindVideo) {
		d.Kind = string(store.KindVideo)
		d.Channel = e.ChannelTitle
		return d
	}

	d.Kind = string(store.KindTrack)
	d.Artist = e.User.Username
	return d
}
