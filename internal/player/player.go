// Package player models the embedded playback boundary.
//
// Audio plays through a third-party iframe widget; video plays through a
// standard embed URL. Neither protocol is ours: this package only builds the
// URLs and option sets the embeds expect and drives a [Widget] through its
// published surface (load, play, pause, event callbacks).
package player

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultWidgetBase is the audio widget's iframe endpoint.
const DefaultWidgetBase = "https://w.soundcloud.com/player/"

// DefaultVideoEmbedBase is the video embed endpoint.
const DefaultVideoEmbedBase = "https://www.youtube.com/embed/"

// Event identifies a widget playback event.
type Event string

const (
	EventPlay   Event = "play"
	EventPause  Event = "pause"
	EventFinish Event = "finish"
)

// LoadOptions are the widget parameters sent on load and embedded in the
// iframe URL.
type LoadOptions struct {
	AutoPlay     bool
	Buying       bool
	Sharing      bool
	ShowComments bool
	ShowUser     bool
	ShowReposts  bool
	Visual       bool
	HideRelated  bool
	SingleActive bool
}

// DefaultLoadOptions returns the option set the player bar always uses:
// auto-play on, chrome off, related tracks hidden, one active widget at a
// time.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		AutoPlay:     true,
		ShowUser:     true,
		HideRelated:  true,
		SingleActive: true,
	}
}

// Values renders the options as widget query parameters.
func (o LoadOptions) Values() url.Values {
	return url.Values{
		"auto_play":     {strconv.FormatBool(o.AutoPlay)},
		"buying":        {strconv.FormatBool(o.Buying)},
		"sharing":       {strconv.FormatBool(o.Sharing)},
		"show_comments": {strconv.FormatBool(o.ShowComments)},
		"show_user":     {strconv.FormatBool(o.ShowUser)},
		"show_reposts":  {strconv.FormatBool(o.ShowReposts)},
		"visual":        {strconv.FormatBool(o.Visual)},
		"hide_related":  {strconv.FormatBool(o.HideRelated)},
		"single_active": {strconv.FormatBool(o.SingleActive)},
	}
}

// Widget is the embedded audio player's published API.
type Widget interface {
	// Load points the widget at a track permalink with the given options.
	Load(permalink string, opts LoadOptions) error

	Play() error
	Pause() error

	// Bind registers a callback for a playback event. Multiple callbacks per
	// event are allowed.
	Bind(event Event, fn func())
}

// WidgetURL builds the iframe URL embedding the audio widget for a track
// permalink. base falls back to [DefaultWidgetBase].
func WidgetURL(base, permalink string, opts LoadOptions) (string, error) {
	if base == "" {
		base = DefaultWidgetBase
	}
	if permalink == "" {
		return "", fmt.Errorf("permalink is required")
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse widget base: %w", err)
	}

	params := opts.Values()
	params.Set("url", permalink)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// VideoEmbedURL builds the embed URL for a video by its external id. base
// falls back to [DefaultVideoEmbedBase].
func VideoEmbedURL(base, externalID string, autoplay bool) (string, error) {
	if base == "" {
		base = DefaultVideoEmbedBase
	}
	if externalID == "" {
		return "", fmt.Errorf("external id is required")
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse embed base: %w", err)
	}
	u = u.JoinPath(externalID)

	if autoplay {
		query := u.Query()
		query.Set("autoplay", "1")
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
