package store

// Playlist is the canonical playlist record.
//
// Items is the source of truth; Tracks is a derived legacy mirror of the
// track-kind items and is recomputed on every read and write. It must never
// be written to directly.
type Playlist struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Items     []Item        `json:"items"`
	Tracks    []LegacyTrack `json:"tracks"`
	CreatedAt int64         `json:"createdAt"`
	UpdatedAt int64         `json:"updatedAt"`
}

// buildMirror projects the track-kind items into the legacy flat shape.
func buildMirror(items []Item) []LegacyTrack {
	tracks := make([]LegacyTrack, 0, len(items))
	for _, it := range items {
		if it.Kind == KindVideo {
			continue
		}
		tracks = append(tracks, it.mirror())
	}
	return tracks
}

// withMirror returns the collection with every playlist's legacy mirror
// freshly derived from its items. Playlists whose items are untouched keep
// their identity apart from the recomputed mirror.
func withMirror(playlists []Playlist) []Playlist {
	out := make([]Playlist, len(playlists))
	for i, p := range playlists {
		p.Tracks = buildMirror(p.Items)
		out[i] = p
	}
	return out
}

// FindPlaylist returns the playlist with the given id, or nil.
func FindPlaylist(playlists []Playlist, id int64) *Playlist {
	for i := range playlists {
		if playlists[i].ID == id {
			return &playlists[i]
		}
	}
	return nil
}
