package store

// sameItems reports element-wise equality of two item sequences by the
// (id, kind, externalId) triple, in order. Anything deeper (title edits,
// thumbnails, timestamps) is deliberately ignored: two sequences that agree
// on identity are the same sequence for change-detection purposes.
func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
		if kindOrTrack(a[i].Kind) != kindOrTrack(b[i].Kind) {
			return false
		}
		if a[i].ExternalID != b[i].ExternalID {
			return false
		}
	}
	return true
}

func kindOrTrack(k Kind) Kind {
	if k == "" {
		return KindTrack
	}
	return k
}

// samePlaylists reports structural equality of two collections over playlist
// id and name plus element-wise item identity. Equal collections must never
// be persisted or republished.
func samePlaylists(prev, next []Playlist) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if prev[i].ID != next[i].ID {
			return false
		}
		if prev[i].Name != next[i].Name {
			return false
		}
		if !sameItems(prev[i].Items, next[i].Items) {
			return false
		}
	}
	return true
}
