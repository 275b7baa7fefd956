// package store implements the authoritative, observable holder of all
// playlists.
//
// The [Store] owns the durable collection: every read and write of persisted
// playlist data goes through it. Mutations compute a candidate collection,
// compare it structurally against the current one, and commit (persist +
// publish to subscribers) only when something actually changed. Every
// mutation returns an [Outcome] instead of an error; invalid ids and
// duplicate inserts degrade to no-ops.
package store

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cratefm/crate/internal/shared"
)

// StorageKey is the well-known key the serialized collection lives under.
const StorageKey = "playlists"

// Storage persists the collection as one opaque text blob.
//
// Load returns the current blob ("" when nothing was ever saved). Save
// replaces it wholesale; there is no incremental persistence.
type Storage interface {
	Load() (string, error)
	Save(value string) error
}

// Subscriber receives the committed collection synchronously after a write.
type Subscriber func(playlists []Playlist)

// Opts configures a [Store].
type Opts struct {
	Storage Storage
	Logger  *log.Logger
	// Now overrides the clock, in tests mostly. Defaults to [time.Now].
	Now func() time.Time
}

// Store is the process-wide owner of the playlist collection.
//
// Operations are synchronous and run to completion; subscribers are notified
// inline after a committed write, never batched or deferred.
type Store struct {
	mu      sync.Mutex
	storage Storage
	logger  *log.Logger
	now     func() time.Time

	playlists []Playlist
	lastID    int64

	subs    map[int]Subscriber
	nextSub int
}

// New constructs a Store and loads the collection from storage.
//
// Malformed or unreadable persisted data is treated as an empty collection;
// initialization never fails.
func New(opts Opts) *Store {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		storage: opts.Storage,
		logger:  opts.Logger,
		now:     opts.Now,
		subs:    map[int]Subscriber{},
	}

	raw := ""
	if s.storage != nil {
		loaded, err := s.storage.Load()
		if err != nil {
			s.logger.Warn("failed to load persisted playlists, starting empty", "error", err)
		} else {
			raw = loaded
		}
	}

	s.playlists = ParseCollection(raw, s.nowMs())
	for _, p := range s.playlists {
		if p.ID > s.lastID {
			s.lastID = p.ID
		}
	}

	return s
}

// Playlists returns the current collection. The returned slice is shared
// state and must be treated as read-only.
func (s *Store) Playlists() []Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlists
}

// Subscribe registers fn for synchronous notification after every committed
// write. The returned function unsubscribes.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// AddPlaylist appends a new empty playlist and returns it. The id is a
// millisecond timestamp bumped past any id already issued, so ids stay
// unique even for back-to-back creates within the same millisecond.
func (s *Store) AddPlaylist(name string) (Playlist, Outcome) {
	if name == "" {
		return Playlist{}, NoopInvalid
	}

	s.mu.Lock()
	now := s.nowMs()

	id := now
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	p := Playlist{
		ID:        id,
		Name:      name,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := append(clone(s.playlists), p)
	outcome := s.commitAndUnlock(next)
	return p, outcome
}

// DeletePlaylist removes the playlist with the given id. Unknown ids are a
// no-op.
func (s *Store) DeletePlaylist(id int64) Outcome {
	s.mu.Lock()

	next := make([]Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		if p.ID != id {
			next = append(next, p)
		}
	}

	if len(next) == len(s.playlists) {
		s.mu.Unlock()
		return NoopNotFound
	}

	return s.commitAndUnlock(next)
}

// UpdatePlaylist renames a playlist. The operation itself does not guard
// against an identical name; the collection-level change detection still
// suppresses the write when nothing structural changed.
func (s *Store) UpdatePlaylist(id int64, newName string) Outcome {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return NoopNotFound
	}

	next := clone(s.playlists)
	next[idx].Name = newName
	next[idx].UpdatedAt = s.nowMs()

	return s.commitAndUnlock(next)
}

// AddItem normalizes the draft and appends it to the playlist unless an
// existing item matches by id or by equal non-empty (kind, externalId).
// The item's addedAt is always the insertion time.
func (s *Store) AddItem(playlistID int64, d Draft) Outcome {
	s.mu.Lock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		s.mu.Unlock()
		return NoopNotFound
	}

	now := s.nowMs()
	d.AddedAt = now
	item := Normalize(d, now)

	for _, existing := range s.playlists[idx].Items {
		if existing.ID == item.ID {
			s.mu.Unlock()
			return NoopDuplicate
		}
		if existing.Kind == item.Kind && existing.ExternalID != "" && existing.ExternalID == item.ExternalID {
			s.mu.Unlock()
			return NoopDuplicate
		}
	}

	next := clone(s.playlists)
	next[idx].Items = append(cloneItems(next[idx].Items), item)
	next[idx].UpdatedAt = now

	return s.commitAndUnlock(next)
}

// SetItems normalizes every draft and replaces the playlist's items
// wholesale. A resulting sequence element-wise identical to the current one
// is a no-op.
func (s *Store) SetItems(playlistID int64, drafts []Draft) Outcome {
	s.mu.Lock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		s.mu.Unlock()
		return NoopNotFound
	}

	now := s.nowMs()
	sanitized := make([]Item, 0, len(drafts))
	for _, d := range drafts {
		sanitized = append(sanitized, Normalize(d, now))
	}

	if sameItems(s.playlists[idx].Items, sanitized) {
		s.mu.Unlock()
		return NoopUnchanged
	}

	next := clone(s.playlists)
	next[idx].Items = sanitized
	next[idx].UpdatedAt = now

	return s.commitAndUnlock(next)
}

// RemoveItem filters out the item with the given id, preserving the order of
// the remaining items. Unknown playlist or item ids are a no-op.
func (s *Store) RemoveItem(playlistID int64, itemID string) Outcome {
	s.mu.Lock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		s.mu.Unlock()
		return NoopNotFound
	}

	prev := s.playlists[idx].Items
	filtered := make([]Item, 0, len(prev))
	for _, it := range prev {
		if it.ID != itemID {
			filtered = append(filtered, it)
		}
	}

	if len(filtered) == len(prev) {
		s.mu.Unlock()
		return NoopNotFound
	}

	next := clone(s.playlists)
	next[idx].Items = filtered
	next[idx].UpdatedAt = s.nowMs()

	return s.commitAndUnlock(next)
}

// AddTrack is the legacy track-only append. The draft's id is discarded (a
// fresh one is generated), the kind is forced to track, and the artist field
// feeds the subtitle; duplicate detection then runs as in [Store.AddItem].
func (s *Store) AddTrack(playlistID int64, d Draft) Outcome {
	d.ID = ""
	d.Kind = string(KindTrack)
	return s.AddItem(playlistID, d)
}

// SetTracks converts legacy track drafts to items and either seeds an empty
// playlist wholesale or merges into a non-empty one, appending only drafts
// whose id is new and whose (title, subtitle) content does not already
// exist. The merge commits through the wholesale-set path so the legacy
// mirror stays consistent.
func (s *Store) SetTracks(playlistID int64, drafts []Draft) Outcome {
	s.mu.Lock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		s.mu.Unlock()
		return NoopNotFound
	}

	now := s.nowMs()
	incoming := make([]Item, 0, len(drafts))
	for _, d := range drafts {
		incoming = append(incoming, normalizeTrackDraft(d, now))
	}

	prev := s.playlists[idx].Items

	// Seed case: an empty playlist takes the incoming sequence wholesale.
	if len(prev) == 0 {
		if len(incoming) == 0 {
			s.mu.Unlock()
			return NoopUnchanged
		}

		next := clone(s.playlists)
		next[idx].Items = incoming
		next[idx].UpdatedAt = now
		return s.commitAndUnlock(next)
	}

	// Merge case: append only genuinely new entries.
	seen := make(map[string]bool, len(prev))
	content := make(map[string]bool, len(prev))
	for _, it := range prev {
		seen[it.ID] = true
		content[it.contentKey()] = true
	}

	var toAppend []Item
	for _, it := range incoming {
		if seen[it.ID] || content[it.contentKey()] {
			continue
		}
		toAppend = append(toAppend, it)
	}

	if len(toAppend) == 0 {
		s.mu.Unlock()
		return NoopUnchanged
	}

	next := clone(s.playlists)
	next[idx].Items = append(cloneItems(prev), toAppend...)
	next[idx].UpdatedAt = now

	return s.commitAndUnlock(next)
}

// RemoveTrack removes a track by id. Delegates to [Store.RemoveItem].
func (s *Store) RemoveTrack(playlistID int64, trackID string) Outcome {
	return s.RemoveItem(playlistID, trackID)
}

// AddVideo normalizes the draft with the video kind (channel feeding the
// subtitle when absent) and delegates to [Store.AddItem], inheriting its
// duplicate guarantee.
func (s *Store) AddVideo(playlistID int64, d Draft) Outcome {
	d.Kind = string(KindVideo)
	return s.AddItem(playlistID, d)
}

// indexOf returns the position of the playlist with the given id, or -1.
// Caller holds s.mu.
func (s *Store) indexOf(id int64) int {
	for i := range s.playlists {
		if s.playlists[i].ID == id {
			return i
		}
	}
	return -1
}

// commitAndUnlock derives mirrors for the candidate collection, applies
// change detection, and on a real change persists and publishes. It releases
// s.mu before notifying so subscribers may call back into the store.
func (s *Store) commitAndUnlock(next []Playlist) Outcome {
	mirrored := withMirror(next)

	if samePlaylists(s.playlists, mirrored) {
		s.mu.Unlock()
		return NoopUnchanged
	}

	if s.storage != nil {
		raw, err := EncodeCollection(mirrored)
		if err != nil {
			s.logger.Error("failed to serialize playlists", "error", err)
		} else if err := s.storage.Save(raw); err != nil {
			s.logger.Error("failed to persist playlists", "error", err)
		}
	}

	s.playlists = mirrored

	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(mirrored)
	}

	return Applied
}

func (s *Store) nowMs() int64 {
	return s.now().UnixMilli()
}

func clone(playlists []Playlist) []Playlist {
	out := make([]Playlist, len(playlists))
	copy(out, playlists)
	return out
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
