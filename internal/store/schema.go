package store

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The persisted layout is one JSON array of playlist records under a single
// storage key. Two record shapes exist in the wild:
//
//	v0: {id, name, tracks: [legacy track...], createdAt, updatedAt}
//	v1: {id, name, items: [item...], createdAt, updatedAt}
//
// ParseCollection decodes either shape, migrates v0 records to v1 once at
// load, and never fails: corrupt or unexpected data yields an empty
// collection. Records written before typed ids existed may carry numeric
// item ids, so decoding goes through a loose map with coercion helpers.

// ParseCollection decodes raw persisted text into the canonical collection
// with legacy mirrors attached. now supplies addedAt for migrated legacy
// tracks that never recorded one.
func ParseCollection(raw string, now int64) []Playlist {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Playlist{}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return []Playlist{}
	}

	playlists := make([]Playlist, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		playlists = append(playlists, migrateRecord(rec, now))
	}

	return withMirror(playlists)
}

// EncodeCollection serializes the collection for persistence. Mirrors are
// re-derived so the stored text always carries a consistent legacy view.
func EncodeCollection(playlists []Playlist) (string, error) {
	data, err := json.Marshal(withMirror(playlists))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// migrateRecord maps one raw record to the v1 shape. A record that already
// has an items array is taken as-is; otherwise items are synthesized from
// the legacy tracks array, each tagged as a track with the artist field
// mapped onto subtitle. The legacy tracks field is dropped from the
// canonical record either way (the mirror is derived, not stored).
func migrateRecord(rec map[string]any, now int64) Playlist {
	p := Playlist{
		ID:        asInt64(rec["id"]),
		Name:      asString(rec["name"]),
		CreatedAt: asInt64(rec["createdAt"]),
		UpdatedAt: asInt64(rec["updatedAt"]),
	}

	if items, ok := rec["items"].([]any); ok {
		p.Items = decodeItems(items)
		return p
	}

	legacy, _ := rec["tracks"].([]any)
	p.Items = make([]Item, 0, len(legacy))
	for _, entry := range legacy {
		t, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		p.Items = append(p.Items, normalizeTrackDraft(Draft{
			ID:         asString(t["id"]),
			Source:     asString(t["source"]),
			ExternalID: asString(t["externalId"]),
			Title:      asString(t["title"]),
			Artist:     asString(t["artist"]),
			Subtitle:   asString(t["subtitle"]),
			DurationMs: asInt64(t["durationMs"]),
			Thumbnail:  asString(t["thumbnail"]),
			URL:        asString(t["url"]),
			AddedAt:    asInt64(t["addedAt"]),
		}, now))
	}

	return p
}

// decodeItems maps v1 item entries verbatim: records that already have an
// items array are kept as-is, not re-normalized, so loading is idempotent.
func decodeItems(entries []any) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			ID:         asString(m["id"]),
			Kind:       Kind(asString(m["kind"])),
			Source:     asString(m["source"]),
			ExternalID: asString(m["externalId"]),
			Title:      asString(m["title"]),
			Subtitle:   asString(m["subtitle"]),
			DurationMs: asInt64(m["durationMs"]),
			Thumbnail:  asString(m["thumbnail"]),
			URL:        asString(m["url"]),
			AddedAt:    asInt64(m["addedAt"]),
		})
	}
	return items
}

// asString coerces loose JSON values to a string; numeric ids from old
// records come through as their decimal rendering.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// asInt64 coerces loose JSON values to int64, truncating floats.
func asInt64(v any) int64 {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return int64(f)
		}
	}
	return 0
}
