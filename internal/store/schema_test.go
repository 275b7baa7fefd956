package store

import (
	"strings"
	"testing"
)

func TestParseCollection(t *testing.T) {
	const now = int64(1700000000000)

	t.Run("empty and whitespace input", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\n"} {
			if got := ParseCollection(raw, now); len(got) != 0 {
				t.Errorf("ParseCollection(%q) = %v, want empty", raw, got)
			}
		}
	})

	t.Run("corrupt input recovers to empty", func(t *testing.T) {
		for _, raw := range []string{"{", "null", `"text"`, "[{]"} {
			if got := ParseCollection(raw, now); len(got) != 0 {
				t.Errorf("ParseCollection(%q) = %v, want empty", raw, got)
			}
		}
	})

	t.Run("numeric legacy ids are coerced to strings", func(t *testing.T) {
		raw := `[{"id":1,"name":"A","tracks":[{"id":12345,"title":"T"}]}]`
		got := ParseCollection(raw, now)
		if len(got) != 1 || len(got[0].Items) != 1 {
			t.Fatalf("unexpected parse result: %+v", got)
		}
		if got[0].Items[0].ID != "12345" {
			t.Errorf("expected coerced id 12345, got %s", got[0].Items[0].ID)
		}
	})

	t.Run("legacy duration and addedAt carry over", func(t *testing.T) {
		raw := `[{"id":1,"name":"A","tracks":[{"id":"t","title":"T","durationMs":90000,"addedAt":77}]}]`
		got := ParseCollection(raw, now)
		it := got[0].Items[0]
		if it.DurationMs != 90000 {
			t.Errorf("expected duration 90000, got %d", it.DurationMs)
		}
		if it.AddedAt != 77 {
			t.Errorf("expected addedAt 77, got %d", it.AddedAt)
		}
	})

	t.Run("legacy record without addedAt gets now", func(t *testing.T) {
		raw := `[{"id":1,"name":"A","tracks":[{"id":"t","title":"T"}]}]`
		got := ParseCollection(raw, now)
		if got[0].Items[0].AddedAt != now {
			t.Errorf("expected addedAt %d, got %d", now, got[0].Items[0].AddedAt)
		}
	})

	t.Run("mixed record shapes in one collection", func(t *testing.T) {
		raw := `[
			{"id":1,"name":"Old","tracks":[{"id":"t","title":"T","artist":"X"}]},
			{"id":2,"name":"New","items":[{"id":"i","kind":"video","title":"V"}]}
		]`
		got := ParseCollection(raw, now)
		if len(got) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(got))
		}
		if got[0].Items[0].Kind != KindTrack || got[1].Items[0].Kind != KindVideo {
			t.Errorf("migration mixed up kinds: %+v", got)
		}
	})

	t.Run("mirror is attached on load", func(t *testing.T) {
		raw := `[{"id":1,"name":"A","items":[{"id":"i","kind":"track","title":"T","subtitle":"S"}]}]`
		got := ParseCollection(raw, now)
		if len(got[0].Tracks) != 1 || got[0].Tracks[0].Artist != "S" {
			t.Errorf("expected derived mirror, got %+v", got[0].Tracks)
		}
	})
}

func TestEncodeCollection(t *testing.T) {
	playlists := []Playlist{{
		ID:   7,
		Name: "Mix",
		Items: []Item{
			{ID: "a", Kind: KindTrack, Title: "T", Subtitle: "X", Source: "spotify"},
			{ID: "b", Kind: KindVideo, Title: "V", Subtitle: "C", Source: "youtube"},
		},
	}}

	raw, err := EncodeCollection(playlists)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	t.Run("embeds the legacy mirror", func(t *testing.T) {
		if !strings.Contains(raw, `"tracks":[{"id":"a"`) {
			t.Errorf("expected mirror in persisted text, got %s", raw)
		}
		if !strings.Contains(raw, `"artist":"X"`) {
			t.Errorf("expected artist field in mirror, got %s", raw)
		}
	})

	t.Run("round-trips through ParseCollection", func(t *testing.T) {
		got := ParseCollection(raw, 1)
		if len(got) != 1 || len(got[0].Items) != 2 {
			t.Fatalf("round trip lost data: %+v", got)
		}
		if !samePlaylists(withMirror(playlists), got) {
			t.Error("round-tripped collection differs structurally")
		}
	})
}
