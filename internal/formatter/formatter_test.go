package formatter

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cratefm/crate/internal/store"
)

func samplePlaylist() store.Playlist {
	return store.Playlist{
		ID:   1700000000000,
		Name: "Late Night",
		Items: []store.Item{
			{
				ID:         "a",
				Kind:       store.KindTrack,
				Source:     store.SourceTrack,
				ExternalID: "101",
				Title:      "One More Time",
				Subtitle:   "Daft Punk",
				DurationMs: 320000,
				URL:        "https://upstream.example/t/101",
			},
			{
				ID:         "b",
				Kind:       store.KindVideo,
				Source:     store.SourceVideo,
				ExternalID: "dQw4",
				Title:      "Live Set",
				Subtitle:   "Boiler Room",
			},
		},
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000001000,
	}
}

func TestToJSON(t *testing.T) {
	t.Run("Compact", func(t *testing.T) {
		data, err := ToJSON(samplePlaylist(), false)
		if err != nil {
			t.Fatalf("failed to generate JSON: %v", err)
		}

		var decoded store.Playlist
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output does not parse: %v", err)
		}
		if decoded.Name != "Late Night" || len(decoded.Items) != 2 {
			t.Errorf("unexpected round trip: %+v", decoded)
		}
	})

	t.Run("Pretty", func(t *testing.T) {
		data, err := ToJSON(samplePlaylist(), true)
		if err != nil {
			t.Fatalf("failed to generate JSON: %v", err)
		}
		if !strings.Contains(string(data), "\n  ") {
			t.Error("expected indented output")
		}
	})
}

func TestToCSV(t *testing.T) {
	data, err := ToCSV(samplePlaylist())
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse as CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][4] != "DurationMs" {
		t.Errorf("unexpected headers: %v", records[0])
	}
	if records[1][2] != "One More Time" || records[1][4] != "320000" {
		t.Errorf("unexpected track row: %v", records[1])
	}
	if records[2][1] != "video" || records[2][3] != "Boiler Room" {
		t.Errorf("unexpected video row: %v", records[2])
	}
}

func TestToMarkdown(t *testing.T) {
	t.Run("Without Cover", func(t *testing.T) {
		data, err := ToMarkdown(samplePlaylist(), "")
		if err != nil {
			t.Fatalf("failed to generate Markdown: %v", err)
		}
		md := string(data)

		if !strings.Contains(md, "# Late Night") {
			t.Error("expected playlist name heading")
		}
		if strings.Contains(md, "![Cover]") {
			t.Error("did not expect cover image reference")
		}
		if !strings.Contains(md, "**Items**: 2") {
			t.Error("expected item count")
		}
		if !strings.Contains(md, "1. Daft Punk - One More Time [5:20]") {
			t.Errorf("expected formatted track line, got:\n%s", md)
		}
		if !strings.Contains(md, "2. Boiler Room - Live Set (video)") {
			t.Errorf("expected video tag on video item, got:\n%s", md)
		}
	})

	t.Run("With Cover", func(t *testing.T) {
		data, err := ToMarkdown(samplePlaylist(), "cover.jpg")
		if err != nil {
			t.Fatalf("failed to generate Markdown: %v", err)
		}
		if !strings.Contains(string(data), "![Cover](cover.jpg)") {
			t.Error("expected cover image reference")
		}
	})
}

func TestToText(t *testing.T) {
	data, err := ToText(samplePlaylist())
	if err != nil {
		t.Fatalf("failed to generate text: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "Playlist: Late Night") {
		t.Error("expected playlist header")
	}
	if !strings.Contains(text, "1. Daft Punk - One More Time") {
		t.Error("expected numbered item line")
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "export")

	result, err := WriteCSVExport(samplePlaylist(), base)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}

	if result.ItemsFile != base+"_items.csv" {
		t.Errorf("unexpected items file %q", result.ItemsFile)
	}
	if _, err := os.Stat(result.ItemsFile); err != nil {
		t.Errorf("items file missing: %v", err)
	}

	metadataJSON, err := os.ReadFile(result.MetadataFile)
	if err != nil {
		t.Fatalf("metadata file missing: %v", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metadataJSON, &meta); err != nil {
		t.Fatalf("metadata does not parse: %v", err)
	}
	if meta.Name != "Late Night" || meta.ItemCount != 2 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("With Downloadable Cover", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake image bytes"))
		}))
		defer server.Close()

		playlist := samplePlaylist()
		playlist.Items[0].Thumbnail = server.URL + "/art.jpg"

		dir := filepath.Join(t.TempDir(), "md")
		result, err := WriteMarkdownExport(playlist, dir)
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		if result.CoverImage == "" {
			t.Error("expected cover image to be written")
		}
		readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if err != nil {
			t.Fatalf("README missing: %v", err)
		}
		if !strings.Contains(string(readme), "![Cover](cover.jpg)") {
			t.Error("expected README to reference the cover")
		}
	})

	t.Run("Cover Failure Degrades", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		playlist := samplePlaylist()
		playlist.Items[0].Thumbnail = server.URL + "/missing.jpg"

		dir := filepath.Join(t.TempDir(), "md")
		result, err := WriteMarkdownExport(playlist, dir)
		if err != nil {
			t.Fatalf("expected export to succeed without cover: %v", err)
		}
		if result.CoverImage != "" {
			t.Error("expected no cover image on download failure")
		}
		if _, err := os.Stat(filepath.Join(dir, "README.md")); err != nil {
			t.Errorf("README missing: %v", err)
		}
	})
}

func TestWriteTextExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	written, err := WriteTextExport(samplePlaylist(), path)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	if written != path {
		t.Errorf("unexpected path %q", written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.Contains(string(data), "Playlist: Late Night") {
		t.Error("unexpected text content")
	}
}
