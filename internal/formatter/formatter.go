// package formatter exports playlist data to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/store"
)

// Metadata is the playlist header written alongside item exports.
type Metadata struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func metadata(playlist store.Playlist) Metadata {
	return Metadata{
		ID:        playlist.ID,
		Name:      playlist.Name,
		ItemCount: len(playlist.Items),
		CreatedAt: playlist.CreatedAt,
		UpdatedAt: playlist.UpdatedAt,
	}
}

// ToJSON renders the full playlist, optionally indented.
func ToJSON(playlist store.Playlist, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(playlist, "", "  ")
	}
	return json.Marshal(playlist)
}

// ToCSV converts a playlist's items to CSV with columns: ID, Kind, Title, Subtitle, DurationMs, Source, ExternalID, URL
func ToCSV(playlist store.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Kind", "Title", "Subtitle", "DurationMs", "Source", "ExternalID", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range playlist.Items {
		record := []string{
			item.ID,
			string(item.Kind),
			item.Title,
			item.Subtitle,
			strconv.FormatInt(item.DurationMs, 10),
			item.Source,
			item.ExternalID,
			item.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a playlist to Markdown with an optional cover image.
func ToMarkdown(playlist store.Playlist, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(playlist.Items)))

	buf.WriteString("## Items\n\n")
	for i, item := range playlist.Items {
		kindPart := ""
		if item.Kind == store.KindVideo {
			kindPart = " (video)"
		}
		durationPart := ""
		if item.DurationMs > 0 {
			durationPart = fmt.Sprintf(" [%s]", shared.FormatDuration(item.DurationMs))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, item.Subtitle, item.Title, kindPart, durationPart))
	}

	return buf.Bytes(), nil
}

// ToText converts a playlist to plain text.
func ToText(playlist store.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(playlist.Items)))

	for i, item := range playlist.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, item.Subtitle, item.Title))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile    string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV with an accompanying metadata JSON file.
//
// Defaults to the playlist ID as the base filename & creates {base}_items.csv and {base}_metadata.json
func WriteCSVExport(playlist store.Playlist, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = strconv.FormatInt(playlist.ID, 10)
	}

	csvData, err := ToCSV(playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_items.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := json.MarshalIndent(metadata(playlist), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:    itemsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a playlist to Markdown in a dedicated directory.
//
// Directory name defaults to the playlist ID. The cover image comes from the
// first item's thumbnail when one exists; download failures degrade to a
// Markdown file without a cover.
func WriteMarkdownExport(playlist store.Playlist, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = strconv.FormatInt(playlist.ID, 10)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	imageURL := ""
	if len(playlist.Items) > 0 {
		imageURL = playlist.Items[0].Thumbnail
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ToMarkdown(playlist, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a playlist to plain text.
//
// Defaults to {playlist.ID}_items.txt as the filename.
func WriteTextExport(playlist store.Playlist, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%d_items.txt", playlist.ID)
	}

	textData, err := ToText(playlist)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
