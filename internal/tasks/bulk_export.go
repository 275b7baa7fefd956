package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cratefm/crate/internal/formatter"
	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/store"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for playlist exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: crate_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Jobs dispatched per second (default: 5)
}

// ExportJob is one playlist queued for export.
type ExportJob struct {
	Playlist store.Playlist
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   int64    `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// ExportAllResult summarizes a bulk export run.
type ExportAllResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	Format            string                 `json:"format"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

// Export writes a single playlist to disk in the requested format.
func (e *Engine) Export(ctx context.Context, playlistID int64, opts ExportOpts) (*PlaylistExportResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}

	playlist := store.FindPlaylist(e.store.Playlists(), playlistID)
	if playlist == nil {
		return nil, fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, playlistID)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := e.exportSingle(ctx, ExportJob{Playlist: *playlist}, opts)
	if !result.Success {
		return &result, result.Error
	}
	return &result, nil
}

// ExportAll exports multiple playlists concurrently with rate limiting and
// progress tracking.
//
// Implements a worker pool: jobs are dispatched through a rate limiter,
// partial failures are collected rather than aborting the run, and a manifest
// file summarizing the results is written to the output directory.
func (e *Engine) ExportAll(ctx context.Context, prog chan<- ProgressUpdate, ids []int64, opts ExportOpts) (*ExportAllResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("crate_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(ids) == 0 {
		for _, playlist := range e.store.Playlists() {
			ids = append(ids, playlist.ID)
		}
	}

	result := &ExportAllResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ExportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		playlists := e.store.Playlists()
		for i, id := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			playlist := store.FindPlaylist(playlists, id)
			if playlist == nil {
				results <- PlaylistExportResult{
					PlaylistID:   id,
					PlaylistName: fmt.Sprintf("Unknown (%d)", id),
					Success:      false,
					Error:        fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, id),
				}
				continue
			}

			jobs <- ExportJob{Playlist: *playlist}
			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), playlist.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
		}
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	manifest, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ExportJob,
	results chan<- PlaylistExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.exportSingle(ctx, job, opts)
	}
}

// exportSingle exports a single playlist to the appropriate format.
func (e *Engine) exportSingle(ctx context.Context, j ExportJob, opts ExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.Playlist.ID,
		PlaylistName: j.Playlist.Name,
		Success:      false,
		Files:        []string{},
	}

	base := strconv.FormatInt(j.Playlist.ID, 10)

	switch opts.Format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(j.Playlist, filepath.Join(opts.OutputDir, base))
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.ItemsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		mdRes, err := formatter.WriteMarkdownExport(j.Playlist, filepath.Join(opts.OutputDir, base))
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, base+"_items.txt")
		written, err := formatter.WriteTextExport(j.Playlist, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, base+".json")
		data, err := formatter.ToJSON(j.Playlist, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
