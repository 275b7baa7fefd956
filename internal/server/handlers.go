package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cratefm/crate/internal/catalog"
	"github.com/cratefm/crate/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// mutationResponse is the body returned by every playlist mutation.
type mutationResponse struct {
	Outcome  string          `json:"outcome"`
	Playlist *store.Playlist `json:"playlist,omitempty"`
}

// statusFor maps a store outcome to an HTTP status. applied is the status for
// a committed write (200 for updates, 201 for creates).
func statusFor(outcome store.Outcome, applied int) int {
	switch outcome {
	case store.Applied:
		return applied
	case store.NoopUnchanged:
		return http.StatusOK
	case store.NoopNotFound:
		return http.StatusNotFound
	case store.NoopDuplicate:
		return http.StatusConflict
	case store.NoopInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// PlaylistHandler serves the playlist collection REST surface.
//
// Routes:
//
//	GET    /api/playlists                       list the collection
//	POST   /api/playlists                       create a playlist
//	PUT    /api/playlists/{id}                  rename a playlist
//	DELETE /api/playlists/{id}                  delete a playlist
//	POST   /api/playlists/{id}/items            add one item
//	PUT    /api/playlists/{id}/items            replace all items
//	DELETE /api/playlists/{id}/items/{itemID}   remove one item
//	POST   /api/playlists/{id}/tracks           add one track
//	PUT    /api/playlists/{id}/tracks           seed or merge tracks
//	POST   /api/playlists/{id}/videos           add one video
type PlaylistHandler struct {
	store *store.Store
}

// NewPlaylistHandler creates a handler over the given store.
func NewPlaylistHandler(st *store.Store) *PlaylistHandler {
	return &PlaylistHandler{store: st}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{"/api/playlists", "/api/playlists/"}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/playlists"), "/")

	if rest == "" {
		h.collection(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	switch {
	case len(parts) == 1:
		h.playlist(w, r, id)
	case len(parts) == 2 && parts[1] == "items":
		h.items(w, r, id)
	case len(parts) == 3 && parts[1] == "items":
		h.item(w, r, id, parts[2])
	case len(parts) == 2 && parts[1] == "tracks":
		h.tracks(w, r, id)
	case len(parts) == 3 && parts[1] == "tracks":
		h.track(w, r, id, parts[2])
	case len(parts) == 2 && parts[1] == "videos":
		h.videos(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "unknown route")
	}
}

func (h *PlaylistHandler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		playlists := h.store.Playlists()
		if playlists == nil {
			playlists = []store.Playlist{}
		}
		writeJSON(w, http.StatusOK, playlists)

	case http.MethodPost:
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		playlist, outcome := h.store.AddPlaylist(body.Name)
		resp := mutationResponse{Outcome: outcome.String()}
		if outcome == store.Applied {
			resp.Playlist = &playlist
		}
		writeJSON(w, statusFor(outcome, http.StatusCreated), resp)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PlaylistHandler) playlist(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		playlist := store.FindPlaylist(h.store.Playlists(), id)
		if playlist == nil {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		writeJSON(w, http.StatusOK, playlist)

	case http.MethodPut, http.MethodPatch:
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.respond(w, h.store.UpdatePlaylist(id, body.Name), id, http.StatusOK)

	case http.MethodDelete:
		outcome := h.store.DeletePlaylist(id)
		writeJSON(w, statusFor(outcome, http.StatusOK), mutationResponse{Outcome: outcome.String()})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PlaylistHandler) items(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodPost:
		var draft store.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.respond(w, h.store.AddItem(id, draft), id, http.StatusCreated)

	case http.MethodPut:
		var drafts []store.Draft
		if err := json.NewDecoder(r.Body).Decode(&drafts); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.respond(w, h.store.SetItems(id, drafts), id, http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PlaylistHandler) item(w http.ResponseWriter, r *http.Request, id int64, itemID string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.respond(w, h.store.RemoveItem(id, itemID), id, http.StatusOK)
}

func (h *PlaylistHandler) tracks(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodPost:
		var draft store.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.respond(w, h.store.AddTrack(id, draft), id, http.StatusCreated)

	case http.MethodPut:
		var drafts []store.Draft
		if err := json.NewDecoder(r.Body).Decode(&drafts); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.respond(w, h.store.SetTracks(id, drafts), id, http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PlaylistHandler) track(w http.ResponseWriter, r *http.Request, id int64, trackID string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.respond(w, h.store.RemoveTrack(id, trackID), id, http.StatusOK)
}

func (h *PlaylistHandler) videos(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var draft store.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respond(w, h.store.AddVideo(id, draft), id, http.StatusCreated)
}

func (h *PlaylistHandler) respond(w http.ResponseWriter, outcome store.Outcome, id int64, applied int) {
	resp := mutationResponse{Outcome: outcome.String()}
	if outcome != store.NoopNotFound {
		resp.Playlist = store.FindPlaylist(h.store.Playlists(), id)
	}
	writeJSON(w, statusFor(outcome, applied), resp)
}

// Catalog is the slice of the catalog client the handler needs.
type Catalog interface {
	Search(ctx context.Context, q string, limit int, cursor string) (*catalog.Page, error)
	Trending(ctx context.Context, genre string, limit int, cursor string) (*catalog.Page, error)
}

// CatalogHandler proxies search and trending requests to the upstream catalog.
type CatalogHandler struct {
	catalog Catalog
	logger  *log.Logger
}

// NewCatalogHandler creates a handler over the given catalog client.
func NewCatalogHandler(cat Catalog, logger *log.Logger) *CatalogHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogHandler{catalog: cat, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{"/api/search", "/api/charts/trending", "/api/ping"}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	cursor := normalizeCursor(query.Get("cursor"))

	switch r.URL.Path {
	case "/api/ping":
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))

	case "/api/search":
		q := query.Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		if h.catalog == nil {
			writeError(w, http.StatusServiceUnavailable, "catalog not configured")
			return
		}
		page, err := h.catalog.Search(r.Context(), q, limit, cursor)
		if err != nil {
			h.logger.Error("search request failed", "query", q, "error", err)
			writeError(w, http.StatusBadGateway, "catalog unavailable")
			return
		}
		writeJSON(w, http.StatusOK, page)

	case "/api/charts/trending":
		if h.catalog == nil {
			writeJSON(w, http.StatusOK, &catalog.Page{Collection: []catalog.Entry{}})
			return
		}
		// Upstream hiccups degrade to an empty page so the browsing UI
		// keeps rendering.
		page, err := h.catalog.Trending(r.Context(), query.Get("genre"), limit, cursor)
		if err != nil {
			h.logger.Error("trending request failed", "error", err)
			page = &catalog.Page{Collection: []catalog.Entry{}}
		}
		if page.Collection == nil {
			page.Collection = []catalog.Entry{}
		}
		writeJSON(w, http.StatusOK, page)

	default:
		writeError(w, http.StatusNotFound, "unknown route")
	}
}

// normalizeCursor drops the literal "undefined"/"null" strings browser
// clients sometimes send for an absent cursor.
func normalizeCursor(cursor string) string {
	if strings.EqualFold(cursor, "undefined") || strings.EqualFold(cursor, "null") {
		return ""
	}
	return cursor
}
