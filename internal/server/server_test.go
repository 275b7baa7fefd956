package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cratefm/crate/internal/catalog"
	"github.com/cratefm/crate/internal/storage"
	"github.com/cratefm/crate/internal/store"
)

type stubCatalog struct {
	page        *catalog.Page
	err         error
	lastQuery   string
	lastGenre   string
	lastCursor  string
	searchCalls int
}

func (s *stubCatalog) Search(ctx context.Context, q string, limit int, cursor string) (*catalog.Page, error) {
	s.searchCalls++
	s.lastQuery = q
	s.lastCursor = cursor
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubCatalog) Trending(ctx context.Context, genre string, limit int, cursor string) (*catalog.Page, error) {
	s.lastGenre = genre
	s.lastCursor = cursor
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func newTestStore() *store.Store {
	base := int64(1700000000000)
	return store.New(store.Opts{
		Storage: storage.NewMemory(""),
		Now: func() time.Time {
			base++
			return time.UnixMilli(base)
		},
	})
}

func newTestRouter(st *store.Store, cat Catalog) *BasicRouter {
	router := NewBasicRouter()
	router.Handler(NewPlaylistHandler(st))
	if cat != nil {
		router.Handler(NewCatalogHandler(cat, nil))
	}
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeMutation(t *testing.T, recorder *httptest.ResponseRecorder) mutationResponse {
	t.Helper()

	var resp mutationResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response does not parse: %v\n%s", err, recorder.Body.String())
	}
	return resp
}

func TestPlaylistHandler(t *testing.T) {
	t.Run("Create And List", func(t *testing.T) {
		router := newTestRouter(newTestStore(), nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/playlists", map[string]string{"name": "Mix"})
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		created := decodeMutation(t, recorder)
		if created.Outcome != "applied" || created.Playlist == nil {
			t.Fatalf("unexpected create response: %+v", created)
		}

		recorder = doJSON(t, router, http.MethodGet, "/api/playlists", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var playlists []store.Playlist
		if err := json.Unmarshal(recorder.Body.Bytes(), &playlists); err != nil {
			t.Fatalf("list does not parse: %v", err)
		}
		if len(playlists) != 1 || playlists[0].Name != "Mix" {
			t.Errorf("unexpected list: %+v", playlists)
		}
	})

	t.Run("Create Empty Name Rejected", func(t *testing.T) {
		router := newTestRouter(newTestStore(), nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/playlists", map[string]string{"name": ""})
		if recorder.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", recorder.Code)
		}
	})

	t.Run("Get Single Playlist", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		router := newTestRouter(st, nil)

		recorder := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/playlists/%d", playlist.ID), nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		recorder = doJSON(t, router, http.MethodGet, "/api/playlists/999", nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unknown id, got %d", recorder.Code)
		}
	})

	t.Run("Rename", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Old")
		router := newTestRouter(st, nil)

		recorder := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/playlists/%d", playlist.ID), map[string]string{"name": "New"})
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		resp := decodeMutation(t, recorder)
		if resp.Outcome != "applied" || resp.Playlist.Name != "New" {
			t.Errorf("unexpected rename response: %+v", resp)
		}

		// Same name again is suppressed by change detection.
		recorder = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/playlists/%d", playlist.ID), map[string]string{"name": "New"})
		resp = decodeMutation(t, recorder)
		if recorder.Code != http.StatusOK || resp.Outcome != "noop_unchanged" {
			t.Errorf("expected unchanged noop, got %d %+v", recorder.Code, resp)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		router := newTestRouter(st, nil)

		recorder := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/playlists/%d", playlist.ID), nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		recorder = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/playlists/%d", playlist.ID), nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404 on second delete, got %d", recorder.Code)
		}
	})

	t.Run("Add Item", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		router := newTestRouter(st, nil)

		draft := store.Draft{Title: "One More Time", Artist: "Daft Punk", ExternalID: "101"}
		recorder := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/playlists/%d/items", playlist.ID), draft)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		resp := decodeMutation(t, recorder)
		if len(resp.Playlist.Items) != 1 || resp.Playlist.Items[0].Subtitle != "Daft Punk" {
			t.Errorf("unexpected item: %+v", resp.Playlist.Items)
		}

		// Same external id is a duplicate.
		recorder = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/playlists/%d/items", playlist.ID), draft)
		if recorder.Code != http.StatusConflict {
			t.Errorf("expected 409 for duplicate, got %d", recorder.Code)
		}
	})

	t.Run("Set Items", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		router := newTestRouter(st, nil)

		drafts := []store.Draft{
			{ID: "a", Title: "A"},
			{ID: "b", Title: "B"},
		}
		recorder := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/playlists/%d/items", playlist.ID), drafts)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		resp := decodeMutation(t, recorder)
		if len(resp.Playlist.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(resp.Playlist.Items))
		}

		// Structurally identical replacement is suppressed.
		recorder = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/playlists/%d/items", playlist.ID), drafts)
		resp = decodeMutation(t, recorder)
		if resp.Outcome != "noop_unchanged" {
			t.Errorf("expected unchanged noop, got %+v", resp)
		}
	})

	t.Run("Remove Item", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		st.AddItem(playlist.ID, store.Draft{ID: "a", Title: "A"})
		router := newTestRouter(st, nil)

		recorder := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/playlists/%d/items/a", playlist.ID), nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		resp := decodeMutation(t, recorder)
		if len(resp.Playlist.Items) != 0 {
			t.Errorf("expected empty items, got %+v", resp.Playlist.Items)
		}
	})

	t.Run("Add Video And Mirror", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		router := newTestRouter(st, nil)

		recorder := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/playlists/%d/videos", playlist.ID),
			store.Draft{Title: "Live Set", Channel: "Boiler Room", ExternalID: "v1"})
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
		resp := decodeMutation(t, recorder)
		if resp.Playlist.Items[0].Kind != store.KindVideo {
			t.Errorf("expected video kind, got %s", resp.Playlist.Items[0].Kind)
		}
		if len(resp.Playlist.Tracks) != 0 {
			t.Errorf("expected video excluded from track mirror, got %+v", resp.Playlist.Tracks)
		}
	})

	t.Run("Seed Tracks", func(t *testing.T) {
		st := newTestStore()
		playlist, _ := st.AddPlaylist("Mix")
		router := newTestRouter(st, nil)

		drafts := []store.Draft{
			{Title: "A", Artist: "X"},
			{Title: "B", Artist: "Y"},
		}
		recorder := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/playlists/%d/tracks", playlist.ID), drafts)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		resp := decodeMutation(t, recorder)
		if len(resp.Playlist.Items) != 2 || len(resp.Playlist.Tracks) != 2 {
			t.Errorf("expected seeded items with mirror, got %+v", resp.Playlist)
		}
	})

	t.Run("Invalid ID", func(t *testing.T) {
		router := newTestRouter(newTestStore(), nil)

		recorder := doJSON(t, router, http.MethodGet, "/api/playlists/abc", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("Unknown Playlist Mutation", func(t *testing.T) {
		router := newTestRouter(newTestStore(), nil)

		recorder := doJSON(t, router, http.MethodPost, "/api/playlists/999/items", store.Draft{Title: "A"})
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", recorder.Code)
		}
	})
}

func TestCatalogHandler(t *testing.T) {
	t.Run("Search Proxied", func(t *testing.T) {
		cat := &stubCatalog{page: &catalog.Page{
			Collection: []catalog.Entry{{ID: 1, Title: "Hit"}},
			NextHref:   "https://upstream.example/next",
		}}
		router := newTestRouter(newTestStore(), cat)

		recorder := doJSON(t, router, http.MethodGet, "/api/search?q=daft+punk&limit=10", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if cat.lastQuery != "daft punk" {
			t.Errorf("expected query passthrough, got %q", cat.lastQuery)
		}

		var page catalog.Page
		if err := json.Unmarshal(recorder.Body.Bytes(), &page); err != nil {
			t.Fatalf("response does not parse: %v", err)
		}
		if page.NextHref != "https://upstream.example/next" {
			t.Errorf("expected next_href passthrough, got %q", page.NextHref)
		}
	})

	t.Run("Search Requires Query", func(t *testing.T) {
		router := newTestRouter(newTestStore(), &stubCatalog{})

		recorder := doJSON(t, router, http.MethodGet, "/api/search", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("Search Upstream Failure", func(t *testing.T) {
		router := newTestRouter(newTestStore(), &stubCatalog{err: errors.New("down")})

		recorder := doJSON(t, router, http.MethodGet, "/api/search?q=x", nil)
		if recorder.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", recorder.Code)
		}
	})

	t.Run("Trending Failure Degrades To Empty Page", func(t *testing.T) {
		router := newTestRouter(newTestStore(), &stubCatalog{err: errors.New("down")})

		recorder := doJSON(t, router, http.MethodGet, "/api/charts/trending?genre=house", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), `"collection":[]`) {
			t.Errorf("expected empty collection, got %s", recorder.Body.String())
		}
	})

	t.Run("Undefined Cursor Dropped", func(t *testing.T) {
		cat := &stubCatalog{page: &catalog.Page{}}
		router := newTestRouter(newTestStore(), cat)

		recorder := doJSON(t, router, http.MethodGet, "/api/search?q=x&cursor=undefined", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if cat.lastCursor != "" {
			t.Errorf("expected undefined cursor to be dropped, got %q", cat.lastCursor)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		router := newTestRouter(newTestStore(), &stubCatalog{})

		recorder := doJSON(t, router, http.MethodGet, "/api/ping", nil)
		if recorder.Code != http.StatusOK || recorder.Body.String() != "ok" {
			t.Errorf("unexpected ping response: %d %q", recorder.Code, recorder.Body.String())
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("CORS Headers And Preflight", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(CORS("http://localhost:5173"))
		router.Handle(http.MethodGet, "/api/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Errorf("expected 204 preflight, got %d", recorder.Code)
		}
		if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("unexpected allow-origin %q", got)
		}

		req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		recorder = httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("expected CORS header on normal response")
		}
	})

	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET,POST", "/multi", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		for _, method := range []string{http.MethodGet, http.MethodPost} {
			req := httptest.NewRequest(method, "/multi", nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			if recorder.Code != http.StatusOK {
				t.Errorf("expected %s to be allowed, got %d", method, recorder.Code)
			}
		}

		req := httptest.NewRequest(http.MethodDelete, "/multi", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", recorder.Code)
		}
	})
}
