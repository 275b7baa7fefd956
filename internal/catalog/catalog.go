// Package catalog implements a typed client for the upstream search and
// trending API.
//
// The upstream returns linked-partitioned pages: {collection: [...], next_href}.
// A cursor is either empty (first page) or the full next_href URL from a prior
// page, which is replayed as-is with missing default parameters backfilled.
// Every request carries the client_id; responses are cached in memory for a
// short TTL because the upstream rate limits aggressively.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cratefm/crate/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	defaultLimit = 20
	maxLimit     = 50
	defaultGenre = "all-music"
	genrePrefix  = "soundcloud:genres:"
)

// Page is one page of catalog results. NextHref is empty on the last page;
// otherwise it is a full URL usable as the cursor for the following page.
type Page struct {
	Collection   []Entry `json:"collection"`
	NextHref     string  `json:"next_href,omitempty"`
	QueryURN     string  `json:"query_urn,omitempty"`
	TotalResults int     `json:"total_results,omitempty"`
}

// chartItem wraps an entry in the trending charts response.
type chartItem struct {
	Track Entry `json:"track"`
}

type chartPage struct {
	Collection   []chartItem `json:"collection"`
	NextHref     string      `json:"next_href"`
	QueryURN     string      `json:"query_urn"`
	TotalResults int         `json:"total_results"`
}

// Opts configures a catalog [Client].
type Opts struct {
	BaseURL  string
	ClientID string
	// TokenURL and ClientSecret enable OAuth2 client-credentials auth.
	// When unset, requests go out with only the client_id query parameter.
	TokenURL     string
	ClientSecret string
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	// CacheTTL is how long responses are served from memory; zero disables
	// caching.
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to the catalog API.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *responseCache
	logger     *log.Logger
}

// New creates a catalog client. When opts carries OAuth2 client-credentials
// configuration the HTTP client is wrapped with a self-refreshing token
// source.
func New(ctx context.Context, opts Opts) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if opts.TokenURL != "" && opts.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		httpClient = cc.Client(ctx)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	var cache *responseCache
	if opts.CacheTTL > 0 {
		cache = newResponseCache(opts.CacheTTL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		baseURL:    opts.BaseURL,
		clientID:   opts.ClientID,
		httpClient: httpClient,
		limiter:    limiter,
		cache:      cache,
		logger:     logger,
	}
}

// Search queries the catalog for tracks matching q. cursor is empty for the
// first page or a prior page's NextHref.
func (c *Client) Search(ctx context.Context, q string, limit int, cursor string) (*Page, error) {
	if q == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	requestURL, err := c.buildURL("/search/tracks", url.Values{"q": {q}, "limit": {strconv.Itoa(clampLimit(limit))}}, cursor)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := c.get(ctx, requestURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Trending fetches the trending chart for a genre. An empty genre defaults to
// all-music; the upstream genre URN prefix is added when missing.
func (c *Client) Trending(ctx context.Context, genre string, limit int, cursor string) (*Page, error) {
	genre = normalizeGenre(genre)

	requestURL, err := c.buildURL("/charts", url.Values{
		"kind":  {"trending"},
		"genre": {genre},
		"limit": {strconv.Itoa(clampLimit(limit))},
	}, cursor)
	if err != nil {
		return nil, err
	}

	var charts chartPage
	if err := c.get(ctx, requestURL, &charts); err != nil {
		return nil, err
	}

	page := &Page{
		NextHref:     charts.NextHref,
		QueryURN:     charts.QueryURN,
		TotalResults: charts.TotalResults,
	}
	for _, item := range charts.Collection {
		page.Collection = append(page.Collection, item.Track)
	}
	return page, nil
}

// buildURL resolves the request URL: a non-empty cursor is a full next_href
// replayed verbatim, otherwise the path is joined to the base URL. In both
// cases missing default parameters are backfilled without overwriting any the
// URL already carries.
func (c *Client) buildURL(path string, params url.Values, cursor string) (string, error) {
	raw := cursor
	if raw == "" {
		raw = c.baseURL + path
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse request URL: %w", err)
	}

	query := u.Query()
	if cursor == "" {
		for key, values := range params {
			query[key] = values
		}
	}
	if query.Get("client_id") == "" && c.clientID != "" {
		query.Set("client_id", c.clientID)
	}
	if query.Get("linked_partitioning") == "" {
		query.Set("linked_partitioning", "1")
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

func (c *Client) get(ctx context.Context, requestURL string, result any) error {
	if c.cache != nil {
		if c.cache.get(requestURL, result) {
			return nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait cancelled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "url", requestURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body := json.NewDecoder(resp.Body)
	if err := body.Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if c.cache != nil {
		c.cache.put(requestURL, result)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func normalizeGenre(genre string) string {
	if genre == "" || genre == "undefined" || genre == "null" {
		genre = defaultGenre
	}
	if len(genre) < len(genrePrefix) || genre[:len(genrePrefix)] != genrePrefix {
		genre = genrePrefix + genre
	}
	return genre
}

// responseCache holds decoded response bodies for a fixed TTL, keyed by
// request URL.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (rc *responseCache) get(key string, result any) bool {
	rc.mu.Lock()
	entry, ok := rc.entries[key]
	if ok && time.Now().After(entry.expires) {
		delete(rc.entries, key)
		ok = false
	}
	rc.mu.Unlock()

	if !ok {
		return false
	}
	return json.Unmarshal(entry.body, result) == nil
}

func (rc *responseCache) put(key string, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		return
	}
	rc.mu.Lock()
	rc.entries[key] = cacheEntry{body: body, expires: time.Now().Add(rc.ttl)}
	rc.mu.Unlock()
}
