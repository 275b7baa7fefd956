// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/cratefm/crate/internal/catalog"
)

// MockCatalog is a test double for the catalog client. It returns the
// configured page for every feed and records the last request it saw.
type MockCatalog struct {
	Page *catalog.Page
	Err  error

	LastQuery  string
	LastGenre  string
	LastCursor string
}

func (m *MockCatalog) Search(ctx context.Context, q string, limit int, cursor string) (*catalog.Page, error) {
	m.LastQuery = q
	m.LastCursor = cursor
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Page != nil {
		return m.Page, nil
	}
	return &catalog.Page{}, nil
}

func (m *MockCatalog) Trending(ctx context.Context, genre string, limit int, cursor string) (*catalog.Page, error) {
	m.LastGenre = genre
	m.LastCursor = cursor
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Page != nil {
		return m.Page, nil
	}
	return &catalog.Page{}, nil
}

// PageOf builds a catalog page of track entries with the given titles.
func PageOf(titles ...string) *catalog.Page {
	page := &catalog.Page{}
	for i, title := range titles {
		page.Collection = append(page.Collection, catalog.Entry{
			ID:    int64(i + 1),
			Kind:  "track",
			Title: title,
			User:  catalog.User{Username: "tester"},
		})
	}
	return page
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
