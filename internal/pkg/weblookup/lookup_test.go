package weblookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="results">
  <div class="result">
    <a rel="nofollow" class="result__a" href="https://www.mit.edu/">MIT</a>
    <a class="result__snippet" href="https://duckduckgo.com/l/?uddg=x">snippet</a>
  </div>
  <div class="result">
    <a rel="nofollow" class="result__a" href="https://ocw.mit.edu/">OCW</a>
  </div>
</div>
</body></html>`

func TestLookup_ReturnsFirstResultHref(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	finder := NewHTMLFinder(server.URL, "Mozilla/5.0", 2*time.Second)

	href, found := finder.Lookup(context.Background(), "MIT")
	require.True(t, found)

	assert.Equal(t, "https://www.mit.edu/", href)
	assert.Equal(t, "MIT official website", gotQuery)
	assert.Equal(t, "Mozilla/5.0", gotAgent)
}

func TestLookup_NoResultAnchors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No results.</p></body></html>`))
	}))
	defer server.Close()

	finder := NewHTMLFinder(server.URL, "Mozilla/5.0", 2*time.Second)

	_, found := finder.Lookup(context.Background(), "Obscure Academy")
	assert.False(t, found)
}

func TestLookup_SkipsRelativeHrefs(t *testing.T) {
	page := `<html><body>
<a class="result__a" href="/l/?uddg=redirect">redirect</a>
<a class="result__a" href="https://example.edu/">Example</a>
</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	finder := NewHTMLFinder(server.URL, "Mozilla/5.0", 2*time.Second)

	href, found := finder.Lookup(context.Background(), "Example")
	require.True(t, found)
	assert.Equal(t, "https://example.edu/", href)
}

func TestLookup_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	finder := NewHTMLFinder(server.URL, "Mozilla/5.0", 2*time.Second)

	_, found := finder.Lookup(context.Background(), "MIT")
	assert.False(t, found)
}

func TestLookup_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	finder := NewHTMLFinder(server.URL, "Mozilla/5.0", 500*time.Millisecond)

	_, found := finder.Lookup(context.Background(), "MIT")
	assert.False(t, found)
}

func TestFirstResultHref_MalformedHTML(t *testing.T) {
	_, found := firstResultHref(strings.NewReader("<a class='result__a"))
	assert.False(t, found)
}
