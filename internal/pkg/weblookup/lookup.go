// Package weblookup finds official websites for schools through a
// best-effort HTML search. Lookups never fail hard: any network or parse
// problem is reported as "no result".
package weblookup

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/oguzk/schoolatlas/internal/pkg/logger"
)

// resultAnchorClass marks result links in the DuckDuckGo HTML endpoint.
const resultAnchorClass = "result__a"

// Finder resolves a school name to a website URL.
type Finder interface {
	// Lookup returns the first plausible website URL for the given name.
	// The boolean is false when no result was found; Lookup never returns
	// an error.
	Lookup(ctx context.Context, name string) (string, bool)
}

// HTMLFinder queries an HTML search endpoint and scans the response for the
// first result anchor with an absolute http(s) href.
type HTMLFinder struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

// NewHTMLFinder creates an HTMLFinder against the given search endpoint.
func NewHTMLFinder(endpoint, userAgent string, timeout time.Duration) *HTMLFinder {
	return &HTMLFinder{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Lookup implements Finder.
func (f *HTMLFinder) Lookup(ctx context.Context, name string) (string, bool) {
	query := url.Values{}
	query.Set("q", name+" official website")
	searchURL := strings.TrimRight(f.endpoint, "/") + "/?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		logger.Warn().Err(err).Str("name", name).Msg("Website lookup request build failed")
		return "", false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("name", name).Msg("Website lookup request failed")
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Str("name", name).Msg("Website lookup returned non-OK status")
		return "", false
	}

	href, ok := firstResultHref(resp.Body)
	if !ok {
		logger.Info().Str("name", name).Msg("Website lookup found no result")
		return "", false
	}

	return href, true
}

// firstResultHref tokenizes the response body and returns the href of the
// first result anchor that carries an absolute http(s) URL.
func firstResultHref(body io.Reader) (string, bool) {
	tokenizer := html.NewTokenizer(body)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way there is no result
			return "", false
		case html.StartTagToken:
			token := tokenizer.Token()
			if token.Data != "a" {
				continue
			}
			if href, ok := resultHref(token); ok {
				return href, true
			}
		}
	}
}

// resultHref extracts the href from an anchor token when the anchor is a
// search result link with an absolute URL.
func resultHref(token html.Token) (string, bool) {
	var href string
	var isResult bool
	for _, attr := range token.Attr {
		switch attr.Key {
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				if class == resultAnchorClass {
					isResult = true
				}
			}
		case "href":
			href = attr.Val
		}
	}

	if !isResult || !strings.HasPrefix(href, "http") {
		return "", false
	}
	return href, true
}
