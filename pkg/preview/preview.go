// Package preview scrapes Open Graph metadata from external pages so link
// tiles can show a title, description, and image.
//
// Scrapes are best-effort: a page without usable metadata yields an empty
// Metadata, not an error. Results are cached under a hashed URL key since
// third-party pages are slow to fetch and quick to rate-limit.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/maajidpp/linkza/pkg/cache"
	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/httputil"
)

const (
	// DefaultTTL is how long scraped metadata stays cached.
	DefaultTTL = 24 * time.Hour

	// maxBodySize bounds how much of a page is read while looking for
	// meta tags, which always live in <head>.
	maxBodySize = 512 * 1024

	// userAgent mimics a browser; many sites serve empty pages to
	// unknown agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	cachePrefix = "preview"
)

// Metadata holds the scraped Open Graph fields.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Scraper fetches and caches link metadata.
type Scraper struct {
	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
}

// NewScraper creates a scraper caching results in c. A nil cache disables
// caching.
func NewScraper(c cache.Cache) *Scraper {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Scraper{
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: c,
		ttl:   DefaultTTL,
	}
}

// Scrape returns metadata for url, from cache when possible. Transient
// failures (timeouts, 5xx) are retried with backoff; a permanent failure
// (4xx, unparseable URL) is returned as-is.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Metadata, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	key := cache.Key(cachePrefix, rawURL)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var meta Metadata
		if json.Unmarshal(data, &meta) == nil {
			return &meta, nil
		}
		// Corrupt entry; fall through and refetch.
	}

	var meta *Metadata
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		meta, err = s.fetch(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(meta); err == nil {
		// Cache write failures are invisible; the next scrape just
		// refetches.
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	return meta, nil
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build preview request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "preview target returned %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeNetwork, "preview target returned %d", resp.StatusCode)
	}

	return Parse(io.LimitReader(resp.Body, maxBodySize))
}

// Parse extracts Open Graph metadata from an HTML document. Precedence
// follows the usual scraping order: og:title then <title>; og:description
// then the description meta tag; og:image only.
func Parse(r io.Reader) (*Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse preview document")
	}

	var meta Metadata
	var pageTitle, metaDescription string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				property := attr(n, "property")
				name := attr(n, "name")
				content := attr(n, "content")
				switch {
				case property == "og:title":
					meta.Title = content
				case property == "og:description":
					meta.Description = content
				case property == "og:image":
					meta.Image = content
				case name == "description":
					metaDescription = content
				}
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					pageTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "body":
				// Meta tags live in <head>; no need to walk the body.
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if meta.Title == "" {
		meta.Title = pageTitle
	}
	if meta.Description == "" {
		meta.Description = metaDescription
	}
	return &meta, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// String renders metadata for logs.
func (m *Metadata) String() string {
	return fmt.Sprintf("title=%q description=%q image=%q", m.Title, m.Description, m.Image)
}
