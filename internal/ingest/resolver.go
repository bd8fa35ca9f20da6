// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
)

// maxResolveBytes caps how much of an article page is read while hunting
// for its canonical URL.
const maxResolveBytes = 2 << 20

// Resolver turns aggregator and shortener links into canonical article
// URLs. Google News links in particular are opaque redirect pages; the
// resolver follows HTTP redirects and then falls back to scraping the
// landing page for the real destination. Results are cached in Badger
// with a TTL so repeated ingestion runs skip the network entirely.
type Resolver struct {
	cfg   *config.ResolverConfig
	http  *http.Client
	cache *badger.DB
}

// NewResolver opens the resolver cache. An empty cache path keeps the
// cache in memory, which suits tests and ephemeral deployments.
func NewResolver(cfg *config.ResolverConfig) (*Resolver, error) {
	var opts badger.Options
	if cfg.CachePath == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.CachePath)
	}
	opts = opts.WithLogger(nil)

	cache, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open resolver cache: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Resolver{
		cfg:   cfg,
		cache: cache,
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}, nil
}

// Close releases the cache.
func (r *Resolver) Close() error {
	return r.cache.Close()
}

// Resolve returns the canonical URL for a link. When nothing better can
// be determined the input URL comes back unchanged; an error means the
// link could not be fetched at all.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	if !needsResolution(rawURL) {
		return rawURL, nil
	}

	if cached, ok := r.cacheGet(rawURL); ok {
		metrics.ResolverCacheHits.Inc()
		return cached, nil
	}
	metrics.ResolverCacheMisses.Inc()

	resolved, err := r.resolve(ctx, rawURL)
	if err != nil {
		metrics.ResolverFailures.Inc()
		return "", err
	}

	r.cacheSet(rawURL, resolved)
	return resolved, nil
}

// needsResolution reports whether a URL is worth a network round trip.
// Only known aggregator hosts are resolved; everything else is taken at
// face value.
func needsResolution(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "news.google.com" || host == "www.google.com" && u.Path == "/url"
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (string, error) {
	// Cheapest first: some aggregator links carry the destination in a
	// query parameter.
	if target := urlFromQuery(rawURL); target != "" {
		return target, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build resolve request: %w", err)
	}
	req.Header.Set("User-Agent", defaultRSSUserAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Redirects already followed; if we left the aggregator we are done.
	final := resp.Request.URL.String()
	if final != rawURL && !needsResolution(final) {
		return final, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResolveBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read landing page: %w", err)
	}

	if target := extractFromHTML(body); target != "" {
		return target, nil
	}

	logging.Debug().Str("url", rawURL).Msg("Resolver found no canonical target, keeping original")
	return rawURL, nil
}

// urlFromQuery pulls a destination from url= or u= query parameters.
func urlFromQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, key := range []string{"url", "u", "q"} {
		if target := u.Query().Get(key); strings.HasPrefix(target, "http") {
			return target
		}
	}
	return ""
}

var metaRefreshRe = regexp.MustCompile(`(?i)url\s*=\s*(\S+)`)

// extractFromHTML hunts through a landing page for the article URL:
// meta refresh, canonical link, og:url, then Google News anchor hints.
func extractFromHTML(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[http-equiv="refresh"]`).Attr("content"); ok {
		if m := metaRefreshRe.FindStringSubmatch(content); len(m) == 2 {
			if target := strings.Trim(m[1], `'"`); strings.HasPrefix(target, "http") {
				return target
			}
		}
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if strings.HasPrefix(href, "http") && !strings.Contains(href, "news.google.com") {
			return href
		}
	}

	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		if strings.HasPrefix(content, "http") && !strings.Contains(content, "news.google.com") {
			return content
		}
	}

	// Google News article pages mark the outbound link with data-n-au.
	if href, ok := doc.Find("a[data-n-au]").Attr("data-n-au"); ok && strings.HasPrefix(href, "http") {
		return href
	}

	return ""
}

func (r *Resolver) cacheGet(rawURL string) (string, bool) {
	var resolved string
	err := r.cache.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(rawURL))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			resolved = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false
	}
	return resolved, true
}

func (r *Resolver) cacheSet(rawURL, resolved string) {
	ttl := r.cfg.CacheTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	err := r.cache.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(rawURL), []byte(resolved)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to cache resolved URL")
	}
}
