package tmdb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ryanbradynd05/go-tmdb"
)

// Client is the slice of the TMDB API the prefill needs. It matches
// *tmdb.TMDb so tests can substitute a fake.
type Client interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
}

// Result carries the metadata a lookup contributes to an entity.
type Result struct {
	Title string
	Year  string
}

var separatorRe = regexp.MustCompile(`[._\-]+`)

// Provider resolves a file name stem against TMDB to prefill display name
// and year during scans. Responses are cached; requests are spaced out with
// a minimal interval so bulk scans stay inside TMDB's rate limits.
type Provider struct {
	client   Client
	cache    *gocache.Cache
	language string

	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// New creates a provider backed by the real TMDB API.
func New(apiKey, language string) *Provider {
	p := newWithClient(tmdb.Init(tmdb.Config{APIKey: apiKey}), language)
	return p
}

func newWithClient(client Client, language string) *Provider {
	if language == "" {
		language = "en-US"
	}
	return &Provider{
		client:      client,
		cache:       gocache.New(7*24*time.Hour, time.Hour),
		language:    language,
		minInterval: 250 * time.Millisecond,
	}
}

// CleanQuery turns a file name stem into a searchable title: separators
// become spaces and runs of whitespace collapse.
func CleanQuery(stem string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(separatorRe.ReplaceAllString(stem, " ")), " "))
}

// Lookup searches movies first, then TV shows, and returns the first
// result's title and release year. A query with no results returns nil
// without error; the caller just skips the prefill.
func (p *Provider) Lookup(ctx context.Context, query string) (*Result, error) {
	query = CleanQuery(query)
	if query == "" {
		return nil, nil
	}

	cacheKey := p.language + ":" + strings.ToLower(query)
	if cached, found := p.cache.Get(cacheKey); found {
		if r, ok := cached.(*Result); ok {
			return r, nil
		}
	}

	options := map[string]string{"language": p.language}

	if err := p.throttle(ctx); err != nil {
		return nil, err
	}
	movies, err := p.client.SearchMovie(query, options)
	if err != nil {
		return nil, fmt.Errorf("tmdb movie search failed for %q: %w", query, err)
	}
	if movies != nil && len(movies.Results) > 0 {
		m := movies.Results[0]
		r := &Result{Title: m.Title, Year: yearOf(m.ReleaseDate)}
		p.cache.Set(cacheKey, r, gocache.DefaultExpiration)
		return r, nil
	}

	if err := p.throttle(ctx); err != nil {
		return nil, err
	}
	shows, err := p.client.SearchTv(query, options)
	if err != nil {
		return nil, fmt.Errorf("tmdb tv search failed for %q: %w", query, err)
	}
	if shows != nil && len(shows.Results) > 0 {
		s := shows.Results[0]
		r := &Result{Title: s.Name, Year: yearOf(s.FirstAirDate)}
		p.cache.Set(cacheKey, r, gocache.DefaultExpiration)
		return r, nil
	}

	// Cache the miss too; rescans should not repeat dead queries.
	p.cache.Set(cacheKey, (*Result)(nil), gocache.DefaultExpiration)
	return nil, nil
}

func (p *Provider) throttle(ctx context.Context) error {
	p.mu.Lock()
	wait := p.minInterval - time.Since(p.lastRequest)
	p.lastRequest = time.Now().Add(wait)
	p.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
