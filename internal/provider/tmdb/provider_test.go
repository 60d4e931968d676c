package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tmdbLib "github.com/ryanbradynd05/go-tmdb"
)

type fakeClient struct {
	movieCalls int
	tvCalls    int
	movies     *tmdbLib.MovieSearchResults
	shows      *tmdbLib.TvSearchResults
	err        error
}

func (f *fakeClient) SearchMovie(name string, options map[string]string) (*tmdbLib.MovieSearchResults, error) {
	f.movieCalls++
	return f.movies, f.err
}

func (f *fakeClient) SearchTv(name string, options map[string]string) (*tmdbLib.TvSearchResults, error) {
	f.tvCalls++
	return f.shows, f.err
}

func fastProvider(c Client) *Provider {
	p := newWithClient(c, "en-US")
	p.minInterval = 0
	return p
}

func TestCleanQuery(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Breaking.Bad", "Breaking Bad"},
		{"the_wire_s01", "the wire s01"},
		{"already clean", "already clean"},
		{"mixed-up_name.here", "mixed up name here"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := CleanQuery(tc.in); got != tc.want {
			t.Errorf("CleanQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLookupMovieFirst(t *testing.T) {
	t.Parallel()
	c := &fakeClient{
		movies: &tmdbLib.MovieSearchResults{
			Results: []tmdbLib.MovieShort{{Title: "My Movie", ReleaseDate: "2019-05-01"}},
		},
	}
	p := fastProvider(c)

	r, err := p.Lookup(context.Background(), "my.movie")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if r == nil || r.Title != "My Movie" || r.Year != "2019" {
		t.Errorf("Lookup() = %+v, want My Movie / 2019", r)
	}
	if c.tvCalls != 0 {
		t.Errorf("tv searched %d times despite movie hit, want 0", c.tvCalls)
	}
}

func TestLookupFallsBackToTv(t *testing.T) {
	t.Parallel()
	// TvSearchResults embeds an anonymous result struct; building it from
	// JSON avoids restating that type here.
	var shows tmdbLib.TvSearchResults
	payload := `{"results":[{"name":"My Show","first_air_date":"2008-01-20"}]}`
	if err := json.Unmarshal([]byte(payload), &shows); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	c := &fakeClient{
		movies: &tmdbLib.MovieSearchResults{},
		shows:  &shows,
	}
	p := fastProvider(c)

	r, err := p.Lookup(context.Background(), "my show")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if r == nil || r.Title != "My Show" || r.Year != "2008" {
		t.Errorf("Lookup() = %+v, want My Show / 2008", r)
	}
}

func TestLookupCachesResults(t *testing.T) {
	t.Parallel()
	c := &fakeClient{
		movies: &tmdbLib.MovieSearchResults{
			Results: []tmdbLib.MovieShort{{Title: "My Movie", ReleaseDate: "2019-05-01"}},
		},
	}
	p := fastProvider(c)

	for i := 0; i < 3; i++ {
		if _, err := p.Lookup(context.Background(), "My Movie"); err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
	}
	if c.movieCalls != 1 {
		t.Errorf("movie searched %d times, want 1 (cached)", c.movieCalls)
	}
}

func TestLookupMissReturnsNil(t *testing.T) {
	t.Parallel()
	p := fastProvider(&fakeClient{movies: &tmdbLib.MovieSearchResults{}, shows: &tmdbLib.TvSearchResults{}})

	r, err := p.Lookup(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if r != nil {
		t.Errorf("Lookup(miss) = %+v, want nil", r)
	}
}

func TestLookupSearchError(t *testing.T) {
	t.Parallel()
	p := fastProvider(&fakeClient{err: errors.New("api down")})

	if _, err := p.Lookup(context.Background(), "anything"); err == nil {
		t.Error("Lookup() error = nil, want wrapped search error")
	}
}
