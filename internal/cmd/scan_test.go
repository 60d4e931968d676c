package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mediashelf/media-tidy/internal/core"
	"github.com/mediashelf/media-tidy/internal/probe"
	"github.com/mediashelf/media-tidy/internal/provider/tmdb"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	cat := testCatalog(t)
	dir := t.TempDir()
	writeFiles(t, dir,
		"My.Show.S01E02.mkv",
		"notes.txt",
		"poster.jpg",
		filepath.Join("movies", "The.Matrix.1999.mp4"),
	)

	dims := func(ctx context.Context, path string) (probe.Dimensions, error) {
		return probe.Dimensions{Width: 1920, Height: 1080}, nil
	}

	added, err := scanDirectory(context.Background(), cat, dir, dims, nil)
	if err != nil {
		t.Fatalf("scanDirectory() error = %v", err)
	}
	if added != 2 {
		t.Fatalf("scanDirectory() added = %d, want 2", added)
	}

	byName := make(map[string]*core.Entity)
	for _, e := range cat.Entities() {
		byName[e.Name] = e
	}

	show := byName["My.Show.S01E02.mkv"]
	if show == nil {
		t.Fatal("show entity not added")
	}
	if show.DisplayName != "My Show" || show.Season != "1" || show.Episode != "2" {
		t.Errorf("show parsed as %q S%s E%s, want My Show S1 E2", show.DisplayName, show.Season, show.Episode)
	}
	if show.Width != 1920 || show.Height != 1080 {
		t.Errorf("show dimensions = %dx%d, want probed 1920x1080", show.Width, show.Height)
	}

	movie := byName["The.Matrix.1999.mp4"]
	if movie == nil {
		t.Fatal("movie in subdirectory not added")
	}
	if movie.DisplayName != "The Matrix" || movie.Year != "1999" {
		t.Errorf("movie parsed as %q / %q, want The Matrix / 1999", movie.DisplayName, movie.Year)
	}
}

func TestScanDirectoryIsIdempotent(t *testing.T) {
	cat := testCatalog(t)
	dir := t.TempDir()
	writeFiles(t, dir, "clip.mp4")

	dims := func(ctx context.Context, path string) (probe.Dimensions, error) {
		return probe.Dimensions{}, nil
	}

	for i, want := range []int{1, 0} {
		added, err := scanDirectory(context.Background(), cat, dir, dims, nil)
		if err != nil {
			t.Fatalf("scan %d error = %v", i, err)
		}
		if added != want {
			t.Errorf("scan %d added = %d, want %d", i, added, want)
		}
	}
	if cat.Len() != 1 {
		t.Errorf("catalog has %d entities after rescan, want 1", cat.Len())
	}
}

func TestScanDirectoryLookupRefinesMetadata(t *testing.T) {
	cat := testCatalog(t)
	dir := t.TempDir()
	writeFiles(t, dir, "breaking.bad.S01E01.mkv", "some.movie.2019.mp4")

	dims := func(ctx context.Context, path string) (probe.Dimensions, error) {
		return probe.Dimensions{}, nil
	}
	lookup := func(ctx context.Context, query string) (*tmdb.Result, error) {
		if query == "breaking bad" {
			return &tmdb.Result{Title: "Breaking Bad", Year: "2008"}, nil
		}
		return nil, nil
	}

	if _, err := scanDirectory(context.Background(), cat, dir, dims, lookup); err != nil {
		t.Fatalf("scanDirectory() error = %v", err)
	}

	byName := make(map[string]*core.Entity)
	for _, e := range cat.Entities() {
		byName[e.Name] = e
	}

	show := byName["breaking.bad.S01E01.mkv"]
	if show.DisplayName != "Breaking Bad" || show.Year != "2008" {
		t.Errorf("looked-up show = %q / %q, want Breaking Bad / 2008", show.DisplayName, show.Year)
	}

	// Lookup miss keeps the parsed values; the parsed year wins over lookup.
	movie := byName["some.movie.2019.mp4"]
	if movie.DisplayName != "some movie" || movie.Year != "2019" {
		t.Errorf("miss fell back to %q / %q, want some movie / 2019", movie.DisplayName, movie.Year)
	}
}
