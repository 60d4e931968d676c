package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mediashelf/media-tidy/internal/catalog"
	"github.com/mediashelf/media-tidy/internal/core"
	"github.com/mediashelf/media-tidy/internal/media"
	"github.com/mediashelf/media-tidy/internal/probe"
	"github.com/mediashelf/media-tidy/internal/provider/tmdb"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory for video files and add them to the catalog",
	Long: `Walk a directory tree, collect video files, probe their dimensions with
ffprobe, and add them to the catalog. File names are parsed for display name,
season/episode and year to prefill metadata; when TMDB lookup is enabled the
display name and year are refined from search results.

Files already present in the catalog (matched by file name) are skipped, so
scanning is safe to repeat.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScanCommand,
}

var scanNoLookup bool

func init() {
	scanCmd.Flags().BoolVar(&scanNoLookup, "no-lookup", false, "Skip TMDB metadata lookup even when enabled in config")
	rootCmd.AddCommand(scanCmd)
}

// dimensionsFunc and lookupFunc are seams so tests can scan without ffprobe
// or network access.
type (
	dimensionsFunc func(ctx context.Context, path string) (probe.Dimensions, error)
	lookupFunc     func(ctx context.Context, query string) (*tmdb.Result, error)
)

func runScanCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	dims := probe.New().Dimensions
	var lookup lookupFunc
	if cfg.EnableTMDBLookup && cfg.TMDBAPIKey != "" && !scanNoLookup {
		lookup = tmdb.New(cfg.TMDBAPIKey, cfg.TMDBLanguage).Lookup
	}

	added, err := scanDirectory(cmd.Context(), cat, dir, dims, lookup)
	if err != nil {
		return err
	}
	if added == 0 {
		fmt.Println("No new video files found.")
		return nil
	}
	if err := cat.Save(); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	fmt.Printf("Added %d video file(s) to %s (%d total).\n", added, cat.Path(), cat.Len())
	return nil
}

// scanDirectory walks dir and upserts one entity per new video file. Probe
// and lookup failures degrade to empty fields rather than aborting the walk;
// a scan over a large library shouldn't die on one unreadable file.
func scanDirectory(ctx context.Context, cat *catalog.Catalog, dir string, dims dimensionsFunc, lookup lookupFunc) (int, error) {
	known := make(map[string]bool, cat.Len())
	for _, e := range cat.Entities() {
		known[e.Name] = true
	}

	added := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !media.IsVideo(d.Name()) {
			return nil
		}
		name := d.Name()
		if known[name] {
			return nil
		}
		known[name] = true

		parsed := media.ParseName(name)
		e := &core.Entity{
			ID:          cat.NextID(),
			Name:        name,
			DisplayName: parsed.DisplayName,
			Season:      parsed.Season,
			Episode:     parsed.Episode,
			Year:        parsed.Year,
		}

		if dims != nil {
			if dim, err := dims(ctx, path); err == nil {
				e.Width = dim.Width
				e.Height = dim.Height
			}
		}
		if lookup != nil && e.DisplayName != "" {
			if r, err := lookup(ctx, e.DisplayName); err == nil && r != nil {
				e.DisplayName = r.Title
				if e.Year == "" {
					e.Year = r.Year
				}
			}
		}

		cat.Upsert(e)
		added++
		return nil
	})
	return added, err
}
