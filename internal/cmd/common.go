package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mediashelf/media-tidy/internal/catalog"
	"github.com/mediashelf/media-tidy/internal/config"
	"github.com/mediashelf/media-tidy/internal/core"
	"github.com/mediashelf/media-tidy/internal/log"
)

// loadConfig loads the user configuration and initializes the operation log.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	return cfg, nil
}

// openCatalog loads the catalog named by --catalog, or the configured default.
func openCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	path := catalogPath
	if path == "" {
		var err error
		path, err = cfg.ResolveCatalogPath()
		if err != nil {
			return nil, err
		}
	}
	cat := catalog.New(path)
	if err := cat.Load(); err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}

// parseIDs converts positional arguments into entity IDs.
func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid entity id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// sessionFor opens an edit session over the requested entities, or the whole
// catalog when no IDs are given. The session receives copies: the catalog
// must keep its pristine values until the compiled change-set is applied, or
// applying would see no difference and record nothing. Unknown IDs are
// rejected up front so a typo doesn't silently shrink the batch.
func sessionFor(cat *catalog.Catalog, args []string) (*core.EditSession, error) {
	ids, err := parseIDs(args)
	if err != nil {
		return nil, err
	}

	var sources []*core.Entity
	if len(ids) == 0 {
		sources = cat.Entities()
	} else {
		for _, id := range ids {
			e := cat.Get(id)
			if e == nil {
				return nil, fmt.Errorf("entity %d not in catalog", id)
			}
			sources = append(sources, e)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("catalog is empty; run media-tidy scan first")
	}

	entities := make([]*core.Entity, 0, len(sources))
	for _, e := range sources {
		clone := *e
		entities = append(entities, &clone)
	}

	session := core.NewEditSession()
	session.Open(entities)
	return session, nil
}

// applyAndLog applies a compiled change-set to the catalog, records the
// resulting field changes as a log session, and persists the catalog.
// Returns the number of field changes that took effect.
func applyAndLog(cat *catalog.Catalog, cs core.ChangeSet, command string) (int, error) {
	changes := cat.ApplyChangeSet(cs)
	if len(changes) == 0 {
		return 0, nil
	}

	log.StartSession(command, os.Args[1:])
	for _, ch := range changes {
		log.LogFieldUpdate(ch.EntityID, ch.Field, ch.Old, ch.New)
	}

	if err := cat.Save(); err != nil {
		return 0, fmt.Errorf("failed to save catalog: %w", err)
	}
	if err := log.EndSession(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write operation log: %v\n", err)
	}
	return len(changes), nil
}
