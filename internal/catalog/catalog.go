package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mediashelf/media-tidy/internal/core"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

// Catalog is the persistence collaborator: a JSON file of entities with a
// concurrent in-memory index keyed by entity ID. The core never touches it
// directly; compiled change-sets are handed over through ApplyChangeSet.
type Catalog struct {
	path     string
	entities *csmap.CsMap[int, *core.Entity]
}

// FieldChange records one applied field delta, with the value it replaced.
// The operation log stores these so an applied session can be undone.
type FieldChange struct {
	EntityID int        `json:"entity_id"`
	Field    core.Field `json:"field"`
	Old      string     `json:"old"`
	New      string     `json:"new"`
}

// New returns an empty catalog backed by the file at path. The file is not
// read until Load.
func New(path string) *Catalog {
	return &Catalog{
		path:     path,
		entities: csmap.Create[int, *core.Entity](),
	}
}

// Path returns the backing file path.
func (c *Catalog) Path() string {
	return c.path
}

// Load reads the catalog file into the index. A missing file yields an
// empty catalog rather than an error so first runs work without setup.
func (c *Catalog) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read catalog %s: %w", c.path, err)
	}

	var entities []*core.Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", c.path, err)
	}
	for _, e := range entities {
		c.entities.Store(e.ID, e)
	}
	return nil
}

// Save writes the catalog file, creating parent directories as needed.
func (c *Catalog) Save() error {
	data, err := json.MarshalIndent(c.Entities(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", c.path, err)
	}
	return nil
}

// Get returns the entity with the given ID, or nil.
func (c *Catalog) Get(id int) *core.Entity {
	e, _ := c.entities.Load(id)
	return e
}

// Upsert stores e under its ID.
func (c *Catalog) Upsert(e *core.Entity) {
	c.entities.Store(e.ID, e)
}

// Len returns the number of catalogued entities.
func (c *Catalog) Len() int {
	return c.entities.Count()
}

// NextID returns one past the highest assigned entity ID.
func (c *Catalog) NextID() int {
	max := 0
	c.entities.Range(func(id int, _ *core.Entity) bool {
		if id > max {
			max = id
		}
		return false
	})
	return max + 1
}

// Entities returns every catalogued entity in ID order.
func (c *Catalog) Entities() []*core.Entity {
	out := make([]*core.Entity, 0, c.entities.Count())
	c.entities.Range(func(_ int, e *core.Entity) bool {
		out = append(out, e)
		return false
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyChangeSet applies a compiled change-set entity by entity and returns
// the field changes that actually took effect, old values included. Entity
// IDs not present in the catalog are skipped: the session may have outlived
// a removal, and partial application is the contract (per-entity updates are
// independent and unordered).
func (c *Catalog) ApplyChangeSet(cs core.ChangeSet) []FieldChange {
	var applied []FieldChange

	ids := make([]int, 0, len(cs))
	for id := range cs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		e, ok := c.entities.Load(id)
		if !ok {
			continue
		}
		fields := make([]core.Field, 0, len(cs[id]))
		for f := range cs[id] {
			fields = append(fields, f)
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

		for _, f := range fields {
			value := changeValueText(cs[id][f])
			old := e.FieldValue(f)
			if old == value {
				continue
			}
			e.SetFieldValue(f, value)
			applied = append(applied, FieldChange{EntityID: id, Field: f, Old: old, New: value})
		}
	}
	return applied
}

// RevertChanges applies the inverse of previously applied changes, newest
// first. Changes whose entity no longer exists are reported back so the
// caller can surface them.
func (c *Catalog) RevertChanges(changes []FieldChange) (reverted int, missing []FieldChange) {
	for i := len(changes) - 1; i >= 0; i-- {
		ch := changes[i]
		e, ok := c.entities.Load(ch.EntityID)
		if !ok {
			missing = append(missing, ch)
			continue
		}
		e.SetFieldValue(ch.Field, ch.Old)
		reverted++
	}
	return reverted, missing
}

// changeValueText renders a change-set value back to the catalog's string
// representation. Numeric fields arrive as int or nil; nil clears the field.
func changeValueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		// change-sets that round-tripped through JSON carry numbers as float64
		return strconv.Itoa(int(t))
	default:
		return fmt.Sprint(t)
	}
}
