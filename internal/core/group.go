package core

import "sort"

// Family groups a presumed original with the derivative files recovered from
// it. Original is nil when no entity carries the recovered base name; such
// orphaned derivatives still group together under their shared base.
type Family struct {
	BaseName    string
	Original    *Entity
	Derivatives []*Entity
}

// Grouped is the result of partitioning a library. Regular holds every
// entity that is neither a derivative nor the original of one.
type Grouped struct {
	Regular  []*Entity
	Families map[string]*Family
}

// GroupLibrary partitions entities into regular entries and derivative
// families keyed by recovered base name.
//
// The first pass collects every base name referenced by a derivative so that
// classification in the second pass cannot depend on input order. Linking a
// derivative to its original requires an exact match between the recovered
// base name and the original's literal file name; the candidate is never
// re-sanitized, so an original whose own name needs cleanup will not be
// linked. That literal matching is intentional.
func GroupLibrary(c *DerivativeClassifier, entities []*Entity) Grouped {
	referenced := make(map[string]bool)
	for _, e := range entities {
		if c.IsDerivative(e.Name) {
			referenced[c.BaseName(e.Name)] = true
		}
	}

	g := Grouped{Families: make(map[string]*Family)}
	family := func(base string) *Family {
		f, ok := g.Families[base]
		if !ok {
			f = &Family{BaseName: base}
			g.Families[base] = f
		}
		return f
	}

	for _, e := range entities {
		switch {
		case c.IsDerivative(e.Name):
			f := family(c.BaseName(e.Name))
			f.Derivatives = append(f.Derivatives, e)
		case referenced[e.Name]:
			family(e.Name).Original = e
		default:
			g.Regular = append(g.Regular, e)
		}
	}

	sort.Slice(g.Regular, func(i, j int) bool { return g.Regular[i].ID < g.Regular[j].ID })
	for _, f := range g.Families {
		sort.Slice(f.Derivatives, func(i, j int) bool { return f.Derivatives[i].ID < f.Derivatives[j].ID })
	}
	return g
}
