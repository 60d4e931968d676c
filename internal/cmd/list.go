package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mediashelf/media-tidy/internal/core"
	"github.com/mediashelf/media-tidy/internal/tui/theme"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog grouped into originals and derivative families",
	Long: `Group the catalog into regular entries and derivative families and render
them as a tree. A family holds an original file and the derivative edits that
reference its name; derivatives whose original is missing from the catalog
still form a family so they stay visible.`,
	Args: cobra.NoArgs,
	RunE: runListCommand,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// listRole drives styling of a rendered tree row.
type listRole int

const (
	roleFamily listRole = iota
	roleOriginal
	roleDerivative
	roleRegular
	roleMissing
)

type listEntry struct {
	label string
	role  listRole
}

func runListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		fmt.Println("Catalog is empty; run media-tidy scan first.")
		return nil
	}

	grouped := core.GroupLibrary(cfg.Classifier(), cat.Entities())
	tree := treeview.NewTree(buildListNodes(grouped), treeview.WithProvider(listProvider()))
	out, err := tree.Render(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimRight(out, "\n"))
	return nil
}

// buildListNodes renders regular entries first, then one subtree per family
// sorted by base name.
func buildListNodes(grouped core.Grouped) []*treeview.Node[listEntry] {
	nodes := make([]*treeview.Node[listEntry], 0, len(grouped.Regular)+len(grouped.Families))

	for _, e := range grouped.Regular {
		nodes = append(nodes, treeview.NewNode(fmt.Sprintf("entity-%d", e.ID), e.Name,
			listEntry{label: entryLabel(e), role: roleRegular}))
	}

	bases := make([]string, 0, len(grouped.Families))
	for base := range grouped.Families {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		family := grouped.Families[base]
		familyNode := treeview.NewNode("family-"+base, base,
			listEntry{label: fmt.Sprintf("%s (%d derivative(s))", base, len(family.Derivatives)), role: roleFamily})

		if family.Original != nil {
			familyNode.AddChild(treeview.NewNode(fmt.Sprintf("entity-%d", family.Original.ID), family.Original.Name,
				listEntry{label: entryLabel(family.Original), role: roleOriginal}))
		} else {
			familyNode.AddChild(treeview.NewNode("missing-"+base, base,
				listEntry{label: "(original not in catalog)", role: roleMissing}))
		}
		for _, d := range family.Derivatives {
			familyNode.AddChild(treeview.NewNode(fmt.Sprintf("entity-%d", d.ID), d.Name,
				listEntry{label: entryLabel(d), role: roleDerivative}))
		}
		nodes = append(nodes, familyNode)
	}
	return nodes
}

// entryLabel renders one catalog entry: file name plus id, resolution and
// display name when known.
func entryLabel(e *core.Entity) string {
	parts := []string{fmt.Sprintf("#%d", e.ID)}
	if label := core.ResolutionLabel(e.Width, e.Height); label != "" {
		parts = append(parts, label)
	}
	if e.DisplayName != "" {
		parts = append(parts, e.DisplayName)
	}
	return fmt.Sprintf("%s (%s)", e.Name, strings.Join(parts, ", "))
}

// listProvider styles family headers and member rows. Focused variants reuse
// the plain styles; the list command renders once and exits.
func listProvider() *treeview.DefaultNodeProvider[listEntry] {
	colors := theme.Default().Colors()

	roleIs := func(role listRole) func(*treeview.Node[listEntry]) bool {
		return func(n *treeview.Node[listEntry]) bool { return n.Data().role == role }
	}

	familyStyle := lipgloss.NewStyle().Foreground(colors.Primary).Bold(true)
	originalStyle := lipgloss.NewStyle().Foreground(colors.Success)
	derivativeStyle := lipgloss.NewStyle().Foreground(colors.Secondary)
	missingStyle := lipgloss.NewStyle().Foreground(colors.Error)
	regularStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	return treeview.NewDefaultNodeProvider(
		treeview.WithStyleRule(roleIs(roleFamily), familyStyle, familyStyle),
		treeview.WithStyleRule(roleIs(roleOriginal), originalStyle, originalStyle),
		treeview.WithStyleRule(roleIs(roleDerivative), derivativeStyle, derivativeStyle),
		treeview.WithStyleRule(roleIs(roleMissing), missingStyle, missingStyle),
		treeview.WithStyleRule(roleIs(roleRegular), regularStyle, regularStyle),
		treeview.WithFormatter(func(n *treeview.Node[listEntry]) (string, bool) {
			return n.Data().label, true
		}),
	)
}
