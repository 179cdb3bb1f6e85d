// Package fonts discovers which font families and weights a page actually
// uses, builds a self-contained @font-face stylesheet with every referenced
// font binary inlined as a data URI, and hands parsed font faces to the
// rasterizer with an embedded fallback.
package fonts

import (
	"sort"

	"dpc/page"
)

// TitleWeight is used for titles when the effective body weight is lighter.
// Titles render bold, matching on-screen treatment.
const TitleWeight = 700

// Usage is the set of family/weight pairs referenced by a page.
type Usage map[string]map[int]bool

// Add records one family/weight pair. Empty family names are ignored.
func (u Usage) Add(family string, weight int) {
	if family == "" {
		return
	}
	if u[family] == nil {
		u[family] = make(map[int]bool)
	}
	u[family][weight] = true
}

// Families returns the referenced family names sorted.
func (u Usage) Families() []string {
	families := make([]string, 0, len(u))
	for f := range u {
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}

// Uses reports whether the family/weight pair is referenced.
func (u Usage) Uses(family string, weight int) bool {
	return u[family] != nil && u[family][weight]
}

// UsesFamily reports whether any weight of the family is referenced.
func (u Usage) UsesFamily(family string) bool {
	return len(u[family]) > 0
}

// CollectUsage resolves the effective style of every live block and records
// each referenced family/weight pair. Titles always add the bold weight.
func CollectUsage(projectStyle page.ProjectStyle, blocks []page.Block) Usage {
	usage := make(Usage)
	usage.Add(projectStyle.FontFamily, projectStyle.FontWeight)

	for _, b := range blocks {
		if b.Deleted {
			continue
		}
		eff := page.Resolve(projectStyle, b.Style)
		usage.Add(eff.FontFamily, eff.FontWeight)
		if b.Title != "" {
			usage.Add(eff.FontFamily, TitleWeight)
		}
	}
	return usage
}
