// Package layout maps preset names to block arrangements. The catalog is a
// closed set: a preset belongs to exactly one structural category, and the
// category decides how the renderer arranges image and text. Preset ids add
// only cosmetic variation within their category.
package layout

import (
	"math/rand"
	"sort"

	"dpc/page"
)

// Category is the structural family of a preset.
type Category int

const (
	// CategoryVertical stacks image and text in flow order.
	CategoryVertical Category = iota
	// CategoryHorizontal splits the block into image and text columns.
	CategoryHorizontal
	// CategoryOverlay floats draggable text on top of one full-bleed image.
	CategoryOverlay
	// CategoryGrid arranges three fixed image slots plus one shared text block.
	CategoryGrid
)

func (c Category) String() string {
	switch c {
	case CategoryHorizontal:
		return "flow-horizontal"
	case CategoryOverlay:
		return "image-overlay-text"
	case CategoryGrid:
		return "multi-image-grid"
	default:
		return "flow-vertical"
	}
}

// Scrim is the gradient treatment behind overlay text.
type Scrim int

const (
	ScrimNone Scrim = iota
	ScrimTop        // darkens toward the top edge
	ScrimBottom     // darkens toward the bottom edge
	ScrimCenter     // radial-ish band behind centered text
	ScrimFull       // uniform darkening of the whole image
)

// GridArrange selects slot geometry within the grid category.
type GridArrange int

const (
	GridRow GridArrange = iota
	GridColumn
	GridFeatured
	GridMasonry
)

type (
	// VerticalSpec describes flow-vertical presets.
	VerticalSpec struct {
		TextFirst  bool
		ImageRatio float64 // share of block height given to the image area
		Framed     bool    // square-card style border around the whole block
	}

	// HorizontalSpec describes flow-horizontal presets.
	HorizontalSpec struct {
		ImageLeft  bool
		SplitRatio float64 // share of block width given to the image column
	}

	// OverlaySpec describes image-overlay-text presets.
	OverlaySpec struct {
		Anchor page.Box // default text box for first-time placement
		Scrim  Scrim
		Quote  bool // quote-panel typography (oversized marks, italic body)
		Panel  bool // solid panel behind the text instead of a bare scrim
	}

	// GridSpec describes multi-image-grid presets.
	GridSpec struct {
		Arrange GridArrange
	}
)

// Config describes one preset. Exactly one of the category specs is non-nil
// and it always matches Category.
type Config struct {
	ID        string
	Category  Category
	Draggable bool // text accepts free-position dragging

	Vertical   *VerticalSpec
	Horizontal *HorizontalSpec
	Overlay    *OverlaySpec
	Grid       *GridSpec
}

// PlacementPatch is what switching a block to a preset writes into its
// placement fields. Zero values are the "unset" sentinel that lets the
// preset's built-in flow govern.
type PlacementPatch struct {
	TextOffset page.Offset
	OverlayBox page.Box
}

// DefaultID is the preset every unknown or missing id resolves to.
const DefaultID = "vertical-default"

var catalog = map[string]Config{
	DefaultID:        {ID: DefaultID, Category: CategoryVertical, Vertical: &VerticalSpec{ImageRatio: 0.62}},
	"image-top":      {ID: "image-top", Category: CategoryVertical, Vertical: &VerticalSpec{ImageRatio: 0.62}},
	"text-top":       {ID: "text-top", Category: CategoryVertical, Vertical: &VerticalSpec{TextFirst: true, ImageRatio: 0.62}},
	"image-dominant": {ID: "image-dominant", Category: CategoryVertical, Vertical: &VerticalSpec{ImageRatio: 0.82}},
	"square-card":    {ID: "square-card", Category: CategoryVertical, Vertical: &VerticalSpec{ImageRatio: 0.55, Framed: true}},

	"split-left":     {ID: "split-left", Category: CategoryHorizontal, Horizontal: &HorizontalSpec{ImageLeft: true, SplitRatio: 0.5}},
	"split-right":    {ID: "split-right", Category: CategoryHorizontal, Horizontal: &HorizontalSpec{SplitRatio: 0.5}},
	"magazine-left":  {ID: "magazine-left", Category: CategoryHorizontal, Horizontal: &HorizontalSpec{ImageLeft: true, SplitRatio: 0.62}},
	"magazine-right": {ID: "magazine-right", Category: CategoryHorizontal, Horizontal: &HorizontalSpec{SplitRatio: 0.62}},

	"overlay-top":       {ID: "overlay-top", Category: CategoryOverlay, Draggable: true, Overlay: &OverlaySpec{Anchor: page.Box{X: 50, Y: 60, Width: 600, Height: 140}, Scrim: ScrimTop}},
	"overlay-bottom":    {ID: "overlay-bottom", Category: CategoryOverlay, Draggable: true, Overlay: &OverlaySpec{Anchor: page.Box{X: 50, Y: 620, Width: 600, Height: 140}, Scrim: ScrimBottom}},
	"overlay-center":    {ID: "overlay-center", Category: CategoryOverlay, Draggable: true, Overlay: &OverlaySpec{Anchor: page.Box{X: 50, Y: 200, Width: 600, Height: 100}, Scrim: ScrimCenter}},
	"overlay-hero":      {ID: "overlay-hero", Category: CategoryOverlay, Draggable: true, Overlay: &OverlaySpec{Anchor: page.Box{X: 80, Y: 320, Width: 700, Height: 200}, Scrim: ScrimFull}},
	"overlay-fullwidth": {ID: "overlay-fullwidth", Category: CategoryOverlay, Draggable: true, Overlay: &OverlaySpec{Anchor: page.Box{X: 0, Y: 560, Width: 860, Height: 180}, Scrim: ScrimBottom, Panel: true}},
	"overlay-quote":     {ID: "overlay-quote", Category: CategoryOverlay, Draggable: true, Overlay: &OverlaySpec{Anchor: page.Box{X: 110, Y: 260, Width: 640, Height: 180}, Scrim: ScrimCenter, Quote: true, Panel: true}},

	"grid-row":      {ID: "grid-row", Category: CategoryGrid, Grid: &GridSpec{Arrange: GridRow}},
	"grid-column":   {ID: "grid-column", Category: CategoryGrid, Grid: &GridSpec{Arrange: GridColumn}},
	"grid-featured": {ID: "grid-featured", Category: CategoryGrid, Grid: &GridSpec{Arrange: GridFeatured}},
	"grid-masonry":  {ID: "grid-masonry", Category: CategoryGrid, Grid: &GridSpec{Arrange: GridMasonry}},
}

// Describe resolves a preset id to its configuration. Unknown or empty ids
// fail closed to the vertical default - a block must always be renderable,
// so a missing preset is never an error.
func Describe(id string) Config {
	if cfg, ok := catalog[id]; ok {
		return cfg
	}
	return catalog[DefaultID]
}

// DefaultsFor returns the placement fields to write when a block switches
// to the given preset. Overlay presets get their default anchor, everything
// else resets placement to the unset sentinel so no stale position leaks
// across structurally different categories.
func DefaultsFor(id string) PlacementPatch {
	cfg := Describe(id)
	if cfg.Category == CategoryOverlay {
		return PlacementPatch{OverlayBox: cfg.Overlay.Anchor}
	}
	return PlacementPatch{}
}

// IDs returns every known preset id in stable order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Random draws one preset id uniformly from the full catalog.
func Random(rng *rand.Rand) string {
	ids := IDs()
	return ids[rng.Intn(len(ids))]
}
