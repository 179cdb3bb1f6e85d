// Package gen produces product photography scenarios: prompts for the text
// and image generation services and the mapping of generated prose into
// page blocks.
package gen

// NamedOption is a selectable catalog entry.
type NamedOption struct {
	Key  string
	Name string
}

// ScenarioFrame is one photography scenario archetype used to seed prompts.
type ScenarioFrame struct {
	ID        string
	Title     string
	Concept   string
	Execution []string
}

// ProductCategory adds category-specific direction to every frame.
type ProductCategory struct {
	Name   string
	Global []string
}

// VisualStyle adds art-direction notes to every frame.
type VisualStyle struct {
	Name  string
	Notes []string
}

var productCategories = map[string]ProductCategory{
	"electronics": {
		Name: "Electronics",
		Global: []string{
			"Clean technical surfaces, precise edges and seams",
			"Cool lighting temperature, controlled reflections",
		},
	},
	"beauty": {
		Name: "Beauty",
		Global: []string{
			"Soft diffused light, flattering speculars on glass and plastic",
			"Texture close-ups of cream, powder or liquid",
		},
	},
	"beverage": {
		Name: "Beverage",
		Global: []string{
			"Condensation droplets, backlit liquid color",
			"Pour and splash moments frozen mid-air",
		},
	},
	"food": {
		Name: "Food",
		Global: []string{
			"Appetizing warm tones, shallow depth of field",
			"Fresh ingredients scattered as supporting props",
		},
	},
	"home_living": {
		Name: "Home & Living",
		Global: []string{
			"Lived-in interior context with natural window light",
			"Material honesty: wood grain, weave, ceramic glaze",
		},
	},
	"fashion": {
		Name: "Fashion",
		Global: []string{
			"Fabric drape and stitch detail emphasized",
			"Editorial posing, intentional negative space",
		},
	},
}

var visualStyles = map[string]VisualStyle{
	"luxury_editorial": {
		Name: "Luxury Editorial",
		Notes: []string{
			"Rich shadows, gold or brass accents, magazine-grade retouching",
		},
	},
	"minimal_museum": {
		Name: "Minimal Museum",
		Notes: []string{
			"Single object on plinth, vast neutral background, gallery lighting",
		},
	},
	"dark_premium": {
		Name: "Dark Premium",
		Notes: []string{
			"Near-black backdrop, rim light tracing the silhouette",
		},
	},
	"high_key_clean": {
		Name: "High-Key Clean",
		Notes: []string{
			"White-on-white, soft wraparound light, minimal shadowing",
		},
	},
	"organic_sensory": {
		Name: "Organic Sensory",
		Notes: []string{
			"Natural textures, stone and linen props, warm daylight",
		},
	},
	"cinematic_film": {
		Name: "Cinematic Film",
		Notes: []string{
			"Anamorphic framing, teal-orange grade, subtle grain",
		},
	},
}

var scenarioFrames = []ScenarioFrame{
	{
		ID:      "hero_still_life",
		Title:   "Iconic Hero Still Life",
		Concept: "Bold, confident product presentation with dramatic composition",
		Execution: []string{
			"Center-framed product on seamless background",
			"Strong directional key light from 45 degrees",
			"Deep shadows for depth and dimension",
			"Ultra-sharp focus, every detail visible",
		},
	},
	{
		ID:      "macro_detail",
		Title:   "Macro Material Detail",
		Concept: "Extreme close-up celebrating craftsmanship and material",
		Execution: []string{
			"Macro lens distance, single surface fills the frame",
			"Raking light revealing texture",
			"Shallow depth of field with one razor-sharp plane",
		},
	},
	{
		ID:      "in_use_lifestyle",
		Title:   "In-Use Lifestyle Moment",
		Concept: "Product mid-use in a believable everyday scene",
		Execution: []string{
			"Hands interacting with the product naturally",
			"Environmental context softly out of focus",
			"Candid framing, motion implied",
		},
	},
	{
		ID:      "ingredient_story",
		Title:   "Ingredient and Origin Story",
		Concept: "What the product is made of, arranged around it",
		Execution: []string{
			"Raw components radiating from a centerpiece",
			"Overhead flat-lay composition",
			"Consistent prop palette matching brand colors",
		},
	},
	{
		ID:      "scale_context",
		Title:   "Scale and Proportion",
		Concept: "The product's size made tangible against familiar objects",
		Execution: []string{
			"Side-by-side with everyday reference objects",
			"Eye-level perspective, honest geometry",
		},
	},
	{
		ID:      "color_block",
		Title:   "Color Block Composition",
		Concept: "Product against bold geometric color fields",
		Execution: []string{
			"Two or three flat color planes from brand palette",
			"Hard shadow cast on backdrop",
			"Graphic, poster-like balance",
		},
	},
	{
		ID:      "floating_levitation",
		Title:   "Levitation Shot",
		Concept: "Product suspended mid-air with dynamic components",
		Execution: []string{
			"Product floating above surface, slight rotation",
			"Accent pieces orbiting at varied depths",
			"Soft contact shadow far below",
		},
	},
	{
		ID:      "night_mood",
		Title:   "Night Mood Scene",
		Concept: "After-dark atmosphere, intimate and premium",
		Execution: []string{
			"Low ambient light with one warm practical source",
			"Specular highlights as the main definition",
		},
	},
}

// ProductCategories returns the selectable categories, a default first.
func ProductCategories() []NamedOption {
	order := []string{"electronics", "beauty", "beverage", "food", "home_living", "fashion"}
	out := []NamedOption{{Key: "", Name: "Default"}}
	for _, key := range order {
		if c, ok := productCategories[key]; ok {
			out = append(out, NamedOption{Key: key, Name: c.Name})
		}
	}
	return out
}

// VisualStyles returns the selectable styles, a default first.
func VisualStyles() []NamedOption {
	order := []string{"luxury_editorial", "minimal_museum", "dark_premium",
		"high_key_clean", "organic_sensory", "cinematic_film"}
	out := []NamedOption{{Key: "", Name: "Default"}}
	for _, key := range order {
		if v, ok := visualStyles[key]; ok {
			out = append(out, NamedOption{Key: key, Name: v.Name})
		}
	}
	return out
}

// Frames returns the scenario archetypes in catalog order.
func Frames() []ScenarioFrame {
	out := make([]ScenarioFrame, len(scenarioFrames))
	copy(out, scenarioFrames)
	return out
}
