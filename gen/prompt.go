package gen

import (
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Request describes one scenario generation run.
type Request struct {
	Product  string // what is being photographed, free form
	Category string // key from ProductCategories, optional
	Style    string // key from VisualStyles, optional
	Count    int    // number of scenarios wanted
	Language string // BCP 47 tag for the copy, optional
}

const scenarioPromptTmpl = `You are a senior e-commerce art director writing a product detail page.
Product: {{ .Product }}
{{- if .CategoryNotes }}
Category direction:
{{- range .CategoryNotes }}
- {{ . }}
{{- end }}
{{- end }}
{{- if .StyleNotes }}
Visual style:
{{- range .StyleNotes }}
- {{ . }}
{{- end }}
{{- end }}

Write exactly {{ .Count }} photography scenarios, one per numbered section.
For each scenario use this archetype order where it fits:
{{- range .Frames }}
{{ .Title }}: {{ .Concept }}
{{- end }}

Each section starts with the line "### Scenario {{ "{" }}n{{ "}" }}".
First sentence is a short headline. Second sentence is a supporting subtitle.
The rest is body copy, two to four sentences, concrete and sensory.
{{- if .LanguageName }}
Write all copy in {{ .LanguageName }}.
{{- end }}
Do not mention cameras, lenses or lighting gear in the copy itself.`

type promptData struct {
	Product       string
	Count         int
	CategoryNotes []string
	StyleNotes    []string
	Frames        []ScenarioFrame
	LanguageName  string
}

// BuildScenarioPrompt renders the text generation prompt for req. Unknown
// category or style keys are treated as "no extra direction".
func BuildScenarioPrompt(req Request) (string, error) {
	if strings.TrimSpace(req.Product) == "" {
		return "", fmt.Errorf("product description is required")
	}
	count := req.Count
	if count <= 0 {
		count = len(scenarioFrames)
	}

	data := promptData{
		Product: strings.TrimSpace(req.Product),
		Count:   count,
		Frames:  pickFrames(count),
	}
	if c, ok := productCategories[req.Category]; ok {
		data.CategoryNotes = c.Global
	}
	if v, ok := visualStyles[req.Style]; ok {
		data.StyleNotes = v.Notes
	}
	data.LanguageName = languageName(req.Language)

	tmpl, err := template.New("scenarios").Funcs(sprig.FuncMap()).Parse(scenarioPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("unable to parse prompt template: %w", err)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("unable to build prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildImagePrompt renders an image generation prompt for one scenario frame
// applied to the product.
func BuildImagePrompt(req Request, frame ScenarioFrame) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Professional product photograph. %s.\n", strings.TrimSpace(req.Product))
	fmt.Fprintf(&buf, "Concept: %s.\n", frame.Concept)
	for _, step := range frame.Execution {
		fmt.Fprintf(&buf, "- %s\n", step)
	}
	if c, ok := productCategories[req.Category]; ok {
		for _, note := range c.Global {
			fmt.Fprintf(&buf, "- %s\n", note)
		}
	}
	if v, ok := visualStyles[req.Style]; ok {
		for _, note := range v.Notes {
			fmt.Fprintf(&buf, "- %s\n", note)
		}
	}
	buf.WriteString("No text overlays, no watermarks, no logos.")
	return buf.String()
}

// pickFrames cycles the catalog when more scenarios are requested than there
// are archetypes.
func pickFrames(count int) []ScenarioFrame {
	out := make([]ScenarioFrame, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, scenarioFrames[i%len(scenarioFrames)])
	}
	return out
}

// languageName resolves a BCP 47 tag into an English language name for the
// prompt. Empty or unparsable tags mean "use the model default".
func languageName(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(t)
}
