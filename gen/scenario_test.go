package gen

import (
	"strings"
	"testing"
)

const sampleGeneration = `### Scenario 1
Morning light, honest clay. A mug made for slow starts.
The matte glaze softens every reflection while steam curls into the window light.
Set it on a worn oak table and the whole scene feels earned.

### Scenario 2
Built by hand, finished by fire.
Every ridge left by the potter's fingers catches the raking light. Nothing about
it is accidental.
`

func TestParseScenarios(t *testing.T) {
	got, err := ParseScenarios(sampleGeneration)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scenarios, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Title != "Morning light, honest clay" {
		t.Errorf("wrong title: %q", first.Title)
	}
	if first.Subtitle != "A mug made for slow starts" {
		t.Errorf("wrong subtitle: %q", first.Subtitle)
	}
	if !strings.Contains(first.Body, "steam curls") || !strings.Contains(first.Body, "worn oak table") {
		t.Errorf("body lost sentences: %q", first.Body)
	}

	second := got[1]
	if second.Title != "Built by hand, finished by fire" {
		t.Errorf("wrong title: %q", second.Title)
	}
	if second.Body == "" {
		t.Error("expected body text in second scenario")
	}
}

func TestParseScenariosWithoutHeadings(t *testing.T) {
	text := "A quiet hero shot. The mug alone on white.\n\nTexture up close. Glaze like sea glass."
	got, err := ParseScenarios(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected paragraph fallback to yield 2 scenarios, got %d", len(got))
	}
	if got[0].Title != "A quiet hero shot" || got[1].Title != "Texture up close" {
		t.Errorf("wrong titles: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestParseScenariosEmpty(t *testing.T) {
	for _, text := range []string{"", "   \n\n  ", "### Scenario 1\n\n### Scenario 2\n"} {
		if _, err := ParseScenarios(text); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}

func TestParseScenariosSingleSentence(t *testing.T) {
	got, err := ParseScenarios("### Scenario 1\nJust a headline")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Just a headline" || got[0].Subtitle != "" || got[0].Body != "" {
		t.Errorf("unexpected result: %+v", got)
	}
}
