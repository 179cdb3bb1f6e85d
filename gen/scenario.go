package gen

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Scenario is one parsed block of generated copy.
type Scenario struct {
	Title    string
	Subtitle string
	Body     string
}

var (
	sectionRe = regexp.MustCompile(`(?m)^#{0,4}\s*Scenario\s+\d+\s*:?.*$`)

	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

func sentenceTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
	})
	return tokenizer, tokenizerErr
}

// ParseScenarios splits generated prose into scenarios. Sections are cut at
// "Scenario N" headings; when the model ignored the heading format the whole
// text becomes a single scenario. Empty sections are dropped.
func ParseScenarios(text string) ([]Scenario, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var sections []string
	if locs := sectionRe.FindAllStringIndex(text, -1); len(locs) > 0 {
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			sections = append(sections, text[loc[1]:end])
		}
	} else {
		sections = strings.Split(text, "\n\n")
	}

	var out []Scenario
	for _, section := range sections {
		s, ok, err := parseSection(section)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("generated text contains no usable scenarios")
	}
	return out, nil
}

// parseSection maps prose onto title, subtitle and body: first sentence is
// the title, second the subtitle, the rest body copy.
func parseSection(section string) (Scenario, bool, error) {
	section = cleanSection(section)
	if section == "" {
		return Scenario{}, false, nil
	}

	tok, err := sentenceTokenizer()
	if err != nil {
		return Scenario{}, false, fmt.Errorf("unable to initialize sentence tokenizer: %w", err)
	}

	var parts []string
	for _, s := range tok.Tokenize(section) {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return Scenario{}, false, nil
	}

	out := Scenario{Title: trimTerminator(parts[0])}
	if len(parts) > 1 {
		out.Subtitle = trimTerminator(parts[1])
	}
	if len(parts) > 2 {
		out.Body = strings.Join(parts[2:], " ")
	}
	return out, true, nil
}

func cleanSection(section string) string {
	var lines []string
	for line := range strings.SplitSeq(section, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#*-• ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

// trimTerminator drops a trailing period from headline text but keeps
// expressive punctuation.
func trimTerminator(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}
