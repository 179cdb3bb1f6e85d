package export

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"dpc/common"
	"dpc/config"
	"dpc/page"
)

// defaultNameTemplate produces "{project display name}.{ext}".
const defaultNameTemplate = "{{.Name}}.{{.Ext}}"

// nameData is the template context for output_name_template.
type nameData struct {
	Name      string
	ProjectID string
	Ext       string
}

// OutputName reports the file name an export of the project would produce.
// Callers use it to check for collisions before running the pipeline.
func (p *Pipeline) OutputName(project page.Project, format common.OutputFmt) (string, error) {
	return p.outputName(project, format)
}

// outputName renders the configured file name template for the project and
// sanitizes the result for the filesystem.
func (p *Pipeline) outputName(project page.Project, format common.OutputFmt) (string, error) {
	text := p.cfg.OutputNameTemplate
	if text == "" {
		text = defaultNameTemplate
	}

	name := project.DisplayName
	if name == "" {
		name = project.ID
	}
	if p.cfg.FileNameTransliterate {
		name = slug.Make(name)
	}

	tmpl, err := template.New(string(config.OutputNameTemplateFieldName)).
		Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing output name template: %w", err)
	}

	var sb strings.Builder
	err = tmpl.Execute(&sb, nameData{
		Name:      name,
		ProjectID: project.ID,
		Ext:       format.Ext(),
	})
	if err != nil {
		return "", fmt.Errorf("rendering output name template: %w", err)
	}

	out := config.CleanFileName(strings.TrimSpace(sb.String()))
	if out == "" {
		out = "export." + format.Ext()
	}
	return out, nil
}

// parseBackground converts "#rrggbb" to RGBA, defaulting to white.
func parseBackground(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	rr, _ := strconv.ParseUint(hex[0:2], 16, 8)
	gg, _ := strconv.ParseUint(hex[2:4], 16, 8)
	bb, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return color.RGBA{R: uint8(rr), G: uint8(gg), B: uint8(bb), A: 255}
}
