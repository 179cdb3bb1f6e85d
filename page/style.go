package page

import "dpc/common"

// Resolve merges a sparse block override onto the total project style.
// Pure field-by-field dominance: for every attribute the override wins when
// present, the project value is used otherwise. No attribute's resolution
// depends on another's value, so the merge is idempotent and
// order-independent. A nil override is the same as an override with no
// fields set.
func Resolve(project ProjectStyle, override *BlockStyle) EffectiveStyle {
	eff := EffectiveStyle{
		BlockWidth: project.BlockWidth,
		Background: project.Background,
		FontFamily: project.FontFamily,
		FontSize:   project.FontSize,
		FontWeight: project.FontWeight,
		TextColor:  project.TextColor,
		TextAlign:  project.TextAlign,
	}
	if override == nil {
		return eff
	}
	if override.Background != nil {
		eff.Background = *override.Background
	}
	if override.FontFamily != nil {
		eff.FontFamily = *override.FontFamily
	}
	if override.FontSize != nil {
		eff.FontSize = *override.FontSize
	}
	if override.FontWeight != nil {
		eff.FontWeight = *override.FontWeight
	}
	if override.TextColor != nil {
		eff.TextColor = *override.TextColor
	}
	if override.TextAlign != nil {
		eff.TextAlign = *override.TextAlign
	}
	return eff
}

// Stock typography for freshly created projects.
const (
	DefaultFontSize   = 16
	DefaultFontWeight = 400
)

// DefaultStyle is the total style a new project starts with. Block width
// comes from the document configuration, everything else is the stock look.
// A project style must never be zero-valued: a zero font size lays out no
// text at all.
func DefaultStyle(blockWidth int) ProjectStyle {
	return ProjectStyle{
		BlockWidth: blockWidth,
		Background: "#ffffff",
		FontFamily: "Inter",
		FontSize:   DefaultFontSize,
		FontWeight: DefaultFontWeight,
		TextColor:  "#1f1f1f",
		TextAlign:  common.AlignLeft,
	}
}

// TitleSizeFactor and SubtitleSizeFactor relate title and subtitle sizes to
// the body font size across every layout preset.
const (
	TitleSizeFactor    = 1.4
	SubtitleSizeFactor = 0.8
)

// TitleSize returns the title font size derived from the effective style.
func (e EffectiveStyle) TitleSize() float64 {
	return e.FontSize * TitleSizeFactor
}

// SubtitleSize returns the subtitle font size derived from the effective style.
func (e EffectiveStyle) SubtitleSize() float64 {
	return e.FontSize * SubtitleSizeFactor
}
