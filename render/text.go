package render

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"dpc/common"
	"dpc/fonts"
	"dpc/page"
)

// lineHeightFactor converts a font size to line advance.
const lineHeightFactor = 1.5

// textLine is one laid-out line ready to draw.
type textLine struct {
	text       string
	face       font.Face
	lineHeight int
	color      color.RGBA
	align      common.Align
}

// textLayout is a block's text column after wrapping and sizing.
type textLayout struct {
	lines  []textLine
	height int
}

// layoutBlockText wraps title, subtitle and body for the given column width.
// Title renders at 1.4x of the body size in the bold face, subtitle at 0.8x.
func (r *Renderer) layoutBlockText(b page.Block, style page.EffectiveStyle, width, scale int) textLayout {
	var tl textLayout
	col := parseHexColor(style.TextColor)
	// A non-positive font size would give every line a zero height and the
	// whole layout would collapse to nothing. Lay out at the stock size
	// instead, matching the face fallback in the font library.
	bodySize := style.FontSize
	if bodySize <= 0 {
		bodySize = page.DefaultFontSize
	}
	bodySize *= float64(scale)

	appendRuns := func(text string, size float64, weight int) {
		if text == "" {
			return
		}
		face := r.lib.Face(style.FontFamily, weight, size)
		lh := int(size * lineHeightFactor)
		for _, line := range wrapText(text, width, face) {
			tl.lines = append(tl.lines, textLine{
				text:       line,
				face:       face,
				lineHeight: lh,
				color:      col,
				align:      style.TextAlign,
			})
			tl.height += lh
		}
	}

	appendRuns(b.Title, bodySize*page.TitleSizeFactor, fonts.TitleWeight)
	if b.Title != "" && (b.Subtitle != "" || b.EffectiveBody() != "") {
		tl.height += int(bodySize * 0.5)
		tl.lines = append(tl.lines, textLine{lineHeight: int(bodySize * 0.5)})
	}
	appendRuns(b.Subtitle, bodySize*page.SubtitleSizeFactor, style.FontWeight)
	if b.Subtitle != "" && b.EffectiveBody() != "" {
		tl.height += int(bodySize * 0.4)
		tl.lines = append(tl.lines, textLine{lineHeight: int(bodySize * 0.4)})
	}
	appendRuns(b.EffectiveBody(), bodySize, style.FontWeight)

	return tl
}

// draw paints the layout into img with its top-left at (x, y), aligning each
// line within width.
func (tl textLayout) draw(img *image.RGBA, x, y, width int) {
	curY := y
	for _, line := range tl.lines {
		curY += line.lineHeight
		if line.text == "" {
			continue
		}

		lx := x
		switch line.align {
		case common.AlignCenter:
			lx = x + (width-font.MeasureString(line.face, line.text).Ceil())/2
		case common.AlignRight:
			lx = x + width - font.MeasureString(line.face, line.text).Ceil()
		}

		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(line.color),
			Face: line.face,
			Dot:  fixed.P(lx, curY),
		}
		drawer.DrawString(line.text)
	}
}

// wrapText breaks text into lines fitting maxWidth using the face metrics.
// Explicit newlines are respected.
func wrapText(text string, maxWidth int, face font.Face) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		if maxWidth <= 0 {
			lines = append(lines, strings.Join(words, " "))
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			test := current + " " + word
			if font.MeasureString(face, test).Ceil() > maxWidth {
				lines = append(lines, current)
				current = word
			} else {
				current = test
			}
		}
		lines = append(lines, current)
	}

	// Drop a trailing empty paragraph marker.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseHexColor converts "#rrggbb" to an opaque RGBA, defaulting to black.
func parseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{A: 255}
	}

	rr, _ := strconv.ParseUint(hex[0:2], 16, 8)
	gg, _ := strconv.ParseUint(hex[2:4], 16, 8)
	bb, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return color.RGBA{R: uint8(rr), G: uint8(gg), B: uint8(bb), A: 255}
}
