package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"dpc/layout"
	"dpc/page"
)

// renderOverlay draws one full-bleed square image with the text floating in
// a positioned box on top. The box comes from the block's persisted
// placement (or the preset anchor) shifted by the drag offset.
func (r *Renderer) renderOverlay(ctx context.Context, b page.Block, style page.EffectiveStyle, cfg layout.Config, width, scale int, opts Options) *image.RGBA {
	spec := cfg.Overlay
	if spec == nil {
		spec = &layout.OverlaySpec{Anchor: page.Box{X: 50, Y: 200, Width: 600, Height: 100}}
	}

	height := width
	img := r.newCanvas(style, width, height)

	r.drawImageArea(ctx, img, image.Rect(0, 0, width, height), b.Slot(0), opts)

	box := b.OverlayBox
	if box.IsZero() {
		box = spec.Anchor
	}
	box = box.Shift(b.TextOffset)
	rect := clampRect(scaleRect(box, scale), img.Bounds())

	drawScrim(img, rect, spec.Scrim)

	if spec.Panel {
		panel := rect.Inset(-basePadding * scale / 2)
		panel = clampRect(panel, img.Bounds())
		drawFill(img, panel, color.RGBA{R: 255, G: 255, B: 255, A: 210})
	}

	if spec.Quote {
		quoteFace := r.lib.Face(style.FontFamily, 700, style.FontSize*float64(scale)*2.4)
		quote := textLayout{lines: []textLine{{
			text:       "“",
			face:       quoteFace,
			lineHeight: int(style.FontSize * float64(scale) * 2.0),
			color:      parseHexColor(style.TextColor),
		}}}
		quote.draw(img, rect.Min.X, rect.Min.Y-int(style.FontSize*float64(scale)*1.2), rect.Dx())
	}

	tl := r.layoutBlockText(b, style, rect.Dx(), scale)
	if tl.height > 0 {
		textY := rect.Min.Y
		if extra := rect.Dy() - tl.height; extra > 0 {
			textY += extra / 2
		}
		tl.draw(img, rect.Min.X, textY, rect.Dx())
	}

	if !opts.ForExport {
		drawEditorChrome(img, rect, !b.TextOffset.IsZero(), scale)
	}
	return img
}

// drawScrim paints the gradient treatment behind overlay text.
func drawScrim(img *image.RGBA, box image.Rectangle, scrim layout.Scrim) {
	bounds := img.Bounds()
	h := bounds.Dy()

	switch scrim {
	case layout.ScrimTop:
		drawVerticalGradient(img, bounds.Min.Y, bounds.Min.Y+h/2, 140, 0)
	case layout.ScrimBottom:
		drawVerticalGradient(img, bounds.Max.Y-h/2, bounds.Max.Y, 0, 140)
	case layout.ScrimCenter:
		band := box.Inset(-box.Dy() / 2)
		band = clampRect(band, bounds)
		drawVerticalGradient(img, band.Min.Y, band.Max.Y, 110, 110)
	case layout.ScrimFull:
		drawFill(img, bounds, color.RGBA{A: 90})
	}
}

// drawVerticalGradient blends black rows from alpha a0 at y0 to a1 at y1.
func drawVerticalGradient(img *image.RGBA, y0, y1 int, a0, a1 int) {
	if y1 <= y0 {
		return
	}
	bounds := img.Bounds()
	for y := y0; y < y1; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		t := float64(y-y0) / float64(y1-y0)
		alpha := uint8(float64(a0) + t*float64(a1-a0))
		if alpha == 0 {
			continue
		}
		row := image.Rect(bounds.Min.X, y, bounds.Max.X, y+1)
		drawFill(img, row, color.RGBA{A: alpha})
	}
}

// drawFill alpha-blends a uniform color over the rectangle.
func drawFill(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Over)
}

// drawEditorChrome marks the overlay text box with a drag handle bar and,
// when the offset differs from the anchor, a reset tick.
func drawEditorChrome(img *image.RGBA, box image.Rectangle, moved bool, scale int) {
	frameRect(img, box, chromeColor, scale)

	handle := image.Rect(box.Min.X+box.Dx()/2-12*scale, box.Min.Y-6*scale,
		box.Min.X+box.Dx()/2+12*scale, box.Min.Y-2*scale)
	drawFill(img, clampRect(handle, img.Bounds()), chromeColor)

	if moved {
		reset := image.Rect(box.Max.X-8*scale, box.Min.Y-8*scale, box.Max.X, box.Min.Y)
		drawFill(img, clampRect(reset, img.Bounds()), color.RGBA{R: 220, G: 80, B: 60, A: 255})
	}
}

// clampRect restricts rect to the bounds of the canvas.
func clampRect(rect, bounds image.Rectangle) image.Rectangle {
	out := rect.Intersect(bounds)
	if out.Empty() {
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X, bounds.Min.Y)
	}
	return out
}
