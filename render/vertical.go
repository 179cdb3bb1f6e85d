package render

import (
	"context"
	"image"

	"dpc/layout"
	"dpc/page"
)

// renderVertical lays out the image area and the text column in flow order.
// ImageRatio sizes the image area against the block width, TextFirst flips
// the order, Framed strokes a card border around everything.
func (r *Renderer) renderVertical(ctx context.Context, b page.Block, style page.EffectiveStyle, cfg layout.Config, width, scale int, opts Options) *image.RGBA {
	spec := cfg.Vertical
	if spec == nil {
		spec = &layout.VerticalSpec{ImageRatio: 0.62}
	}

	pad := basePadding * scale
	imgH := int(float64(width) * spec.ImageRatio)
	textW := width - 2*pad
	tl := r.layoutBlockText(b, style, textW, scale)

	textAreaH := 0
	hintH := 0
	if tl.height > 0 {
		textAreaH = tl.height + pad
	} else if !opts.ForExport {
		hintH = 32 * scale
		textAreaH = hintH + pad
	}
	height := imgH + textAreaH + pad
	if spec.Framed {
		height += pad
	}

	img := r.newCanvas(style, width, height)

	imgTop := 0
	textTop := imgH + pad
	if spec.TextFirst {
		imgTop = textAreaH
		textTop = pad
	}
	if spec.Framed {
		imgTop += pad / 2
	}

	inset := 0
	if spec.Framed {
		inset = pad / 2
	}
	r.drawImageArea(ctx, img, image.Rect(inset, imgTop, width-inset, imgTop+imgH), b.Slot(0), opts)

	if tl.height > 0 {
		tl.draw(img, pad, textTop, textW)
	} else if hintH > 0 {
		drawAddTextHint(img, image.Rect(pad, textTop, width-pad, textTop+hintH), scale)
	}

	if spec.Framed {
		frameRect(img, image.Rect(scale, scale, width-scale, height-scale),
			parseHexColor(style.TextColor), scale)
	}
	return img
}
