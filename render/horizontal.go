package render

import (
	"context"
	"image"

	"dpc/layout"
	"dpc/page"
)

// renderHorizontal splits the block into an image column and a text column.
// SplitRatio sizes the image column, ImageLeft mirrors the arrangement. The
// image column is square, text centers vertically beside it.
func (r *Renderer) renderHorizontal(ctx context.Context, b page.Block, style page.EffectiveStyle, cfg layout.Config, width, scale int, opts Options) *image.RGBA {
	spec := cfg.Horizontal
	if spec == nil {
		spec = &layout.HorizontalSpec{SplitRatio: 0.5}
	}

	pad := basePadding * scale
	imgW := int(float64(width) * spec.SplitRatio)
	imgH := imgW
	textW := width - imgW - 2*pad
	tl := r.layoutBlockText(b, style, textW, scale)

	height := imgH
	if min := tl.height + 2*pad; height < min {
		height = min
	}

	img := r.newCanvas(style, width, height)

	imgX := 0
	textX := imgW + pad
	if !spec.ImageLeft {
		imgX = width - imgW
		textX = pad
	}

	r.drawImageArea(ctx, img, image.Rect(imgX, 0, imgX+imgW, imgH), b.Slot(0), opts)

	if tl.height > 0 {
		textY := (height - tl.height) / 2
		tl.draw(img, textX, textY, textW)
	} else if !opts.ForExport {
		hintH := 32 * scale
		drawAddTextHint(img, image.Rect(textX, (height-hintH)/2, textX+textW, (height+hintH)/2), scale)
	}
	return img
}
