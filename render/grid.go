package render

import (
	"context"
	"image"

	"dpc/layout"
	"dpc/page"
)

// renderGrid arranges the three image slots per the grid variant and puts
// the shared text block underneath. All three slots render regardless of how
// many hold an image.
func (r *Renderer) renderGrid(ctx context.Context, b page.Block, style page.EffectiveStyle, cfg layout.Config, width, scale int, opts Options) *image.RGBA {
	spec := cfg.Grid
	if spec == nil {
		spec = &layout.GridSpec{Arrange: layout.GridRow}
	}

	pad := basePadding * scale
	gutter := baseGutter * scale
	cells, gridH := gridCells(spec.Arrange, width, gutter)

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

	height := gridH + textAreaH + pad
	img := r.newCanvas(style, width, height)

	for i := 0; i < page.SlotCount; i++ {
		r.drawImageArea(ctx, img, cells[i], b.Slot(i), opts)
	}

	if tl.height > 0 {
		tl.draw(img, pad, gridH+pad, textW)
	} else if hintH > 0 {
		drawAddTextHint(img, image.Rect(pad, gridH+pad, width-pad, gridH+pad+hintH), scale)
	}
	return img
}

// gridCells computes the three slot rectangles and the grid area height.
func gridCells(arrange layout.GridArrange, width, gutter int) ([page.SlotCount]image.Rectangle, int) {
	var cells [page.SlotCount]image.Rectangle

	switch arrange {
	case layout.GridColumn:
		cellH := (width - 2*gutter) / 3
		for i := range cells {
			top := i * (cellH + gutter)
			cells[i] = image.Rect(0, top, width, top+cellH)
		}
		return cells, 3*cellH + 2*gutter

	case layout.GridFeatured:
		// One dominant cell on the left, two stacked on the right.
		bigW := (width - gutter) * 2 / 3
		smallW := width - bigW - gutter
		smallH := (bigW - gutter) / 2
		bigH := 2*smallH + gutter
		cells[0] = image.Rect(0, 0, bigW, bigH)
		cells[1] = image.Rect(bigW+gutter, 0, bigW+gutter+smallW, smallH)
		cells[2] = image.Rect(bigW+gutter, smallH+gutter, bigW+gutter+smallW, bigH)
		return cells, bigH

	case layout.GridMasonry:
		// Tall cell on the left, two offset cells on the right.
		colW := (width - gutter) / 2
		tallH := colW * 3 / 2
		shortH := (tallH - gutter) / 2
		cells[0] = image.Rect(0, 0, colW, tallH)
		cells[1] = image.Rect(colW+gutter, 0, width, shortH)
		cells[2] = image.Rect(colW+gutter, shortH+gutter, width, tallH)
		return cells, tallH

	default: // GridRow
		cellW := (width - 2*gutter) / 3
		for i := range cells {
			left := i * (cellW + gutter)
			cells[i] = image.Rect(left, 0, left+cellW, cellW)
		}
		return cells, cellW
	}
}
