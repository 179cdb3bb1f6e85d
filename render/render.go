// Package render rasterizes one page block at a time. Arrangement is chosen
// by the structural category of the block's layout preset, the preset id
// itself only selects cosmetic variation within the category.
package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"

	"dpc/common"
	"dpc/config"
	"dpc/fonts"
	"dpc/layout"
	"dpc/page"
	"dpc/utils/images"
)

// basePadding is the block padding at scale 1.
const basePadding = 24

// baseGutter separates grid cells at scale 1.
const baseGutter = 8

// Options controls one rasterization pass.
type Options struct {
	Scale     int  // supersampling factor, minimum 1
	ForExport bool // suppress editor-only chrome (affordances, handles)
}

// Renderer turns blocks into bitmaps.
type Renderer struct {
	lib         *fonts.Library
	images      ImageSource
	imageFit    common.ImageFit
	background  color.RGBA
	placeholder color.RGBA
	log         *zap.Logger
}

// New creates a renderer over a font library and an image source.
func New(lib *fonts.Library, src ImageSource, cfg config.DocumentConfig, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}

	fit, err := common.ParseImageFit(cfg.ImageFit)
	if err != nil {
		fit = common.ImageFitCover
	}

	return &Renderer{
		lib:         lib,
		images:      src,
		imageFit:    fit,
		background:  parseHexColor(cfg.Export.Background),
		placeholder: parseHexColor(cfg.Export.Placeholder),
		log:         log.Named("render"),
	}
}

// RenderBlock rasterizes one block with its effective style under the given
// preset configuration. Failed image loads degrade to the placeholder fill,
// they never fail the block.
func (r *Renderer) RenderBlock(ctx context.Context, b page.Block, style page.EffectiveStyle, cfg layout.Config, opts Options) (*image.RGBA, error) {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	width := style.BlockWidth * scale
	if width <= 0 {
		width = 860 * scale
	}

	var img *image.RGBA
	switch cfg.Category {
	case layout.CategoryHorizontal:
		img = r.renderHorizontal(ctx, b, style, cfg, width, scale, opts)
	case layout.CategoryOverlay:
		img = r.renderOverlay(ctx, b, style, cfg, width, scale, opts)
	case layout.CategoryGrid:
		img = r.renderGrid(ctx, b, style, cfg, width, scale, opts)
	default:
		img = r.renderVertical(ctx, b, style, cfg, width, scale, opts)
	}

	r.log.Debug("Rendered block",
		zap.String("block", b.ID),
		zap.String("preset", cfg.ID),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Int("scale", scale))
	return img, nil
}

// newCanvas allocates the block bitmap filled with the block background.
func (r *Renderer) newCanvas(style page.EffectiveStyle, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := r.background
	if style.Background != "" {
		bg = parseHexColor(style.Background)
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	return img
}

// drawImageArea paints the image for ref into the rectangle, falling back to
// the placeholder fill when the slot is empty or the load fails. The upload
// affordance only appears outside export.
func (r *Renderer) drawImageArea(ctx context.Context, img *image.RGBA, rect image.Rectangle, ref string, opts Options) {
	if ref == "" {
		r.drawEmptySlot(img, rect, opts)
		return
	}

	src, err := r.images.Load(ctx, ref)
	if err != nil {
		r.log.Warn("Image load failed, substituting placeholder",
			zap.String("ref", ref), zap.Error(err))
		draw.Draw(img, rect, &image.Uniform{r.placeholder}, image.Point{}, draw.Src)
		return
	}

	fitted := fitImage(src, rect.Dx(), rect.Dy(), r.imageFit)
	if r.imageFit == common.ImageFitContain {
		draw.Draw(img, rect, &image.Uniform{r.placeholder}, image.Point{}, draw.Src)
		off := image.Pt(rect.Min.X+(rect.Dx()-fitted.Bounds().Dx())/2,
			rect.Min.Y+(rect.Dy()-fitted.Bounds().Dy())/2)
		draw.Draw(img, fitted.Bounds().Add(off), fitted, fitted.Bounds().Min, draw.Over)
		return
	}
	draw.Draw(img, rect, fitted, fitted.Bounds().Min, draw.Over)
}

// drawEmptySlot renders an empty image slot. In the editor this is the
// generated upload-affordance graphic, in export a plain placeholder fill.
func (r *Renderer) drawEmptySlot(img *image.RGBA, rect image.Rectangle, opts Options) {
	if opts.ForExport {
		draw.Draw(img, rect, &image.Uniform{r.placeholder}, image.Point{}, draw.Src)
		return
	}

	svg := placeholderSVG(rect.Dx(), rect.Dy(), rgbaToHex(r.placeholder))
	glyph, err := images.RasterizeSVGToImage(svg, rect.Dx(), rect.Dy(), float64(opts.Scale))
	if err != nil {
		r.log.Warn("Placeholder rasterization failed", zap.Error(err))
		draw.Draw(img, rect, &image.Uniform{r.placeholder}, image.Point{}, draw.Src)
		return
	}
	draw.Draw(img, rect, glyph, glyph.Bounds().Min, draw.Over)
}

// chromeColor is the accent used by all editor-only affordances.
var chromeColor = color.RGBA{R: 66, G: 133, B: 244, A: 255}

// drawAddTextHint draws the editor-only add-text affordance: an outlined
// strip with a plus mark. Never drawn on export.
func drawAddTextHint(img *image.RGBA, rect image.Rectangle, scale int) {
	frameRect(img, rect, chromeColor, scale)

	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	arm := 6 * scale
	drawFill(img, image.Rect(cx-arm, cy-scale, cx+arm, cy+scale), chromeColor)
	drawFill(img, image.Rect(cx-scale, cy-arm, cx+scale, cy+arm), chromeColor)
}

// frameRect strokes a 1px (scaled) border, used by the square-card preset.
func frameRect(img *image.RGBA, rect image.Rectangle, col color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness), &image.Uniform{col}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y), &image.Uniform{col}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y), &image.Uniform{col}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y), &image.Uniform{col}, image.Point{}, draw.Src)
}

// rgbaToHex renders a color as "#rrggbb".
func rgbaToHex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	return string([]byte{'#',
		digits[c.R>>4], digits[c.R&0xf],
		digits[c.G>>4], digits[c.G&0xf],
		digits[c.B>>4], digits[c.B&0xf]})
}

// scaleRect converts page coordinates to pixel coordinates.
func scaleRect(b page.Box, scale int) image.Rectangle {
	return image.Rect(b.X*scale, b.Y*scale, (b.X+b.Width)*scale, (b.Y+b.Height)*scale)
}
