// Package export flattens a project's blocks into one stitched raster file.
// Fonts are embedded first, every block rasterizes at the supersampling
// factor, the per-block bitmaps stack vertically and the result encodes to
// PNG or JPEG named after the project.
package export

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"dpc/common"
	"dpc/config"
	"dpc/fonts"
	"dpc/layout"
	"dpc/page"
	"dpc/render"
	"dpc/utils/images"
)

// FatalError marks conditions under which no output file is produced at
// all: nothing to export or every block failing. Partial degradation
// (a missing image, an unfetchable font) is not fatal.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return "export failed: " + e.Reason
}

// Result describes a finished export.
type Result struct {
	Path    string
	Width   int
	Height  int
	Blocks  int
	Skipped int
	FontCSS string
}

// BlockRenderer rasterizes one block. *render.Renderer implements it.
type BlockRenderer interface {
	RenderBlock(ctx context.Context, b page.Block, style page.EffectiveStyle, cfg layout.Config, opts render.Options) (*image.RGBA, error)
}

// Pipeline runs exports.
type Pipeline struct {
	renderer BlockRenderer
	resolver *fonts.Resolver
	cfg      config.DocumentConfig
	log      *zap.Logger
}

// New creates an export pipeline.
func New(renderer BlockRenderer, resolver *fonts.Resolver, cfg config.DocumentConfig, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		renderer: renderer,
		resolver: resolver,
		cfg:      cfg,
		log:      log.Named("export"),
	}
}

// Export stitches the project's live blocks into one file under outDir and
// returns where it landed. The font stylesheet is fully resolved before the
// first block rasterizes.
func (p *Pipeline) Export(ctx context.Context, project page.Project, blocks []page.Block, format common.OutputFmt, outDir string) (Result, error) {
	live := make([]page.Block, 0, len(blocks))
	for _, b := range blocks {
		if !b.Deleted {
			live = append(live, b)
		}
	}
	if len(live) == 0 {
		return Result{}, &FatalError{Reason: "no exportable blocks"}
	}

	fontCSS := ""
	if p.resolver != nil {
		usage := fonts.CollectUsage(project.Style, live)
		fontCSS = p.resolver.BuildEmbeddedCSS(ctx, usage)
	}

	scale := p.cfg.Export.Supersample
	if scale < 1 {
		scale = 1
	}

	bitmaps := make([]*image.RGBA, 0, len(live))
	skipped := 0
	for _, b := range live {
		style := page.Resolve(project.Style, b.Style)
		cfg := layout.Describe(b.LayoutPreset)

		img, err := p.renderer.RenderBlock(ctx, b, style, cfg, render.Options{
			Scale:     scale,
			ForExport: true,
		})
		if err != nil {
			p.log.Warn("Block rasterization failed, skipping",
				zap.String("block", b.ID), zap.Error(err))
			skipped++
			continue
		}
		bitmaps = append(bitmaps, img)
	}
	if len(bitmaps) == 0 {
		return Result{}, &FatalError{Reason: "all block rasterizations failed"}
	}

	stitched := p.stitch(bitmaps)

	name, err := p.outputName(project, format)
	if err != nil {
		return Result{}, err
	}
	path := filepath.Join(outDir, name)

	if err := p.writeFile(stitched, format, path); err != nil {
		return Result{}, err
	}

	res := Result{
		Path:    path,
		Width:   stitched.Bounds().Dx(),
		Height:  stitched.Bounds().Dy(),
		Blocks:  len(bitmaps),
		Skipped: skipped,
		FontCSS: fontCSS,
	}
	p.log.Info("Export finished",
		zap.String("path", res.Path),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Int("blocks", res.Blocks),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// stitch stacks the block bitmaps top to bottom: output height is the sum
// of block heights, width the maximum block width, no gaps, no overlaps.
func (p *Pipeline) stitch(bitmaps []*image.RGBA) *image.RGBA {
	width, height := 0, 0
	for _, b := range bitmaps {
		if w := b.Bounds().Dx(); w > width {
			width = w
		}
		height += b.Bounds().Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := image.NewUniform(parseBackground(p.cfg.Export.Background))
	draw.Draw(out, out.Bounds(), bg, image.Point{}, draw.Src)

	y := 0
	for _, b := range bitmaps {
		r := b.Bounds().Sub(b.Bounds().Min).Add(image.Pt(0, y))
		draw.Draw(out, r, b, b.Bounds().Min, draw.Src)
		y += b.Bounds().Dy()
	}
	return out
}

// writeFile encodes and atomically places the output. A failed encode never
// leaves a partial file behind.
func (p *Pipeline) writeFile(img *image.RGBA, format common.OutputFmt, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dpc-export-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	switch format {
	case common.OutputFmtJpg:
		quality := p.cfg.Export.JPEGQuality
		if quality <= 0 {
			quality = 95
		}
		data, err := images.EncodeJPEGWithDPI(img, quality, images.DpiPxPerInch, 144, 144)
		if err != nil {
			tmp.Close() //nolint:errcheck
			return fmt.Errorf("encoding jpeg: %w", err)
		}
		if _, err := tmp.Write(data); err != nil {
			tmp.Close() //nolint:errcheck
			return fmt.Errorf("writing jpeg: %w", err)
		}
	default:
		if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
			tmp.Close() //nolint:errcheck
			return fmt.Errorf("encoding png: %w", err)
		}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("placing output file: %w", err)
	}
	return nil
}
