package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"dpc/common"
	"dpc/config"
	"dpc/layout"
	"dpc/page"
	"dpc/render"
	"dpc/utils/images"
)

// stubRenderer produces fixed-size bitmaps, honoring the supersample scale.
// Heights come from the block title so tests control geometry exactly.
type stubRenderer struct {
	heights map[string]int
	width   int
	fail    map[string]bool
	colors  map[string]color.RGBA
}

func (s *stubRenderer) RenderBlock(_ context.Context, b page.Block, _ page.EffectiveStyle, _ layout.Config, opts render.Options) (*image.RGBA, error) {
	if s.fail[b.ID] {
		return nil, errors.New("render failed")
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width*opts.Scale, s.heights[b.ID]*opts.Scale))
	col := s.colors[b.ID]
	if col == (color.RGBA{}) {
		col = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img, nil
}

func docConfig() config.DocumentConfig {
	return config.DocumentConfig{
		BlockWidth: 860,
		ImageFit:   "cover",
		Export: config.ExportConfig{
			Supersample: 2,
			JPEGQuality: 95,
			Background:  "#ffffff",
			Placeholder: "#f2f3f5",
		},
	}
}

func testProject() page.Project {
	return page.Project{
		ID:          "p1",
		DisplayName: "Ceramic Mug Detail",
		Style: page.ProjectStyle{
			BlockWidth: 860, Background: "#ffffff", FontFamily: "Inter",
			FontSize: 16, FontWeight: 400, TextColor: "#111111",
			TextAlign: common.AlignLeft,
		},
	}
}

func TestExportStitchGeometry(t *testing.T) {
	r := &stubRenderer{
		width:   400,
		heights: map[string]int{"a": 400, "b": 600},
		colors: map[string]color.RGBA{
			"a": {R: 10, G: 20, B: 30, A: 255},
			"b": {R: 40, G: 50, B: 60, A: 255},
		},
	}
	p := New(r, nil, docConfig(), zap.NewNop())
	dir := t.TempDir()

	blocks := []page.Block{
		{ID: "a", ScenarioNo: 1},
		{ID: "b", ScenarioNo: 2},
	}
	res, err := p.Export(context.Background(), testProject(), blocks, common.OutputFmtPng, dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if res.Height != 2000 {
		t.Errorf("height: got %d, want 2000 ((400+600)x2)", res.Height)
	}
	if res.Width != 800 {
		t.Errorf("width: got %d, want 800", res.Width)
	}

	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}

	// Block 1 occupies rows [0,800), block 2 rows [800,2000).
	checks := []struct {
		y    int
		want color.RGBA
	}{
		{0, color.RGBA{R: 10, G: 20, B: 30, A: 255}},
		{799, color.RGBA{R: 10, G: 20, B: 30, A: 255}},
		{800, color.RGBA{R: 40, G: 50, B: 60, A: 255}},
		{1999, color.RGBA{R: 40, G: 50, B: 60, A: 255}},
	}
	for _, c := range checks {
		if got := color.RGBAModel.Convert(img.At(100, c.y)); got != c.want {
			t.Errorf("row %d: got %v, want %v", c.y, got, c.want)
		}
	}
}

func TestExportFileName(t *testing.T) {
	r := &stubRenderer{width: 100, heights: map[string]int{"a": 100}}
	p := New(r, nil, docConfig(), zap.NewNop())
	dir := t.TempDir()

	res, err := p.Export(context.Background(), testProject(), []page.Block{{ID: "a"}}, common.OutputFmtPng, dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(res.Path) != "Ceramic Mug Detail.png" {
		t.Errorf("file name: got %q", filepath.Base(res.Path))
	}

	res, err = p.Export(context.Background(), testProject(), []page.Block{{ID: "a"}}, common.OutputFmtJpg, dir)
	if err != nil {
		t.Fatalf("Export jpg: %v", err)
	}
	if filepath.Base(res.Path) != "Ceramic Mug Detail.jpg" {
		t.Errorf("jpg file name: got %q", filepath.Base(res.Path))
	}
}

func TestExportJPEGCarriesJFIF(t *testing.T) {
	r := &stubRenderer{width: 100, heights: map[string]int{"a": 100}}
	p := New(r, nil, docConfig(), zap.NewNop())
	dir := t.TempDir()

	res, err := p.Export(context.Background(), testProject(), []page.Block{{ID: "a"}}, common.OutputFmtJpg, dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out, added, err := images.EnsureJFIFAPP0(data, images.DpiPxPerInch, 144, 144)
	if err != nil {
		t.Fatalf("EnsureJFIFAPP0: %v", err)
	}
	if added || !bytes.Equal(out, data) {
		t.Error("exported jpeg must already carry the JFIF APP0 segment")
	}
}

func TestExportNoBlocksIsFatal(t *testing.T) {
	r := &stubRenderer{width: 100, heights: map[string]int{}}
	p := New(r, nil, docConfig(), zap.NewNop())

	_, err := p.Export(context.Background(), testProject(), nil, common.OutputFmtPng, t.TempDir())
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}

	// Tombstoned-only input is just as fatal.
	_, err = p.Export(context.Background(), testProject(),
		[]page.Block{{ID: "a", Deleted: true}}, common.OutputFmtPng, t.TempDir())
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError for deleted-only input, got %v", err)
	}
}

func TestExportSkipsFailedBlocks(t *testing.T) {
	r := &stubRenderer{
		width:   100,
		heights: map[string]int{"a": 100, "b": 100},
		fail:    map[string]bool{"a": true},
	}
	p := New(r, nil, docConfig(), zap.NewNop())
	dir := t.TempDir()

	res, err := p.Export(context.Background(), testProject(),
		[]page.Block{{ID: "a"}, {ID: "b"}}, common.OutputFmtPng, dir)
	if err != nil {
		t.Fatalf("one failed block must not abort the export: %v", err)
	}
	if res.Blocks != 1 || res.Skipped != 1 {
		t.Errorf("blocks/skipped: got %d/%d", res.Blocks, res.Skipped)
	}
	if res.Height != 200 {
		t.Errorf("height: got %d, want 200", res.Height)
	}
}

func TestExportAllFailedIsFatal(t *testing.T) {
	r := &stubRenderer{
		width:   100,
		heights: map[string]int{"a": 100},
		fail:    map[string]bool{"a": true},
	}
	p := New(r, nil, docConfig(), zap.NewNop())
	dir := t.TempDir()

	_, err := p.Export(context.Background(), testProject(), []page.Block{{ID: "a"}}, common.OutputFmtPng, dir)
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}

	// No partial file may remain.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("fatal export left files behind: %v", entries)
	}
}

func TestOutputNameTemplate(t *testing.T) {
	cfg := docConfig()
	cfg.OutputNameTemplate = `{{.Name | upper}}-{{.ProjectID}}.{{.Ext}}`
	p := New(&stubRenderer{}, nil, cfg, zap.NewNop())

	name, err := p.outputName(testProject(), common.OutputFmtPng)
	if err != nil {
		t.Fatalf("outputName: %v", err)
	}
	if name != "CERAMIC MUG DETAIL-p1.png" {
		t.Errorf("got %q", name)
	}
}

func TestOutputNameTransliterate(t *testing.T) {
	cfg := docConfig()
	cfg.FileNameTransliterate = true
	p := New(&stubRenderer{}, nil, cfg, zap.NewNop())

	project := testProject()
	project.DisplayName = "Чашка Утро"
	name, err := p.outputName(project, common.OutputFmtJpg)
	if err != nil {
		t.Fatalf("outputName: %v", err)
	}
	if name != "chashka-utro.jpg" {
		t.Errorf("got %q", name)
	}
}
