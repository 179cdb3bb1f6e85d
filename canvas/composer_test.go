package canvas

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"dpc/common"
	"dpc/layout"
	"dpc/page"
	"dpc/render"
)

// fakePersister records every write in arrival order.
type fakePersister struct {
	mu           sync.Mutex
	blocks       []page.Block
	styles       []page.ProjectStyle
	reorders     [][]string
	failEverything bool
}

func (f *fakePersister) UpdateBlock(b page.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEverything {
		return errors.New("persist down")
	}
	f.blocks = append(f.blocks, b)
	return nil
}

func (f *fakePersister) UpdateProjectStyle(id string, style page.ProjectStyle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEverything {
		return errors.New("persist down")
	}
	f.styles = append(f.styles, style)
	return nil
}

func (f *fakePersister) ReorderBlocks(projectID string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEverything {
		return errors.New("persist down")
	}
	ordered := make([]string, len(ids))
	copy(ordered, ids)
	f.reorders = append(f.reorders, ordered)
	return nil
}

func testProject() page.Project {
	return page.Project{
		ID:          "p1",
		DisplayName: "Ceramic Mug Detail",
		Style: page.ProjectStyle{
			BlockWidth: 860,
			Background: "#ffffff",
			FontFamily: "Inter",
			FontSize:   16,
			FontWeight: 400,
			TextColor:  "#111111",
			TextAlign:  common.AlignLeft,
		},
	}
}

func testBlocks(n int) []page.Block {
	blocks := make([]page.Block, n)
	for i := range blocks {
		blocks[i] = page.Block{
			ID:           string(rune('a' + i)),
			ProjectID:    "p1",
			ScenarioNo:   i + 1,
			LayoutPreset: layout.DefaultID,
		}
	}
	return blocks
}

func newComposer(t *testing.T, blocks []page.Block, p *fakePersister, opts ...Option) *Composer {
	t.Helper()
	opts = append(opts, WithRand(rand.New(rand.NewSource(7))))
	return New(testProject(), blocks, p, zap.NewNop(), opts...)
}

func TestFirstOpenRandomizesOnlyMissingPresets(t *testing.T) {
	p := &fakePersister{}
	blocks := testBlocks(3)
	blocks[1].LayoutPreset = "" // only this one lacks a preset

	c := newComposer(t, blocks, p)
	got := c.Blocks()
	c.Close()

	if got[0].LayoutPreset != layout.DefaultID || got[2].LayoutPreset != layout.DefaultID {
		t.Error("assigned presets must not be re-randomized")
	}
	if got[1].LayoutPreset == "" {
		t.Error("missing preset must be assigned on open")
	}
	if len(p.blocks) != 1 || p.blocks[0].ID != "b" {
		t.Errorf("exactly the randomized block persists, got %d writes", len(p.blocks))
	}
}

func TestMoveBlockKeepsTotalOrder(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(4), p)

	c.MoveBlock("d", 0)
	c.MoveBlock("a", 2)
	blocks := c.Blocks()
	c.Close()

	seen := make(map[int]bool)
	for i, b := range blocks {
		if b.ScenarioNo != i+1 {
			t.Errorf("position %d has scenario number %d", i, b.ScenarioNo)
		}
		if seen[b.ScenarioNo] {
			t.Errorf("duplicate scenario number %d", b.ScenarioNo)
		}
		seen[b.ScenarioNo] = true
	}

	if len(p.reorders) != 2 {
		t.Fatalf("expected 2 persisted reorders, got %d", len(p.reorders))
	}
	last := p.reorders[1]
	for i, b := range blocks {
		if last[i] != b.ID {
			t.Errorf("persisted order %v does not match memory %v", last, blocks)
			break
		}
	}
}

func TestStyleAutosaveDebounces(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(1), p, WithStyleDebounce(30*time.Millisecond))

	style := testProject().Style
	for size := 17.0; size <= 21; size++ {
		style.FontSize = size
		c.SetProjectStyle(style)
	}

	time.Sleep(150 * time.Millisecond)
	c.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.styles) != 1 {
		t.Fatalf("expected one coalesced write, got %d", len(p.styles))
	}
	if p.styles[0].FontSize != 21 {
		t.Errorf("trailing write must hold the final state, got %v", p.styles[0].FontSize)
	}
}

func TestCloseFlushesPendingAutosave(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(1), p, WithStyleDebounce(time.Hour))

	style := testProject().Style
	style.FontSize = 44
	c.SetProjectStyle(style)
	c.Close()

	if len(p.styles) != 1 || p.styles[0].FontSize != 44 {
		t.Fatalf("close must flush the pending style write: %v", p.styles)
	}
}

func TestCommitOrderPreservedPerBlock(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(1), p)

	c.CommitText("a", render.FieldTitle, "one")
	c.CommitText("a", render.FieldTitle, "two")
	c.CommitText("a", render.FieldTitle, "three")
	c.Close()

	if len(p.blocks) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(p.blocks))
	}
	want := []string{"one", "two", "three"}
	for i, w := range want {
		if p.blocks[i].Title != w {
			t.Errorf("write %d: got %q, want %q", i, p.blocks[i].Title, w)
		}
	}
}

func TestBodyOverrideLifecycle(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(1), p)
	defer c.Close()

	c.SetGeneratedText("a", "T", "S", "generated v1")
	c.CommitText("a", render.FieldBody, "user edit")
	c.SetGeneratedText("a", "T", "S", "generated v2")

	b := c.Blocks()[0]
	if b.EffectiveBody() != "user edit" {
		t.Errorf("override must survive regeneration: %q", b.EffectiveBody())
	}
	if b.Body != "generated v2" {
		t.Errorf("generated text must still update underneath: %q", b.Body)
	}

	c.ClearBodyEdit("a")
	if got := c.Blocks()[0].EffectiveBody(); got != "generated v2" {
		t.Errorf("after clear: %q", got)
	}
}

func TestSetPresetDeterminesPlacement(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(1), p)
	defer c.Close()

	c.SetPreset("a", "overlay-center")
	b := c.Blocks()[0]
	want := layout.Describe("overlay-center").Overlay.Anchor
	if b.OverlayBox != want {
		t.Errorf("overlay preset must set its anchor: %+v", b.OverlayBox)
	}

	c.SetTextOffset("a", page.Offset{X: 20, Y: -10})
	c.SetPreset("a", "image-top")
	b = c.Blocks()[0]
	if !b.OverlayBox.IsZero() || !b.TextOffset.IsZero() {
		t.Errorf("leaving overlay must clear placement: %+v %+v", b.OverlayBox, b.TextOffset)
	}
}

func TestZoomBounds(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(1), p)
	defer c.Close()

	if z := c.Zoom(); z != ZoomDefault {
		t.Errorf("default zoom: %d", z)
	}
	if z := c.SetZoom(9999); z != ZoomMax {
		t.Errorf("clamp high: %d", z)
	}
	if z := c.SetZoom(0); z != ZoomMin {
		t.Errorf("clamp low: %d", z)
	}
	if z := c.SetZoom(104); z != 100 {
		t.Errorf("snap to step: %d", z)
	}
	c.SetZoom(ZoomMax)
	if z := c.ZoomIn(); z != ZoomMax {
		t.Errorf("zoom in at max: %d", z)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(3), p)
	defer c.Close()

	c.Select("b")
	c.DeleteBlock("b")

	if len(c.Blocks()) != 2 {
		t.Fatalf("live blocks after delete: %d", len(c.Blocks()))
	}
	if _, ok := c.Selected(); ok {
		t.Error("deleting the selected block must clear selection")
	}

	c.RestoreBlock("b")
	blocks := c.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("after restore: %d", len(blocks))
	}
	if blocks[1].ID != "b" {
		t.Errorf("restored block out of place: %v", blocks)
	}
}

func TestSaveFailureNotifiesWithoutRollback(t *testing.T) {
	p := &fakePersister{failEverything: true}
	var mu sync.Mutex
	var notices []string
	c := newComposer(t, testBlocks(1), p, WithNotifier(func(msg string) {
		mu.Lock()
		notices = append(notices, msg)
		mu.Unlock()
	}))

	c.CommitText("a", render.FieldTitle, "still here")
	c.Close()

	if got := c.Blocks()[0].Title; got != "still here" {
		t.Errorf("optimistic state rolled back: %q", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(notices) == 0 {
		t.Error("expected a save-failure notification")
	}
}

func TestRandomizeAllReassignsEveryBlock(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(6), p)
	defer c.Close()

	c.RandomizeAll()
	for _, b := range c.Blocks() {
		if b.LayoutPreset == "" {
			t.Error("block left without preset")
		}
		if !layout.Describe(b.LayoutPreset).Draggable {
			continue
		}
		if b.OverlayBox.IsZero() {
			t.Errorf("overlay preset %s missing anchor", b.LayoutPreset)
		}
	}
}

func TestRestoreAfterReorderKeepsOrderKeysUnique(t *testing.T) {
	p := &fakePersister{}
	c := newComposer(t, testBlocks(3), p)
	defer c.Close()

	// Tombstone b (scenario 2), then reorder so a live block takes over
	// order key 2. The restored block must not alias it.
	c.DeleteBlock("b")
	c.MoveBlock("c", 0)
	c.RestoreBlock("b")

	blocks := c.Blocks()
	seen := make(map[int]string)
	for _, b := range blocks {
		if prev, dup := seen[b.ScenarioNo]; dup {
			t.Fatalf("blocks %s and %s share scenario number %d", prev, b.ID, b.ScenarioNo)
		}
		seen[b.ScenarioNo] = b.ID
	}
	if last := blocks[len(blocks)-1]; last.ID != "b" {
		t.Errorf("displaced block must join the end, got %v", blocks)
	}
}

func TestCloseFlushesStyleAcrossTimerRace(t *testing.T) {
	// Whatever the interleaving of the debounce timer and Close, the final
	// style must reach the persister exactly once.
	for i := 0; i < 50; i++ {
		p := &fakePersister{}
		c := newComposer(t, testBlocks(1), p, WithStyleDebounce(time.Microsecond))

		style := testProject().Style
		style.FontSize = 44
		c.SetProjectStyle(style)
		time.Sleep(time.Duration(i%3) * time.Microsecond)
		c.Close()

		p.mu.Lock()
		styles := p.styles
		p.mu.Unlock()
		if len(styles) != 1 || styles[0].FontSize != 44 {
			t.Fatalf("iteration %d: persisted styles %v", i, styles)
		}
	}
}
