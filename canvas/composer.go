// Package canvas owns the interactive page state: the ordered block list,
// selection, zoom and the project style. All mutations apply in memory
// immediately and persist asynchronously, a failed write never rolls back
// what the user sees.
package canvas

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"dpc/layout"
	"dpc/page"
	"dpc/render"
)

// Zoom bounds, percent, in fixed steps.
const (
	ZoomMin     = 50
	ZoomMax     = 150
	ZoomStep    = 10
	ZoomDefault = 100
)

// StyleDebounce coalesces rapid project-style edits into one trailing write.
const StyleDebounce = time.Second

// Persister is the persistence surface the composer writes through.
type Persister interface {
	UpdateBlock(b page.Block) error
	UpdateProjectStyle(id string, style page.ProjectStyle) error
	ReorderBlocks(projectID string, orderedIDs []string) error
}

// Notifier surfaces non-blocking save failures to the user.
type Notifier func(msg string)

// Composer orchestrates the full page.
type Composer struct {
	mu       sync.Mutex
	project  page.Project
	blocks   []page.Block
	deleted  []page.Block
	selected string
	zoom     int

	persister Persister
	queue     *writeQueue
	notify    Notifier
	log       *zap.Logger

	styleTimer    *time.Timer
	styleDebounce time.Duration
	styleDirty    bool

	rng *rand.Rand
}

// Option adjusts composer construction.
type Option func(*Composer)

// WithNotifier routes save-failure notifications to fn.
func WithNotifier(fn Notifier) Option {
	return func(c *Composer) { c.notify = fn }
}

// WithStyleDebounce overrides the autosave window, tests shorten it.
func WithStyleDebounce(d time.Duration) Option {
	return func(c *Composer) { c.styleDebounce = d }
}

// WithRand supplies the randomization source, tests seed it.
func WithRand(rng *rand.Rand) Option {
	return func(c *Composer) { c.rng = rng }
}

// New opens a project on the canvas. Blocks are ordered by scenario number.
// Any block still missing a layout preset gets one drawn uniformly from the
// catalog, once, here - blocks that already have a preset are left alone.
func New(project page.Project, blocks []page.Block, persister Persister, log *zap.Logger, opts ...Option) *Composer {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Composer{
		project:       project,
		persister:     persister,
		queue:         newWriteQueue(),
		log:           log.Named("canvas"),
		styleDebounce: StyleDebounce,
		zoom:          ZoomDefault,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, b := range blocks {
		if b.Deleted {
			c.deleted = append(c.deleted, b)
			continue
		}
		c.blocks = append(c.blocks, b)
	}
	sortBlocks(c.blocks)

	c.randomizeMissingLocked()
	return c
}

// Close flushes the pending autosave and drains queued writes. The flush is
// unconditional: a debounce timer that fired but has not reached the queue
// yet would otherwise lose the final style to the queue shutdown.
func (c *Composer) Close() {
	c.mu.Lock()
	if c.styleTimer != nil {
		c.styleTimer.Stop()
		c.styleTimer = nil
	}
	c.persistStyleLocked()
	c.mu.Unlock()
	c.queue.close()
}

// Project returns the current project snapshot.
func (c *Composer) Project() page.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project
}

// Blocks returns the live blocks in order.
func (c *Composer) Blocks() []page.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]page.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Select makes the block the single selection. Unknown ids clear it.
func (c *Composer) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.indexLocked(id); ok {
		c.selected = id
	} else {
		c.selected = ""
	}
}

// Selected returns the selected block, if any.
func (c *Composer) Selected() (page.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.indexLocked(c.selected); ok {
		return c.blocks[i], true
	}
	return page.Block{}, false
}

// Zoom returns the current zoom percentage.
func (c *Composer) Zoom() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// SetZoom clamps to the allowed range and snaps to the step grid.
func (c *Composer) SetZoom(percent int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = clampZoom(percent)
	return c.zoom
}

// ZoomIn steps the zoom up.
func (c *Composer) ZoomIn() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = clampZoom(c.zoom + ZoomStep)
	return c.zoom
}

// ZoomOut steps the zoom down.
func (c *Composer) ZoomOut() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = clampZoom(c.zoom - ZoomStep)
	return c.zoom
}

func clampZoom(percent int) int {
	snapped := ((percent + ZoomStep/2) / ZoomStep) * ZoomStep
	if snapped < ZoomMin {
		return ZoomMin
	}
	if snapped > ZoomMax {
		return ZoomMax
	}
	return snapped
}

// MoveBlock reorders the block to the given position. Scenario numbers are
// rewritten to a fresh consecutive sequence and persisted as one reorder.
func (c *Composer) MoveBlock(id string, toIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, ok := c.indexLocked(id)
	if !ok {
		return
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(c.blocks) {
		toIndex = len(c.blocks) - 1
	}
	if from == toIndex {
		return
	}

	moved := c.blocks[from]
	c.blocks = append(c.blocks[:from], c.blocks[from+1:]...)
	c.blocks = append(c.blocks[:toIndex], append([]page.Block{moved}, c.blocks[toIndex:]...)...)

	ids := make([]string, len(c.blocks))
	for i := range c.blocks {
		c.blocks[i].ScenarioNo = i + 1
		ids[i] = c.blocks[i].ID
	}

	projectID := c.project.ID
	c.queue.enqueue(func() {
		if err := c.persister.ReorderBlocks(projectID, ids); err != nil {
			c.reportSaveFailure("reorder", err)
		}
	})
}

// CommitText applies a committed text field value. Body commits become the
// user's override, the generated body stays untouched underneath.
func (c *Composer) CommitText(id string, field render.Field, value string) {
	c.mutateBlock(id, func(b *page.Block) {
		switch field {
		case render.FieldTitle:
			b.Title = value
		case render.FieldSubtitle:
			b.Subtitle = value
		case render.FieldBody:
			b.EditBody(value)
		}
	})
}

// SetGeneratedText replaces the generated content after a regeneration.
// An existing body override survives.
func (c *Composer) SetGeneratedText(id, title, subtitle, body string) {
	c.mutateBlock(id, func(b *page.Block) {
		b.Title = title
		b.Subtitle = subtitle
		b.SetGeneratedBody(body)
	})
}

// ClearBodyEdit drops the body override, the generated text shows again.
func (c *Composer) ClearBodyEdit(id string) {
	c.mutateBlock(id, func(b *page.Block) {
		b.ClearBodyEdit()
	})
}

// SetPreset switches the block's layout preset. Placement is fully
// determined by the new preset: overlay presets take their anchor box,
// everything else resets to flow.
func (c *Composer) SetPreset(id, presetID string) {
	c.mutateBlock(id, func(b *page.Block) {
		patch := layout.DefaultsFor(presetID)
		b.LayoutPreset = presetID
		b.TextOffset = patch.TextOffset
		b.OverlayBox = patch.OverlayBox
	})
}

// RandomizeAll assigns every block a preset drawn independently and
// uniformly from the catalog. Rerunning produces a different page.
func (c *Composer) RandomizeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.blocks {
		c.assignPresetLocked(&c.blocks[i], layout.Random(c.rng))
		c.persistBlockLocked(c.blocks[i])
	}
}

// SetTextOffset persists a drag release.
func (c *Composer) SetTextOffset(id string, offset page.Offset) {
	c.mutateBlock(id, func(b *page.Block) {
		b.TextOffset = offset
	})
}

// ResetTextOffset restores the preset anchor position.
func (c *Composer) ResetTextOffset(id string) {
	c.SetTextOffset(id, page.Offset{})
}

// SetOverlayBox persists an explicit overlay box resize.
func (c *Composer) SetOverlayBox(id string, box page.Box) {
	c.mutateBlock(id, func(b *page.Block) {
		b.OverlayBox = box
	})
}

// SetBlockStyle replaces the block's sparse style override.
func (c *Composer) SetBlockStyle(id string, style *page.BlockStyle) {
	c.mutateBlock(id, func(b *page.Block) {
		if style.IsEmpty() {
			b.Style = nil
		} else {
			b.Style = style
		}
	})
}

// SetImage writes an image reference into a slot.
func (c *Composer) SetImage(id string, slot int, ref string) {
	c.mutateBlock(id, func(b *page.Block) {
		b.SetSlot(slot, ref)
	})
}

// ClearImage empties a slot without shifting the others.
func (c *Composer) ClearImage(id string, slot int) {
	c.mutateBlock(id, func(b *page.Block) {
		b.ClearSlot(slot)
	})
}

// SwapImageSlots exchanges two slot references atomically.
func (c *Composer) SwapImageSlots(id string, i, j int) {
	c.mutateBlock(id, func(b *page.Block) {
		b.SwapSlots(i, j)
	})
}

// DeleteBlock tombstones the block and removes it from the canvas.
func (c *Composer) DeleteBlock(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.indexLocked(id)
	if !ok {
		return
	}
	b := c.blocks[i]
	b.Deleted = true
	c.blocks = append(c.blocks[:i], c.blocks[i+1:]...)
	c.deleted = append(c.deleted, b)
	if c.selected == id {
		c.selected = ""
	}
	c.persistBlockLocked(b)
}

// RestoreBlock brings a tombstoned block back at its old position. If a
// reorder has since handed that order key to a live block, the restored
// block joins the end of the page instead of aliasing the live one.
func (c *Composer) RestoreBlock(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, b := range c.deleted {
		if b.ID != id {
			continue
		}
		b.Deleted = false
		c.deleted = append(c.deleted[:i], c.deleted[i+1:]...)
		if c.scenarioNoTakenLocked(b.ScenarioNo) {
			b.ScenarioNo = c.maxScenarioNoLocked() + 1
		}
		c.blocks = append(c.blocks, b)
		sortBlocks(c.blocks)
		c.persistBlockLocked(b)
		return
	}
}

func (c *Composer) scenarioNoTakenLocked(no int) bool {
	for i := range c.blocks {
		if c.blocks[i].ScenarioNo == no {
			return true
		}
	}
	return false
}

func (c *Composer) maxScenarioNoLocked() int {
	max := 0
	for _, b := range c.blocks {
		if b.ScenarioNo > max {
			max = b.ScenarioNo
		}
	}
	for _, b := range c.deleted {
		if b.ScenarioNo > max {
			max = b.ScenarioNo
		}
	}
	return max
}

// SetProjectStyle applies a project-wide style change immediately and
// schedules the debounced autosave. Rapid successive edits coalesce into a
// single trailing write of the final state.
func (c *Composer) SetProjectStyle(style page.ProjectStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.project.Style = style
	c.styleDirty = true

	if c.styleTimer != nil {
		c.styleTimer.Stop()
	}
	c.styleTimer = time.AfterFunc(c.styleDebounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.persistStyleLocked()
	})
}

// persistStyleLocked enqueues the current project style for writing. The
// dirty flag makes the flush idempotent: whichever of the timer callback and
// Close runs first writes the style, the other is a no-op.
func (c *Composer) persistStyleLocked() {
	if !c.styleDirty {
		return
	}
	c.styleDirty = false
	id := c.project.ID
	style := c.project.Style
	c.queue.enqueue(func() {
		if err := c.persister.UpdateProjectStyle(id, style); err != nil {
			c.reportSaveFailure("project style", err)
		}
	})
}

// mutateBlock applies fn to the block in memory and enqueues the full new
// state. Snapshots enter the queue in commit order, so the last commit wins
// in the store as well.
func (c *Composer) mutateBlock(id string, fn func(b *page.Block)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.indexLocked(id)
	if !ok {
		return
	}
	fn(&c.blocks[i])
	c.persistBlockLocked(c.blocks[i])
}

func (c *Composer) persistBlockLocked(b page.Block) {
	c.queue.enqueue(func() {
		if err := c.persister.UpdateBlock(b); err != nil {
			c.reportSaveFailure("block "+b.ID, err)
		}
	})
}

// randomizeMissingLocked is the first-open randomization: only blocks with
// no preset at all are assigned one. Preset presence is the sole signal, so
// manually clearing a preset invites re-randomization on the next open.
func (c *Composer) randomizeMissingLocked() {
	for i := range c.blocks {
		if c.blocks[i].LayoutPreset != "" {
			continue
		}
		c.assignPresetLocked(&c.blocks[i], layout.Random(c.rng))
		c.persistBlockLocked(c.blocks[i])
	}
}

func (c *Composer) assignPresetLocked(b *page.Block, presetID string) {
	patch := layout.DefaultsFor(presetID)
	b.LayoutPreset = presetID
	b.TextOffset = patch.TextOffset
	b.OverlayBox = patch.OverlayBox
}

func (c *Composer) indexLocked(id string) (int, bool) {
	for i := range c.blocks {
		if c.blocks[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (c *Composer) reportSaveFailure(what string, err error) {
	c.log.Warn("Save failed", zap.String("target", what), zap.Error(err))
	if c.notify != nil {
		c.notify(fmt.Sprintf("save failed: %s", what))
	}
}

func sortBlocks(blocks []page.Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].ScenarioNo < blocks[j].ScenarioNo
	})
}
