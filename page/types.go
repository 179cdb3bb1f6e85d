// Package page defines the detail page data model: projects, content blocks
// and their styling. A project is an ordered list of blocks, each block is a
// single generated scene - images plus title/subtitle/body text - with its
// own layout preset and optional style override on top of project defaults.
package page

import (
	"time"

	"dpc/common"
)

// SlotCount is the fixed number of addressable image slots per block:
// the primary image plus two extras. Slots are stable addresses - clearing
// a slot never shifts later slots.
const SlotCount = 3

// Offset is a free-position translation of overlay text relative to the
// layout preset's default anchor. Zero value means "no override".
type Offset struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// Box is an absolute overlay text box. Zero value means "unset" - the
// preset's default anchor governs.
type Box struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (b Box) IsZero() bool {
	return b == Box{}
}

// Shift returns the box translated by the given offset.
func (b Box) Shift(o Offset) Box {
	b.X += o.X
	b.Y += o.Y
	return b
}

// ProjectStyle is the project-wide style. Total - every field always has a
// concrete value. Mutated only through an explicit project settings update.
type ProjectStyle struct {
	BlockWidth int
	Background string
	FontFamily string
	FontSize   float64
	FontWeight int
	TextColor  string
	TextAlign  common.Align
}

// BlockStyle is a sparse per-block override: every field optional, absent
// fields inherit from the project style.
type BlockStyle struct {
	Background *string
	FontFamily *string
	FontSize   *float64
	FontWeight *int
	TextColor  *string
	TextAlign  *common.Align
}

// IsEmpty reports whether the override sets nothing at all.
func (s *BlockStyle) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Background == nil && s.FontFamily == nil && s.FontSize == nil &&
		s.FontWeight == nil && s.TextColor == nil && s.TextAlign == nil
}

// EffectiveStyle is the fully resolved style of one block. Derived, never
// persisted - recompute on every render so it is never stale.
type EffectiveStyle struct {
	BlockWidth int
	Background string
	FontFamily string
	FontSize   float64
	FontWeight int
	TextColor  string
	TextAlign  common.Align
}

// Project carries identity and the project-wide style. Content metadata
// outside the composer's scope (owner, prompts, upload buckets) lives with
// the persistence collaborator.
type Project struct {
	ID          string
	DisplayName string
	Style       ProjectStyle
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Block is one unit of the detail page.
type Block struct {
	ID         string
	ProjectID  string
	ScenarioNo int

	// Images[0] is the primary image, the rest are extra slots in stable
	// order. Empty string is the "no image" sentinel.
	Images [SlotCount]string

	Title    string
	Subtitle string
	// Body is the generated text, BodyEdited the user's override. The
	// override supersedes Body whenever present and survives regeneration;
	// only an explicit clear drops it.
	Body       string
	BodyEdited *string

	LayoutPreset string // empty until assigned (triggers first-open randomization)
	TextOffset   Offset
	OverlayBox   Box

	Style *BlockStyle // nil means "project defaults everywhere"

	Deleted   bool // tombstoned, recoverable
	CreatedAt time.Time
	UpdatedAt time.Time
}
