package render

import "dpc/page"

// Field names one editable text field of a block.
type Field int

const (
	FieldTitle Field = iota
	FieldSubtitle
	FieldBody
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldSubtitle:
		return "subtitle"
	case FieldBody:
		return "body"
	}
	return "unknown"
}

// multiline reports whether the field commits on blur only, never on Enter.
func (f Field) multiline() bool {
	return f == FieldBody
}

// TextEditor is the per-block text editing state machine: idle or editing
// exactly one field. Moving to another field commits the current one first,
// so two fields can never be live at once.
type TextEditor struct {
	editing bool
	field   Field
	draft   string
	commit  func(field Field, value string)
}

// NewTextEditor creates an editor committing values through the callback.
func NewTextEditor(commit func(field Field, value string)) *TextEditor {
	return &TextEditor{commit: commit}
}

// Editing returns the active field, if any.
func (e *TextEditor) Editing() (Field, bool) {
	return e.field, e.editing
}

// Begin enters editing for field, seeding the draft with the current value.
// An already-active different field is committed on the way.
func (e *TextEditor) Begin(field Field, current string) {
	if e.editing {
		if e.field == field {
			return
		}
		e.commitCurrent()
	}
	e.editing = true
	e.field = field
	e.draft = current
}

// Input replaces the draft value of the active field.
func (e *TextEditor) Input(value string) {
	if e.editing {
		e.draft = value
	}
}

// Blur commits the active field and returns to idle.
func (e *TextEditor) Blur() {
	if e.editing {
		e.commitCurrent()
	}
}

// Enter commits single-line fields. Multi-line body ignores it and stays
// in editing.
func (e *TextEditor) Enter() {
	if e.editing && !e.field.multiline() {
		e.commitCurrent()
	}
}

// Cancel discards the draft without committing.
func (e *TextEditor) Cancel() {
	e.editing = false
	e.draft = ""
}

func (e *TextEditor) commitCurrent() {
	if e.commit != nil {
		e.commit(e.field, e.draft)
	}
	e.editing = false
	e.draft = ""
}

// Drag is the free-position drag state machine: idle or dragging. Movement
// produces a live offset on top of the base, release reports the final one.
type Drag struct {
	active bool
	startX int
	startY int
	base   page.Offset
	live   page.Offset
}

// Dragging reports whether a drag is in progress.
func (d *Drag) Dragging() bool {
	return d.active
}

// Begin starts a drag at pointer position (x, y) over the given persisted
// offset.
func (d *Drag) Begin(x, y int, base page.Offset) {
	d.active = true
	d.startX, d.startY = x, y
	d.base = base
	d.live = base
}

// Move updates the live offset for pointer position (x, y).
func (d *Drag) Move(x, y int) page.Offset {
	if !d.active {
		return d.live
	}
	d.live = page.Offset{X: d.base.X + x - d.startX, Y: d.base.Y + y - d.startY}
	return d.live
}

// End finishes the drag and returns the final offset for persistence.
func (d *Drag) End(x, y int) page.Offset {
	final := d.Move(x, y)
	d.active = false
	return final
}

// Offset returns the current live offset whether or not a drag is active.
func (d *Drag) Offset() page.Offset {
	return d.live
}
