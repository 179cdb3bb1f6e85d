package page

// EffectiveBody returns the text to render: the user's edit when present,
// the generated body otherwise.
func (b *Block) EffectiveBody() string {
	if b.BodyEdited != nil {
		return *b.BodyEdited
	}
	return b.Body
}

// HasBodyEdit reports whether the user override is set.
func (b *Block) HasBodyEdit() bool {
	return b.BodyEdited != nil
}

// SetGeneratedBody replaces the generated text. The user's edited override,
// when present, stays untouched - regeneration never discards it.
func (b *Block) SetGeneratedBody(text string) {
	b.Body = text
}

// EditBody records the user's body override.
func (b *Block) EditBody(text string) {
	b.BodyEdited = &text
}

// ClearBodyEdit drops the override, the generated text shows again.
func (b *Block) ClearBodyEdit() {
	b.BodyEdited = nil
}

// Slot returns the image reference at the given slot, empty string for out
// of range indices - a block always exposes exactly SlotCount addressable
// slots.
func (b *Block) Slot(i int) string {
	if i < 0 || i >= SlotCount {
		return ""
	}
	return b.Images[i]
}

// SetSlot stores an image reference into a slot. Out of range indices are
// ignored.
func (b *Block) SetSlot(i int, ref string) {
	if i < 0 || i >= SlotCount {
		return
	}
	b.Images[i] = ref
}

// ClearSlot empties a slot without shifting later slots.
func (b *Block) ClearSlot(i int) {
	b.SetSlot(i, "")
}

// SwapSlots exchanges two slots atomically. Both always end up with a
// defined value (possibly the empty sentinel). Swapping twice restores the
// original arrangement.
func (b *Block) SwapSlots(i, j int) {
	if i < 0 || i >= SlotCount || j < 0 || j >= SlotCount || i == j {
		return
	}
	b.Images[i], b.Images[j] = b.Images[j], b.Images[i]
}

// PopulatedSlots counts non-empty slots.
func (b *Block) PopulatedSlots() int {
	n := 0
	for _, ref := range b.Images {
		if ref != "" {
			n++
		}
	}
	return n
}

// HasText reports whether any text field would render something.
func (b *Block) HasText() bool {
	return b.Title != "" || b.Subtitle != "" || b.EffectiveBody() != ""
}
