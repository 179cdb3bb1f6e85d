package page

import "testing"

func TestBodyEditSurvivesRegeneration(t *testing.T) {
	b := &Block{Body: "generated v1"}

	b.EditBody("my own words")
	if got := b.EffectiveBody(); got != "my own words" {
		t.Fatalf("EffectiveBody() = %q, want edited text", got)
	}

	b.SetGeneratedBody("generated v2")
	if got := b.EffectiveBody(); got != "my own words" {
		t.Errorf("regeneration discarded the edit: %q", got)
	}
	if b.Body != "generated v2" {
		t.Errorf("generated text not updated: %q", b.Body)
	}

	b.ClearBodyEdit()
	if got := b.EffectiveBody(); got != "generated v2" {
		t.Errorf("after explicit clear EffectiveBody() = %q, want generated text", got)
	}
}

func TestSlotAddressesAreStable(t *testing.T) {
	b := &Block{Images: [SlotCount]string{"a.png", "b.png", "c.png"}}

	b.ClearSlot(1)
	if b.Slot(1) != "" {
		t.Errorf("slot 1 not cleared: %q", b.Slot(1))
	}
	if b.Slot(2) != "c.png" {
		t.Errorf("clearing slot 1 shifted slot 2: %q", b.Slot(2))
	}
	if b.PopulatedSlots() != 2 {
		t.Errorf("PopulatedSlots() = %d, want 2", b.PopulatedSlots())
	}
}

func TestSwapSlotsIsItsOwnInverse(t *testing.T) {
	orig := [SlotCount]string{"primary.png", "", "extra.png"}

	for i := 0; i < SlotCount; i++ {
		for j := 0; j < SlotCount; j++ {
			b := &Block{Images: orig}
			b.SwapSlots(i, j)
			b.SwapSlots(i, j)
			if b.Images != orig {
				t.Errorf("swap(%d,%d) twice changed slots: %v", i, j, b.Images)
			}
		}
	}

	b := &Block{Images: orig}
	b.SwapSlots(0, 1)
	if b.Slot(0) != "" || b.Slot(1) != "primary.png" {
		t.Errorf("swap(0,1) = %v, both slots must hold defined values", b.Images)
	}
}

func TestSlotOutOfRange(t *testing.T) {
	b := &Block{}
	b.SetSlot(-1, "x")
	b.SetSlot(SlotCount, "x")
	if b.PopulatedSlots() != 0 {
		t.Errorf("out of range SetSlot modified the block: %v", b.Images)
	}
	if b.Slot(99) != "" {
		t.Error("out of range Slot must return the empty sentinel")
	}
}

func TestHasText(t *testing.T) {
	b := &Block{}
	if b.HasText() {
		t.Error("empty block reports text")
	}
	b.EditBody("")
	if b.HasText() {
		t.Error("empty edit reports text")
	}
	b.Title = "headline"
	if !b.HasText() {
		t.Error("titled block reports no text")
	}
}
