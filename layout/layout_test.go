package layout

import (
	"math/rand"
	"testing"

	"dpc/page"
)

func TestDescribeFailsClosed(t *testing.T) {
	for _, id := range []string{"", "no-such-preset", "OVERLAY-CENTER"} {
		cfg := Describe(id)
		if cfg.ID != DefaultID {
			t.Errorf("Describe(%q).ID = %q, want %q", id, cfg.ID, DefaultID)
		}
		if cfg.Category != CategoryVertical || cfg.Vertical == nil {
			t.Errorf("Describe(%q) is not the vertical default: %+v", id, cfg)
		}
	}
}

func TestCatalogConsistency(t *testing.T) {
	ids := IDs()
	if len(ids) < 15 {
		t.Fatalf("catalog has %d presets, want at least 15", len(ids))
	}

	for _, id := range ids {
		cfg := Describe(id)
		if cfg.ID != id {
			t.Errorf("Describe(%q).ID = %q", id, cfg.ID)
		}

		// exactly one category spec, matching the tag
		specs := 0
		if cfg.Vertical != nil {
			specs++
			if cfg.Category != CategoryVertical {
				t.Errorf("%s: vertical spec under category %s", id, cfg.Category)
			}
		}
		if cfg.Horizontal != nil {
			specs++
			if cfg.Category != CategoryHorizontal {
				t.Errorf("%s: horizontal spec under category %s", id, cfg.Category)
			}
		}
		if cfg.Overlay != nil {
			specs++
			if cfg.Category != CategoryOverlay {
				t.Errorf("%s: overlay spec under category %s", id, cfg.Category)
			}
		}
		if cfg.Grid != nil {
			specs++
			if cfg.Category != CategoryGrid {
				t.Errorf("%s: grid spec under category %s", id, cfg.Category)
			}
		}
		if specs != 1 {
			t.Errorf("%s: %d category specs, want exactly 1", id, specs)
		}

		if cfg.Category == CategoryOverlay {
			if !cfg.Draggable {
				t.Errorf("%s: overlay preset must be draggable", id)
			}
			if cfg.Overlay.Anchor.IsZero() {
				t.Errorf("%s: overlay preset without default anchor", id)
			}
		}
	}
}

func TestDefaultsForOverlayAnchor(t *testing.T) {
	patch := DefaultsFor("overlay-center")
	want := page.Box{X: 50, Y: 200, Width: 600, Height: 100}
	if patch.OverlayBox != want {
		t.Errorf("overlay-center anchor = %+v, want %+v", patch.OverlayBox, want)
	}
	if !patch.TextOffset.IsZero() {
		t.Errorf("switching presets must not carry a drag offset: %+v", patch.TextOffset)
	}
}

func TestDefaultsForClearsPlacement(t *testing.T) {
	for _, id := range IDs() {
		cfg := Describe(id)
		if cfg.Category == CategoryOverlay {
			continue
		}
		patch := DefaultsFor(id)
		if !patch.OverlayBox.IsZero() || !patch.TextOffset.IsZero() {
			t.Errorf("%s: non-overlay preset must reset placement, got %+v", id, patch)
		}
	}
}

func TestRandomCoversCatalog(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		id := Random(rng)
		if Describe(id).ID != id {
			t.Fatalf("Random produced unknown preset %q", id)
		}
		seen[id] = true
	}
	if len(seen) != len(IDs()) {
		t.Errorf("2000 draws hit %d of %d presets", len(seen), len(IDs()))
	}
}
