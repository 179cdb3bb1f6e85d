package page

import (
	"testing"

	"dpc/common"
)

func baseStyle() ProjectStyle {
	return ProjectStyle{
		BlockWidth: 860,
		Background: "#ffffff",
		FontFamily: "Inter",
		FontSize:   16,
		FontWeight: 400,
		TextColor:  "#111111",
		TextAlign:  common.AlignLeft,
	}
}

func strptr(s string) *string      { return &s }
func fptr(f float64) *float64      { return &f }
func iptr(i int) *int              { return &i }
func aptr(a common.Align) *common.Align { return &a }

func TestResolveNilOverride(t *testing.T) {
	project := baseStyle()

	for _, override := range []*BlockStyle{nil, {}} {
		eff := Resolve(project, override)
		want := EffectiveStyle{
			BlockWidth: 860,
			Background: "#ffffff",
			FontFamily: "Inter",
			FontSize:   16,
			FontWeight: 400,
			TextColor:  "#111111",
			TextAlign:  common.AlignLeft,
		}
		if eff != want {
			t.Errorf("Resolve(%+v) = %+v, want project values", override, eff)
		}
	}
}

func TestResolveFieldDominance(t *testing.T) {
	project := baseStyle()

	tests := []struct {
		name     string
		override BlockStyle
		check    func(EffectiveStyle) bool
	}{
		{"background", BlockStyle{Background: strptr("#000000")}, func(e EffectiveStyle) bool {
			return e.Background == "#000000" && e.FontFamily == "Inter" && e.FontSize == 16
		}},
		{"family", BlockStyle{FontFamily: strptr("Pretendard")}, func(e EffectiveStyle) bool {
			return e.FontFamily == "Pretendard" && e.Background == "#ffffff"
		}},
		{"size", BlockStyle{FontSize: fptr(22)}, func(e EffectiveStyle) bool {
			return e.FontSize == 22 && e.FontWeight == 400
		}},
		{"weight", BlockStyle{FontWeight: iptr(700)}, func(e EffectiveStyle) bool {
			return e.FontWeight == 700 && e.FontSize == 16
		}},
		{"color", BlockStyle{TextColor: strptr("#fafafa")}, func(e EffectiveStyle) bool {
			return e.TextColor == "#fafafa"
		}},
		{"align", BlockStyle{TextAlign: aptr(common.AlignCenter)}, func(e EffectiveStyle) bool {
			return e.TextAlign == common.AlignCenter && e.TextColor == "#111111"
		}},
		{"all", BlockStyle{
			Background: strptr("#222222"),
			FontFamily: strptr("Roboto"),
			FontSize:   fptr(18),
			FontWeight: iptr(500),
			TextColor:  strptr("#eeeeee"),
			TextAlign:  aptr(common.AlignRight),
		}, func(e EffectiveStyle) bool {
			return e == EffectiveStyle{
				BlockWidth: 860,
				Background: "#222222",
				FontFamily: "Roboto",
				FontSize:   18,
				FontWeight: 500,
				TextColor:  "#eeeeee",
				TextAlign:  common.AlignRight,
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eff := Resolve(project, &tc.override)
			if !tc.check(eff) {
				t.Errorf("unexpected resolution: %+v", eff)
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	project := baseStyle()
	override := &BlockStyle{FontSize: fptr(20), TextColor: strptr("#333333")}

	first := Resolve(project, override)
	second := Resolve(project, override)
	if first != second {
		t.Errorf("resolution not stable: %+v vs %+v", first, second)
	}
}

func TestTitleAndSubtitleSizes(t *testing.T) {
	eff := Resolve(baseStyle(), &BlockStyle{FontSize: fptr(20)})
	if got := eff.TitleSize(); got != 28 {
		t.Errorf("TitleSize() = %v, want 28", got)
	}
	if got := eff.SubtitleSize(); got != 16 {
		t.Errorf("SubtitleSize() = %v, want 16", got)
	}
}

func TestBlockStyleIsEmpty(t *testing.T) {
	var s *BlockStyle
	if !s.IsEmpty() {
		t.Error("nil override should be empty")
	}
	if !(&BlockStyle{}).IsEmpty() {
		t.Error("zero override should be empty")
	}
	if (&BlockStyle{FontSize: fptr(10)}).IsEmpty() {
		t.Error("override with a field set should not be empty")
	}
}

func TestDefaultStyleIsTotal(t *testing.T) {
	s := DefaultStyle(860)

	if s.BlockWidth != 860 {
		t.Errorf("block width: %d", s.BlockWidth)
	}
	if s.Background == "" || s.FontFamily == "" || s.TextColor == "" {
		t.Errorf("default style has empty fields: %+v", s)
	}
	if s.FontSize <= 0 {
		t.Errorf("default font size must be positive, got %v", s.FontSize)
	}
	if s.FontWeight <= 0 {
		t.Errorf("default font weight must be positive, got %v", s.FontWeight)
	}
}
