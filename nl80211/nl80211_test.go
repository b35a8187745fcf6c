package nl80211

import "testing"

func TestMaskNested(t *testing.T) {
	if got := MaskNested(AttrWiphyBands | nestedMask); got != AttrWiphyBands {
		t.Errorf("MaskNested() = 0x%x, want 0x%x", got, AttrWiphyBands)
	}
	if got := MaskNested(AttrWiphy); got != AttrWiphy {
		t.Errorf("MaskNested() changed an identifier with no nested bit set: got 0x%x", got)
	}
}

func TestDeclared(t *testing.T) {
	kind, ok := Declared(AttrWiphy)
	if !ok || kind != U32 {
		t.Errorf("Declared(AttrWiphy) = (%v, %v), want (U32, true)", kind, ok)
	}
	kind, ok = Declared(AttrWiphy | nestedMask)
	if !ok || kind != U32 {
		t.Errorf("Declared should mask the nested bit before lookup, got (%v, %v)", kind, ok)
	}
	if _, ok := Declared(0xFFF0); ok {
		t.Error("Declared should report false for an unknown identifier")
	}
}

func TestFixedWidth(t *testing.T) {
	cases := []struct {
		k         Kind
		wantWidth int
		wantFixed bool
	}{
		{U8, 1, true},
		{U16, 2, true},
		{U32, 4, true},
		{U64, 8, true},
		{String, 0, false},
		{Nested, 0, false},
		{Unspec, 0, false},
		{Flag, 0, false},
	}
	for _, c := range cases {
		width, fixed := FixedWidth(c.k)
		if fixed != c.wantFixed || (fixed && width != c.wantWidth) {
			t.Errorf("FixedWidth(%v) = (%d, %v), want (%d, %v)", c.k, width, fixed, c.wantWidth, c.wantFixed)
		}
	}
}

func TestCommandString(t *testing.T) {
	if got := CmdGetWiphy.String(); got != "NL80211_CMD_GET_WIPHY" {
		t.Errorf("CmdGetWiphy.String() = %q", got)
	}
	if got := Command(200).String(); got != "NL80211_CMD_UNKNOWN" {
		t.Errorf("unknown command String() = %q, want NL80211_CMD_UNKNOWN", got)
	}
}
