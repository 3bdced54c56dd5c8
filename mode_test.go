package posepaint

import "testing"

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		if got := ParseMode(m.String()); got != m {
			t.Errorf("ParseMode(%q) = %v", m.String(), got)
		}
	}
	if len(Modes()) != 7 {
		t.Errorf("Modes = %d, want 7", len(Modes()))
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"smoke", ModeSmoke},
		{" Smoke ", ModeSmoke},
		{"FIREWORKS", ModeFireworks},
		{"none", ModeNone},
		{"", ModeNone},
		{"laser", ModeNone},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Mode(200).String() != "none" {
		t.Error("out-of-range mode should print as none")
	}
}

func TestGestureTypeString(t *testing.T) {
	tests := map[GestureType]string{
		EventHandsUp:         "hands_up",
		EventHandsDown:       "hands_down",
		EventFireworkTrigger: "firework_trigger",
		EventModeChange:      "mode_change",
		GestureType(99):      "unknown",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
