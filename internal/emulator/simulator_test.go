package emulator

import (
	"math/rand"
	"strings"
	"testing"

	"irconsole"
)

func TestBuildCapture_NECGetsReplayURL(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))

	sig := buildCapture("nec", "a1b2c3d4", 32, rng)
	if sig.Protocol != "NEC" || sig.Value != "A1B2C3D4" {
		t.Errorf("capture not uppercased: %+v", sig)
	}
	if sig.Human != "NEC 0xA1B2C3D4 (32 bits)" {
		t.Errorf("human = %q", sig.Human)
	}
	if sig.ReplayURL != "/send?type=nec&data=A1B2C3D4&length=32" {
		t.Errorf("replay url = %q", sig.ReplayURL)
	}

	other := buildCapture("RC5", "1A", 12, rng)
	if other.ReplayURL != "" {
		t.Errorf("non-NEC capture got replay url %q", other.ReplayURL)
	}
}

func TestSyntheticRaw_Shape(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))

	raw := syntheticRaw(32, rng)
	parts := strings.Split(raw, ",")
	if len(parts) != 66 {
		t.Errorf("raw has %d timings, want 66", len(parts))
	}
}

func TestReplayCapture_UsesDisplayBits(t *testing.T) {
	t.Parallel()
	s := &Simulator{rng: rand.New(rand.NewSource(1))}

	sig := s.replayCapture(irconsole.SavedCommand{Protocol: "NEC", Value: "FF00FF00"})
	if sig.Bits != irconsole.DefaultBits {
		t.Errorf("bits = %d, want %d", sig.Bits, irconsole.DefaultBits)
	}
}
