package match

import (
	"testing"

	"irconsole"
)

func cmd(index int, name, protocol, value string, bits int) irconsole.SavedCommand {
	return irconsole.SavedCommand{Index: index, Name: name, Protocol: protocol, Value: value, Bits: bits}
}

func sig(protocol, value string, bits int) irconsole.ObservedSignal {
	return irconsole.ObservedSignal{Protocol: protocol, Value: value, Bits: bits}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	catalog := []irconsole.SavedCommand{
		cmd(1, "TV Power", "NEC", "A1B2", 32),
	}

	tests := []struct {
		name     string
		sig      irconsole.ObservedSignal
		catalog  []irconsole.SavedCommand
		wantKind irconsole.MatchKind
		wantIdx  int // matched entry index; ignored for unknown
	}{
		{
			name:     "exact ignoring case",
			sig:      sig("nec", "a1b2", 32),
			catalog:  catalog,
			wantKind: irconsole.MatchExact,
			wantIdx:  1,
		},
		{
			name:     "likely when bits differ",
			sig:      sig("nec", "a1b2", 16),
			catalog:  catalog,
			wantKind: irconsole.MatchLikely,
			wantIdx:  1,
		},
		{
			name:     "unknown value",
			sig:      sig("nec", "ffff", 32),
			catalog:  catalog,
			wantKind: irconsole.MatchUnknown,
		},
		{
			name:     "unknown on empty catalog",
			sig:      sig("NEC", "A1B2", 32),
			catalog:  nil,
			wantKind: irconsole.MatchUnknown,
		},
		{
			name: "exact wins over earlier likely",
			sig:  sig("NEC", "A1B2", 32),
			catalog: []irconsole.SavedCommand{
				cmd(1, "likely first", "NEC", "A1B2", 16),
				cmd(2, "exact later", "NEC", "A1B2", 32),
			},
			wantKind: irconsole.MatchExact,
			wantIdx:  2,
		},
		{
			name: "first exact wins among duplicates",
			sig:  sig("NEC", "A1B2", 32),
			catalog: []irconsole.SavedCommand{
				cmd(1, "first", "NEC", "A1B2", 32),
				cmd(2, "second", "NEC", "A1B2", 32),
			},
			wantKind: irconsole.MatchExact,
			wantIdx:  1,
		},
		{
			name: "first likely kept over later likely",
			sig:  sig("NEC", "A1B2", 32),
			catalog: []irconsole.SavedCommand{
				cmd(1, "first likely", "NEC", "A1B2", 16),
				cmd(2, "second likely", "NEC", "A1B2", 8),
			},
			wantKind: irconsole.MatchLikely,
			wantIdx:  1,
		},
		{
			name: "empty observed fields can match empty entry",
			sig:  sig("", "", 0),
			catalog: []irconsole.SavedCommand{
				cmd(7, "blank", "", "", 0),
			},
			wantKind: irconsole.MatchExact,
			wantIdx:  7,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.sig, tc.catalog)
			if got.Kind != tc.wantKind {
				t.Fatalf("Classify kind = %q, want %q", got.Kind, tc.wantKind)
			}
			if tc.wantKind == irconsole.MatchUnknown {
				if got.Item != nil {
					t.Fatalf("unknown result carries item %+v", got.Item)
				}
				return
			}
			if got.Item == nil {
				t.Fatalf("match result missing item")
			}
			if got.Item.Index != tc.wantIdx {
				t.Fatalf("matched index = %d, want %d", got.Item.Index, tc.wantIdx)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	catalog := []irconsole.SavedCommand{
		cmd(1, "a", "NEC", "00FF", 16),
		cmd(2, "b", "NEC", "00FF", 32),
		cmd(3, "c", "SONY", "00FF", 32),
	}
	observed := sig("nec", "00ff", 32)

	first := Classify(observed, catalog)
	for i := 0; i < 10; i++ {
		got := Classify(observed, catalog)
		if got.Kind != first.Kind || got.Item.Index != first.Item.Index {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	named := cmd(3, "AC Off", "NEC", "12", 32)
	unnamed := cmd(9, "", "NEC", "34", 32)

	tests := []struct {
		name  string
		m     irconsole.MatchResult
		human string
		want  string
	}{
		{"exact named", irconsole.MatchResult{Kind: irconsole.MatchExact, Item: &named}, "", "✓ AC Off"},
		{"exact fallback name", irconsole.MatchResult{Kind: irconsole.MatchExact, Item: &unnamed}, "", "✓ Code 9"},
		{"likely", irconsole.MatchResult{Kind: irconsole.MatchLikely, Item: &named}, "", "≈ AC Off (bits differ)"},
		{"unknown with human", irconsole.MatchResult{Kind: irconsole.MatchUnknown}, "NEC 0xFF 32b", "NEC 0xFF 32b"},
		{"unknown without human", irconsole.MatchResult{Kind: irconsole.MatchUnknown}, "", "Unknown signal"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Label(tc.m, tc.human); got != tc.want {
				t.Fatalf("Label = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	item := cmd(1, "x", "NEC", "1", 32)
	cases := []struct {
		m    irconsole.MatchResult
		want irconsole.LogCategory
	}{
		{irconsole.MatchResult{Kind: irconsole.MatchExact, Item: &item}, irconsole.CategoryKnownExact},
		{irconsole.MatchResult{Kind: irconsole.MatchLikely, Item: &item}, irconsole.CategoryKnownLikely},
		{irconsole.MatchResult{Kind: irconsole.MatchUnknown}, irconsole.CategoryUnknown},
	}
	for _, c := range cases {
		if got := Category(c.m); got != c.want {
			t.Fatalf("Category(%q) = %q, want %q", c.m.Kind, got, c.want)
		}
	}
}
