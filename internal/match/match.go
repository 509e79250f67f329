// Package match classifies observed IR signals against the saved-command
// catalog. Classification is pure: the same signal and catalog always yield
// the same result.
package match

import (
	"strings"

	"irconsole"
)

// Classify scans the catalog in order and maps the observed signal to an
// exact, likely or unknown result. Protocol and value are compared
// case-insensitively. The first entry agreeing on protocol, value and bits
// wins outright; while scanning, the first entry agreeing on protocol and
// value alone is remembered and returned when no exact match exists. A
// later likely candidate never replaces an earlier one.
func Classify(sig irconsole.ObservedSignal, catalog []irconsole.SavedCommand) irconsole.MatchResult {
	proto := strings.ToUpper(sig.Protocol)
	val := strings.ToUpper(sig.Value)
	bits := sig.Bits

	var likely *irconsole.SavedCommand
	for i := range catalog {
		entry := &catalog[i]
		if strings.ToUpper(entry.Protocol) != proto || strings.ToUpper(entry.Value) != val {
			continue
		}
		if entry.Bits == bits {
			return irconsole.MatchResult{Kind: irconsole.MatchExact, Item: entry}
		}
		if likely == nil {
			likely = entry
		}
	}
	if likely != nil {
		return irconsole.MatchResult{Kind: irconsole.MatchLikely, Item: likely}
	}
	return irconsole.MatchResult{Kind: irconsole.MatchUnknown}
}

// Label renders a match for the activity log and the last-received panel.
// human is the device-supplied description, used for unknown signals.
func Label(m irconsole.MatchResult, human string) string {
	switch m.Kind {
	case irconsole.MatchExact:
		return "✓ " + m.Item.DisplayName()
	case irconsole.MatchLikely:
		return "≈ " + m.Item.DisplayName() + " (bits differ)"
	default:
		if human != "" {
			return human
		}
		return "Unknown signal"
	}
}

// Category maps a match to the activity-log category it is recorded under.
func Category(m irconsole.MatchResult) irconsole.LogCategory {
	switch m.Kind {
	case irconsole.MatchExact:
		return irconsole.CategoryKnownExact
	case irconsole.MatchLikely:
		return irconsole.CategoryKnownLikely
	default:
		return irconsole.CategoryUnknown
	}
}
