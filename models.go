package irconsole

import "strconv"

// Saved-command protocols the device can replay over the /send endpoint.
const ProtocolNEC = "NEC"

// DefaultBits is the assumed bit length when a saved entry carries none.
const DefaultBits = 32

// SavedCommand is one entry of the device's stored-code catalog. The device
// owns it: the console only requests mutations and re-fetches the list.
type SavedCommand struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Protocol string `json:"protocol"`
	Value    string `json:"value"` // hex payload, case-insensitive
	Bits     int    `json:"bits,omitempty"`
}

// DisplayName returns the entry name, falling back to "Code <index>".
func (c SavedCommand) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return "Code " + strconv.Itoa(c.Index)
}

// DisplayBits returns the bit length for display, defaulting to 32.
func (c SavedCommand) DisplayBits() int {
	if c.Bits == 0 {
		return DefaultBits
	}
	return c.Bits
}

// ObservedSignal is a freshly captured IR frame pushed by the device. It is
// consumed once: classified against the catalog and recorded in the log.
type ObservedSignal struct {
	Protocol  string `json:"protocol"`
	Value     string `json:"value"`
	Bits      int    `json:"bits"`
	Human     string `json:"human"` // free-text description from the device
	Raw       string `json:"raw"`   // raw-timing representation
	ReplayURL string `json:"replayUrl"`
}

// MatchKind classifies an observed signal against the catalog.
type MatchKind string

const (
	MatchExact   MatchKind = "exact"  // protocol, value and bits all agree
	MatchLikely  MatchKind = "likely" // protocol and value agree, bits differ
	MatchUnknown MatchKind = "unknown"
)

// MatchResult is the outcome of classifying one observed signal. Item is nil
// for MatchUnknown.
type MatchResult struct {
	Kind MatchKind
	Item *SavedCommand
}

// LogCategory tags activity-log entries for rendering.
type LogCategory string

const (
	CategorySend        LogCategory = "send"
	CategoryKnownExact  LogCategory = "known-exact"
	CategoryKnownLikely LogCategory = "known-likely"
	CategoryUnknown     LogCategory = "unknown"
	CategoryFailed      LogCategory = "failed"
)

// ConnState is the lifecycle state of the persistent device channel.
type ConnState string

const (
	ConnConnecting ConnState = "connecting"
	ConnOpen       ConnState = "open"
	ConnClosed     ConnState = "closed"
)

// ImportResult is the device's summary of a bulk catalog import.
type ImportResult struct {
	OK       bool   `json:"ok"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Total    int    `json:"total,omitempty"`
	Error    string `json:"error,omitempty"`
}
