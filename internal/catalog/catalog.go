// Package catalog mirrors the device's saved-command list. The mirror is a
// read-through cache: it is never mutated locally, only replaced wholesale
// with the device's latest response after every mutating action.
package catalog

import (
	"irconsole"
)

// Cache holds the current saved-command list. Not safe for concurrent use:
// the UI event loop is its only caller.
type Cache struct {
	items []irconsole.SavedCommand
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{}
}

// Replace discards the cached list and adopts the given one as-is. No
// merging with prior state ever happens; the device response is the
// authoritative ordering.
func (c *Cache) Replace(items []irconsole.SavedCommand) {
	c.items = items
}

// Current returns the cached list in device order.
func (c *Cache) Current() []irconsole.SavedCommand {
	return c.items
}

// Count reports the number of cached entries, surfaced next to the list.
func (c *Cache) Count() int {
	return len(c.items)
}
