package catalog

import (
	"encoding/json"
	"errors"

	"irconsole"
)

// ErrNotArray rejects import payloads whose top level is not a JSON array.
var ErrNotArray = errors.New("JSON must be an array of stored-code objects")

// ParseImportFile validates an import payload locally, before any request is
// sent to the device. The payload must parse as a JSON array of
// saved-command-shaped objects.
func ParseImportFile(data []byte) ([]irconsole.SavedCommand, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe.([]any); !ok {
		return nil, ErrNotArray
	}
	var items []irconsole.SavedCommand
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
