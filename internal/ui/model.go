// Package ui hosts the console's view layer: a bubbletea model whose update
// loop is the application's single-threaded reactor. Every transport event,
// timer and keystroke arrives here as a message and is applied sequentially,
// so the catalog cache and the activity log need no locking.
package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"irconsole"
	"irconsole/internal/activity"
	"irconsole/internal/catalog"
	"irconsole/internal/device"
	"irconsole/internal/logger"
)

// deviceAPI is the one-shot request surface the model depends on.
type deviceAPI interface {
	FetchSaved(ctx context.Context) ([]irconsole.SavedCommand, error)
	Save(ctx context.Context, protocol, value string, length int, name string) (bool, error)
	Rename(ctx context.Context, index int, name string) (bool, error)
	Delete(ctx context.Context, index int) (bool, error)
	Import(ctx context.Context, items []irconsole.SavedCommand) (irconsole.ImportResult, error)
}

// sender is the coordinator surface the model depends on.
type sender interface {
	Send(cmd device.SendCommand)
	Events() <-chan device.Event
}

// inputMode tracks which prompt, if any, currently owns the keyboard.
type inputMode int

const (
	modeNormal inputMode = iota
	modeRename
	modeSaveLast // name for save-from-last-received
	modeSaveForm // "protocol value bits [name]"
	modeImport   // path of a JSON export
)

// Model is the console state rendered by View and advanced by Update.
type Model struct {
	log    *logger.Logger
	cache  *catalog.Cache
	alog   *activity.Log
	coord  sender
	client deviceAPI

	readFile func(path string) ([]byte, error)

	connState irconsole.ConnState
	live      bool

	lastSignal *irconsole.ObservedSignal
	lastLabel  string
	pulsing    bool

	selected int
	pending  map[int]bool // catalog indexes with an in-flight send control

	mode       inputMode
	input      string
	renameIdx  int
	renameName string

	toast    string
	toastSeq int

	width  int
	height int

	quitting bool
}

// New wires the model with its collaborators.
func New(coord sender, client deviceAPI, log *logger.Logger) *Model {
	return &Model{
		log:       log,
		cache:     catalog.New(),
		alog:      activity.New(),
		coord:     coord,
		client:    client,
		readFile:  readFileOS,
		connState: irconsole.ConnConnecting,
		pending:   make(map[int]bool),
	}
}

// Init loads the catalog and starts consuming coordinator events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.reloadCmd(),
		listenEvents(m.coord.Events()),
	)
}

// selectedCommand returns the highlighted catalog entry, or nil.
func (m *Model) selectedCommand() *irconsole.SavedCommand {
	items := m.cache.Current()
	if m.selected < 0 || m.selected >= len(items) {
		return nil
	}
	return &items[m.selected]
}

// replayable reports whether the entry can go out over the send endpoint.
func replayable(c irconsole.SavedCommand) bool {
	return strings.EqualFold(c.Protocol, irconsole.ProtocolNEC)
}
