package ui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"irconsole"
	"irconsole/internal/catalog"
	"irconsole/internal/device"
	"irconsole/internal/match"
)

const (
	toastDuration = 1800 * time.Millisecond
	pulseDuration = 900 * time.Millisecond
)

// Messages feeding the update loop.
type (
	deviceEventMsg struct{ ev device.Event }

	catalogLoadedMsg struct {
		items []irconsole.SavedCommand
		err   error
	}

	mutationDoneMsg struct {
		action string // "save" | "rename" | "delete"
		index  int
		name   string
		ok     bool
		err    error
	}

	importOutcomeMsg struct {
		res      irconsole.ImportResult
		localErr error // rejected before any request
		reqErr   error
	}

	toastExpiredMsg struct{ seq int }
	pulseExpiredMsg struct{}
)

func readFileOS(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// listenEvents blocks on the coordinator stream and forwards one event; the
// handler re-arms it, so the loop sees events strictly in delivery order.
func listenEvents(events <-chan device.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return deviceEventMsg{ev: ev}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case deviceEventMsg:
		return m, m.handleDeviceEvent(msg.ev)
	case catalogLoadedMsg:
		if msg.err != nil {
			m.log.Errorw("catalog_reload_failed", "err", msg.err)
			return m, nil
		}
		m.cache.Replace(msg.items)
		if m.selected >= m.cache.Count() {
			m.selected = m.cache.Count() - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil
	case mutationDoneMsg:
		return m, m.handleMutationDone(msg)
	case importOutcomeMsg:
		return m, m.handleImportOutcome(msg)
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	case pulseExpiredMsg:
		m.pulsing = false
		return m, nil
	}
	return m, nil
}

// --- device events ---

func (m *Model) handleDeviceEvent(ev device.Event) tea.Cmd {
	cmds := []tea.Cmd{listenEvents(m.coord.Events())}

	switch ev := ev.(type) {
	case device.StateEvent:
		m.connState = ev.State
		m.live = ev.Live
	case device.SignalEvent:
		sig := ev.Signal
		m.lastSignal = &sig
		m.live = true // first realized push marks the channel live
		res := match.Classify(sig, m.cache.Current())
		m.lastLabel = match.Label(res, sig.Human)
		if sig.Protocol != "" || sig.Human != "" {
			m.alog.Append("RX: "+m.lastLabel, match.Category(res))
		}
		m.pulsing = true
		cmds = append(cmds, tea.Tick(pulseDuration, func(time.Time) tea.Msg { return pulseExpiredMsg{} }))
	case device.AckEvent:
		// Channel acks carry no request identifier, so every control still
		// showing the in-flight placeholder is reset together.
		m.pending = make(map[int]bool)
		m.alog.Append("TX ack: "+ev.Text, irconsole.CategorySend)
		cmds = append(cmds, m.showToast(ev.Text))
	case device.SendResultEvent:
		delete(m.pending, ev.Index)
		if ev.OK {
			m.alog.Append("TX done (HTTP): "+ev.Name, irconsole.CategorySend)
			cmds = append(cmds, m.showToast(ev.Name))
		} else {
			m.alog.Append("TX failed: "+ev.Name, irconsole.CategoryFailed)
		}
	}
	return tea.Batch(cmds...)
}

// --- keys ---

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.mode != modeNormal {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < m.cache.Count()-1 {
			m.selected++
		}
	case "enter", "s":
		return m.sendSelected()
	case "d":
		return m.deleteSelected()
	case "r":
		if c := m.selectedCommand(); c != nil {
			m.mode = modeRename
			m.renameIdx = c.Index
			m.input = c.DisplayName()
		}
	case "n":
		if m.lastSignal != nil {
			m.mode = modeSaveLast
			m.input = ""
		}
	case "a":
		m.mode = modeSaveForm
		m.input = ""
	case "i":
		m.mode = modeImport
		m.input = ""
	}
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeNormal
		m.input = ""
		return nil
	case tea.KeyEnter:
		return m.commitPrompt()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return nil
	case tea.KeySpace:
		m.input += " "
		return nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return nil
	}
	return nil
}

func (m *Model) commitPrompt() tea.Cmd {
	mode, input := m.mode, strings.TrimSpace(m.input)
	m.mode = modeNormal
	m.input = ""

	switch mode {
	case modeRename:
		return m.renameCmd(m.renameIdx, input)
	case modeSaveLast:
		sig := m.lastSignal
		if sig == nil {
			return nil
		}
		bits := sig.Bits
		if bits == 0 {
			bits = irconsole.DefaultBits
		}
		return m.saveCmd(sig.Protocol, sig.Value, bits, input)
	case modeSaveForm:
		protocol, value, bits, name, ok := parseSaveForm(input)
		if !ok {
			return m.showToast("Need: protocol value [bits] [name]")
		}
		return m.saveCmd(protocol, value, bits, name)
	case modeImport:
		if input == "" {
			return nil
		}
		return m.importCmd(input)
	}
	return nil
}

// parseSaveForm splits "protocol value [bits] [name…]" from the save prompt.
func parseSaveForm(s string) (protocol, value string, bits int, name string, ok bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return "", "", 0, "", false
	}
	protocol, value = fields[0], fields[1]
	bits = irconsole.DefaultBits
	rest := fields[2:]
	if len(rest) > 0 {
		if n, err := strconv.Atoi(rest[0]); err == nil {
			bits = n
			rest = rest[1:]
		}
	}
	return protocol, value, bits, strings.Join(rest, " "), true
}

// --- intents ---

// sendSelected applies the optimistic in-flight state before any network
// outcome: placeholder on the control plus a "Sending…" log entry.
func (m *Model) sendSelected() tea.Cmd {
	c := m.selectedCommand()
	if c == nil || !replayable(*c) {
		return nil
	}
	m.pending[c.Index] = true
	m.alog.Append("TX: Sending "+c.DisplayName()+"…", irconsole.CategorySend)
	m.coord.Send(device.SendCommand{
		Index:  c.Index,
		Data:   c.Value,
		Length: c.DisplayBits(),
		Name:   c.DisplayName(),
	})
	return nil
}

func (m *Model) deleteSelected() tea.Cmd {
	c := m.selectedCommand()
	if c == nil {
		return nil
	}
	client, index := m.client, c.Index
	return func() tea.Msg {
		ok, err := client.Delete(context.Background(), index)
		return mutationDoneMsg{action: "delete", index: index, ok: ok, err: err}
	}
}

func (m *Model) renameCmd(index int, name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ok, err := client.Rename(context.Background(), index, name)
		return mutationDoneMsg{action: "rename", index: index, name: name, ok: ok, err: err}
	}
}

func (m *Model) saveCmd(protocol, value string, bits int, name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ok, err := client.Save(context.Background(), protocol, value, bits, name)
		return mutationDoneMsg{action: "save", name: name, ok: ok, err: err}
	}
}

// importCmd reads and validates the file locally; no request is made unless
// the payload is a JSON array of saved-command objects.
func (m *Model) importCmd(path string) tea.Cmd {
	readFile, client := m.readFile, m.client
	return func() tea.Msg {
		data, err := readFile(path)
		if err != nil {
			return importOutcomeMsg{localErr: err}
		}
		items, err := catalog.ParseImportFile(data)
		if err != nil {
			return importOutcomeMsg{localErr: err}
		}
		res, err := client.Import(context.Background(), items)
		if err != nil {
			return importOutcomeMsg{reqErr: err}
		}
		return importOutcomeMsg{res: res}
	}
}

// --- mutation outcomes ---

func (m *Model) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Errorw("mutation_failed", "action", msg.action, "err", msg.err)
		return nil
	}
	if !msg.ok {
		// The device declined; the absence of success is the signal.
		return nil
	}
	switch msg.action {
	case "delete":
		m.alog.Append("Deleted stored code #"+strconv.Itoa(msg.index), irconsole.CategoryUnknown)
		return m.reloadCmd()
	case "rename":
		return m.reloadCmd()
	case "save":
		name := msg.name
		if name == "" {
			name = "unnamed"
		}
		m.alog.Append("Saved: "+name, irconsole.CategorySend)
		return tea.Batch(m.showToast("Saved as "+name), m.reloadCmd())
	}
	return nil
}

func (m *Model) handleImportOutcome(msg importOutcomeMsg) tea.Cmd {
	switch {
	case msg.localErr != nil:
		m.alog.Append("Import failed: "+msg.localErr.Error(), irconsole.CategoryFailed)
		return m.showToast("Import failed")
	case msg.reqErr != nil:
		m.alog.Append("Import failed: "+msg.reqErr.Error(), irconsole.CategoryFailed)
		return m.showToast("Import failed")
	case !msg.res.OK:
		reason := msg.res.Error
		if reason == "" {
			reason = "Import failed."
		}
		m.alog.Append("Import failed: "+reason, irconsole.CategoryFailed)
		return m.showToast("Import failed")
	}

	text := fmt.Sprintf("Imported %d, skipped %d", msg.res.Imported, msg.res.Skipped)
	category := irconsole.CategorySend
	if msg.res.Skipped > 0 {
		category = irconsole.CategoryKnownLikely
	}
	m.alog.Append("Import: "+text, category)
	return tea.Batch(m.showToast(text), m.reloadCmd())
}

// --- helpers ---

// reloadCmd re-fetches the whole saved list. Every mutation is followed by
// this wholesale reload; the cache is never patched locally.
func (m *Model) reloadCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items, err := client.FetchSaved(context.Background())
		return catalogLoadedMsg{items: items, err: err}
	}
}

// showToast displays a transient notification that dismisses itself.
func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}
