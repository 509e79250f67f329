package ui

import (
	"fmt"
	"strings"

	"irconsole"
)

const (
	rawPreviewLen = 60
	logViewLines  = 12
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewLastReceived())
	b.WriteString("\n")
	b.WriteString(m.viewSavedList())
	b.WriteString("\n")
	b.WriteString(m.viewActivity())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewHeader() string {
	title := titleStyle.Render("IR Console")

	var badge string
	switch {
	case m.connState == irconsole.ConnOpen:
		badge = badgeLiveStyle.Render("Live")
	case m.connState == irconsole.ConnConnecting:
		badge = badgeConnectingStyle.Render("Connecting")
	default:
		badge = badgeDownStyle.Render("Disconnected")
	}

	dot := metaStyle.Render("○")
	if m.live {
		dot = badgeLiveStyle.Render("●")
	}

	line := title + "  " + badge + " " + dot
	if m.toast != "" {
		line += "  " + toastStyle.Render(m.toast)
	}
	return line
}

func (m *Model) viewLastReceived() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Last received"))
	b.WriteString("\n")
	if m.lastSignal == nil {
		b.WriteString(emptyStyle.Render("Nothing yet."))
		b.WriteString("\n")
		return b.String()
	}

	label := m.lastLabel
	if m.pulsing {
		label = pulseStyle.Render(label)
	}
	b.WriteString(label)
	b.WriteString("\n")
	if m.lastSignal.Human != "" && m.lastSignal.Human != m.lastLabel {
		b.WriteString(metaStyle.Render(m.lastSignal.Human))
		b.WriteString("\n")
	}
	if raw := m.lastSignal.Raw; raw != "" {
		// Truncate on runes: byte slicing could split a multi-byte character.
		if runes := []rune(raw); len(runes) > rawPreviewLen {
			raw = string(runes[:rawPreviewLen]) + "…"
		}
		b.WriteString(metaStyle.Render(raw))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewSavedList() string {
	var b strings.Builder
	items := m.cache.Current()
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Stored commands (%d)", m.cache.Count())))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(emptyStyle.Render("None yet. Save codes from the form or from received signals."))
		b.WriteString("\n")
		return b.String()
	}

	for i, it := range items {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}

		affordance := "[Send]"
		if m.pending[it.Index] {
			affordance = "[…]" // in-flight placeholder until an outcome arrives
		}
		if !replayable(it) {
			affordance = metaStyle.Render("(NEC only)")
		}

		protocol := it.Protocol
		if protocol == "" {
			protocol = "UNKNOWN"
		}
		value := it.Value
		if value == "" {
			value = "0"
		}
		meta := metaStyle.Render(fmt.Sprintf("%s 0x%s %db", protocol, value, it.DisplayBits()))

		row := fmt.Sprintf("%s%s %s %s", cursor, it.DisplayName(), affordance, meta)
		if i == m.selected {
			row = selectedStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewActivity() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Activity"))
	b.WriteString("\n")

	entries := m.alog.Entries()
	if len(entries) == 0 {
		b.WriteString(emptyStyle.Render("No activity"))
		b.WriteString("\n")
		return b.String()
	}

	shown := entries
	if len(shown) > logViewLines {
		shown = shown[:logViewLines]
	}
	for _, e := range shown {
		line := metaStyle.Render(e.Timestamp()) + " " + categoryStyle(e.Category).Render(e.Text)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewFooter() string {
	switch m.mode {
	case modeRename:
		return promptStyle.Render("Rename: " + m.input + "▌")
	case modeSaveLast:
		return promptStyle.Render("Save last as: " + m.input + "▌")
	case modeSaveForm:
		return promptStyle.Render("Save (protocol value [bits] [name]): " + m.input + "▌")
	case modeImport:
		return promptStyle.Render("Import JSON file path: " + m.input + "▌")
	}
	return helpStyle.Render("↑/↓ select · enter send · d delete · r rename · n save last · a save form · i import · q quit")
}
