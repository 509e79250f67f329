package ui

import (
	"github.com/charmbracelet/lipgloss"

	"irconsole"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	badgeLiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Padding(0, 1)

	badgeDownStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	badgeConnectingStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("220")).
				Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("243"))

	pulseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("219"))

	toastStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("111")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// categoryStyles colors activity entries by what produced them.
var categoryStyles = map[irconsole.LogCategory]lipgloss.Style{
	irconsole.CategorySend:        lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	irconsole.CategoryKnownExact:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	irconsole.CategoryKnownLikely: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	irconsole.CategoryUnknown:     lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
	irconsole.CategoryFailed:      lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
}

func categoryStyle(c irconsole.LogCategory) lipgloss.Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return categoryStyles[irconsole.CategoryUnknown]
}
