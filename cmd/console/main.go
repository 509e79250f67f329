package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"irconsole/internal/device"
	"irconsole/internal/logger"
	"irconsole/internal/ui"
)

func main() {
	loadConfig()

	// The TUI owns stdout, so diagnostics go to a file (or nowhere).
	log := newLogger()

	baseURL := strings.TrimRight(viper.GetString("device.url"), "/")
	client := device.NewClient(baseURL)
	coord := device.NewCoordinator(channelURL(baseURL), client, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go coord.Run(ctx)

	program := tea.NewProgram(ui.New(coord, client, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "console error:", err)
		os.Exit(1)
	}
}

func loadConfig() {
	viper.SetDefault("device.url", "http://localhost:8080")
	viper.SetDefault("log.level", logger.InfoLevel)

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	_ = viper.ReadInConfig() // defaults cover a missing file
}

func newLogger() *logger.Logger {
	var w io.Writer = io.Discard
	if path := viper.GetString("log.file"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		}
	}
	return logger.NewWithWriter(viper.GetString("log.level"), w)
}

// channelURL derives the push-channel endpoint from the device's base URL.
func channelURL(baseURL string) string {
	ws := baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return ws + "/ws"
}
