package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"jsema/internal/session"
	"jsema/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// runWithUI runs work in the background and renders its progress events
// until it returns.
func runWithUI(title string, work func(opts ...session.Option) error) error {
	events := make(chan session.Event, 256)
	outcome := make(chan error, 1)

	go func() {
		err := work(session.WithProgress(session.ChannelSink{Ch: events}))
		close(events)
		outcome <- err
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, nil, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// если UI упал раньше, worker не должен блокироваться на канале
	go func() {
		for range events {
		}
	}()
	err := <-outcome
	if uiErr != nil {
		return uiErr
	}
	return err
}
