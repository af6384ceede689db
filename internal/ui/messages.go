package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmynk/skydragon/internal/navigation"
	"github.com/mmynk/skydragon/internal/session"
	"github.com/mmynk/skydragon/internal/share"
)

// readyMsg reports that the splash sequence finished.
type readyMsg struct{ err error }

// inboxMsg carries one applied backend notification.
type inboxMsg struct{ event session.Event }

// inboxClosedMsg reports that the inbox stopped delivering events.
type inboxClosedMsg struct{}

// intentResultMsg carries the outcome of an intent that ran off the render loop.
type intentResultMsg struct {
	ok  string
	err error
}

// shareResultMsg carries the outcome of a fire-and-forget share.
type shareResultMsg struct{ err error }

type particleTickMsg struct{}

const particleInterval = 120 * time.Millisecond

func initialize(ctx context.Context, nav *navigation.Controller) tea.Cmd {
	return func() tea.Msg {
		return readyMsg{err: nav.Initialize(ctx)}
	}
}

func waitForEvent(events <-chan session.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return inboxClosedMsg{}
		}
		return inboxMsg{event: ev}
	}
}

func shareLink(sharer share.Sharer, link string) tea.Cmd {
	return func() tea.Msg {
		return shareResultMsg{err: sharer.Share(link)}
	}
}

func tickParticles() tea.Cmd {
	return tea.Tick(particleInterval, func(time.Time) tea.Msg {
		return particleTickMsg{}
	})
}
