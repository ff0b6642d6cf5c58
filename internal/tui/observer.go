package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/newsdesk/internal/service"
)

// sessionEvents is the part of the session the observer subscribes to
type sessionEvents interface {
	Subscribe(fn func(service.SessionState)) func()
}

// SessionObserver adapts session transitions to a channel for Bubble Tea.
type SessionObserver struct {
	ch          chan service.SessionState
	unsubscribe func()
}

// NewSessionObserver subscribes to session transitions.
func NewSessionObserver(session sessionEvents) *SessionObserver {
	o := &SessionObserver{ch: make(chan service.SessionState, 8)}
	o.unsubscribe = session.Subscribe(o.onChange)
	return o
}

// onChange forwards a transition (non-blocking if the channel is full).
func (o *SessionObserver) onChange(state service.SessionState) {
	select {
	case o.ch <- state:
	default:
	}
}

// Wait returns a command that delivers the next transition.
func (o *SessionObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		state, ok := <-o.ch
		if !ok {
			return nil
		}
		return SessionChangedMsg{State: state}
	}
}

// Close stops forwarding transitions.
func (o *SessionObserver) Close() {
	o.unsubscribe()
}
