package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastTTL = 5 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarning
	toastError
)

// toast is a transient one-line message above the status bar. A zero
// expiry keeps it until replaced.
type toast struct {
	message string
	level   toastLevel
	expires time.Time
}

type toastExpiredMsg struct{ message string }

func (t toast) isActive() bool {
	if t.message == "" {
		return false
	}
	return t.expires.IsZero() || time.Now().Before(t.expires)
}

func (t toast) render() string {
	if !t.isActive() {
		return ""
	}
	switch t.level {
	case toastSuccess:
		return toastSuccessStyle.Render(t.message)
	case toastWarning:
		return toastWarningStyle.Render(t.message)
	case toastError:
		return toastErrorStyle.Render(t.message)
	default:
		return t.message
	}
}

func newToast(msg string, level toastLevel) toast {
	return toast{
		message: msg,
		level:   level,
		expires: time.Now().Add(toastTTL),
	}
}

// newStickyToast returns a toast that stays until another replaces it.
func newStickyToast(msg string, level toastLevel) toast {
	return toast{message: msg, level: level}
}

// scheduleToastClear expires the toast carrying msg. A newer toast is left
// alone when the tick fires.
func scheduleToastClear(msg string) tea.Cmd {
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{message: msg}
	})
}
