package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastDuration is how long a toast stays on screen before auto-dismissal.
const toastDuration = 4 * time.Second

// ToastLevel classifies a toast for styling.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// Toast is one ephemeral status message. Never persisted.
type Toast struct {
	ID      int
	Message string
	Level   ToastLevel
}

type showToastMsg struct{ toast Toast }

type toastExpiredMsg struct{ id int }

var toastCounter atomic.Int64

// ShowToast returns a command surfacing a toast in the status area.
func ShowToast(level ToastLevel, message string) tea.Cmd {
	toast := Toast{ID: int(toastCounter.Add(1)), Message: message, Level: level}
	return func() tea.Msg { return showToastMsg{toast: toast} }
}

// Toasts is the stack of currently visible toasts.
type Toasts struct {
	items  []Toast
	styles Styles
}

// NewToasts builds an empty toast stack.
func NewToasts(styles Styles) Toasts {
	return Toasts{styles: styles}
}

// SetStyles swaps the style set, e.g. after a theme change.
func (t *Toasts) SetStyles(styles Styles) { t.styles = styles }

// Update appends on show and drops on expiry.
func (t *Toasts) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case showToastMsg:
		t.items = append(t.items, msg.toast)
		id := msg.toast.ID
		return tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})
	case toastExpiredMsg:
		for i, toast := range t.items {
			if toast.ID == msg.id {
				t.items = append(t.items[:i:i], t.items[i+1:]...)
				break
			}
		}
	}
	return nil
}

// View renders the stack, newest last.
func (t Toasts) View() string {
	if len(t.items) == 0 {
		return ""
	}
	out := ""
	for _, toast := range t.items {
		style := t.styles.ToastInfo
		switch toast.Level {
		case ToastSuccess:
			style = t.styles.ToastSuccess
		case ToastError:
			style = t.styles.ToastError
		}
		if out != "" {
			out += "\n"
		}
		out += style.Render("• " + toast.Message)
	}
	return out
}
