package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
	"github.com/mamadbah2/farmdesk/internal/notify"
)

// DashboardPage shows the per-resource summary cards and the notification
// feed. Cards are advisory display values; they are never reconciled
// against locally mutated lists, and a failed fetch renders a dash.
type DashboardPage struct {
	resources []Resource
	feed      *notify.Feed
	styles    Styles

	summaries map[string]models.Summary
	failed    map[string]bool

	notifications []models.Notification
	cursor        int
}

// NewDashboardPage builds the dashboard over the given resources and feed.
func NewDashboardPage(resources []Resource, feed *notify.Feed, styles Styles) *DashboardPage {
	return &DashboardPage{
		resources: resources,
		feed:      feed,
		styles:    styles,
		summaries: make(map[string]models.Summary),
		failed:    make(map[string]bool),
	}
}

// SetStyles swaps the style set after a theme change.
func (m *DashboardPage) SetStyles(styles Styles) { m.styles = styles }

// Activate fetches every resource summary.
func (m *DashboardPage) Activate() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.resources))
	for _, res := range m.resources {
		res := res
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			summary, err := res.Summary(ctx)
			return summaryLoadedMsg{resource: res.Name(), summary: summary, err: err}
		})
	}
	if m.feed != nil {
		m.notifications = m.feed.Snapshot()
	}
	return tea.Batch(cmds...)
}

// SetNotifications replaces the feed snapshot shown in the panel.
func (m *DashboardPage) SetNotifications(items []models.Notification) {
	m.notifications = items
	if m.cursor >= len(items) {
		m.cursor = 0
	}
}

func (m *DashboardPage) markReadCmd(id string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return markReadDoneMsg{id: id, err: feed.MarkRead(ctx, id)}
	}
}

// Update handles dashboard messages.
func (m *DashboardPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.err != nil {
			m.failed[msg.resource] = true
			delete(m.summaries, msg.resource)
			return nil
		}
		delete(m.failed, msg.resource)
		m.summaries[msg.resource] = msg.summary
		return nil

	case markReadDoneMsg:
		if msg.err != nil {
			return ShowToast(ToastError, api.UserMessage(msg.err))
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.notifications)-1 {
				m.cursor++
			}
		case "enter":
			if m.feed == nil || m.cursor >= len(m.notifications) {
				return nil
			}
			note := m.notifications[m.cursor]
			if note.Read {
				return nil
			}
			return m.markReadCmd(note.ID)
		case "r":
			return m.Activate()
		}
	}
	return nil
}

// View renders the cards row and the notification panel.
func (m *DashboardPage) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Dashboard"))
	sb.WriteString("\n\n")

	var cards []string
	for _, res := range m.resources {
		value := "—"
		if summary, ok := m.summaries[res.Name()]; ok {
			value = FormatAmount(summary.Total)
		}
		cards = append(cards,
			m.styles.Card.Render(
				m.styles.CardTitle.Render(res.Name())+"\n"+m.styles.CardValue.Render(value)),
			" ")
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Bold.Render("Notifications"))
	if m.feed != nil {
		if unread := m.feed.Unread(); unread > 0 {
			sb.WriteString(m.styles.Danger.Render(strings.Repeat(" ", 2) + "●"))
			sb.WriteString(m.styles.Muted.Render(" unread"))
		}
	}
	sb.WriteString("\n")

	if len(m.notifications) == 0 {
		sb.WriteString(m.styles.Muted.Render("Nothing yet"))
		sb.WriteString("\n")
	}
	for i, note := range m.notifications {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Title.Render("> ")
		}
		title := note.Title
		if !note.Read {
			title = m.styles.Bold.Render(title)
		} else {
			title = m.styles.Muted.Render(title)
		}
		sb.WriteString(marker + title + m.styles.Muted.Render(" — "+note.Body))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("↑↓ move · enter mark read · r refresh"))
	return sb.String()
}
