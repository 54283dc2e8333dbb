package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mamadbah2/farmdesk/internal/api"
)

// LoginPage collects credentials and exchanges them for a session. It is
// shown whenever no valid session exists, including after a 401.
type LoginPage struct {
	auth   *api.AuthService
	styles Styles

	identity textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errText  string
}

// NewLoginPage builds the login screen.
func NewLoginPage(auth *api.AuthService, styles Styles) *LoginPage {
	identity := textinput.New()
	identity.Placeholder = "email or username"
	identity.CharLimit = 80
	identity.Width = 32
	identity.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 80
	password.Width = 32
	password.EchoMode = textinput.EchoPassword

	return &LoginPage{auth: auth, styles: styles, identity: identity, password: password}
}

// SetStyles swaps the style set after a theme change.
func (m *LoginPage) SetStyles(styles Styles) { m.styles = styles }

func (m *LoginPage) submitCmd() tea.Cmd {
	auth := m.auth
	req := api.LoginRequest{
		EmailOrUsername: strings.TrimSpace(m.identity.Value()),
		Password:        m.password.Value(),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		session, err := auth.Login(ctx, req)
		return loginDoneMsg{session: session, err: err}
	}
}

// Update handles login screen messages.
func (m *LoginPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = api.UserMessage(msg.err)
			return nil
		}
		return nil // the app consumes the session

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.identity.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.identity.Blur()
			}
			return nil
		case "enter":
			if m.busy {
				return nil
			}
			if strings.TrimSpace(m.identity.Value()) == "" || m.password.Value() == "" {
				m.errText = "Both fields are required"
				return nil
			}
			m.busy = true
			m.errText = ""
			return m.submitCmd()
		}

		var cmd tea.Cmd
		if m.focus == 0 {
			m.identity, cmd = m.identity.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return cmd
	}
	return nil
}

// View renders the login card.
func (m *LoginPage) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitle.Render("farmdesk — sign in"))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.InputLabel.Render("Account   ") + m.identity.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.InputLabel.Render("Password  ") + m.password.View())
	sb.WriteString("\n")

	if m.busy {
		sb.WriteString("\n" + m.styles.Muted.Render("Signing in…"))
	}
	if m.errText != "" {
		sb.WriteString("\n" + m.styles.FieldError.Render(m.errText))
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Help.Render("tab switch field · enter sign in · ctrl+c quit"))
	return m.styles.Modal.Render(sb.String())
}
