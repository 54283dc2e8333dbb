package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formSubmitMsg carries a validated draft out of the form. An empty
// recordID means create, otherwise update.
type formSubmitMsg struct {
	resource string
	recordID string
	values   map[string]string
}

type formCancelMsg struct{ resource string }

// FormModal is the create/edit dialog of a list page. Field drafts are
// seeded from the record being edited or from the resource defaults;
// currency fields store raw digits and render grouped thousands.
type FormModal struct {
	resource string
	title    string
	fields   []FormField
	inputs   []textinput.Model
	selected []int // option index per FieldSelect field
	focus    int
	recordID string
	errText  string
	styles   Styles
}

// NewFormModal builds a form seeded with the given values.
func NewFormModal(resource, title string, fields []FormField, seed map[string]string, recordID string, styles Styles) FormModal {
	inputs := make([]textinput.Model, len(fields))
	selected := make([]int, len(fields))

	for i, field := range fields {
		value := seed[field.Key]

		if field.Kind == FieldSelect {
			selected[i] = 0
			for j, option := range field.Options {
				if option == value {
					selected[i] = j
					break
				}
			}
			continue
		}

		in := textinput.New()
		in.CharLimit = 64
		in.Width = 32
		switch field.Kind {
		case FieldCurrency:
			in.Placeholder = "0"
			in.SetValue(FormatThousands(StripSeparators(value)))
		case FieldDate:
			in.Placeholder = "YYYY-MM-DD"
			in.SetValue(value)
		case FieldNumber:
			in.Placeholder = "0"
			in.SetValue(value)
		default:
			in.SetValue(value)
		}
		inputs[i] = in
	}

	m := FormModal{
		resource: resource,
		title:    title,
		fields:   fields,
		inputs:   inputs,
		selected: selected,
		recordID: recordID,
		styles:   styles,
	}
	m.focusField(0)
	return m
}

// Editing reports whether the form updates an existing record.
func (m FormModal) Editing() bool { return m.recordID != "" }

// SetError surfaces a submission failure without closing the form.
func (m *FormModal) SetError(text string) { m.errText = text }

// Values returns the current draft keyed by field.
func (m FormModal) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for i, field := range m.fields {
		switch field.Kind {
		case FieldSelect:
			if len(field.Options) > 0 {
				values[field.Key] = field.Options[m.selected[i]]
			}
		case FieldCurrency:
			values[field.Key] = StripSeparators(m.inputs[i].Value())
		default:
			values[field.Key] = strings.TrimSpace(m.inputs[i].Value())
		}
	}
	return values
}

func (m *FormModal) focusField(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i && m.fields[j].Kind != FieldSelect {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *FormModal) move(delta int) {
	next := (m.focus + delta + len(m.fields)) % len(m.fields)
	m.focusField(next)
}

func (m *FormModal) cycleOption(i, delta int) {
	options := m.fields[i].Options
	if len(options) == 0 {
		return
	}
	m.selected[i] = (m.selected[i] + delta + len(options)) % len(options)
}

// validate enforces required fields before the draft leaves the form.
// Numeric and date coercion happens in the resource payload builder.
func (m *FormModal) validate() bool {
	values := m.Values()
	for _, field := range m.fields {
		if field.Required && values[field.Key] == "" {
			m.errText = field.Label + " is required"
			return false
		}
	}
	m.errText = ""
	return true
}

// Update handles one message. It returns the form, an optional command
// (submit or cancel messages travel as commands), and whether the form
// consumed the message.
func (m FormModal) Update(msg tea.Msg) (FormModal, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		resource := m.resource
		return m, func() tea.Msg { return formCancelMsg{resource: resource} }
	case "tab", "down":
		m.move(1)
		return m, nil
	case "shift+tab", "up":
		m.move(-1)
		return m, nil
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.move(1)
			return m, nil
		}
		if !m.validate() {
			return m, nil
		}
		resource, recordID, values := m.resource, m.recordID, m.Values()
		return m, func() tea.Msg {
			return formSubmitMsg{resource: resource, recordID: recordID, values: values}
		}
	}

	field := m.fields[m.focus]
	if field.Kind == FieldSelect {
		switch keyMsg.String() {
		case "left":
			m.cycleOption(m.focus, -1)
		case "right", " ":
			m.cycleOption(m.focus, 1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	// Currency fields re-group on every keystroke: separators are stripped,
	// the raw digits kept, the display regrouped.
	if field.Kind == FieldCurrency {
		raw := sanitizeAmount(m.inputs[m.focus].Value())
		m.inputs[m.focus].SetValue(FormatThousands(raw))
		m.inputs[m.focus].CursorEnd()
	}

	return m, cmd
}

// sanitizeAmount keeps digits and at most one decimal point.
func sanitizeAmount(s string) string {
	var sb strings.Builder
	dotSeen := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.' && !dotSeen:
			dotSeen = true
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// View renders the modal.
func (m FormModal) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitle.Render(m.title))
	sb.WriteString("\n\n")

	for i, field := range m.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		marker := "  "
		if i == m.focus {
			marker = m.styles.Title.Render("> ")
		}
		sb.WriteString(marker)
		sb.WriteString(m.styles.InputLabel.Render(fmt.Sprintf("%-16s", label)))

		if field.Kind == FieldSelect {
			for j, option := range field.Options {
				if j > 0 {
					sb.WriteString(" ")
				}
				if j == m.selected[i] {
					sb.WriteString(m.styles.TabActive.Render(option))
				} else {
					sb.WriteString(m.styles.Tab.Render(option))
				}
			}
		} else {
			sb.WriteString(m.inputs[i].View())
		}
		sb.WriteString("\n")
	}

	if m.errText != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.FieldError.Render(m.errText))
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Help.Render("tab/↑↓ move · ←→ choose · enter submit · esc cancel"))

	return m.styles.Modal.Render(sb.String())
}
