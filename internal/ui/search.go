package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mamadbah2/farmdesk/internal/api"
)

const (
	// searchDebounce is how long typing must pause before a query goes out.
	searchDebounce = 320 * time.Millisecond
	// searchMinLength gates requests: shorter queries are never sent.
	searchMinLength = 2
	// searchPageSize caps results fetched per resource.
	searchPageSize = 5
)

// SearchResult is one match: the resource it came from plus its row.
type SearchResult struct {
	Resource string
	Row      Row
}

// SearchOverlay is the global search-as-you-type palette. Keystrokes bump a
// sequence number and schedule a debounce tick; only the tick matching the
// latest sequence issues the query, so typing "pond" within the window
// produces exactly one request. Up/down move the active index through the
// results; enter jumps to the matching resource page.
type SearchOverlay struct {
	resources []Resource
	styles    Styles

	open    bool
	input   textinput.Model
	seq     int
	pending bool
	results []SearchResult
	active  int
}

// NewSearchOverlay builds the overlay over the given resources.
func NewSearchOverlay(resources []Resource, styles Styles) SearchOverlay {
	in := textinput.New()
	in.Placeholder = "Search everything…"
	in.CharLimit = 60
	in.Width = 40
	return SearchOverlay{resources: resources, styles: styles, input: in}
}

// Open shows the overlay with a cleared query.
func (m *SearchOverlay) Open() tea.Cmd {
	m.open = true
	m.input.SetValue("")
	m.results = nil
	m.active = 0
	m.pending = false
	m.input.Focus()
	return textinput.Blink
}

// IsOpen reports overlay visibility.
func (m *SearchOverlay) IsOpen() bool { return m.open }

// SetStyles swaps the style set after a theme change.
func (m *SearchOverlay) SetStyles(styles Styles) { m.styles = styles }

func (m *SearchOverlay) close() {
	m.open = false
	m.input.Blur()
}

// scheduleTick bumps the sequence and arms the debounce timer for it.
func (m *SearchOverlay) scheduleTick() tea.Cmd {
	m.seq++
	seq := m.seq
	m.pending = true
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

// queryCmd fans the query out across every resource list endpoint.
func (m *SearchOverlay) queryCmd(query string) tea.Cmd {
	seq := m.seq
	resources := m.resources
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var results []SearchResult
		for _, res := range resources {
			page, err := res.List(ctx, api.ListQuery{
				Size:    searchPageSize,
				Filters: map[string]string{"search": query},
			})
			if err != nil {
				continue // partial results beat none; failures degrade quietly
			}
			for _, row := range page.Rows {
				results = append(results, SearchResult{Resource: res.Name(), Row: row})
			}
		}
		return searchResultsMsg{seq: seq, results: results}
	}
}

// Update handles messages while the overlay is open.
func (m *SearchOverlay) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchTickMsg:
		if msg.seq != m.seq {
			return nil // superseded by further typing
		}
		m.pending = false
		query := strings.TrimSpace(m.input.Value())
		if len(query) < searchMinLength {
			m.results = nil
			return nil
		}
		return m.queryCmd(query)

	case searchResultsMsg:
		if msg.seq != m.seq {
			return nil
		}
		m.results = msg.results
		if m.active >= len(m.results) {
			m.active = 0
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.close()
			return nil
		case "up":
			if m.active > 0 {
				m.active--
			}
			return nil
		case "down":
			if m.active < len(m.results)-1 {
				m.active++
			}
			return nil
		case "enter":
			if m.active >= len(m.results) {
				return nil
			}
			picked := m.results[m.active]
			query := strings.TrimSpace(m.input.Value())
			m.close()
			return func() tea.Msg {
				return selectSearchMsg{resource: picked.Resource, query: query}
			}
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			return tea.Batch(cmd, m.scheduleTick())
		}
		return cmd
	}

	return nil
}

// View renders the palette with the matched substring highlighted.
func (m *SearchOverlay) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitle.Render("Search"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")

	query := strings.TrimSpace(m.input.Value())
	switch {
	case len(query) < searchMinLength:
		sb.WriteString(m.styles.Muted.Render("Type at least 2 characters"))
	case m.pending:
		sb.WriteString(m.styles.Muted.Render("Searching…"))
	case len(m.results) == 0:
		sb.WriteString(m.styles.Muted.Render("No matches"))
	default:
		for i, result := range m.results {
			label := result.Row.ID
			if len(result.Row.Cells) > 0 {
				label = result.Row.Cells[0]
			}
			line := m.highlight(label, query) + m.styles.Muted.Render("  ("+result.Resource+")")
			if i == m.active {
				line = m.styles.Selected.Render("> ") + line
			} else {
				line = "  " + line
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("↑↓ move · enter open · esc close"))
	return m.styles.Modal.Render(sb.String())
}

// highlight emphasizes the first case-insensitive occurrence of the query.
func (m *SearchOverlay) highlight(label, query string) string {
	idx := strings.Index(strings.ToLower(label), strings.ToLower(query))
	if idx < 0 {
		return m.styles.Body.Render(label)
	}
	return m.styles.Body.Render(label[:idx]) +
		m.styles.Highlight.Render(label[idx:idx+len(query)]) +
		m.styles.Body.Render(label[idx+len(query):])
}
