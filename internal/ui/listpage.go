package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
	"github.com/mamadbah2/farmdesk/internal/export"
)

// listState is the explicit fetch state of a list page. The enum replaces
// separate loading/error booleans so impossible combinations cannot exist.
type listState int

const (
	stateIdle listState = iota
	stateLoading
	stateLoaded
	stateFailed
)

// ListPage is the per-resource screen: filterable paginated table, summary
// cards, create/edit form and the trash modal. Mutations are reconciled
// optimistically against the in-memory page; pagination metadata goes stale
// until the next fetch, which is the sole reconciliation mechanism.
type ListPage struct {
	res       Resource
	styles    Styles
	pageSize  int
	exportDir string

	state listState
	rows  []Row
	meta  PageMeta
	err   error

	// seq tags every issued fetch; responses with an older tag are stale
	// and discarded rather than applied last-write-wins.
	seq uint64

	filters      map[string]string
	activeFilter int
	filterInput  textinput.Model
	filtering    bool

	summary       *models.Summary
	summaryFailed bool

	form  *FormModal
	trash *TrashModal

	table table.Model
	spin  spinner.Model

	width, height int
}

// NewListPage builds the page for one resource.
func NewListPage(res Resource, pageSize int, exportDir string, styles Styles) *ListPage {
	columns := make([]table.Column, 0, len(res.Columns()))
	for _, col := range res.Columns() {
		columns = append(columns, table.Column{Title: col.Title, Width: col.Width})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	fi := textinput.New()
	fi.CharLimit = 40
	fi.Width = 24

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &ListPage{
		res:         res,
		styles:      styles,
		pageSize:    pageSize,
		exportDir:   exportDir,
		filters:     make(map[string]string),
		filterInput: fi,
		table:       t,
		spin:        sp,
	}
}

// Name returns the resource title.
func (m *ListPage) Name() string { return m.res.Name() }

// SetStyles swaps the style set after a theme change.
func (m *ListPage) SetStyles(styles Styles) { m.styles = styles }

// SetSize stores the window dimensions.
func (m *ListPage) SetSize(width, height int) {
	m.width, m.height = width, height
}

// SetFilter replaces one filter value (used by the search overlay jump)
// and refreshes from page 0.
func (m *ListPage) SetFilter(key, value string) tea.Cmd {
	m.filters[key] = value
	return m.fetch(0)
}

// Activate loads page 0 plus the summary; called when the page is shown.
func (m *ListPage) Activate() tea.Cmd {
	return tea.Batch(m.fetch(0), m.fetchSummary(), m.spin.Tick)
}

// Refresh re-fetches the current page and the summary in the existing
// filter context.
func (m *ListPage) Refresh() tea.Cmd {
	return tea.Batch(m.fetch(m.meta.Page), m.fetchSummary())
}

// fetch issues a list request tagged with the next sequence number. Filter
// changes always restart from page 0; pagination keys pass adjacent pages.
func (m *ListPage) fetch(page int) tea.Cmd {
	if page < 0 {
		page = 0
	}
	m.state = stateLoading
	m.seq++
	seq := m.seq
	res := m.res
	query := api.ListQuery{Page: page, Size: m.pageSize, Filters: cloneFilters(m.filters)}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rows, err := res.List(ctx, query)
		if err != nil {
			return listFailedMsg{resource: res.Name(), seq: seq, err: err}
		}
		return listLoadedMsg{resource: res.Name(), seq: seq, page: rows}
	}
}

// fetchSummary loads the cards. A failure degrades to a placeholder dash
// and never blocks the list.
func (m *ListPage) fetchSummary() tea.Cmd {
	res := m.res
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		summary, err := res.Summary(ctx)
		return summaryLoadedMsg{resource: res.Name(), summary: summary, err: err}
	}
}

func (m *ListPage) createCmd(values map[string]string) tea.Cmd {
	res := m.res
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		row, err := res.Create(ctx, values)
		if err != nil {
			return mutationFailedMsg{resource: res.Name(), err: err}
		}
		return createdMsg{resource: res.Name(), row: row}
	}
}

func (m *ListPage) updateCmd(id string, values map[string]string) tea.Cmd {
	res := m.res
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		row, err := res.Update(ctx, id, values)
		if err != nil {
			return mutationFailedMsg{resource: res.Name(), err: err}
		}
		return updatedMsg{resource: res.Name(), row: row}
	}
}

func (m *ListPage) deleteCmd(id string) tea.Cmd {
	res := m.res
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := res.SoftDelete(ctx, id); err != nil {
			return mutationFailedMsg{resource: res.Name(), err: err}
		}
		return deletedMsg{resource: res.Name(), id: id}
	}
}

func (m *ListPage) exportCmd(format api.ExportType) tea.Cmd {
	headers := make([]string, len(m.res.Columns()))
	for i, col := range m.res.Columns() {
		headers[i] = col.Title
	}
	cells := make([][]string, len(m.rows))
	for i, row := range m.rows {
		cells[i] = row.Cells
	}
	sheet := export.Sheet{Name: m.res.Name(), Headers: headers, Rows: cells}
	dir := m.exportDir

	return func() tea.Msg {
		path, err := export.SaveSheet(dir, sheet, format)
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *ListPage) setRows() {
	rows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		rows[i] = table.Row(row.Cells)
	}
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *ListPage) selectedRow() (Row, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[cursor], true
}

// Update routes one message through the page and its sub-modals.
func (m *ListPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if msg.resource != m.res.Name() || msg.seq < m.seq {
			return nil // stale response from a superseded fetch
		}
		m.state = stateLoaded
		m.err = nil
		m.rows = msg.page.Rows
		m.meta = msg.page.Meta()
		if m.meta.Page < 0 {
			m.meta.Page = 0
		}
		m.setRows()
		return nil

	case listFailedMsg:
		if msg.resource != m.res.Name() || msg.seq < m.seq {
			return nil
		}
		m.state = stateFailed
		m.err = msg.err
		return ShowToast(ToastError, api.UserMessage(msg.err))

	case summaryLoadedMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		if msg.err != nil {
			m.summary = nil
			m.summaryFailed = true
			return nil
		}
		summary := msg.summary
		m.summary = &summary
		m.summaryFailed = false
		return nil

	case createdMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		m.form = nil
		// Splice the new record in without re-fetching; meta stays stale.
		m.rows = append([]Row{msg.row}, m.rows...)
		m.setRows()
		return tea.Batch(ShowToast(ToastSuccess, "Record created"), m.fetchSummary())

	case updatedMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		m.form = nil
		for i, row := range m.rows {
			if row.ID == msg.row.ID {
				m.rows[i] = msg.row
				break
			}
		}
		m.setRows()
		return ShowToast(ToastSuccess, "Record updated")

	case deletedMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		// Optimistic removal, then a background reconcile of page + summary.
		for i, row := range m.rows {
			if row.ID == msg.id {
				m.rows = append(m.rows[:i:i], m.rows[i+1:]...)
				break
			}
		}
		m.setRows()
		return tea.Batch(
			ShowToast(ToastSuccess, "Moved to trash"),
			m.fetch(m.meta.Page),
			m.fetchSummary(),
		)

	case mutationFailedMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		if m.form != nil {
			m.form.SetError(api.UserMessage(msg.err))
			return nil
		}
		return ShowToast(ToastError, api.UserMessage(msg.err))

	case formSubmitMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		if msg.recordID == "" {
			return m.createCmd(msg.values)
		}
		return m.updateCmd(msg.recordID, msg.values)

	case formCancelMsg:
		if msg.resource == m.res.Name() {
			m.form = nil
		}
		return nil

	case trashClosedMsg:
		if msg.resource != m.res.Name() {
			return nil
		}
		m.trash = nil
		return m.Refresh()

	case exportDoneMsg:
		if msg.err != nil {
			return ShowToast(ToastError, "Export failed: "+msg.err.Error())
		}
		return ShowToast(ToastSuccess, "Exported to "+msg.path)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd
	}

	if m.form != nil {
		form, cmd := m.form.Update(msg)
		m.form = &form
		return cmd
	}
	if m.trash != nil {
		cmd, closed := m.trash.Update(msg)
		if closed {
			// trashClosedMsg arrives through the command; nothing else here.
			return cmd
		}
		return cmd
	}

	if keyMsg, isKey := msg.(tea.KeyMsg); isKey {
		return m.handleKey(keyMsg)
	}
	return nil
}

func (m *ListPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.filtering {
		switch msg.String() {
		case "enter":
			// Structured filters apply immediately on commit: back to page 0.
			m.filters[m.res.FilterFields()[m.activeFilter].Key] = strings.TrimSpace(m.filterInput.Value())
			m.filtering = false
			m.filterInput.Blur()
			return m.fetch(0)
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			return nil
		case "tab":
			m.activeFilter = (m.activeFilter + 1) % len(m.res.FilterFields())
			m.filterInput.SetValue(m.filters[m.res.FilterFields()[m.activeFilter].Key])
			return nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "/":
		m.filtering = true
		m.filterInput.SetValue(m.filters[m.res.FilterFields()[m.activeFilter].Key])
		m.filterInput.Focus()
		return textinput.Blink
	case "C":
		// Explicit clear resets every filter and refetches from page 0.
		m.filters = make(map[string]string)
		m.filterInput.SetValue("")
		return m.fetch(0)
	case "n":
		form := NewFormModal(m.res.Name(), "New — "+m.res.Name(), m.res.Fields(), m.res.Defaults(), "", m.styles)
		m.form = &form
		return textinput.Blink
	case "e", "enter":
		row, ok := m.selectedRow()
		if !ok {
			return nil
		}
		form := NewFormModal(m.res.Name(), "Edit — "+m.res.Name(), m.res.Fields(), row.Values, row.ID, m.styles)
		m.form = &form
		return textinput.Blink
	case "d":
		if row, ok := m.selectedRow(); ok {
			return m.deleteCmd(row.ID)
		}
		return nil
	case "t":
		m.trash = NewTrashModal(m.res, m.pageSize, m.styles)
		return m.trash.Open()
	case "r":
		return m.Refresh()
	case "x":
		return m.exportCmd(api.ExportCSV)
	case "X":
		return m.exportCmd(api.ExportXLSX)
	case "left", "[":
		if m.meta.HasPrevious && m.meta.Page > 0 {
			return m.fetch(m.meta.Page - 1)
		}
		return nil
	case "right", "]":
		if m.meta.HasNext {
			return m.fetch(m.meta.Page + 1)
		}
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

// View renders the page: summary cards, filter bar, table, status line.
func (m *ListPage) View() string {
	if m.form != nil {
		return m.form.View()
	}
	if m.trash != nil {
		return m.trash.View()
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render(m.res.Name()))
	sb.WriteString("\n\n")
	sb.WriteString(m.summaryCards())
	sb.WriteString("\n")

	if m.filtering {
		field := m.res.FilterFields()[m.activeFilter]
		sb.WriteString(m.styles.InputLabel.Render("Filter "+field.Label+": ") + m.filterInput.View())
		sb.WriteString("\n")
	} else if active := m.activeFilterSummary(); active != "" {
		sb.WriteString(m.styles.Muted.Render("Filters: " + active))
		sb.WriteString("\n")
	}

	switch m.state {
	case stateLoading:
		sb.WriteString(m.spin.View() + m.styles.Muted.Render(" loading…"))
		sb.WriteString("\n")
	case stateFailed:
		sb.WriteString(m.styles.Danger.Render("Could not load " + strings.ToLower(m.res.Name())))
		sb.WriteString("\n")
	default:
		if len(m.rows) == 0 {
			sb.WriteString(m.styles.Muted.Render("No records"))
			sb.WriteString("\n")
		} else {
			sb.WriteString(m.table.View())
			sb.WriteString("\n")
		}
	}

	prev, next := "←", "→"
	if !m.meta.HasPrevious {
		prev = m.styles.Muted.Render("←")
	}
	if !m.meta.HasNext {
		next = m.styles.Muted.Render("→")
	}
	sb.WriteString(fmt.Sprintf("%s page %d/%d %s", prev, m.meta.Page+1, max(m.meta.TotalPages, 1), next))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("n new · e edit · d delete · t trash · / filter · C clear · x/X export · r refresh"))

	return sb.String()
}

func (m *ListPage) summaryCards() string {
	render := func(title, value string) string {
		return m.styles.Card.Render(
			m.styles.CardTitle.Render(title) + "\n" + m.styles.CardValue.Render(value))
	}

	today, month, total := "—", "—", "—"
	if m.summary != nil {
		today = FormatAmount(m.summary.Today)
		month = FormatAmount(m.summary.Month)
		total = FormatAmount(m.summary.Total)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		render("Today", today), " ",
		render("This month", month), " ",
		render("Total", total),
	)
}

func (m *ListPage) activeFilterSummary() string {
	var parts []string
	for _, field := range m.res.FilterFields() {
		if value := m.filters[field.Key]; value != "" {
			parts = append(parts, field.Label+"="+value)
		}
	}
	return strings.Join(parts, "  ")
}

func cloneFilters(filters map[string]string) map[string]string {
	out := make(map[string]string, len(filters))
	for key, value := range filters {
		out[key] = value
	}
	return out
}
