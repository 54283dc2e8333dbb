package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mamadbah2/farmdesk/internal/api"
)

// trashAction is a pending trash operation awaiting confirmation.
type trashAction int

const (
	trashRestore trashAction = iota
	trashDelete
)

type trashConfirm struct {
	action trashAction
	row    Row
}

// trashClosedMsg tells the owning list page the modal is gone so it can
// reconcile the active list.
type trashClosedMsg struct{ resource string }

// TrashModal is the soft-delete recovery view: a paginated listing of
// trashed records with restore and permanent-delete actions, both behind a
// confirmation step. Failed actions leave the row in place.
type TrashModal struct {
	res      Resource
	styles   Styles
	pageSize int

	state   listState
	rows    []Row
	meta    PageMeta
	err     error
	seq     uint64
	confirm *trashConfirm
	busy    bool

	table table.Model
}

// NewTrashModal builds the modal; the caller issues Open() to load page 0.
func NewTrashModal(res Resource, pageSize int, styles Styles) *TrashModal {
	columns := make([]table.Column, 0, len(res.Columns()))
	for _, col := range res.Columns() {
		columns = append(columns, table.Column{Title: col.Title, Width: col.Width})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return &TrashModal{
		res:      res,
		styles:   styles,
		pageSize: pageSize,
		table:    t,
	}
}

// Open fetches the first page of trashed records.
func (m *TrashModal) Open() tea.Cmd {
	return m.fetch(0)
}

func (m *TrashModal) fetch(page int) tea.Cmd {
	if page < 0 {
		page = 0
	}
	m.state = stateLoading
	m.seq++
	seq := m.seq
	res := m.res
	query := api.ListQuery{Page: page, Size: m.pageSize, Deleted: true}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := res.List(ctx, query)
		if err != nil {
			return trashFailedMsg{resource: res.Name(), seq: seq, err: err}
		}
		return trashLoadedMsg{resource: res.Name(), seq: seq, page: page}
	}
}

func (m *TrashModal) actionCmd(confirm trashConfirm) tea.Cmd {
	res := m.res
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		if confirm.action == trashRestore {
			err = res.Restore(ctx, confirm.row.ID)
		} else {
			err = res.PermanentDelete(ctx, confirm.row.ID)
		}
		return trashActionDoneMsg{resource: res.Name(), action: confirm.action, id: confirm.row.ID, err: err}
	}
}

func (m *TrashModal) setRows() {
	rows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		rows[i] = table.Row(row.Cells)
	}
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *TrashModal) selectedRow() (Row, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[cursor], true
}

// removeLocal drops the row from the in-memory slice after a confirmed
// action succeeded; the trash is not re-fetched for it.
func (m *TrashModal) removeLocal(id string) {
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i:i], m.rows[i+1:]...)
			break
		}
	}
	m.setRows()
}

// Update handles messages while the modal is open. The second return value
// is true when the modal should close.
func (m *TrashModal) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case trashLoadedMsg:
		if msg.resource != m.res.Name() || msg.seq < m.seq {
			return nil, false
		}
		m.state = stateLoaded
		m.rows = msg.page.Rows
		m.meta = msg.page.Meta()
		m.setRows()
		return nil, false

	case trashFailedMsg:
		if msg.resource != m.res.Name() || msg.seq < m.seq {
			return nil, false
		}
		m.state = stateFailed
		m.err = msg.err
		return ShowToast(ToastError, api.UserMessage(msg.err)), false

	case trashActionDoneMsg:
		if msg.resource != m.res.Name() {
			return nil, false
		}
		m.busy = false
		m.confirm = nil
		if msg.err != nil {
			// The row stays listed; the failure is surfaced, nothing retried.
			return ShowToast(ToastError, api.UserMessage(msg.err)), false
		}
		m.removeLocal(msg.id)
		if msg.action == trashRestore {
			return ShowToast(ToastSuccess, "Record restored"), false
		}
		return ShowToast(ToastSuccess, "Record permanently deleted"), false

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return nil, false
}

func (m *TrashModal) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.confirm != nil {
		switch msg.String() {
		case "y", "enter":
			if m.busy {
				return nil, false
			}
			m.busy = true
			return m.actionCmd(*m.confirm), false
		case "n", "esc":
			m.confirm = nil
			return nil, false
		}
		return nil, false
	}

	switch msg.String() {
	case "esc", "q":
		resource := m.res.Name()
		return func() tea.Msg { return trashClosedMsg{resource: resource} }, true
	case "r":
		if row, ok := m.selectedRow(); ok {
			m.confirm = &trashConfirm{action: trashRestore, row: row}
		}
		return nil, false
	case "d":
		if row, ok := m.selectedRow(); ok {
			m.confirm = &trashConfirm{action: trashDelete, row: row}
		}
		return nil, false
	case "left", "[":
		if m.meta.HasPrevious {
			return m.fetch(m.meta.Page - 1), false
		}
		return nil, false
	case "right", "]":
		if m.meta.HasNext {
			return m.fetch(m.meta.Page + 1), false
		}
		return nil, false
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd, false
}

// View renders the trash listing or the confirmation step.
func (m *TrashModal) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.ModalTitle.Render("Trash — " + m.res.Name()))
	sb.WriteString("\n\n")

	if m.confirm != nil {
		name := m.confirm.row.ID
		if len(m.confirm.row.Cells) > 0 {
			name = m.confirm.row.Cells[0]
		}
		if m.confirm.action == trashRestore {
			sb.WriteString(fmt.Sprintf("Restore %q back to the active list?\n\n", name))
		} else {
			sb.WriteString(fmt.Sprintf("Permanently delete %q?\n", name))
			sb.WriteString(warningStyle.Render("This action cannot be undone."))
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.styles.Help.Render("y confirm · n cancel"))
		return m.styles.Modal.Render(sb.String())
	}

	switch m.state {
	case stateLoading:
		sb.WriteString(m.styles.Muted.Render("Loading trash…"))
	case stateFailed:
		sb.WriteString(m.styles.Danger.Render("Could not load trash"))
	default:
		if len(m.rows) == 0 {
			sb.WriteString(m.styles.Muted.Render("Trash is empty"))
		} else {
			sb.WriteString(m.table.View())
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("page %d/%d", m.meta.Page+1, max(m.meta.TotalPages, 1))))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("r restore · d delete forever · ←/→ page · esc close"))

	return m.styles.Modal.Render(sb.String())
}
